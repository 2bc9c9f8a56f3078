package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lenshq/lens/internal/classify"
	"github.com/lenshq/lens/internal/mutate"
	"github.com/lenshq/lens/internal/nodepath"
	"github.com/lenshq/lens/internal/session"
)

// NewSetCommand creates the set command: replace the value at a path
// and write the document back.
func NewSetCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <file> <path> <value>",
		Short: "Replace the leaf at a path and save the document",
		Long: "Replaces the value at a path. The raw value string is coerced to " +
			"the kind of the value currently at the path, mirroring how an " +
			"inspector edit surface hands typed values to the mutation engine.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(cmd.OutOrStdout(), root, args[0], args[1], args[2])
		},
	}
}

func runSet(w io.Writer, root *RootOptions, file, rawPath, rawValue string) error {
	doc, err := LoadDocument(file)
	if err != nil {
		return err
	}
	path, err := nodepath.Parse(rawPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "parse path", err)
	}
	out := &OutputFormatter{Format: root.Format, Writer: w, Verbose: root.Verbose}

	prev, ok := classify.Resolve(doc, path)
	if !ok {
		out.Error("PATH_NOT_FOUND", fmt.Sprintf("%s does not resolve in %s", path, file), nil)
		return NewExitError(ExitFailure, "path not found")
	}
	value, err := session.CoerceLike(prev, rawValue)
	if err != nil {
		return WrapExitError(ExitCommandError, "coerce value", err)
	}

	next, err := mutate.SetAtPath(doc, path, value)
	if err != nil {
		return mutationFailure(out, err)
	}
	if err := SaveDocument(file, next); err != nil {
		return err
	}
	out.VerboseLog("set %s in %s", path, file)
	if root.Format == "json" {
		return out.Success(map[string]any{"path": path.String(), "value": value})
	}
	return nil
}

// mutationFailure reports a mutation engine error with its code and
// maps it to the failure exit class.
func mutationFailure(out *OutputFormatter, err error) error {
	code := "MUTATION_FAILED"
	switch {
	case mutate.IsPathNotFound(err):
		code = "PATH_NOT_FOUND"
	case mutate.IsTypeMismatch(err):
		code = "TYPE_MISMATCH"
	}
	out.Error(code, err.Error(), nil)
	return WrapExitError(ExitFailure, "mutation failed", err)
}
