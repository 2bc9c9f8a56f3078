package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/lenshq/lens/internal/mutate"
	"github.com/lenshq/lens/internal/nodepath"
)

// NewDeleteCommand creates the delete command: remove the node at a
// path and write the document back.
func NewDeleteCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <file> <path>",
		Aliases: []string{"del"},
		Short:   "Remove the node at a path and save the document",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd.OutOrStdout(), root, args[0], args[1])
		},
	}
}

func runDelete(w io.Writer, root *RootOptions, file, rawPath string) error {
	doc, err := LoadDocument(file)
	if err != nil {
		return err
	}
	path, err := nodepath.Parse(rawPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "parse path", err)
	}
	out := &OutputFormatter{Format: root.Format, Writer: w, Verbose: root.Verbose}

	next, err := mutate.DeleteAtPath(doc, path)
	if err != nil {
		return mutationFailure(out, err)
	}
	if err := SaveDocument(file, next); err != nil {
		return err
	}
	out.VerboseLog("deleted %s from %s", path, file)
	if root.Format == "json" {
		return out.Success(map[string]any{"path": path.String()})
	}
	return nil
}
