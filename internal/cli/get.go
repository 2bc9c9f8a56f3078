package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lenshq/lens/internal/classify"
	"github.com/lenshq/lens/internal/nodepath"
)

// NewGetCommand creates the get command: resolve a path in a document
// and print the addressed value.
func NewGetCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <file> <path>",
		Short: "Print the value at a path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd.OutOrStdout(), root, args[0], args[1])
		},
	}
}

func runGet(w io.Writer, root *RootOptions, file, rawPath string) error {
	doc, err := LoadDocument(file)
	if err != nil {
		return err
	}
	path, err := nodepath.Parse(rawPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "parse path", err)
	}
	value, ok := classify.Resolve(doc, path)
	out := &OutputFormatter{Format: root.Format, Writer: w, Verbose: root.Verbose}
	if !ok {
		out.Error("PATH_NOT_FOUND", fmt.Sprintf("%s does not resolve in %s", path, file), nil)
		return NewExitError(ExitFailure, "path not found")
	}
	if root.Format == "json" {
		return out.Success(value)
	}
	data, err := json.Marshal(value)
	if err != nil {
		return WrapExitError(ExitCommandError, "encode value", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
