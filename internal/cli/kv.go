package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lenshq/lens/internal/classify"
	"github.com/lenshq/lens/internal/flatten"
	"github.com/lenshq/lens/internal/nodepath"
	"github.com/lenshq/lens/internal/session"
	"github.com/lenshq/lens/internal/source"
)

// KVOptions holds flags shared by the kv subcommands.
type KVOptions struct {
	DB string
}

// NewKVCommand creates the kv command group for inspecting and editing
// a persisted key/value entry database.
func NewKVCommand(root *RootOptions) *cobra.Command {
	opts := &KVOptions{}

	cmd := &cobra.Command{
		Use:   "kv",
		Short: "Inspect and edit persisted key/value entries",
	}
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "lens.db", "entry database path")

	cmd.AddCommand(newKVListCommand(root, opts))
	cmd.AddCommand(newKVPutCommand(root, opts))
	cmd.AddCommand(newKVTreeCommand(root, opts))
	cmd.AddCommand(newKVSetCommand(root, opts))
	cmd.AddCommand(newKVDeleteCommand(root, opts))

	return cmd
}

func openKV(opts *KVOptions) (*source.KV, error) {
	kv, err := source.OpenKV("kv", opts.DB)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open database", err)
	}
	return kv, nil
}

func newKVListCommand(root *RootOptions, opts *KVOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List entry keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kv, err := openKV(opts)
			if err != nil {
				return err
			}
			defer kv.Close()
			keys, err := kv.Keys()
			if err != nil {
				return WrapExitError(ExitCommandError, "list entries", err)
			}
			out := &OutputFormatter{Format: root.Format, Writer: cmd.OutOrStdout(), Verbose: root.Verbose}
			if root.Format == "json" {
				return out.Success(keys)
			}
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
}

func newKVPutCommand(root *RootOptions, opts *KVOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "put <key> <json>",
		Short: "Store a JSON document under a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kv, err := openKV(opts)
			if err != nil {
				return err
			}
			defer kv.Close()
			var value any
			if err := json.Unmarshal([]byte(args[1]), &value); err != nil {
				return WrapExitError(ExitCommandError, "parse value", err)
			}
			if err := kv.Put(args[0], value); err != nil {
				return WrapExitError(ExitCommandError, "store entry", err)
			}
			out := &OutputFormatter{Format: root.Format, Writer: cmd.OutOrStdout(), Verbose: root.Verbose}
			out.VerboseLog("stored %s", args[0])
			if root.Format == "json" {
				return out.Success(map[string]any{"key": args[0]})
			}
			return nil
		},
	}
}

func newKVTreeCommand(root *RootOptions, opts *KVOptions) *cobra.Command {
	var maxDepth, maxItems int
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Flatten the whole entry database into a tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kv, err := openKV(opts)
			if err != nil {
				return err
			}
			defer kv.Close()
			doc, err := kv.Root()
			if err != nil {
				return WrapExitError(ExitCommandError, "load entries", err)
			}
			limits := flatten.Limits{MaxDepth: maxDepth, MaxItemsPerLevel: maxItems}
			nodes := flatten.Flatten(doc, flatten.ExpandAll{}, limits)
			out := &OutputFormatter{Format: root.Format, Writer: cmd.OutOrStdout(), Verbose: root.Verbose}
			if root.Format == "json" {
				return out.Success(nodeViews(nodes))
			}
			for _, n := range nodes {
				fmt.Fprintln(cmd.OutOrStdout(), renderLine(n))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "depth ceiling (0 = default)")
	cmd.Flags().IntVar(&maxItems, "max-items", 0, "per-level item ceiling (0 = default)")
	return cmd
}

func newKVSetCommand(root *RootOptions, opts *KVOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <path> <value>",
		Short: "Replace the leaf at a path inside an entry",
		Long: "The path's first segment is the entry key, e.g. " +
			"$.orders[0].total. The raw value is coerced to the kind of the " +
			"value currently at the path.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKVSet(cmd.OutOrStdout(), root, opts, args[0], args[1])
		},
	}
}

func runKVSet(w io.Writer, root *RootOptions, opts *KVOptions, rawPath, rawValue string) error {
	kv, err := openKV(opts)
	if err != nil {
		return err
	}
	defer kv.Close()
	path, err := nodepath.Parse(rawPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "parse path", err)
	}
	out := &OutputFormatter{Format: root.Format, Writer: w, Verbose: root.Verbose}

	doc, err := kv.Root()
	if err != nil {
		return WrapExitError(ExitCommandError, "load entries", err)
	}
	prev, ok := classify.Resolve(doc, path)
	if !ok {
		out.Error("PATH_NOT_FOUND", fmt.Sprintf("%s does not resolve", path), nil)
		return NewExitError(ExitFailure, "path not found")
	}
	value, err := session.CoerceLike(prev, rawValue)
	if err != nil {
		return WrapExitError(ExitCommandError, "coerce value", err)
	}
	if err := kv.Set(path, value); err != nil {
		return mutationFailure(out, err)
	}
	out.VerboseLog("set %s", path)
	if root.Format == "json" {
		return out.Success(map[string]any{"path": path.String(), "value": value})
	}
	return nil
}

func newKVDeleteCommand(root *RootOptions, opts *KVOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <path>",
		Aliases: []string{"del"},
		Short:   "Remove the node at a path (whole entries included)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kv, err := openKV(opts)
			if err != nil {
				return err
			}
			defer kv.Close()
			path, err := nodepath.Parse(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "parse path", err)
			}
			out := &OutputFormatter{Format: root.Format, Writer: cmd.OutOrStdout(), Verbose: root.Verbose}
			if err := kv.Delete(path); err != nil {
				return mutationFailure(out, err)
			}
			out.VerboseLog("deleted %s", path)
			if root.Format == "json" {
				return out.Success(map[string]any{"path": path.String()})
			}
			return nil
		},
	}
}
