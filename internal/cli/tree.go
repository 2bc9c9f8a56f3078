package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lenshq/lens/internal/classify"
	"github.com/lenshq/lens/internal/config"
	"github.com/lenshq/lens/internal/expand"
	"github.com/lenshq/lens/internal/flatten"
)

// TreeOptions holds flags for the tree command.
type TreeOptions struct {
	MaxDepth   int
	MaxItems   int
	ExpandAll  bool
	Expand     []string
	ConfigPath string
}

// NewTreeCommand creates the tree command: flatten a document and
// print the resulting node sequence.
func NewTreeCommand(root *RootOptions) *cobra.Command {
	opts := &TreeOptions{}

	cmd := &cobra.Command{
		Use:   "tree <file>",
		Short: "Flatten a JSON or YAML document into a navigable tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(cmd.OutOrStdout(), root, opts, args[0])
		},
	}

	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "depth ceiling (0 = default)")
	cmd.Flags().IntVar(&opts.MaxItems, "max-items", 0, "per-level item ceiling (0 = default)")
	cmd.Flags().BoolVar(&opts.ExpandAll, "expand-all", true, "expand every container (bounded by ceilings)")
	cmd.Flags().StringArrayVar(&opts.Expand, "expand", nil, "node id to expand (repeatable; implies --expand-all=false)")
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "inspector config file (CUE)")

	return cmd
}

func runTree(w io.Writer, root *RootOptions, opts *TreeOptions, file string) error {
	doc, err := LoadDocument(file)
	if err != nil {
		return err
	}
	limits, err := treeLimits(opts)
	if err != nil {
		return err
	}

	var expanded flatten.Expanded
	if len(opts.Expand) > 0 {
		expanded = expand.New(opts.Expand...)
	} else if opts.ExpandAll {
		expanded = flatten.ExpandAll{}
	} else {
		expanded = expand.New()
	}

	nodes := flatten.Flatten(doc, expanded, limits)
	out := &OutputFormatter{Format: root.Format, Writer: w, Verbose: root.Verbose}
	out.VerboseLog("flattened %d nodes from %s", len(nodes), file)

	if root.Format == "json" {
		return out.Success(nodeViews(nodes))
	}
	for _, n := range nodes {
		fmt.Fprintln(w, renderLine(n))
	}
	return nil
}

// treeLimits merges the config file (if given) with flag overrides.
func treeLimits(opts *TreeOptions) (flatten.Limits, error) {
	limits := flatten.Limits{MaxDepth: opts.MaxDepth, MaxItemsPerLevel: opts.MaxItems}
	if opts.ConfigPath == "" {
		return limits, nil
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return limits, WrapExitError(ExitCommandError, "load config", err)
	}
	if limits.MaxDepth == 0 {
		limits.MaxDepth = cfg.Limits.MaxDepth
	}
	if limits.MaxItemsPerLevel == 0 {
		limits.MaxItemsPerLevel = cfg.Limits.MaxItemsPerLevel
	}
	return limits, nil
}

// NodeView is the JSON projection of one flattened node.
type NodeView struct {
	ID            string `json:"id"`
	Key           string `json:"key"`
	Kind          string `json:"kind"`
	Depth         int    `json:"depth"`
	Value         string `json:"value"`
	IsExpandable  bool   `json:"is_expandable"`
	IsExpanded    bool   `json:"is_expanded"`
	ChildCount    int    `json:"child_count"`
	ParentID      string `json:"parent_id,omitempty"`
	SiblingIndex  int    `json:"sibling_index"`
	TotalSiblings int    `json:"total_siblings"`
	IsLastChild   bool   `json:"is_last_child"`
}

func nodeViews(nodes []flatten.Node) []NodeView {
	out := make([]NodeView, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, NodeView{
			ID:            n.ID,
			Key:           n.Key,
			Kind:          n.Kind.String(),
			Depth:         n.Depth,
			Value:         ValueSummary(n.Value, n.Kind),
			IsExpandable:  n.IsExpandable,
			IsExpanded:    n.IsExpanded,
			ChildCount:    n.ChildCount,
			ParentID:      n.ParentID,
			SiblingIndex:  n.SiblingIndex,
			TotalSiblings: n.TotalSiblings,
			IsLastChild:   n.IsLastChild,
		})
	}
	return out
}

// renderLine prints one node with indent guides derived from the
// sibling metadata.
func renderLine(n flatten.Node) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", n.Depth))
	if n.Depth > 0 {
		if n.IsLastChild {
			b.WriteString("└─ ")
		} else {
			b.WriteString("├─ ")
		}
	}
	b.WriteString(n.Key)
	b.WriteString(": ")
	b.WriteString(ValueSummary(n.Value, n.Kind))
	return b.String()
}

// ValueSummary renders a one-line preview of a value for its kind.
func ValueSummary(v any, kind classify.Kind) string {
	switch kind {
	case classify.KindCircular:
		return "(circular)"
	case classify.KindNil:
		return "null"
	case classify.KindString:
		return fmt.Sprintf("%q", v)
	case classify.KindRecord:
		return fmt.Sprintf("{%d fields}", classify.CountChildren(v, int(^uint(0)>>1)))
	case classify.KindAssoc:
		return fmt.Sprintf("{%d keys}", classify.CountChildren(v, int(^uint(0)>>1)))
	case classify.KindSet:
		return fmt.Sprintf("{%d elements}", classify.CountChildren(v, int(^uint(0)>>1)))
	case classify.KindSequence:
		return fmt.Sprintf("[%d items]", classify.CountChildren(v, int(^uint(0)>>1)))
	default:
		return fmt.Sprintf("%v", v)
	}
}
