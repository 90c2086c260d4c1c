package commands

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-cfg-structure/pkg/cfg"
	"github.com/l3aro/go-cfg-structure/pkg/graphfile"
	"github.com/l3aro/go-cfg-structure/pkg/structure"
)

// LoopsOutput is the loop analysis of one function.
type LoopsOutput struct {
	Function     string              `json:"function"`
	Reducible    bool                `json:"reducible"`
	Dominators   map[string][]string `json:"dominators,omitempty"`
	Loops        []LoopOutput        `json:"loops,omitempty"`
	Exits        []ExitOutput        `json:"exits,omitempty"`
	BreakTargets map[string][]string `json:"break_targets,omitempty"`
	Error        string              `json:"error,omitempty"`
}

// LoopOutput describes one natural loop.
type LoopOutput struct {
	Header  string   `json:"header"`
	Members []string `json:"members"`
	Depth   int      `json:"depth"`
}

// ExitOutput describes one edge leaving a loop body.
type ExitOutput struct {
	From string `json:"from"`
	To   string `json:"to"`
	Kind string `json:"kind"`
	Loop string `json:"loop"`
}

// loopsCmd represents the loops command
var loopsCmd = &cobra.Command{
	Use:   "loops <file> [function]",
	Short: "Show dominators, natural loops and loop exits",
	Long: `Runs the analyses the structuring engine relies on and prints, per function,
the dominator sets, the loop nesting forest, every loop exit edge classified
as break or continue, and the break targets of each loop.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) > 1 {
			name = args[1]
		}

		fns, err := loadFunctions(args[0], name)
		if err != nil {
			return err
		}

		eliminate, _ := cmd.Flags().GetBool("eliminate-empty")
		outputs := make([]LoopsOutput, 0, len(fns))
		for _, fn := range fns {
			outputs = append(outputs, analyzeLoops(fn, eliminate))
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		if jsonOutput {
			data, err := json.MarshalIndent(outputs, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Println(string(data))
		} else {
			for i, out := range outputs {
				if i > 0 {
					fmt.Println()
				}
				printLoops(out)
			}
		}

		failed := 0
		for _, out := range outputs {
			if out.Error != "" {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d functions have no usable loop structure", failed, len(outputs))
		}
		return nil
	},
}

func init() {
	loopsCmd.Flags().BoolP("json", "j", false, "Output as JSON")
	loopsCmd.Flags().BoolP("eliminate-empty", "e", false, "Collapse empty redirect blocks first")
}

func analyzeLoops(fn *graphfile.Function, eliminate bool) LoopsOutput {
	g := fn.Graph
	if eliminate {
		g = cfg.RemoveEmptyBlocks(g)
	}
	g = cfg.Prune(g)
	out := LoopsOutput{Function: fn.Name}

	a, err := structure.Analyze(g)
	if err != nil {
		out.Error = err.Error()
		logger.Debug("loop analysis failed", "function", fn.Name, "error", err)
		return out
	}
	out.Reducible = true

	if err := cfg.CheckNesting(a.Loops); err != nil {
		out.Error = err.Error()
	}

	out.Dominators = make(map[string][]string, len(a.Dominators))
	for l, dom := range a.Dominators {
		out.Dominators[l.String()] = labelStrings(cfg.Sorted(dom))
	}

	a.Loops.Walk(func(l *cfg.Loop, depth int) {
		out.Loops = append(out.Loops, LoopOutput{
			Header:  l.Header.String(),
			Members: labelStrings(cfg.Sorted(l.Members)),
			Depth:   depth,
		})
	})

	edges := make([]cfg.Edge, 0, len(a.Exits))
	for e := range a.Exits {
		edges = append(edges, e)
	}
	slices.SortFunc(edges, func(x, y cfg.Edge) int {
		return cmpOr(cmp.Compare(x.From, y.From), cmp.Compare(x.To, y.To))
	})
	for _, e := range edges {
		x := a.Exits[e]
		out.Exits = append(out.Exits, ExitOutput{
			From: e.From.String(),
			To:   e.To.String(),
			Kind: x.Kind.String(),
			Loop: x.Header.String(),
		})
	}

	out.BreakTargets = make(map[string][]string, len(a.Breaks))
	for h, targets := range a.Breaks {
		out.BreakTargets[h.String()] = labelStrings(cfg.Sorted(targets))
	}

	logger.Debug("analyzed loops", "function", fn.Name, "loops", len(out.Loops), "exits", len(out.Exits))
	return out
}

func printLoops(out LoopsOutput) {
	fmt.Printf("// %s\n", out.Function)
	if !out.Reducible {
		fmt.Println(out.Error)
		return
	}

	fmt.Println("dominators:")
	for _, l := range sortedKeys(out.Dominators) {
		fmt.Printf("  %s: %s\n", l, strings.Join(out.Dominators[l], " "))
	}

	fmt.Println("loops:")
	if len(out.Loops) == 0 {
		fmt.Println("  (none)")
	}
	for _, l := range out.Loops {
		fmt.Printf("%s%s {%s}\n", strings.Repeat("  ", l.Depth+1), l.Header, strings.Join(l.Members, ", "))
	}

	if len(out.Exits) > 0 {
		fmt.Println("exits:")
		for _, x := range out.Exits {
			fmt.Printf("  %s->%s %s %s\n", x.From, x.To, x.Kind, x.Loop)
		}
	}

	if len(out.BreakTargets) > 0 {
		fmt.Println("break targets:")
		for _, h := range sortedKeys(out.BreakTargets) {
			fmt.Printf("  %s: %s\n", h, strings.Join(out.BreakTargets[h], " "))
		}
	}

	if out.Error != "" {
		fmt.Printf("warning: %s\n", out.Error)
	}
}

func labelStrings(ls []cfg.Label) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.String()
	}
	return out
}

// sortedKeys orders label keys numerically, so L10 sorts after L9.
func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		return cmpOr(cmp.Compare(len(a), len(b)), strings.Compare(a, b))
	})
	return keys
}

// cmpOr returns the first of its arguments that is not zero, mirroring
// cmp.Or (Go 1.22+) for toolchains that predate it.
func cmpOr(vals ...int) int {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}
