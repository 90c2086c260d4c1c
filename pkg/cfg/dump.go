package cfg

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes a block-by-block listing of g using goto-style terminators.
// It is a diagnostic view of the unstructured graph.
func Dump[S, C any](w io.Writer, g *CFG[S, C], stmts func(S) string, cond func(C) string) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "start @%v\n", g.Entry)
	for _, l := range g.Labels() {
		blk := g.Blocks[l]
		fmt.Fprintf(&sb, "%v:\n", l)

		body := strings.TrimRight(stmts(blk.Stmts), "\n")
		if body != "" {
			for _, line := range strings.Split(body, "\n") {
				sb.WriteString("    ")
				sb.WriteString(line)
				sb.WriteByte('\n')
			}
		}

		switch blk.Term.Kind {
		case KindBranch:
			fmt.Fprintf(&sb, "    goto %v;\n", blk.Term.Then)
		case KindCondBranch:
			fmt.Fprintf(&sb, "    if (%s) goto %v; else goto %v;\n", cond(blk.Term.Cond), blk.Term.Then, blk.Term.Else)
		default:
			sb.WriteString("    unreachable;\n")
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// Sprint returns the Dump listing of g as a string.
func Sprint[S, C any](g *CFG[S, C], stmts func(S) string, cond func(C) string) string {
	var sb strings.Builder
	_ = Dump(&sb, g, stmts, cond)
	return sb.String()
}
