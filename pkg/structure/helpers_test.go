package structure_test

import (
	"math/rand"
	"strings"

	"github.com/l3aro/go-cfg-structure/pkg/cfg"
	"github.com/l3aro/go-cfg-structure/pkg/stmt"
)

type graphCFG = cfg.CFG[stmt.Block, string]

type block = cfg.BasicBlock[stmt.Block, string]

func blk(term cfg.Terminator[string], texts ...string) block {
	return block{Stmts: stmt.Raw(texts...), Term: term}
}

func jump(to cfg.Label) cfg.Terminator[string] { return cfg.Branch[string](to) }

func ifGoto(c string, t, f cfg.Label) cfg.Terminator[string] { return cfg.CondBranch(c, t, f) }

func end() cfg.Terminator[string] { return cfg.Unreachable[string]() }

func graph(entry cfg.Label, blocks map[cfg.Label]block) *graphCFG {
	return &graphCFG{Entry: entry, Blocks: blocks}
}

// oracle answers conditions from a seeded random sequence, so two runs that
// ask the same questions in the same order get the same answers.
func oracle(seed uint64) func(string) bool {
	r := rand.New(rand.NewSource(int64(seed)))
	return func(string) bool { return r.Intn(3) > 0 }
}

// isReturn reports whether a raw statement ends the function.
func isReturn(text string) bool {
	return strings.HasPrefix(text, "return")
}

// runGraph executes g directly and records every statement and condition
// until the function ends or limit events were recorded.
func runGraph(g *graphCFG, decide func(string) bool, limit int) []string {
	var trace []string
	l := g.Entry
	for {
		b, ok := g.Blocks[l]
		if !ok {
			return append(trace, "missing "+l.String())
		}
		for _, text := range b.Stmts.Texts() {
			trace = append(trace, text)
			if len(trace) >= limit || isReturn(text) {
				return trace
			}
		}
		switch b.Term.Kind {
		case cfg.KindBranch:
			l = b.Term.Then
		case cfg.KindCondBranch:
			trace = append(trace, "?"+b.Term.Cond)
			if len(trace) >= limit {
				return trace
			}
			if decide(b.Term.Cond) {
				l = b.Term.Then
			} else {
				l = b.Term.Else
			}
		default:
			return trace
		}
	}
}

type signal int

const (
	sigNone signal = iota
	sigBreak
	sigContinue
	sigHalt
)

// machine executes a structured block the same way runGraph executes a graph.
type machine struct {
	decide func(string) bool
	limit  int
	trace  []string
}

func runBlock(b stmt.Block, decide func(string) bool, limit int) []string {
	m := &machine{decide: decide, limit: limit}
	m.run(b)
	return m.trace
}

func (m *machine) record(event string) bool {
	m.trace = append(m.trace, event)
	return len(m.trace) >= m.limit
}

func (m *machine) run(b stmt.Block) (signal, cfg.Label) {
	for _, s := range b {
		switch s.Kind {
		case stmt.KindRaw:
			if m.record(s.Text) || isReturn(s.Text) {
				return sigHalt, 0
			}
		case stmt.KindIf:
			if m.record("?" + s.Cond) {
				return sigHalt, 0
			}
			arm := s.Else
			if m.decide(s.Cond) {
				arm = s.Body
			}
			if sig, l := m.run(arm); sig != sigNone {
				return sig, l
			}
		case stmt.KindLoop:
			for {
				sig, l := m.run(s.Body)
				if sig == sigBreak && l == s.Label {
					break
				}
				if sig == sigContinue && l == s.Label {
					continue
				}
				if sig != sigNone {
					return sig, l
				}
			}
		case stmt.KindBreak:
			return sigBreak, s.Label
		case stmt.KindContinue:
			return sigContinue, s.Label
		}
	}
	return sigNone, 0
}

// reachablePayloads returns the raw statements of every reachable block.
func reachablePayloads(g *graphCFG) []string {
	var out []string
	for _, l := range cfg.Sorted(cfg.Reachable(g)) {
		out = append(out, g.Blocks[l].Stmts.Texts()...)
	}
	return out
}
