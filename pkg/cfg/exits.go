package cfg

import "fmt"

// ExitKind tells how an edge leaves a loop body.
type ExitKind int

const (
	BreakFrom  ExitKind = iota // Edge to a block outside the loop
	ContinueTo                 // Edge back to the loop header
)

func (k ExitKind) String() string {
	if k == ContinueTo {
		return "continue"
	}
	return "break"
}

// Exit classifies one edge leaving the body of the loop headed by Header.
type Exit struct {
	Kind   ExitKind
	Header Label
}

func (e Exit) String() string {
	return fmt.Sprintf("%v %v", e.Kind, e.Header)
}

// Exits maps loop exit edges to their classification.
type Exits map[Edge]Exit

// ClassifyExits labels every edge leaving a loop body as a break from the loop
// or a continue to its header. An edge leaving several loops at once is
// attributed to the outermost one.
func ClassifyExits[S, C any](g *CFG[S, C], forest Forest) Exits {
	exits := make(Exits)

	var classify func(f Forest)
	classify = func(f Forest) {
		for _, h := range f.Headers() {
			l := f[h]
			for _, from := range Sorted(l.Members) {
				for _, to := range g.Successors(from) {
					e := Edge{From: from, To: to}
					if _, taken := exits[e]; taken {
						continue
					}
					switch {
					case to == h:
						exits[e] = Exit{Kind: ContinueTo, Header: h}
					case !l.Members.Contains(to):
						exits[e] = Exit{Kind: BreakFrom, Header: h}
					}
				}
			}
			classify(l.Nested)
		}
	}
	classify(forest)

	return exits
}

// BreakTargets returns, per loop header, the distinct blocks its break edges lead to.
func BreakTargets(exits Exits) map[Label]Set {
	targets := make(map[Label]Set)
	for e, x := range exits {
		if x.Kind != BreakFrom {
			continue
		}
		s, ok := targets[x.Header]
		if !ok {
			s = NewSet()
			targets[x.Header] = s
		}
		s.Add(e.To)
	}
	return targets
}
