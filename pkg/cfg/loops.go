package cfg

import (
	"fmt"
	"slices"
)

// Loop is a natural loop together with the loops nested inside it.
type Loop struct {
	Header  Label
	Members Set    // Header and every block of the body
	Nested  Forest // Loops strictly inside this one
}

// Forest maps loop headers to loops at one level of nesting.
type Forest map[Label]*Loop

// Headers returns the loop headers of f in ascending order.
func (f Forest) Headers() []Label {
	hs := make([]Label, 0, len(f))
	for h := range f {
		hs = append(hs, h)
	}
	slices.Sort(hs)
	return hs
}

// Walk calls fn for every loop in f, outer loops before the loops they contain.
func (f Forest) Walk(fn func(l *Loop, depth int)) {
	f.walk(fn, 0)
}

func (f Forest) walk(fn func(l *Loop, depth int), depth int) {
	for _, h := range f.Headers() {
		l := f[h]
		fn(l, depth)
		l.Nested.walk(fn, depth+1)
	}
}

// Find returns the loop with header h at any depth.
func (f Forest) Find(h Label) (*Loop, bool) {
	if l, ok := f[h]; ok {
		return l, true
	}
	for _, l := range f {
		if found, ok := l.Nested.Find(h); ok {
			return found, true
		}
	}
	return nil, false
}

// BackEdges returns, per loop header, the blocks with an edge into it that the
// header dominates. dom must come from a successful Dominators call.
func BackEdges[S, C any](g *CFG[S, C], dom map[Label]Set) map[Label]Set {
	preds := Predecessors(g)
	back := make(map[Label]Set)

	for to, from := range preds {
		for _, p := range Sorted(from) {
			if !Dominates(dom, to, p) {
				continue
			}
			s, ok := back[to]
			if !ok {
				s = NewSet()
				back[to] = s
			}
			s.Add(p)
		}
	}

	return back
}

// NaturalLoops returns the member set of the natural loop of every header:
// the header plus every block that reaches a back-edge source without
// passing through the header.
func NaturalLoops[S, C any](g *CFG[S, C], dom map[Label]Set) map[Label]Set {
	preds := Predecessors(g)
	loops := make(map[Label]Set)

	for header, sources := range BackEdges(g, dom) {
		members := NewSet(header)
		frontier := sources.Clone()

		for frontier.Cardinality() > 0 {
			added := frontier.Difference(members)
			members = members.Union(added)

			next := NewSet()
			for _, l := range Sorted(added) {
				next = next.Union(predsOf(preds, l))
			}
			frontier = next.Difference(members)
		}

		loops[header] = members
	}

	return loops
}

// NestLoops arranges loops into a forest. Loops are inserted smallest first
// (ties broken by header); every top-level loop whose header belongs to the
// loop being inserted moves under it.
func NestLoops(loops map[Label]Set) Forest {
	headers := make([]Label, 0, len(loops))
	for h := range loops {
		headers = append(headers, h)
	}
	slices.SortFunc(headers, func(a, b Label) int {
		if d := loops[a].Cardinality() - loops[b].Cardinality(); d != 0 {
			return d
		}
		return int(a) - int(b)
	})

	forest := make(Forest)
	for _, h := range headers {
		members := loops[h]
		nested := make(Forest)
		for inner, l := range forest {
			if members.Contains(inner) {
				nested[inner] = l
				delete(forest, inner)
			}
		}
		forest[h] = &Loop{Header: h, Members: members, Nested: nested}
	}

	return forest
}

// NestingError reports two loops whose bodies partially overlap.
type NestingError struct {
	A, B Label
}

func (e *NestingError) Error() string {
	return fmt.Sprintf("loops %v and %v overlap without nesting", e.A, e.B)
}

// CheckNesting verifies that every loop contains its nested loops and that
// sibling loops are disjoint. It fails only for irreducible input.
func CheckNesting(f Forest) error {
	hs := f.Headers()
	for i, a := range hs {
		la := f[a]
		if !la.Members.Contains(a) {
			return fmt.Errorf("loop %v does not contain its header", a)
		}
		for _, inner := range la.Nested {
			if !inner.Members.IsProperSubset(la.Members) {
				return &NestingError{A: a, B: inner.Header}
			}
		}
		for _, b := range hs[i+1:] {
			if f[b].Members.Intersect(la.Members).Cardinality() > 0 {
				return &NestingError{A: a, B: b}
			}
		}
		if err := CheckNesting(la.Nested); err != nil {
			return err
		}
	}
	return nil
}
