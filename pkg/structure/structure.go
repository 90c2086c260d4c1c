// Package structure turns a goto-style CFG into nested loops, conditionals,
// breaks and continues. The caller decides what a statement is: the engine
// only sequences payloads and calls an Emitter for the structured forms.
package structure

import (
	"github.com/l3aro/go-cfg-structure/pkg/cfg"
)

// Emitter builds the structured statements of the target language.
type Emitter[S, C any] interface {
	// Break leaves the loop identified by header.
	Break(header cfg.Label) S
	// Continue starts the next iteration of the loop identified by header.
	Continue(header cfg.Label) S
	// Loop wraps body in an unconditional loop tagged header.
	Loop(header cfg.Label, body S) S
	// If runs then when cond holds and els otherwise.
	If(cond C, then, els S) S
}

// Funcs adapts four plain functions to the Emitter interface.
type Funcs[S, C any] struct {
	BreakFunc    func(header cfg.Label) S
	ContinueFunc func(header cfg.Label) S
	LoopFunc     func(header cfg.Label, body S) S
	IfFunc       func(cond C, then, els S) S
}

func (f Funcs[S, C]) Break(header cfg.Label) S { return f.BreakFunc(header) }
func (f Funcs[S, C]) Continue(header cfg.Label) S { return f.ContinueFunc(header) }
func (f Funcs[S, C]) Loop(header cfg.Label, body S) S { return f.LoopFunc(header, body) }
func (f Funcs[S, C]) If(cond C, then, els S) S { return f.IfFunc(cond, then, els) }

// Analysis holds everything the engine derives from a graph before emitting.
type Analysis struct {
	Preds      map[cfg.Label]cfg.Set
	Dominators map[cfg.Label]cfg.Set
	Loops      cfg.Forest
	Exits      cfg.Exits
	Breaks     map[cfg.Label]cfg.Set // Loop header to its break targets

	// arrivals is the number of times control must reach a label before
	// it can be emitted in place.
	arrivals map[cfg.Label]int
}

// Analyze runs dominator, loop and exit analysis over g. It returns
// ErrIrreducible when the dominator computation does not verify.
func Analyze[S, C any](g *cfg.CFG[S, C]) (*Analysis, error) {
	dom, ok := cfg.Dominators(g)
	if !ok {
		return nil, ErrIrreducible
	}

	forest := cfg.NestLoops(cfg.NaturalLoops(g, dom))
	exits := cfg.ClassifyExits(g, forest)

	a := &Analysis{
		Preds:      cfg.Predecessors(g),
		Dominators: dom,
		Loops:      forest,
		Exits:      exits,
		Breaks:     cfg.BreakTargets(exits),
		arrivals:   make(map[cfg.Label]int),
	}

	for to, froms := range cfg.InEdges(g) {
		for _, from := range froms {
			if _, isExit := exits[cfg.Edge{From: from, To: to}]; !isExit {
				a.arrivals[to]++
			}
		}
	}
	// A loop reaches its break target once, however many breaks it has.
	for _, targets := range a.Breaks {
		if targets.Cardinality() == 1 {
			a.arrivals[cfg.Sorted(targets)[0]]++
		}
	}

	return a, nil
}

// Structure converts g into a single structured statement. Unreachable blocks
// are ignored; every reachable block payload appears exactly once in the
// result. Graphs that cannot be expressed without duplicating code yield an
// error matching ErrUnstructurable and no statement.
func Structure[S cfg.Sequence[S], C any](e Emitter[S, C], g *cfg.CFG[S, C]) (S, error) {
	var zero S

	live := cfg.Prune(g)
	a, err := Analyze(live)
	if err != nil {
		return zero, err
	}

	s := &structurer[S, C]{
		e:       e,
		g:       live,
		a:       a,
		emitted: make(map[cfg.Label]bool, len(live.Blocks)),
	}

	return s.closed(a.Loops, live.Entry)
}

// pending is a jump that has not been emitted yet because its target still
// waits for other arrivals.
type pending struct {
	from  cfg.Label
	to    cfg.Label
	count int
}

type structurer[S cfg.Sequence[S], C any] struct {
	e       Emitter[S, C]
	g       *cfg.CFG[S, C]
	a       *Analysis
	emitted map[cfg.Label]bool
}

// closed structures the region starting at l, which must not leave any jump pending.
func (s *structurer[S, C]) closed(scope cfg.Forest, l cfg.Label) (S, error) {
	out, p, err := s.walk(scope, l)
	if err != nil {
		return out, err
	}
	if p != nil {
		var zero S
		return zero, &UnexpectedEdgeError{From: p.from, To: p.to}
	}
	return out, nil
}

// walk emits l and whatever follows it in place.
func (s *structurer[S, C]) walk(scope cfg.Forest, l cfg.Label) (S, *pending, error) {
	var zero S

	if loop, ok := scope[l]; ok {
		body, err := s.closed(loop.Nested, l)
		if err != nil {
			return zero, nil, err
		}
		out := s.e.Loop(l, body)

		targets := cfg.Sorted(s.a.Breaks[l])
		switch len(targets) {
		case 0:
			return out, nil, nil
		case 1:
			rest, p, err := s.arrive(scope, l, targets[0], 1)
			if err != nil {
				return zero, nil, err
			}
			return out.Concat(rest), p, nil
		default:
			return zero, nil, &MultipleBreakTargetsError{Header: l, Targets: targets}
		}
	}

	blk, ok := s.g.Blocks[l]
	if !ok {
		return zero, nil, &MissingBlockError{Label: l}
	}
	s.emitted[l] = true
	out := blk.Stmts

	switch blk.Term.Kind {
	case cfg.KindBranch:
		rest, p, err := s.next(scope, l, blk.Term.Then, 1)
		if err != nil {
			return zero, nil, err
		}
		return out.Concat(rest), p, nil

	case cfg.KindCondBranch:
		t, tp, err := s.next(scope, l, blk.Term.Then, 1)
		if err != nil {
			return zero, nil, err
		}
		f, fp, err := s.next(scope, l, blk.Term.Else, 1)
		if err != nil {
			return zero, nil, err
		}

		switch {
		case tp == nil && fp == nil:
			// The true arm never falls through, so the false arm follows it.
			return out.Concat(s.e.If(blk.Term.Cond, t, zero)).Concat(f), nil, nil

		case tp != nil && fp != nil && tp.to == fp.to:
			out = out.Concat(s.e.If(blk.Term.Cond, t, f))
			rest, p, err := s.arrive(scope, l, tp.to, tp.count+fp.count)
			if err != nil {
				return zero, nil, err
			}
			return out.Concat(rest), p, nil

		default:
			return zero, nil, &UnsupportedBranchError{
				From: l,
				Then: armTarget(tp, blk.Term.Then),
				Else: armTarget(fp, blk.Term.Else),
			}
		}

	default:
		return out, nil, nil
	}
}

// next follows the edge from -> to: loop exits become break or continue,
// anything else arrives at to.
func (s *structurer[S, C]) next(scope cfg.Forest, from, to cfg.Label, count int) (S, *pending, error) {
	if x, ok := s.a.Exits[cfg.Edge{From: from, To: to}]; ok {
		if x.Kind == cfg.ContinueTo {
			return s.e.Continue(x.Header), nil, nil
		}
		return s.e.Break(x.Header), nil, nil
	}
	return s.arrive(scope, from, to, count)
}

// arrive emits to in place once count accounts for all of its arrivals and
// defers it otherwise.
func (s *structurer[S, C]) arrive(scope cfg.Forest, from, to cfg.Label, count int) (S, *pending, error) {
	if count != s.a.arrivals[to] {
		var zero S
		return zero, &pending{from: from, to: to, count: count}, nil
	}
	if s.emitted[to] {
		var zero S
		return zero, nil, &UnexpectedEdgeError{From: from, To: to}
	}
	return s.walk(scope, to)
}

func armTarget(p *pending, direct cfg.Label) cfg.Label {
	if p != nil {
		return p.to
	}
	return direct
}
