// Package cfg defines data structures for representing Control Flow Graphs (CFGs)
// built from goto-style branching, and the analyses needed to recover
// structured control flow from them: predecessors, dominators, natural loops,
// loop nesting and loop exit edges.
package cfg

import (
	"fmt"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// Label identifies one basic block. Labels are dense and assigned
// monotonically from 0 by a Builder.
type Label int

func (l Label) String() string {
	return fmt.Sprintf("L%d", int(l))
}

// TermKind represents the shape of a block terminator.
type TermKind int

const (
	KindUnreachable TermKind = iota // Block falls off the end, no successors
	KindBranch                      // Unconditional jump
	KindCondBranch                  // Two-way conditional jump
)

func (k TermKind) String() string {
	switch k {
	case KindUnreachable:
		return "unreachable"
	case KindBranch:
		return "branch"
	case KindCondBranch:
		return "cond_branch"
	default:
		return "unknown"
	}
}

// Terminator describes how control leaves a basic block.
// Cond is only meaningful for KindCondBranch; Else only for KindCondBranch.
type Terminator[C any] struct {
	Kind TermKind
	Cond C
	Then Label // Branch target, or the true target of a conditional
	Else Label // False target of a conditional
}

// Unreachable returns a terminator with no successors.
func Unreachable[C any]() Terminator[C] {
	return Terminator[C]{Kind: KindUnreachable}
}

// Branch returns an unconditional jump to to.
func Branch[C any](to Label) Terminator[C] {
	return Terminator[C]{Kind: KindBranch, Then: to}
}

// CondBranch returns a conditional jump to t when cond holds and to f otherwise.
func CondBranch[C any](cond C, t, f Label) Terminator[C] {
	return Terminator[C]{Kind: KindCondBranch, Cond: cond, Then: t, Else: f}
}

// Successors returns the jump targets in order, true arm first.
func (t Terminator[C]) Successors() []Label {
	switch t.Kind {
	case KindBranch:
		return []Label{t.Then}
	case KindCondBranch:
		return []Label{t.Then, t.Else}
	default:
		return nil
	}
}

// Map returns a copy of t with every target rewritten by f.
func (t Terminator[C]) Map(f func(Label) Label) Terminator[C] {
	switch t.Kind {
	case KindBranch:
		t.Then = f(t.Then)
	case KindCondBranch:
		t.Then = f(t.Then)
		t.Else = f(t.Else)
	}
	return t
}

// BasicBlock is a straight-line statement payload followed by a terminator.
type BasicBlock[S, C any] struct {
	Stmts S
	Term  Terminator[C]
}

// CFG is a complete control flow graph: an entry label and its blocks.
// Terminators may name labels with no block; such references are reported
// by the stage that dereferences them.
type CFG[S, C any] struct {
	Entry  Label
	Blocks map[Label]BasicBlock[S, C]
}

// Labels returns the labels of all blocks in ascending order.
func (g *CFG[S, C]) Labels() []Label {
	labels := make([]Label, 0, len(g.Blocks))
	for l := range g.Blocks {
		labels = append(labels, l)
	}
	slices.Sort(labels)
	return labels
}

// Successors returns the targets of the block at l, or nil if there is no such block.
func (g *CFG[S, C]) Successors(l Label) []Label {
	b, ok := g.Blocks[l]
	if !ok {
		return nil
	}
	return b.Term.Successors()
}

// Sized is satisfied by statement payloads that can report their length.
type Sized interface {
	Len() int
}

// Sequence is an ordered statement sequence. The zero value of S must be the
// empty sequence and act as an identity for Concat.
type Sequence[S any] interface {
	Sized
	Concat(S) S
}

// Set is a set of labels.
type Set = mapset.Set[Label]

// NewSet returns a label set holding ls.
func NewSet(ls ...Label) Set {
	return mapset.NewThreadUnsafeSet(ls...)
}

// Sorted returns the members of s in ascending order.
func Sorted(s Set) []Label {
	if s == nil {
		return nil
	}
	ls := s.ToSlice()
	slices.Sort(ls)
	return ls
}

// Edge is a directed edge between two blocks.
type Edge struct {
	From Label
	To   Label
}

func (e Edge) String() string {
	return fmt.Sprintf("%v->%v", e.From, e.To)
}
