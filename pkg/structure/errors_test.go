package structure

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l3aro/go-cfg-structure/pkg/cfg"
	"github.com/l3aro/go-cfg-structure/pkg/stmt"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"irreducible", ErrIrreducible, "cannot structure control flow: control flow is irreducible"},
		{"missing block", &MissingBlockError{Label: 4}, "missing block L4"},
		{"break targets", &MultipleBreakTargetsError{Header: 1, Targets: []cfg.Label{2, 5, 9}}, "multiple break targets from L1 (L2, L5, L9)"},
		{"branch", &UnsupportedBranchError{From: 0, Then: 3, Else: 7}, "unsupported conditional branch from L0 to L3 and L7"},
		{"edge", &UnexpectedEdgeError{From: 2, To: 6}, "unexpected edge from L2 to L6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, tt.err, tt.want)
			assert.True(t, errors.Is(tt.err, ErrUnstructurable))
		})
	}
}

func diamondStructurer(t *testing.T) *structurer[stmt.Block, string] {
	t.Helper()
	g := &cfg.CFG[stmt.Block, string]{
		Entry: 0,
		Blocks: map[cfg.Label]cfg.BasicBlock[stmt.Block, string]{
			0: {Stmts: stmt.Raw("x"), Term: cfg.CondBranch("c", 1, 2)},
			1: {Stmts: stmt.Raw("t"), Term: cfg.Branch[string](3)},
			2: {Stmts: stmt.Raw("f"), Term: cfg.Branch[string](3)},
			3: {Stmts: stmt.Raw("return"), Term: cfg.Unreachable[string]()},
		},
	}
	a, err := Analyze(g)
	require.NoError(t, err)
	return &structurer[stmt.Block, string]{
		e:       stmt.Emitter{},
		g:       g,
		a:       a,
		emitted: make(map[cfg.Label]bool),
	}
}

func TestUnexpectedEdge(t *testing.T) {
	t.Run("region left open", func(t *testing.T) {
		s := diamondStructurer(t)
		_, err := s.closed(s.a.Loops, 1)

		var target *UnexpectedEdgeError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, &UnexpectedEdgeError{From: 1, To: 3}, target)
	})

	t.Run("block emitted twice", func(t *testing.T) {
		s := diamondStructurer(t)
		s.emitted[3] = true
		_, _, err := s.arrive(s.a.Loops, 0, 3, 2)

		var target *UnexpectedEdgeError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, &UnexpectedEdgeError{From: 0, To: 3}, target)
	})

	t.Run("waiting for more arrivals", func(t *testing.T) {
		s := diamondStructurer(t)
		out, p, err := s.arrive(s.a.Loops, 1, 3, 1)
		require.NoError(t, err)
		assert.Nil(t, out)
		assert.Equal(t, &pending{from: 1, to: 3, count: 1}, p)
	})
}
