package cfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func domStrings(dom map[Label]Set) map[Label][]Label {
	out := make(map[Label][]Label, len(dom))
	for l, s := range dom {
		out[l] = Sorted(s)
	}
	return out
}

func TestDominators(t *testing.T) {
	tests := []struct {
		name string
		g    *testCFG
		want map[Label][]Label
	}{
		{
			name: "while loop",
			g:    whileLoop(),
			want: map[Label][]Label{
				0: {0},
				1: {0, 1},
				2: {0, 2},
			},
		},
		{
			name: "diamond",
			g: graph(0, map[Label]BasicBlock[stmts, string]{
				0: blk(ifGoto("c", 1, 2), "x"),
				1: blk(jump(3), "t"),
				2: blk(jump(3), "f"),
				3: blk(end(), "z"),
			}),
			want: map[Label][]Label{
				0: {0},
				1: {0, 1},
				2: {0, 2},
				3: {0, 3},
			},
		},
		{
			name: "nested loops",
			g:    nestedLoops(),
			want: map[Label][]Label{
				0: {0},
				1: {0, 1},
				2: {0, 1, 2},
				3: {0, 1, 2, 3},
				4: {0, 1, 2, 4},
				6: {0, 1, 6},
			},
		},
		{
			name: "unreachable blocks",
			g: graph(0, map[Label]BasicBlock[stmts, string]{
				0: blk(jump(1), "a"),
				1: blk(end(), "b"),
				2: blk(jump(1), "dead"),
				3: blk(jump(3), "spin"),
			}),
			want: map[Label][]Label{
				0: {0},
				1: {0, 1},
				2: {2},
				3: {3},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dom, ok := Dominators(tt.g)
			require.True(t, ok)
			assert.Equal(t, tt.want, domStrings(dom))
		})
	}
}

func TestDominators_EntryDominatesOnlyItself(t *testing.T) {
	for name, g := range map[string]*testCFG{
		"while":  whileLoop(),
		"nested": nestedLoops(),
		"self":   graph(4, map[Label]BasicBlock[stmts, string]{4: blk(ifGoto("c", 4, 5), "x"), 5: blk(end())}),
	} {
		t.Run(name, func(t *testing.T) {
			dom, ok := Dominators(g)
			require.True(t, ok)
			assert.Equal(t, []Label{g.Entry}, Sorted(dom[g.Entry]))
		})
	}
}

func TestDominators_Irreducible(t *testing.T) {
	dom, ok := Dominators(irreducible())
	assert.False(t, ok)
	assert.Nil(t, dom)
}

func TestDominators_MissingTarget(t *testing.T) {
	g := graph(0, map[Label]BasicBlock[stmts, string]{
		0: blk(ifGoto("c", 1, 7), "a"),
		1: blk(end(), "b"),
	})

	dom, ok := Dominators(g)
	require.True(t, ok)
	assert.Equal(t, []Label{0, 1}, Sorted(dom[1]))
	_, has := dom[7]
	assert.False(t, has)
}

func TestDominates(t *testing.T) {
	dom, ok := Dominators(whileLoop())
	require.True(t, ok)

	assert.True(t, Dominates(dom, 0, 1))
	assert.True(t, Dominates(dom, 1, 1))
	assert.False(t, Dominates(dom, 1, 2))
	assert.False(t, Dominates(dom, 0, 9))
}

func TestDepthFirstOrder(t *testing.T) {
	assert.Equal(t, []Label{0, 1, 2, 4, 3, 6}, DepthFirstOrder(nestedLoops()))
	assert.Equal(t, []Label{0, 3, 1, 2, 4}, DepthFirstOrder(irreducible()))
}

func TestPrune(t *testing.T) {
	g := graph(0, map[Label]BasicBlock[stmts, string]{
		0: blk(jump(2), "a"),
		1: blk(jump(2), "dead"),
		2: blk(end(), "b"),
	})

	assert.Equal(t, []Label{0, 2}, Sorted(Reachable(g)))

	pruned := Prune(g)
	assert.Equal(t, []Label{0, 2}, pruned.Labels())
	assert.Equal(t, Label(0), pruned.Entry)
	assert.Len(t, g.Blocks, 3)
}
