package cfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exitsOf(t *testing.T, g *testCFG) Exits {
	t.Helper()
	dom, ok := Dominators(g)
	require.True(t, ok)
	return ClassifyExits(g, NestLoops(NaturalLoops(g, dom)))
}

func TestClassifyExits_While(t *testing.T) {
	exits := exitsOf(t, whileLoop())

	assert.Equal(t, Exits{
		{From: 0, To: 2}: {Kind: BreakFrom, Header: 0},
		{From: 1, To: 0}: {Kind: ContinueTo, Header: 0},
	}, exits)

	targets := BreakTargets(exits)
	assert.Equal(t, []Label{2}, Sorted(targets[0]))
}

func TestClassifyExits_OuterWins(t *testing.T) {
	exits := exitsOf(t, nestedLoops())

	assert.Equal(t, Exits{
		{From: 1, To: 6}: {Kind: BreakFrom, Header: 1},
		{From: 3, To: 6}: {Kind: BreakFrom, Header: 1},
		{From: 4, To: 6}: {Kind: BreakFrom, Header: 1},
		{From: 4, To: 1}: {Kind: ContinueTo, Header: 1},
		{From: 2, To: 4}: {Kind: BreakFrom, Header: 2},
		{From: 3, To: 2}: {Kind: ContinueTo, Header: 2},
	}, exits)

	targets := BreakTargets(exits)
	assert.Equal(t, []Label{6}, Sorted(targets[1]))
	assert.Equal(t, []Label{4}, Sorted(targets[2]))
}

func TestClassifyExits_NoLoops(t *testing.T) {
	g := graph(0, map[Label]BasicBlock[stmts, string]{
		0: blk(jump(1), "a"),
		1: blk(end(), "b"),
	})
	assert.Empty(t, exitsOf(t, g))
}

func TestExitString(t *testing.T) {
	assert.Equal(t, "break L3", Exit{Kind: BreakFrom, Header: 3}.String())
	assert.Equal(t, "continue L0", Exit{Kind: ContinueTo, Header: 0}.String())
}
