package cfg

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payload(s stmts) []string { return s }

func TestDescribe_While(t *testing.T) {
	info := Describe("count", whileLoop(), payload, condText)

	assert.Equal(t, "count", info.FunctionName)
	assert.Equal(t, "L0", info.EntryBlockID)
	assert.True(t, info.Reducible)
	assert.Equal(t, 2, info.CyclomaticComplexity)

	require.Len(t, info.Blocks, 3)
	assert.Equal(t, BlockTypeLoopHeader, info.Blocks[0].Type)
	assert.Equal(t, BlockTypePlain, info.Blocks[1].Type)
	assert.Equal(t, BlockTypeExit, info.Blocks[2].Type)
	assert.Equal(t, []string{"L1"}, info.Blocks[0].Predecessors)
	assert.Equal(t, []string{"L0", "L2"}, info.Blocks[2].Dominators)
	assert.Equal(t, []string{"body"}, info.Blocks[1].Statements)

	assert.Equal(t, []EdgeInfo{
		{SourceID: "L0", TargetID: "L1", EdgeType: EdgeTypeTrue, Condition: "c"},
		{SourceID: "L0", TargetID: "L2", EdgeType: EdgeTypeBreak, Condition: "c", Loop: "L0"},
		{SourceID: "L1", TargetID: "L0", EdgeType: EdgeTypeContinue, Loop: "L0"},
	}, info.Edges)

	assert.Equal(t, []LoopInfo{
		{Header: "L0", Members: []string{"L0", "L1"}, Depth: 0},
	}, info.Loops)
}

func TestDescribe_NestedLoops(t *testing.T) {
	info := Describe("nested", nestedLoops(), payload, condText)

	assert.Equal(t, []LoopInfo{
		{Header: "L1", Members: []string{"L1", "L2", "L3", "L4"}, Depth: 0},
		{Header: "L2", Members: []string{"L2", "L3"}, Depth: 1, Parent: "L1"},
	}, info.Loops)
	assert.Equal(t, BlockTypeEntry, info.Blocks[0].Type)
	assert.Equal(t, BlockTypeBranch, info.Blocks[4].Type)
	// 9 edges, 6 blocks
	assert.Equal(t, 5, info.CyclomaticComplexity)
}

func TestDescribe_Irreducible(t *testing.T) {
	info := Describe("tangled", irreducible(), payload, condText)

	assert.False(t, info.Reducible)
	assert.Empty(t, info.Loops)
	for _, b := range info.Blocks {
		assert.Nil(t, b.Dominators)
	}
	for _, e := range info.Edges {
		assert.NotEqual(t, EdgeTypeBreak, e.EdgeType)
		assert.NotEqual(t, EdgeTypeContinue, e.EdgeType)
	}
}

func TestDescribe_JSON(t *testing.T) {
	info := Describe("count", whileLoop(), payload, condText)

	data, err := json.Marshal(info)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "count", decoded["function_name"])
	assert.Equal(t, true, decoded["reducible"])
	assert.Len(t, decoded["edges"], 3)
}
