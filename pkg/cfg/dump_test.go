package cfg

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDump(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, whileLoop(), joinStmts, condText))

	want := `start @L0
L0:
    h
    if (c) goto L1; else goto L2;
L1:
    body
    goto L0;
L2:
    after
    unreachable;
`
	assert.Equal(t, want, buf.String())
}

func TestSprint_MultiLinePayload(t *testing.T) {
	g := graph(3, map[Label]BasicBlock[stmts, string]{
		3: blk(jump(4), "a", "b"),
		4: blk(end()),
	})

	want := `start @L3
L3:
    a
    b
    goto L4;
L4:
    unreachable;
`
	assert.Equal(t, want, Sprint(g, joinStmts, condText))
}
