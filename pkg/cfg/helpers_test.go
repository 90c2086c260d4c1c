package cfg

import "strings"

// stmts is a minimal statement payload for tests.
type stmts []string

func (s stmts) Len() int { return len(s) }

func (s stmts) Concat(o stmts) stmts {
	out := make(stmts, 0, len(s)+len(o))
	return append(append(out, s...), o...)
}

type testCFG = CFG[stmts, string]

func blk(term Terminator[string], payload ...string) BasicBlock[stmts, string] {
	return BasicBlock[stmts, string]{Stmts: stmts(payload), Term: term}
}

func jump(to Label) Terminator[string] { return Branch[string](to) }

func ifGoto(c string, t, f Label) Terminator[string] { return CondBranch(c, t, f) }

func end() Terminator[string] { return Unreachable[string]() }

func graph(entry Label, blocks map[Label]BasicBlock[stmts, string]) *testCFG {
	return &testCFG{Entry: entry, Blocks: blocks}
}

func joinStmts(s stmts) string { return strings.Join(s, "\n") }

func condText(c string) string { return c }

// whileLoop is header L0 testing c, body L1 jumping back, after L2.
func whileLoop() *testCFG {
	return graph(0, map[Label]BasicBlock[stmts, string]{
		0: blk(ifGoto("c", 1, 2), "h"),
		1: blk(jump(0), "body"),
		2: blk(end(), "after"),
	})
}

// nestedLoops is an outer loop L1 containing an inner loop L2 whose body may
// leave both loops at once.
//
//	L0 -> L1
//	L1: if a goto L2 else L6
//	L2: if b goto L3 else L4
//	L3: if e goto L2 else L6
//	L4: if d goto L6 else L1
//	L6: end
func nestedLoops() *testCFG {
	return graph(0, map[Label]BasicBlock[stmts, string]{
		0: blk(jump(1), "pre"),
		1: blk(ifGoto("a", 2, 6), "outer"),
		2: blk(ifGoto("b", 3, 4), "inner"),
		3: blk(ifGoto("e", 2, 6), "body"),
		4: blk(ifGoto("d", 6, 1), "latch"),
		6: blk(end(), "done"),
	})
}

// irreducible has a cycle L1 <-> L2 entered at both L1 (through L3) and L2.
func irreducible() *testCFG {
	return graph(0, map[Label]BasicBlock[stmts, string]{
		0: blk(ifGoto("p", 3, 2), "e"),
		1: blk(jump(2), "a"),
		2: blk(ifGoto("q", 1, 4), "b"),
		3: blk(jump(1), "c"),
		4: blk(end(), "out"),
	})
}
