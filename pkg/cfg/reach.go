package cfg

// postOrder walks g depth-first from the entry, following successors in
// terminator order, and returns blocks in the order they finish. Targets
// without a block are skipped.
func postOrder[S, C any](g *CFG[S, C]) []Label {
	visited := make(map[Label]bool, len(g.Blocks))
	order := make([]Label, 0, len(g.Blocks))

	var dfs func(l Label)
	dfs = func(l Label) {
		if visited[l] {
			return
		}
		visited[l] = true

		blk, ok := g.Blocks[l]
		if !ok {
			return
		}
		for _, s := range blk.Term.Successors() {
			dfs(s)
		}
		order = append(order, l)
	}
	dfs(g.Entry)

	return order
}

// DepthFirstOrder returns the blocks reachable from the entry in reverse
// post-order: the entry first, and every block before the blocks it reaches
// along forward edges.
func DepthFirstOrder[S, C any](g *CFG[S, C]) []Label {
	order := postOrder(g)
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}

// Reachable returns the set of blocks reachable from the entry.
func Reachable[S, C any](g *CFG[S, C]) Set {
	return NewSet(postOrder(g)...)
}

// Prune returns a copy of g without the blocks unreachable from the entry.
// Labels are kept as they are.
func Prune[S, C any](g *CFG[S, C]) *CFG[S, C] {
	live := Reachable(g)

	blocks := make(map[Label]BasicBlock[S, C], live.Cardinality())
	for l, blk := range g.Blocks {
		if live.Contains(l) {
			blocks[l] = blk
		}
	}

	return &CFG[S, C]{Entry: g.Entry, Blocks: blocks}
}
