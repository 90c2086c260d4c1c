package cfg

// isRedirect reports whether blk only forwards control to another block.
func isRedirect[S Sized, C any](blk BasicBlock[S, C]) bool {
	return blk.Stmts.Len() == 0 && blk.Term.Kind == KindBranch
}

// RemoveEmptyBlocks drops blocks with an empty payload and an unconditional
// jump, retargeting every edge (and the entry) to the first non-redirect block
// of the chain. Members of a redirect cycle with no way out map to themselves
// and are kept. The result is a new graph; applying it twice is a no-op.
func RemoveEmptyBlocks[S Sized, C any](g *CFG[S, C]) *CFG[S, C] {
	subst := redirects(g)

	rewrite := func(l Label) Label {
		if to, ok := subst[l]; ok {
			return to
		}
		return l
	}

	blocks := make(map[Label]BasicBlock[S, C], len(g.Blocks))
	for l, blk := range g.Blocks {
		if rewrite(l) != l {
			continue
		}
		blocks[l] = BasicBlock[S, C]{
			Stmts: blk.Stmts,
			Term:  blk.Term.Map(rewrite),
		}
	}

	return &CFG[S, C]{
		Entry:  rewrite(g.Entry),
		Blocks: blocks,
	}
}

// redirects maps every redirect block to its final destination.
func redirects[S Sized, C any](g *CFG[S, C]) map[Label]Label {
	subst := make(map[Label]Label)

	for _, start := range g.Labels() {
		if _, done := subst[start]; done {
			continue
		}

		var path []Label
		onPath := make(map[Label]int)
		l := start

		for {
			if to, done := subst[l]; done {
				l = to
				break
			}
			if i, seen := onPath[l]; seen {
				// Cycle without exit: its members stay where they are.
				for _, m := range path[i:] {
					subst[m] = m
				}
				path = path[:i]
				break
			}
			blk, ok := g.Blocks[l]
			if !ok || !isRedirect(blk) {
				break
			}
			onPath[l] = len(path)
			path = append(path, l)
			l = blk.Term.Then
		}

		for _, m := range path {
			subst[m] = l
		}
	}

	return subst
}
