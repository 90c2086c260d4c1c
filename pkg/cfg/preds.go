package cfg

// Predecessors returns, for every label named as a jump target, the set of
// labels whose terminator names it. Labels that are never targeted are absent.
func Predecessors[S, C any](g *CFG[S, C]) map[Label]Set {
	preds := make(map[Label]Set)
	for from, blk := range g.Blocks {
		for _, to := range blk.Term.Successors() {
			s, ok := preds[to]
			if !ok {
				s = NewSet()
				preds[to] = s
			}
			s.Add(from)
		}
	}
	return preds
}

// InEdges is like Predecessors but keeps one entry per edge, so a conditional
// whose arms name the same block appears twice. Sources are in ascending order.
func InEdges[S, C any](g *CFG[S, C]) map[Label][]Label {
	in := make(map[Label][]Label)
	for _, from := range g.Labels() {
		for _, to := range g.Blocks[from].Term.Successors() {
			in[to] = append(in[to], from)
		}
	}
	return in
}

// predsOf returns the predecessor set of l, never nil.
func predsOf(preds map[Label]Set, l Label) Set {
	if s, ok := preds[l]; ok {
		return s
	}
	return NewSet()
}
