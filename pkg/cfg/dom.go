package cfg

// Dominators computes, for every block, the set of blocks lying on every path
// from the entry to it (the block itself included).
//
// The recurrence dom(b) = {b} ∪ ⋂ dom(p), over the reachable predecessors p
// of b, is evaluated once per reachable block in depth-first order, using
// whatever predecessor values exist at that point. Unreachable blocks
// dominate only themselves. The recurrence is then re-evaluated for every
// block against the final map; if any value changes, the graph does not
// settle in one ordered pass and ok is false. Callers treat that as "cannot
// structure".
func Dominators[S, C any](g *CFG[S, C]) (dom map[Label]Set, ok bool) {
	preds := Predecessors(g)
	order := DepthFirstOrder(g)
	reachable := NewSet(order...)

	dom = make(map[Label]Set, len(g.Blocks))

	update := func(l Label) Set {
		if l == g.Entry {
			return NewSet(l)
		}

		var meet Set
		for _, p := range Sorted(predsOf(preds, l)) {
			if !reachable.Contains(p) {
				continue
			}
			d, ok := dom[p]
			if !ok {
				continue
			}
			if meet == nil {
				meet = d.Clone()
			} else {
				meet = meet.Intersect(d)
			}
		}

		if meet == nil {
			meet = NewSet()
		}
		meet.Add(l)
		return meet
	}

	for _, l := range order {
		dom[l] = update(l)
	}

	for l := range g.Blocks {
		if !reachable.Contains(l) {
			dom[l] = NewSet(l)
		}
	}

	for _, l := range g.Labels() {
		if !update(l).Equal(dom[l]) {
			return nil, false
		}
	}

	return dom, true
}

// Dominates reports whether a dominates b according to dom.
func Dominates(dom map[Label]Set, a, b Label) bool {
	d, ok := dom[b]
	return ok && d.Contains(a)
}
