package cfg

// BlockType represents the role of a block in a described CFG.
type BlockType string

const (
	BlockTypeEntry      BlockType = "entry"       // Function entry point
	BlockTypeBranch     BlockType = "branch"      // Ends in a conditional branch
	BlockTypeLoopHeader BlockType = "loop_header" // Header of a natural loop
	BlockTypeExit       BlockType = "exit"        // Unreachable terminator, control leaves the function
	BlockTypePlain      BlockType = "plain"       // Regular statements and an unconditional jump
)

// EdgeType represents the type of a described CFG edge.
type EdgeType string

const (
	EdgeTypeUnconditional EdgeType = "unconditional" // Unconditional jump
	EdgeTypeTrue          EdgeType = "true"          // True branch of conditional
	EdgeTypeFalse         EdgeType = "false"         // False branch of conditional
	EdgeTypeBreak         EdgeType = "break"         // Leaves a loop body
	EdgeTypeContinue      EdgeType = "continue"      // Back edge to a loop header
)

// BlockInfo describes one basic block.
type BlockInfo struct {
	ID           string    `json:"id"`           // Block label, e.g. "L3"
	Type         BlockType `json:"type"`         // Role of the block
	Statements   []string  `json:"statements"`   // Rendered payload, one entry per statement
	Predecessors []string  `json:"predecessors"` // Labels of blocks jumping here
	Dominators   []string  `json:"dominators,omitempty"`
}

// EdgeInfo describes one directed edge.
type EdgeInfo struct {
	SourceID  string   `json:"source_id"`
	TargetID  string   `json:"target_id"`
	EdgeType  EdgeType `json:"edge_type"`
	Condition string   `json:"condition,omitempty"` // Condition text for conditional edges
	Loop      string   `json:"loop,omitempty"`      // Header of the loop a break/continue refers to
}

// LoopInfo describes one natural loop.
type LoopInfo struct {
	Header  string   `json:"header"`
	Members []string `json:"members"`
	Depth   int      `json:"depth"`
	Parent  string   `json:"parent,omitempty"`
}

// Info is a JSON-friendly description of a CFG and its loop structure.
type Info struct {
	FunctionName         string      `json:"function_name"`
	EntryBlockID         string      `json:"entry_block_id"`
	Blocks               []BlockInfo `json:"blocks"`
	Edges                []EdgeInfo  `json:"edges"`
	Loops                []LoopInfo  `json:"loops"`
	Reducible            bool        `json:"reducible"` // Dominator analysis verified
	CyclomaticComplexity int         `json:"cyclomatic_complexity"`
}

// Describe summarises g for tooling output. Loop information is only filled in
// when dominator analysis succeeds.
func Describe[S, C any](name string, g *CFG[S, C], stmts func(S) []string, cond func(C) string) *Info {
	info := &Info{
		FunctionName: name,
		EntryBlockID: g.Entry.String(),
		Blocks:       make([]BlockInfo, 0, len(g.Blocks)),
		Edges:        make([]EdgeInfo, 0),
		Loops:        make([]LoopInfo, 0),
	}

	preds := Predecessors(g)
	dom, ok := Dominators(g)
	info.Reducible = ok

	var forest Forest
	exits := make(Exits)
	if ok {
		forest = NestLoops(NaturalLoops(g, dom))
		exits = ClassifyExits(g, forest)

		var parents []string
		forest.Walk(func(l *Loop, depth int) {
			parents = append(parents[:depth], l.Header.String())
			li := LoopInfo{
				Header:  l.Header.String(),
				Members: labelStrings(Sorted(l.Members)),
				Depth:   depth,
			}
			if depth > 0 {
				li.Parent = parents[depth-1]
			}
			info.Loops = append(info.Loops, li)
		})
	}

	for _, l := range g.Labels() {
		blk := g.Blocks[l]

		bi := BlockInfo{
			ID:           l.String(),
			Type:         blockType(g, forest, l),
			Statements:   stmts(blk.Stmts),
			Predecessors: labelStrings(Sorted(predsOf(preds, l))),
		}
		if ok {
			bi.Dominators = labelStrings(Sorted(dom[l]))
		}
		info.Blocks = append(info.Blocks, bi)

		for i, to := range blk.Term.Successors() {
			ei := EdgeInfo{
				SourceID: l.String(),
				TargetID: to.String(),
				EdgeType: EdgeTypeUnconditional,
			}
			if blk.Term.Kind == KindCondBranch {
				ei.Condition = cond(blk.Term.Cond)
				ei.EdgeType = EdgeTypeTrue
				if i == 1 {
					ei.EdgeType = EdgeTypeFalse
				}
			}
			if x, isExit := exits[Edge{From: l, To: to}]; isExit {
				ei.EdgeType = EdgeTypeBreak
				if x.Kind == ContinueTo {
					ei.EdgeType = EdgeTypeContinue
				}
				ei.Loop = x.Header.String()
			}
			info.Edges = append(info.Edges, ei)
		}
	}

	// E - N + 2 over the blocks that exist.
	info.CyclomaticComplexity = len(info.Edges) - len(info.Blocks) + 2
	if info.CyclomaticComplexity < 1 {
		info.CyclomaticComplexity = 1
	}

	return info
}

func blockType[S, C any](g *CFG[S, C], forest Forest, l Label) BlockType {
	if _, isLoop := forest.Find(l); isLoop {
		return BlockTypeLoopHeader
	}
	if l == g.Entry {
		return BlockTypeEntry
	}
	switch g.Blocks[l].Term.Kind {
	case KindCondBranch:
		return BlockTypeBranch
	case KindUnreachable:
		return BlockTypeExit
	default:
		return BlockTypePlain
	}
}

func labelStrings(ls []Label) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.String()
	}
	return out
}
