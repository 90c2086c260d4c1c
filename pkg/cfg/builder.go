package cfg

// Builder is the sequential build context for a CFG: a label counter plus the
// blocks added so far. A Builder is owned by one caller; independent graphs
// use independent builders.
type Builder[S, C any] struct {
	next   Label
	blocks map[Label]BasicBlock[S, C]
}

// NewBuilder creates an empty build context.
func NewBuilder[S, C any]() *Builder[S, C] {
	return &Builder[S, C]{
		blocks: make(map[Label]BasicBlock[S, C]),
	}
}

// NewLabel allocates a fresh label. It does not create a block.
func (b *Builder[S, C]) NewLabel() Label {
	l := b.next
	b.next++
	return l
}

// AddBlock inserts the block at l, replacing any block already there.
func (b *Builder[S, C]) AddBlock(l Label, stmts S, term Terminator[C]) {
	b.blocks[l] = BasicBlock[S, C]{Stmts: stmts, Term: term}
}

// Finish runs root, which must add every block it intends to exist and return
// the entry label, and yields the completed graph. Targets are not validated.
func (b *Builder[S, C]) Finish(root func(*Builder[S, C]) (Label, error)) (*CFG[S, C], error) {
	entry, err := root(b)
	if err != nil {
		return nil, err
	}

	blocks := make(map[Label]BasicBlock[S, C], len(b.blocks))
	for l, blk := range b.blocks {
		blocks[l] = blk
	}

	return &CFG[S, C]{Entry: entry, Blocks: blocks}, nil
}

// Build runs root against a fresh Builder.
func Build[S, C any](root func(*Builder[S, C]) (Label, error)) (*CFG[S, C], error) {
	return NewBuilder[S, C]().Finish(root)
}
