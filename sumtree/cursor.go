package sumtree

// SeekTarget compares a seek target against the accumulated summary of a
// candidate prefix of the tree. The result is the ordering of the target
// relative to the prefix's last item: negative when the target sorts before
// it, zero when equal, positive when after.
//
// Targets are ordinary closures rather than an Ord-style interface because
// most summaries only compare relative to the context value.
type SeekTarget[S Summary[S, C], C any] func(acc S, cx C) int

// cursorFrame records one internal node on the path from root to the
// cursor's current leaf.
type cursorFrame[T Item[S, C], S Summary[S, C], C any] struct {
	n        *node[T, S, C]
	childIdx int
}

// Cursor is a traversal handle over a tree. It supports O(log n) seeking by
// summary comparison, amortized O(1) stepping, and detaching structurally
// shared prefix slices.
//
// A cursor traverses the tree value it was created from; structural
// operations producing new trees never disturb it.
type Cursor[T Item[S, C], S Summary[S, C], C any] struct {
	tree    Tree[T, S, C]
	stack   []cursorFrame[T, S, C]
	leaf    *node[T, S, C]
	itemIdx int
	index   int
	atEnd   bool
}

// Cursor returns a cursor positioned at the first item.
func (t Tree[T, S, C]) Cursor() *Cursor[T, S, C] {
	c := &Cursor[T, S, C]{
		tree:  t,
		stack: make([]cursorFrame[T, S, C], 0, 8),
	}
	c.seekToIndex(0)
	return c
}

// Index returns the cursor's position as an item index in [0, Len].
func (c *Cursor[T, S, C]) Index() int {
	return c.index
}

// Item returns the item at the cursor, or nil past the end.
func (c *Cursor[T, S, C]) Item() *T {
	if c.atEnd || c.leaf == nil {
		return nil
	}
	return &c.leaf.items[c.itemIdx]
}

// Next advances to the following item. Past the last item the cursor stays
// at the end position and Item returns nil.
func (c *Cursor[T, S, C]) Next() {
	if c.atEnd {
		return
	}
	c.index++
	c.itemIdx++
	if c.leaf != nil && c.itemIdx < len(c.leaf.items) {
		return
	}

	// Climb until a frame has a further child, then descend leftmost.
	for len(c.stack) > 0 {
		frame := &c.stack[len(c.stack)-1]
		if frame.childIdx+1 < len(frame.n.children) {
			frame.childIdx++
			c.descendLeftmost(frame.n.children[frame.childIdx])
			return
		}
		c.stack = c.stack[:len(c.stack)-1]
	}
	c.markEnd()
}

// Prev steps back to the preceding item, or stays put at the first item.
func (c *Cursor[T, S, C]) Prev() {
	if c.index == 0 {
		return
	}
	c.seekToIndex(c.index - 1)
}

// Seek advances the cursor to the first item beyond the target according to
// bias: with Left the cursor stops before any run of items comparing equal
// to the target, with Right it stops after the run. Subtrees whose combined
// summary cannot contain the target are never descended into. Out-of-range
// targets land the cursor at the end; Item then returns nil.
func (c *Cursor[T, S, C]) Seek(target SeekTarget[S, C], bias Bias, cx C) {
	c.stack = c.stack[:0]
	c.leaf = nil
	c.itemIdx = 0
	c.index = 0
	c.atEnd = false

	if c.tree.root == nil || c.tree.root.count == 0 {
		c.markEnd()
		return
	}

	var acc S
	n := c.tree.root
	for !n.isLeaf() {
		descended := false
		for i, child := range n.children {
			tentative := acc.Add(child.summary, cx)
			cmp := target(tentative, cx)
			if cmp < 0 || (cmp == 0 && bias == Left) {
				c.stack = append(c.stack, cursorFrame[T, S, C]{n: n, childIdx: i})
				n = child
				descended = true
				break
			}
			acc = tentative
			c.index += child.count
		}
		if !descended {
			c.markEnd()
			return
		}
	}

	for i := range n.items {
		tentative := acc.Add(n.items[i].Summary(cx), cx)
		cmp := target(tentative, cx)
		if cmp < 0 || (cmp == 0 && bias == Left) {
			c.leaf = n
			c.itemIdx = i
			return
		}
		acc = tentative
		c.index++
	}
	c.markEnd()
}

// Slice returns the items between the cursor's position and the target as a
// structurally shared tree, advancing the cursor to the target. Targets must
// not sort before the cursor's current position; a backward target yields an
// empty slice and leaves the cursor in place.
func (c *Cursor[T, S, C]) Slice(target SeekTarget[S, C], bias Bias, cx C) Tree[T, S, C] {
	start := c.index
	c.Seek(target, bias, cx)
	if c.index < start {
		c.seekToIndex(start)
		return Tree[T, S, C]{}
	}
	return c.tree.slice(start, c.index, cx)
}

// Suffix returns everything from the cursor's position to the end as a
// structurally shared tree, leaving the cursor at the end.
func (c *Cursor[T, S, C]) Suffix(cx C) Tree[T, S, C] {
	res := c.tree.slice(c.index, c.tree.Len(), cx)
	c.markEnd()
	return res
}

// seekToIndex positions the cursor at item index i by child counts.
func (c *Cursor[T, S, C]) seekToIndex(i int) {
	c.stack = c.stack[:0]
	c.leaf = nil
	c.itemIdx = 0
	c.atEnd = false

	if c.tree.root == nil || i >= c.tree.Len() {
		c.index = i
		c.markEnd()
		return
	}
	if i < 0 {
		i = 0
	}
	c.index = i

	n := c.tree.root
	for !n.isLeaf() {
		for ci, child := range n.children {
			if i < child.count {
				c.stack = append(c.stack, cursorFrame[T, S, C]{n: n, childIdx: ci})
				n = child
				break
			}
			i -= child.count
		}
	}
	c.leaf = n
	c.itemIdx = i
}

// descendLeftmost pushes frames down to the first leaf of subtree n.
func (c *Cursor[T, S, C]) descendLeftmost(n *node[T, S, C]) {
	for !n.isLeaf() {
		c.stack = append(c.stack, cursorFrame[T, S, C]{n: n, childIdx: 0})
		n = n.children[0]
	}
	c.leaf = n
	c.itemIdx = 0
}

// markEnd parks the cursor past the last item.
func (c *Cursor[T, S, C]) markEnd() {
	c.stack = c.stack[:0]
	c.leaf = nil
	c.itemIdx = 0
	c.index = c.tree.Len()
	c.atEnd = true
}
