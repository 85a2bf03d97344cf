package sumtree

// Tree is a persistent balanced sequence of items with subtree summaries.
// The zero value is an empty tree. Tree values are cheap to copy: they share
// structure with every tree they were derived from, and no operation ever
// mutates a node reachable from another tree.
type Tree[T Item[S, C], S Summary[S, C], C any] struct {
	root *node[T, S, C]
}

// New returns an empty tree.
func New[T Item[S, C], S Summary[S, C], C any]() Tree[T, S, C] {
	return Tree[T, S, C]{}
}

// FromItems builds a balanced tree from items, bottom-up.
// This is faster than repeated Push for bulk loads.
func FromItems[T Item[S, C], S Summary[S, C], C any](cx C, items ...T) Tree[T, S, C] {
	if len(items) == 0 {
		return Tree[T, S, C]{}
	}

	leaves := make([]*node[T, S, C], 0, (len(items)+MaxItemsPerLeaf-1)/MaxItemsPerLeaf)
	for i := 0; i < len(items); i += MaxItemsPerLeaf {
		end := min(i+MaxItemsPerLeaf, len(items))
		leaf := make([]T, end-i)
		copy(leaf, items[i:end])
		leaves = append(leaves, newLeaf(leaf, cx))
	}
	return Tree[T, S, C]{root: buildFromChildren(leaves, cx)}
}

// Len returns the number of items in the tree.
func (t Tree[T, S, C]) Len() int {
	if t.root == nil {
		return 0
	}
	return t.root.count
}

// IsEmpty returns true if the tree holds no items.
func (t Tree[T, S, C]) IsEmpty() bool {
	return t.Len() == 0
}

// Summary returns the aggregate summary of every item in the tree.
// An empty tree reports the zero summary.
func (t Tree[T, S, C]) Summary() S {
	if t.root == nil {
		var zero S
		return zero
	}
	return t.root.summary
}

// First returns the first item, or nil if the tree is empty.
func (t Tree[T, S, C]) First() *T {
	if t.Len() == 0 {
		return nil
	}
	return t.root.itemAt(0)
}

// Last returns the last item, or nil if the tree is empty.
func (t Tree[T, S, C]) Last() *T {
	if t.Len() == 0 {
		return nil
	}
	return t.root.itemAt(t.root.count - 1)
}

// ItemAt returns the item at index i, or nil if i is out of range.
func (t Tree[T, S, C]) ItemAt(i int) *T {
	if i < 0 || i >= t.Len() {
		return nil
	}
	return t.root.itemAt(i)
}

// Items collects every item in order.
func (t Tree[T, S, C]) Items() []T {
	out := make([]T, 0, t.Len())
	t.Each(func(it *T) bool {
		out = append(out, *it)
		return true
	})
	return out
}

// Each walks items in order, stopping early when fn returns false.
func (t Tree[T, S, C]) Each(fn func(*T) bool) {
	if t.root != nil {
		t.root.each(fn)
	}
}

// Push returns a tree with item appended after the last item.
func (t Tree[T, S, C]) Push(item T, cx C) Tree[T, S, C] {
	single := newLeaf([]T{item}, cx)
	if t.root == nil {
		return Tree[T, S, C]{root: single}
	}
	return Tree[T, S, C]{root: concat(t.root, single, cx)}
}

// Extend returns a tree with all items appended in order.
func (t Tree[T, S, C]) Extend(cx C, items ...T) Tree[T, S, C] {
	if len(items) == 0 {
		return t
	}
	return t.Append(FromItems(cx, items...), cx)
}

// Append concatenates other after t, amortized O(log n).
func (t Tree[T, S, C]) Append(other Tree[T, S, C], cx C) Tree[T, S, C] {
	if other.root == nil || other.root.count == 0 {
		return t
	}
	if t.root == nil || t.root.count == 0 {
		return other
	}
	return Tree[T, S, C]{root: concat(t.root, other.root, cx)}
}

// SplitAt splits the tree at item index i.
// The left result holds items [0, i), the right holds [i, Len).
func (t Tree[T, S, C]) SplitAt(i int, cx C) (Tree[T, S, C], Tree[T, S, C]) {
	if t.root == nil {
		return Tree[T, S, C]{}, Tree[T, S, C]{}
	}
	if i <= 0 {
		return Tree[T, S, C]{}, t
	}
	if i >= t.root.count {
		return t, Tree[T, S, C]{}
	}
	left, right := t.root.splitAt(i, cx)
	return Tree[T, S, C]{root: left}, Tree[T, S, C]{root: right}
}

// slice returns the subsequence of items in [i, j) as its own tree.
func (t Tree[T, S, C]) slice(i, j int, cx C) Tree[T, S, C] {
	if i >= j {
		return Tree[T, S, C]{}
	}
	pre, _ := t.SplitAt(j, cx)
	_, mid := pre.SplitAt(i, cx)
	return mid
}
