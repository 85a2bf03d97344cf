package sumtree

// Tree structure constants
const (
	// MinChildren is the minimum children per internal node (except root).
	MinChildren = 4

	// MaxChildren is the maximum children per internal node before splitting.
	MaxChildren = 8

	// MaxItemsPerLeaf is the maximum items in a leaf node.
	MaxItemsPerLeaf = 8
)

// Summary is an associative aggregate over a contiguous run of items.
// Add combines the receiver (covering the left run) with other (covering the
// run immediately to its right). Combining is only meaningful relative to a
// context value cx, which every structural operation threads through.
// The zero value of S must act as the identity for Add on either side.
type Summary[S, C any] interface {
	Add(other S, cx C) S
}

// Item is an element stored in a tree. Each item reports the summary of the
// single-item run containing just itself.
type Item[S, C any] interface {
	Summary(cx C) S
}

// node is a node in the B+ tree.
// Leaf nodes (height == 0) contain items.
// Internal nodes (height > 0) contain child node references.
// Nodes are never mutated after they become reachable from a published tree.
type node[T Item[S, C], S Summary[S, C], C any] struct {
	height  uint8
	count   int // items in this subtree
	summary S

	children []*node[T, S, C] // internal node fields (height > 0)
	items    []T              // leaf node fields (height == 0)
}

func newLeaf[T Item[S, C], S Summary[S, C], C any](items []T, cx C) *node[T, S, C] {
	n := &node[T, S, C]{
		height: 0,
		items:  items,
		count:  len(items),
	}
	var sum S
	for _, it := range items {
		sum = sum.Add(it.Summary(cx), cx)
	}
	n.summary = sum
	return n
}

func newInternal[T Item[S, C], S Summary[S, C], C any](children []*node[T, S, C], cx C) *node[T, S, C] {
	if len(children) == 0 {
		return newLeaf[T, S, C](nil, cx)
	}

	n := &node[T, S, C]{
		height:   children[0].height + 1,
		children: children,
	}
	var sum S
	for _, child := range children {
		sum = sum.Add(child.summary, cx)
		n.count += child.count
	}
	n.summary = sum
	return n
}

func (n *node[T, S, C]) isLeaf() bool {
	return n.height == 0
}

// itemAt returns the item at index i within this subtree.
// The caller guarantees 0 <= i < n.count.
func (n *node[T, S, C]) itemAt(i int) *T {
	for !n.isLeaf() {
		for _, child := range n.children {
			if i < child.count {
				n = child
				break
			}
			i -= child.count
		}
	}
	return &n.items[i]
}

// each walks items in order, stopping early when fn returns false.
func (n *node[T, S, C]) each(fn func(*T) bool) bool {
	if n.isLeaf() {
		for i := range n.items {
			if !fn(&n.items[i]) {
				return false
			}
		}
		return true
	}
	for _, child := range n.children {
		if !child.each(fn) {
			return false
		}
	}
	return true
}

// splitAt splits the subtree at item index i.
// Returns two nodes: left contains items [0, i), right contains [i, count).
func (n *node[T, S, C]) splitAt(i int, cx C) (*node[T, S, C], *node[T, S, C]) {
	if i <= 0 {
		return newLeaf[T, S, C](nil, cx), n
	}
	if i >= n.count {
		return n, newLeaf[T, S, C](nil, cx)
	}

	if n.isLeaf() {
		left := n.items[:i:i]
		right := n.items[i:]
		return newLeaf(left, cx), newLeaf(right, cx)
	}

	acc := 0
	for idx, child := range n.children {
		if i >= acc+child.count {
			acc += child.count
			continue
		}
		// The split lands inside this child. Concat keeps the rebuilt
		// halves balanced even though the inner split is shorter than
		// its untouched siblings.
		cl, cr := child.splitAt(i-acc, cx)
		left := concat(buildFromChildren(n.children[:idx], cx), cl, cx)
		right := concat(cr, buildFromChildren(n.children[idx+1:], cx), cx)
		return left, right
	}
	return n, newLeaf[T, S, C](nil, cx)
}

// buildFromChildren creates a balanced subtree from same-height children.
func buildFromChildren[T Item[S, C], S Summary[S, C], C any](children []*node[T, S, C], cx C) *node[T, S, C] {
	if len(children) == 0 {
		return newLeaf[T, S, C](nil, cx)
	}
	if len(children) == 1 {
		return children[0]
	}
	if len(children) <= MaxChildren {
		return newInternal(children, cx)
	}

	var parents []*node[T, S, C]
	for i := 0; i < len(children); i += MaxChildren {
		end := min(i+MaxChildren, len(children))
		parents = append(parents, newInternal(children[i:end:end], cx))
	}
	return buildFromChildren(parents, cx)
}

// concat concatenates two subtrees, rebalancing as needed. The shorter tree
// is merged into the taller tree's facing spine at matching height, with
// overfull nodes splitting on the way back up, so the result's height is at
// most one above the taller input's.
func concat[T Item[S, C], S Summary[S, C], C any](left, right *node[T, S, C], cx C) *node[T, S, C] {
	if left == nil || left.count == 0 {
		if right == nil {
			return newLeaf[T, S, C](nil, cx)
		}
		return right
	}
	if right == nil || right.count == 0 {
		return left
	}

	var parts []*node[T, S, C]
	if left.height >= right.height {
		parts = appendAtDepth(left, right, cx)
	} else {
		parts = prependAtDepth(left, right, cx)
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return newInternal(parts, cx)
}

// appendAtDepth merges short (height <= tall's) into tall's rightmost spine.
// Returns one or two nodes of tall's height.
func appendAtDepth[T Item[S, C], S Summary[S, C], C any](tall, short *node[T, S, C], cx C) []*node[T, S, C] {
	if tall.height == short.height {
		return mergeSiblings(tall, short, cx)
	}
	last := len(tall.children) - 1
	merged := appendAtDepth(tall.children[last], short, cx)
	children := make([]*node[T, S, C], 0, last+len(merged))
	children = append(children, tall.children[:last]...)
	children = append(children, merged...)
	return splitChildren(children, cx)
}

// prependAtDepth merges short (height <= tall's) into tall's leftmost spine.
func prependAtDepth[T Item[S, C], S Summary[S, C], C any](short, tall *node[T, S, C], cx C) []*node[T, S, C] {
	if tall.height == short.height {
		return mergeSiblings(short, tall, cx)
	}
	merged := prependAtDepth(short, tall.children[0], cx)
	children := make([]*node[T, S, C], 0, len(merged)+len(tall.children)-1)
	children = append(children, merged...)
	children = append(children, tall.children[1:]...)
	return splitChildren(children, cx)
}

// mergeSiblings combines two same-height nodes into one node, or an even
// two-way split when their combined contents overflow.
func mergeSiblings[T Item[S, C], S Summary[S, C], C any](a, b *node[T, S, C], cx C) []*node[T, S, C] {
	if a.isLeaf() {
		total := len(a.items) + len(b.items)
		items := make([]T, 0, total)
		items = append(items, a.items...)
		items = append(items, b.items...)
		if total <= MaxItemsPerLeaf {
			return []*node[T, S, C]{newLeaf(items, cx)}
		}
		half := (total + 1) / 2
		return []*node[T, S, C]{
			newLeaf(items[:half:half], cx),
			newLeaf(items[half:], cx),
		}
	}

	children := make([]*node[T, S, C], 0, len(a.children)+len(b.children))
	children = append(children, a.children...)
	children = append(children, b.children...)
	return splitChildren(children, cx)
}

// splitChildren wraps up to 2*MaxChildren same-height children into one
// parent, or an even two-way split keeping both sides at MinChildren or
// more.
func splitChildren[T Item[S, C], S Summary[S, C], C any](children []*node[T, S, C], cx C) []*node[T, S, C] {
	if len(children) <= MaxChildren {
		return []*node[T, S, C]{newInternal(children, cx)}
	}
	half := (len(children) + 1) / 2
	return []*node[T, S, C]{
		newInternal(children[:half:half], cx),
		newInternal(children[half:], cx),
	}
}
