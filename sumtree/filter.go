package sumtree

// filterFrame tracks the next position to visit within one node.
type filterFrame[T Item[S, C], S Summary[S, C], C any] struct {
	n   *node[T, S, C]
	idx int
}

// FilterIter iterates the items whose summaries pass a predicate, skipping
// every subtree whose aggregate summary fails it. Cost is proportional to
// the number of matching items plus the tree walk overhead, not to the total
// item count.
//
// The iterator is lazy, finite, and not restartable.
type FilterIter[T Item[S, C], S Summary[S, C], C any] struct {
	pred     func(S) bool
	reversed bool
	cx       C
	stack    []filterFrame[T, S, C]
}

// Filter returns an iterator over items whose summaries pass pred.
// The predicate is applied to internal subtree summaries for pruning and to
// each surviving item's own summary. With reversed set, items are produced
// from the end of the tree backward.
func Filter[T Item[S, C], S Summary[S, C], C any](t Tree[T, S, C], pred func(S) bool, reversed bool, cx C) *FilterIter[T, S, C] {
	it := &FilterIter[T, S, C]{
		pred:     pred,
		reversed: reversed,
		cx:       cx,
		stack:    make([]filterFrame[T, S, C], 0, 8),
	}
	if t.root != nil && t.root.count > 0 && pred(t.root.summary) {
		it.push(t.root)
	}
	return it
}

// Next returns the next matching item, or nil when exhausted.
func (it *FilterIter[T, S, C]) Next() *T {
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]

		if top.n.isLeaf() {
			for it.inBounds(top, len(top.n.items)) {
				item := &top.n.items[top.idx]
				it.advance(top)
				if it.pred((*item).Summary(it.cx)) {
					return item
				}
			}
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}

		if !it.inBounds(top, len(top.n.children)) {
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}
		child := top.n.children[top.idx]
		it.advance(top)
		if it.pred(child.summary) {
			it.push(child)
		}
	}
	return nil
}

func (it *FilterIter[T, S, C]) push(n *node[T, S, C]) {
	idx := 0
	if it.reversed {
		if n.isLeaf() {
			idx = len(n.items) - 1
		} else {
			idx = len(n.children) - 1
		}
	}
	it.stack = append(it.stack, filterFrame[T, S, C]{n: n, idx: idx})
}

func (it *FilterIter[T, S, C]) inBounds(f *filterFrame[T, S, C], n int) bool {
	if it.reversed {
		return f.idx >= 0
	}
	return f.idx < n
}

func (it *FilterIter[T, S, C]) advance(f *filterFrame[T, S, C]) {
	if it.reversed {
		f.idx--
	} else {
		f.idx++
	}
}
