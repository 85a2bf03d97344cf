package span

import (
	"github.com/dshills/spanmap/sumtree"
	"github.com/dshills/spanmap/text"
)

// Snapshot is an immutable view of a span map. It is safe to share across
// goroutines without locking: the tree nodes it references are never
// mutated, so it observes neither torn states nor later edits to the map it
// came from. Holding a snapshot keeps only its own tree nodes alive.
type Snapshot[P any] struct {
	tree sumtree.Tree[Item[P], summary, *text.Snapshot]
}

// Len returns the number of spans in the view.
func (s Snapshot[P]) Len() int {
	return s.tree.Len()
}

// Items collects every item in range order.
func (s Snapshot[P]) Items() []Item[P] {
	return s.tree.Items()
}

// Each walks items in range order, stopping early when fn returns false.
func (s Snapshot[P]) Each(fn func(Item[P]) bool) {
	s.tree.Each(func(it *Item[P]) bool {
		return fn(*it)
	})
}

// ItemAtLine returns the first item whose resolved start sits on the given
// line, or nil. Items whose start anchor no longer resolves are skipped,
// never returned as matches. The scan after the seek is bounded by the
// items starting on the line, not by the collection size.
func (s Snapshot[P]) ItemAtLine(line uint32, snap *text.Snapshot) *Item[P] {
	cursor := s.tree.Cursor()
	cursor.Seek(pointTarget(text.Point{Line: line}), sumtree.Left, snap)

	for {
		item := cursor.Item()
		if item == nil {
			return nil
		}
		if item.Range.Start.IsValid(snap) {
			start := item.Range.Start.ToPoint(snap)
			if start.Line > line {
				return nil
			}
			if start.Line == line {
				return item
			}
		}
		cursor.Next()
	}
}

// Overlapping returns a lazy iterator over the items whose resolved ranges
// overlap q. With inclusive set, ranges that merely touch q at a boundary
// match as well. With reversed set, matches are produced from the end of
// the collection backward, which finds the nearest preceding match first.
//
// Subtrees whose aggregate bounds cannot overlap q are pruned, so the cost
// is proportional to the number of matches plus O(log n), not to the total
// number of items.
func (s Snapshot[P]) Overlapping(q text.PointRange, snap *text.Snapshot, inclusive, reversed bool) *MatchIter[P] {
	pred := func(sum summary) bool {
		if sum.count == 0 {
			return false
		}
		minStart := sum.minStart.ToPoint(snap)
		maxEnd := sum.maxEnd.ToPoint(snap)
		if inclusive {
			return q.Start.Compare(maxEnd) <= 0 && q.End.Compare(minStart) >= 0
		}
		return q.Start.Compare(maxEnd) < 0 && q.End.Compare(minStart) > 0
	}
	return &MatchIter[P]{
		inner: sumtree.Filter(s.tree, pred, reversed, snap),
		snap:  snap,
	}
}

// Resolved materializes every item whose range still resolves, in range
// order, for bulk consumers such as layout passes.
func (s Snapshot[P]) Resolved(snap *text.Snapshot) []Resolved[P] {
	out := make([]Resolved[P], 0, s.Len())
	s.Each(func(it Item[P]) bool {
		if it.Range.IsValid(snap) {
			out = append(out, Resolved[P]{
				ID:      it.ID,
				Range:   it.Range.ToPointRange(snap),
				Payload: it.Payload,
			})
		}
		return true
	})
	return out
}

// MatchIter is a lazy, finite, non-restartable sequence of overlap matches.
// Each match's anchors are resolved on demand, not eagerly.
type MatchIter[P any] struct {
	inner *sumtree.FilterIter[Item[P], summary, *text.Snapshot]
	snap  *text.Snapshot
}

// Next returns the next match, or nil when the sequence is exhausted.
// Items whose anchors no longer resolve are skipped.
func (it *MatchIter[P]) Next() *Resolved[P] {
	for {
		item := it.inner.Next()
		if item == nil {
			return nil
		}
		if !item.Range.IsValid(it.snap) {
			continue
		}
		return &Resolved[P]{
			ID:      item.ID,
			Range:   item.Range.ToPointRange(it.snap),
			Payload: item.Payload,
		}
	}
}

// Collect drains the iterator into a slice.
func (it *MatchIter[P]) Collect() []Resolved[P] {
	var out []Resolved[P]
	for m := it.Next(); m != nil; m = it.Next() {
		out = append(out, *m)
	}
	return out
}
