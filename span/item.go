package span

import (
	"github.com/dshills/spanmap/sumtree"
	"github.com/dshills/spanmap/text"
)

// ID identifies one tracked span. IDs are process-local, monotonically
// increasing, and never reused, even after removal.
type ID uint64

// Span is the insertion input: an anchored range plus its payload.
type Span[P any] struct {
	Range   text.Range
	Payload P
}

// Item is one tracked entry. It is immutable once created; an update is
// modeled as remove plus insert.
type Item[P any] struct {
	ID      ID
	Range   text.Range
	Payload P
}

// Summary implements sumtree.Item.
func (it Item[P]) Summary(cx *text.Snapshot) summary {
	return summary{
		count:    1,
		last:     it.Range,
		minStart: it.Range.Start,
		maxEnd:   it.Range.End,
	}
}

// Resolved is an item with its range materialized to buffer coordinates.
type Resolved[P any] struct {
	ID      ID
	Range   text.PointRange
	Payload P
}

// summary aggregates a run of items: how many, the range of the last item
// in the run (the seek key, since runs are ordered by range), and the
// tightest known bounds of any item anywhere in the run.
type summary struct {
	count    int
	last     text.Range
	minStart text.Anchor
	maxEnd   text.Anchor
}

// Add implements sumtree.Summary. The receiver covers the left run, other
// the run immediately after it.
func (s summary) Add(other summary, cx *text.Snapshot) summary {
	if other.count == 0 {
		return s
	}
	if s.count == 0 {
		return other
	}
	out := summary{
		count:    s.count + other.count,
		last:     other.last,
		minStart: s.minStart,
		maxEnd:   s.maxEnd,
	}
	if other.minStart.Compare(s.minStart, cx) < 0 {
		out.minStart = other.minStart
	}
	if other.maxEnd.Compare(s.maxEnd, cx) > 0 {
		out.maxEnd = other.maxEnd
	}
	return out
}

// rangeTarget seeks by anchored range order.
func rangeTarget(r text.Range) sumtree.SeekTarget[summary, *text.Snapshot] {
	return func(acc summary, cx *text.Snapshot) int {
		if acc.count == 0 {
			return 1
		}
		return r.Compare(acc.last, cx)
	}
}

// pointTarget seeks to the first item whose resolved start is at or after p.
func pointTarget(p text.Point) sumtree.SeekTarget[summary, *text.Snapshot] {
	return func(acc summary, cx *text.Snapshot) int {
		if acc.count == 0 {
			return 1
		}
		return p.Compare(acc.last.Start.ToPoint(cx))
	}
}
