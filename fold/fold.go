// Package fold tracks foldable regions of a buffer. It is a thin payload
// layer over [span.Map]: the tree mechanics, anchor maintenance, and query
// behavior come from the span package, and this package contributes what a
// fold is and the line-oriented views a renderer wants.
package fold

import (
	"github.com/dshills/spanmap/span"
	"github.com/dshills/spanmap/text"
)

// Kind categorizes why a region folds.
type Kind uint8

const (
	// KindRegion is a generic foldable region.
	KindRegion Kind = iota

	// KindComment folds a comment block.
	KindComment

	// KindImports folds an import block.
	KindImports
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindComment:
		return "comment"
	case KindImports:
		return "imports"
	default:
		return "region"
	}
}

// DefaultPlaceholder is rendered in place of folded text when a fold does
// not carry its own.
const DefaultPlaceholder = "⋯"

// Fold is the payload of one foldable region.
type Fold struct {
	// Placeholder is drawn in place of the folded text. Empty means
	// DefaultPlaceholder.
	Placeholder string

	// Kind categorizes the region.
	Kind Kind

	// Collapsed reports whether the region is currently folded away.
	Collapsed bool
}

// Map tracks the foldable regions of one buffer. Like the underlying span
// map it has a single logical writer; readers use snapshots.
type Map struct {
	spans *span.Map[Fold]
}

// NewMap creates an empty fold map.
func NewMap() *Map {
	return &Map{spans: span.NewMap[Fold]()}
}

// Len returns the number of tracked regions.
func (m *Map) Len() int {
	return m.spans.Len()
}

// Insert adds foldable regions and returns their IDs in input order.
func (m *Map) Insert(snap *text.Snapshot, folds ...span.Span[Fold]) []span.ID {
	return m.spans.Insert(snap, folds...)
}

// InsertRanges anchors the given point ranges as plain regions.
func (m *Map) InsertRanges(snap *text.Snapshot, ranges ...text.PointRange) []span.ID {
	spans := make([]span.Span[Fold], len(ranges))
	for i, r := range ranges {
		spans[i] = span.Span[Fold]{Range: snap.AnchorRange(r)}
	}
	return m.spans.Insert(snap, spans...)
}

// Remove deletes regions by ID. Unknown IDs are ignored.
func (m *Map) Remove(snap *text.Snapshot, ids ...span.ID) {
	m.spans.Remove(snap, ids...)
}

// Toggle flips the collapsed state of the first region starting on line.
// It returns the region's ID and true, or zero and false if the line has no
// region. The item itself is immutable, so toggling is a remove + insert.
func (m *Map) Toggle(snap *text.Snapshot, line uint32) (span.ID, bool) {
	item := m.spans.Snapshot().ItemAtLine(line, snap)
	if item == nil {
		return 0, false
	}
	next := item.Payload
	next.Collapsed = !next.Collapsed
	m.spans.Remove(snap, item.ID)
	ids := m.spans.Insert(snap, span.Span[Fold]{Range: item.Range, Payload: next})
	return ids[0], true
}

// Snapshot returns an immutable view of the fold map.
func (m *Map) Snapshot() Snapshot {
	return Snapshot{spans: m.spans.Snapshot()}
}

// Snapshot is an immutable view of a fold map, safe to share across
// goroutines.
type Snapshot struct {
	spans span.Snapshot[Fold]
}

// Len returns the number of regions in the view.
func (s Snapshot) Len() int {
	return s.spans.Len()
}

// FoldAtLine returns the first region starting on the given line, or nil.
func (s Snapshot) FoldAtLine(line uint32, snap *text.Snapshot) *span.Item[Fold] {
	return s.spans.ItemAtLine(line, snap)
}

// Folds materializes every region that still resolves, in range order.
func (s Snapshot) Folds(snap *text.Snapshot) []span.Resolved[Fold] {
	return s.spans.Resolved(snap)
}

// Overlapping returns the regions overlapping q. See [span.Snapshot.Overlapping].
func (s Snapshot) Overlapping(q text.PointRange, snap *text.Snapshot, inclusive, reversed bool) *span.MatchIter[Fold] {
	return s.spans.Overlapping(q, snap, inclusive, reversed)
}

// HiddenLines returns the set of lines hidden by collapsed regions: every
// line after a collapsed region's start line through its end line.
func (s Snapshot) HiddenLines(snap *text.Snapshot) map[uint32]bool {
	hidden := make(map[uint32]bool)
	for _, f := range s.spans.Resolved(snap) {
		if !f.Payload.Collapsed {
			continue
		}
		for line := f.Range.Start.Line + 1; line <= f.Range.End.Line; line++ {
			hidden[line] = true
		}
	}
	return hidden
}

// Placeholder returns the text drawn in place of a folded region.
func Placeholder(f Fold) string {
	if f.Placeholder != "" {
		return f.Placeholder
	}
	return DefaultPlaceholder
}
