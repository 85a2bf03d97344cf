package text

import (
	"fmt"

	"github.com/dshills/spanmap/sumtree"
)

// Bias selects which side of an insertion an anchor prefers to stay on.
// It is the same type the tree cursors use for seek positioning.
type Bias = sumtree.Bias

// Bias values re-exported for call-site readability.
const (
	BiasLeft  = sumtree.Left
	BiasRight = sumtree.Right
)

// Anchor is a stable reference to a buffer position. It records the
// revision it was created against; resolving it against a later snapshot in
// the same chain replays the intervening edits. An anchor degrades to
// invalid, never panics: once its creation revision ages out of the
// snapshot's retained history, or when resolved against a foreign chain,
// IsValid reports false and resolution returns the zero position.
//
// The zero Anchor is invalid.
type Anchor struct {
	rev    RevisionID
	offset ByteOffset
	bias   Bias
	chain  *chainTag
}

// AnchorBefore returns an anchor at p that stays before text inserted
// exactly at its position.
func (s *Snapshot) AnchorBefore(p Point) Anchor {
	return s.AnchorAt(s.PointToOffset(p), BiasLeft)
}

// AnchorAfter returns an anchor at p that moves past text inserted exactly
// at its position.
func (s *Snapshot) AnchorAfter(p Point) Anchor {
	return s.AnchorAt(s.PointToOffset(p), BiasRight)
}

// AnchorAt returns an anchor at the given byte offset with the given bias.
func (s *Snapshot) AnchorAt(off ByteOffset, bias Bias) Anchor {
	return Anchor{
		rev:    s.revision,
		offset: s.clampOffset(off),
		bias:   bias,
		chain:  s.chain,
	}
}

// Bias returns the anchor's insertion bias.
func (a Anchor) Bias() Bias {
	return a.bias
}

// IsValid reports whether the anchor can be resolved against snap: it must
// come from the same snapshot chain, must not postdate snap, and every edit
// since its creation must still be retained in snap's history.
func (a Anchor) IsValid(snap *Snapshot) bool {
	return a.chain != nil &&
		a.chain == snap.chain &&
		a.rev >= snap.floor &&
		a.rev <= snap.revision
}

// ToOffset resolves the anchor to a byte offset in snap.
// Invalid anchors resolve to 0; callers that care must check IsValid.
func (a Anchor) ToOffset(snap *Snapshot) ByteOffset {
	if !a.IsValid(snap) {
		return 0
	}
	off := a.offset
	for _, e := range snap.editsAfter(a.rev) {
		off = transformOffset(off, a.bias, e)
	}
	return snap.clampOffset(off)
}

// ToPoint resolves the anchor to a line/column position in snap.
// Invalid anchors resolve to the zero point.
func (a Anchor) ToPoint(snap *Snapshot) Point {
	return snap.OffsetToPoint(a.ToOffset(snap))
}

// Compare orders two anchors relative to snap. Anchors at the same resolved
// offset order by bias, left before right.
func (a Anchor) Compare(other Anchor, snap *Snapshot) int {
	ao, bo := a.ToOffset(snap), other.ToOffset(snap)
	switch {
	case ao < bo:
		return -1
	case ao > bo:
		return 1
	case a.bias == other.bias:
		return 0
	case a.bias == BiasLeft:
		return -1
	default:
		return 1
	}
}

// String returns a debug representation of the anchor.
func (a Anchor) String() string {
	return fmt.Sprintf("anchor(rev=%d off=%d %s)", a.rev, a.offset, a.bias)
}

// transformOffset maps an offset through one edit.
func transformOffset(off ByteOffset, bias Bias, e edit) ByteOffset {
	end := e.at + e.oldLen
	switch {
	case off < e.at:
		return off
	case off == e.at:
		// Insertion exactly at the anchor: bias breaks the tie.
		if e.oldLen == 0 && bias == BiasRight {
			return off + e.newLen
		}
		return off
	case off >= end:
		return off + e.newLen - e.oldLen
	default:
		// Anchor inside replaced text clamps to the edit boundary.
		if bias == BiasRight {
			return e.at + e.newLen
		}
		return e.at
	}
}

// Range is a pair of anchors, start inclusive and end exclusive.
type Range struct {
	Start Anchor
	End   Anchor
}

// AnchorRange anchors a point range so that it does not absorb text
// inserted exactly at either boundary: the start stays after an insertion
// at the start, the end stays before an insertion at the end.
func (s *Snapshot) AnchorRange(r PointRange) Range {
	return Range{
		Start: s.AnchorAfter(r.Start),
		End:   s.AnchorBefore(r.End),
	}
}

// IsValid reports whether both endpoints resolve against snap.
func (r Range) IsValid(snap *Snapshot) bool {
	return r.Start.IsValid(snap) && r.End.IsValid(snap)
}

// ToPointRange resolves both endpoints against snap.
func (r Range) ToPointRange(snap *Snapshot) PointRange {
	return PointRange{
		Start: r.Start.ToPoint(snap),
		End:   r.End.ToPoint(snap),
	}
}

// Compare orders two ranges relative to snap: by start, and on equal starts
// the longer range sorts first.
func (r Range) Compare(other Range, snap *Snapshot) int {
	if c := r.Start.Compare(other.Start, snap); c != 0 {
		return c
	}
	return other.End.Compare(r.End, snap)
}

// String returns a debug representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%s..%s]", r.Start, r.End)
}
