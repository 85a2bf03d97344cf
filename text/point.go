package text

import "fmt"

// ByteOffset represents a byte position in the buffer.
// This is the fundamental position type, directly indexing into the text.
type ByteOffset = int64

// Point represents a line and column position.
// Both Line and Column are 0-indexed.
// Column is measured in bytes from the start of the line.
type Point struct {
	Line   uint32 // 0-indexed line number
	Column uint32 // 0-indexed column (byte offset within line)
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Point) Compare(other Point) int {
	if p.Line < other.Line {
		return -1
	}
	if p.Line > other.Line {
		return 1
	}
	if p.Column < other.Column {
		return -1
	}
	if p.Column > other.Column {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Point) Before(other Point) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Point) After(other Point) bool {
	return p.Compare(other) > 0
}

// IsZero returns true if this is the zero point (0:0).
func (p Point) IsZero() bool {
	return p.Line == 0 && p.Column == 0
}

// PointRange represents a range using line/column positions.
// Start is inclusive, End is exclusive: [Start, End).
type PointRange struct {
	Start Point
	End   Point
}

// NewPointRange creates a new PointRange from start and end points.
func NewPointRange(start, end Point) PointRange {
	return PointRange{Start: start, End: end}
}

// String returns a human-readable representation of the range.
func (r PointRange) String() string {
	return fmt.Sprintf("[%s:%s)", r.Start, r.End)
}

// IsEmpty returns true if start equals end.
func (r PointRange) IsEmpty() bool {
	return r.Start.Compare(r.End) == 0
}

// IsValid returns true if start <= end.
func (r PointRange) IsValid() bool {
	return r.Start.Compare(r.End) <= 0
}

// Contains returns true if the given point is within the range.
func (r PointRange) Contains(p Point) bool {
	return p.Compare(r.Start) >= 0 && p.Compare(r.End) < 0
}

// Overlaps returns true if the two ranges share at least one position.
func (r PointRange) Overlaps(other PointRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Touches returns true if the ranges overlap or abut at a boundary.
func (r PointRange) Touches(other PointRange) bool {
	return r.Start.Compare(other.End) <= 0 && other.Start.Compare(r.End) <= 0
}

// IsSingleLine returns true if the range spans only one line.
func (r PointRange) IsSingleLine() bool {
	return r.Start.Line == r.End.Line
}
