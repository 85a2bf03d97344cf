package text

import (
	"sort"
	"strings"
	"sync/atomic"
)

// RevisionID uniquely identifies a buffer revision.
// Each applied change creates a new revision.
type RevisionID uint64

// revisionCounter is used to generate unique revision IDs.
var revisionCounter uint64

// NewRevisionID generates a new unique revision ID.
// This is thread-safe using atomic operations.
func NewRevisionID() RevisionID {
	return RevisionID(atomic.AddUint64(&revisionCounter, 1))
}

// DefaultMaxHistory is the default number of edits retained for anchor
// resolution. Anchors older than the retained history become invalid.
const DefaultMaxHistory = 10000

// Change describes one edit: the text in [Start, End) of the snapshot the
// change is applied to is replaced by NewText. A pure insertion has
// Start == End; a pure deletion has an empty NewText.
type Change struct {
	Start   ByteOffset
	End     ByteOffset
	NewText string
}

// edit is one recorded transformation, in the coordinates of the text
// immediately before it was applied.
type edit struct {
	rev    RevisionID
	at     ByteOffset
	oldLen ByteOffset
	newLen ByteOffset
}

// chainTag identifies one snapshot lineage. Anchors carry the tag of the
// chain they were created against and resolve only within it.
type chainTag struct{}

// Option configures a snapshot chain at creation.
type Option func(*Snapshot)

// WithMaxHistory bounds the number of retained edits. Older edits are
// discarded as new ones arrive, invalidating anchors that predate them.
func WithMaxHistory(n int) Option {
	return func(s *Snapshot) {
		if n > 0 {
			s.maxHistory = n
		}
	}
}

// Snapshot is an immutable text state at one revision. Applying edits
// produces a new snapshot; the original remains valid and may be read
// concurrently from any number of goroutines.
type Snapshot struct {
	content    string
	lineStarts []ByteOffset
	revision   RevisionID
	floor      RevisionID // oldest revision anchors can still resolve from
	edits      []edit     // ascending by rev; shared prefix across the chain
	maxHistory int
	chain      *chainTag
}

// NewSnapshot creates the first snapshot of a new buffer chain.
func NewSnapshot(content string, opts ...Option) *Snapshot {
	rev := NewRevisionID()
	s := &Snapshot{
		content:    content,
		lineStarts: indexLines(content),
		revision:   rev,
		floor:      rev,
		maxHistory: DefaultMaxHistory,
		chain:      &chainTag{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func indexLines(content string) []ByteOffset {
	starts := make([]ByteOffset, 1, strings.Count(content, "\n")+1)
	starts[0] = 0
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, ByteOffset(i+1))
		}
	}
	return starts
}

// Revision returns the snapshot's revision.
func (s *Snapshot) Revision() RevisionID {
	return s.revision
}

// Len returns the byte length of the text.
func (s *Snapshot) Len() ByteOffset {
	return ByteOffset(len(s.content))
}

// Text returns the full text.
func (s *Snapshot) Text() string {
	return s.content
}

// LineCount returns the number of lines. An empty buffer has one line.
func (s *Snapshot) LineCount() uint32 {
	return uint32(len(s.lineStarts))
}

// Line returns the text of the given line, without its trailing newline.
// Out-of-range lines yield an empty string.
func (s *Snapshot) Line(line uint32) string {
	if line >= s.LineCount() {
		return ""
	}
	start := s.lineStarts[line]
	end := s.lineEnd(line)
	return s.content[start:end]
}

// lineEnd returns the offset just past the content of line (before the
// newline, if any).
func (s *Snapshot) lineEnd(line uint32) ByteOffset {
	if line+1 < s.LineCount() {
		return s.lineStarts[line+1] - 1
	}
	return s.Len()
}

// PointToOffset converts a point to a byte offset, clamping out-of-range
// lines and columns to the nearest valid position.
func (s *Snapshot) PointToOffset(p Point) ByteOffset {
	if p.Line >= s.LineCount() {
		return s.Len()
	}
	start := s.lineStarts[p.Line]
	end := s.lineEnd(p.Line)
	off := start + ByteOffset(p.Column)
	if off > end {
		return end
	}
	return off
}

// OffsetToPoint converts a byte offset to a point, clamping out-of-range
// offsets.
func (s *Snapshot) OffsetToPoint(off ByteOffset) Point {
	if off < 0 {
		off = 0
	}
	if off > s.Len() {
		off = s.Len()
	}
	line := sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > off
	}) - 1
	return Point{
		Line:   uint32(line),
		Column: uint32(off - s.lineStarts[line]),
	}
}

// Edit applies changes and returns the resulting snapshot. Changes are in
// the receiver's coordinates and must be sorted ascending by Start and
// non-overlapping. The receiver is unchanged and stays valid.
func (s *Snapshot) Edit(changes ...Change) (*Snapshot, error) {
	if len(changes) == 0 {
		return s, nil
	}

	var prevEnd ByteOffset = -1
	for _, ch := range changes {
		if ch.Start < 0 || ch.End < ch.Start || ch.End > s.Len() {
			return nil, ErrInvalidChange
		}
		if ch.Start < prevEnd {
			return nil, ErrOverlappingChanges
		}
		prevEnd = ch.End
	}

	var sb strings.Builder
	edits := make([]edit, len(s.edits), len(s.edits)+len(changes))
	copy(edits, s.edits)

	var consumed ByteOffset
	var delta ByteOffset
	var rev RevisionID
	for _, ch := range changes {
		sb.WriteString(s.content[consumed:ch.Start])
		sb.WriteString(ch.NewText)
		consumed = ch.End

		rev = NewRevisionID()
		edits = append(edits, edit{
			rev:    rev,
			at:     ch.Start + delta,
			oldLen: ch.End - ch.Start,
			newLen: ByteOffset(len(ch.NewText)),
		})
		delta += ByteOffset(len(ch.NewText)) - (ch.End - ch.Start)
	}
	sb.WriteString(s.content[consumed:])

	next := &Snapshot{
		content:    sb.String(),
		revision:   rev,
		floor:      s.floor,
		edits:      edits,
		maxHistory: s.maxHistory,
		chain:      s.chain,
	}
	next.lineStarts = indexLines(next.content)

	if len(next.edits) > next.maxHistory {
		drop := len(next.edits) - next.maxHistory
		next.floor = next.edits[drop-1].rev
		next.edits = append([]edit(nil), next.edits[drop:]...)
	}
	return next, nil
}

// MustEdit is Edit for callers that know their changes are well formed.
// It panics on a malformed change set.
func (s *Snapshot) MustEdit(changes ...Change) *Snapshot {
	next, err := s.Edit(changes...)
	if err != nil {
		panic(err)
	}
	return next
}

// editsAfter returns the retained edits with revisions in (rev, s.revision].
func (s *Snapshot) editsAfter(rev RevisionID) []edit {
	i := sort.Search(len(s.edits), func(i int) bool {
		return s.edits[i].rev > rev
	})
	return s.edits[i:]
}

func (s *Snapshot) clampOffset(off ByteOffset) ByteOffset {
	if off < 0 {
		return 0
	}
	if off > s.Len() {
		return s.Len()
	}
	return off
}
