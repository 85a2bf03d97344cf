// Package diagnostic indexes already-computed diagnostics by their buffer
// ranges. It is a payload layer over [span.Map]: insertion, removal, and
// overlap queries come from the span package; this package adds severity
// and grouping semantics plus decoding of LSP publishDiagnostics payloads.
package diagnostic

import (
	"sort"

	"github.com/dshills/spanmap/span"
	"github.com/dshills/spanmap/text"
)

// Set is the live, single-writer diagnostic collection for one buffer.
// Readers use snapshots.
type Set struct {
	spans     *span.Map[Entry]
	bySource  map[string][]span.ID
	sourceOf  map[span.ID]string
	nextGroup GroupID
}

// NewSet creates an empty diagnostic set.
func NewSet() *Set {
	return &Set{
		spans:     span.NewMap[Entry](),
		bySource:  make(map[string][]span.ID),
		sourceOf:  make(map[span.ID]string),
		nextGroup: 1,
	}
}

// Len returns the number of tracked diagnostics.
func (s *Set) Len() int {
	return s.spans.Len()
}

// NextGroup allocates a fresh group identifier.
func (s *Set) NextGroup() GroupID {
	g := s.nextGroup
	s.nextGroup++
	return g
}

// Insert adds diagnostics and returns their IDs in input order.
func (s *Set) Insert(snap *text.Snapshot, entries ...span.Span[Entry]) []span.ID {
	ids := s.spans.Insert(snap, entries...)
	for i, id := range ids {
		src := entries[i].Payload.Source
		s.bySource[src] = append(s.bySource[src], id)
		s.sourceOf[id] = src
	}
	return ids
}

// Remove deletes diagnostics by ID. Unknown IDs are ignored.
func (s *Set) Remove(snap *text.Snapshot, ids ...span.ID) {
	s.spans.Remove(snap, ids...)
	for _, id := range ids {
		src, ok := s.sourceOf[id]
		if !ok {
			continue
		}
		delete(s.sourceOf, id)
		kept := s.bySource[src][:0]
		for _, other := range s.bySource[src] {
			if other != id {
				kept = append(kept, other)
			}
		}
		if len(kept) == 0 {
			delete(s.bySource, src)
		} else {
			s.bySource[src] = kept
		}
	}
}

// Update replaces every diagnostic previously published by source with the
// given batch, the way a language server's publishDiagnostics notification
// replaces its prior state for a document. Entries from other sources are
// untouched. Returns the IDs of the new batch.
func (s *Set) Update(snap *text.Snapshot, source string, entries []span.Span[Entry]) []span.ID {
	if old := s.bySource[source]; len(old) > 0 {
		s.Remove(snap, old...)
	}
	for i := range entries {
		entries[i].Payload.Source = source
	}
	return s.Insert(snap, entries...)
}

// Snapshot returns an immutable view of the set.
func (s *Set) Snapshot() Snapshot {
	return Snapshot{spans: s.spans.Snapshot()}
}

// Snapshot is an immutable view of a diagnostic set, safe to share across
// goroutines.
type Snapshot struct {
	spans span.Snapshot[Entry]
}

// Len returns the number of diagnostics in the view.
func (s Snapshot) Len() int {
	return s.spans.Len()
}

// Entries materializes every diagnostic that still resolves, in range order.
func (s Snapshot) Entries(snap *text.Snapshot) []span.Resolved[Entry] {
	return s.spans.Resolved(snap)
}

// EntryAtLine returns the first diagnostic starting on line, or nil.
func (s Snapshot) EntryAtLine(line uint32, snap *text.Snapshot) *span.Item[Entry] {
	return s.spans.ItemAtLine(line, snap)
}

// InRange returns the diagnostics overlapping q. See [span.Snapshot.Overlapping].
func (s Snapshot) InRange(q text.PointRange, snap *text.Snapshot, inclusive, reversed bool) *span.MatchIter[Entry] {
	return s.spans.Overlapping(q, snap, inclusive, reversed)
}

// Group is one diagnostic group: a primary entry plus its supporting
// entries, ordered by resolved start.
type Group struct {
	ID        GroupID
	Entries   []span.Resolved[Entry]
	PrimaryIx int
}

// Primary returns the group's primary entry.
func (g Group) Primary() span.Resolved[Entry] {
	return g.Entries[g.PrimaryIx]
}

// Groups partitions the view's diagnostics by group, orders each group's
// entries by resolved start, and designates the first primary-flagged entry
// as the group's primary regardless of insertion order. Groups are ordered
// by their primary entry's start. This is a full O(n log n) derived
// computation over the view.
func (s Snapshot) Groups(snap *text.Snapshot) []Group {
	byID := make(map[GroupID]*Group)
	var order []*Group
	for _, e := range s.spans.Resolved(snap) {
		g, ok := byID[e.Payload.Group]
		if !ok {
			g = &Group{ID: e.Payload.Group}
			byID[e.Payload.Group] = g
			order = append(order, g)
		}
		g.Entries = append(g.Entries, e)
	}

	for _, g := range order {
		sort.SliceStable(g.Entries, func(a, b int) bool {
			return g.Entries[a].Range.Start.Before(g.Entries[b].Range.Start)
		})
		for i, e := range g.Entries {
			if e.Payload.IsPrimary {
				g.PrimaryIx = i
				break
			}
		}
	}

	sort.SliceStable(order, func(a, b int) bool {
		pa := order[a].Primary().Range.Start
		pb := order[b].Primary().Range.Start
		if c := pa.Compare(pb); c != 0 {
			return c < 0
		}
		return order[a].ID < order[b].ID
	})

	out := make([]Group, len(order))
	for i, g := range order {
		out[i] = *g
	}
	return out
}
