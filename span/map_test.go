package span

import (
	"math/rand"
	"testing"

	"github.com/dshills/spanmap/text"
)

func fiveLines() *text.Snapshot {
	return text.NewSnapshot("line0\nline1\nline2\nline3\nline4")
}

func pr(startLine, startCol, endLine, endCol uint32) text.PointRange {
	return text.NewPointRange(
		text.Point{Line: startLine, Column: startCol},
		text.Point{Line: endLine, Column: endCol},
	)
}

func mkSpan(snap *text.Snapshot, r text.PointRange, payload string) Span[string] {
	return Span[string]{Range: snap.AnchorRange(r), Payload: payload}
}

func TestInsertAndLookupByLine(t *testing.T) {
	snap := fiveLines()
	m := NewMap[string]()

	ids := m.Insert(snap,
		mkSpan(snap, pr(1, 0, 1, 5), "alpha"),
		mkSpan(snap, pr(3, 0, 3, 5), "beta"),
	)
	if len(ids) != 2 || ids[0] == ids[1] {
		t.Fatalf("ids = %v", ids)
	}
	if m.Len() != 2 {
		t.Fatalf("Len() = %d", m.Len())
	}

	view := m.Snapshot()
	for _, line := range []uint32{1, 3} {
		if view.ItemAtLine(line, snap) == nil {
			t.Errorf("no item at line %d", line)
		}
	}
	for _, line := range []uint32{0, 2, 4} {
		if item := view.ItemAtLine(line, snap); item != nil {
			t.Errorf("unexpected item at line %d: %q", line, item.Payload)
		}
	}

	m.Remove(snap, ids...)
	view = m.Snapshot()
	for line := uint32(0); line < 5; line++ {
		if view.ItemAtLine(line, snap) != nil {
			t.Errorf("item survived removal at line %d", line)
		}
	}
	if m.Len() != 0 {
		t.Errorf("Len() after removal = %d", m.Len())
	}
}

func TestInsertUnsortedBatch(t *testing.T) {
	snap := fiveLines()
	m := NewMap[string]()

	// Deliberately out of order; IDs must still come back in input order.
	ids := m.Insert(snap,
		mkSpan(snap, pr(4, 0, 4, 3), "last"),
		mkSpan(snap, pr(0, 0, 0, 3), "first"),
		mkSpan(snap, pr(2, 0, 2, 3), "middle"),
	)

	view := m.Snapshot()
	byID := make(map[ID]string)
	view.Each(func(it Item[string]) bool {
		byID[it.ID] = it.Payload
		return true
	})
	if byID[ids[0]] != "last" || byID[ids[1]] != "first" || byID[ids[2]] != "middle" {
		t.Errorf("ids not in input order: %v -> %v", ids, byID)
	}

	// Stored order is range order regardless of input order.
	items := view.Items()
	prev := text.Point{}
	for i, it := range items {
		start := it.Range.Start.ToPoint(snap)
		if start.Before(prev) {
			t.Fatalf("item %d out of order: %s < %s", i, start, prev)
		}
		prev = start
	}
}

func TestIDsNeverReused(t *testing.T) {
	snap := fiveLines()
	m := NewMap[string]()

	first := m.Insert(snap, mkSpan(snap, pr(0, 0, 0, 3), "a"))[0]
	m.Remove(snap, first)
	second := m.Insert(snap, mkSpan(snap, pr(0, 0, 0, 3), "b"))[0]

	if second <= first {
		t.Errorf("id reused: first=%d second=%d", first, second)
	}
}

func TestRemoveIdempotent(t *testing.T) {
	snap := fiveLines()
	m := NewMap[string]()
	ids := m.Insert(snap, mkSpan(snap, pr(1, 0, 1, 5), "x"))

	m.Remove(snap, ids[0])
	m.Remove(snap, ids[0])      // second removal is a no-op
	m.Remove(snap, ID(999999))  // unknown id is a no-op
	if m.Len() != 0 {
		t.Errorf("Len() = %d", m.Len())
	}
}

func TestRemoveAmongIdenticalRanges(t *testing.T) {
	snap := fiveLines()
	m := NewMap[string]()

	r := pr(2, 0, 2, 5)
	ids := m.Insert(snap,
		mkSpan(snap, r, "a"),
		mkSpan(snap, r, "b"),
		mkSpan(snap, r, "c"),
	)

	m.Remove(snap, ids[1])

	var got []string
	m.Snapshot().Each(func(it Item[string]) bool {
		got = append(got, it.Payload)
		return true
	})
	if len(got) != 2 {
		t.Fatalf("payloads = %v", got)
	}
	for _, p := range got {
		if p == "b" {
			t.Error("removed span still present")
		}
	}

	// Removing the rest, including one already gone, empties the map.
	m.Remove(snap, ids...)
	if m.Len() != 0 {
		t.Errorf("Len() = %d", m.Len())
	}
}

func TestSnapshotIsolation(t *testing.T) {
	snap := fiveLines()
	m := NewMap[string]()
	oldIDs := m.Insert(snap, mkSpan(snap, pr(0, 0, 0, 5), "old"))

	view := m.Snapshot()
	m.Insert(snap, mkSpan(snap, pr(1, 0, 1, 5), "new"))
	m.Remove(snap, oldIDs[0])

	if view.Len() != 1 {
		t.Errorf("old view changed: Len() = %d", view.Len())
	}
	if item := view.ItemAtLine(0, snap); item == nil || item.Payload != "old" {
		t.Errorf("old view lost its item: %v", item)
	}
	if m.Snapshot().Len() != 1 {
		t.Errorf("live map Len() = %d", m.Snapshot().Len())
	}
}

func TestSpansFollowEdits(t *testing.T) {
	snap := fiveLines()
	m := NewMap[string]()
	m.Insert(snap, mkSpan(snap, pr(3, 0, 3, 5), "tracked"))
	view := m.Snapshot()

	// Insert a line above; the span must shift down one line.
	snap2 := snap.MustEdit(text.Change{Start: 0, End: 0, NewText: "header\n"})

	if item := view.ItemAtLine(3, snap2); item != nil {
		t.Errorf("span still reported on line 3: %q", item.Payload)
	}
	item := view.ItemAtLine(4, snap2)
	if item == nil || item.Payload != "tracked" {
		t.Fatalf("span not found on line 4: %v", item)
	}

	resolved := view.Resolved(snap2)
	if len(resolved) != 1 {
		t.Fatalf("resolved = %v", resolved)
	}
	want := pr(4, 0, 4, 5)
	if resolved[0].Range != want {
		t.Errorf("resolved range = %s, want %s", resolved[0].Range, want)
	}
}

func TestOverlappingBoundaries(t *testing.T) {
	snap := fiveLines()
	m := NewMap[string]()
	m.Insert(snap, mkSpan(snap, pr(1, 2, 1, 4), "mid"))
	view := m.Snapshot()

	tests := []struct {
		name      string
		q         text.PointRange
		exclusive bool
		inclusive bool
	}{
		{"proper overlap", pr(1, 3, 1, 9), true, true},
		{"contains span", pr(0, 0, 4, 0), true, true},
		{"abuts span end", pr(1, 4, 1, 9), false, true},
		{"abuts span start", pr(1, 0, 1, 2), false, true},
		{"disjoint", pr(3, 0, 3, 5), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := view.Overlapping(tt.q, snap, false, false).Collect()
			if (len(got) == 1) != tt.exclusive {
				t.Errorf("exclusive matches = %d, want match=%v", len(got), tt.exclusive)
			}
			got = view.Overlapping(tt.q, snap, true, false).Collect()
			if (len(got) == 1) != tt.inclusive {
				t.Errorf("inclusive matches = %d, want match=%v", len(got), tt.inclusive)
			}
		})
	}
}

func TestOverlappingAgainstScan(t *testing.T) {
	var sb []byte
	for i := 0; i < 40; i++ {
		sb = append(sb, "0123456789\n"...)
	}
	snap := text.NewSnapshot(string(sb))

	rng := rand.New(rand.NewSource(3))
	m := NewMap[int]()
	for i := 0; i < 150; i++ {
		startLine := uint32(rng.Intn(40))
		endLine := startLine + uint32(rng.Intn(3))
		if endLine > 39 {
			endLine = 39
		}
		r := pr(startLine, uint32(rng.Intn(10)), endLine, uint32(rng.Intn(10)))
		if !r.IsValid() {
			r = text.NewPointRange(r.End, r.Start)
		}
		m.Insert(snap, Span[int]{Range: snap.AnchorRange(r), Payload: i})
	}

	view := m.Snapshot()
	all := view.Resolved(snap)

	for trial := 0; trial < 40; trial++ {
		q := pr(uint32(rng.Intn(40)), uint32(rng.Intn(10)), uint32(rng.Intn(40)), uint32(rng.Intn(10)))
		if !q.IsValid() {
			q = text.NewPointRange(q.End, q.Start)
		}

		for _, inclusive := range []bool{false, true} {
			var want []ID
			for _, r := range all {
				match := r.Range.Overlaps(q)
				if inclusive {
					match = r.Range.Touches(q)
				}
				if match {
					want = append(want, r.ID)
				}
			}

			var got []ID
			for _, r := range view.Overlapping(q, snap, inclusive, false).Collect() {
				got = append(got, r.ID)
			}
			if !equalIDs(got, want) {
				t.Fatalf("trial %d inclusive=%v: got %v, want %v", trial, inclusive, got, want)
			}

			rev := view.Overlapping(q, snap, inclusive, true).Collect()
			if len(rev) != len(want) {
				t.Fatalf("trial %d reversed count = %d, want %d", trial, len(rev), len(want))
			}
			for i := range rev {
				if rev[i].ID != want[len(want)-1-i] {
					t.Fatalf("trial %d reversed order mismatch at %d", trial, i)
				}
			}
		}
	}
}

func TestLargeBatchInsert(t *testing.T) {
	const lines = 2500
	var sb []byte
	for i := 0; i < lines; i++ {
		sb = append(sb, "some text\n"...)
	}
	snap := text.NewSnapshot(string(sb))

	// One span per line, presented shuffled, in a single batch.
	rng := rand.New(rand.NewSource(19))
	batch := make([]Span[int], lines)
	for i, line := range rng.Perm(lines) {
		batch[i] = Span[int]{
			Range:   snap.AnchorRange(pr(uint32(line), 0, uint32(line), 4)),
			Payload: line,
		}
	}

	m := NewMap[int]()
	ids := m.Insert(snap, batch...)
	if len(ids) != lines || m.Len() != lines {
		t.Fatalf("ids=%d Len()=%d, want %d", len(ids), m.Len(), lines)
	}

	view := m.Snapshot()
	if got := len(view.Resolved(snap)); got != lines {
		t.Fatalf("Resolved() = %d items, want %d", got, lines)
	}
	for _, line := range []uint32{0, 1, 1234, 1799, 1800, 2000, lines - 1} {
		item := view.ItemAtLine(line, snap)
		if item == nil {
			t.Fatalf("no item on line %d", line)
		}
		if item.Payload != int(line) {
			t.Errorf("line %d payload = %d", line, item.Payload)
		}
	}

	// A second full-size batch lands on top without losing the first.
	m.Insert(snap, batch...)
	if m.Len() != 2*lines {
		t.Errorf("Len() after second batch = %d, want %d", m.Len(), 2*lines)
	}
}

func equalIDs(a, b []ID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
