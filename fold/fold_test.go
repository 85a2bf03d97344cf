package fold

import (
	"testing"

	"github.com/dshills/spanmap/span"
	"github.com/dshills/spanmap/text"
)

func testBuffer() *text.Snapshot {
	return text.NewSnapshot("func a() {\n\tx := 1\n\ty := 2\n}\n\nfunc b() {\n}\n")
}

func lineRange(startLine, endLine uint32, endCol uint32) text.PointRange {
	return text.NewPointRange(
		text.Point{Line: startLine},
		text.Point{Line: endLine, Column: endCol},
	)
}

func TestInsertRanges(t *testing.T) {
	snap := testBuffer()
	m := NewMap()

	ids := m.InsertRanges(snap, lineRange(0, 3, 1), lineRange(5, 6, 1))
	if len(ids) != 2 || m.Len() != 2 {
		t.Fatalf("ids=%v len=%d", ids, m.Len())
	}

	view := m.Snapshot()
	if f := view.FoldAtLine(0, snap); f == nil || f.Payload.Kind != KindRegion {
		t.Errorf("FoldAtLine(0) = %v", f)
	}
	if f := view.FoldAtLine(1, snap); f != nil {
		t.Error("interior line reported as a fold start")
	}
	if f := view.FoldAtLine(5, snap); f == nil {
		t.Error("second region not found")
	}
}

func TestToggle(t *testing.T) {
	snap := testBuffer()
	m := NewMap()
	orig := m.InsertRanges(snap, lineRange(0, 3, 1))[0]

	id, ok := m.Toggle(snap, 0)
	if !ok {
		t.Fatal("Toggle found no region")
	}
	if id == orig {
		t.Error("toggle must produce a fresh id")
	}
	if f := m.Snapshot().FoldAtLine(0, snap); f == nil || !f.Payload.Collapsed {
		t.Errorf("region not collapsed: %v", f)
	}

	// Toggling again expands it; the region count never changes.
	if _, ok := m.Toggle(snap, 0); !ok {
		t.Fatal("second Toggle found no region")
	}
	if f := m.Snapshot().FoldAtLine(0, snap); f == nil || f.Payload.Collapsed {
		t.Errorf("region not expanded: %v", f)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d", m.Len())
	}

	if _, ok := m.Toggle(snap, 4); ok {
		t.Error("Toggle matched a line with no region")
	}
}

func TestHiddenLines(t *testing.T) {
	snap := testBuffer()
	m := NewMap()
	m.Insert(snap,
		span.Span[Fold]{Range: snap.AnchorRange(lineRange(0, 3, 1)), Payload: Fold{Collapsed: true}},
		span.Span[Fold]{Range: snap.AnchorRange(lineRange(5, 6, 1)), Payload: Fold{}},
	)

	hidden := m.Snapshot().HiddenLines(snap)

	// The collapsed region hides its interior and end, not its start line.
	for _, line := range []uint32{1, 2, 3} {
		if !hidden[line] {
			t.Errorf("line %d should be hidden", line)
		}
	}
	for _, line := range []uint32{0, 4, 5, 6} {
		if hidden[line] {
			t.Errorf("line %d should be visible", line)
		}
	}
}

func TestHiddenLinesFollowEdits(t *testing.T) {
	snap := testBuffer()
	m := NewMap()
	m.Insert(snap,
		span.Span[Fold]{Range: snap.AnchorRange(lineRange(5, 6, 1)), Payload: Fold{Collapsed: true}},
	)

	snap2 := snap.MustEdit(text.Change{Start: 0, End: 0, NewText: "// lead\n"})
	hidden := m.Snapshot().HiddenLines(snap2)
	if !hidden[7] || hidden[6] {
		t.Errorf("hidden after edit = %v", hidden)
	}
}

func TestPlaceholder(t *testing.T) {
	if got := Placeholder(Fold{}); got != DefaultPlaceholder {
		t.Errorf("default placeholder = %q", got)
	}
	if got := Placeholder(Fold{Placeholder: "..."}); got != "..." {
		t.Errorf("custom placeholder = %q", got)
	}
}

func TestFoldsResolveInOrder(t *testing.T) {
	snap := testBuffer()
	m := NewMap()
	m.InsertRanges(snap, lineRange(5, 6, 1), lineRange(0, 3, 1))

	folds := m.Snapshot().Folds(snap)
	if len(folds) != 2 {
		t.Fatalf("folds = %v", folds)
	}
	if folds[0].Range.Start.Line != 0 || folds[1].Range.Start.Line != 5 {
		t.Errorf("folds out of order: %v", folds)
	}
}
