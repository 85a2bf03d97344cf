// Package text provides an immutable, versioned view of a text buffer and
// anchors: stable references to buffer positions that keep resolving to the
// semantically right place as the text is edited.
//
// A [Snapshot] is one revision of the buffer. Applying edits produces a new
// snapshot; the old one stays valid for any reader still holding it. Every
// snapshot chain shares a bounded edit history, which is what lets an
// [Anchor] created against an older revision be re-resolved against a newer
// one: resolution replays the intervening edits over the anchor's recorded
// offset. Anchors whose creation revision has aged out of the retained
// history become invalid and resolve to nothing.
//
// Anchor ordering is only meaningful relative to a specific snapshot, so
// comparisons are explicit two-argument calls rather than an ordering
// method on the anchor alone:
//
//	snap := text.NewSnapshot("one\ntwo\nthree\n")
//	a := snap.AnchorBefore(text.Point{Line: 1})
//	snap2, _ := snap.Edit(text.Change{NewText: "zero\n"})
//	pt := a.ToPoint(snap2) // {Line: 2}
package text
