// Package span tracks a collection of anchored ranges over a text buffer:
// folds, diagnostics, decorations. Each tracked item keeps its position as
// the buffer is edited because its endpoints are [text.Anchor] values, and
// the collection stays ordered and queryable in O(log n) because it lives in
// a persistent summary tree.
//
// A [Map] is the single-writer live structure. Readers never touch it
// directly: they take a [Snapshot], an O(1) structurally shared view that
// stays consistent no matter how the map is mutated afterward, and run line
// and overlap queries against it. Handing snapshots to other goroutines
// (a renderer, typically) requires no locking.
//
// Every operation takes the *text.Snapshot the caller is working against,
// because anchors only compare relative to one buffer revision.
package span
