// Package sumtree provides a persistent, balanced sequence container whose
// items contribute an associative summary aggregated in every subtree.
//
// The tree is a B+ tree variant: leaf nodes hold runs of items, internal
// nodes hold child references plus the combined summary of their subtree.
// Summaries are combined through an explicit context value because for many
// item types (anchored ranges in particular) two summaries only compare
// relative to a specific buffer snapshot.
//
// Key features:
//   - O(log n) seek, slice, and append via subtree-summary short-circuiting
//   - Immutable operations return new trees; originals are never modified
//   - Structural sharing makes cloning a tree O(1)
//   - Thread-safe for concurrent read access
//
// Basic usage:
//
//	t := sumtree.New[item, itemSummary, ctx]()
//	t = t.Push(x, cx)
//	c := t.Cursor()
//	c.Seek(target, sumtree.Left, cx)
//	prefix := c.Slice(target2, sumtree.Left, cx)
//
// Cursors and filtered iterators traverse a fixed tree value; taking a new
// tree from a structural operation never disturbs traversals of the old one.
package sumtree
