package span

import (
	"sort"

	"github.com/dshills/spanmap/sumtree"
	"github.com/dshills/spanmap/text"
)

// Map is the live, single-writer span collection. It owns a persistent tree
// of items ordered by anchored range and a reverse index from ID to range
// for removal. The map itself provides no locking: exactly one goroutine
// mutates it, and readers work from snapshots taken with [Map.Snapshot].
type Map[P any] struct {
	tree   sumtree.Tree[Item[P], summary, *text.Snapshot]
	nextID ID
	ranges map[ID]text.Range
}

// NewMap creates an empty span map.
func NewMap[P any]() *Map[P] {
	return &Map[P]{
		nextID: 1,
		ranges: make(map[ID]text.Range),
	}
}

// Len returns the number of tracked spans.
func (m *Map[P]) Len() int {
	return m.tree.Len()
}

// Snapshot returns an immutable view of the current state. Taking one is
// O(1); the view shares structure with the live tree and is unaffected by
// later mutations.
func (m *Map[P]) Snapshot() Snapshot[P] {
	return Snapshot[P]{tree: m.tree}
}

// Insert adds spans and returns their assigned IDs in the same order as the
// input. The batch is sorted internally before the bulk splice, so callers
// may present spans in any order. Cost is linear in the size of the
// existing collection plus the batch, amortized through slice and append.
func (m *Map[P]) Insert(snap *text.Snapshot, spans ...Span[P]) []ID {
	if len(spans) == 0 {
		return nil
	}

	order := make([]int, len(spans))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return spans[order[a]].Range.Compare(spans[order[b]].Range, snap) < 0
	})

	ids := make([]ID, len(spans))
	cursor := m.tree.Cursor()
	var built sumtree.Tree[Item[P], summary, *text.Snapshot]

	for _, src := range order {
		sp := spans[src]
		prefix := cursor.Slice(rangeTarget(sp.Range), sumtree.Left, snap)
		built = built.Append(prefix, snap)

		id := m.nextID
		m.nextID++
		m.ranges[id] = sp.Range
		built = built.Push(Item[P]{ID: id, Range: sp.Range, Payload: sp.Payload}, snap)
		ids[src] = id
	}

	m.tree = built.Append(cursor.Suffix(snap), snap)
	return ids
}

// Remove deletes the spans with the given IDs. Unknown or already-removed
// IDs are ignored, so removal is idempotent. Removing N ids from a
// collection of M spans is one slice-and-rescan pass, O(M log M) worst case.
func (m *Map[P]) Remove(snap *text.Snapshot, ids ...ID) {
	type removal struct {
		id  ID
		rng text.Range
	}
	resolved := make([]removal, 0, len(ids))
	for _, id := range ids {
		rng, ok := m.ranges[id]
		if !ok {
			continue
		}
		delete(m.ranges, id)
		resolved = append(resolved, removal{id: id, rng: rng})
	}
	if len(resolved) == 0 {
		return
	}

	sort.Slice(resolved, func(a, b int) bool {
		if c := resolved[a].rng.Compare(resolved[b].rng, snap); c != 0 {
			return c < 0
		}
		return resolved[a].id > resolved[b].id
	})

	cursor := m.tree.Cursor()
	var built sumtree.Tree[Item[P], summary, *text.Snapshot]

	for i := 0; i < len(resolved); {
		// Group removals that share an identical range so the run of items
		// starting there is scanned once.
		group := map[ID]bool{resolved[i].id: true}
		rng := resolved[i].rng
		j := i + 1
		for j < len(resolved) && resolved[j].rng.Compare(rng, snap) == 0 {
			group[resolved[j].id] = true
			j++
		}
		i = j

		prefix := cursor.Slice(rangeTarget(rng), sumtree.Left, snap)
		built = built.Append(prefix, snap)

		for {
			item := cursor.Item()
			if item == nil || item.Range.Compare(rng, snap) != 0 {
				break
			}
			if !group[item.ID] {
				built = built.Push(*item, snap)
			}
			cursor.Next()
		}
	}

	m.tree = built.Append(cursor.Suffix(snap), snap)
}
