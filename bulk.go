package polyrtree

import (
	"fmt"
	"sort"

	"github.com/paulmach/orb"
)

// BulkLoad creates a new RTree of the given order holding all of the
// polygons. The bulk load operation is optimised for creating R-Trees with
// minimal node overlap, which allows for fast searching. The result can be
// modified with Insert and Delete like any other RTree.
func BulkLoad(order int, polygons []orb.Polygon) (*RTree, error) {
	tr, err := New(order)
	if err != nil {
		return nil, err
	}
	if len(polygons) == 0 {
		return tr, nil
	}

	entries := make([]Entry, len(polygons))
	for i, p := range polygons {
		bb, ok := polygonBound(p)
		if !ok {
			return nil, fmt.Errorf("polygon %d: %w", i, ErrEmptyPolygon)
		}
		entries[i] = Entry{Bound: bb, Polygon: p}
	}
	sortEntries(entries)

	isLeaf := true
	for {
		nodes := pack(entries, order, isLeaf)
		if len(nodes) == 1 {
			tr.root = nodes[0]
			break
		}
		entries = make([]Entry, len(nodes))
		for i, n := range nodes {
			entries[i] = Entry{Bound: n.bound(), Child: n}
		}
		isLeaf = false
	}
	tr.size = len(polygons)
	return tr, nil
}

// sortEntries orders entries so that entries close to each other in the
// slice tend to be close to each other spatially. The entries are sorted
// along the longer axis of their combined bound, then each half is sorted
// the same way.
func sortEntries(entries []Entry) {
	if len(entries) <= 2 {
		return
	}

	bb := entries[0].Bound
	for _, e := range entries[1:] {
		bb = combine(bb, e.Bound)
	}

	var sortBy func(i, j int) bool
	if bb.Max[0]-bb.Min[0] > bb.Max[1]-bb.Min[1] {
		sortBy = func(i, j int) bool {
			bi := entries[i].Bound
			bj := entries[j].Bound
			return bi.Min[0]+bi.Max[0] < bj.Min[0]+bj.Max[0]
		}
	} else {
		sortBy = func(i, j int) bool {
			bi := entries[i].Bound
			bj := entries[j].Bound
			return bi.Min[1]+bi.Max[1] < bj.Min[1]+bj.Max[1]
		}
	}
	sort.SliceStable(entries, sortBy)

	split := len(entries) / 2
	sortEntries(entries[:split])
	sortEntries(entries[split:])
}

// pack groups consecutive entries into as few nodes as the order allows,
// spreading the entries evenly so that every node is at least half full.
func pack(entries []Entry, order int, isLeaf bool) []*Node {
	count := (len(entries) + order - 1) / order
	nodes := make([]*Node, 0, count)
	for i := 0; i < count; i++ {
		lo := i * len(entries) / count
		hi := (i + 1) * len(entries) / count
		group := make([]Entry, hi-lo)
		copy(group, entries[lo:hi])
		nodes = append(nodes, &Node{IsLeaf: isLeaf, Entries: group})
	}
	return nodes
}
