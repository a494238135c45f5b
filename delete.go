package polyrtree

import "github.com/paulmach/orb"

// Delete removes a polygon equal to p from the RTree. If several equal
// polygons are in the tree, only one of them is removed. ErrNotFound is
// returned (and the tree is left unchanged) if there is no such polygon.
func (t *RTree) Delete(p orb.Polygon) error {
	bb, ok := polygonBound(p)
	if !ok {
		return ErrNotFound
	}

	// D1 [Find node containing record]
	path := t.findLeaf(bb, p)
	if path == nil {
		return ErrNotFound
	}

	// D2 [Delete record]
	last := path[len(path)-1]
	last.node.removeAt(last.slot, t.minEntries())
	path = path[:len(path)-1]

	// D3 [Propagate changes]
	t.condenseTree(path)

	// D4 [Shorten tree]
	if !t.root.IsLeaf && len(t.root.Entries) == 1 {
		t.root = t.root.Entries[0].Child
	}

	t.size--
	return nil
}

// findLeaf searches for a leaf entry holding a polygon equal to p. Every
// branch whose bound overlaps bb is searched, since overlapping siblings can
// each hold the polygon's bound. The returned path ends with the leaf entry
// itself: the leaf node and the index of the matching entry within it. A nil
// path is returned if no match is found.
func (t *RTree) findLeaf(bb orb.Bound, p orb.Polygon) []step {
	var path []step
	var recurse func(n *Node, slot int) bool
	recurse = func(n *Node, slot int) bool {
		path = append(path, step{node: n, slot: slot})
		for i, entry := range n.Entries {
			if !overlap(entry.Bound, bb) {
				continue
			}
			if n.IsLeaf {
				if entry.Polygon.Equal(p) {
					path = append(path, step{node: n, slot: i})
					return true
				}
			} else if recurse(entry.Child, i) {
				return true
			}
		}
		path = path[:len(path)-1]
		return false
	}
	if !recurse(t.root, -1) {
		return nil
	}
	return path
}

// condenseTree walks back up the path after an entry was removed from the
// last node in it. Under-full nodes either borrow an entry from an adjacent
// sibling that can spare one, or are merged with an adjacent sibling, which
// removes an entry from the parent. Parent bounds are fixed along the way.
func (t *RTree) condenseTree(path []step) {
	minEntries := t.minEntries()
	for i := len(path) - 1; i > 0; i-- {
		n, parent, slot := path[i].node, path[i-1].node, path[i].slot
		if len(n.Entries) >= minEntries {
			parent.Entries[slot].Bound = n.bound()
			continue
		}
		t.growChild(parent, slot)
	}
}

// growChild fixes the under-full child at index i of parent. It steals from
// the left sibling if that sibling has an entry to spare, otherwise from the
// right sibling, and otherwise merges the child with one of them.
func (t *RTree) growChild(parent *Node, i int) {
	minEntries := t.minEntries()
	switch {
	case i > 0 && len(parent.Entries[i-1].Child.Entries) > minEntries:
		// steal from left child
		t.steal(parent, i, i-1)
	case i+1 < len(parent.Entries) && len(parent.Entries[i+1].Child.Entries) > minEntries:
		// steal from right child
		t.steal(parent, i, i+1)
	default:
		// merge the right one of the pair into the left one
		if i == 0 {
			i++
		}
		into := parent.Entries[i-1].Child
		into.Entries = append(into.Entries, parent.Entries[i].Child.Entries...)
		if len(into.Entries) > t.order {
			panic("merge overflowed node")
		}
		parent.removeAt(i, minEntries)
		parent.Entries[i-1].Bound = into.bound()
	}
}

// steal moves entries from the sibling at index from to the under-full child
// at index to, until the child is back at the minimum. The sibling entry
// moved each time is the one that enlarges the child's bound the least.
func (t *RTree) steal(parent *Node, to, from int) {
	minEntries := t.minEntries()
	child := parent.Entries[to].Child
	sibling := parent.Entries[from].Child
	for len(child.Entries) < minEntries && len(sibling.Entries) > minEntries {
		best := 0
		if len(child.Entries) > 0 {
			bb := child.bound()
			bestDelta := enlargement(bb, sibling.Entries[0].Bound)
			for j := 1; j < len(sibling.Entries); j++ {
				if delta := enlargement(bb, sibling.Entries[j].Bound); delta < bestDelta {
					best, bestDelta = j, delta
				}
			}
		}
		e, _ := sibling.removeAt(best, minEntries)
		child.Entries = append(child.Entries, e)
	}
	parent.Entries[to].Bound = child.bound()
	parent.Entries[from].Bound = sibling.bound()
}
