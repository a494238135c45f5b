package polyrtree

import "github.com/paulmach/orb"

// step is one node on a root to leaf path, along with the index of the entry
// in the previous step's node that leads to it. The root's slot is -1.
type step struct {
	node *Node
	slot int
}

// Insert adds a polygon to the RTree. Polygons equal to ones already in the
// tree are added again rather than replacing them.
func (t *RTree) Insert(p orb.Polygon) error {
	bb, ok := polygonBound(p)
	if !ok {
		return ErrEmptyPolygon
	}

	path := t.chooseLeafPath(bb)
	leaf := path[len(path)-1].node
	var sibling *Node
	if leaf.appendEntry(Entry{Bound: bb, Polygon: p}, t.order) {
		sibling = leaf.split(t.minEntries())
	}
	t.adjustTree(path, sibling)
	t.size++
	return nil
}

// chooseLeafPath descends from the root to the leaf that a new entry with the
// given bound should be added to.
func (t *RTree) chooseLeafPath(bb orb.Bound) []step {
	path := []step{{node: t.root, slot: -1}}
	node := t.root
	for !node.IsLeaf {
		slot := node.chooseSubtree(bb)
		node = node.Entries[slot].Child
		path = append(path, step{node: node, slot: slot})
	}
	return path
}

// adjustTree walks back up the path after the last node in it has changed,
// fixing the bounds of each parent entry. If sibling is non-nil, it was split
// off the last node in the path and is added to that node's parent, which may
// in turn split. A split of the root grows the tree by one level.
func (t *RTree) adjustTree(path []step, sibling *Node) {
	for i := len(path) - 1; i > 0; i-- {
		n, parent := path[i].node, path[i-1].node
		parent.Entries[path[i].slot].Bound = n.bound()
		if sibling == nil {
			continue
		}
		e := Entry{Bound: sibling.bound(), Child: sibling}
		sibling = nil
		if parent.appendEntry(e, t.order) {
			sibling = parent.split(t.minEntries())
		}
	}
	if sibling != nil {
		t.joinRoots(t.root, sibling)
	}
}

func (t *RTree) joinRoots(r1, r2 *Node) {
	t.root = &Node{
		IsLeaf: false,
		Entries: []Entry{
			{Bound: r1.bound(), Child: r1},
			{Bound: r2.bound(), Child: r2},
		},
	}
}
