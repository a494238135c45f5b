// Package polyrtree implements an in-memory R-Tree over two dimensional
// polygons. Polygons are indexed by the bounding box of their outer ring, and
// can be found again by exact match or by bounding box intersection.
package polyrtree

import (
	"errors"
	"fmt"
	"io"

	"github.com/paulmach/orb"
)

// MinOrder is the smallest order an RTree can be created with. Anything
// smaller cannot split an overflowing node into two nodes that are both at
// least half full.
const MinOrder = 3

var (
	// ErrInvalidOrder is returned when an RTree is created with an order
	// smaller than MinOrder.
	ErrInvalidOrder = errors.New("order must be at least 3")

	// ErrNotFound is returned when deleting a polygon that isn't in the tree.
	ErrNotFound = errors.New("polygon not found")

	// ErrEmptyPolygon is returned when inserting a polygon whose outer ring
	// has no points, and so has no bounding box.
	ErrEmptyPolygon = errors.New("polygon has no points")
)

// Stop is a special sentinel error that can be used to stop a search
// operation without any error.
var Stop = errors.New("stop")

// RTree is an in-memory R-Tree data structure holding polygons. Each node
// other than the root holds between ceil(order/2) and order entries, and all
// leaves are at the same depth.
//
// An RTree is not safe for concurrent use. See SyncRTree.
type RTree struct {
	root  *Node
	order int
	size  int
}

// New creates an empty RTree whose nodes hold at most order entries.
func New(order int) (*RTree, error) {
	if order < MinOrder {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidOrder, order)
	}
	return &RTree{root: &Node{IsLeaf: true}, order: order}, nil
}

// Order gives the maximum number of entries a node may hold.
func (t *RTree) Order() int {
	return t.order
}

// minEntries gives the minimum number of entries a non-root node may hold.
func (t *RTree) minEntries() int {
	return (t.order + 1) / 2
}

// Len gives the number of polygons in the tree.
func (t *RTree) Len() int {
	return t.size
}

// Root gives the root node of the tree. It is never nil. The returned node
// must not be modified.
func (t *RTree) Root() *Node {
	return t.root
}

// Height gives the number of levels below the root. Both an empty tree and a
// tree consisting of a single leaf have height 0.
func (t *RTree) Height() int {
	return t.root.Height()
}

// Polygons gives every polygon in the tree.
func (t *RTree) Polygons() []orb.Polygon {
	return t.root.Polygons()
}

// Extent gives the bound that most closely covers every polygon in the tree.
// If the tree is empty, then false is returned.
func (t *RTree) Extent() (orb.Bound, bool) {
	if len(t.root.Entries) == 0 {
		return orb.Bound{}, false
	}
	return t.root.bound(), true
}

// Search looks for any polygons in the tree whose bounding box overlaps with
// the given bound. The callback is called for each found polygon. If an error
// is returned from the callback then the search is terminated early. Any
// error returned from the callback is returned by Search, except for the case
// where the special Stop sentinel error is returned (in which case nil is
// returned from Search).
func (t *RTree) Search(bb orb.Bound, callback func(orb.Polygon) error) error {
	var recurse func(*Node) error
	recurse = func(n *Node) error {
		for _, entry := range n.Entries {
			if !overlap(entry.Bound, bb) {
				continue
			}
			if n.IsLeaf {
				if err := callback(entry.Polygon); err != nil {
					return err
				}
			} else if err := recurse(entry.Child); err != nil {
				return err
			}
		}
		return nil
	}
	if err := recurse(t.root); err != nil && err != Stop {
		return err
	}
	return nil
}

// RangeSearch gives every polygon in the tree whose bounding box overlaps
// with the given bound. The order of the result is unspecified.
func (t *RTree) RangeSearch(bb orb.Bound) []orb.Polygon {
	var found []orb.Polygon
	t.Search(bb, func(p orb.Polygon) error {
		found = append(found, p)
		return nil
	})
	return found
}

// Exists reports whether a polygon equal to p is in the tree.
func (t *RTree) Exists(p orb.Polygon) bool {
	bb, ok := polygonBound(p)
	if !ok {
		return false
	}
	return t.findLeaf(bb, p) != nil
}

// Fprint writes an indented dump of the tree structure to w.
func (t *RTree) Fprint(w io.Writer) {
	t.root.print(w, 0)
}
