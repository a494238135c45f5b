package polyrtree

import (
	"sync"

	"github.com/paulmach/orb"
)

// SyncRTree wraps an RTree with a read/write lock so that it can be shared
// between goroutines. Mutations hold the write lock for their whole
// duration, so readers never observe a partially rebalanced tree.
type SyncRTree struct {
	mu sync.RWMutex
	tr *RTree
}

// NewSync creates an empty SyncRTree whose nodes hold at most order entries.
func NewSync(order int) (*SyncRTree, error) {
	tr, err := New(order)
	if err != nil {
		return nil, err
	}
	return &SyncRTree{tr: tr}, nil
}

// Insert adds a polygon to the tree.
func (s *SyncRTree) Insert(p orb.Polygon) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tr.Insert(p)
}

// Delete removes a polygon equal to p from the tree.
func (s *SyncRTree) Delete(p orb.Polygon) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tr.Delete(p)
}

// Exists reports whether a polygon equal to p is in the tree.
func (s *SyncRTree) Exists(p orb.Polygon) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tr.Exists(p)
}

// RangeSearch gives every polygon whose bounding box overlaps bb.
func (s *SyncRTree) RangeSearch(bb orb.Bound) []orb.Polygon {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tr.RangeSearch(bb)
}

// Len gives the number of polygons in the tree.
func (s *SyncRTree) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tr.Len()
}
