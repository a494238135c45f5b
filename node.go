package polyrtree

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/paulmach/orb"
)

// Node is a node in an R-Tree. Nodes can either be leaf nodes holding entries
// for polygons, or intermediate nodes holding entries for more nodes.
type Node struct {
	IsLeaf  bool
	Entries []Entry
}

// Entry is an entry under a node, leading either to a polygon (in a leaf), or
// to a child node. Its Bound is the smallest box covering everything beneath
// the entry.
type Entry struct {
	Bound   orb.Bound
	Child   *Node
	Polygon orb.Polygon
}

// Height gives the number of levels below the node. Leaves have height 0.
func (n *Node) Height() int {
	h := 0
	for !n.IsLeaf {
		n = n.Entries[0].Child
		h++
	}
	return h
}

// Polygons collects every polygon stored in the subtree rooted at the node,
// in depth first order.
func (n *Node) Polygons() []orb.Polygon {
	var polys []orb.Polygon
	var recurse func(*Node)
	recurse = func(n *Node) {
		for _, entry := range n.Entries {
			if n.IsLeaf {
				polys = append(polys, entry.Polygon)
			} else {
				recurse(entry.Child)
			}
		}
	}
	recurse(n)
	return polys
}

// bound calculates the smallest bounding box that fits the node. The node
// must have at least one entry.
func (n *Node) bound() orb.Bound {
	bb := n.Entries[0].Bound
	for _, entry := range n.Entries[1:] {
		bb = combine(bb, entry.Bound)
	}
	return bb
}

// chooseSubtree returns the index of the entry that needs the least
// enlargement to accommodate bb. Ties are broken by the smallest resulting
// area, and then by the lowest index.
func (n *Node) chooseSubtree(bb orb.Bound) int {
	bestEntry := 0
	bestDelta := enlargement(n.Entries[0].Bound, bb)
	bestArea := area(combine(n.Entries[0].Bound, bb))
	for i := 1; i < len(n.Entries); i++ {
		combined := combine(n.Entries[i].Bound, bb)
		delta := area(combined) - area(n.Entries[i].Bound)
		if delta < bestDelta || (delta == bestDelta && area(combined) < bestArea) {
			bestEntry = i
			bestDelta = delta
			bestArea = area(combined)
		}
	}
	return bestEntry
}

// appendEntry adds an entry to the node, returning true if the node now holds
// more than maxEntries entries.
func (n *Node) appendEntry(e Entry, maxEntries int) bool {
	n.Entries = append(n.Entries, e)
	return len(n.Entries) > maxEntries
}

// removeAt removes the entry at the given index, pulling all subsequent
// entries back. It returns true if the node is left with fewer than
// minEntries entries.
func (n *Node) removeAt(index int, minEntries int) (Entry, bool) {
	e := n.Entries[index]
	copy(n.Entries[index:], n.Entries[index+1:])
	n.Entries[len(n.Entries)-1] = Entry{}
	n.Entries = n.Entries[:len(n.Entries)-1]
	return e, len(n.Entries) < minEntries
}

// split splits the node's entries into two groups using the quadratic split
// heuristic. The first group replaces the node's entries, and the second
// group is put in a newly created sibling, which is returned. Both groups
// hold at least minEntries entries.
func (n *Node) split(minEntries int) *Node {
	entries := n.Entries
	seedA, seedB := pickSeeds(entries)

	groupA := []Entry{entries[seedA]}
	groupB := []Entry{entries[seedB]}
	bbA, bbB := entries[seedA].Bound, entries[seedB].Bound

	remaining := make([]Entry, 0, len(entries)-2)
	for i, entry := range entries {
		if i != seedA && i != seedB {
			remaining = append(remaining, entry)
		}
	}

	for len(remaining) > 0 {
		// Once a group can only reach the minimum by taking everything that
		// is left, it gets everything that is left.
		if len(groupA)+len(remaining) == minEntries {
			groupA = append(groupA, remaining...)
			break
		}
		if len(groupB)+len(remaining) == minEntries {
			groupB = append(groupB, remaining...)
			break
		}

		next := pickNext(remaining, bbA, bbB)
		entry := remaining[next]
		remaining = append(remaining[:next], remaining[next+1:]...)

		if preferFirst(bbA, bbB, len(groupA), len(groupB), entry.Bound) {
			groupA = append(groupA, entry)
			bbA = combine(bbA, entry.Bound)
		} else {
			groupB = append(groupB, entry)
			bbB = combine(bbB, entry.Bound)
		}
	}

	if len(groupA) < minEntries || len(groupB) < minEntries {
		panic(fmt.Sprintf("split produced undersized group: %d and %d, minimum %d",
			len(groupA), len(groupB), minEntries))
	}

	n.Entries = groupA
	return &Node{IsLeaf: n.IsLeaf, Entries: groupB}
}

// pickSeeds finds the pair of entries that would waste the most area if they
// were put in the same group.
func pickSeeds(entries []Entry) (int, int) {
	seedA, seedB := 0, 1
	worst := math.Inf(-1)
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			bi, bj := entries[i].Bound, entries[j].Bound
			waste := area(combine(bi, bj)) - area(bi) - area(bj)
			if waste > worst {
				worst = waste
				seedA, seedB = i, j
			}
		}
	}
	return seedA, seedB
}

// pickNext finds the entry with the strongest preference for one group over
// the other.
func pickNext(remaining []Entry, bbA, bbB orb.Bound) int {
	best := 0
	bestDiff := math.Inf(-1)
	for i, entry := range remaining {
		diff := math.Abs(enlargement(bbA, entry.Bound) - enlargement(bbB, entry.Bound))
		if diff > bestDiff {
			bestDiff = diff
			best = i
		}
	}
	return best
}

// preferFirst decides whether bb should join group A rather than group B.
// The group needing the least enlargement wins, then the group with the
// smaller area, then the group with fewer entries, then group A.
func preferFirst(bbA, bbB orb.Bound, lenA, lenB int, bb orb.Bound) bool {
	dA, dB := enlargement(bbA, bb), enlargement(bbB, bb)
	if dA != dB {
		return dA < dB
	}
	if aA, aB := area(bbA), area(bbB); aA != aB {
		return aA < aB
	}
	return lenA <= lenB
}

// print is used for testing/debugging purposes.
func (n *Node) print(w io.Writer, level int) {
	indent := strings.Repeat("  ", level)
	if n.IsLeaf {
		fmt.Fprintf(w, "%sLEAF:%d\n", indent, len(n.Entries))
		for _, entry := range n.Entries {
			fmt.Fprintf(w, "%s  %v\n", indent, entry.Bound)
		}
		return
	}
	fmt.Fprintf(w, "%sNODE:%d\n", indent, len(n.Entries))
	for _, entry := range n.Entries {
		fmt.Fprintf(w, "%s  %v\n", indent, entry.Bound)
		entry.Child.print(w, level+2)
	}
}
