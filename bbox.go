package polyrtree

import "github.com/paulmach/orb"

// polygonBound gives the bounding box of the polygon's outer ring. The second
// return value is false if the polygon has no points to bound.
func polygonBound(p orb.Polygon) (orb.Bound, bool) {
	if len(p) == 0 || len(p[0]) == 0 {
		return orb.Bound{}, false
	}
	return p.Bound(), true
}

// combine gives the smallest bounding box containing both bb1 and bb2.
func combine(bb1, bb2 orb.Bound) orb.Bound {
	return bb1.Union(bb2)
}

// enlargement returns how much additional area the existing bound would have
// to enlarge by to accommodate the additional bound.
func enlargement(existing, additional orb.Bound) float64 {
	return area(combine(existing, additional)) - area(existing)
}

func area(bb orb.Bound) float64 {
	return (bb.Max[0] - bb.Min[0]) * (bb.Max[1] - bb.Min[1])
}

// overlap reports whether the two bounds share at least one point. Bounds that
// only touch along an edge or at a corner overlap.
func overlap(bb1, bb2 orb.Bound) bool {
	return bb1.Intersects(bb2)
}
