package polyrtree

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// oracleEntry wraps a polygon for storage in an rtreego tree.
type oracleEntry struct {
	polygon orb.Polygon
	rect    rtreego.Rect
}

// Bounds implements the rtreego.Spatial interface.
func (e *oracleEntry) Bounds() rtreego.Rect {
	return e.rect
}

func toRect(t *testing.T, bb orb.Bound) rtreego.Rect {
	t.Helper()
	rect, err := rtreego.NewRect(
		rtreego.Point{bb.Min[0], bb.Min[1]},
		[]float64{bb.Max[0] - bb.Min[0], bb.Max[1] - bb.Min[1]},
	)
	if err != nil {
		t.Fatal(err)
	}
	return rect
}

// solidPolygon creates a random triangle with a non-zero width and height, so
// that its bound can be represented as an rtreego.Rect.
func solidPolygon(rnd *rand.Rand) orb.Polygon {
	x, y := rnd.Float64()*100, rnd.Float64()*100
	w, h := 0.1+rnd.Float64()*5, 0.1+rnd.Float64()*5
	return orb.Polygon{{{x, y}, {x + w, y}, {x, y + h}, {x, y}}}
}

// TestAgainstRtreego runs the same mutations against this tree and an
// rtreego tree, and checks that range searches agree.
func TestAgainstRtreego(t *testing.T) {
	rnd := rand.New(rand.NewSource(0))
	oracle := rtreego.NewTree(2, 3, 6)
	rt, err := New(6)
	if err != nil {
		t.Fatal(err)
	}

	live := make(map[*oracleEntry]bool)
	for round := 0; round < 2000; round++ {
		if len(live) > 0 && rnd.Intn(3) == 0 {
			for e := range live {
				if err := rt.Delete(e.polygon); err != nil {
					t.Fatal(err)
				}
				if !oracle.Delete(e) {
					t.Fatal("oracle delete failed")
				}
				delete(live, e)
				break
			}
		} else {
			e := &oracleEntry{polygon: solidPolygon(rnd)}
			e.rect = toRect(t, e.polygon.Bound())
			if err := rt.Insert(e.polygon); err != nil {
				t.Fatal(err)
			}
			oracle.Insert(e)
			live[e] = true
		}

		if round%50 != 0 {
			continue
		}
		checkInvariants(t, rt)
		query := solidPolygon(rnd).Bound().Pad(rnd.Float64() * 10)

		var want []orb.Polygon
		for _, s := range oracle.SearchIntersect(toRect(t, query)) {
			want = append(want, s.(*oracleEntry).polygon)
		}
		got := rt.RangeSearch(query)
		if !reflect.DeepEqual(polygonKeys(got), polygonKeys(want)) {
			t.Fatalf("round %d query %v: got %d results, rtreego found %d", round, query, len(got), len(want))
		}
	}

	if rt.Len() != oracle.Size() {
		t.Fatalf("len: got %d, rtreego has %d", rt.Len(), oracle.Size())
	}
}
