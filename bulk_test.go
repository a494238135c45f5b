package polyrtree

import (
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"testing"

	"github.com/paulmach/orb"
)

func TestBulkLoad(t *testing.T) {
	for order := MinOrder; order <= 10; order++ {
		for _, population := range []int{0, 1, 2, 3, 5, 8, 13, 21, 34, 55, 89, 144, 500} {
			name := fmt.Sprintf("order_%d_pop_%d", order, population)
			t.Run(name, func(t *testing.T) {
				rnd := rand.New(rand.NewSource(int64(population)))
				polys := distinctPolygons(rnd, population)

				rt, err := BulkLoad(order, polys)
				if err != nil {
					t.Fatal(err)
				}
				checkInvariants(t, rt)
				if rt.Len() != population {
					t.Fatalf("len: got %d want %d", rt.Len(), population)
				}
				for i, p := range polys {
					if !rt.Exists(p) {
						t.Fatalf("polygon %d missing", i)
					}
				}

				for i := 0; i < 10; i++ {
					query := randomPolygon(rnd).Bound()
					want := polygonKeys(bruteForceSearch(polys, query))
					if got := polygonKeys(rt.RangeSearch(query)); !reflect.DeepEqual(got, want) {
						t.Fatalf("query %v: got %d results, want %d", query, len(got), len(want))
					}
				}

				// The loaded tree keeps working under mutation.
				extra := distinctPolygons(rnd, 20)
				for _, p := range extra {
					if err := rt.Insert(p); err != nil {
						t.Fatal(err)
					}
					checkInvariants(t, rt)
				}
				for _, p := range append(polys, extra...) {
					if err := rt.Delete(p); err != nil {
						t.Fatal(err)
					}
					checkInvariants(t, rt)
				}
				checkEmpty(t, rt)
			})
		}
	}
}

func TestBulkLoadErrors(t *testing.T) {
	if _, err := BulkLoad(2, nil); !errors.Is(err, ErrInvalidOrder) {
		t.Errorf("expected ErrInvalidOrder, got %v", err)
	}
	polys := []orb.Polygon{
		boxPolygon(box(0, 0, 1, 1)),
		{},
	}
	if _, err := BulkLoad(4, polys); !errors.Is(err, ErrEmptyPolygon) {
		t.Errorf("expected ErrEmptyPolygon, got %v", err)
	}
}

func TestBulkLoadDoesNotModifyInput(t *testing.T) {
	rnd := rand.New(rand.NewSource(9))
	polys := distinctPolygons(rnd, 100)
	before := append([]orb.Polygon(nil), polys...)
	if _, err := BulkLoad(5, polys); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(before, polys) {
		t.Fatal("input slice reordered")
	}
}
