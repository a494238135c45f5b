package polyrtree

import (
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/paulmach/orb"
)

func TestSyncRTree(t *testing.T) {
	if _, err := NewSync(1); !errors.Is(err, ErrInvalidOrder) {
		t.Fatalf("expected ErrInvalidOrder, got %v", err)
	}

	st, err := NewSync(5)
	if err != nil {
		t.Fatal(err)
	}

	const workers = 8
	const perWorker = 100
	rnd := rand.New(rand.NewSource(0))
	polys := distinctPolygons(rnd, workers*perWorker)
	everything := orb.Bound{Min: orb.Point{-1, -1}, Max: orb.Point{101, 101}}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(mine []orb.Polygon) {
			defer wg.Done()
			for _, p := range mine {
				if err := st.Insert(p); err != nil {
					t.Error(err)
					return
				}
				if !st.Exists(p) {
					t.Error("polygon missing right after insert")
					return
				}
				st.RangeSearch(p.Bound())
			}
		}(polys[w*perWorker : (w+1)*perWorker])
	}
	wg.Wait()

	if st.Len() != len(polys) {
		t.Fatalf("len: got %d want %d", st.Len(), len(polys))
	}
	if got := len(st.RangeSearch(everything)); got != len(polys) {
		t.Fatalf("range search: got %d want %d", got, len(polys))
	}
	checkInvariants(t, st.tr)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(mine []orb.Polygon) {
			defer wg.Done()
			for _, p := range mine {
				if err := st.Delete(p); err != nil {
					t.Error(err)
					return
				}
			}
		}(polys[w*perWorker : (w+1)*perWorker])
	}
	wg.Wait()

	checkEmpty(t, st.tr)
}
