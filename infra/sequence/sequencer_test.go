package sequence

import (
	"sync"
	"testing"
)

func TestNextIsStrictlyIncreasing(t *testing.T) {
	s := New()
	prev := uint64(0)
	for i := 0; i < 1000; i++ {
		id := s.Next()
		if id <= prev {
			t.Fatalf("id %d not greater than previous %d", id, prev)
		}
		prev = id
	}
	if s.Current() != prev {
		t.Fatalf("Current()=%d, want %d", s.Current(), prev)
	}
}

func TestConcurrentIDsAreUnique(t *testing.T) {
	const (
		workers   = 16
		perWorker = 500
	)

	s := New()
	ids := make(chan uint64, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				ids <- s.Next()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[uint64]struct{}, workers*perWorker)
	for id := range ids {
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = struct{}{}
	}
	if len(seen) != workers*perWorker {
		t.Fatalf("expected %d ids, got %d", workers*perWorker, len(seen))
	}
}
