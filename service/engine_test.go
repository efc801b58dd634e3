package service

import (
	"errors"
	"sync"
	"testing"

	"vidar/domain/book"
	"vidar/infra/sequence"
)

type captureSink struct {
	mu     sync.Mutex
	trades []book.Trade
}

func (c *captureSink) OnTrade(t book.Trade) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trades = append(c.trades, t)
}

func (c *captureSink) all() []book.Trade {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]book.Trade(nil), c.trades...)
}

func newTestEngine(instruments, capacity int) (*Engine, *captureSink) {
	sink := &captureSink{}
	e := NewEngine(book.NewRegistry(instruments, capacity), sequence.New(), sink, nil)
	return e, sink
}

func TestSubmitRejectsInvalidOrders(t *testing.T) {
	e, _ := newTestEngine(4, 8)

	cases := []struct {
		name       string
		side       book.Side
		instrument int
		qty, price int64
	}{
		{"bad side", book.Side(7), 0, 10, 100},
		{"zero qty", book.Buy, 0, 0, 100},
		{"negative qty", book.Buy, 0, -5, 100},
		{"zero price", book.Sell, 0, 10, 0},
		{"negative price", book.Sell, 0, 10, -1},
		{"instrument below range", book.Buy, -1, 10, 100},
		{"instrument above range", book.Buy, 4, 10, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := e.Submit(tc.side, tc.instrument, tc.qty, tc.price); !errors.Is(err, ErrInvalidOrder) {
				t.Fatalf("expected ErrInvalidOrder, got %v", err)
			}
		})
	}
}

func TestSubmitReturnsBookFull(t *testing.T) {
	e, _ := newTestEngine(1, 1)

	if _, err := e.Submit(book.Buy, 0, 1, 100); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Submit(book.Buy, 0, 1, 101); !errors.Is(err, book.ErrBookFull) {
		t.Fatalf("expected ErrBookFull, got %v", err)
	}
}

func TestSweepMatchesAcrossInstruments(t *testing.T) {
	e, sink := newTestEngine(4, 8)

	// Crossed books on instruments 0 and 2, nothing on 1 and 3.
	for _, ins := range []int{0, 2} {
		if _, err := e.Submit(book.Buy, ins, 10, 105); err != nil {
			t.Fatal(err)
		}
		if _, err := e.Submit(book.Sell, ins, 10, 100); err != nil {
			t.Fatal(err)
		}
	}

	if n := e.SweepOnce(); n != 2 {
		t.Fatalf("expected 2 trades in one sweep, got %d", n)
	}

	trades := sink.all()
	if len(trades) != 2 {
		t.Fatalf("sink received %d trades, want 2", len(trades))
	}
	// Sweep order is fixed registry order.
	if trades[0].Instrument != 0 || trades[1].Instrument != 2 {
		t.Fatalf("unexpected sweep order: %+v", trades)
	}
	for _, trade := range trades {
		if trade.Qty != 10 || trade.Price != 100 {
			t.Fatalf("expected 10 @100, got %+v", trade)
		}
	}

	if n := e.SweepOnce(); n != 0 {
		t.Fatalf("drained books produced %d more trades", n)
	}
}

func TestSweepDrainsDeepCrossOverSweeps(t *testing.T) {
	e, sink := newTestEngine(1, 8)

	for i := 0; i < 3; i++ {
		if _, err := e.Submit(book.Buy, 0, 5, 110); err != nil {
			t.Fatal(err)
		}
		if _, err := e.Submit(book.Sell, 0, 5, 100); err != nil {
			t.Fatal(err)
		}
	}

	// One best-vs-best round per instrument per sweep.
	for i := 1; i <= 3; i++ {
		if n := e.SweepOnce(); n != 1 {
			t.Fatalf("sweep %d executed %d trades, want 1", i, n)
		}
	}
	if n := e.SweepOnce(); n != 0 {
		t.Fatal("cross should be fully drained after three sweeps")
	}
	if got := len(sink.all()); got != 3 {
		t.Fatalf("sink received %d trades, want 3", got)
	}
}

func TestConcurrentSubmitsGetUniqueIDs(t *testing.T) {
	e, _ := newTestEngine(8, 4096)

	const (
		workers   = 8
		perWorker = 200
	)
	ids := make(chan uint64, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id, err := e.Submit(book.Buy, w%8, 1, int64(100+i))
				if err != nil {
					t.Errorf("submit: %v", err)
					return
				}
				ids <- id
			}
		}(w)
	}
	wg.Wait()
	close(ids)

	seen := make(map[uint64]struct{}, workers*perWorker)
	for id := range ids {
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate order id %d", id)
		}
		seen[id] = struct{}{}
	}
}
