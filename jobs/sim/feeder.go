package sim

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"vidar/domain/book"
	"vidar/service"
)

// Options shape the random order flow.
type Options struct {
	Workers         int
	OrdersPerWorker int
	Pace            time.Duration
	MaxQty          int64
	MinPrice        int64 // ticks
	MaxPrice        int64 // ticks
}

// Feeder simulates active trading: a pool of workers submits random
// orders across the whole instrument universe. Book-full rejections are
// counted, not treated as failures.
type Feeder struct {
	engine *service.Engine
	opts   Options
	log    *zap.Logger
}

func New(engine *service.Engine, opts Options, log *zap.Logger) *Feeder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Feeder{
		engine: engine,
		opts:   opts,
		log:    log,
	}
}

// Run submits until every worker placed its quota or ctx is cancelled.
func (f *Feeder) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for w := 0; w < f.opts.Workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			f.runWorker(ctx, w)
		}(w)
	}
	wg.Wait()
}

func (f *Feeder) runWorker(ctx context.Context, id int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)))
	instruments := f.engine.Instruments()
	priceSpan := f.opts.MaxPrice - f.opts.MinPrice + 1

	submitted, rejected := 0, 0
	for i := 0; i < f.opts.OrdersPerWorker; i++ {
		select {
		case <-ctx.Done():
			return
		default:
		}

		side := book.Buy
		if rng.Intn(2) == 1 {
			side = book.Sell
		}
		instrument := rng.Intn(instruments)
		qty := rng.Int63n(f.opts.MaxQty) + 1
		price := f.opts.MinPrice + rng.Int63n(priceSpan)

		_, err := f.engine.Submit(side, instrument, qty, price)
		switch {
		case err == nil:
			submitted++
		case errors.Is(err, book.ErrBookFull):
			rejected++
		default:
			f.log.Error("simulated submit failed", zap.Error(err))
			return
		}

		if f.opts.Pace > 0 {
			time.Sleep(f.opts.Pace)
		}
	}

	f.log.Info("feeder worker finished",
		zap.Int("worker", id),
		zap.Int("submitted", submitted),
		zap.Int("book_full", rejected),
	)
}
