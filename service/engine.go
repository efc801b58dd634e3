package service

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"vidar/domain/book"
	"vidar/infra/sequence"
)

// ErrInvalidOrder rejects malformed input (bad side, non-positive
// quantity or price, unknown instrument) before any state changes.
var ErrInvalidOrder = errors.New("invalid order")

// Engine is the only write entry point into the matching core. It owns
// the instrument registry and the id sequencer, and fans every trade
// out to the configured sink.
type Engine struct {
	registry *book.Registry
	seq      *sequence.Sequencer
	sink     book.TradeSink
	log      *zap.Logger
}

// NewEngine wires all dependencies. No globals.
func NewEngine(registry *book.Registry, seq *sequence.Sequencer, sink book.TradeSink, log *zap.Logger) *Engine {
	if sink == nil {
		sink = book.TradeSinkFunc(func(book.Trade) {})
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		registry: registry,
		seq:      seq,
		sink:     sink,
		log:      log,
	}
}

// Submit validates the order, assigns it a globally unique id and rests
// it in its side book. On rejection (ErrInvalidOrder, book.ErrBookFull)
// nothing is recorded.
func (e *Engine) Submit(side book.Side, instrument int, qty, price int64) (uint64, error) {
	if side != book.Buy && side != book.Sell {
		return 0, fmt.Errorf("%w: side %d", ErrInvalidOrder, side)
	}
	if qty <= 0 {
		return 0, fmt.Errorf("%w: quantity %d", ErrInvalidOrder, qty)
	}
	if price <= 0 {
		return 0, fmt.Errorf("%w: price %d", ErrInvalidOrder, price)
	}
	ib, ok := e.registry.Book(instrument)
	if !ok {
		return 0, fmt.Errorf("%w: unknown instrument %d", ErrInvalidOrder, instrument)
	}

	id := e.seq.Next()
	if err := ib.Append(book.NewOrder(id, instrument, side, price, qty)); err != nil {
		// The id of a rejected order is burned; ids stay unique either way.
		return 0, err
	}
	return id, nil
}

// SweepOnce runs one best-vs-best match attempt for every instrument in
// fixed id order and returns the number of trades executed. Each trade
// is delivered to the sink synchronously, after the round's book
// mutation completed. Draining a deep cross takes repeated sweeps.
func (e *Engine) SweepOnce() int {
	trades := 0
	for i := 0; i < e.registry.Len(); i++ {
		ib, _ := e.registry.Book(i)
		trade, ok := ib.MatchOnce()
		if !ok {
			continue
		}
		e.sink.OnTrade(trade)
		trades++
	}
	return trades
}

// Instruments returns the size of the fixed instrument universe.
func (e *Engine) Instruments() int {
	return e.registry.Len()
}
