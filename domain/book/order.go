package book

import "sync/atomic"

type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Sell {
		return "sell"
	}
	return "buy"
}

// Order is a pure domain entity. Identity fields are immutable after
// construction; only the matcher decrements the remaining quantity.
type Order struct {
	ID         uint64
	Instrument int
	Side       Side
	Price      int64
	Qty        int64

	remaining atomic.Int64
}

func NewOrder(id uint64, instrument int, side Side, price, qty int64) *Order {
	o := &Order{
		ID:         id,
		Instrument: instrument,
		Side:       side,
		Price:      price,
		Qty:        qty,
	}
	o.remaining.Store(qty)
	return o
}

func (o *Order) Remaining() int64 {
	return o.remaining.Load()
}

func (o *Order) Filled() int64 {
	return o.Qty - o.remaining.Load()
}

// Active reports whether the order still has quantity left to trade.
// Once false it never becomes true again.
func (o *Order) Active() bool {
	return o.remaining.Load() > 0
}

// consume is called by the matcher only, under the instrument's match
// lock, with qty <= Remaining().
func (o *Order) consume(qty int64) {
	o.remaining.Add(-qty)
}
