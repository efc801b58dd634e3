package book

import "sync"

// InstrumentBook pairs the buy and sell side books for one instrument.
type InstrumentBook struct {
	instrument int
	buys       *SideBook
	sells      *SideBook

	// matchMu confines matching for this instrument to a single caller
	// at a time. Appends never take it; the side books guard their own
	// state, and an append completed before a round starts is visible
	// to that round's scans.
	matchMu sync.Mutex
}

func NewInstrumentBook(instrument, sideCapacity int) *InstrumentBook {
	return &InstrumentBook{
		instrument: instrument,
		buys:       NewSideBook(Buy, sideCapacity),
		sells:      NewSideBook(Sell, sideCapacity),
	}
}

func (ib *InstrumentBook) Instrument() int {
	return ib.instrument
}

func (ib *InstrumentBook) SideBook(s Side) *SideBook {
	if s == Sell {
		return ib.sells
	}
	return ib.buys
}

func (ib *InstrumentBook) Append(o *Order) error {
	return ib.SideBook(o.Side).Append(o)
}

// MatchOnce performs at most one best-vs-best match round. It selects
// the best bid and best ask under price-time priority and, if the book
// is crossed (bid >= ask), consumes min(remaining) from both orders and
// reports the trade at the ask's price. A crossed book deeper than one
// pair drains over repeated calls; with no new orders the book
// eventually stops crossing and further calls are no-ops.
func (ib *InstrumentBook) MatchOnce() (Trade, bool) {
	ib.matchMu.Lock()
	defer ib.matchMu.Unlock()

	bid := ib.buys.Best()
	ask := ib.sells.Best()
	if bid == nil || ask == nil {
		return Trade{}, false
	}
	if bid.Price < ask.Price {
		return Trade{}, false
	}

	qty := min(bid.Remaining(), ask.Remaining())
	bid.consume(qty)
	ask.consume(qty)

	// The resting side sets the print.
	return Trade{
		Instrument:  ib.instrument,
		BuyOrderID:  bid.ID,
		SellOrderID: ask.ID,
		Qty:         qty,
		Price:       ask.Price,
	}, true
}
