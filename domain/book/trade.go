package book

// Trade records one execution between a crossed buy and sell order.
type Trade struct {
	Instrument  int
	BuyOrderID  uint64
	SellOrderID uint64
	Qty         int64
	Price       int64
}

// TradeSink receives each trade synchronously at the moment it is
// recorded. Durable logging and reporting belong to the sink, not the
// book.
type TradeSink interface {
	OnTrade(Trade)
}

// TradeSinkFunc adapts a function to the TradeSink interface.
type TradeSinkFunc func(Trade)

func (f TradeSinkFunc) OnTrade(t Trade) { f(t) }
