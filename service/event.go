package service

import (
	"time"

	"github.com/google/uuid"

	"vidar/domain/book"
)

// TradeEvent is the wire form of a trade as published to Kafka, the
// outbox and the websocket stream.
type TradeEvent struct {
	V           int    `json:"v"`
	EventID     string `json:"event_id"`
	Instrument  int    `json:"instrument"`
	BuyOrderID  uint64 `json:"buy_order_id"`
	SellOrderID uint64 `json:"sell_order_id"`
	Qty         int64  `json:"qty"`
	Price       int64  `json:"price"`
	Time        int64  `json:"ts"`
}

func NewTradeEvent(t book.Trade) TradeEvent {
	return TradeEvent{
		V:           1,
		EventID:     uuid.NewString(),
		Instrument:  t.Instrument,
		BuyOrderID:  t.BuyOrderID,
		SellOrderID: t.SellOrderID,
		Qty:         t.Qty,
		Price:       t.Price,
		Time:        time.Now().UnixNano(),
	}
}
