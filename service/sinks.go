package service

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"go.uber.org/zap"

	"vidar/domain/book"
	"vidar/infra/kafka"
	"vidar/infra/tradelog"
)

// FanOut delivers each trade to every sink, in order.
type FanOut []book.TradeSink

func (f FanOut) OnTrade(t book.Trade) {
	for _, s := range f {
		s.OnTrade(t)
	}
}

// NewLogSink reports every execution through the logger.
func NewLogSink(log *zap.Logger) book.TradeSink {
	return book.TradeSinkFunc(func(t book.Trade) {
		log.Info("trade executed",
			zap.Int("instrument", t.Instrument),
			zap.Uint64("buy_order", t.BuyOrderID),
			zap.Uint64("sell_order", t.SellOrderID),
			zap.Int64("qty", t.Qty),
			zap.Int64("price", t.Price),
		)
	})
}

// NewOutboxSink records every trade in the durable outbox. The
// broadcaster replays pending records to Kafka at least once.
func NewOutboxSink(outbox *tradelog.Outbox, log *zap.Logger) book.TradeSink {
	return book.TradeSinkFunc(func(t book.Trade) {
		payload, err := json.Marshal(NewTradeEvent(t))
		if err != nil {
			log.Error("encode trade event", zap.Error(err))
			return
		}
		if _, err := outbox.Append(payload); err != nil {
			log.Error("outbox append", zap.Error(err))
		}
	})
}

// NewFeedSink publishes each trade to the live Kafka feed as it prints.
// This path is fire-and-forget; delivery guarantees belong to the
// outbox path.
func NewFeedSink(producer *kafka.Producer, timeout time.Duration, log *zap.Logger) book.TradeSink {
	return book.TradeSinkFunc(func(t book.Trade) {
		value, err := json.Marshal(NewTradeEvent(t))
		if err != nil {
			log.Error("encode trade event", zap.Error(err))
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		key := []byte(strconv.Itoa(t.Instrument))
		if err := producer.Send(ctx, key, value); err != nil {
			log.Warn("feed publish failed", zap.Error(err))
		}
	})
}
