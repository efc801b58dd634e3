package sweeper

import (
	"context"
	"time"

	"go.uber.org/zap"

	"vidar/service"
)

// Sweeper drives periodic matching sweeps across all instruments. Each
// tick performs one best-vs-best match attempt per instrument in fixed
// registry order; a deeply crossed book drains over successive ticks,
// which bounds the work of any single sweep.
type Sweeper struct {
	engine   *service.Engine
	interval time.Duration
	log      *zap.Logger
}

func New(engine *service.Engine, interval time.Duration, log *zap.Logger) *Sweeper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sweeper{
		engine:   engine,
		interval: interval,
		log:      log,
	}
}

// Run sweeps until ctx is cancelled. A sweep always runs to completion;
// cancellation is observed between sweeps.
func (s *Sweeper) Run(ctx context.Context) {
	s.log.Info("sweeper started", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("sweeper stopped")
			return
		case <-ticker.C:
			if n := s.engine.SweepOnce(); n > 0 {
				s.log.Debug("sweep complete", zap.Int("trades", n))
			}
		}
	}
}
