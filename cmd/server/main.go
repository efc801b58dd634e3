package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"vidar/api"
	"vidar/config"
	"vidar/domain/book"
	"vidar/infra/kafka"
	"vidar/infra/logging"
	"vidar/infra/sequence"
	"vidar/infra/tradelog"
	"vidar/jobs/broadcaster"
	"vidar/jobs/sim"
	"vidar/jobs/sweeper"
	"vidar/service"
)

func main() {
	cfg := config.LoadFromEnv("")

	log, err := logging.New()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---------------- Core ----------------

	registry := book.NewRegistry(cfg.Engine.Instruments, cfg.Engine.SideCapacity)
	seq := sequence.New()

	// ---------------- Trade reporting ----------------

	outbox, err := tradelog.Open(cfg.Outbox.Dir)
	if err != nil {
		log.Fatal("open trade outbox", zap.Error(err))
	}
	defer func() { _ = outbox.Close() }()

	hub := api.NewHub(log)
	go hub.Run()

	sinks := service.FanOut{
		service.NewLogSink(log),
		service.NewOutboxSink(outbox, log),
		api.NewHubSink(hub),
	}

	if cfg.Kafka.Enabled {
		feed := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.FeedTopic)
		defer func() { _ = feed.Close() }()
		sinks = append(sinks, service.NewFeedSink(feed, cfg.Outbox.PublishTimeout, log))

		producer, err := broadcaster.NewProducer(cfg.Kafka.Brokers)
		if err != nil {
			log.Fatal("connect kafka", zap.Error(err))
		}
		bc := broadcaster.New(outbox, producer, cfg.Kafka.Topic, cfg.Outbox.ReplayInterval, log)
		defer func() { _ = bc.Close() }()
		go bc.Run(ctx)
	} else {
		log.Info("kafka disabled, trades stay in the local outbox")
	}

	// ---------------- Engine & jobs ----------------

	engine := service.NewEngine(registry, seq, sinks, log)

	go sweeper.New(engine, cfg.Sweeper.Interval, log).Run(ctx)

	if cfg.Sim.Enabled {
		go sim.New(engine, sim.Options{
			Workers:         cfg.Sim.Workers,
			OrdersPerWorker: cfg.Sim.OrdersPerWorker,
			Pace:            cfg.Sim.Pace,
			MaxQty:          cfg.Sim.MaxQty,
			MinPrice:        cfg.Sim.MinPrice,
			MaxPrice:        cfg.Sim.MaxPrice,
		}, log).Run(ctx)
	}

	// ---------------- Gateway ----------------

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: api.NewServer(engine, hub, log).Handler(),
	}

	go func() {
		log.Info("gateway listening",
			zap.String("addr", cfg.HTTP.Addr),
			zap.Int("instruments", cfg.Engine.Instruments),
			zap.Int("side_capacity", cfg.Engine.SideCapacity),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("gateway exited", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Outbox.PublishTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("gateway shutdown", zap.Error(err))
	}
}
