package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Engine struct {
	Instruments  int // size of the fixed instrument universe
	SideCapacity int // per-side resting order ceiling
}

type Sweeper struct {
	Interval time.Duration
}

type Kafka struct {
	Enabled   bool
	Brokers   []string
	FeedTopic string // live fire-and-forget feed
	Topic     string // durable outbox replay target
}

type Outbox struct {
	Dir            string
	ReplayInterval time.Duration
	PublishTimeout time.Duration
}

type HTTP struct {
	Addr string
}

type Sim struct {
	Enabled         bool
	Workers         int
	OrdersPerWorker int
	Pace            time.Duration
	MaxQty          int64
	MinPrice        int64
	MaxPrice        int64
}

type Config struct {
	Engine  Engine
	Sweeper Sweeper
	Kafka   Kafka
	Outbox  Outbox
	HTTP    HTTP
	Sim     Sim
}

func Default() Config {
	return Config{
		Engine: Engine{
			Instruments:  1024,
			SideCapacity: 1000,
		},
		Sweeper: Sweeper{
			Interval: 400 * time.Millisecond,
		},
		Kafka: Kafka{
			Enabled:   false,
			Brokers:   []string{"localhost:9092"},
			FeedTopic: "trades.feed",
			Topic:     "trades",
		},
		Outbox: Outbox{
			Dir:            "./data/outbox",
			ReplayInterval: 250 * time.Millisecond,
			PublishTimeout: time.Second,
		},
		HTTP: HTTP{
			Addr: ":8080",
		},
		Sim: Sim{
			Enabled:         false,
			Workers:         4,
			OrdersPerWorker: 1000,
			Pace:            time.Millisecond,
			MaxQty:          100,
			MinPrice:        100_000,    // 10.0000
			MaxPrice:        10_000_000, // 1000.0000
		},
	}
}

// LoadFromEnv loads configuration from a .env file (if present) and
// environment variables. Priority: ENV > .env file > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	cfg.Engine.Instruments = getInt("ENGINE_INSTRUMENTS", cfg.Engine.Instruments)
	cfg.Engine.SideCapacity = getInt("ENGINE_SIDE_CAPACITY", cfg.Engine.SideCapacity)
	cfg.Sweeper.Interval = getDurationMS("SWEEP_INTERVAL_MS", cfg.Sweeper.Interval)

	cfg.Kafka.Enabled = getBool("KAFKA_ENABLED", cfg.Kafka.Enabled)
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = strings.Split(brokers, ",")
	}
	cfg.Kafka.FeedTopic = getString("KAFKA_FEED_TOPIC", cfg.Kafka.FeedTopic)
	cfg.Kafka.Topic = getString("KAFKA_TRADE_TOPIC", cfg.Kafka.Topic)

	cfg.Outbox.Dir = getString("OUTBOX_DIR", cfg.Outbox.Dir)
	cfg.Outbox.ReplayInterval = getDurationMS("OUTBOX_REPLAY_INTERVAL_MS", cfg.Outbox.ReplayInterval)
	cfg.Outbox.PublishTimeout = getDurationMS("OUTBOX_PUBLISH_TIMEOUT_MS", cfg.Outbox.PublishTimeout)

	cfg.HTTP.Addr = getString("HTTP_ADDR", cfg.HTTP.Addr)

	cfg.Sim.Enabled = getBool("SIM_ENABLED", cfg.Sim.Enabled)
	cfg.Sim.Workers = getInt("SIM_WORKERS", cfg.Sim.Workers)
	cfg.Sim.OrdersPerWorker = getInt("SIM_ORDERS_PER_WORKER", cfg.Sim.OrdersPerWorker)
	cfg.Sim.Pace = getDurationMS("SIM_PACE_MS", cfg.Sim.Pace)
	cfg.Sim.MaxQty = getInt64("SIM_MAX_QTY", cfg.Sim.MaxQty)
	cfg.Sim.MinPrice = getInt64("SIM_MIN_PRICE", cfg.Sim.MinPrice)
	cfg.Sim.MaxPrice = getInt64("SIM_MAX_PRICE", cfg.Sim.MaxPrice)

	return cfg
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		return v == "true" || v == "1"
	}
	return def
}

func getDurationMS(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return def
}
