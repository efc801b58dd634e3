package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vidar/domain/book"
	"vidar/service"
)

// Server exposes the engine over REST and streams trades over
// WebSocket. It is a thin collaborator: all order semantics live in the
// engine.
type Server struct {
	engine *service.Engine
	router *mux.Router
	hub    *Hub
	log    *zap.Logger
}

// NewServer wires the gateway around an engine. A nil hub gets a fresh
// one; the caller owns running it.
func NewServer(engine *service.Engine, hub *Hub, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if hub == nil {
		hub = NewHub(log)
	}
	s := &Server{
		engine: engine,
		router: mux.NewRouter(),
		hub:    hub,
		log:    log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/orders", s.handleSubmitOrder).Methods("POST")
	api.HandleFunc("/sweep", s.handleSweep).Methods("POST")

	s.router.HandleFunc("/ws", s.handleWebSocket)
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Handler returns the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(s.router)
}

// Start serves until the listener fails. The hub must already be
// running for /ws clients to receive trades.
func (s *Server) Start(addr string) error {
	s.log.Info("api server starting", zap.String("addr", addr))
	return http.ListenAndServe(addr, s.Handler())
}

// NewHubSink streams every trade to the hub's WebSocket clients.
func NewHubSink(hub *Hub) book.TradeSink {
	return book.TradeSinkFunc(func(t book.Trade) {
		hub.Broadcast(service.NewTradeEvent(t))
	})
}

// ==============================
// Handlers
// ==============================

func (s *Server) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req SubmitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body", err.Error())
		return
	}

	var side book.Side
	switch req.Side {
	case "buy":
		side = book.Buy
	case "sell":
		side = book.Sell
	default:
		respondError(w, http.StatusBadRequest, "side must be \"buy\" or \"sell\"", req.Side)
		return
	}

	price, err := parsePrice(req.Price)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid price", err.Error())
		return
	}

	orderID, err := s.engine.Submit(side, req.Instrument, req.Quantity, price)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, SubmitOrderResponse{OrderID: orderID})
	case errors.Is(err, service.ErrInvalidOrder):
		respondError(w, http.StatusBadRequest, "order rejected", err.Error())
	case errors.Is(err, book.ErrBookFull):
		respondError(w, http.StatusConflict, "book full", err.Error())
	default:
		s.log.Error("submit failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error", "")
	}
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, SweepResponse{Trades: s.engine.SweepOnce()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:      "ok",
		Instruments: s.engine.Instruments(),
	})
}

// parsePrice converts a decimal price string into engine ticks.
func parsePrice(raw string) (int64, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, err
	}
	ticks := d.Shift(PriceScale)
	if !ticks.IsInteger() {
		return 0, errors.New("price precision exceeds 4 decimal places")
	}
	return ticks.IntPart(), nil
}

// ==============================
// Response helpers
// ==============================

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg, detail string) {
	respondJSON(w, status, ErrorResponse{Error: msg, Detail: detail})
}
