package api

// PriceScale is the number of decimal places carried by the engine's
// integer price ticks.
const PriceScale = 4

type SubmitOrderRequest struct {
	Side       string `json:"side"` // "buy" or "sell"
	Instrument int    `json:"instrument"`
	Quantity   int64  `json:"quantity"`
	Price      string `json:"price"` // decimal string, e.g. "101.25"
}

type SubmitOrderResponse struct {
	OrderID uint64 `json:"order_id"`
}

type SweepResponse struct {
	Trades int `json:"trades"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	Instruments int    `json:"instruments"`
}

type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}
