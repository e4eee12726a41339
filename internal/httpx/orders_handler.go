package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/storefront-go/shop-backend/internal/kafka"
	"github.com/storefront-go/shop-backend/internal/metrics"
	"github.com/storefront-go/shop-backend/internal/orders"
	"github.com/storefront-go/shop-backend/internal/payment"
	"github.com/storefront-go/shop-backend/internal/redisx"
)

// OrderPlacer is the coordinator boundary the handler calls through.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, userID int64, items []orders.ItemInput, card payment.Card) (*orders.Order, error)
}

// OrderGetter loads committed orders for the read endpoint.
type OrderGetter interface {
	GetOrder(ctx context.Context, id string) (*orders.Order, error)
}

type OrdersHandler struct {
	Placer   OrderPlacer
	Orders   OrderGetter
	Producer *kafkax.Producer
	Redis    *redis.Client
	Metrics  *metrics.OrderMetrics
	Service  string
}

type placeOrderRequest struct {
	UserID     int64              `json:"userId"`
	Items      []orders.ItemInput `json:"items"`
	CreditCard payment.Card       `json:"creditCard"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.placeOrder)
	r.Get("/orders/{id}", h.getOrder)
}

func (req *placeOrderRequest) validate() string {
	if req.UserID <= 0 {
		return "userId must be a positive integer"
	}
	if len(req.Items) == 0 {
		return "items must not be empty"
	}
	c := req.CreditCard
	if c.CardNumber == "" || c.ExpiryMonth == "" || c.ExpiryYear == "" || c.CVV == "" {
		return "creditCard fields must not be empty"
	}
	return ""
}

func (h *OrdersHandler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if msg := req.validate(); msg != "" {
		writeErr(w, http.StatusBadRequest, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	start := time.Now()
	order, err := h.Placer.PlaceOrder(ctx, req.UserID, req.Items, req.CreditCard)
	h.observe(err, time.Since(start))
	if err != nil {
		status := statusFor(err)
		msg := err.Error()
		if status == http.StatusInternalServerError {
			msg = "internal error" // never echo storage internals
		}
		writeErr(w, status, msg)
		return
	}

	h.cacheOrder(ctx, order)
	h.publishPlaced(order, r.Header.Get("X-Request-Id"))
	writeJSON(w, http.StatusCreated, order)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeErr(w, http.StatusBadRequest, "missing id")
		return
	}
	// Order ids are UUIDs; anything else cannot exist and would only trip the
	// uuid column's type check in postgres.
	if _, err := uuid.Parse(id); err != nil {
		writeErr(w, http.StatusNotFound, "order not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyOrder, id)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		writeJSON(w, http.StatusOK, json.RawMessage(s))
		return
	}

	order, err := h.Orders.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			writeErr(w, http.StatusNotFound, "order not found")
			return
		}
		writeErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.cacheOrder(ctx, order)
	writeJSON(w, http.StatusOK, order)
}

func (h *OrdersHandler) cacheOrder(ctx context.Context, o *orders.Order) {
	key := fmt.Sprintf(redisx.KeyOrder, o.ID)
	_ = h.Redis.Set(ctx, key, kafkax.MustMarshal(o), redisx.TTLOrderCache).Err()
}

// publishPlaced emits the post-commit event. Best effort: the order already
// committed, a broker problem must not fail the response.
func (h *OrdersHandler) publishPlaced(o *orders.Order, traceID string) {
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderPlaced,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       traceID,
		CorrelationID: o.ID,
		Payload: kafkax.MustMarshal(orders.OrderPlacedPayload{
			OrderID:       o.ID,
			UserID:        o.UserID,
			TransactionID: o.TransactionID,
			TotalPrice:    o.TotalPrice.String(),
			PlacedAt:      o.CreatedAt,
			Items:         o.Items,
		}),
	}
	h.Producer.Publish(orders.PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderPlaced)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (h *OrdersHandler) observe(err error, elapsed time.Duration) {
	if h.Metrics == nil {
		return
	}
	h.Metrics.Placements.WithLabelValues(outcomeLabel(err)).Inc()
	h.Metrics.DurationMS.Observe(float64(elapsed.Milliseconds()))
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "committed"
	case errors.Is(err, payment.ErrGatewayUnavailable):
		return "gateway_unavailable"
	default:
		var rejected *orders.PaymentRejectedError
		if errors.As(err, &rejected) {
			return "payment_rejected"
		}
		return "rejected"
	}
}

// statusFor maps the placement error taxonomy onto response classes: invalid
// input, payment refusal, conflict, upstream outage, server fault.
func statusFor(err error) int {
	var (
		invalidQty  *orders.InvalidQuantityError
		notFound    *orders.ItemNotFoundError
		noStock     *orders.InsufficientStockError
		payRejected *orders.PaymentRejectedError
	)
	switch {
	case errors.Is(err, orders.ErrEmptyOrder),
		errors.As(err, &invalidQty),
		errors.As(err, &notFound):
		return http.StatusBadRequest
	case errors.As(err, &payRejected):
		return http.StatusPaymentRequired
	case errors.As(err, &noStock),
		errors.Is(err, orders.ErrAlreadyExists),
		errors.Is(err, orders.ErrReferentialViolation):
		return http.StatusConflict
	case errors.Is(err, payment.ErrGatewayUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
