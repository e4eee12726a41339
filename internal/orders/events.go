package orders

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const EventOrderPlaced = "OrderPlaced"

const TopicOrderPlaced = "order.placed"

// PartitionKey keys messages by order id so every event of one order stays in
// order on its partition.
func PartitionKey(orderID string) []byte { return []byte(orderID) }

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// OrderPlacedPayload is published after commit only; consumers may treat it as
// a fact. Prices are decimal strings.
type OrderPlacedPayload struct {
	OrderID       string       `json:"order_id"`
	UserID        int64        `json:"user_id"`
	TransactionID string       `json:"transaction_id"`
	TotalPrice    string       `json:"total_price"`
	PlacedAt      time.Time    `json:"placed_at"`
	Items         []PricedItem `json:"items"`
}

// Order rebuilds the API representation of the order. Consumers that cache
// order summaries must store this shape, not the payload itself: the read
// endpoint serves cached bytes verbatim.
func (p OrderPlacedPayload) Order() (*Order, error) {
	total, err := decimal.NewFromString(p.TotalPrice)
	if err != nil {
		return nil, fmt.Errorf("order %s: bad total %q: %w", p.OrderID, p.TotalPrice, err)
	}
	return &Order{
		ID:            p.OrderID,
		UserID:        p.UserID,
		TotalPrice:    total,
		TransactionID: p.TransactionID,
		CreatedAt:     p.PlacedAt,
		Items:         p.Items,
	}, nil
}
