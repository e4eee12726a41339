package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemInput is one requested order line as submitted by the client. Quantities
// for the same product may be split across lines; they are aggregated before
// the stock check.
type ItemInput struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// PricedItem is a line item after pricing, carrying the unit price read from
// the catalog at quote time. Client-supplied prices are never consulted.
type PricedItem struct {
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Quote is the evaluator outcome: the aggregated, priced lines and their total.
type Quote struct {
	Items []PricedItem
	Total decimal.Decimal
}

// Order is created only as the terminal step of a successful placement and is
// immutable afterwards.
type Order struct {
	ID            string          `json:"id"`
	UserID        int64           `json:"userId"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	TransactionID string          `json:"transactionId"`
	CreatedAt     time.Time       `json:"createdAt"`
	Items         []PricedItem    `json:"items"`
}
