package orders

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/storefront-go/shop-backend/internal/payment"
)

// Authorizer is the payment gateway boundary. A returned error means the
// verdict is unknown (transport failure); a non-approved Authorization is a
// definitive answer.
type Authorizer interface {
	Authorize(ctx context.Context, card payment.Card, amount decimal.Decimal) (payment.Authorization, error)
}

// OrderStore persists an order, its items, and the stock decrements as one
// atomic unit. The decrement must re-check availability itself: the quote this
// coordinator computed may be stale by commit time.
type OrderStore interface {
	CreateOrderAtomically(ctx context.Context, userID int64, items []PricedItem, total decimal.Decimal, gatewayTxID string) (*Order, error)
}

// Coordinator runs a placement through validate -> price -> authorize ->
// persist. The authorization deliberately happens outside any database
// transaction: it is slow and externally owned, and stock must not be held
// hostage to gateway latency. The price paid for that is a second,
// authoritative stock check inside the persistence transaction.
type Coordinator struct {
	Catalog Catalog
	Gateway Authorizer
	Store   OrderStore
}

// PlaceOrder is all-or-nothing: on any error no order row exists and no stock
// changed. A declined or errored payment never touches inventory; a payment
// that was approved but then loses the stock race is surfaced as
// InsufficientStockError with nothing persisted.
func (c *Coordinator) PlaceOrder(ctx context.Context, userID int64, items []ItemInput, card payment.Card) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: it.ProductID, Quantity: it.Quantity}
		}
	}

	quote, err := Evaluate(ctx, c.Catalog, items)
	if err != nil {
		return nil, err
	}

	auth, err := c.Gateway.Authorize(ctx, card, quote.Total)
	if err != nil {
		return nil, err
	}
	if auth.Status != payment.VerdictApproved {
		return nil, &PaymentRejectedError{Verdict: auth.Status}
	}

	return c.Store.CreateOrderAtomically(ctx, userID, quote.Items, quote.Total, auth.TransactionID)
}
