package orders

import (
	"errors"
	"fmt"

	"github.com/storefront-go/shop-backend/internal/payment"
	"github.com/storefront-go/shop-backend/internal/postgres"
)

// ErrEmptyOrder rejects a placement with no items, before any lookup runs.
var ErrEmptyOrder = errors.New("cannot place an order without items")

// Re-exported store sentinels so callers can classify persistence failures
// without importing the postgres package.
var (
	ErrAlreadyExists        = postgres.ErrAlreadyExists
	ErrReferentialViolation = postgres.ErrReferentialViolation
	ErrNotFound             = postgres.ErrNotFound
)

type InvalidQuantityError struct {
	ProductID int64
	Quantity  int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d for product %d", e.Quantity, e.ProductID)
}

type ItemNotFoundError struct {
	ProductID int64
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("product %d does not exist", e.ProductID)
}

// InsufficientStockError reports available vs requested. It is raised by the
// evaluator at pricing time and again, authoritatively, by the store when a
// concurrent order drained the stock between quote and commit.
type InsufficientStockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("product %d has only %d items left, %d requested", e.ProductID, e.Available, e.Requested)
}

// PaymentRejectedError carries the non-approved gateway verdict. The
// coordinator never retries; the charge was answered, just not approved.
type PaymentRejectedError struct {
	Verdict payment.Verdict
}

func (e *PaymentRejectedError) Error() string {
	return fmt.Sprintf("Transaction %s.", e.Verdict)
}
