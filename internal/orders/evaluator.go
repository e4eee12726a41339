package orders

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/storefront-go/shop-backend/internal/catalog"
)

// Catalog is the read side the evaluator prices against. One call, all ids;
// per-item lookups would both multiply round trips and widen the read-skew
// window.
type Catalog interface {
	ProductsByID(ctx context.Context, ids []int64) (map[int64]catalog.Product, error)
}

// Evaluate prices the requested items against the current catalog snapshot.
// Duplicate product ids are summed first so the stock check sees the aggregate
// quantity. The returned total is computed exclusively from catalog prices.
func Evaluate(ctx context.Context, cat Catalog, items []ItemInput) (Quote, error) {
	if len(items) == 0 {
		return Quote{}, ErrEmptyOrder
	}

	// aggregate duplicates, keep first-seen order
	var ids []int64
	wanted := make(map[int64]int, len(items))
	for _, it := range items {
		if _, seen := wanted[it.ProductID]; !seen {
			ids = append(ids, it.ProductID)
		}
		wanted[it.ProductID] += it.Quantity
	}

	products, err := cat.ProductsByID(ctx, ids)
	if err != nil {
		return Quote{}, err
	}

	quote := Quote{Total: decimal.Zero}
	for _, id := range ids {
		p, ok := products[id]
		if !ok {
			return Quote{}, &ItemNotFoundError{ProductID: id}
		}
		qty := wanted[id]
		if p.Quantity < qty {
			return Quote{}, &InsufficientStockError{ProductID: id, Requested: qty, Available: p.Quantity}
		}
		quote.Items = append(quote.Items, PricedItem{ProductID: id, Quantity: qty, UnitPrice: p.Price})
		quote.Total = quote.Total.Add(p.Price.Mul(decimal.NewFromInt(int64(qty))))
	}
	return quote, nil
}
