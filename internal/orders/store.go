package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/storefront-go/shop-backend/internal/postgres"
)

// Store owns order and order_items rows plus the stock-decrement side effect.
type Store struct{ DB *pgxpool.Pool }

// CreateOrderAtomically writes the order, its items, and the stock decrements
// in one transaction. Each decrement is a single conditional update with the
// floor check fused in, so two orders racing for the same stock serialize on
// the row and the loser rolls back whole.
func (s *Store) CreateOrderAtomically(ctx context.Context, userID int64, items []PricedItem, total decimal.Decimal, gatewayTxID string) (*Order, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	order := &Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		TotalPrice:    total,
		TransactionID: gatewayTxID,
		Items:         items,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO orders(id, user_id, total_price, transaction_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		order.ID, userID, total, gatewayTxID,
	).Scan(&order.CreatedAt)
	if err != nil {
		return nil, postgres.Translate(err)
	}

	for _, it := range items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items(order_id, product_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4)`,
			order.ID, it.ProductID, it.Quantity, it.UnitPrice,
		); err != nil {
			return nil, postgres.Translate(err)
		}

		ct, err := tx.Exec(ctx, `
			UPDATE products SET quantity = quantity - $2, updated_at = now()
			WHERE id = $1 AND quantity >= $2`,
			it.ProductID, it.Quantity,
		)
		if err != nil {
			if postgres.IsCheckViolation(err) {
				return nil, s.stockShortfall(ctx, tx, it)
			}
			return nil, postgres.Translate(err)
		}
		if ct.RowsAffected() != 1 {
			return nil, s.stockShortfall(ctx, tx, it)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, postgres.Translate(err)
	}
	return order, nil
}

// stockShortfall builds the available-vs-requested detail for a failed
// decrement. Read inside the same transaction; the surrounding rollback still
// discards everything.
func (s *Store) stockShortfall(ctx context.Context, tx pgx.Tx, it PricedItem) error {
	var available int
	if err := tx.QueryRow(ctx, `SELECT quantity FROM products WHERE id = $1`, it.ProductID).Scan(&available); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &ItemNotFoundError{ProductID: it.ProductID}
		}
		return fmt.Errorf("read stock for product %d: %w", it.ProductID, err)
	}
	return &InsufficientStockError{ProductID: it.ProductID, Requested: it.Quantity, Available: available}
}

// GetOrder loads a committed order with its items.
func (s *Store) GetOrder(ctx context.Context, id string) (*Order, error) {
	var o Order
	err := s.DB.QueryRow(ctx, `
		SELECT id, user_id, total_price, transaction_id, created_at
		FROM orders WHERE id = $1`, id,
	).Scan(&o.ID, &o.UserID, &o.TotalPrice, &o.TransactionID, &o.CreatedAt)
	if err != nil {
		return nil, postgres.Translate(err)
	}

	rows, err := s.DB.Query(ctx, `
		SELECT product_id, quantity, unit_price
		FROM order_items WHERE order_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, postgres.Translate(err)
	}
	defer rows.Close()

	for rows.Next() {
		var it PricedItem
		if err := rows.Scan(&it.ProductID, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, it)
	}
	return &o, rows.Err()
}
