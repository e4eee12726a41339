package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storefront-go/shop-backend/internal/postgres"
)

const defaultTake = 50

// Store owns product and category records. Stock is mutated only by the order
// transaction; this store covers creation and reads.
type Store struct{ DB *pgxpool.Pool }

func (s *Store) CreateProduct(ctx context.Context, p *Product) error {
	err := s.DB.QueryRow(ctx, `
		INSERT INTO products(serial_no, name, price, quantity, category_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		p.SerialNo, p.Name, p.Price, p.Quantity, p.CategoryID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return postgres.Translate(err)
}

func (s *Store) GetProduct(ctx context.Context, id int64) (*Product, error) {
	var p Product
	err := s.DB.QueryRow(ctx, `
		SELECT id, serial_no, name, price, quantity, category_id, created_at, updated_at
		FROM products WHERE id = $1`, id,
	).Scan(&p.ID, &p.SerialNo, &p.Name, &p.Price, &p.Quantity, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, postgres.Translate(err)
	}
	return &p, nil
}

// ProductsByID fetches all requested products in one batch query.
func (s *Store) ProductsByID(ctx context.Context, ids []int64) (map[int64]Product, error) {
	if len(ids) == 0 {
		return map[int64]Product{}, nil
	}
	params := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		params[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	rows, err := s.DB.Query(ctx, `
		SELECT id, serial_no, name, price, quantity, category_id, created_at, updated_at
		FROM products WHERE id IN (`+strings.Join(params, ",")+`)`, args...)
	if err != nil {
		return nil, postgres.Translate(err)
	}
	defer rows.Close()

	out := make(map[int64]Product, len(ids))
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.SerialNo, &p.Name, &p.Price, &p.Quantity, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

// ListProducts pages through the catalog by id cursor with optional filters.
func (s *Store) ListProducts(ctx context.Context, q ListQuery) ([]Product, error) {
	take := q.Take
	if take <= 0 || take > 500 {
		take = defaultTake
	}

	where := []string{"id > $1"}
	args := []any{q.Cursor}
	if q.CategoryID > 0 {
		args = append(args, q.CategoryID)
		where = append(where, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if q.Name != "" {
		args = append(args, "%"+q.Name+"%")
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if q.SerialNo != "" {
		args = append(args, "%"+q.SerialNo+"%")
		where = append(where, fmt.Sprintf("serial_no ILIKE $%d", len(args)))
	}
	args = append(args, take)

	rows, err := s.DB.Query(ctx, fmt.Sprintf(`
		SELECT id, serial_no, name, price, quantity, category_id, created_at, updated_at
		FROM products WHERE %s ORDER BY id LIMIT $%d`,
		strings.Join(where, " AND "), len(args)), args...)
	if err != nil {
		return nil, postgres.Translate(err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.SerialNo, &p.Name, &p.Price, &p.Quantity, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) CreateCategory(ctx context.Context, c *Category) error {
	err := s.DB.QueryRow(ctx,
		`INSERT INTO categories(name) VALUES ($1) RETURNING id`, c.Name,
	).Scan(&c.ID)
	return postgres.Translate(err)
}
