package users

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storefront-go/shop-backend/internal/postgres"
)

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type Store struct{ DB *pgxpool.Pool }

func (s *Store) CreateUser(ctx context.Context, u *User) error {
	err := s.DB.QueryRow(ctx, `
		INSERT INTO users(name, surname, email)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		u.Name, u.Surname, u.Email,
	).Scan(&u.ID, &u.CreatedAt)
	return postgres.Translate(err)
}

func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.DB.Query(ctx,
		`SELECT id, name, surname, email, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, postgres.Translate(err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Surname, &u.Email, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
