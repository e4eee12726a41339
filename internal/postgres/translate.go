package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrAlreadyExists        = errors.New("already exists")
	ErrReferentialViolation = errors.New("foreign key violation")
)

// SQLSTATE classes we care about. Anything else stays a storage fault.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// Translate maps driver errors onto the store error taxonomy. Unrecognized
// errors pass through wrapped, so callers can still errors.As into pg details.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s", ErrAlreadyExists, pgErr.ConstraintName)
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrReferentialViolation, pgErr.ConstraintName)
		}
	}
	return err
}

// IsCheckViolation reports whether err is a CHECK constraint failure, which is
// how a concurrent decrement past the stock floor surfaces if it slips past the
// conditional update.
func IsCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeCheckViolation
}
