package sqlstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"userregistry/internal/repository"
)

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// wrapStoreError annotates err with op and, for unique violations, with
// repository.ErrDuplicateKey. The driver error stays in the chain.
func wrapStoreError(op string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w: %w", op, repository.ErrDuplicateKey, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
