package repository

import (
	"context"
	"errors"
	"log/slog"
)

var (
	ErrNoTransaction     = errors.New("unit of work: no active transaction")
	ErrTransactionActive = errors.New("unit of work: transaction already active")
)

// UnitOfWork is a transactional boundary owning one UserRepository.
// An instance serves one scope at a time and must not be shared between goroutines.
type UnitOfWork interface {
	// Begin opens a transactional session.
	Begin(ctx context.Context) error

	// Users returns the repository bound to the open session.
	Users() UserRepository

	// Commit persists staged changes and closes the session.
	Commit(ctx context.Context) error

	// Rollback discards staged changes and closes the session.
	// It is a no-op when no session is open.
	Rollback(ctx context.Context) error
}

// Run executes fn inside a unit of work scope. Work that fn does not commit is
// rolled back on return, including when fn fails or panics. Errors from fn are
// returned unchanged.
func Run(ctx context.Context, uow UnitOfWork, fn func(users UserRepository) error) (err error) {
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		rbErr := uow.Rollback(ctx)
		if rbErr == nil {
			return
		}
		slog.ErrorContext(ctx, "unit_of_work_rollback_failed", "component", "repository", "error", rbErr)
		if err == nil {
			err = rbErr
		}
	}()

	return fn(uow.Users())
}
