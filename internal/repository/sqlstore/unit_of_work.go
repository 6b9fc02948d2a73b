package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"userregistry/internal/database"
	"userregistry/internal/repository"
)

// UnitOfWork is a database/sql implementation of repository.UnitOfWork.
// Each Begin opens one *sql.Tx that the user repository queries through.
type UnitOfWork struct {
	db      *sql.DB
	dialect database.Dialect
	tx      *sql.Tx
	users   *UserSQL
}

// NewUnitOfWork creates a unit of work over db speaking dialect.
func NewUnitOfWork(db *sql.DB, dialect database.Dialect) *UnitOfWork {
	u := &UnitOfWork{db: db, dialect: dialect}
	u.users = &UserSQL{uow: u}
	return u
}

// Factory returns a constructor suitable for service.NewUserService.
func Factory(db *sql.DB, dialect database.Dialect) func() repository.UnitOfWork {
	return func() repository.UnitOfWork {
		return NewUnitOfWork(db, dialect)
	}
}

var _ repository.UnitOfWork = (*UnitOfWork)(nil)

func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return repository.ErrTransactionActive
	}
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	u.tx = tx
	return nil
}

func (u *UnitOfWork) Users() repository.UserRepository {
	return u.users
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return repository.ErrNoTransaction
	}
	tx := u.tx
	u.tx = nil
	if err := tx.Commit(); err != nil {
		return wrapStoreError("commit transaction", err)
	}
	return nil
}

func (u *UnitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	tx := u.tx
	u.tx = nil
	// The driver already rolled back if the context was cancelled.
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}

func (u *UnitOfWork) session() (*sql.Tx, error) {
	if u.tx == nil {
		return nil, repository.ErrNoTransaction
	}
	return u.tx, nil
}
