package memory

import (
	"context"

	"userregistry/internal/model"
	"userregistry/internal/repository"
)

// UnitOfWork stages adds in memory until Commit applies them to its Store.
type UnitOfWork struct {
	store     *Store
	active    bool
	staged    []model.User
	committed bool
	users     *UserRepository
}

// NewUnitOfWork creates a unit of work over store.
func NewUnitOfWork(store *Store) *UnitOfWork {
	u := &UnitOfWork{store: store}
	u.users = &UserRepository{uow: u}
	return u
}

// Factory returns a constructor suitable for service.NewUserService.
func Factory(store *Store) func() repository.UnitOfWork {
	return func() repository.UnitOfWork {
		return NewUnitOfWork(store)
	}
}

var _ repository.UnitOfWork = (*UnitOfWork)(nil)

func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.active {
		return repository.ErrTransactionActive
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.active = true
	u.staged = nil
	return nil
}

func (u *UnitOfWork) Users() repository.UserRepository {
	return u.users
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	if !u.active {
		return repository.ErrNoTransaction
	}
	staged := u.staged
	u.reset()
	if err := u.store.apply(staged); err != nil {
		return err
	}
	u.committed = true
	return nil
}

func (u *UnitOfWork) Rollback(ctx context.Context) error {
	u.reset()
	return nil
}

// Committed reports whether any scope of this unit has committed.
func (u *UnitOfWork) Committed() bool {
	return u.committed
}

func (u *UnitOfWork) reset() {
	u.active = false
	u.staged = nil
}
