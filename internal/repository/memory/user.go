package memory

import (
	"context"

	"userregistry/internal/model"
	"userregistry/internal/repository"
)

// UserRepository reads committed rows from the store merged with rows staged
// in its unit of work.
type UserRepository struct {
	uow *UnitOfWork
}

var _ repository.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Add(ctx context.Context, user *model.User) error {
	if !r.uow.active {
		return repository.ErrNoTransaction
	}
	r.uow.staged = append(r.uow.staged, *user)
	return nil
}

func (r *UserRepository) Get(ctx context.Context, ssn string) (*model.User, error) {
	if !r.uow.active {
		return nil, repository.ErrNoTransaction
	}
	for i := len(r.uow.staged) - 1; i >= 0; i-- {
		if r.uow.staged[i].SSN == ssn {
			u := r.uow.staged[i]
			return &u, nil
		}
	}
	if u, ok := r.uow.store.get(ssn); ok {
		return &u, nil
	}
	return nil, nil
}

func (r *UserRepository) GetAll(ctx context.Context, offset, limit int, filter repository.UserFilter) (*repository.UserPage, error) {
	if !r.uow.active {
		return nil, repository.ErrNoTransaction
	}

	matched := make([]model.User, 0)
	for _, u := range r.visible() {
		if filter.Matches(u) {
			matched = append(matched, u)
		}
	}
	sortBySSN(matched)

	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return repository.TrimPage(nil, limit), nil
	}
	end := len(matched)
	if limit >= 0 && limit < end-offset {
		end = offset + limit + 1
	}
	return repository.TrimPage(matched[offset:end], limit), nil
}

// visible is the committed state overlaid with staged rows, one row per SSN.
func (r *UserRepository) visible() []model.User {
	users := r.uow.store.snapshot()
	if len(r.uow.staged) == 0 {
		return users
	}
	bySSN := make(map[string]int, len(users))
	for i, u := range users {
		bySSN[u.SSN] = i
	}
	for _, u := range r.uow.staged {
		if i, ok := bySSN[u.SSN]; ok {
			users[i] = u
			continue
		}
		bySSN[u.SSN] = len(users)
		users = append(users, u)
	}
	return users
}
