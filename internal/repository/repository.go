package repository

import (
	"context"
	"errors"

	"userregistry/internal/model"
)

// ErrDuplicateKey marks a storage error caused by an SSN that is already taken.
// Store implementations wrap the driver error with it so the original stays reachable.
var ErrDuplicateKey = errors.New("duplicate key")

// UserRepository defines data access for users. Implementations are bound to
// a unit of work and fail with ErrNoTransaction outside one.
type UserRepository interface {
	// Add stages a new user. Uniqueness is left to the store, which reports
	// a conflict no later than commit.
	Add(ctx context.Context, user *model.User) error

	// Get returns the user with the given SSN, or (nil, nil) if there is none.
	Get(ctx context.Context, ssn string) (*model.User, error)

	// GetAll returns up to limit users starting at offset, narrowed by filter.
	GetAll(ctx context.Context, offset, limit int, filter UserFilter) (*UserPage, error)
}

// UserFilter holds optional equality filters; the present ones are ANDed.
type UserFilter struct {
	FirstName   *string
	LastName    *string
	DateOfBirth *model.Date
}

// Matches reports whether u satisfies every present filter.
func (f UserFilter) Matches(u model.User) bool {
	if f.FirstName != nil && u.FirstName != *f.FirstName {
		return false
	}
	if f.LastName != nil && u.LastName != *f.LastName {
		return false
	}
	if f.DateOfBirth != nil && u.DateOfBirth != *f.DateOfBirth {
		return false
	}
	return true
}

// UserPage is one page of users and whether another page follows.
type UserPage struct {
	Users    []model.User
	NextPage bool
}

// TrimPage turns a look-ahead fetch of up to limit+1 rows into a page.
func TrimPage(users []model.User, limit int) *UserPage {
	if users == nil {
		users = make([]model.User, 0)
	}
	if limit < 0 {
		limit = 0
	}
	if len(users) > limit {
		return &UserPage{Users: users[:limit], NextPage: true}
	}
	return &UserPage{Users: users, NextPage: false}
}
