package service

import (
	"context"
	"time"

	"userregistry/internal/model"
	"userregistry/internal/repository"
)

// ListQuery selects a page of users.
type ListQuery struct {
	CurrentPage int
	PageSize    int
	Filter      repository.UserFilter
}

// UserService defines the user registry use cases for the transport layer.
type UserService interface {
	// Add registers a user, failing with ErrUserIsUnderage for minors.
	Add(ctx context.Context, in NewUser) error

	// Get returns a user by SSN, failing with ErrUserDoesNotExist.
	Get(ctx context.Context, ssn string) (*model.User, error)

	// List returns one page of users.
	List(ctx context.Context, q ListQuery) (*UserList, error)
}

// userService runs every call in a fresh unit of work.
type userService struct {
	newUnitOfWork func() repository.UnitOfWork
	loc           *time.Location
}

// Option configures a UserService.
type Option func(*userService)

// WithLocation sets the time zone whose calendar date decides age checks.
// The default is UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *userService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewUserService constructs a UserService that obtains units of work from newUnitOfWork.
func NewUserService(newUnitOfWork func() repository.UnitOfWork, opts ...Option) UserService {
	s := &userService{newUnitOfWork: newUnitOfWork, loc: time.UTC}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *userService) Add(ctx context.Context, in NewUser) error {
	return addUser(ctx, s.newUnitOfWork(), in, now().In(s.loc))
}

func (s *userService) Get(ctx context.Context, ssn string) (*model.User, error) {
	return GetUser(ctx, s.newUnitOfWork(), ssn)
}

func (s *userService) List(ctx context.Context, q ListQuery) (*UserList, error) {
	return GetUsers(ctx, s.newUnitOfWork(), q.CurrentPage, q.PageSize, q.Filter)
}
