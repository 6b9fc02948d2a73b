package service

import (
	"context"
	"errors"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"userregistry/internal/model"
	"userregistry/internal/repository"
)

// MinimumAge is the age a user must have reached to be registered.
const MinimumAge = 18

var (
	ErrUserIsUnderage    = errors.New("user is underage")
	ErrUserDoesNotExist  = errors.New("user does not exist")
	ErrInvalidPagination = errors.New("current page and page size must be positive")
)

var (
	now    = time.Now
	tracer = otel.Tracer("userregistry/service")
)

// NewUser carries the fields needed to register a user.
type NewUser struct {
	SSN         string
	FirstName   string
	LastName    string
	DateOfBirth model.Date
}

// UserList is one page of users plus the pagination parameters that produced it.
type UserList struct {
	Users       []model.User `json:"users"`
	NextPage    bool         `json:"next_page"`
	CurrentPage int          `json:"current_page"`
	PageSize    int          `json:"page_size"`
}

// IsOfAge reports whether someone born on dob is at least MinimumAge on today's date.
func IsOfAge(dob model.Date, today time.Time) bool {
	y, m, d := today.Date()
	age := y - dob.Year
	if m < dob.Month || (m == dob.Month && d < dob.Day) {
		age--
	}
	return age >= MinimumAge
}

// AddUser registers a user. The age check runs before the unit of work is opened
// and uses the process clock's local date.
func AddUser(ctx context.Context, uow repository.UnitOfWork, in NewUser) error {
	return addUser(ctx, uow, in, now())
}

func addUser(ctx context.Context, uow repository.UnitOfWork, in NewUser, today time.Time) (err error) {
	ctx, span := tracer.Start(ctx, "service.AddUser", trace.WithAttributes(attribute.String("user.ssn", in.SSN)))
	defer func() { endSpan(span, err) }()

	if !IsOfAge(in.DateOfBirth, today) {
		return ErrUserIsUnderage
	}

	return repository.Run(ctx, uow, func(users repository.UserRepository) error {
		user := &model.User{
			SSN:         in.SSN,
			FirstName:   in.FirstName,
			LastName:    in.LastName,
			DateOfBirth: in.DateOfBirth,
		}
		if err := users.Add(ctx, user); err != nil {
			return err
		}
		return uow.Commit(ctx)
	})
}

// GetUser fetches a user by SSN. The read transaction is committed before
// ErrUserDoesNotExist is reported.
func GetUser(ctx context.Context, uow repository.UnitOfWork, ssn string) (_ *model.User, err error) {
	ctx, span := tracer.Start(ctx, "service.GetUser", trace.WithAttributes(attribute.String("user.ssn", ssn)))
	defer func() { endSpan(span, err) }()

	var user *model.User
	err = repository.Run(ctx, uow, func(users repository.UserRepository) error {
		var err error
		user, err = users.Get(ctx, ssn)
		if err != nil {
			return err
		}
		return uow.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserDoesNotExist
	}
	return user, nil
}

// GetUsers lists one page of users matching filter. Pages are 1-based.
func GetUsers(ctx context.Context, uow repository.UnitOfWork, currentPage, pageSize int, filter repository.UserFilter) (_ *UserList, err error) {
	ctx, span := tracer.Start(ctx, "service.GetUsers", trace.WithAttributes(
		attribute.Int("page.current", currentPage),
		attribute.Int("page.size", pageSize),
	))
	defer func() { endSpan(span, err) }()

	if !validPage(currentPage, pageSize) {
		return nil, ErrInvalidPagination
	}

	var page *repository.UserPage
	err = repository.Run(ctx, uow, func(users repository.UserRepository) error {
		var err error
		page, err = users.GetAll(ctx, (currentPage-1)*pageSize, pageSize, filter)
		if err != nil {
			return err
		}
		return uow.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return &UserList{
		Users:       page.Users,
		NextPage:    page.NextPage,
		CurrentPage: currentPage,
		PageSize:    pageSize,
	}, nil
}

// validPage rejects pages whose offset or look-ahead row would overflow int.
func validPage(currentPage, pageSize int) bool {
	if currentPage < 1 || pageSize < 1 || pageSize == math.MaxInt {
		return false
	}
	return currentPage-1 <= (math.MaxInt-pageSize-1)/pageSize
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
