package mocks

import (
	"context"

	"userregistry/internal/model"
	"userregistry/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Add(ctx context.Context, in service.NewUser) error {
	args := m.Called(ctx, in)
	return args.Error(0)
}

func (m *MockUserService) Get(ctx context.Context, ssn string) (*model.User, error) {
	args := m.Called(ctx, ssn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context, q service.ListQuery) (*service.UserList, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserList), args.Error(1)
}
