package core

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockUserLocker is a testify mock for the UserLocker port
type MockUserLocker struct {
	mock.Mock
}

// Acquire mocks acquiring the named lock
func (m *MockUserLocker) Acquire(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// Release mocks releasing the named lock
func (m *MockUserLocker) Release(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}
