// Package mockstorage provides a testify-based mock implementation
// of the storage interface. It is used for unit testing the application
// wiring without a real database.
package mockstorage

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/patric-chuzhbe/userreg/internal/user"
)

// StorageMock is a testify mock that implements the storage interface.
type StorageMock struct {
	mock.Mock

	// OnGetNumberOfUsers is an optional function field that can be assigned
	// to define custom mock behavior for GetNumberOfUsers in tests.
	//
	// If set, GetNumberOfUsers will delegate to this function instead of
	// using testify's generic mock handler.
	OnGetNumberOfUsers func(ctx context.Context) (int64, error)
}

// AddUser mocks inserting a user record.
func (m *StorageMock) AddUser(ctx context.Context, usr *user.User) error {
	args := m.Called(ctx, usr)
	return args.Error(0)
}

// GetUserByID mocks fetching a user by their ID.
func (m *StorageMock) GetUserByID(ctx context.Context, userID string) (*user.User, error) {
	args := m.Called(ctx, userID)
	usr, _ := args.Get(0).(*user.User)
	return usr, args.Error(1)
}

// GetAllUsers mocks listing all stored users.
func (m *StorageMock) GetAllUsers(ctx context.Context) ([]user.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]user.User)
	return users, args.Error(1)
}

// GetNumberOfUsers returns the number of users as defined by the mock.
//
// If OnGetNumberOfUsers is non-nil, it will be called to produce the result.
// Otherwise, the method falls back to testify's generic mock handler.
func (m *StorageMock) GetNumberOfUsers(ctx context.Context) (int64, error) {
	if m.OnGetNumberOfUsers != nil {
		return m.OnGetNumberOfUsers(ctx)
	}
	args := m.Called(ctx)
	count, _ := args.Get(0).(int64)
	return count, args.Error(1)
}

// DeleteAllUsers mocks removing every stored user.
func (m *StorageMock) DeleteAllUsers(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Ping mocks the storage health check.
func (m *StorageMock) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close mocks closing the storage and releasing resources.
func (m *StorageMock) Close() error {
	args := m.Called()
	return args.Error(0)
}
