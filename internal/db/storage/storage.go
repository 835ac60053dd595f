package storage

import (
	"context"

	"github.com/patric-chuzhbe/userreg/internal/user"
)

// Storage is the persistence contract for user records.
// Every backend (PostgreSQL, JSON file, in-memory) implements it.
type Storage interface {
	AddUser(ctx context.Context, usr *user.User) error

	GetUserByID(ctx context.Context, userID string) (*user.User, error)

	GetAllUsers(ctx context.Context) ([]user.User, error)

	GetNumberOfUsers(ctx context.Context) (int64, error)

	DeleteAllUsers(ctx context.Context) error

	Ping(ctx context.Context) error

	Close() error
}
