package models

import "errors"

const (
	StorageTypeUnknown = iota
	StorageTypePostgresql
	StorageTypeFile
	StorageTypeMemory
)

// ErrUserNotFound is returned by GetUserByID when no row matches the given ID.
var ErrUserNotFound = errors.New("user not found")

// ErrUserAlreadyExists is returned by AddUser when a user with the same ID
// is already stored.
var ErrUserAlreadyExists = errors.New("user already exists")
