// Package user defines the user model persisted by the storage backends.
package user

// User represents a registered user record.
//
// The Password field holds the password exactly as it was supplied
// by the caller. No hashing is applied at this layer.
type User struct {
	// ID is the unique identifier of the user.
	ID string

	// Name is the display name of the user.
	Name string

	// Password is the user's password, stored as plain text.
	Password string
}
