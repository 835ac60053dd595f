package jsondb

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/userreg/internal/db/storage"
	"github.com/patric-chuzhbe/userreg/internal/models"
	"github.com/patric-chuzhbe/userreg/internal/user"
)

const (
	testDBFileName = "db_test.json"
)

var _ storage.Storage = (*JSONDB)(nil)

func Test(t *testing.T) {
	t.Run("The base jsondb package test", func(t *testing.T) {
		theStorage, err := New(testDBFileName)
		require.NoError(t, err)
		require.NotNil(t, theStorage)
		defer func() {
			err := theStorage.Close()
			require.NoError(t, err)
			err = os.Remove(testDBFileName)
			require.NoError(t, err)
		}()

		err = theStorage.DeleteAllUsers(context.Background())
		assert.NoError(t, err, "The `theStorage.DeleteAllUsers()` should not return error")

		numberOfUsers, err := theStorage.GetNumberOfUsers(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, int64(0), numberOfUsers, "The storage should be empty after `theStorage.DeleteAllUsers()`")

		err = theStorage.AddUser(
			context.Background(),
			&user.User{ID: "omygirl1", Name: "some name", Password: "some password"},
		)
		assert.NoError(t, err, "The `theStorage.AddUser()` should not return error")

		numberOfUsers, err = theStorage.GetNumberOfUsers(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, int64(1), numberOfUsers, "Each `theStorage.AddUser()` should increase the count by one")

		usr, err := theStorage.GetUserByID(context.Background(), "omygirl1")
		assert.NoError(t, err, "The `theStorage.GetUserByID()` should not return error")
		assert.Equal(
			t,
			&user.User{ID: "omygirl1", Name: "some name", Password: "some password"},
			usr,
			"The fetched user should keep the name and password passed to `theStorage.AddUser()`",
		)

		err = theStorage.AddUser(
			context.Background(),
			&user.User{ID: "omygirl1", Name: "another name", Password: "another password"},
		)
		assert.ErrorIs(
			t,
			err,
			models.ErrUserAlreadyExists,
			"Adding a user with an existent ID should return the `models.ErrUserAlreadyExists` error",
		)

		_, err = theStorage.GetUserByID(context.Background(), "unknown_ID")
		assert.ErrorIs(
			t,
			err,
			models.ErrUserNotFound,
			"The `theStorage.GetUserByID()` for an unknown ID should return the `models.ErrUserNotFound` error",
		)

		err = theStorage.AddUser(
			context.Background(),
			&user.User{ID: "omygirl3", Name: "name 3", Password: "password 3"},
		)
		assert.NoError(t, err)

		err = theStorage.AddUser(
			context.Background(),
			&user.User{ID: "omygirl2", Name: "name 2", Password: "password 2"},
		)
		assert.NoError(t, err)

		allUsers, err := theStorage.GetAllUsers(context.Background())
		assert.NoError(t, err, "The `theStorage.GetAllUsers()` should not return error")
		assert.Equal(
			t,
			[]user.User{
				{ID: "omygirl1", Name: "some name", Password: "some password"},
				{ID: "omygirl2", Name: "name 2", Password: "password 2"},
				{ID: "omygirl3", Name: "name 3", Password: "password 3"},
			},
			allUsers,
			"The `theStorage.GetAllUsers()` should return the users ordered by ID ascending",
		)

		err = theStorage.Ping(context.Background())
		assert.NoError(t, err, "The jsondb.Ping() should not return error")

		err = theStorage.DeleteAllUsers(context.Background())
		assert.NoError(t, err)

		numberOfUsers, err = theStorage.GetNumberOfUsers(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, int64(0), numberOfUsers)
	})

	t.Run("The storage content survives Close and reopen", func(t *testing.T) {
		theStorage, err := New(testDBFileName)
		require.NoError(t, err)
		defer func() {
			err := os.Remove(testDBFileName)
			require.NoError(t, err)
		}()

		err = theStorage.AddUser(
			context.Background(),
			&user.User{ID: "tyrano", Name: "some name", Password: "some password"},
		)
		require.NoError(t, err)

		err = theStorage.Close()
		require.NoError(t, err)

		reopenedStorage, err := New(testDBFileName)
		require.NoError(t, err)

		usr, err := reopenedStorage.GetUserByID(context.Background(), "tyrano")
		assert.NoError(t, err)
		assert.Equal(t, &user.User{ID: "tyrano", Name: "some name", Password: "some password"}, usr)
	})
}
