package postgresdb

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/userreg/internal/db/storage"
	"github.com/patric-chuzhbe/userreg/internal/models"
	"github.com/patric-chuzhbe/userreg/internal/user"
)

var _ storage.Storage = (*PostgresDB)(nil)

var (
	user1 = user.User{ID: "omygirl1", Name: "name 1", Password: "password 1"}
	user2 = user.User{ID: "omygirl2", Name: "name 2", Password: "password 2"}
	user3 = user.User{ID: "omygirl3", Name: "name 3", Password: "password 3"}
)

// newTestStorage connects to the database from the TEST_DATABASE_DSN
// environment variable and wipes the users table.
// The test is skipped when the variable is not set.
func newTestStorage(t *testing.T) *PostgresDB {
	t.Helper()

	databaseDSN := os.Getenv("TEST_DATABASE_DSN")
	if databaseDSN == "" {
		t.Skip("TEST_DATABASE_DSN is not set")
	}

	theStorage, err := New(context.Background(), databaseDSN, 10*time.Second, "../../../migrations")
	require.NoError(t, err)
	t.Cleanup(func() {
		err := theStorage.Close()
		require.NoError(t, err)
	})

	err = theStorage.DeleteAllUsers(context.Background())
	require.NoError(t, err)

	return theStorage
}

func TestAddAndGet(t *testing.T) {
	theStorage := newTestStorage(t)

	numberOfUsers, err := theStorage.GetNumberOfUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), numberOfUsers)

	err = theStorage.AddUser(context.Background(), &user1)
	require.NoError(t, err)
	err = theStorage.AddUser(context.Background(), &user2)
	require.NoError(t, err)

	numberOfUsers, err = theStorage.GetNumberOfUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), numberOfUsers)

	userGet1, err := theStorage.GetUserByID(context.Background(), user1.ID)
	require.NoError(t, err)
	assert.Equal(t, user1.Name, userGet1.Name)
	assert.Equal(t, user1.Password, userGet1.Password)

	userGet2, err := theStorage.GetUserByID(context.Background(), user2.ID)
	require.NoError(t, err)
	assert.Equal(t, user2.Name, userGet2.Name)
	assert.Equal(t, user2.Password, userGet2.Password)
}

func TestCount(t *testing.T) {
	theStorage := newTestStorage(t)

	numberOfUsers, err := theStorage.GetNumberOfUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), numberOfUsers)

	for i, usr := range []user.User{user1, user2, user3} {
		err = theStorage.AddUser(context.Background(), &usr)
		require.NoError(t, err)

		numberOfUsers, err = theStorage.GetNumberOfUsers(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), numberOfUsers)
	}
}

func TestPing(t *testing.T) {
	theStorage := newTestStorage(t)

	// A sub-second timeout must stay a sub-second timeout and still
	// leave the context alive long enough to reach the database.
	theStorage.connectionTimeout = 500 * time.Millisecond

	err := theStorage.Ping(context.Background())
	assert.NoError(t, err)
}

func TestGetUserFailure(t *testing.T) {
	theStorage := newTestStorage(t)

	_, err := theStorage.GetUserByID(context.Background(), "unknown_ID")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestAddDuplicate(t *testing.T) {
	theStorage := newTestStorage(t)

	err := theStorage.AddUser(context.Background(), &user1)
	require.NoError(t, err)

	err = theStorage.AddUser(
		context.Background(),
		&user.User{ID: user1.ID, Name: "another name", Password: "another password"},
	)
	assert.ErrorIs(t, err, models.ErrUserAlreadyExists)
}

func TestGetAllOrdered(t *testing.T) {
	theStorage := newTestStorage(t)

	// Insert out of order to make sure the ordering comes from the query.
	for _, usr := range []user.User{user3, user1, user2} {
		err := theStorage.AddUser(context.Background(), &usr)
		require.NoError(t, err)
	}

	allUsers, err := theStorage.GetAllUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []user.User{user1, user2, user3}, allUsers)
}
