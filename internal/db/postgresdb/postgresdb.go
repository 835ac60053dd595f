// Package postgresdb provides a PostgreSQL-based implementation of the storage
// interface for persisting and retrieving user records.
package postgresdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/patric-chuzhbe/userreg/internal/models"
	"github.com/patric-chuzhbe/userreg/internal/user"
)

const uniqueViolationCode = "23505"

// PostgresDB is a PostgreSQL-backed implementation of the user storage.
// All persistence operations go through a single database/sql handle
// opened with the pgx driver.
type PostgresDB struct {
	database          *sql.DB
	connectionTimeout time.Duration
}

// New establishes a connection to the PostgreSQL database,
// runs schema migrations, and returns a configured PostgresDB instance.
func New(
	ctx context.Context,
	databaseDSN string,
	connectionTimeout time.Duration,
	migrationsDir string,
) (*PostgresDB, error) {
	database, err := sql.Open("pgx", databaseDSN)
	if err != nil {
		return nil, err
	}

	result := &PostgresDB{
		database:          database,
		connectionTimeout: connectionTimeout,
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return nil,
			fmt.Errorf(
				"in internal/db/postgresdb/postgresdb.go/New(): error while `goose.SetDialect()` calling: %w",
				err,
			)
	}

	if err := goose.Up(result.database, migrationsDir); err != nil {
		return nil,
			fmt.Errorf(
				"in internal/db/postgresdb/postgresdb.go/New(): error while `goose.Up()` calling: %w",
				err,
			)
	}

	return result, nil
}

// AddUser inserts a new user row.
// A duplicate ID is reported as models.ErrUserAlreadyExists.
func (db *PostgresDB) AddUser(ctx context.Context, usr *user.User) error {
	_, err := db.database.ExecContext(
		ctx,
		`INSERT INTO users (id, name, password) VALUES ($1, $2, $3)`,
		usr.ID,
		usr.Name,
		usr.Password,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return fmt.Errorf("user %q: %w", usr.ID, models.ErrUserAlreadyExists)
		}
		return err
	}

	return nil
}

// GetUserByID fetches a user by ID.
// If no row matches, it returns models.ErrUserNotFound.
func (db *PostgresDB) GetUserByID(ctx context.Context, userID string) (*user.User, error) {
	row := db.database.QueryRowContext(
		ctx,
		`SELECT id, name, password FROM users WHERE id = $1`,
		userID,
	)
	var usr user.User
	err := row.Scan(&usr.ID, &usr.Name, &usr.Password)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", userID, models.ErrUserNotFound)
		}
		return nil, err
	}

	return &usr, nil
}

// GetAllUsers returns every stored user ordered by ID ascending.
func (db *PostgresDB) GetAllUsers(ctx context.Context) ([]user.User, error) {
	rows, err := db.database.QueryContext(
		ctx,
		`SELECT id, name, password FROM users ORDER BY id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []user.User{}
	for rows.Next() {
		var usr user.User
		err = rows.Scan(&usr.ID, &usr.Name, &usr.Password)
		if err != nil {
			return nil, err
		}

		result = append(result, usr)
	}

	err = rows.Err()
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetNumberOfUsers returns the total number of stored users.
func (db *PostgresDB) GetNumberOfUsers(ctx context.Context) (int64, error) {
	row := db.database.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM users`,
	)
	var numberOfUsers int64
	err := row.Scan(&numberOfUsers)
	if err != nil {
		return 0, err
	}

	return numberOfUsers, nil
}

// DeleteAllUsers removes every row from the users table.
func (db *PostgresDB) DeleteAllUsers(ctx context.Context) error {
	_, err := db.database.ExecContext(
		ctx,
		`DELETE FROM users`,
	)
	if err != nil {
		return err
	}

	return nil
}

// Ping verifies the database connection within the configured timeout.
func (db *PostgresDB) Ping(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, db.connectionTimeout)
	defer cancel()

	return db.database.PingContext(ctxWithTimeout)
}

// Close releases the underlying database handle.
func (db *PostgresDB) Close() error {
	err := db.database.Close()
	if err != nil {
		return err
	}

	return nil
}
