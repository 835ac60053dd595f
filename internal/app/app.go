// Package app initializes and runs the user registry application.
// It configures logging and storage, registers the demo user,
// and handles graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/patric-chuzhbe/userreg/internal/config"
	"github.com/patric-chuzhbe/userreg/internal/db/jsondb"
	"github.com/patric-chuzhbe/userreg/internal/db/memorystorage"
	"github.com/patric-chuzhbe/userreg/internal/db/postgresdb"
	"github.com/patric-chuzhbe/userreg/internal/logger"
	"github.com/patric-chuzhbe/userreg/internal/models"
	"github.com/patric-chuzhbe/userreg/internal/user"
)

type userKeeper interface {
	AddUser(ctx context.Context, usr *user.User) error
	GetUserByID(ctx context.Context, userID string) (*user.User, error)
}

type usersCounter interface {
	GetNumberOfUsers(ctx context.Context) (int64, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

type storage interface {
	userKeeper
	usersCounter
	pinger
	Close() error
}

// App encapsulates the configuration and storage backend needed
// to run the user registry.
type App struct {
	cfg *config.Config
	db  storage
}

// New initializes a new instance of App by:
// - loading configuration
// - initializing logger
// - selecting and setting up storage
func New() (*App, error) {
	var err error
	app := &App{}

	app.cfg, err = config.New()
	if err != nil {
		return nil, err
	}

	err = logger.Init(app.cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	app.db, err = getStorageByType(app.cfg)
	if err != nil {
		return nil, err
	}

	err = pingStorage(context.Background(), app.db)
	if err != nil {
		return nil, err
	}

	return app, nil
}

// pingStorage verifies the storage is reachable before the application
// starts issuing operations against it.
func pingStorage(ctx context.Context, db pinger) error {
	if err := db.Ping(ctx); err != nil {
		return fmt.Errorf("storage ping failed: %w", err)
	}

	return nil
}

// Run registers the configured user, reads the record back and logs it.
// It aborts early when a shutdown signal arrives.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := registerAndShow(ctx, a.db, a.cfg); err != nil {
		if closeErr := a.db.Close(); closeErr != nil {
			logger.Log.Debugln("Error while closing the storage:", closeErr)
		}
		return err
	}

	return a.db.Close()
}

// Close finalizes resources used by App such as logging.
func (a *App) Close() {
	if err := logger.Sync(); err != nil {
		fmt.Println("Logger sync error:", err)
	}
}

func registerAndShow(ctx context.Context, db storage, cfg *config.Config) error {
	usr := &user.User{
		ID:       cfg.UserID,
		Name:     cfg.UserName,
		Password: cfg.UserPassword,
	}
	if usr.ID == "" {
		usr.ID = uuid.NewString()
	}

	err := db.AddUser(ctx, usr)
	if err != nil {
		if errors.Is(err, models.ErrUserAlreadyExists) {
			return fmt.Errorf("the user %q is already registered: %w", usr.ID, err)
		}
		return err
	}

	logger.Log.Infoln("user registered", "ID", usr.ID)

	registered, err := db.GetUserByID(ctx, usr.ID)
	if err != nil {
		return err
	}

	logger.Log.Infoln(
		"user record",
		"ID", registered.ID,
		"name", registered.Name,
		"password", registered.Password,
	)

	numberOfUsers, err := db.GetNumberOfUsers(ctx)
	if err != nil {
		return err
	}

	logger.Log.Infoln("total users", "count", numberOfUsers)

	return nil
}

func getAvailableStorageType(cfg *config.Config) int {
	if cfg.DatabaseDSN != "" {
		return models.StorageTypePostgresql
	}

	if cfg.DBFileName != "" {
		return models.StorageTypeFile
	}

	return models.StorageTypeMemory
}

func getStorageByType(cfg *config.Config) (storage, error) {
	switch getAvailableStorageType(cfg) {
	case models.StorageTypeUnknown:
		return nil, errors.New("unknown storage type")

	case models.StorageTypePostgresql:
		return postgresdb.New(
			context.Background(),
			cfg.DatabaseDSN,
			cfg.DBConnectionTimeout,
			cfg.MigrationsDir,
		)

	case models.StorageTypeFile:
		return jsondb.New(cfg.DBFileName)
	}

	return memorystorage.New()
}
