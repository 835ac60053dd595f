// Package config loads and validates the application configuration
// from defaults, a .env file, command line flags and environment variables.
package config

import (
	"flag"
	"log"
	"os"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the complete application configuration.
type Config struct {
	LogLevel            string        `env:"LOG_LEVEL" validate:"loglevel"`
	DatabaseDSN         string        `env:"DATABASE_DSN"`
	DBFileName          string        `env:"FILE_STORAGE_PATH" validate:"filepath"`
	DBConnectionTimeout time.Duration `env:"DB_CONNECTION_TIMEOUT"`
	MigrationsDir       string        `env:"MIGRATIONS_DIR"`

	// Demo user registered by the application entry point.
	// An empty UserID means the application generates one.
	UserID       string `env:"USER_ID"`
	UserName     string `env:"USER_NAME"`
	UserPassword string `env:"USER_PASSWORD"`
}

var defaultConfig = Config{
	LogLevel:            "info",
	DatabaseDSN:         "",
	DBFileName:          "",
	DBConnectionTimeout: 10 * time.Second,
	MigrationsDir:       "migrations",
	UserID:              "",
	UserName:            "anonymous",
	UserPassword:        "",
}

func applyDefaults(values *Config, defaults Config) {
	*values = defaults
}

func validateFilePath(fieldLevel validator.FieldLevel) bool {
	path := fieldLevel.Field().String()
	if path == "" {
		return true
	}
	_, err := os.Stat(path)

	return err == nil || os.IsNotExist(err)
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	value := fieldLevel.Field().String()

	allowedLogLevels := map[string]bool{
		"debug":   true,
		"info":    true,
		"warning": true,
		"error":   true,
		"fatal":   true,
	}

	return allowedLogLevels[value]
}

func (values *Config) validate() error {
	validate := validator.New()

	err := validate.RegisterValidation("loglevel", validateLogLevel)
	if err != nil {
		return err
	}

	err = validate.RegisterValidation("filepath", validateFilePath)
	if err != nil {
		return err
	}

	return validate.Struct(values)
}

// InitOption customizes the behavior of New.
type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
}

// WithDisableFlagsParsing disables command line flags parsing.
// It is used by tests to keep New from consuming the test binary's arguments.
func WithDisableFlagsParsing(disableFlagsParsing bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disableFlagsParsing
	}
}

// New assembles the configuration with the following priority,
// lowest to highest: defaults, command line flags, environment variables.
// Environment variables may additionally be loaded from a .env file.
func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{
		disableFlagsParsing: false,
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	err := godotenv.Load()
	if err != nil {
		log.Printf("Unable to load .env file: %v", err)
	}

	values := &Config{}
	applyDefaults(values, defaultConfig)

	if !options.disableFlagsParsing {
		flags := flag.NewFlagSet("userreg", flag.ContinueOnError)
		flags.StringVar(&values.LogLevel, "l", values.LogLevel, "logger level")
		flags.StringVar(&values.DatabaseDSN, "d", values.DatabaseDSN, "A string with the database connection details")
		flags.StringVar(&values.DBFileName, "f", values.DBFileName, "JSON file name with database")
		flags.StringVar(&values.MigrationsDir, "m", values.MigrationsDir, "directory with the goose SQL migrations")
		flags.StringVar(&values.UserID, "u", values.UserID, "ID of the user to register")
		flags.StringVar(&values.UserName, "n", values.UserName, "name of the user to register")
		flags.StringVar(&values.UserPassword, "p", values.UserPassword, "password of the user to register")
		if err := flags.Parse(os.Args[1:]); err != nil {
			return nil, err
		}
	}

	err = env.Parse(values)
	if err != nil {
		return nil, err
	}

	return values, values.validate()
}
