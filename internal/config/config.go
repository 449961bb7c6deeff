package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/oyvinh/dbhandle/internal/constants"
)

// AppConfig represents the entire configuration for the database helper.
type AppConfig struct {
	App      AppSettings      `yaml:"app"`
	Database DatabaseSettings `yaml:"database"`
	Logging  LoggingSettings  `yaml:"logging"`
}

// AppSettings contains general application settings.
type AppSettings struct {
	Environment string `yaml:"environment" env:"APP_ENV"`
	Name        string `yaml:"name" env:"APP_NAME"`
}

// DatabaseSettings contains database connection settings.
type DatabaseSettings struct {
	Driver         string        `yaml:"driver" env:"DB_DRIVER" validate:"omitempty,oneof=mysql postgres"`
	Host           string        `yaml:"host" env:"DB_HOST"`
	Port           int           `yaml:"port" env:"DB_PORT" validate:"omitempty,min=1,max=65535"`
	Name           string        `yaml:"name" env:"DB_NAME" validate:"required"`
	User           string        `yaml:"user" env:"DB_USER" validate:"required"`
	Password       string        `yaml:"password" env:"DB_PASSWORD"`
	MaxConns       int           `yaml:"max_conns" env:"DB_MAX_CONNS" validate:"omitempty,min=1"`
	MinConns       int           `yaml:"min_conns" env:"DB_MIN_CONNS" validate:"omitempty,min=0"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"DB_CONNECT_TIMEOUT"`
}

// LoggingSettings contains diagnostic logging configuration.
type LoggingSettings struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
	// Debug enables append-only logging of failed statements.
	Debug        bool   `yaml:"debug" env:"DB_DEBUG"`
	QueryLogPath string `yaml:"query_log_path" env:"DB_QUERY_LOG_PATH"`
}

// ConnectionString returns the database/sql DSN for the configured driver.
func (dbs *DatabaseSettings) ConnectionString() string {
	switch dbs.Driver {
	case constants.DriverPostgres:
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s %s",
			dbs.Host, dbs.Port, dbs.User, dbs.Password, dbs.Name,
			constants.PostgresSSLDisable,
		)
	default:
		// MariaDB/MySQL connection string format: username:password@tcp(host:port)/dbname
		password := dbs.Password
		if password != "" {
			password = ":" + password
		}

		return fmt.Sprintf(
			"%s%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&collation=utf8mb4_unicode_ci",
			dbs.User, password, dbs.Host, dbs.Port, dbs.Name,
		)
	}
}

// IsDevelopment checks if the application is running in development mode
func (as *AppSettings) IsDevelopment() bool {
	return strings.ToLower(as.Environment) == constants.EnvDevelopment
}

// IsProduction checks if the application is running in production mode
func (as *AppSettings) IsProduction() bool {
	return strings.ToLower(as.Environment) == constants.EnvProduction
}

// Load loads the configuration from a config file and environment variables.
// Values from the environment override values from the file; defaults fill
// anything still missing. The file is optional.
func Load(configPath string) (*AppConfig, error) {
	config := &AppConfig{}

	// Load configuration from file if it exists
	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	// Override with environment variables
	if err := LoadEnv(config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	// Set defaults for missing values
	setDefaults(config)

	// Validate the configuration
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Log the configuration (but hide sensitive values)
	logConfig(config)

	return config, nil
}

// setDefaults sets default values for any missing configuration
func setDefaults(config *AppConfig) {
	if config.App.Environment == "" {
		config.App.Environment = constants.EnvDevelopment
	}

	if config.Database.Driver == "" {
		config.Database.Driver = constants.DriverMySQL
	}
	if config.Database.Host == "" {
		config.Database.Host = constants.DefaultDBHost
	}
	if config.Database.Port == 0 {
		switch config.Database.Driver {
		case constants.DriverPostgres:
			config.Database.Port = constants.DefaultPostgresPort
		default:
			config.Database.Port = constants.DefaultMySQLPort
		}
	}
	if config.Database.MaxConns == 0 {
		config.Database.MaxConns = constants.DefaultDBMaxConnections
	}
	if config.Database.MinConns == 0 {
		config.Database.MinConns = constants.DefaultDBMinConnections
	}
	if config.Database.ConnectTimeout == 0 {
		config.Database.ConnectTimeout = constants.DefaultConnectTimeout
	}

	if config.Logging.Level == "" {
		config.Logging.Level = constants.DefaultLogLevel
	}
	if config.Logging.QueryLogPath == "" {
		config.Logging.QueryLogPath = constants.DefaultQueryLogPath
	}
}

// validateConfig validates that the configuration has all required values
func validateConfig(config *AppConfig) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(config); err != nil {
		return err
	}

	// Validate environment
	env := strings.ToLower(config.App.Environment)
	if env != constants.EnvDevelopment && env != constants.EnvTesting && env != constants.EnvProduction {
		// Instead of failing, use a default and warn
		log.Warn().Str("environment", config.App.Environment).Msg("Invalid environment, defaulting to development")
		config.App.Environment = constants.EnvDevelopment
	}

	// Validate log level
	logLevel := strings.ToLower(config.Logging.Level)
	validLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	validLevel := false
	for _, level := range validLevels {
		if logLevel == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}

// logConfig logs the current configuration, masking sensitive values
func logConfig(config *AppConfig) {
	// Create a copy of the config to mask sensitive values
	logCfg := *config

	if logCfg.Database.Password != "" {
		logCfg.Database.Password = constants.LogRedactedValue
	}

	log.Info().
		Str("environment", logCfg.App.Environment).
		Str("driver", logCfg.Database.Driver).
		Str("db_host", logCfg.Database.Host).
		Int("db_port", logCfg.Database.Port).
		Str("db_name", logCfg.Database.Name).
		Str("log_level", logCfg.Logging.Level).
		Bool("debug", logCfg.Logging.Debug).
		Msg("Configuration loaded")
}
