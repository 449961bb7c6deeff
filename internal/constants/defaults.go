// Package constants provides shared constant values used throughout the library.
//
// The defaults.go file defines default values and limits applied when the
// configuration does not specify them. These constants provide sensible
// defaults for connection settings, pool sizing, and diagnostic logging.
package constants

import "time"

// Default Connection Values define fallback settings for database connections.
// These constants are applied by the configuration loader when a value is
// missing from both the config file and the environment.
const (
	// DefaultDBHost is the default database host when not specified.
	DefaultDBHost = "localhost"

	// DefaultMySQLPort is the default port for MySQL/MariaDB servers.
	DefaultMySQLPort = 3306

	// DefaultPostgresPort is the default port for PostgreSQL servers.
	DefaultPostgresPort = 5432

	// DefaultDBMaxConnections is the default maximum number of open connections.
	DefaultDBMaxConnections = 20

	// DefaultDBMinConnections is the default number of idle connections to keep.
	DefaultDBMinConnections = 5

	// DefaultConnectTimeout is the default timeout for establishing and
	// verifying the initial connection.
	DefaultConnectTimeout = 10 * time.Second

	// DefaultHealthCheckTimeout is the timeout applied to liveness probes.
	DefaultHealthCheckTimeout = 5 * time.Second
)

// Default Logging Values define fallback settings for diagnostic output.
const (
	// DefaultLogLevel is the default logging verbosity level.
	DefaultLogLevel = "info"

	// DefaultQueryLogPath is the default file that failed statements are
	// appended to when debug logging is enabled.
	DefaultQueryLogPath = "logs/db_errors.log"
)

// Environment Types define the recognized running environments.
const (
	// EnvDevelopment identifies a development environment with debugging features enabled.
	EnvDevelopment = "development"

	// EnvTesting identifies a testing environment for automated tests.
	EnvTesting = "testing"

	// EnvProduction identifies a production environment with optimized settings.
	EnvProduction = "production"
)

// Log Output Values define markers used when logging configuration.
const (
	// LogRedactedValue replaces sensitive values such as passwords in log output.
	LogRedactedValue = "[REDACTED]"
)
