// Package constants provides shared constant values used throughout the library.
//
// The database_const.go file defines constants related to database drivers
// and server-side error codes. Using these constants instead of string or
// numeric literals ensures consistent driver selection and error
// classification throughout the library.
package constants

// Driver Names define the supported database/sql driver identifiers.
// These values are passed verbatim to sql.Open.
const (
	// DriverMySQL is the driver name for MySQL/MariaDB-compatible servers.
	DriverMySQL = "mysql"

	// DriverPostgres is the driver name for PostgreSQL servers.
	DriverPostgres = "postgres"
)

// MySQL Error Codes define the server error numbers the library classifies.
// See https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
const (
	// MySQLErrDuplicateEntry is raised on unique key violations.
	MySQLErrDuplicateEntry = 1062

	// MySQLErrNoReferencedRow is raised on foreign key violations.
	MySQLErrNoReferencedRow = 1452

	// MySQLErrBadNullColumn is raised when a NOT NULL column receives NULL.
	MySQLErrBadNullColumn = 1048

	// MySQLErrNoSuchTable is raised when the referenced table does not exist.
	MySQLErrNoSuchTable = 1146
)

// PostgreSQL Error Codes define the SQLSTATE classes the library classifies.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	// PGErrUniqueViolation is the SQLSTATE for unique constraint violations.
	PGErrUniqueViolation = "23505"

	// PGErrForeignKeyViolation is the SQLSTATE for foreign key violations.
	PGErrForeignKeyViolation = "23503"

	// PGErrNotNullViolation is the SQLSTATE for NOT NULL violations.
	PGErrNotNullViolation = "23502"

	// PGErrUndefinedTable is the SQLSTATE for references to missing tables.
	PGErrUndefinedTable = "42P01"
)

// PostgreSQL connection string parameters appended to generated DSNs.
const (
	// PostgresSSLDisable disables TLS for local development connections.
	PostgresSSLDisable = "sslmode=disable"
)
