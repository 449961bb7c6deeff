package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/google/uuid"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/oyvinh/dbhandle/internal/config"
	"github.com/oyvinh/dbhandle/internal/constants"
)

// Handle is a caller-owned database handle. It holds the connection settings
// supplied at construction and opens the underlying connection lazily on
// first use. The connection is cached and reused for the lifetime of the
// handle; settings cannot be changed after construction.
//
// A Handle is safe for concurrent use: lazy initialization is guarded by a
// mutex and the cached *sql.DB is itself safe for concurrent use.
type Handle struct {
	id     string
	cfg    config.DatabaseSettings
	errLog zerolog.Logger

	mu sync.Mutex
	db SQLDatabase
}

// New creates a handle from the given configuration without connecting.
// The connection is established on the first operation. When debug logging
// is enabled, failed statements are appended to the configured log file.
func New(cfg *config.AppConfig) (*Handle, error) {
	h := &Handle{
		id:     uuid.NewString(),
		cfg:    cfg.Database,
		errLog: zerolog.Nop(),
	}

	if cfg.Logging.Debug {
		errLog, err := newErrorLogger(cfg.Logging.QueryLogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create query error log: %w", err)
		}
		h.errLog = errLog.With().
			Str("handle_id", h.id).
			Str("driver", h.driver()).
			Logger()
	}

	return h, nil
}

// NewFromDB wraps an already-established connection. It is the seam used by
// tests and by callers that manage sql.Open themselves. The driver name
// controls placeholder rebinding and defaults to mysql when empty.
func NewFromDB(db SQLDatabase, driver string) *Handle {
	return &Handle{
		id:     uuid.NewString(),
		cfg:    config.DatabaseSettings{Driver: driver},
		errLog: zerolog.Nop(),
		db:     db,
	}
}

// driver returns the configured driver name, defaulting to mysql.
func (h *Handle) driver() string {
	if h.cfg.Driver == "" {
		return constants.DriverMySQL
	}
	return h.cfg.Driver
}

// conn returns the cached connection, establishing it on first call.
// The connection is verified with a ping once, when it is opened; later
// calls return it without revalidation.
func (h *Handle) conn(ctx context.Context) (SQLDatabase, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.db != nil {
		return h.db, nil
	}

	timeout := h.cfg.ConnectTimeout
	if timeout == 0 {
		timeout = constants.DefaultConnectTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	log.Info().
		Str("driver", h.driver()).
		Str("host", h.cfg.Host).
		Int("port", h.cfg.Port).
		Str("database", h.cfg.Name).
		Str("user", h.cfg.User).
		Msg("Connecting to database")

	db, err := sql.Open(h.driver(), h.cfg.ConnectionString())
	if err != nil {
		h.logError("open connection", err)
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(h.cfg.MaxConns)
	db.SetMaxIdleConns(h.cfg.MinConns)
	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	// Verify connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		h.logError("ping database", err)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Msg("Successfully connected to database")

	h.db = db
	return h.db, nil
}

// HealthCheck performs a health check on the database connection.
func (h *Handle) HealthCheck(ctx context.Context) error {
	db, err := h.conn(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DefaultHealthCheckTimeout)
	defer cancel()

	// Run a simple query to verify database functionality
	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database query test failed: %w", err)
	}

	if result != 1 {
		return fmt.Errorf("database returned unexpected result: %d", result)
	}

	return nil
}

// IsConnected reports whether the database answers a trivial SELECT 1.
// It never returns an error: any failure, whether connecting or querying,
// is reported as false.
func (h *Handle) IsConnected(ctx context.Context) bool {
	if err := h.HealthCheck(ctx); err != nil {
		h.logError("SELECT 1", err)
		return false
	}
	return true
}

// Close closes the underlying connection if one was established.
func (h *Handle) Close() {
	if h == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.db != nil {
		log.Info().Str("handle_id", h.id).Msg("Closing database connection")
		if err := h.db.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database connection")
		}
		h.db = nil
	}
}
