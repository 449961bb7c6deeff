package database

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// newErrorLogger creates a zerolog logger that appends to the query error
// log file, creating the parent directory if needed. The file is opened in
// append mode so entries from earlier runs are preserved.
func newErrorLogger(path string) (zerolog.Logger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return zerolog.Nop(), err
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop(), err
	}

	return zerolog.New(f).With().Timestamp().Logger(), nil
}

// logError records a failed operation in the query error log. With debug
// logging disabled the handle's logger is a no-op and nothing is written.
func (h *Handle) logError(query string, err error) {
	h.errLog.Error().
		Err(err).
		Str("query", query).
		Msg("Database operation failed")
}
