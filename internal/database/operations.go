package database

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/oyvinh/dbhandle/internal/constants"
)

// Row represents one result row as a mapping from column name to value.
type Row map[string]interface{}

// Field pairs a column name with a bind value.
type Field struct {
	Column string
	Value  interface{}
}

// Fields is an ordered list of column/value pairs used for insert data,
// update data, and equality conditions. Order is significant: generated SQL
// lists columns, placeholders, and bind values in Fields order, which keeps
// statements reproducible. A plain map cannot guarantee that in Go.
type Fields []Field

// Columns returns the column names in order.
func (f Fields) Columns() []string {
	cols := make([]string, len(f))
	for i, field := range f {
		cols[i] = field.Column
	}
	return cols
}

// Values returns the bind values in order.
func (f Fields) Values() []interface{} {
	values := make([]interface{}, len(f))
	for i, field := range f {
		values[i] = field.Value
	}
	return values
}

// identifierPattern matches identifiers that are safe to interpolate into
// SQL text. Table and column names come from the caller, not from user
// input values, but they are still validated before interpolation so an
// attacker-controlled name cannot smuggle SQL into a statement.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// validateIdentifiers checks the table name and every column name against
// the identifier allow-list.
func validateIdentifiers(table string, columns []string) error {
	if !identifierPattern.MatchString(table) {
		return &QueryError{Err: ErrInvalidIdentifier, Message: fmt.Sprintf("invalid table name %q", table)}
	}
	for _, col := range columns {
		if !identifierPattern.MatchString(col) {
			return &QueryError{Err: ErrInvalidIdentifier, Message: fmt.Sprintf("invalid column name %q", col)}
		}
	}
	return nil
}

// rebind rewrites ? placeholders to ordinal $n placeholders for the
// postgres driver. Question marks inside single-quoted literals are left
// alone. For every other driver the query is returned unchanged.
func rebind(driver, query string) string {
	if driver != constants.DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	inLiteral := false
	for _, r := range query {
		switch {
		case r == '\'':
			inLiteral = !inLiteral
			b.WriteRune(r)
		case r == '?' && !inLiteral:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}

// placeholders returns n comma-joined positional markers.
func placeholders(n int) string {
	marks := make([]string, n)
	for i := range marks {
		marks[i] = "?"
	}
	return strings.Join(marks, ", ")
}

// equalityPredicates returns "col = ?" terms for each column, in order.
func equalityPredicates(columns []string) []string {
	preds := make([]string, len(columns))
	for i, col := range columns {
		preds[i] = fmt.Sprintf("%s = ?", col)
	}
	return preds
}

// Query prepares and executes a parameterized query and returns every
// result row as a column-keyed map, in result order. A query that matches
// nothing returns an empty slice and a nil error; a nil error therefore
// always means the query ran. Placeholders are positional (?); named
// parameters can be passed through with sql.Named where the driver
// supports them.
func (h *Handle) Query(ctx context.Context, query string, args ...interface{}) ([]Row, error) {
	db, err := h.conn(ctx)
	if err != nil {
		return nil, err
	}

	query = rebind(h.driver(), query)

	log.Debug().
		Str("query", query).
		Interface("args", args).
		Msg("Executing query")

	stmt, err := db.PrepareContext(ctx, query)
	if err != nil {
		h.logError(query, err)
		return nil, wrapError("query", query, err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close statement")
		}
	}()

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		h.logError(query, err)
		return nil, wrapError("query", query, err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close rows")
		}
	}()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	result := []Row{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		h.logError(query, err)
		return nil, wrapError("query", query, err)
	}

	return result, nil
}

// Exec executes a mutating statement and returns the number of affected
// rows.
func (h *Handle) Exec(ctx context.Context, query string, args ...interface{}) (int64, error) {
	db, err := h.conn(ctx)
	if err != nil {
		return 0, err
	}

	query = rebind(h.driver(), query)

	log.Debug().
		Str("query", query).
		Interface("args", args).
		Msg("Executing statement")

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		h.logError(query, err)
		return 0, wrapError("exec", query, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error getting rows affected: %w", err)
	}

	return affected, nil
}

// Insert builds and executes INSERT INTO <table> (<cols>) VALUES (<marks>)
// with one placeholder per field, binding values in field order. It returns
// the last insert id on drivers that report one; the postgres driver does
// not, and there Insert returns 0 on success.
func (h *Handle) Insert(ctx context.Context, table string, data Fields) (int64, error) {
	if len(data) == 0 {
		return 0, &QueryError{Err: ErrNoFields, Op: "insert", Message: "insert requires at least one field"}
	}

	columns := data.Columns()
	if err := validateIdentifiers(table, columns); err != nil {
		return 0, err
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(columns, ", "),
		placeholders(len(data)),
	)

	log.Debug().
		Str("query", query).
		Str("table", table).
		Interface("values", data.Values()).
		Msg("Inserting database record")

	db, err := h.conn(ctx)
	if err != nil {
		return 0, err
	}

	result, err := db.ExecContext(ctx, rebind(h.driver(), query), data.Values()...)
	if err != nil {
		h.logError(query, err)
		return 0, wrapError("insert", query, err)
	}

	if h.driver() == constants.DriverPostgres {
		// lib/pq does not implement LastInsertId
		return 0, nil
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}

	return lastID, nil
}

// Read builds and executes SELECT * FROM <table>, appending an equality
// conjunction (WHERE c1 = ? AND c2 = ? ...) when conditions are non-empty.
// Empty conditions return every row in the table.
func (h *Handle) Read(ctx context.Context, table string, conditions Fields) ([]Row, error) {
	if err := validateIdentifiers(table, conditions.Columns()); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT * FROM %s", table)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(equalityPredicates(conditions.Columns()), " AND ")
	}

	return h.Query(ctx, query, conditions.Values()...)
}

// Update builds and executes UPDATE <table> SET c = ?, ... WHERE c = ? AND
// ..., binding data values followed by condition values. Empty conditions
// are rejected with ErrEmptyConditions before any statement is sent: an
// unconditioned update is assumed to be a caller bug, not a request to
// rewrite the whole table.
func (h *Handle) Update(ctx context.Context, table string, data Fields, conditions Fields) (int64, error) {
	if len(data) == 0 {
		return 0, &QueryError{Err: ErrNoFields, Op: "update", Message: "update requires at least one field"}
	}
	if len(conditions) == 0 {
		return 0, &QueryError{Err: ErrEmptyConditions, Op: "update", Message: "update requires at least one condition"}
	}

	if err := validateIdentifiers(table, append(data.Columns(), conditions.Columns()...)); err != nil {
		return 0, err
	}

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s",
		table,
		strings.Join(equalityPredicates(data.Columns()), ", "),
		strings.Join(equalityPredicates(conditions.Columns()), " AND "),
	)

	args := append(data.Values(), conditions.Values()...)
	return h.Exec(ctx, query, args...)
}

// Delete builds and executes DELETE FROM <table> WHERE c = ? AND ....
// Empty conditions are rejected with ErrEmptyConditions, same as Update.
func (h *Handle) Delete(ctx context.Context, table string, conditions Fields) (int64, error) {
	if len(conditions) == 0 {
		return 0, &QueryError{Err: ErrEmptyConditions, Op: "delete", Message: "delete requires at least one condition"}
	}

	if err := validateIdentifiers(table, conditions.Columns()); err != nil {
		return 0, err
	}

	query := fmt.Sprintf(
		"DELETE FROM %s WHERE %s",
		table,
		strings.Join(equalityPredicates(conditions.Columns()), " AND "),
	)

	return h.Exec(ctx, query, conditions.Values()...)
}
