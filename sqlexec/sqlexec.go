package sqlexec

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/jonwraymond/sqlanalytics/resource"
)

// ErrExecution marks a database-level failure.
var ErrExecution = errors.New("sql execution failed")

// Executor runs queries against one SQLite database.
type Executor struct {
	db  *sql.DB
	dsn string
}

// Open opens (or creates) a SQLite database. Use ":memory:" for an
// in-memory database.
func Open(dsn string) (*Executor, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", dsn, err)
	}
	return &Executor{db: db, dsn: dsn}, nil
}

// DSN returns the connection string the executor was opened with.
func (e *Executor) DSN() string { return e.dsn }

// Close shuts down the underlying pool.
func (e *Executor) Close() error { return e.db.Close() }

// Exec runs a statement that returns no rows (DDL, INSERT, ...).
func (e *Executor) Exec(ctx context.Context, sqlText string, args ...any) error {
	if _, err := e.db.ExecContext(ctx, sqlText, args...); err != nil {
		return fmt.Errorf("%w: %v", ErrExecution, err)
	}
	return nil
}

// Execute runs a row-returning query and snapshots the result set as a
// table payload: column order preserved, rows as column→value maps.
func (e *Executor) Execute(ctx context.Context, sqlText string) (*resource.TablePayload, error) {
	rows, err := e.db.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExecution, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExecution, err)
	}

	payload := &resource.TablePayload{
		SQLQuery: sqlText,
		Columns:  columns,
		Rows:     make([]map[string]any, 0),
	}

	values := make([]any, len(columns))
	scan := make([]any, len(columns))
	for i := range values {
		scan[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExecution, err)
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = normalizeValue(values[i])
		}
		payload.Rows = append(payload.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExecution, err)
	}

	payload.RowCount = len(payload.Rows)
	return payload, nil
}

// normalizeValue makes scanned values JSON-friendly. The sqlite driver
// hands TEXT back as []byte under interface scanning.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
