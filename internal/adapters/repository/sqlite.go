package repository

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	// Register the pure-Go SQLite driver.
	_ "modernc.org/sqlite"
)

// SQLiteStore is the single connection handle shared by every handler.
type SQLiteStore struct {
	db       *sql.DB
	path     string
	readOnly bool
}

// Open opens the database at path and verifies it is reachable.
// The pool is pinned to one connection; concurrent callers queue on it.
func Open(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: empty database path", ErrOpenStore)
	}

	o := storeOptions{busyTimeout: defaultBusyTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sql.Open("sqlite", buildDSN(path, o))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenStore, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrOpenStore, path, err)
	}

	return &SQLiteStore{db: db, path: path, readOnly: o.readOnly}, nil
}

func buildDSN(path string, o storeOptions) string {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", o.busyTimeout.Milliseconds()))
	if o.readOnly {
		q.Set("mode", "ro")
		q.Add("_pragma", "query_only(1)")
	}
	return "file:" + path + "?" + q.Encode()
}

// ExecuteQuery runs statement with params bound positionally.
func (s *SQLiteStore) ExecuteQuery(ctx context.Context, statement string, params ...any) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, statement, params...)
	if err != nil {
		return nil, &QueryError{Statement: statement, Err: err}
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &QueryError{Statement: statement, Err: err}
	}

	out := make([]Row, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &QueryError{Statement: statement, Err: err}
		}

		for i := range values {
			values[i] = normalize(values[i])
		}
		out = append(out, Row{Columns: cols, Values: values})
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Statement: statement, Err: err}
	}
	return out, nil
}

// normalize converts driver byte slices to strings so rows encode as text.
func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// Ping checks the connection is still usable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Path returns the database path the store was opened with.
func (s *SQLiteStore) Path() string { return s.path }

// ReadOnly reports whether the store rejects writes.
func (s *SQLiteStore) ReadOnly() bool { return s.readOnly }

// DB exposes the underlying handle for schema bootstrap.
func (s *SQLiteStore) DB() *sql.DB { return s.db }

// Close releases the connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
