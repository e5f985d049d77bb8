package repository

import "time"

const defaultBusyTimeout = 5 * time.Second

type storeOptions struct {
	readOnly    bool
	busyTimeout time.Duration
}

// Option applies a configuration option to the SQLiteStore.
type Option func(*storeOptions)

// WithReadOnly opens the database in read-only, query-only mode.
func WithReadOnly(readOnly bool) Option {
	return func(o *storeOptions) {
		o.readOnly = readOnly
	}
}

// WithBusyTimeout sets how long SQLite waits on a locked database.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *storeOptions) {
		if d > 0 {
			o.busyTimeout = d
		}
	}
}

// CatalogOption applies a configuration option to the Catalog.
type CatalogOption func(*Catalog)

// WithLegacyDishFilter makes DishesByFilter read the restaurants table,
// reproducing the behavior of earlier deployments.
func WithLegacyDishFilter(enabled bool) CatalogOption {
	return func(c *Catalog) {
		c.legacyDishFilter = enabled
	}
}
