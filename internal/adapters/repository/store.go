// Package repository holds the connection handle and the fetch functions over the catalog tables.
package repository

import (
	"context"

	"github.com/okian/tastebase/internal/domain/model"
)

// Row is one result row in column order, values as the driver returned them.
type Row = model.Record

// Executor runs one parameterized statement and returns its rows.
// Parameters are bound positionally and never interpolated into the statement.
type Executor interface {
	ExecuteQuery(ctx context.Context, statement string, params ...any) ([]Row, error)
}
