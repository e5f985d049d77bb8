package repository

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/okian/tastebase/internal/domain/model"
)

// newMemoryStore opens a private in-memory database seeded with f.
func newMemoryStore(t *testing.T, f Fixture) *SQLiteStore {
	t.Helper()
	ctx := context.Background()

	store, err := Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if _, err := store.Seed(ctx, f, false); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return store
}

func mustDefaultFixture(t *testing.T) Fixture {
	t.Helper()
	f, err := DefaultFixture()
	if err != nil {
		t.Fatalf("default fixture: %v", err)
	}
	return f
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open(context.Background(), "  ")
	if !errors.Is(err, ErrOpenStore) {
		t.Fatalf("expected ErrOpenStore, got %v", err)
	}
}

func TestOpen_ReadOnlyMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.sqlite")
	_, err := Open(context.Background(), path, WithReadOnly(true))
	if !errors.Is(err, ErrOpenStore) {
		t.Fatalf("expected ErrOpenStore for missing read-only database, got %v", err)
	}
}

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN("data.sqlite", storeOptions{busyTimeout: defaultBusyTimeout})
	if !strings.HasPrefix(dsn, "file:data.sqlite?") {
		t.Errorf("unexpected dsn prefix: %s", dsn)
	}
	if strings.Contains(dsn, "mode=ro") {
		t.Errorf("writable dsn should not be read-only: %s", dsn)
	}

	dsn = buildDSN("data.sqlite", storeOptions{busyTimeout: defaultBusyTimeout, readOnly: true})
	if !strings.Contains(dsn, "mode=ro") || !strings.Contains(dsn, "query_only") {
		t.Errorf("read-only dsn missing flags: %s", dsn)
	}
}

func TestExecuteQuery_RowsAndBinding(t *testing.T) {
	store := newMemoryStore(t, mustDefaultFixture(t))
	ctx := context.Background()

	rows, err := store.ExecuteQuery(ctx, "SELECT * FROM restaurants WHERE id = ?", int64(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if name, _ := rows[0].Get("name"); name != "Spice Kitchen" {
		t.Errorf("expected name Spice Kitchen, got %#v", name)
	}
	if !reflect.DeepEqual(rows[0].Columns, model.RestaurantColumns) {
		t.Errorf("expected columns in table order, got %v", rows[0].Columns)
	}

	// Bound values are never interpolated.
	rows, err = store.ExecuteQuery(ctx, "SELECT * FROM restaurants WHERE cuisine = ?", "x' OR '1'='1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}

func TestExecuteQuery_EmptyResultIsNotNil(t *testing.T) {
	store := newMemoryStore(t, Fixture{})
	rows, err := store.ExecuteQuery(context.Background(), "SELECT * FROM dishes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Errorf("expected empty non-nil rows, got %#v", rows)
	}
}

func TestExecuteQuery_Failure(t *testing.T) {
	store, err := Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = store.Close() }()

	_, err = store.ExecuteQuery(context.Background(), "SELECT * FROM restaurants")
	if err == nil {
		t.Fatal("expected error for missing table")
	}
	if !errors.Is(err, ErrQuery) {
		t.Errorf("expected ErrQuery, got %v", err)
	}
	var qe *QueryError
	if !errors.As(err, &qe) || qe.Statement != "SELECT * FROM restaurants" {
		t.Errorf("expected QueryError carrying the statement, got %#v", err)
	}
	if !strings.Contains(err.Error(), "no such table") {
		t.Errorf("expected driver text, got %q", err.Error())
	}
}

func TestReadOnlyStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.sqlite")

	rw, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("open writable: %v", err)
	}
	res, err := rw.Seed(ctx, mustDefaultFixture(t), true)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if res.Restaurants == 0 || res.Dishes == 0 {
		t.Fatalf("expected rows to be seeded, got %+v", res)
	}
	_ = rw.Close()

	ro, err := Open(ctx, path, WithReadOnly(true))
	if err != nil {
		t.Fatalf("open read-only: %v", err)
	}
	defer func() { _ = ro.Close() }()

	if !ro.ReadOnly() || ro.Path() != path {
		t.Errorf("unexpected store identity: readOnly=%v path=%s", ro.ReadOnly(), ro.Path())
	}
	if err := ro.Ping(ctx); err != nil {
		t.Errorf("ping: %v", err)
	}

	rows, err := ro.ExecuteQuery(ctx, "SELECT * FROM dishes")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != res.Dishes {
		t.Errorf("expected %d dishes, got %d", res.Dishes, len(rows))
	}

	if _, err := ro.Seed(ctx, Fixture{}, false); !errors.Is(err, ErrReadOnly) {
		t.Errorf("expected ErrReadOnly from Seed, got %v", err)
	}
	if err := ro.CreateSchema(ctx); !errors.Is(err, ErrReadOnly) {
		t.Errorf("expected ErrReadOnly from CreateSchema, got %v", err)
	}
	if _, err := ro.ExecuteQuery(ctx, "DELETE FROM dishes"); err == nil {
		t.Error("expected write through a read-only store to fail")
	}
}

func TestSeed_ResetAndUpsert(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t, mustDefaultFixture(t))

	f := Fixture{Dishes: []model.Dish{{ID: 1, Name: "Only Dish", Price: 1, IsVeg: 1}}}
	if _, err := store.Seed(ctx, f, true); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	rows, err := store.ExecuteQuery(ctx, "SELECT * FROM dishes")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 1 || !reflect.DeepEqual(rows[0], f.Dishes[0].Record()) {
		t.Errorf("expected reset to leave only the new dish, got %#v", rows)
	}

	rows, err = store.ExecuteQuery(ctx, "SELECT * FROM restaurants")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected reset to clear restaurants, got %d rows", len(rows))
	}
}

func TestCreateSchema_Idempotent(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = store.Close() }()

	for i := 0; i < 2; i++ {
		if err := store.CreateSchema(ctx); err != nil {
			t.Fatalf("create schema #%d: %v", i+1, err)
		}
	}
	if store.DB() == nil {
		t.Fatal("expected underlying handle")
	}
}
