package repository

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS restaurants (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	cuisine TEXT,
	rating REAL,
	isVeg INTEGER,
	hasOutdoorSeating INTEGER,
	isLuxury INTEGER
)`,
	`CREATE TABLE IF NOT EXISTS dishes (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	price REAL,
	isVeg INTEGER
)`,
}

// SeedResult reports how many rows a seed wrote.
type SeedResult struct {
	Restaurants int
	Dishes      int
}

// Seed creates the tables if needed and upserts the fixture rows in one transaction.
// With reset set, existing rows are removed first.
func (s *SQLiteStore) Seed(ctx context.Context, f Fixture, reset bool) (SeedResult, error) {
	if s.readOnly {
		return SeedResult{}, ErrReadOnly
	}
	if err := f.Validate(); err != nil {
		return SeedResult{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SeedResult{}, fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := createSchema(ctx, tx, reset); err != nil {
		return SeedResult{}, err
	}

	var res SeedResult
	for _, r := range f.Restaurants {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO restaurants (id, name, cuisine, rating, isVeg, hasOutdoorSeating, isLuxury) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.Name, r.Cuisine, r.Rating, r.IsVeg, r.HasOutdoorSeating, r.IsLuxury,
		); err != nil {
			return SeedResult{}, fmt.Errorf("insert restaurant %d: %w", r.ID, err)
		}
		res.Restaurants++
	}
	for _, d := range f.Dishes {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO dishes (id, name, price, isVeg) VALUES (?, ?, ?, ?)`,
			d.ID, d.Name, d.Price, d.IsVeg,
		); err != nil {
			return SeedResult{}, fmt.Errorf("insert dish %d: %w", d.ID, err)
		}
		res.Dishes++
	}

	if err := tx.Commit(); err != nil {
		return SeedResult{}, fmt.Errorf("commit seed: %w", err)
	}
	return res, nil
}

// CreateSchema creates the catalog tables if they do not exist.
func (s *SQLiteStore) CreateSchema(ctx context.Context) error {
	if s.readOnly {
		return ErrReadOnly
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := createSchema(ctx, tx, false); err != nil {
		return err
	}
	return tx.Commit()
}

func createSchema(ctx context.Context, tx *sql.Tx, reset bool) error {
	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	if !reset {
		return nil
	}
	for _, table := range []string{"restaurants", "dishes"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}
