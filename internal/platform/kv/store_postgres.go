// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vereinskasse/kiosk/internal/platform/database/schema"
)

// Querier is the subset of pgxpool.Pool used by [PostgresStore].
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps values in the kiosk_state table.
type PostgresStore struct {
	db Querier
}

// NewPostgresStore wraps a pool whose schema has been migrated.
func NewPostgresStore(db Querier) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	t := schema.KioskState
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, t.Value, t.Table, t.Key)

	var value []byte
	err := s.db.QueryRow(ctx, query, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("kv: postgres get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	t := schema.KioskState
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, now())
		ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s, %s = now()`,
		t.Table, t.Key, t.Value, t.UpdatedAt,
		t.Key, t.Value, t.Value, t.UpdatedAt,
	)

	if _, err := s.db.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("kv: postgres set %q: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	t := schema.KioskState
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.Table, t.Key)

	if _, err := s.db.Exec(ctx, query, key); err != nil {
		return fmt.Errorf("kv: postgres delete %q: %w", key, err)
	}
	return nil
}
