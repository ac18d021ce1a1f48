// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package kv_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vereinskasse/kiosk/internal/platform/kv"
	"github.com/vereinskasse/kiosk/internal/platform/migration"
	"github.com/vereinskasse/kiosk/internal/platform/postgres"
	"github.com/vereinskasse/kiosk/internal/platform/redis"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

/*
exerciseStore runs the behavior every backend must share.
*/
func exerciseStore(t *testing.T, store kv.Store) {
	t.Helper()
	ctx := context.Background()
	key := "auth-storage:test-" + t.Name()

	t.Cleanup(func() { _ = store.Delete(ctx, key) })

	// Absent key
	_, found, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	// Create and replace
	require.NoError(t, store.Set(ctx, key, []byte(`{"v":1}`)))
	require.NoError(t, store.Set(ctx, key, []byte(`{"v":2}`)))

	value, found, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"v":2}`, string(value))

	// Delete is idempotent
	require.NoError(t, store.Delete(ctx, key))
	require.NoError(t, store.Delete(ctx, key))

	_, found, err = store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, kv.NewMemoryStore())
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()

	value := []byte("abc")
	require.NoError(t, store.Set(ctx, "k", value))
	value[0] = 'x'

	stored, _, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(stored))
}

func TestFileStore(t *testing.T) {
	store, err := kv.NewFileStore(filepath.Join(t.TempDir(), "state"))
	require.NoError(t, err)

	exerciseStore(t, store)
}

func TestFileStore_KeysStayInsideDirectory(t *testing.T) {
	dir := t.TempDir()
	store, err := kv.NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set(context.Background(), "../escape/auth-storage:kiosk-1", []byte("{}")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].Name(), "/")
}

func TestFileStore_CancelledContext(t *testing.T) {
	store, err := kv.NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Set(ctx, "k", []byte("v")), context.Canceled)
}

/*
TestRedisStore runs only when TEST_REDIS_URL points at a disposable Redis.
*/
func TestRedisStore(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	client, err := redis.NewClient(context.Background(), url, discard)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	exerciseStore(t, kv.NewRedisStore(client))
}

/*
TestPostgresStore runs only when TEST_DATABASE_URL points at a disposable database.
*/
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	require.NoError(t, migration.RunUp(dsn, "../../../data/migrations", discard))

	pool, err := postgres.NewPool(context.Background(), dsn, discard)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	exerciseStore(t, kv.NewPostgresStore(pool))
}
