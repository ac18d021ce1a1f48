// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vereinskasse/kiosk/internal/platform/kv"
	"github.com/vereinskasse/kiosk/internal/session"
	"github.com/vereinskasse/kiosk/pkg/money"
)

const key = "auth-storage:kiosk-1"

/*
TestPersist_WriteThroughAndRestore survives a simulated restart.
*/
func TestPersist_WriteThroughAndRestore(t *testing.T) {
	ctx := context.Background()
	storage := kv.NewMemoryStore()

	auth := &fakeAuth{user: anna()}
	first := session.NewStore(auth, discard)
	first.Observe(session.Persist(storage, key, discard))

	_, err := first.Login(ctx, "anna", "secret")
	require.NoError(t, err)
	first.AdjustBalance(ctx, money.Cents(-250))

	// New process
	second := session.NewStore(auth, discard)
	restored, err := session.Restore(ctx, storage, key, second, discard)

	require.NoError(t, err)
	assert.True(t, restored)
	assert.True(t, second.IsAuthenticated())
	assert.Equal(t, "access-anna", second.AccessToken())
	identity, _ := second.Identity()
	assert.Equal(t, money.Cents(750), identity.Balance)
}

func TestPersist_LogoutDeletesRecord(t *testing.T) {
	ctx := context.Background()
	storage := kv.NewMemoryStore()

	store := session.NewStore(&fakeAuth{user: anna()}, discard)
	store.Observe(session.Persist(storage, key, discard))

	_, err := store.Login(ctx, "anna", "secret")
	require.NoError(t, err)

	_, found, _ := storage.Get(ctx, key)
	require.True(t, found)

	store.Logout(ctx)

	_, found, _ = storage.Get(ctx, key)
	assert.False(t, found)
}

func TestRestore_Missing(t *testing.T) {
	store := session.NewStore(&fakeAuth{}, discard)

	restored, err := session.Restore(context.Background(), kv.NewMemoryStore(), key, store, discard)

	require.NoError(t, err)
	assert.False(t, restored)
	assert.Equal(t, session.Anonymous, store.State())
}

/*
TestRestore_CorruptRecord deletes undecodable or incomplete records.
*/
func TestRestore_CorruptRecord(t *testing.T) {
	records := map[string]string{
		"garbage":       `{not json`,
		"no_token":      `{"state":{"user":{"id":4},"access_token":"","is_authenticated":true},"version":1}`,
		"no_identity":   `{"state":{"access_token":"a","is_authenticated":true},"version":1}`,
		"not_logged_in": `{"state":{"user":{"id":4},"access_token":"a","is_authenticated":false},"version":1}`,
	}

	for name, payload := range records {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			storage := kv.NewMemoryStore()
			require.NoError(t, storage.Set(ctx, key, []byte(payload)))

			store := session.NewStore(&fakeAuth{}, discard)
			restored, err := session.Restore(ctx, storage, key, store, discard)

			require.NoError(t, err)
			assert.False(t, restored)
			assert.False(t, store.IsAuthenticated())

			_, found, _ := storage.Get(ctx, key)
			assert.False(t, found, "corrupt record removed")
		})
	}
}
