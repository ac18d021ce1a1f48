// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/vereinskasse/kiosk/internal/members"
	"github.com/vereinskasse/kiosk/internal/platform/kv"
)

// recordVersion tags the persisted layout.
const recordVersion = 1

// Snapshot is the session as persisted and as seen by observers.
type Snapshot struct {
	State         State         `json:"-"`
	Identity      *members.User `json:"user"`
	AccessToken   string        `json:"access_token"`
	RefreshToken  string        `json:"refresh_token"`
	Authenticated bool          `json:"is_authenticated"`
}

// Valid reports whether the snapshot describes a usable session.
func (s Snapshot) Valid() bool {
	return s.Authenticated && s.AccessToken != "" && s.Identity != nil
}

type record struct {
	State   Snapshot `json:"state"`
	Version int      `json:"version"`
}

// Persist returns an observer that writes stable snapshots under key.
// Anonymous deletes the record; transient states are not written.
func Persist(store kv.Store, key string, logger *slog.Logger) Observer {
	return func(ctx context.Context, snapshot Snapshot) {
		switch snapshot.State {
		case Anonymous:
			if err := store.Delete(ctx, key); err != nil {
				logger.ErrorContext(ctx, "session_persist_failed", slog.String("op", "delete"), slog.Any("error", err))
			}
		case Authenticated:
			payload, err := json.Marshal(record{State: snapshot, Version: recordVersion})
			if err != nil {
				logger.ErrorContext(ctx, "session_persist_failed", slog.String("op", "encode"), slog.Any("error", err))
				return
			}
			if err := store.Set(ctx, key, payload); err != nil {
				logger.ErrorContext(ctx, "session_persist_failed", slog.String("op", "set"), slog.Any("error", err))
			}
		}
	}
}

/*
Restore hydrates target from the record stored under key.

Description: A missing record leaves the store Anonymous. An undecodable or
incomplete record is treated as credential-store corruption: it is deleted
and the store stays Anonymous.

Returns:
  - bool: Whether a session was restored
  - error: Only storage read failures
*/
func Restore(ctx context.Context, store kv.Store, key string, target *Store, logger *slog.Logger) (bool, error) {
	payload, found, err := store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("session_restore_failed: %w", err)
	}
	if !found {
		return false, nil
	}

	var stored record
	if err := json.Unmarshal(payload, &stored); err != nil || !stored.State.Valid() {
		logger.WarnContext(ctx, "session_record_corrupt", slog.String("key", key), slog.Any("error", err))
		if err := store.Delete(ctx, key); err != nil {
			return false, fmt.Errorf("session_restore_cleanup_failed: %w", err)
		}
		target.Hydrate(Snapshot{})
		return false, nil
	}

	target.Hydrate(stored.State)
	logger.InfoContext(ctx, "session_restored", slog.Int64("member_id", stored.State.Identity.ID))
	return true, nil
}
