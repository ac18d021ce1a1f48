// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

/*
Package session owns the terminal's authentication lifecycle.

The [Store] holds the access and refresh credentials together with the cached
member identity. It is the [client.TokenSource] of the backend client and the
source of identity for the gateway's authorization middleware.

# Persistence

Every committed transition is handed to the registered observers in commit
order. [Persist] is the observer that writes the snapshot to a [kv.Store] so a
restarted kiosk resumes the session; [Restore] reads it back at startup.

# Balance

The identity's balance is a cache of the server ledger. It is refreshed on
login and on explicit profile refresh, and adjusted optimistically after
purchases and top-ups. Nothing may rely on it for correctness.
*/
package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vereinskasse/kiosk/internal/members"
	"github.com/vereinskasse/kiosk/internal/platform/apperr"
	"github.com/vereinskasse/kiosk/internal/platform/sec"
	"github.com/vereinskasse/kiosk/pkg/money"
)

// Observer receives every committed snapshot.
type Observer func(ctx context.Context, snapshot Snapshot)

// Store is the terminal's session. It is safe for concurrent use.
type Store struct {
	auth   Authenticator
	logger *slog.Logger

	mu           sync.Mutex
	state        State
	identity     *members.User
	accessToken  string
	refreshToken string

	// notifyMu is taken before mu is released so observers see commits in order.
	notifyMu  sync.Mutex
	observers []Observer

	refreshGroup singleflight.Group
}

// NewStore returns an Anonymous [Store].
func NewStore(auth Authenticator, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{auth: auth, logger: logger}
}

// Observe registers an observer. Register observers during wiring, before
// the store is shared.
func (s *Store) Observe(observer Observer) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.observers = append(s.observers, observer)
}

// OnSessionEnd returns an observer that runs every reset when the session is
// logged out or replaced by a new login. Session-scoped state such as the
// member cart registers here so it never carries over to the next member.
func OnSessionEnd(resets ...func()) Observer {
	return func(_ context.Context, snapshot Snapshot) {
		if snapshot.State != Anonymous && snapshot.State != Authenticating {
			return
		}
		for _, reset := range resets {
			reset()
		}
	}
}

// # Login

// Login exchanges a username and password for a session.
func (s *Store) Login(ctx context.Context, identifier, secret string) (members.User, error) {
	return s.authenticate(ctx, "password", func(ctx context.Context) (Tokens, error) {
		return s.auth.Login(ctx, identifier, secret)
	})
}

// LoginWithToken exchanges an RFID token for a session.
func (s *Store) LoginWithToken(ctx context.Context, token string) (members.User, error) {
	return s.authenticate(ctx, "rfid", func(ctx context.Context) (Tokens, error) {
		return s.auth.LoginWithToken(ctx, token)
	})
}

/*
authenticate runs one login attempt.

Description: Moves to Authenticating, exchanges the credential, loads the
identity with the new access credential and commits Authenticated. Any failure
clears the store back to Anonymous. Concurrent logins are not coalesced; the
last one to finish wins.
*/
func (s *Store) authenticate(ctx context.Context, method string, exchange func(context.Context) (Tokens, error)) (members.User, error) {
	s.mu.Lock()
	s.state = Authenticating
	s.identity = nil
	s.accessToken = ""
	s.refreshToken = ""
	s.commit(ctx)

	tokens, err := exchange(ctx)
	if err == nil && tokens.AccessToken == "" {
		err = errors.New("session: backend issued no access token")
	}
	if err != nil {
		s.fail(ctx, method, err)
		return members.User{}, authFailure(err)
	}

	identity, err := s.auth.Identity(ctx, tokens.AccessToken)
	if err != nil {
		s.fail(ctx, method, err)
		return members.User{}, authFailure(err)
	}

	s.mu.Lock()
	s.state = Authenticated
	s.identity = &identity
	s.accessToken = tokens.AccessToken
	s.refreshToken = tokens.RefreshToken
	s.commit(ctx)

	s.logger.InfoContext(ctx, "session_login_succeeded",
		slog.String("method", method),
		slog.Int64("member_id", identity.ID),
	)
	return identity, nil
}

func (s *Store) fail(ctx context.Context, method string, err error) {
	s.logger.WarnContext(ctx, "session_login_failed",
		slog.String("method", method),
		slog.Any("error", err),
	)
	s.clear(ctx)
}

// authFailure classifies rejected credentials as AUTHENTICATION_FAILED and
// passes every other failure through.
func authFailure(err error) error {
	switch apperr.UpstreamStatus(err) {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusUnprocessableEntity:
		message := "Invalid credentials"
		if ae := apperr.As(err); ae != nil && ae.Message != "" {
			message = ae.Message
		}
		return apperr.AuthenticationFailed(message, err)
	}
	if apperr.As(err) == nil {
		return apperr.AuthenticationFailed("Invalid credentials", err)
	}
	return err
}

// # Logout

// Logout clears credentials and identity. Later requests go out
// unauthenticated. The backend has no logout endpoint, so this is local.
func (s *Store) Logout(ctx context.Context) {
	s.clear(ctx)
	s.logger.InfoContext(ctx, "session_logged_out")
}

func (s *Store) clear(ctx context.Context) {
	s.mu.Lock()
	s.clearLocked(ctx)
}

// clearLocked must be called with mu held; commit releases it.
func (s *Store) clearLocked(ctx context.Context) {
	s.state = Anonymous
	s.identity = nil
	s.accessToken = ""
	s.refreshToken = ""
	s.commit(ctx)
}

// # Refresh

/*
Refresh exchanges the refresh credential for a new access credential.

Description: Concurrent callers share one exchange, so a burst of 401s
costs a single round trip instead of one exchange per rejected request. A
missing refresh credential or a rejected exchange logs the session out and
returns SESSION_EXPIRED, unless a logout or a new login replaced the session
while the exchange was in flight; then the store is left as it is. A rotated
refresh credential in the response replaces the stored one.

Returns:
  - string: The new access credential
  - error: apperr SESSION_EXPIRED
*/
func (s *Store) Refresh(ctx context.Context) (string, error) {
	// The shared exchange must survive the first caller going away.
	flightCtx := context.WithoutCancel(ctx)

	result, err, _ := s.refreshGroup.Do("refresh", func() (any, error) {
		return s.refresh(flightCtx)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (s *Store) refresh(ctx context.Context) (string, error) {
	s.mu.Lock()
	refreshToken := s.refreshToken
	if refreshToken == "" {
		s.mu.Unlock()
		s.Logout(ctx)
		return "", apperr.SessionExpired(nil)
	}
	s.state = RefreshPending
	s.commit(ctx)

	tokens, err := s.auth.Refresh(ctx, refreshToken)
	if err == nil && tokens.AccessToken == "" {
		err = errors.New("session: refresh issued no access token")
	}

	s.mu.Lock()

	// A logout or a new login landed while the exchange was in flight.
	superseded := s.state != RefreshPending || s.refreshToken != refreshToken

	if err != nil {
		s.logger.WarnContext(ctx, "session_refresh_failed",
			slog.Any("error", err),
			slog.Bool("superseded", superseded),
		)
		if superseded {
			s.mu.Unlock()
			return "", apperr.SessionExpired(err)
		}
		s.clearLocked(ctx)
		s.logger.InfoContext(ctx, "session_logged_out")
		return "", apperr.SessionExpired(err)
	}

	if superseded {
		current := s.accessToken
		s.mu.Unlock()
		if current == "" {
			return "", apperr.SessionExpired(nil)
		}
		return current, nil
	}

	s.state = Authenticated
	s.accessToken = tokens.AccessToken
	if tokens.RefreshToken != "" {
		s.refreshToken = tokens.RefreshToken
	}
	s.commit(ctx)

	s.logger.DebugContext(ctx, "session_refresh_succeeded")
	return tokens.AccessToken, nil
}

// # Identity

// UpdateIdentity replaces the cached identity without touching
// authentication. It is ignored while anonymous.
func (s *Store) UpdateIdentity(ctx context.Context, identity members.User) {
	s.mu.Lock()
	if s.identity == nil {
		s.mu.Unlock()
		return
	}
	s.identity = &identity
	s.commit(ctx)
}

// AdjustBalance applies delta to the cached balance and returns the result.
// It reports false while no identity is cached.
func (s *Store) AdjustBalance(ctx context.Context, delta money.Cents) (money.Cents, bool) {
	s.mu.Lock()
	if s.identity == nil {
		s.mu.Unlock()
		return money.Zero, false
	}
	updated := *s.identity
	updated.Balance += delta
	s.identity = &updated
	s.commit(ctx)

	return updated.Balance, true
}

// Hydrate installs a restored snapshot without notifying observers.
// Incomplete snapshots leave the store Anonymous.
func (s *Store) Hydrate(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !snapshot.Valid() {
		s.state = Anonymous
		s.identity = nil
		s.accessToken = ""
		s.refreshToken = ""
		return
	}

	identity := *snapshot.Identity
	s.state = Authenticated
	s.identity = &identity
	s.accessToken = snapshot.AccessToken
	s.refreshToken = snapshot.RefreshToken
}

// # Accessors

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsAuthenticated reports whether a session exists, including while its
// access credential is being refreshed.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticatedLocked()
}

// Identity returns a copy of the cached member.
func (s *Store) Identity() (members.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil || !s.authenticatedLocked() {
		return members.User{}, false
	}
	return *s.identity, true
}

// AccessToken implements client.TokenSource.
func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

// AccessTokenExpiry decodes the credential's expiry for display. The value
// is unverified and never used for authorization.
func (s *Store) AccessTokenExpiry() (time.Time, bool) {
	return sec.TokenExpiry(s.AccessToken())
}

// Principal implements middleware.Principal.
func (s *Store) Principal() (int64, sec.Role, bool) {
	identity, ok := s.Identity()
	if !ok {
		return 0, sec.RoleAnonymous, false
	}
	return identity.ID, identity.Role(), true
}

// Snapshot returns the current state as observers would see it.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) authenticatedLocked() bool {
	return s.state == Authenticated || s.state == RefreshPending
}

func (s *Store) snapshotLocked() Snapshot {
	snapshot := Snapshot{
		State:         s.state,
		AccessToken:   s.accessToken,
		RefreshToken:  s.refreshToken,
		Authenticated: s.authenticatedLocked(),
	}
	if s.identity != nil {
		identity := *s.identity
		snapshot.Identity = &identity
	}
	return snapshot
}

// commit must be called with mu held; it releases mu and notifies observers.
func (s *Store) commit(ctx context.Context) {
	snapshot := s.snapshotLocked()
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	for _, observer := range s.observers {
		observer(ctx, snapshot)
	}
}
