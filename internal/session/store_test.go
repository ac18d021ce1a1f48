// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package session_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vereinskasse/kiosk/internal/members"
	"github.com/vereinskasse/kiosk/internal/platform/apperr"
	"github.com/vereinskasse/kiosk/internal/session"
	"github.com/vereinskasse/kiosk/pkg/money"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeAuth scripts the backend exchanges.
type fakeAuth struct {
	loginErr    error
	identityErr error
	refreshErr  error
	refreshed   session.Tokens
	refreshes   atomic.Int32
	gate        chan struct{}
	user        members.User
}

func (f *fakeAuth) Login(_ context.Context, identifier, secret string) (session.Tokens, error) {
	if f.loginErr != nil {
		return session.Tokens{}, f.loginErr
	}
	return session.Tokens{AccessToken: "access-" + identifier, RefreshToken: "refresh-1", TokenType: "bearer"}, nil
}

func (f *fakeAuth) LoginWithToken(_ context.Context, token string) (session.Tokens, error) {
	return f.Login(context.Background(), "rfid", token)
}

func (f *fakeAuth) Refresh(context.Context, string) (session.Tokens, error) {
	f.refreshes.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	if f.refreshErr != nil {
		return session.Tokens{}, f.refreshErr
	}
	return f.refreshed, nil
}

func (f *fakeAuth) Identity(context.Context, string) (members.User, error) {
	if f.identityErr != nil {
		return members.User{}, f.identityErr
	}
	return f.user, nil
}

func anna() members.User {
	return members.User{ID: 4, Username: "anna", FirstName: "Anna", Balance: money.Cents(1000)}
}

func loggedIn(t *testing.T, auth *fakeAuth) *session.Store {
	t.Helper()
	store := session.NewStore(auth, discard)
	_, err := store.Login(context.Background(), "anna", "secret")
	require.NoError(t, err)
	return store
}

/*
TestLogin_Success walks Anonymous -> Authenticating -> Authenticated.
*/
func TestLogin_Success(t *testing.T) {
	auth := &fakeAuth{user: anna()}
	store := session.NewStore(auth, discard)

	var states []session.State
	store.Observe(func(_ context.Context, snapshot session.Snapshot) {
		states = append(states, snapshot.State)
	})

	identity, err := store.Login(context.Background(), "anna", "secret")

	require.NoError(t, err)
	assert.Equal(t, int64(4), identity.ID)
	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, "access-anna", store.AccessToken())
	assert.Equal(t, []session.State{session.Authenticating, session.Authenticated}, states)

	memberID, role, ok := store.Principal()
	assert.True(t, ok)
	assert.Equal(t, int64(4), memberID)
	assert.Equal(t, "member", string(role))
}

/*
TestLogin_RejectedCredentials leaves the store Anonymous with AUTHENTICATION_FAILED.
*/
func TestLogin_RejectedCredentials(t *testing.T) {
	auth := &fakeAuth{loginErr: apperr.Upstream(401, "Incorrect username or password", nil)}
	store := session.NewStore(auth, discard)

	_, err := store.Login(context.Background(), "anna", "wrong")

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeAuthenticationFailed))
	assert.Equal(t, "Incorrect username or password", err.Error())
	assert.Equal(t, session.Anonymous, store.State())
	assert.False(t, store.IsAuthenticated())
}

func TestLogin_IdentityFailureClearsTokens(t *testing.T) {
	auth := &fakeAuth{identityErr: apperr.Upstream(0, "", errors.New("connection refused"))}
	store := session.NewStore(auth, discard)

	_, err := store.LoginWithToken(context.Background(), "04A2B3C4D5")

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeUpstream), "transport failures pass through")
	assert.Empty(t, store.AccessToken())
	assert.Equal(t, session.Anonymous, store.State())
}

func TestLogout(t *testing.T) {
	store := loggedIn(t, &fakeAuth{user: anna()})

	store.Logout(context.Background())

	assert.False(t, store.IsAuthenticated())
	assert.Empty(t, store.AccessToken())
	_, ok := store.Identity()
	assert.False(t, ok)
}

/*
TestRefresh_RotatesCredentials keeps the session and replaces both tokens.
*/
func TestRefresh_RotatesCredentials(t *testing.T) {
	auth := &fakeAuth{user: anna(), refreshed: session.Tokens{AccessToken: "access-2", RefreshToken: "refresh-2"}}
	store := loggedIn(t, auth)

	token, err := store.Refresh(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "access-2", token)
	assert.Equal(t, "access-2", store.AccessToken())
	assert.Equal(t, "refresh-2", store.Snapshot().RefreshToken)
	assert.Equal(t, session.Authenticated, store.State())
}

func TestRefresh_KeepsRefreshTokenWhenNotRotated(t *testing.T) {
	auth := &fakeAuth{user: anna(), refreshed: session.Tokens{AccessToken: "access-2"}}
	store := loggedIn(t, auth)

	_, err := store.Refresh(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "refresh-1", store.Snapshot().RefreshToken)
}

/*
TestRefresh_FailureLogsOut covers the terminal refresh path.
*/
func TestRefresh_FailureLogsOut(t *testing.T) {
	auth := &fakeAuth{user: anna(), refreshErr: apperr.Upstream(401, "Invalid refresh token", nil)}
	store := loggedIn(t, auth)

	_, err := store.Refresh(context.Background())

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeSessionExpired))
	assert.False(t, store.IsAuthenticated())
	_, ok := store.Identity()
	assert.False(t, ok, "identity cleared")
}

func TestRefresh_WithoutRefreshToken(t *testing.T) {
	auth := &fakeAuth{}
	store := session.NewStore(auth, discard)

	_, err := store.Refresh(context.Background())

	assert.True(t, apperr.HasCode(err, apperr.CodeSessionExpired))
	assert.Zero(t, auth.refreshes.Load())
}

/*
TestRefresh_ConcurrentCallersShareOneExchange documents the coalescing decision.
*/
func TestRefresh_ConcurrentCallersShareOneExchange(t *testing.T) {
	auth := &fakeAuth{user: anna(), refreshed: session.Tokens{AccessToken: "access-2"}, gate: make(chan struct{})}
	store := loggedIn(t, auth)

	const callers = 5
	var wg sync.WaitGroup
	tokens := make([]string, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tokens[i], _ = store.Refresh(context.Background())
		}()
	}

	// Let every caller join the flight before it completes.
	require.Eventually(t, func() bool { return auth.refreshes.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(auth.gate)
	wg.Wait()

	assert.Equal(t, int32(1), auth.refreshes.Load())
	for _, token := range tokens {
		assert.Equal(t, "access-2", token)
	}
}

func TestRefresh_LogoutDuringExchangeWins(t *testing.T) {
	auth := &fakeAuth{user: anna(), refreshed: session.Tokens{AccessToken: "access-2"}, gate: make(chan struct{})}
	store := loggedIn(t, auth)

	done := make(chan error, 1)
	go func() {
		_, err := store.Refresh(context.Background())
		done <- err
	}()

	require.Eventually(t, func() bool { return store.State() == session.RefreshPending }, time.Second, time.Millisecond)
	store.Logout(context.Background())
	close(auth.gate)

	assert.True(t, apperr.HasCode(<-done, apperr.CodeSessionExpired))
	assert.False(t, store.IsAuthenticated(), "a late refresh never resurrects the session")
}

func TestRefresh_LateFailureKeepsNewerSession(t *testing.T) {
	auth := &fakeAuth{user: anna(), refreshErr: apperr.Upstream(401, "Invalid refresh token", nil), gate: make(chan struct{})}
	store := loggedIn(t, auth)

	done := make(chan error, 1)
	go func() {
		_, err := store.Refresh(context.Background())
		done <- err
	}()

	require.Eventually(t, func() bool { return store.State() == session.RefreshPending }, time.Second, time.Millisecond)
	store.Logout(context.Background())
	_, err := store.Login(context.Background(), "bert", "secret")
	require.NoError(t, err)

	close(auth.gate)

	assert.True(t, apperr.HasCode(<-done, apperr.CodeSessionExpired))
	assert.Equal(t, session.Authenticated, store.State())
	assert.Equal(t, "access-bert", store.AccessToken())
}

/*
TestOnSessionEnd tests that resets run on logout and when a new login starts,
and not on refreshes or balance updates.
*/
func TestOnSessionEnd(t *testing.T) {
	auth := &fakeAuth{user: anna(), refreshed: session.Tokens{AccessToken: "access-2"}}
	store := session.NewStore(auth, discard)

	var resets int
	store.Observe(session.OnSessionEnd(func() { resets++ }))

	_, err := store.Login(context.Background(), "anna", "secret")
	require.NoError(t, err)
	assert.Equal(t, 1, resets, "login starts from a clean slate")

	_, err = store.Refresh(context.Background())
	require.NoError(t, err)
	store.AdjustBalance(context.Background(), money.Cents(-250))
	assert.Equal(t, 1, resets)

	store.Logout(context.Background())
	assert.Equal(t, 2, resets)
}

func TestAdjustBalance(t *testing.T) {
	store := loggedIn(t, &fakeAuth{user: anna()})

	balance, ok := store.AdjustBalance(context.Background(), money.Cents(-600))

	assert.True(t, ok)
	assert.Equal(t, money.Cents(400), balance)
	identity, _ := store.Identity()
	assert.Equal(t, money.Cents(400), identity.Balance)

	store.Logout(context.Background())
	_, ok = store.AdjustBalance(context.Background(), money.Cents(100))
	assert.False(t, ok)
}

func TestUpdateIdentity_KeepsAuthentication(t *testing.T) {
	store := loggedIn(t, &fakeAuth{user: anna()})

	updated := anna()
	updated.Balance = money.Cents(2500)
	store.UpdateIdentity(context.Background(), updated)

	identity, ok := store.Identity()
	assert.True(t, ok)
	assert.Equal(t, money.Cents(2500), identity.Balance)
	assert.Equal(t, "access-anna", store.AccessToken())
}

func TestUpdateIdentity_IgnoredWhenAnonymous(t *testing.T) {
	store := session.NewStore(&fakeAuth{}, discard)

	store.UpdateIdentity(context.Background(), anna())

	_, ok := store.Identity()
	assert.False(t, ok)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "anonymous", session.Anonymous.String())
	assert.Equal(t, "refresh_pending", session.RefreshPending.String())
	assert.True(t, session.Authenticated.Stable())
	assert.False(t, session.Authenticating.Stable())
}
