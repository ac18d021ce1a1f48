// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package members_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vereinskasse/kiosk/internal/members"
	"github.com/vereinskasse/kiosk/internal/platform/apperr"
	"github.com/vereinskasse/kiosk/pkg/money"
)

type fakeRepository struct {
	members.Repository
	adjusted  *members.User
	adjustErr error
	calls     int
}

func (f *fakeRepository) AdjustBalance(_ context.Context, id int64, adjustment members.BalanceAdjustment) (*members.User, error) {
	f.calls++
	if f.adjustErr != nil {
		return nil, f.adjustErr
	}
	user := *f.adjusted
	user.ID = id
	return &user, nil
}

func (f *fakeRepository) ResetPassword(context.Context, int64, string) error {
	f.calls++
	return nil
}

type fakeSelf struct {
	current members.User
	updated []members.User
}

func (f *fakeSelf) Identity() (members.User, bool) { return f.current, f.current.ID != 0 }

func (f *fakeSelf) UpdateIdentity(_ context.Context, user members.User) {
	f.updated = append(f.updated, user)
}

func newService(repo members.Repository, self members.Self) *members.Service {
	return members.NewService(repo, self, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

/*
TestAdjustBalance_SyncsLoggedInMember verifies the session cache follows the server.
*/
func TestAdjustBalance_SyncsLoggedInMember(t *testing.T) {
	repo := &fakeRepository{adjusted: &members.User{Balance: money.Cents(1250)}}
	self := &fakeSelf{current: members.User{ID: 4, Balance: money.Cents(1000)}}
	service := newService(repo, self)

	user, err := service.AdjustBalance(context.Background(), 4, members.BalanceAdjustment{
		Amount:      money.Cents(250),
		Description: "Cash at the bar",
	})

	require.NoError(t, err)
	assert.Equal(t, money.Cents(1250), user.Balance)
	require.Len(t, self.updated, 1)
	assert.Equal(t, money.Cents(1250), self.updated[0].Balance)
}

func TestAdjustBalance_OtherMemberLeavesSession(t *testing.T) {
	repo := &fakeRepository{adjusted: &members.User{Balance: money.Cents(-500)}}
	self := &fakeSelf{current: members.User{ID: 1}}
	service := newService(repo, self)

	_, err := service.AdjustBalance(context.Background(), 9, members.BalanceAdjustment{
		Amount:      money.Cents(-500),
		Description: "Correction",
	})

	require.NoError(t, err)
	assert.Empty(t, self.updated)
}

func TestAdjustBalance_Validation(t *testing.T) {
	repo := &fakeRepository{}
	service := newService(repo, nil)

	_, err := service.AdjustBalance(context.Background(), 9, members.BalanceAdjustment{})

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	assert.Len(t, apperr.As(err).Details, 2)
	assert.Zero(t, repo.calls, "invalid input never reaches the backend")
}

func TestAdjustBalance_ServerRejectionPassesThrough(t *testing.T) {
	repo := &fakeRepository{adjustErr: apperr.Upstream(400, "Balance cannot be less than -15.00€ (Dispo limit)", nil)}
	service := newService(repo, nil)

	_, err := service.AdjustBalance(context.Background(), 9, members.BalanceAdjustment{
		Amount:      money.Cents(-5000),
		Description: "Correction",
	})

	require.Error(t, err)
	assert.Equal(t, "Balance cannot be less than -15.00€ (Dispo limit)", apperr.As(err).Message)
	assert.Equal(t, 400, apperr.As(err).HTTPStatus)
}

func TestResetPassword_MinimumLength(t *testing.T) {
	repo := &fakeRepository{}
	service := newService(repo, nil)

	err := service.ResetPassword(context.Background(), 3, "123")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	require.NoError(t, service.ResetPassword(context.Background(), 3, "123456"))
	assert.Equal(t, 1, repo.calls)
}

func TestUser_FullNameAndRole(t *testing.T) {
	user := members.User{FirstName: "Anna", LastName: "Schmidt", IsAdmin: true}

	assert.Equal(t, "Anna Schmidt", user.FullName())
	assert.Equal(t, "admin", string(user.Role()))
}
