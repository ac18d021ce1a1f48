// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package members

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vereinskasse/kiosk/internal/platform/validate"
	"github.com/vereinskasse/kiosk/pkg/pointer"
)

// Self exposes the identity logged in on this terminal, so changes to that
// member are mirrored into the session cache.
type Self interface {
	Identity() (User, bool)
	UpdateIdentity(ctx context.Context, user User)
}

// # Service Layer

// Service validates member operations before they reach the backend.
type Service struct {
	repository Repository
	self       Self
	logger     *slog.Logger
}

// NewService constructs a new [Service]. self may be nil.
func NewService(repository Repository, self Self, logger *slog.Logger) *Service {
	return &Service{repository: repository, self: self, logger: logger}
}

// # Identity

// Me fetches the identity of the current session.
func (service *Service) Me(ctx context.Context) (*User, error) {
	user, err := service.repository.Me(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("members_service_me_failed: %w", err)
	}
	return user, nil
}

// MeWithToken fetches the identity behind a credential that is not yet
// committed to the session. Used by login.
func (service *Service) MeWithToken(ctx context.Context, token string) (*User, error) {
	user, err := service.repository.Me(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("members_service_me_failed: %w", err)
	}
	return user, nil
}

// # Administration

func (service *Service) List(ctx context.Context) ([]User, error) {
	users, err := service.repository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("members_service_list_failed: %w", err)
	}
	return users, nil
}

func (service *Service) Get(ctx context.Context, id int64) (*User, error) {
	user, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("members_service_get_failed: %w", err)
	}
	return user, nil
}

/*
Create registers a new member.

Parameters:
  - ctx: context.Context
  - input: CreateInput

Returns:
  - *User: The created member
  - error: VALIDATION_ERROR or backend failures
*/
func (service *Service) Create(ctx context.Context, input CreateInput) (*User, error) {
	v := &validate.Validator{}
	v.Required("username", input.Username).
		MinLen("username", input.Username, 3).
		MaxLen("username", input.Username, 50).
		Email("email", input.Email).
		Required("first_name", input.FirstName).
		Required("last_name", input.LastName).
		MinLen("password", input.Password, MinPasswordLength)
	if token := pointer.Val(input.RFIDToken); token != "" {
		v.MinLen("rfid_token", token, 8)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	user, err := service.repository.Create(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("members_service_create_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "member_created",
		slog.Int64("member_id", user.ID),
		slog.String("username", user.Username),
	)
	return user, nil
}

// Update applies partial changes and mirrors them into the session when the
// logged-in member edited their own record.
func (service *Service) Update(ctx context.Context, id int64, input UpdateInput) (*User, error) {
	v := &validate.Validator{}
	if input.Email != nil {
		v.Email("email", *input.Email)
	}
	if input.FirstName != nil {
		v.Required("first_name", *input.FirstName)
	}
	if input.LastName != nil {
		v.Required("last_name", *input.LastName)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	user, err := service.repository.Update(ctx, id, input)
	if err != nil {
		return nil, fmt.Errorf("members_service_update_failed: %w", err)
	}

	service.syncSelf(ctx, *user)
	return user, nil
}

func (service *Service) Delete(ctx context.Context, id int64) error {
	if err := service.repository.Delete(ctx, id); err != nil {
		return fmt.Errorf("members_service_delete_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "member_deactivated", slog.Int64("member_id", id))
	return nil
}

/*
AdjustBalance books a signed manual correction.

Description: The backend records an admin_adjustment transaction and rejects
results below [OverdraftLimit]. When the adjusted member is the one logged in,
the session's cached balance is replaced with the server's value.

Parameters:
  - ctx: context.Context
  - id: int64
  - adjustment: BalanceAdjustment

Returns:
  - *User: The member with the new balance
  - error: VALIDATION_ERROR or backend failures
*/
func (service *Service) AdjustBalance(ctx context.Context, id int64, adjustment BalanceAdjustment) (*User, error) {
	v := &validate.Validator{}
	v.NonZeroAmount("amount", adjustment.Amount).
		Required("description", adjustment.Description).
		MaxLen("description", adjustment.Description, 255)
	if err := v.Err(); err != nil {
		return nil, err
	}

	user, err := service.repository.AdjustBalance(ctx, id, adjustment)
	if err != nil {
		return nil, fmt.Errorf("members_service_adjust_balance_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "member_balance_adjusted",
		slog.Int64("member_id", id),
		slog.String("amount", adjustment.Amount.String()),
		slog.String("balance", user.Balance.String()),
	)

	service.syncSelf(ctx, *user)
	return user, nil
}

func (service *Service) ResetPassword(ctx context.Context, id int64, newPassword string) error {
	v := &validate.Validator{}
	if err := v.MinLen("new_password", newPassword, MinPasswordLength).Err(); err != nil {
		return err
	}

	if err := service.repository.ResetPassword(ctx, id, newPassword); err != nil {
		return fmt.Errorf("members_service_reset_password_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "member_password_reset", slog.Int64("member_id", id))
	return nil
}

// syncSelf refreshes the cached identity if user is the logged-in member.
func (service *Service) syncSelf(ctx context.Context, user User) {
	if service.self == nil {
		return
	}
	if current, ok := service.self.Identity(); ok && current.ID == user.ID {
		service.self.UpdateIdentity(ctx, user)
	}
}
