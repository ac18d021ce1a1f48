// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

/*
Package members manages club member accounts on the backend.

The [User] type doubles as the session identity: the balance it carries is a
cache of the server's ledger, refreshed on login and adjusted optimistically
after purchases and top-ups.

# Architecture

  - Entities: User, CreateInput, UpdateInput, BalanceAdjustment.
  - Repository: remote REST backend (users and members endpoints).
  - Security: every mutation is admin-only on the backend and in the gateway.
*/
package members

import (
	"context"
	"strings"
	"time"

	"github.com/vereinskasse/kiosk/internal/platform/sec"
	"github.com/vereinskasse/kiosk/pkg/money"
)

// # Domain Entities

// User is a club member as returned by the backend.
type User struct {
	ID        int64       `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Balance   money.Cents `json:"balance"`
	IsActive  bool        `json:"is_active"`
	IsAdmin   bool        `json:"is_admin"`
	RFIDToken *string     `json:"rfid_token,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt *time.Time  `json:"updated_at,omitempty"`
	LastLogin *time.Time  `json:"last_login,omitempty"`
}

// FullName joins first and last name for receipts and the header bar.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Role maps the admin flag to the gateway's role hierarchy.
func (u User) Role() sec.Role {
	return sec.RoleFor(u.IsAdmin)
}

// CreateInput is the admin payload for a new member.
type CreateInput struct {
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Balance   money.Cents `json:"balance"`
	IsActive  bool        `json:"is_active"`
	IsAdmin   bool        `json:"is_admin"`
	RFIDToken *string     `json:"rfid_token,omitempty"`
}

// UpdateInput carries partial member changes. Nil fields are left untouched.
type UpdateInput struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
	IsAdmin   *bool   `json:"is_admin,omitempty"`
	RFIDToken *string `json:"rfid_token,omitempty"`
}

// BalanceAdjustment is a signed manual correction with its reason.
type BalanceAdjustment struct {
	Amount      money.Cents `json:"amount"`
	Description string      `json:"description"`
}

// OverdraftLimit is the lowest balance the backend accepts (the "Dispo").
const OverdraftLimit money.Cents = -1500

// MinPasswordLength mirrors the backend's password rule.
const MinPasswordLength = 6

// # Repository Contracts

// Repository defines the backend contract for member accounts.
type Repository interface {
	/*
		Me retrieves the identity behind a credential.

		Parameters:
		  - ctx: context.Context
		  - token: string (explicit credential, "" uses the session's)

		Returns:
		  - *User: The authenticated member
		  - error: UPSTREAM_ERROR or SESSION_EXPIRED
	*/
	Me(ctx context.Context, token string) (*User, error)

	List(ctx context.Context) ([]User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, input CreateInput) (*User, error)
	Update(ctx context.Context, id int64, input UpdateInput) (*User, error)

	// Delete deactivates the member; the backend keeps the ledger history.
	Delete(ctx context.Context, id int64) error

	AdjustBalance(ctx context.Context, id int64, adjustment BalanceAdjustment) (*User, error)
	ResetPassword(ctx context.Context, id int64, newPassword string) error
}
