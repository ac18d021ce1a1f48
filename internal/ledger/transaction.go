// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

/*
Package ledger wraps the backend's transaction ledger.

Every movement of money (purchase, top-up, transfer, admin correction) is a
Transaction on the server. The server decides the resulting balance; clients
only mirror it.
*/
package ledger

import (
	"context"
	"time"

	"github.com/vereinskasse/kiosk/pkg/money"
)

// # Enumerations

type Type string

const (
	TypeTopUp           Type = "top_up"
	TypeTransfer        Type = "transfer"
	TypePurchase        Type = "purchase"
	TypeAdminAdjustment Type = "admin_adjustment"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusSuccessful Status = "successful"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// PaymentMethod names how a transaction is settled.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCloudAPI PaymentMethod = "cloud_api"
	PaymentLink     PaymentMethod = "payment_link"
	PaymentBalance  PaymentMethod = "balance"
	PaymentTransfer PaymentMethod = "transfer"
)

// DefaultTopUpMethod is the card terminal flow used when none is chosen.
const DefaultTopUpMethod = PaymentCloudAPI

// PaymentMethods lists every method the backend accepts for a transaction.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentCloudAPI, PaymentLink, PaymentBalance, PaymentTransfer}

// TopUpMethods lists the card terminal flows a member can top up with.
var TopUpMethods = []PaymentMethod{PaymentCloudAPI, PaymentLink}

// # Domain Models

// Transaction is a server-side ledger entry.
type Transaction struct {
	ID                   int64          `json:"id"`
	Reference            string         `json:"transaction_reference"`
	UserID               *int64         `json:"user_id,omitempty"`
	Type                 Type           `json:"transaction_type"`
	Status               Status         `json:"status"`
	Amount               money.Cents    `json:"amount"`
	BalanceBefore        *money.Cents   `json:"balance_before,omitempty"`
	BalanceAfter         *money.Cents   `json:"balance_after,omitempty"`
	PaymentMethod        *PaymentMethod `json:"payment_method,omitempty"`
	SumUpCheckoutID      *string        `json:"sumup_checkout_id,omitempty"`
	SumUpTransactionCode *string        `json:"sumup_transaction_code,omitempty"`
	TransferToUserID     *int64         `json:"transfer_to_user_id,omitempty"`
	Description          *string        `json:"description,omitempty"`
	CreatedByAdminID     *int64         `json:"created_by_admin_id,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
	CompletedAt          *time.Time     `json:"completed_at,omitempty"`
}

// CreateInput is the body of POST /transactions/.
type CreateInput struct {
	UserID        int64         `json:"user_id,omitempty"`
	Type          Type          `json:"transaction_type"`
	Amount        money.Cents   `json:"amount"`
	PaymentMethod PaymentMethod `json:"payment_method,omitempty"`
	Description   string        `json:"description,omitempty"`
}

// TopUpInput is the body of POST /sumup/top-up.
type TopUpInput struct {
	Amount        money.Cents   `json:"amount"`
	PaymentMethod PaymentMethod `json:"payment_method"`
}

// # Repository Interface

type Repository interface {
	Create(ctx context.Context, input CreateInput) (*Transaction, error)
	List(ctx context.Context) ([]Transaction, error)
	FindByID(ctx context.Context, id int64) (*Transaction, error)
	Mine(ctx context.Context) ([]Transaction, error)
	TopUp(ctx context.Context, input TopUpInput) (*Transaction, error)
}
