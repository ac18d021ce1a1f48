// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vereinskasse/kiosk/internal/platform/validate"
	"github.com/vereinskasse/kiosk/pkg/slice"
)

// Service validates ledger requests before they reach the backend.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new ledger [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

/*
Create books a transaction.

Description: A checkout books exactly one purchase per call. Create never
retries, since a second attempt could charge the member twice.

Parameters:
  - ctx: context.Context
  - input: CreateInput

Returns:
  - *Transaction: The server-side entry
  - error: Validation or backend failures
*/
func (service *Service) Create(ctx context.Context, input CreateInput) (*Transaction, error) {
	if input.PaymentMethod == "" {
		input.PaymentMethod = PaymentBalance
	}

	v := &validate.Validator{}
	v.PositiveAmount("amount", input.Amount).
		OneOf("transaction_type", string(input.Type), string(TypeTopUp), string(TypeTransfer), string(TypePurchase), string(TypeAdminAdjustment)).
		OneOf("payment_method", string(input.PaymentMethod), methodNames(PaymentMethods)...).
		MaxLen("description", input.Description, 500)
	if err := v.Err(); err != nil {
		return nil, err
	}

	transaction, err := service.repository.Create(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("ledger_service_create_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "transaction_created",
		slog.Int64("transaction_id", transaction.ID),
		slog.String("type", string(transaction.Type)),
		slog.String("amount", transaction.Amount.String()),
		slog.String("status", string(transaction.Status)),
	)
	return transaction, nil
}

func (service *Service) List(ctx context.Context) ([]Transaction, error) {
	transactions, err := service.repository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ledger_service_list_failed: %w", err)
	}
	return transactions, nil
}

func (service *Service) Get(ctx context.Context, id int64) (*Transaction, error) {
	transaction, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ledger_service_get_failed: %w", err)
	}
	return transaction, nil
}

// Mine lists the transactions of the logged-in member.
func (service *Service) Mine(ctx context.Context) ([]Transaction, error) {
	transactions, err := service.repository.Mine(ctx)
	if err != nil {
		return nil, fmt.Errorf("ledger_service_mine_failed: %w", err)
	}
	return transactions, nil
}

/*
TopUp starts a card payment that credits the member's balance.

Parameters:
  - ctx: context.Context
  - input: TopUpInput (payment method defaults to cloud_api)

Returns:
  - *Transaction: The top-up entry
  - error: Validation or backend failures
*/
func (service *Service) TopUp(ctx context.Context, input TopUpInput) (*Transaction, error) {
	if input.PaymentMethod == "" {
		input.PaymentMethod = DefaultTopUpMethod
	}

	v := &validate.Validator{}
	v.PositiveAmount("amount", input.Amount).
		OneOf("payment_method", string(input.PaymentMethod), methodNames(TopUpMethods)...)
	if err := v.Err(); err != nil {
		return nil, err
	}

	transaction, err := service.repository.TopUp(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("ledger_service_top_up_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "balance_top_up_created",
		slog.Int64("transaction_id", transaction.ID),
		slog.String("amount", input.Amount.String()),
		slog.String("payment_method", string(input.PaymentMethod)),
	)
	return transaction, nil
}

func methodNames(methods []PaymentMethod) []string {
	return slice.Map(methods, func(method PaymentMethod) string { return string(method) })
}
