// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package guests

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vereinskasse/kiosk/internal/cart"
	"github.com/vereinskasse/kiosk/internal/catalog"
	"github.com/vereinskasse/kiosk/internal/ledger"
	"github.com/vereinskasse/kiosk/internal/platform/apperr"
	"github.com/vereinskasse/kiosk/internal/platform/validate"
	"github.com/vereinskasse/kiosk/pkg/money"
	"github.com/vereinskasse/kiosk/pkg/slice"
)

// MaxNameLength bounds a guest's display name.
const MaxNameLength = 100

// Service runs the guest POS.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new guests [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

// List returns guests, newest first. activeOnly hides settled tabs.
func (service *Service) List(ctx context.Context, activeOnly bool) ([]Guest, error) {
	guests, err := service.repository.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("guests_service_list_failed: %w", err)
	}
	return guests, nil
}

func (service *Service) Get(ctx context.Context, id int64) (*Guest, error) {
	guest, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("guests_service_get_failed: %w", err)
	}
	return guest, nil
}

func (service *Service) Create(ctx context.Context, input Input) (*Guest, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	guest, err := service.repository.Create(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("guests_service_create_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "guest_created", slog.Int64("guest_id", guest.ID))
	return guest, nil
}

func (service *Service) Update(ctx context.Context, id int64, input Input) (*Guest, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	guest, err := service.repository.Update(ctx, id, input)
	if err != nil {
		return nil, fmt.Errorf("guests_service_update_failed: %w", err)
	}
	return guest, nil
}

func (service *Service) Delete(ctx context.Context, id int64) error {
	if err := service.repository.Delete(ctx, id); err != nil {
		return fmt.Errorf("guests_service_delete_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "guest_deleted", slog.Int64("guest_id", id))
	return nil
}

// AddItem books a single product onto the tab.
func (service *Service) AddItem(ctx context.Context, guestID, productID int64, quantity int) (*TabTotal, error) {
	v := &validate.Validator{}
	v.Custom("product_id", productID <= 0, "Is required").
		Range("quantity", quantity, 1, cart.MaxLineQuantity)
	if err := v.Err(); err != nil {
		return nil, err
	}

	total, err := service.repository.AddItem(ctx, guestID, productID, quantity)
	if err != nil {
		return nil, fmt.Errorf("guests_service_add_item_failed: %w", err)
	}
	return total, nil
}

// SubmitResult reports what SubmitCart booked.
type SubmitResult struct {
	Booked   []cart.Line `json:"booked"`
	TabTotal money.Cents `json:"tab_total"`
}

/*
SubmitCart books a guest cart onto a tab, one line per request.

Description: The backend has no batch endpoint, so each line is its own
booking. Lines are removed from the cart as soon as the backend accepts them.
When a line fails, the lines booked before it are already gone from the cart
and a retry only sends the remainder.

Parameters:
  - ctx: context.Context
  - guestID: int64
  - items: *cart.Store (guest price tier)

Returns:
  - SubmitResult: Lines booked, including on partial failure
  - error: EMPTY_CART, VALIDATION_ERROR for a member cart, or the first backend failure
*/
func (service *Service) SubmitCart(ctx context.Context, guestID int64, items *cart.Store) (SubmitResult, error) {
	if items.Tier() != catalog.TierGuest {
		return SubmitResult{}, apperr.ValidationError("Guest tabs take guest prices only")
	}

	summary := items.Snapshot()
	if summary.IsEmpty {
		return SubmitResult{}, apperr.EmptyCart()
	}

	var result SubmitResult
	for _, line := range summary.Lines {
		total, err := service.repository.AddItem(ctx, guestID, line.Product.ID, line.Quantity)
		if err != nil {
			service.logger.WarnContext(ctx, "guest_tab_submit_partial",
				slog.Int64("guest_id", guestID),
				slog.Int("booked_lines", len(result.Booked)),
				slog.Int("open_lines", len(summary.Lines)-len(result.Booked)),
				slog.Any("error", err),
			)
			return result, fmt.Errorf("guests_service_submit_cart_failed: %w", err)
		}

		items.Deduct(line)
		result.Booked = append(result.Booked, line)
		result.TabTotal = total.Total
	}

	service.logger.InfoContext(ctx, "guest_tab_submitted",
		slog.Int64("guest_id", guestID),
		slog.Int("lines", len(result.Booked)),
		slog.String("tab_total", result.TabTotal.String()),
	)
	return result, nil
}

/*
CloseTab settles every open item of the tab with one transaction.

Parameters:
  - ctx: context.Context
  - id: int64
  - method: ledger.PaymentMethod (cash or cloud_api)

Returns:
  - *Settlement: Backend transaction id and total
  - error: Validation or backend failures
*/
func (service *Service) CloseTab(ctx context.Context, id int64, method ledger.PaymentMethod) (*Settlement, error) {
	allowed := slice.Map(SettlementMethods, func(m ledger.PaymentMethod) string { return string(m) })

	v := &validate.Validator{}
	if err := v.OneOf("payment_method", string(method), allowed...).Err(); err != nil {
		return nil, err
	}

	settlement, err := service.repository.CloseTab(ctx, id, method)
	if err != nil {
		return nil, fmt.Errorf("guests_service_close_tab_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "guest_tab_closed",
		slog.Int64("guest_id", id),
		slog.Int64("transaction_id", settlement.TransactionID),
		slog.String("total", settlement.Total.String()),
		slog.String("payment_method", string(method)),
	)
	return settlement, nil
}

func validateInput(input Input) error {
	v := &validate.Validator{}
	v.Required("name", input.Name).MaxLen("name", input.Name, MaxNameLength)
	return v.Err()
}
