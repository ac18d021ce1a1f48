// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

/*
Package checkout turns the member cart into a ledger purchase and keeps the
cached balance in step.

The cached balance is advisory. A purchase paid from the balance is checked
against it before anything is sent, but the backend has the final word and may
still reject the booking. After a confirmed booking the cache is moved by the
same amount; the next profile refresh replaces it with the server value.
*/
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/vereinskasse/kiosk/internal/cart"
	"github.com/vereinskasse/kiosk/internal/ledger"
	"github.com/vereinskasse/kiosk/internal/members"
	"github.com/vereinskasse/kiosk/internal/platform/apperr"
	"github.com/vereinskasse/kiosk/pkg/money"
)

const insufficientBalanceMessage = "Insufficient balance"

// Session is the part of the session store checkout reads and adjusts.
type Session interface {
	Identity() (members.User, bool)
	UpdateIdentity(ctx context.Context, identity members.User)
	AdjustBalance(ctx context.Context, delta money.Cents) (money.Cents, bool)
}

// Ledger books transactions.
type Ledger interface {
	Create(ctx context.Context, input ledger.CreateInput) (*ledger.Transaction, error)
	TopUp(ctx context.Context, input ledger.TopUpInput) (*ledger.Transaction, error)
}

// Profiles loads the member behind the current session.
type Profiles interface {
	Me(ctx context.Context) (*members.User, error)
}

// Receipt describes a booked checkout or top-up.
type Receipt struct {
	Transaction *ledger.Transaction `json:"transaction"`
	Purchase    *cart.Purchase      `json:"purchase,omitempty"`
	Balance     money.Cents         `json:"balance"`
}

// Service runs member checkouts and top-ups.
type Service struct {
	cart     *cart.Store
	session  Session
	ledger   Ledger
	profiles Profiles
	logger   *slog.Logger
}

// NewService constructs a checkout [Service].
func NewService(cart *cart.Store, session Session, ledger Ledger, profiles Profiles, logger *slog.Logger) *Service {
	return &Service{cart: cart, session: session, ledger: ledger, profiles: profiles, logger: logger}
}

/*
Checkout books the whole cart as one purchase.

Description: Empty carts are rejected before anything else. For balance
payments the cached balance must cover the total. The cart is cleared and,
for balance payments, the cached balance reduced only after the backend
confirms. A failed booking is never retried.

Parameters:
  - ctx: context.Context
  - method: ledger.PaymentMethod (defaults to balance)

Returns:
  - Receipt: Booked transaction and the resulting cached balance
  - error: Unauthorized, EmptyCart, InsufficientBalance or the backend failure
*/
func (service *Service) Checkout(ctx context.Context, method ledger.PaymentMethod) (Receipt, error) {
	if method == "" {
		method = ledger.PaymentBalance
	}

	identity, ok := service.session.Identity()
	if !ok {
		return Receipt{}, apperr.Unauthorized("Login required")
	}

	var transaction *ledger.Transaction
	purchase, err := service.cart.Checkout(ctx, string(method), cart.SubmitterFunc(func(ctx context.Context, purchase cart.Purchase) error {
		// Re-read so a top-up that finished meanwhile counts.
		if current, ok := service.session.Identity(); ok {
			identity = current
		}
		if method == ledger.PaymentBalance && identity.Balance < purchase.Amount {
			service.logger.InfoContext(ctx, "checkout_rejected_locally",
				slog.Int64("member_id", identity.ID),
				slog.String("total", purchase.Amount.String()),
				slog.String("balance", identity.Balance.String()),
			)
			return apperr.InsufficientBalance(insufficientBalanceMessage, nil)
		}

		booked, err := service.ledger.Create(ctx, ledger.CreateInput{
			UserID:        identity.ID,
			Type:          ledger.TypePurchase,
			Amount:        purchase.Amount,
			PaymentMethod: method,
			Description:   purchase.Description,
		})
		if err != nil {
			return rejection(method, err)
		}
		transaction = booked
		return nil
	}))
	if err != nil {
		if !apperr.HasCode(err, apperr.CodeEmptyCart) {
			service.logger.WarnContext(ctx, "checkout_failed",
				slog.Int64("member_id", identity.ID),
				slog.String("payment_method", string(method)),
				slog.Any("error", err),
			)
		}
		return Receipt{}, err
	}

	balance := identity.Balance
	if method == ledger.PaymentBalance {
		balance, _ = service.session.AdjustBalance(ctx, -purchase.Amount)
	}

	service.logger.InfoContext(ctx, "checkout_succeeded",
		slog.Int64("member_id", identity.ID),
		slog.Int64("transaction_id", transaction.ID),
		slog.String("total", purchase.Amount.String()),
		slog.Int("lines", len(purchase.Lines)),
	)
	return Receipt{Transaction: transaction, Purchase: &purchase, Balance: balance}, nil
}

// rejection maps a refused balance booking to InsufficientBalance, keeping the
// server's wording.
func rejection(method ledger.PaymentMethod, err error) error {
	if method != ledger.PaymentBalance || apperr.UpstreamStatus(err) != http.StatusBadRequest {
		return err
	}

	message := insufficientBalanceMessage
	if appErr := apperr.As(err); appErr != nil && appErr.Message != "" {
		message = appErr.Message
	}
	return apperr.InsufficientBalance(message, err)
}

/*
TopUp credits the logged-in member through a card payment.

Parameters:
  - ctx: context.Context
  - amount: money.Cents (must be positive)
  - method: ledger.PaymentMethod (cloud_api or payment_link, default cloud_api)

Returns:
  - Receipt: The top-up transaction and the resulting cached balance
  - error: Unauthorized, validation or backend failures
*/
func (service *Service) TopUp(ctx context.Context, amount money.Cents, method ledger.PaymentMethod) (Receipt, error) {
	identity, ok := service.session.Identity()
	if !ok {
		return Receipt{}, apperr.Unauthorized("Login required")
	}

	transaction, err := service.ledger.TopUp(ctx, ledger.TopUpInput{Amount: amount, PaymentMethod: method})
	if err != nil {
		return Receipt{}, fmt.Errorf("checkout_service_top_up_failed: %w", err)
	}

	balance, _ := service.session.AdjustBalance(ctx, amount)
	service.logger.InfoContext(ctx, "top_up_succeeded",
		slog.Int64("member_id", identity.ID),
		slog.Int64("transaction_id", transaction.ID),
		slog.String("amount", amount.String()),
	)
	return Receipt{Transaction: transaction, Balance: balance}, nil
}

// RefreshProfile replaces the cached identity with the server's copy.
func (service *Service) RefreshProfile(ctx context.Context) (*members.User, error) {
	if _, ok := service.session.Identity(); !ok {
		return nil, apperr.Unauthorized("Login required")
	}

	user, err := service.profiles.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("checkout_service_refresh_profile_failed: %w", err)
	}

	service.session.UpdateIdentity(ctx, *user)
	return user, nil
}
