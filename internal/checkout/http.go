// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package checkout

import (
	"net/http"

	"github.com/vereinskasse/kiosk/internal/ledger"
	requestutil "github.com/vereinskasse/kiosk/internal/platform/request"
	"github.com/vereinskasse/kiosk/internal/platform/respond"
	"github.com/vereinskasse/kiosk/pkg/money"
)

// Handler exposes checkout and top-up. Both endpoints need a session.
type Handler struct {
	checkoutService *Service
}

// NewHandler constructs a checkout [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{checkoutService: service}
}

type checkoutRequest struct {
	PaymentMethod ledger.PaymentMethod `json:"payment_method"`
}

/*
Checkout handles POST /api/v1/cart/checkout.

Request:
  - body: {payment_method} (optional, default balance)

Response:
  - 201: Receipt
  - 402: Balance does not cover the cart
  - 422: Cart is empty
*/
func (handler *Handler) Checkout(writer http.ResponseWriter, request *http.Request) {
	var input checkoutRequest
	if err := requestutil.DecodeOptionalJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	receipt, err := handler.checkoutService.Checkout(request.Context(), input.PaymentMethod)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, receipt)
}

type topUpRequest struct {
	Amount        money.Cents          `json:"amount"`
	PaymentMethod ledger.PaymentMethod `json:"payment_method"`
}

/*
TopUp handles POST /api/v1/topup.

Request:
  - body: {amount, payment_method}

Response:
  - 201: Receipt
  - 400: Invalid amount or payment method
*/
func (handler *Handler) TopUp(writer http.ResponseWriter, request *http.Request) {
	var input topUpRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	receipt, err := handler.checkoutService.TopUp(request.Context(), input.Amount, input.PaymentMethod)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, receipt)
}
