// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package guests

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vereinskasse/kiosk/internal/cart"
	"github.com/vereinskasse/kiosk/internal/ledger"
	requestutil "github.com/vereinskasse/kiosk/internal/platform/request"
	"github.com/vereinskasse/kiosk/internal/platform/respond"
)

// Handler implements the guest POS endpoints.
type Handler struct {
	guestsService *Service
	cart          *cart.Store
}

// NewHandler constructs a guests [Handler]. guestCart is the guest-tier cart
// the items endpoint books from.
func NewHandler(service *Service, guestCart *cart.Store) *Handler {
	return &Handler{guestsService: service, cart: guestCart}
}

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{id}", handler.get)
	router.Put("/{id}", handler.update)
	router.Delete("/{id}", handler.delete)

	router.Post("/{id}/items", handler.submitCart)
	router.Post("/{id}/close-tab", handler.closeTab)

	return router
}

/*
GET /api/v1/guests.

Request:
  - active_only: bool (default true)

Response:
  - 200: []Guest
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	activeOnly := true
	if raw := request.URL.Query().Get("active_only"); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			activeOnly = parsed
		}
	}

	guests, err := handler.guestsService.List(request.Context(), activeOnly)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, guests)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	guest, err := handler.guestsService.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, guest)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	guest, err := handler.guestsService.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, guest)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	guest, err := handler.guestsService.Update(request.Context(), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, guest)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.guestsService.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

/*
POST /api/v1/guests/{id}/items.

Description: Books the guest cart onto the tab. On a partial failure the
booked lines have already left the cart; the error response is returned and
the cart holds only what is still open.

Response:
  - 200: SubmitResult
  - 422: Guest cart is empty
*/
func (handler *Handler) submitCart(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.guestsService.SubmitCart(request.Context(), id, handler.cart)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

type closeTabRequest struct {
	PaymentMethod ledger.PaymentMethod `json:"payment_method"`
}

/*
POST /api/v1/guests/{id}/close-tab.

Request:
  - body: {payment_method: cash | cloud_api}

Response:
  - 200: Settlement
*/
func (handler *Handler) closeTab(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input closeTabRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	settlement, err := handler.guestsService.CloseTab(request.Context(), id, input.PaymentMethod)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, settlement)
}
