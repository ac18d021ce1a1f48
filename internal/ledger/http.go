// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package ledger

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/vereinskasse/kiosk/internal/platform/request"
	"github.com/vereinskasse/kiosk/internal/platform/respond"
)

// Handler implements the transaction history endpoints of the gateway.
type Handler struct {
	ledgerService *Service
}

// NewHandler constructs a new ledger [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{ledgerService: service}
}

// Routes mounts the member history directly and the full ledger behind admin.
func (handler *Handler) Routes(admin func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	router.Get("/my", handler.mine)

	router.Group(func(router chi.Router) {
		router.Use(admin)
		router.Get("/", handler.list)
		router.Get("/{id}", handler.get)
	})

	return router
}

/*
GET /api/v1/transactions/my.

Response:
  - 200: []Transaction: Newest first, as returned by the backend
*/
func (handler *Handler) mine(writer http.ResponseWriter, request *http.Request) {
	transactions, err := handler.ledgerService.Mine(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, transactions)
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	transactions, err := handler.ledgerService.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, transactions)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	transaction, err := handler.ledgerService.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, transaction)
}
