// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package members

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/vereinskasse/kiosk/internal/platform/request"
	"github.com/vereinskasse/kiosk/internal/platform/respond"
)

// Handler implements the admin member endpoints of the gateway.
type Handler struct {
	membersService *Service
}

// NewHandler constructs a new members [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{membersService: service}
}

// Routes returns the member administration router. Mount it behind RequireRole(admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{id}", handler.get)
	router.Put("/{id}", handler.update)
	router.Delete("/{id}", handler.delete)

	router.Post("/{id}/adjust-balance", handler.adjustBalance)
	router.Post("/{id}/reset-password", handler.resetPassword)

	return router
}

/*
GET /api/v1/users.

Response:
  - 200: []User
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	users, err := handler.membersService.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, users)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.membersService.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

/*
POST /api/v1/users.

Request:
  - body: CreateInput

Response:
  - 201: User
  - 400: Validation failed
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.membersService.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, user)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.membersService.Update(request.Context(), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.membersService.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

/*
POST /api/v1/users/{id}/adjust-balance.

Description: Books a signed correction (e.g. cash paid at the bar).

Request:
  - body: BalanceAdjustment {amount, description}

Response:
  - 200: User: The member with the server-confirmed balance
  - 400: Validation failed or overdraft limit exceeded
*/
func (handler *Handler) adjustBalance(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input BalanceAdjustment
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.membersService.AdjustBalance(request.Context(), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input resetPasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.membersService.ResetPassword(request.Context(), id, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
