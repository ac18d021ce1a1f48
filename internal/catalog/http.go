// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package catalog

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/vereinskasse/kiosk/internal/platform/request"
	"github.com/vereinskasse/kiosk/internal/platform/respond"
)

// Handler implements the product endpoints of the gateway.
type Handler struct {
	catalogService *Service
}

// NewHandler constructs a new catalog [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{catalogService: service}
}

// Routes mounts the read endpoints directly and the write endpoints under
// admin, a middleware that enforces the admin role.
func (handler *Handler) Routes(admin func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)

	router.Group(func(router chi.Router) {
		router.Use(admin)
		router.Post("/", handler.create)
		router.Put("/{id}", handler.update)
		router.Delete("/{id}", handler.delete)
		router.Patch("/{id}/toggle-availability", handler.toggle)
	})

	return router
}

/*
GET /api/v1/products.

Request:
  - category: string (optional)
  - available_only: bool (default true)
  - q: string (optional name search)

Response:
  - 200: []Product
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	availableOnly := true
	if raw := query.Get("available_only"); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			availableOnly = parsed
		}
	}

	products, err := handler.catalogService.List(request.Context(), Filter{
		Category:      Category(query.Get("category")),
		AvailableOnly: availableOnly,
		Query:         query.Get("q"),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, products)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.catalogService.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, product)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.catalogService.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, product)
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

	product, err := handler.catalogService.Update(request.Context(), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, product)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.catalogService.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) toggle(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.catalogService.ToggleAvailability(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, product)
}
