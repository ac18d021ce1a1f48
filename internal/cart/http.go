// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package cart

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"github.com/vereinskasse/kiosk/internal/catalog"
	"github.com/vereinskasse/kiosk/internal/platform/apperr"
	requestutil "github.com/vereinskasse/kiosk/internal/platform/request"
	"github.com/vereinskasse/kiosk/internal/platform/respond"
	"github.com/vereinskasse/kiosk/internal/platform/validate"
	"github.com/vereinskasse/kiosk/pkg/money"
)

// MaxLineQuantity caps a single cart line.
const MaxLineQuantity = 99

// ProductLookup resolves a product id to the current catalog entry.
type ProductLookup interface {
	Get(ctx context.Context, id int64) (*catalog.Product, error)
}

// Handler exposes one cart store to the kiosk UI.
type Handler struct {
	store    *Store
	products ProductLookup
	locale   language.Tag
}

// NewHandler constructs a cart [Handler].
func NewHandler(store *Store, products ProductLookup, locale language.Tag) *Handler {
	return &Handler{store: store, products: products, locale: locale}
}

// Routes returns the cart router. Checkout is registered by the caller since
// it needs the session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.get)
	router.Delete("/", handler.clear)
	router.Post("/items", handler.addItem)
	router.Patch("/items/{productID}", handler.updateQuantity)
	router.Delete("/items/{productID}", handler.removeItem)

	return router
}

type summaryView struct {
	Summary
	Tier         string `json:"price_tier"`
	TotalDisplay string `json:"total_display"`
}

func (handler *Handler) view() summaryView {
	summary := handler.store.Snapshot()
	return summaryView{
		Summary:      summary,
		Tier:         handler.store.Tier().String(),
		TotalDisplay: money.Format(summary.Total, handler.locale),
	}
}

/*
GET /api/v1/cart.

Response:
  - 200: summaryView {items, total, item_count, is_empty, price_tier, total_display}
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.view())
}

type addItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

/*
POST /api/v1/cart/items.

Description: Looks the product up so the line carries the current price of
the cart's tier. Quantity defaults to 1.

Request:
  - body: {product_id, quantity}

Response:
  - 200: summaryView
  - 404: Unknown product
  - 400: Invalid quantity or product not available
*/
func (handler *Handler) addItem(writer http.ResponseWriter, request *http.Request) {
	var input addItemRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if input.Quantity == 0 {
		input.Quantity = 1
	}

	v := &validate.Validator{}
	v.Custom("product_id", input.ProductID <= 0, "Is required").
		Range("quantity", input.Quantity, 1, MaxLineQuantity)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.products.Get(request.Context(), input.ProductID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if !product.IsAvailable {
		respond.Error(writer, request, apperr.ValidationError("Product is not available",
			apperr.FieldError{Field: "product_id", Message: "Not available"}))
		return
	}

	handler.store.AddItem(*product, input.Quantity)
	respond.OK(writer, handler.view())
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// updateQuantity overwrites a line's quantity; zero removes the line.
func (handler *Handler) updateQuantity(writer http.ResponseWriter, request *http.Request) {
	productID, err := requestutil.ID(request, "productID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateQuantityRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if err := v.Range("quantity", input.Quantity, 0, MaxLineQuantity).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.store.UpdateQuantity(productID, input.Quantity)
	respond.OK(writer, handler.view())
}

func (handler *Handler) removeItem(writer http.ResponseWriter, request *http.Request) {
	productID, err := requestutil.ID(request, "productID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.store.RemoveItem(productID)
	respond.OK(writer, handler.view())
}

func (handler *Handler) clear(writer http.ResponseWriter, request *http.Request) {
	handler.store.Clear()
	respond.OK(writer, handler.view())
}
