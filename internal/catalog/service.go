// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package catalog

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/vereinskasse/kiosk/internal/platform/validate"
	"github.com/vereinskasse/kiosk/pkg/slice"
)

// Service serves the POS product grid and the admin product editor.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new catalog [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

/*
List fetches products and applies the local search.

Description: Category and availability are filtered by the backend; the
free-text query is matched locally the way the POS search box does. Results
are ordered by sort order, then name.

Parameters:
  - ctx: context.Context
  - filter: Filter

Returns:
  - []Product: Matching products
  - error: Backend failures
*/
func (service *Service) List(ctx context.Context, filter Filter) ([]Product, error) {
	products, err := service.repository.List(ctx, filter.Category.Normalize(), filter.AvailableOnly)
	if err != nil {
		return nil, fmt.Errorf("catalog_service_list_failed: %w", err)
	}

	matched := slice.Filter(products, filter.Match)

	slices.SortStableFunc(matched, func(a, b Product) int {
		return cmp.Or(cmp.Compare(a.SortOrder, b.SortOrder), cmp.Compare(a.Name, b.Name))
	})
	return matched, nil
}

func (service *Service) Get(ctx context.Context, id int64) (*Product, error) {
	product, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("catalog_service_get_failed: %w", err)
	}
	return product, nil
}

func (service *Service) Create(ctx context.Context, input Input) (*Product, error) {
	input.Category = input.Category.Normalize()
	if err := validateInput(input); err != nil {
		return nil, err
	}

	product, err := service.repository.Create(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("catalog_service_create_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "product_created",
		slog.Int64("product_id", product.ID),
		slog.String("name", product.Name),
	)
	return product, nil
}

func (service *Service) Update(ctx context.Context, id int64, input Input) (*Product, error) {
	input.Category = input.Category.Normalize()
	if err := validateInput(input); err != nil {
		return nil, err
	}

	product, err := service.repository.Update(ctx, id, input)
	if err != nil {
		return nil, fmt.Errorf("catalog_service_update_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "product_updated", slog.Int64("product_id", id))
	return product, nil
}

func (service *Service) Delete(ctx context.Context, id int64) error {
	if err := service.repository.Delete(ctx, id); err != nil {
		return fmt.Errorf("catalog_service_delete_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "product_deleted", slog.Int64("product_id", id))
	return nil
}

// ToggleAvailability flips whether the product shows on the POS grid.
func (service *Service) ToggleAvailability(ctx context.Context, id int64) (*Product, error) {
	product, err := service.repository.ToggleAvailability(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("catalog_service_toggle_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "product_availability_toggled",
		slog.Int64("product_id", id),
		slog.Bool("is_available", product.IsAvailable),
	)
	return product, nil
}

func validateInput(input Input) error {
	categories := slice.Map(Categories, func(category Category) string { return string(category) })

	v := &validate.Validator{}
	v.Required("name", input.Name).
		MaxLen("name", input.Name, 100).
		OneOf("category", string(input.Category), categories...).
		PositiveAmount("member_price", input.MemberPrice).
		PositiveAmount("guest_price", input.GuestPrice).
		Custom("tax_rate", input.TaxRate < 0 || input.TaxRate > 1, "Must be between 0 and 1")
	if input.Variant != nil {
		v.MaxLen("variant", *input.Variant, 50)
	}
	if input.TrackStock && input.StockQuantity != nil {
		v.Custom("stock_quantity", *input.StockQuantity < 0, "Must not be negative")
	}
	return v.Err()
}
