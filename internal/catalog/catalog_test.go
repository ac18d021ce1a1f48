// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package catalog_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vereinskasse/kiosk/internal/catalog"
	"github.com/vereinskasse/kiosk/internal/platform/apperr"
	"github.com/vereinskasse/kiosk/pkg/money"
	"github.com/vereinskasse/kiosk/pkg/pointer"
)

type fakeRepository struct {
	catalog.Repository
	products      []catalog.Product
	category      catalog.Category
	availableOnly bool
	created       int
}

func (f *fakeRepository) List(_ context.Context, category catalog.Category, availableOnly bool) ([]catalog.Product, error) {
	f.category = category
	f.availableOnly = availableOnly
	return f.products, nil
}

func (f *fakeRepository) Create(_ context.Context, input catalog.Input) (*catalog.Product, error) {
	f.created++
	return &catalog.Product{ID: 99, Name: input.Name, Category: input.Category}, nil
}

func newService(repo catalog.Repository) *catalog.Service {
	return catalog.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPriceFor(t *testing.T) {
	cola := catalog.Product{MemberPrice: money.Cents(150), GuestPrice: money.Cents(200)}

	assert.Equal(t, money.Cents(150), catalog.PriceFor(cola, catalog.TierMember))
	assert.Equal(t, money.Cents(200), catalog.PriceFor(cola, catalog.TierGuest))
}

/*
TestFilter_Match mirrors the POS search box behavior.
*/
func TestFilter_Match(t *testing.T) {
	cola := catalog.Product{Name: "Club-Mate", Category: catalog.CategoryDrinks, IsAvailable: true}

	tests := []struct {
		name   string
		filter catalog.Filter
		want   bool
	}{
		{"empty_filter", catalog.Filter{}, true},
		{"case_insensitive_query", catalog.Filter{Query: "mATe"}, true},
		{"no_match", catalog.Filter{Query: "chips"}, false},
		{"category_upper_case", catalog.Filter{Category: "DRINKS"}, true},
		{"other_category", catalog.Filter{Category: catalog.CategoryFood}, false},
		{"both", catalog.Filter{Category: catalog.CategoryDrinks, Query: "club"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Match(cola))
		})
	}
}

func TestList_SearchesLocallyAndSorts(t *testing.T) {
	repo := &fakeRepository{products: []catalog.Product{
		{ID: 1, Name: "Wasser", Category: catalog.CategoryDrinks, SortOrder: 2, IsAvailable: true},
		{ID: 2, Name: "Cola", Category: catalog.CategoryDrinks, SortOrder: 1, IsAvailable: true},
		{ID: 3, Name: "Cola Zero", Category: catalog.CategoryDrinks, SortOrder: 1, IsAvailable: true},
		{ID: 4, Name: "Chips", Category: catalog.CategorySnacks, SortOrder: 0, IsAvailable: true},
		{ID: 5, Name: "Cola-Bonbons", Category: catalog.CategorySnacks, SortOrder: 0, IsAvailable: true},
	}}
	service := newService(repo)

	products, err := service.List(context.Background(), catalog.Filter{Query: "cola", Category: "DRINKS", AvailableOnly: true})

	require.NoError(t, err)
	assert.Equal(t, catalog.CategoryDrinks, repo.category, "category sent in backend spelling")
	assert.True(t, repo.availableOnly)
	require.Len(t, products, 2)
	assert.Equal(t, "Cola", products[0].Name)
	assert.Equal(t, "Cola Zero", products[1].Name)
}

func TestCreate_Validation(t *testing.T) {
	repo := &fakeRepository{}
	service := newService(repo)

	_, err := service.Create(context.Background(), catalog.Input{
		Name:        "",
		Category:    "tools",
		MemberPrice: money.Zero,
		GuestPrice:  money.Cents(200),
		TaxRate:     19,
	})

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	assert.Len(t, apperr.As(err).Details, 4)
	assert.Zero(t, repo.created)
}

func TestCreate_NormalizesCategory(t *testing.T) {
	repo := &fakeRepository{}
	service := newService(repo)

	product, err := service.Create(context.Background(), catalog.Input{
		Name:        "Brezel",
		Category:    "FOOD",
		MemberPrice: money.Cents(120),
		GuestPrice:  money.Cents(150),
		TaxRate:     0.07,
	})

	require.NoError(t, err)
	assert.Equal(t, catalog.CategoryFood, product.Category)
}

func TestProduct_DisplayName(t *testing.T) {
	assert.Equal(t, "Cola (0,5l)", catalog.Product{Name: "Cola", Variant: pointer.To("0,5l")}.DisplayName())
	assert.Equal(t, "Cola", catalog.Product{Name: "Cola", Variant: pointer.To("")}.DisplayName())
	assert.Equal(t, "Cola", catalog.Product{Name: "Cola"}.DisplayName())
}
