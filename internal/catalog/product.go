// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

/*
Package catalog reads and manages the club's product list.

Every product carries two prices: members pay the member price from their
balance, walk-in guests pay the guest price on their tab. A [PriceTier]
selects which one a cart snapshots.
*/
package catalog

import (
	"context"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/vereinskasse/kiosk/pkg/money"
	"github.com/vereinskasse/kiosk/pkg/pointer"
)

// Category groups products on the POS screen.
type Category string

const (
	CategoryDrinks Category = "drinks"
	CategorySnacks Category = "snacks"
	CategoryFood   Category = "food"
	CategoryOther  Category = "other"
)

// Categories lists the known categories in display order.
var Categories = []Category{CategoryDrinks, CategorySnacks, CategoryFood, CategoryOther}

// Is compares categories case-insensitively; older UIs send upper case.
func (c Category) Is(other Category) bool {
	return strings.EqualFold(string(c), string(other))
}

// Normalize lower-cases the category to the backend's spelling.
func (c Category) Normalize() Category {
	return Category(strings.ToLower(strings.TrimSpace(string(c))))
}

// Product is a sellable item.
type Product struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	Description   *string     `json:"description,omitempty"`
	Category      Category    `json:"category"`
	Variant       *string     `json:"variant,omitempty"`
	MemberPrice   money.Cents `json:"member_price"`
	GuestPrice    money.Cents `json:"guest_price"`
	TaxRate       float64     `json:"tax_rate"`
	StockQuantity *int        `json:"stock_quantity,omitempty"`
	TrackStock    bool        `json:"track_stock"`
	IsAvailable   bool        `json:"is_available"`
	SortOrder     int         `json:"sort_order"`
	CreatedAt     *time.Time  `json:"created_at,omitempty"`
	UpdatedAt     *time.Time  `json:"updated_at,omitempty"`
}

// DisplayName appends the variant, e.g. "Cola (0,5l)".
func (p Product) DisplayName() string {
	variant := pointer.Val(p.Variant)
	if variant == "" {
		return p.Name
	}
	return p.Name + " (" + variant + ")"
}

// # Price Tiers

// PriceTier selects member or guest pricing.
type PriceTier int

const (
	TierMember PriceTier = iota
	TierGuest
)

func (t PriceTier) String() string {
	if t == TierGuest {
		return "guest"
	}
	return "member"
}

// PriceFor returns the unit price a tier pays for p.
func PriceFor(p Product, tier PriceTier) money.Cents {
	if tier == TierGuest {
		return p.GuestPrice
	}
	return p.MemberPrice
}

// # Filtering

// Filter narrows a product list. Zero values match everything.
type Filter struct {
	Category      Category
	AvailableOnly bool
	Query         string
}

// Match applies the POS search box: a case-folded substring of the name
// combined with an exact category match.
func (f Filter) Match(p Product) bool {
	if f.Category != "" && !p.Category.Is(f.Category) {
		return false
	}
	if f.AvailableOnly && !p.IsAvailable {
		return false
	}
	if query := strings.TrimSpace(f.Query); query != "" {
		folder := cases.Fold()
		return strings.Contains(folder.String(p.Name), folder.String(query))
	}
	return true
}

// # Inputs

// Input is the admin payload for creating or replacing a product.
type Input struct {
	Name          string      `json:"name"`
	Description   *string     `json:"description,omitempty"`
	Category      Category    `json:"category"`
	Variant       *string     `json:"variant,omitempty"`
	MemberPrice   money.Cents `json:"member_price"`
	GuestPrice    money.Cents `json:"guest_price"`
	TaxRate       float64     `json:"tax_rate"`
	TrackStock    bool        `json:"track_stock"`
	StockQuantity *int        `json:"stock_quantity,omitempty"`
	IsAvailable   bool        `json:"is_available"`
	SortOrder     int         `json:"sort_order"`
}

// # Repository Contracts

// Repository defines the backend contract for products.
type Repository interface {
	// List applies the category and availability filters on the server.
	List(ctx context.Context, category Category, availableOnly bool) ([]Product, error)

	FindByID(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, input Input) (*Product, error)
	Update(ctx context.Context, id int64, input Input) (*Product, error)
	Delete(ctx context.Context, id int64) error
	ToggleAvailability(ctx context.Context, id int64) (*Product, error)
}
