// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

/*
Package guests manages walk-in guests and their tabs.

A guest has no account. Items are booked onto the guest's tab at the guest
price and the tab is settled once, in cash or by card, when the guest leaves.
*/
package guests

import (
	"context"
	"time"

	"github.com/vereinskasse/kiosk/internal/ledger"
	"github.com/vereinskasse/kiosk/pkg/money"
	"github.com/vereinskasse/kiosk/pkg/slice"
)

// SettlementMethods lists how a tab can be paid.
var SettlementMethods = []ledger.PaymentMethod{ledger.PaymentCash, ledger.PaymentCloudAPI}

// Guest is a walk-in customer with an open or closed tab.
type Guest struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	CreatedAt   time.Time   `json:"created_at"`
	ClosedAt    *time.Time  `json:"closed_at,omitempty"`
	TotalAmount money.Cents `json:"total_amount"`
	IsActive    bool        `json:"is_active"`
	TabItems    []TabItem   `json:"tab_items,omitempty"`
}

// OpenAmount sums the tab items not yet paid.
func (g Guest) OpenAmount() money.Cents {
	return slice.Reduce(g.TabItems, money.Cents(0), func(open money.Cents, item TabItem) money.Cents {
		if item.Paid {
			return open
		}
		return open + item.TotalAmount
	})
}

// TabItem is one booking on a guest's tab.
type TabItem struct {
	ID           int64       `json:"id"`
	ProductID    int64       `json:"product_id"`
	ProductName  string      `json:"product_name"`
	Quantity     int         `json:"quantity"`
	PricePerItem money.Cents `json:"price_per_item"`
	TotalAmount  money.Cents `json:"total_amount"`
	CreatedAt    time.Time   `json:"created_at"`
	Paid         bool        `json:"paid"`
}

type Input struct {
	Name string `json:"name"`
}

// TabTotal is the backend's answer to a booking.
type TabTotal struct {
	Message string      `json:"message"`
	Total   money.Cents `json:"total"`
}

// Settlement is the backend's answer to closing a tab.
type Settlement struct {
	Message       string               `json:"message"`
	TransactionID int64                `json:"transaction_id"`
	Total         money.Cents          `json:"total"`
	PaymentMethod ledger.PaymentMethod `json:"payment_method"`
}

// # Repository Interface

type Repository interface {
	List(ctx context.Context, activeOnly bool) ([]Guest, error)
	FindByID(ctx context.Context, id int64) (*Guest, error)
	Create(ctx context.Context, input Input) (*Guest, error)
	Update(ctx context.Context, id int64, input Input) (*Guest, error)
	Delete(ctx context.Context, id int64) error
	AddItem(ctx context.Context, guestID, productID int64, quantity int) (*TabTotal, error)
	CloseTab(ctx context.Context, id int64, method ledger.PaymentMethod) (*Settlement, error)
}
