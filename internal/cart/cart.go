// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

/*
Package cart keeps the local shopping cart of a terminal.

The cart never talks to the backend while it is being filled. Each line keeps
the unit price seen when the product was first added; later price changes on
the server do not reach an open cart.

Invariants, recomputed after every write:

	total     == Σ line.quantity × line.unit_price
	itemCount == Σ line.quantity
*/
package cart

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/vereinskasse/kiosk/internal/catalog"
	"github.com/vereinskasse/kiosk/internal/platform/apperr"
	"github.com/vereinskasse/kiosk/pkg/money"
)

// Line is one product in the cart.
type Line struct {
	Product   catalog.Product `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice money.Cents     `json:"unit_price"`
	Total     money.Cents     `json:"total_price"`
}

// Summary is a consistent copy of the cart.
type Summary struct {
	Lines     []Line      `json:"items"`
	Total     money.Cents `json:"total"`
	ItemCount int         `json:"item_count"`
	IsEmpty   bool        `json:"is_empty"`
}

// Purchase is the single aggregate transaction a checkout submits.
type Purchase struct {
	Amount        money.Cents `json:"amount"`
	PaymentMethod string      `json:"payment_method"`
	Description   string      `json:"description"`
	Lines         []Line      `json:"items"`
}

// Submitter books a purchase with the backend.
type Submitter interface {
	Submit(ctx context.Context, purchase Purchase) error
}

// SubmitterFunc adapts a function to [Submitter].
type SubmitterFunc func(ctx context.Context, purchase Purchase) error

func (f SubmitterFunc) Submit(ctx context.Context, purchase Purchase) error {
	return f(ctx, purchase)
}

// Store is a cart priced for one tier. It is safe for concurrent use.
type Store struct {
	tier catalog.PriceTier

	mu        sync.Mutex
	lines     []Line
	total     money.Cents
	itemCount int
	version   uint64

	// checkoutMu serializes checkouts so a cart is never submitted twice.
	checkoutMu sync.Mutex
}

// New returns an empty cart for tier.
func New(tier catalog.PriceTier) *Store {
	return &Store{tier: tier}
}

// Tier reports which price the cart snapshots.
func (s *Store) Tier() catalog.PriceTier {
	return s.tier
}

// # Mutations

// Add puts one unit of product into the cart.
func (s *Store) Add(product catalog.Product) {
	s.AddItem(product, 1)
}

// AddItem adds quantity units. An existing line keeps its original unit price.
// Non-positive quantities are ignored.
func (s *Store) AddItem(product catalog.Product, quantity int) {
	if quantity <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.find(product.ID); i >= 0 {
		s.lines[i].Quantity += quantity
	} else {
		s.lines = append(s.lines, Line{
			Product:   product,
			Quantity:  quantity,
			UnitPrice: catalog.PriceFor(product, s.tier),
		})
	}
	s.recompute()
}

// RemoveItem deletes the whole line. Absent products are a no-op.
func (s *Store) RemoveItem(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.find(productID); i >= 0 {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
		s.recompute()
	}
}

// UpdateQuantity overwrites a line's quantity; q <= 0 removes the line.
// Absent products are a no-op.
func (s *Store) UpdateQuantity(productID int64, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(productID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.find(productID); i >= 0 {
		s.lines[i].Quantity = quantity
		s.recompute()
	}
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	s.recompute()
}

// Deduct removes already booked quantities, dropping lines that reach zero.
// Lines absent from the cart are skipped.
func (s *Store) Deduct(booked ...Line) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deductLocked(booked)
}

func (s *Store) deductLocked(booked []Line) {
	for _, line := range booked {
		i := s.find(line.Product.ID)
		if i < 0 {
			continue
		}
		s.lines[i].Quantity -= line.Quantity
		if s.lines[i].Quantity <= 0 {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
		}
	}
	s.recompute()
}

// # Reads

// Snapshot returns a copy of the cart.
func (s *Store) Snapshot() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaryLocked()
}

func (s *Store) Total() money.Cents {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemCount
}

func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines) == 0
}

// # Checkout

/*
Checkout submits the whole cart as one purchase.

Description: An empty cart fails with EMPTY_CART without calling submitter.
Otherwise exactly one [Purchase] is submitted. Success removes the submitted
lines (the whole cart unless it changed meanwhile); failure leaves the cart
untouched. There is no automatic retry.

Parameters:
  - ctx: context.Context
  - paymentMethod: string
  - submitter: Submitter

Returns:
  - Purchase: What was submitted
  - error: EMPTY_CART or the submitter's error
*/
func (s *Store) Checkout(ctx context.Context, paymentMethod string, submitter Submitter) (Purchase, error) {
	s.checkoutMu.Lock()
	defer s.checkoutMu.Unlock()

	s.mu.Lock()
	if len(s.lines) == 0 {
		s.mu.Unlock()
		return Purchase{}, apperr.EmptyCart()
	}
	summary := s.summaryLocked()
	version := s.version
	s.mu.Unlock()

	purchase := Purchase{
		Amount:        summary.Total,
		PaymentMethod: paymentMethod,
		Description:   Describe(summary.Lines),
		Lines:         summary.Lines,
	}

	if err := submitter.Submit(ctx, purchase); err != nil {
		return purchase, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.version == version {
		s.lines = nil
		s.recompute()
	} else {
		s.deductLocked(purchase.Lines)
	}
	return purchase, nil
}

// Describe renders lines as "Warenkorb: 2x Cola, 1x Chips", the booking text
// shown on the member's statement.
func Describe(lines []Line) string {
	parts := make([]string, len(lines))
	for i, line := range lines {
		parts[i] = fmt.Sprintf("%dx %s", line.Quantity, line.Product.Name)
	}
	return "Warenkorb: " + strings.Join(parts, ", ")
}

// # Internals

func (s *Store) find(productID int64) int {
	for i := range s.lines {
		if s.lines[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// recompute restores the invariants; called with mu held after every write.
func (s *Store) recompute() {
	s.total = money.Zero
	s.itemCount = 0
	for i := range s.lines {
		s.lines[i].Total = s.lines[i].UnitPrice.Times(s.lines[i].Quantity)
		s.total += s.lines[i].Total
		s.itemCount += s.lines[i].Quantity
	}
	s.version++
}

func (s *Store) summaryLocked() Summary {
	lines := make([]Line, len(s.lines))
	copy(lines, s.lines)
	return Summary{
		Lines:     lines,
		Total:     s.total,
		ItemCount: s.itemCount,
		IsEmpty:   len(lines) == 0,
	}
}
