// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

/*
Package pointer helps with the optional fields of backend payloads
(description, variant, stock quantity), which decode to pointers.
*/
package pointer

// To returns a pointer to v, e.g. pointer.To("0,5l") for a product variant.
func To[T any](v T) *T {
	return &v
}

// Val dereferences p, returning the zero value if p is nil.
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
