// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

// Package schema names the tables and columns the kiosk reads and writes.
package schema

// KioskStateTable represents the 'kiosk_state' table
type KioskStateTable struct {
	Table     string
	Key       string
	Value     string
	UpdatedAt string
}

// KioskState is the schema definition for kiosk_state
var KioskState = KioskStateTable{
	Table:     "kiosk_state",
	Key:       "key",
	Value:     "value",
	UpdatedAt: "updated_at",
}

func (t KioskStateTable) Columns() []string {
	return []string{t.Key, t.Value, t.UpdatedAt}
}
