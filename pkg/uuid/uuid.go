// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

/*
Package uuid mints the correlation ids that tie gateway and backend logs
together.

Ids are UUID v7, so they sort by creation time in log storage. The gateway
assigns one per inbound request and the backend client forwards it as
X-Request-ID.
*/
package uuid

import "github.com/google/uuid"

// # Generators

// New returns a UUID v7 string, or a random v4 id if the clock source fails.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Valid reports whether s parses as a UUID. Inbound ids that do not are replaced.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
