// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

// Package sec holds the client-side view of credentials and roles.
//
// # Architecture
//
// The kiosk never verifies tokens: signatures belong to the backend. It only
// decodes the registered claims of an access token to show when the session
// will need a refresh, and maps member flags to roles for gateway guards.
package sec

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry decodes the exp claim of a JWT access token without verifying it.
//
// The result is advisory and meant for display and logging. Opaque (non-JWT)
// tokens and tokens without exp report false.
func TokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}

	return claims.ExpiresAt.Time, true
}
