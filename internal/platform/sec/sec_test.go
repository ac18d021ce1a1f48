// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package sec_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vereinskasse/kiosk/internal/platform/sec"
)

/*
TestTokenExpiry_JWT verifies that exp is read from a token signed with an unknown key.
*/
func TestTokenExpiry_JWT(t *testing.T) {
	expiresAt := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "7",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)

	got, ok := sec.TokenExpiry(token)
	require.True(t, ok)
	assert.True(t, expiresAt.Equal(got))
}

/*
TestTokenExpiry_Opaque verifies that non-JWT credentials are reported as unknown.
*/
func TestTokenExpiry_Opaque(t *testing.T) {
	_, ok := sec.TokenExpiry("opaque-access-token")
	assert.False(t, ok)

	_, ok = sec.TokenExpiry("")
	assert.False(t, ok)
}

/*
TestRole_AtLeast checks the role hierarchy used by the gateway guards.
*/
func TestRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleFor(true).AtLeast(sec.RoleAdmin))
	assert.True(t, sec.RoleFor(false).AtLeast(sec.RoleMember))
	assert.False(t, sec.RoleFor(false).AtLeast(sec.RoleAdmin))
	assert.False(t, sec.RoleAnonymous.AtLeast(sec.RoleMember))
}
