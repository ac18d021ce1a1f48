// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vereinskasse/kiosk/internal/platform/apperr"
)

/*
TestUpstream_StatusMapping verifies client errors pass through and server errors become 502.
*/
func TestUpstream_StatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, apperr.Upstream(http.StatusNotFound, "Product not found", nil).HTTPStatus)
	assert.Equal(t, http.StatusBadGateway, apperr.Upstream(http.StatusInternalServerError, "", nil).HTTPStatus)
	assert.Equal(t, http.StatusBadGateway, apperr.Upstream(0, "", errors.New("dial tcp")).HTTPStatus)

	assert.Equal(t, "Backend request failed with status 503", apperr.Upstream(503, "", nil).Message)
}

/*
TestUpstreamStatus_ThroughWrapping checks that the backend status survives SessionExpired wrapping.
*/
func TestUpstreamStatus_ThroughWrapping(t *testing.T) {
	original := apperr.Upstream(http.StatusUnauthorized, "Could not validate credentials", nil)
	err := fmt.Errorf("load profile: %w", apperr.SessionExpired(original))

	require.True(t, apperr.HasCode(err, apperr.CodeSessionExpired))
	assert.Equal(t, http.StatusUnauthorized, apperr.UpstreamStatus(err))
	assert.Equal(t, 0, apperr.UpstreamStatus(errors.New("plain")))
}
