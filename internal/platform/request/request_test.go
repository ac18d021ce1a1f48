// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package requestutil_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	requestutil "github.com/vereinskasse/kiosk/internal/platform/request"
	"github.com/vereinskasse/kiosk/internal/platform/validate"
)

type payload struct {
	PaymentMethod string `json:"payment_method"`
}

/*
TestDecodeOptionalJSON covers bodies of unknown length, which arrive with
ContentLength -1 and must still count as omitted when empty.
*/
func TestDecodeOptionalJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    io.Reader
		want    string
		wantErr error
	}{
		{"no_body", http.NoBody, "", nil},
		{"empty_unknown_length", io.MultiReader(strings.NewReader("")), "", nil},
		{"whitespace_only", io.MultiReader(strings.NewReader("  \n")), "", nil},
		{"valid", strings.NewReader(`{"payment_method":"cash"}`), "cash", nil},
		{"malformed", io.MultiReader(strings.NewReader(`{"payment_method":`)), "", validate.ErrInvalidJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPost, "/api/v1/cart/checkout", tt.body)

			var got payload
			err := requestutil.DecodeOptionalJSON(request, &got)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.PaymentMethod)
		})
	}
}

/*
TestDecodeJSON_RequiresBody tests that mandatory bodies still reject an empty payload.
*/
func TestDecodeJSON_RequiresBody(t *testing.T) {
	request := httptest.NewRequest(http.MethodPost, "/api/v1/topup", io.MultiReader(strings.NewReader("")))

	var got payload
	err := requestutil.DecodeJSON(request, &got)

	assert.ErrorIs(t, err, validate.ErrInvalidJSON)
}
