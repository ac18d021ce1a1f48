// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vereinskasse/kiosk/internal/platform/apperr"
	"github.com/vereinskasse/kiosk/internal/platform/validate"
	"github.com/vereinskasse/kiosk/pkg/money"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "name", "Club-Mate", false},
		{"empty_string", "name", "", true},
		{"whitespace_only", "name", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Amounts checks the money rules used by top-up and product forms.
*/
func TestValidator_Amounts(t *testing.T) {
	v := &validate.Validator{}
	v.PositiveAmount("amount", money.Cents(500)).
		NonNegativeAmount("guest_price", money.Zero).
		NonZeroAmount("adjustment", money.Cents(-250))
	assert.False(t, v.HasErrors())

	v = &validate.Validator{}
	err := v.PositiveAmount("amount", money.Zero).
		NonNegativeAmount("member_price", money.Cents(-1)).
		NonZeroAmount("adjustment", money.Zero).
		Err()

	require.Error(t, err)
	assert.Len(t, apperr.As(err).Details, 3)
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("username", "").                  // Fails
		MinLen("username", "ab", 3).               // Fails
		Email("email", "not-an-email").            // Fails
		OneOf("payment_method", "cash", "cash", "cloud_api"). // Passes
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}

/*
TestParseID verifies path identifier parsing.
*/
func TestParseID(t *testing.T) {
	id, err := validate.ParseID("id", "17")
	require.NoError(t, err)
	assert.Equal(t, int64(17), id)

	_, err = validate.ParseID("id", "0")
	assert.Error(t, err)

	_, err = validate.ParseID("id", "abc")
	assert.Error(t, err)
}
