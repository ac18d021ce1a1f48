// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package money_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vereinskasse/kiosk/pkg/money"
)

/*
TestFromFloat_Rounding verifies that binary float noise never leaks into cents.
*/
func TestFromFloat_Rounding(t *testing.T) {
	assert.Equal(t, money.Cents(250), money.FromFloat(2.5))
	assert.Equal(t, money.Cents(30), money.FromFloat(0.1+0.2))
	assert.Equal(t, money.Cents(-1500), money.FromFloat(-15.0))
	assert.Equal(t, money.Cents(1999), money.FromFloat(19.99))
}

/*
TestCents_String checks the two-decimal rendering including debts.
*/
func TestCents_String(t *testing.T) {
	assert.Equal(t, "6.00", money.Cents(600).String())
	assert.Equal(t, "0.05", money.Cents(5).String())
	assert.Equal(t, "-0.50", money.Cents(-50).String())
}

/*
TestCents_JSON verifies the decimal wire format used by the backend.
*/
func TestCents_JSON(t *testing.T) {
	var payload struct {
		Price   money.Cents `json:"price"`
		Balance money.Cents `json:"balance"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"price": 2.5, "balance": "-3.20"}`), &payload))
	assert.Equal(t, money.Cents(250), payload.Price)
	assert.Equal(t, money.Cents(-320), payload.Balance)

	encoded, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"price": 2.50, "balance": -3.20}`, string(encoded))

	assert.Error(t, json.Unmarshal([]byte(`{"price": "abc"}`), &payload))
}
