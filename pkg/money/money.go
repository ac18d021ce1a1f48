// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

/*
Package money provides the fixed-point amount type used for prices, totals and balances.

Amounts are held as integer euro cents so that cart totals never drift through
floating-point accumulation. The backend speaks decimal euros as JSON numbers;
[Cents] converts at the JSON boundary and rounds to the nearest cent.

Usage:

	price := money.FromFloat(2.5) // 250
	line := price.Times(2)        // 500
	fmt.Println(line)             // "5.00"
*/
package money

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Cents is a signed amount in euro cents.
type Cents int64

// Zero is the empty amount.
const Zero Cents = 0

// FromFloat converts a decimal euro value into cents, rounding half away from zero.
func FromFloat(euros float64) Cents {
	return Cents(math.Round(euros * 100))
}

// Float returns the amount as decimal euros.
func (c Cents) Float() float64 {
	return float64(c) / 100
}

// Times multiplies the amount by a quantity.
func (c Cents) Times(quantity int) Cents {
	return c * Cents(quantity)
}

// IsPositive reports whether the amount is strictly greater than zero.
func (c Cents) IsPositive() bool {
	return c > 0
}

// String renders the amount with two decimals and a leading minus for debts.
func (c Cents) String() string {
	sign := ""
	value := int64(c)
	if value < 0 {
		sign = "-"
		value = -value
	}
	return fmt.Sprintf("%s%d.%02d", sign, value/100, value%100)
}

// MarshalJSON encodes the amount as a decimal JSON number (e.g. 6.00).
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string in euros.
func (c *Cents) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = 0
		return nil
	}

	// Some endpoints serialise decimals as strings.
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("money: invalid amount %s: %w", data, err)
		}
		data = []byte(raw)
	}

	euros, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("money: invalid amount %s: %w", data, err)
	}

	*c = FromFloat(euros)
	return nil
}

// # Display

// Format renders the amount with the euro symbol for the given locale.
func Format(amount Cents, locale language.Tag) string {
	printer := message.NewPrinter(locale)
	return printer.Sprint(currency.Symbol(currency.EUR.Amount(amount.Float())))
}
