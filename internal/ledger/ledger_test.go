// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package ledger_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vereinskasse/kiosk/internal/client"
	"github.com/vereinskasse/kiosk/internal/ledger"
	"github.com/vereinskasse/kiosk/internal/platform/apperr"
	"github.com/vereinskasse/kiosk/pkg/money"
)

type recorded struct {
	method string
	path   string
	body   map[string]any
}

// newBackend serves canned JSON and records every request.
func newBackend(t *testing.T, status int, response string) (*ledger.Service, *[]recorded) {
	t.Helper()

	var requests []recorded
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entry := recorded{method: r.Method, path: r.URL.Path}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			require.NoError(t, json.Unmarshal(raw, &entry.body))
		}
		requests = append(requests, entry)

		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)

	c := client.New(client.Options{BaseURL: server.URL + "/api/v1"})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ledger.NewService(ledger.NewRemoteRepository(c), logger), &requests
}

const purchaseJSON = `{
	"id": 41,
	"transaction_reference": "TX-41",
	"user_id": 7,
	"transaction_type": "purchase",
	"status": "successful",
	"amount": 6.0,
	"balance_before": 10.0,
	"balance_after": 4.0,
	"payment_method": "balance",
	"description": "Warenkorb: 2x Cola, 1x Chips",
	"created_at": "2026-10-18T09:30:00Z"
}`

/*
TestCreate_PostsPurchase verifies the payload and decoding of a checkout booking.
*/
func TestCreate_PostsPurchase(t *testing.T) {
	service, requests := newBackend(t, http.StatusOK, purchaseJSON)

	transaction, err := service.Create(context.Background(), ledger.CreateInput{
		UserID:      7,
		Type:        ledger.TypePurchase,
		Amount:      money.Cents(600),
		Description: "Warenkorb: 2x Cola, 1x Chips",
	})

	require.NoError(t, err)
	require.Len(t, *requests, 1)
	sent := (*requests)[0]
	assert.Equal(t, http.MethodPost, sent.method)
	assert.Equal(t, "/api/v1/transactions/", sent.path)
	assert.Equal(t, "purchase", sent.body["transaction_type"])
	assert.Equal(t, "balance", sent.body["payment_method"])
	assert.InDelta(t, 6.0, sent.body["amount"], 0.0001)
	assert.InDelta(t, 7, sent.body["user_id"], 0)

	assert.Equal(t, int64(41), transaction.ID)
	assert.Equal(t, ledger.StatusSuccessful, transaction.Status)
	require.NotNil(t, transaction.BalanceAfter)
	assert.Equal(t, money.Cents(400), *transaction.BalanceAfter)
}

func TestCreate_Validation(t *testing.T) {
	service, requests := newBackend(t, http.StatusOK, purchaseJSON)

	_, err := service.Create(context.Background(), ledger.CreateInput{
		Type:          "gift",
		Amount:        0,
		PaymentMethod: "bitcoin",
	})

	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeValidation, appErr.Code)
	assert.Len(t, appErr.Details, 3)
	assert.Empty(t, *requests)
}

/*
TestCreate_ServerReasonPassesThrough keeps the backend's text for the UI.
*/
func TestCreate_ServerReasonPassesThrough(t *testing.T) {
	service, _ := newBackend(t, http.StatusBadRequest, `{"detail":"Nicht genügend Guthaben"}`)

	_, err := service.Create(context.Background(), ledger.CreateInput{
		Type:   ledger.TypePurchase,
		Amount: money.Cents(1500),
	})

	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "Nicht genügend Guthaben", appErr.Message)
	assert.Equal(t, http.StatusBadRequest, apperr.UpstreamStatus(err))
}

func TestTopUp_DefaultsToCloudAPI(t *testing.T) {
	service, requests := newBackend(t, http.StatusOK, `{"id":3,"transaction_type":"top_up","status":"pending","amount":20.0,"created_at":"2026-10-18T09:30:00Z"}`)

	transaction, err := service.TopUp(context.Background(), ledger.TopUpInput{Amount: money.Cents(2000)})

	require.NoError(t, err)
	assert.Equal(t, ledger.StatusPending, transaction.Status)
	require.Len(t, *requests, 1)
	assert.Equal(t, "/api/v1/sumup/top-up", (*requests)[0].path)
	assert.Equal(t, "cloud_api", (*requests)[0].body["payment_method"])
}

func TestTopUp_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input ledger.TopUpInput
	}{
		{"zero amount", ledger.TopUpInput{Amount: 0}},
		{"negative amount", ledger.TopUpInput{Amount: money.Cents(-500)}},
		{"cash is not a top-up method", ledger.TopUpInput{Amount: money.Cents(500), PaymentMethod: ledger.PaymentCash}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, requests := newBackend(t, http.StatusOK, `{}`)

			_, err := service.TopUp(context.Background(), tt.input)

			assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
			assert.Empty(t, *requests)
		})
	}
}

func TestMine_UsesMemberEndpoint(t *testing.T) {
	service, requests := newBackend(t, http.StatusOK, "["+purchaseJSON+"]")

	transactions, err := service.Mine(context.Background())

	require.NoError(t, err)
	assert.Len(t, transactions, 1)
	assert.Equal(t, "/api/v1/transactions/my", (*requests)[0].path)
}
