// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package ledger

import (
	"context"
	"fmt"

	"github.com/vereinskasse/kiosk/internal/client"
)

// RemoteRepository implements [Repository] over the backend REST API.
type RemoteRepository struct {
	client *client.Client
}

// NewRemoteRepository constructs a [RemoteRepository].
func NewRemoteRepository(client *client.Client) *RemoteRepository {
	return &RemoteRepository{client: client}
}

func (r *RemoteRepository) Create(ctx context.Context, input CreateInput) (*Transaction, error) {
	var transaction Transaction
	if err := r.client.Post(ctx, "/transactions/", input, &transaction); err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *RemoteRepository) List(ctx context.Context) ([]Transaction, error) {
	var transactions []Transaction
	if err := r.client.Get(ctx, "/transactions/", nil, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *RemoteRepository) FindByID(ctx context.Context, id int64) (*Transaction, error) {
	var transaction Transaction
	if err := r.client.Get(ctx, fmt.Sprintf("/transactions/%d", id), nil, &transaction); err != nil {
		return nil, err
	}
	return &transaction, nil
}

// Mine lists the transactions of the member behind the bearer token.
func (r *RemoteRepository) Mine(ctx context.Context) ([]Transaction, error) {
	var transactions []Transaction
	if err := r.client.Get(ctx, "/transactions/my", nil, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *RemoteRepository) TopUp(ctx context.Context, input TopUpInput) (*Transaction, error) {
	var transaction Transaction
	if err := r.client.Post(ctx, "/sumup/top-up", input, &transaction); err != nil {
		return nil, err
	}
	return &transaction, nil
}
