// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

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

func (r *RemoteRepository) List(ctx context.Context, category Category, availableOnly bool) ([]Product, error) {
	query := url.Values{}
	if category != "" {
		query.Set("category", string(category))
	}
	if availableOnly {
		query.Set("available_only", "true")
	}

	var products []Product
	if err := r.client.Get(ctx, "/products/", query, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *RemoteRepository) FindByID(ctx context.Context, id int64) (*Product, error) {
	var product Product
	if err := r.client.Get(ctx, productPath(id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *RemoteRepository) Create(ctx context.Context, input Input) (*Product, error) {
	var product Product
	if err := r.client.Post(ctx, "/products/", input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *RemoteRepository) Update(ctx context.Context, id int64, input Input) (*Product, error) {
	var product Product
	if err := r.client.Put(ctx, productPath(id), input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *RemoteRepository) Delete(ctx context.Context, id int64) error {
	return r.client.Delete(ctx, productPath(id))
}

func (r *RemoteRepository) ToggleAvailability(ctx context.Context, id int64) (*Product, error) {
	var product Product
	err := r.client.Do(ctx, client.Request{
		Method: http.MethodPatch,
		Path:   productPath(id) + "/toggle-availability",
	}, &product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func productPath(id int64) string {
	return fmt.Sprintf("/products/%d", id)
}
