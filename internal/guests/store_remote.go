// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package guests

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vereinskasse/kiosk/internal/client"
	"github.com/vereinskasse/kiosk/internal/ledger"
)

// RemoteRepository implements [Repository] over the backend REST API.
type RemoteRepository struct {
	client *client.Client
}

// NewRemoteRepository constructs a [RemoteRepository].
func NewRemoteRepository(client *client.Client) *RemoteRepository {
	return &RemoteRepository{client: client}
}

func (r *RemoteRepository) List(ctx context.Context, activeOnly bool) ([]Guest, error) {
	query := url.Values{"active_only": {strconv.FormatBool(activeOnly)}}

	var guests []Guest
	if err := r.client.Get(ctx, "/guests/", query, &guests); err != nil {
		return nil, err
	}
	return guests, nil
}

func (r *RemoteRepository) FindByID(ctx context.Context, id int64) (*Guest, error) {
	var guest Guest
	if err := r.client.Get(ctx, guestPath(id), nil, &guest); err != nil {
		return nil, err
	}
	return &guest, nil
}

func (r *RemoteRepository) Create(ctx context.Context, input Input) (*Guest, error) {
	var guest Guest
	if err := r.client.Post(ctx, "/guests/", input, &guest); err != nil {
		return nil, err
	}
	return &guest, nil
}

func (r *RemoteRepository) Update(ctx context.Context, id int64, input Input) (*Guest, error) {
	var guest Guest
	if err := r.client.Put(ctx, guestPath(id), input, &guest); err != nil {
		return nil, err
	}
	return &guest, nil
}

func (r *RemoteRepository) Delete(ctx context.Context, id int64) error {
	return r.client.Delete(ctx, guestPath(id))
}

// AddItem books one line onto the tab. The backend takes the arguments as
// query parameters and prices the line itself.
func (r *RemoteRepository) AddItem(ctx context.Context, guestID, productID int64, quantity int) (*TabTotal, error) {
	var total TabTotal
	err := r.client.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   guestPath(guestID) + "/add-item",
		Query: url.Values{
			"product_id": {strconv.FormatInt(productID, 10)},
			"quantity":   {strconv.Itoa(quantity)},
		},
	}, &total)
	if err != nil {
		return nil, err
	}
	return &total, nil
}

func (r *RemoteRepository) CloseTab(ctx context.Context, id int64, method ledger.PaymentMethod) (*Settlement, error) {
	body := map[string]ledger.PaymentMethod{"payment_method": method}

	var settlement Settlement
	if err := r.client.Post(ctx, guestPath(id)+"/close-tab", body, &settlement); err != nil {
		return nil, err
	}
	return &settlement, nil
}

func guestPath(id int64) string {
	return fmt.Sprintf("/guests/%d", id)
}
