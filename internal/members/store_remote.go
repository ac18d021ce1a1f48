// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package members

import (
	"context"
	"fmt"
	"net/http"

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

func (r *RemoteRepository) Me(ctx context.Context, token string) (*User, error) {
	var user User
	err := r.client.Do(ctx, client.Request{Method: http.MethodGet, Path: "/members/me", Token: token}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *RemoteRepository) List(ctx context.Context) ([]User, error) {
	var users []User
	if err := r.client.Get(ctx, "/users/", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *RemoteRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	var user User
	if err := r.client.Get(ctx, userPath(id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *RemoteRepository) Create(ctx context.Context, input CreateInput) (*User, error) {
	var user User
	if err := r.client.Post(ctx, "/users/", input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *RemoteRepository) Update(ctx context.Context, id int64, input UpdateInput) (*User, error) {
	var user User
	if err := r.client.Put(ctx, userPath(id), input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *RemoteRepository) Delete(ctx context.Context, id int64) error {
	return r.client.Delete(ctx, userPath(id))
}

func (r *RemoteRepository) AdjustBalance(ctx context.Context, id int64, adjustment BalanceAdjustment) (*User, error) {
	var user User
	if err := r.client.Post(ctx, userPath(id)+"/adjust-balance", adjustment, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *RemoteRepository) ResetPassword(ctx context.Context, id int64, newPassword string) error {
	body := map[string]string{"new_password": newPassword}
	return r.client.Post(ctx, userPath(id)+"/reset-password", body, nil)
}

func userPath(id int64) string {
	return fmt.Sprintf("/users/%d", id)
}
