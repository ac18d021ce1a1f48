// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package session

import (
	"context"
	"net/http"

	"github.com/vereinskasse/kiosk/internal/client"
	"github.com/vereinskasse/kiosk/internal/members"
)

// Tokens is the credential pair issued by the backend.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Authenticator performs the credential exchanges behind the [Store].
type Authenticator interface {
	Login(ctx context.Context, identifier, secret string) (Tokens, error)
	LoginWithToken(ctx context.Context, token string) (Tokens, error)
	Refresh(ctx context.Context, refreshToken string) (Tokens, error)

	// Identity loads the member behind an access credential that the store
	// has not committed yet.
	Identity(ctx context.Context, accessToken string) (members.User, error)
}

// RemoteAuth implements [Authenticator] against the backend auth endpoints.
//
// Every exchange is sent anonymously, so a rejected login or refresh never
// re-enters the client's refresh path.
type RemoteAuth struct {
	client  *client.Client
	members members.Repository
}

// NewRemoteAuth constructs a [RemoteAuth].
func NewRemoteAuth(client *client.Client, members members.Repository) *RemoteAuth {
	return &RemoteAuth{client: client, members: members}
}

func (a *RemoteAuth) Login(ctx context.Context, identifier, secret string) (Tokens, error) {
	body := map[string]string{"username": identifier, "password": secret}
	return a.exchange(ctx, "/auth/login", body)
}

func (a *RemoteAuth) LoginWithToken(ctx context.Context, token string) (Tokens, error) {
	return a.exchange(ctx, "/auth/rfid-login", map[string]string{"rfid_token": token})
}

func (a *RemoteAuth) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	return a.exchange(ctx, "/auth/refresh", map[string]string{"refresh_token": refreshToken})
}

func (a *RemoteAuth) Identity(ctx context.Context, accessToken string) (members.User, error) {
	user, err := a.members.Me(ctx, accessToken)
	if err != nil {
		return members.User{}, err
	}
	return *user, nil
}

func (a *RemoteAuth) exchange(ctx context.Context, path string, body any) (Tokens, error) {
	var tokens Tokens
	err := a.client.Do(ctx, client.Request{
		Method:    http.MethodPost,
		Path:      path,
		Body:      body,
		Anonymous: true,
	}, &tokens)
	return tokens, err
}
