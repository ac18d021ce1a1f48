// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package session

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"github.com/vereinskasse/kiosk/internal/members"
	requestutil "github.com/vereinskasse/kiosk/internal/platform/request"
	"github.com/vereinskasse/kiosk/internal/platform/respond"
	"github.com/vereinskasse/kiosk/internal/platform/validate"
	"github.com/vereinskasse/kiosk/pkg/money"
)

// ProfileRefresher reloads the logged-in member from the backend.
type ProfileRefresher interface {
	RefreshProfile(ctx context.Context) (*members.User, error)
}

// Handler exposes the session store to the kiosk UI.
type Handler struct {
	store    *Store
	profiles ProfileRefresher
	locale   language.Tag
}

// NewHandler constructs a session [Handler].
func NewHandler(store *Store, profiles ProfileRefresher, locale language.Tag) *Handler {
	return &Handler{store: store, profiles: profiles, locale: locale}
}

// Routes returns the router mounted at /session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.get)
	router.Post("/login", handler.login)
	router.Post("/rfid", handler.loginWithToken)
	router.Post("/logout", handler.logout)
	router.Post("/profile", handler.refreshProfile)

	return router
}

// sessionView is the UI's picture of the terminal session.
type sessionView struct {
	State          State         `json:"state"`
	Authenticated  bool          `json:"is_authenticated"`
	User           *members.User `json:"user,omitempty"`
	BalanceDisplay string        `json:"balance_display,omitempty"`
	ExpiresAt      *time.Time    `json:"access_token_expires_at,omitempty"`
}

func (handler *Handler) view() sessionView {
	view := sessionView{State: handler.store.State()}

	if identity, ok := handler.store.Identity(); ok {
		view.Authenticated = true
		view.User = &identity
		view.BalanceDisplay = money.Format(identity.Balance, handler.locale)
	}
	if expiry, ok := handler.store.AccessTokenExpiry(); ok {
		view.ExpiresAt = &expiry
	}
	return view
}

/*
GET /api/v1/session.

Response:
  - 200: sessionView
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.view())
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

/*
POST /api/v1/session/login.

Request:
  - body: loginRequest {username, password}

Response:
  - 200: sessionView
  - 400: Validation failed
  - 401: AUTHENTICATION_FAILED
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if err := v.Required("username", input.Username).Required("password", input.Password).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if _, err := handler.store.Login(request.Context(), input.Username, input.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, handler.view())
}

type rfidRequest struct {
	Token string `json:"rfid_token"`
}

// POST /api/v1/session/rfid: login with a member card.
func (handler *Handler) loginWithToken(writer http.ResponseWriter, request *http.Request) {
	var input rfidRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := (&validate.Validator{}).Required("rfid_token", input.Token).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if _, err := handler.store.LoginWithToken(request.Context(), input.Token); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, handler.view())
}

func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	handler.store.Logout(request.Context())
	respond.NoContent(writer)
}

// POST /api/v1/session/profile: reload identity and balance from the backend.
func (handler *Handler) refreshProfile(writer http.ResponseWriter, request *http.Request) {
	if _, err := handler.profiles.RefreshProfile(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, handler.view())
}
