// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package middleware

import (
	"net/http"

	"github.com/vereinskasse/kiosk/internal/platform/apperr"
	"github.com/vereinskasse/kiosk/internal/platform/ctxutil"
	"github.com/vereinskasse/kiosk/internal/platform/respond"
	"github.com/vereinskasse/kiosk/internal/platform/sec"
)

// Principal reports who is logged in on this terminal.
//
// # Why an interface?
//
// The gateway has no bearer tokens of its own: the terminal's session store is
// the single source of identity. Keeping this an interface decouples the
// middleware from the session package and lets tests inject a fixed principal.
type Principal interface {
	Principal() (memberID int64, role sec.Role, ok bool)
}

// Identify attaches the logged-in member id to the request context.
//
// # Flow
//  1. Ask the [Principal] for the current session.
//  2. If anonymous, the request proceeds without a member id.
//  3. Otherwise the id is injected via [ctxutil.WithMemberID].
func Identify(principal Principal) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			memberID, _, ok := principal.Principal()
			if !ok {
				next.ServeHTTP(writer, request)
				return
			}

			ctx := ctxutil.WithMemberID(request.Context(), memberID)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireSession blocks requests while the terminal is anonymous.
func RequireSession(principal Principal) func(http.Handler) http.Handler {
	return RequireRole(principal, sec.RoleMember)
}

// RequireRole blocks requests if the logged-in member's role is below role.
//
// # Flow
//  1. Anonymous terminals get HTTP 401 Unauthorized.
//  2. Members below the target role get HTTP 403 Forbidden.
func RequireRole(principal Principal, role sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			_, current, ok := principal.Principal()

			// ── 1. Authentication Check ───────────────────────────────────────
			if !ok {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !current.AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
