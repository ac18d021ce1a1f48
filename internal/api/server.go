// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into the kiosk gateway [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - The kiosk UI talks only to this gateway; the gateway owns the session,
    the carts and the backend credentials.
  - Only this package and cmd/kiosk are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vereinskasse/kiosk/internal/cart"
	"github.com/vereinskasse/kiosk/internal/catalog"
	"github.com/vereinskasse/kiosk/internal/checkout"
	"github.com/vereinskasse/kiosk/internal/guests"
	"github.com/vereinskasse/kiosk/internal/ledger"
	"github.com/vereinskasse/kiosk/internal/members"
	"github.com/vereinskasse/kiosk/internal/platform/config"
	"github.com/vereinskasse/kiosk/internal/platform/constants"
	"github.com/vereinskasse/kiosk/internal/platform/middleware"
	"github.com/vereinskasse/kiosk/internal/platform/sec"
	"github.com/vereinskasse/kiosk/internal/session"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler, 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler, 200 when backend and session store answer.
	Readiness http.HandlerFunc

	Session  *session.Handler
	Catalog  *catalog.Handler
	Cart     *cart.Handler
	Checkout *checkout.Handler
	Ledger   *ledger.Handler
	Members  *members.Handler
	Guests   *guests.Handler

	// GuestCart serves the guest-tier cart of the guest POS.
	GuestCart *cart.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups. principal is the terminal's session store.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, principal middleware.Principal, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Identify runs before the logger so log lines carry the member id.
	r.Use(middleware.RequestID())
	r.Use(middleware.Identify(principal))
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(ctx))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	admin := middleware.RequireRole(principal, sec.RoleAdmin)

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/session", h.Session.Routes())
		api.Mount("/products", h.Catalog.Routes(admin))

		api.Group(func(member chi.Router) {
			member.Use(middleware.RequireSession(principal))

			cartRoutes := h.Cart.Routes()
			cartRoutes.Post("/checkout", h.Checkout.Checkout)
			member.Mount("/cart", cartRoutes)
			member.Post("/topup", h.Checkout.TopUp)

			member.Mount("/transactions", h.Ledger.Routes(admin))

			guestRoutes := h.Guests.Routes()
			guestRoutes.Mount("/cart", h.GuestCart.Routes())
			member.Mount("/guests", guestRoutes)
		})

		api.Group(func(staff chi.Router) {
			staff.Use(admin)
			staff.Mount("/users", h.Members.Routes())
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
