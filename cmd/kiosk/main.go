// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

// Command kiosk is the entry point for the kiosk gateway of one POS terminal.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load .env and configuration from environment variables.
//  3. Open the session store (file, Redis or PostgreSQL).
//  4. Build the backend client and restore the persisted session.
//  5. Wire domain services and HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	"github.com/vereinskasse/kiosk/internal/api"
	"github.com/vereinskasse/kiosk/internal/cart"
	"github.com/vereinskasse/kiosk/internal/catalog"
	"github.com/vereinskasse/kiosk/internal/checkout"
	"github.com/vereinskasse/kiosk/internal/client"
	"github.com/vereinskasse/kiosk/internal/guests"
	"github.com/vereinskasse/kiosk/internal/ledger"
	"github.com/vereinskasse/kiosk/internal/members"
	"github.com/vereinskasse/kiosk/internal/platform/config"
	"github.com/vereinskasse/kiosk/internal/platform/constants"
	"github.com/vereinskasse/kiosk/internal/platform/kv"
	"github.com/vereinskasse/kiosk/internal/platform/migration"
	pgstore "github.com/vereinskasse/kiosk/internal/platform/postgres"
	redisstore "github.com/vereinskasse/kiosk/internal/platform/redis"
	"github.com/vereinskasse/kiosk/internal/session"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	// A missing .env is fine; the environment alone may be complete.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		must(log, err, "load .env")
	}

	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}
	log = log.With(slog.String("terminal", cfg.TerminalID))

	locale, err := language.Parse(cfg.Locale)
	must(log, err, "parse locale")

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("backend", cfg.BackendBaseURL()),
		slog.String("session_backend", cfg.SessionBackend),
	)

	// Fail fast on misconfigured stores instead of hanging.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Session Store ──────────────────────────────────────────────────
	state, err := openStateStore(startupCtx, cfg, log)
	must(log, err, "open session store")
	defer state.close()

	// ── 4. Backend Client & Session ───────────────────────────────────────
	backend := client.New(client.Options{
		BaseURL: cfg.BackendBaseURL(),
		Timeout: cfg.APITimeout,
		RPS:     cfg.OutboundRPS,
		Burst:   cfg.OutboundBurst,
		Logger:  log,
	})

	memberRepository := members.NewRemoteRepository(backend)
	sessionStore := session.NewStore(session.NewRemoteAuth(backend, memberRepository), log)

	restored, err := session.Restore(startupCtx, state.store, cfg.SessionKey(), sessionStore, log)
	must(log, err, "restore session")
	log.Info("session_restored", slog.Bool("found", restored), slog.String("state", sessionStore.State().String()))

	sessionStore.Observe(session.Persist(state.store, cfg.SessionKey(), log))
	backend.Bind(sessionStore)
	backend.OnSessionLost(func() {
		log.Warn("session_lost", slog.String("reason", "token_refresh_failed"))
	})

	// ── 5. Domain Wiring ──────────────────────────────────────────────────
	catalogService := catalog.NewService(catalog.NewRemoteRepository(backend), log)
	ledgerService := ledger.NewService(ledger.NewRemoteRepository(backend), log)
	membersService := members.NewService(memberRepository, sessionStore, log)
	guestsService := guests.NewService(guests.NewRemoteRepository(backend), log)

	memberCart := cart.New(catalog.TierMember)
	guestCart := cart.New(catalog.TierGuest)
	sessionStore.Observe(session.OnSessionEnd(memberCart.Clear, guestCart.Clear))

	checkoutService := checkout.NewService(memberCart, sessionStore, ledgerService, membersService, log)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckBackend:      backend.Health,
		CheckSessionStore: state.check,
		SessionBackend:    cfg.SessionBackend,
	}, log)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Session:   session.NewHandler(sessionStore, checkoutService, locale),
		Catalog:   catalog.NewHandler(catalogService),
		Cart:      cart.NewHandler(memberCart, catalogService, locale),
		Checkout:  checkout.NewHandler(checkoutService),
		Ledger:    ledger.NewHandler(ledgerService),
		Members:   members.NewHandler(membersService),
		Guests:    guests.NewHandler(guestsService, guestCart),
		GuestCart: cart.NewHandler(guestCart, catalogService, locale),
	}

	// ── 6. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, sessionStore, handlers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("server_shutting_down", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// stateStore is the opened session backend plus its readiness probe.
type stateStore struct {
	store kv.Store
	check func(ctx context.Context) error
	close func()
}

// openStateStore connects the backend selected by SESSION_BACKEND.
func openStateStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (stateStore, error) {
	switch cfg.SessionBackend {
	case config.BackendMemory:
		log.Warn("session_store_volatile", slog.String("backend", cfg.SessionBackend))
		return stateStore{store: kv.NewMemoryStore(), close: func() {}}, nil

	case config.BackendFile:
		store, err := kv.NewFileStore(cfg.SessionDir)
		if err != nil {
			return stateStore{}, err
		}
		probe := func(ctx context.Context) error {
			_, _, err := store.Get(ctx, cfg.SessionKey())
			return err
		}
		return stateStore{store: store, check: probe, close: func() {}}, nil

	case config.BackendRedis:
		rdb, err := redisstore.NewClient(ctx, cfg.RedisURL, log)
		if err != nil {
			return stateStore{}, err
		}
		return stateStore{
			store: kv.NewRedisStore(rdb),
			check: func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
			close: func() {
				if err := rdb.Close(); err != nil {
					log.Error("redis_close_failed", slog.Any("error", err))
				}
			},
		}, nil

	case config.BackendPostgres:
		if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log); err != nil {
			return stateStore{}, err
		}
		pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return stateStore{}, err
		}
		return stateStore{
			store: kv.NewPostgresStore(pool),
			check: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
			close: pool.Close,
		}, nil
	}
	return stateStore{}, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
