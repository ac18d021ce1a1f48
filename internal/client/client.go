// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

/*
Package client is the single egress point from the kiosk to the club backend.

Every outbound request goes through [Client.Do], which attaches the terminal's
current access credential and implements exactly one automatic recovery path:
a 401 on a fresh request triggers one credential refresh and one resend.

Flow:

	fresh ──401──▶ refresh ──ok──▶ retried ──401──▶ hard failure
	                  │
	                  └──fail──▶ session lost, SessionExpired

Anonymous requests (login, RFID login, refresh, health) never carry a bearer
and never enter the recovery path.
*/
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/vereinskasse/kiosk/internal/platform/apperr"
	"github.com/vereinskasse/kiosk/internal/platform/constants"
	"github.com/vereinskasse/kiosk/internal/platform/ctxutil"
	"github.com/vereinskasse/kiosk/pkg/uuid"
)

// TokenSource supplies the access credential at send time.
//
// The session store implements it; the client only holds a non-owning
// reference and never caches the credential across requests.
type TokenSource interface {
	// AccessToken returns the current credential, or "" when anonymous.
	AccessToken() string

	// Refresh exchanges the refresh credential for a new access credential.
	Refresh(ctx context.Context) (string, error)
}

// Options configures a [Client].
type Options struct {
	// BaseURL includes the API prefix, e.g. "http://localhost:8000/api/v1".
	BaseURL string

	// Timeout bounds one HTTP exchange. Defaults to 30s.
	Timeout time.Duration

	// RPS and Burst shape outbound traffic. RPS <= 0 disables limiting.
	RPS   float64
	Burst int

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Client sends JSON requests to the backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger

	mu            sync.RWMutex
	tokens        TokenSource
	onSessionLost func()
}

// New builds a [Client]. Bind a [TokenSource] before sending authenticated requests.
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = constants.DefaultBackendTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var limiter *rate.Limiter
	if opts.RPS > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RPS), burst)
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: httpClient,
		limiter:    limiter,
		logger:     logger,
	}
}

// Bind attaches the credential source. It is called once during wiring,
// because the session store itself needs the client to log in.
func (c *Client) Bind(tokens TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = tokens
}

// OnSessionLost registers the hook fired when a refresh fails. The
// presentation layer uses it to send the user back to the login screen.
func (c *Client) OnSessionLost(hook func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onSessionLost = hook
}

// Request describes one backend call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any

	// Anonymous requests carry no bearer and skip the refresh path.
	Anonymous bool

	// Token pins an explicit credential, used right after login before the
	// session commits it. Pinned requests never trigger a refresh.
	Token string
}

// retryState is the per-request recovery state.
type retryState int

const (
	fresh retryState = iota
	retried
)

// Do sends req and decodes a successful JSON response into out (may be nil).
//
// A 401 on a fresh authenticated request refreshes the credential once and
// resends the original request. Any other failure is an UPSTREAM_ERROR
// carrying the backend's status and message.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	var payload []byte
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("client_encode_body_failed: %w", err)
		}
		payload = encoded
	}

	tokens, onLost := c.binding()
	recoverable := !req.Anonymous && req.Token == "" && tokens != nil

	token := req.Token
	if recoverable {
		token = tokens.AccessToken()
	}

	state := fresh
	for {
		response, err := c.send(ctx, req, payload, token)
		if err != nil {
			return apperr.Upstream(0, "", fmt.Errorf("client_%s_failed: %w", strings.ToLower(req.Method), err))
		}

		if response.StatusCode == http.StatusUnauthorized && recoverable && state == fresh {
			original := c.failure(req, response)
			state = retried

			renewed, refreshErr := tokens.Refresh(ctx)
			if refreshErr != nil {
				c.logger.WarnContext(ctx, "client_token_refresh_failed",
					slog.String("path", req.Path),
					slog.Any("error", refreshErr),
				)
				if onLost != nil {
					onLost()
				}
				return apperr.SessionExpired(original)
			}

			c.logger.DebugContext(ctx, "client_request_retried", slog.String("path", req.Path))
			token = renewed
			continue
		}

		if response.StatusCode >= http.StatusBadRequest {
			return c.failure(req, response)
		}

		return decode(response, out)
	}
}

// Get sends an authenticated GET.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// Post sends an authenticated POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// Put sends an authenticated PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

// Patch sends an authenticated PATCH.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPatch, Path: path, Body: body}, out)
}

// Delete sends an authenticated DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, nil)
}

// Health checks backend liveness without credentials.
func (c *Client) Health(ctx context.Context) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: "/health", Anonymous: true}, nil)
}

func (c *Client) binding() (TokenSource, func()) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokens, c.onSessionLost
}

// send performs one HTTP exchange. The body is rebuilt from payload so a
// resend carries exactly the original bytes.
func (c *Client) send(ctx context.Context, req Request, payload []byte, token string) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, err
	}

	httpRequest.Header.Set("Accept", constants.ContentTypeJSON)
	if payload != nil {
		httpRequest.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	}
	if token != "" {
		httpRequest.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+token)
	}
	httpRequest.Header.Set(constants.HeaderXRequestID, requestID(ctx))

	return c.httpClient.Do(httpRequest)
}

// failure drains an error response into an UPSTREAM_ERROR.
func (c *Client) failure(req Request, response *http.Response) *apperr.AppError {
	defer response.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(response.Body, constants.MaxErrorBodyBytes))
	message := ErrorMessage(body)

	c.logger.Debug("client_request_rejected",
		slog.String("method", req.Method),
		slog.String("path", req.Path),
		slog.Int("status", response.StatusCode),
		slog.String("message", message),
	)

	cause := fmt.Errorf("%s %s: status %d", req.Method, req.Path, response.StatusCode)
	return apperr.Upstream(response.StatusCode, message, cause)
}

func decode(response *http.Response, out any) error {
	defer response.Body.Close()

	if out == nil || response.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, constants.MaxResponseBodyBytes))
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(response.Body, constants.MaxResponseBodyBytes+1))
	if err != nil {
		return apperr.Upstream(0, "", fmt.Errorf("client_read_body_failed: %w", err))
	}
	if len(body) > constants.MaxResponseBodyBytes {
		return apperr.Upstream(0, "Backend response too large", nil)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return apperr.Upstream(0, "", fmt.Errorf("client_decode_body_failed: %w", err))
	}
	return nil
}

// requestID forwards the inbound gateway id, or mints one for background calls.
func requestID(ctx context.Context) string {
	if id := ctxutil.GetRequestID(ctx); id != "" {
		return id
	}
	return uuid.New()
}
