// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

/*
Package constants provides centralized, immutable values for the entire kiosk.

It defines default timeouts, rate limits, header names and storage prefixes that
are shared between the gateway, the backend client and the persistence layer.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the local HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Backend: Timeouts and payload limits for the club backend.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "vereinskasse-kiosk"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout covers a checkout round trip to the backend.
	DefaultWriteTimeout = 45 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 40 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 15 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP on the gateway.
	DefaultRateLimitRPS = 50.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 100

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Backend

const (
	// DefaultBackendTimeout bounds a single backend round trip.
	DefaultBackendTimeout = 30 * time.Second

	// MaxErrorBodyBytes caps how much of an error response is read.
	MaxErrorBodyBytes = 64 << 10

	// MaxResponseBodyBytes caps successful response bodies.
	MaxResponseBodyBytes = 8 << 20
)

// # HTTP Headers

const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"

	ContentTypeJSON = "application/json"
	BearerPrefix    = "Bearer "
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)

// # Storage Prefixes

const (
	// RedisPrefixState namespaces persisted kiosk state in a shared Redis.
	RedisPrefixState = "kiosk:state:"
)
