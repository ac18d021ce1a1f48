// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

/*
Package apperr defines the centralized error handling framework for the kiosk client.

It provides a rich error type that bridges backend failures, local domain rules
(empty cart, insufficient balance) and the JSON responses of the local gateway.

Architecture:

  - AppError: A struct containing machine-readable Code and a caller-safe message.
  - Taxonomy: AUTHENTICATION_FAILED, SESSION_EXPIRED, EMPTY_CART,
    INSUFFICIENT_BALANCE and UPSTREAM_ERROR (any other network/server failure).
  - Mapping: Explicit mapping from AppError to HTTP status codes for the gateway.

The data layer never decides how an error is presented; it only classifies it.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// # Error Codes

const (
	CodeAuthenticationFailed = "AUTHENTICATION_FAILED"
	CodeSessionExpired       = "SESSION_EXPIRED"
	CodeEmptyCart            = "EMPTY_CART"
	CodeInsufficientBalance  = "INSUFFICIENT_BALANCE"
	CodeUpstream             = "UPSTREAM_ERROR"
	CodeNotFound             = "NOT_FOUND"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeForbidden            = "FORBIDDEN"
	CodeValidation           = "VALIDATION_ERROR"
	CodeInternal             = "INTERNAL_ERROR"
)

// AppError is the canonical error type of the module.
//
// # Security
//
// The Cause field is for logging only and is never sent to gateway clients.
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "EMPTY_CART").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the caller.
	Message string `json:"error"`
	// HTTPStatus is the status the local gateway answers with.
	HTTPStatus int `json:"-"`
	// UpstreamStatus is the backend's status code, 0 when the backend was not reached.
	UpstreamStatus int `json:"-"`
	// Cause is the underlying error, used for logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the caller-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Session & Checkout Taxonomy

// AuthenticationFailed creates a 401 [AppError] for rejected credentials.
// Recoverable by re-entering the credentials.
func AuthenticationFailed(msg string, cause error) *AppError {
	return &AppError{
		Code:       CodeAuthenticationFailed,
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
		Cause:      cause,
	}
}

// SessionExpired creates a 401 [AppError] for a failed credential refresh.
// The session has already been logged out when this error is returned.
func SessionExpired(cause error) *AppError {
	return &AppError{
		Code:       CodeSessionExpired,
		Message:    "Session expired, please log in again",
		HTTPStatus: http.StatusUnauthorized,
		Cause:      cause,
	}
}

// EmptyCart creates a 422 [AppError] for a checkout without lines.
func EmptyCart() *AppError {
	return &AppError{
		Code:       CodeEmptyCart,
		Message:    "Cart is empty",
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// InsufficientBalance creates a 402 [AppError]. The message is either the local
// pre-check text or the server's rejection reason verbatim.
func InsufficientBalance(msg string, cause error) *AppError {
	return &AppError{
		Code:       CodeInsufficientBalance,
		Message:    msg,
		HTTPStatus: http.StatusPaymentRequired,
		Cause:      cause,
	}
}

// Upstream creates an [AppError] for any backend or transport failure.
//
// Client errors (4xx) keep their status so the gateway passes them through;
// server and network errors (status 0 or 5xx) become 502 Bad Gateway.
func Upstream(status int, msg string, cause error) *AppError {
	httpStatus := http.StatusBadGateway
	if status >= 400 && status < 500 {
		httpStatus = status
	}
	if msg == "" {
		msg = "Backend request failed"
		if status > 0 {
			msg = fmt.Sprintf("Backend request failed with status %d", status)
		}
	}
	return &AppError{
		Code:           CodeUpstream,
		Message:        msg,
		HTTPStatus:     httpStatus,
		UpstreamStatus: status,
		Cause:          cause,
	}
}

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Product") // Returns "Product not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected error.
// The cause is stored for logging but is never sent to the caller.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// As extracts the outermost [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// HasCode reports whether the outermost [*AppError] in err's chain carries code.
func HasCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}

// UpstreamStatus returns the backend status code carried by err, or 0.
func UpstreamStatus(err error) int {
	var ae *AppError
	for current := err; current != nil; {
		if !errors.As(current, &ae) {
			return 0
		}
		if ae.UpstreamStatus != 0 {
			return ae.UpstreamStatus
		}
		current = ae.Cause
	}
	return 0
}
