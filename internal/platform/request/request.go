// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vereinskasse/kiosk/internal/platform/apperr"
	"github.com/vereinskasse/kiosk/internal/platform/ctxutil"
	"github.com/vereinskasse/kiosk/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// DecodeOptionalJSON is [DecodeJSON] for endpoints whose body may be omitted.
// An empty body leaves target untouched, whatever the declared length.
func DecodeOptionalJSON(request *http.Request, target any) error {
	if request.Body == nil || request.Body == http.NoBody {
		return nil
	}
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
ID parses a named numeric URL parameter.

Returns:
  - int64: The positive identifier
  - error: apperr.ValidationError if the segment is not a positive integer
*/
func ID(request *http.Request, name string) (int64, error) {
	return validate.ParseID(name, chi.URLParam(request, name))
}

// QueryInt returns the integer query parameter or fallback when absent or malformed.
func QueryInt(request *http.Request, name string, fallback int) int {
	raw := request.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

/*
RequiredMemberID returns the id of the member logged in on this terminal.

Returns:
  - int64: Member id
  - error: apperr.Unauthorized if no session is active
*/
func RequiredMemberID(request *http.Request) (int64, error) {

	// Resolved by the Identify middleware
	memberID, ok := ctxutil.GetMemberID(request.Context())
	if !ok {
		return 0, apperr.Unauthorized("Authentication required")
	}

	return memberID, nil
}
