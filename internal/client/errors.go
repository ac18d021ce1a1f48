// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package client

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ErrorMessage extracts the human-readable reason from a backend error body.
//
// Lookup order:
//  1. "detail" as a string, or a list of {"msg": ...} validation entries.
//  2. "message".
//  3. "errors" as a list of strings or a map of field to list of strings.
//
// It returns "" when none is present, letting the caller fall back to a
// generic message.
func ErrorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}

	parsed := gjson.ParseBytes(body)

	if detail := parsed.Get("detail"); detail.Exists() {
		if detail.IsArray() {
			var parts []string
			for _, entry := range detail.Array() {
				if msg := entry.Get("msg"); msg.Exists() {
					parts = append(parts, msg.String())
				} else if entry.Type == gjson.String {
					parts = append(parts, entry.String())
				}
			}
			if len(parts) > 0 {
				return strings.Join(parts, ", ")
			}
		} else if detail.Type == gjson.String && detail.String() != "" {
			return detail.String()
		}
	}

	if message := parsed.Get("message"); message.Type == gjson.String && message.String() != "" {
		return message.String()
	}

	if errs := parsed.Get("errors"); errs.Exists() {
		var parts []string
		collect := func(value gjson.Result) {
			if value.IsArray() {
				for _, item := range value.Array() {
					parts = append(parts, item.String())
				}
				return
			}
			parts = append(parts, value.String())
		}

		if errs.IsObject() {
			errs.ForEach(func(_, value gjson.Result) bool {
				collect(value)
				return true
			})
		} else {
			collect(errs)
		}

		if len(parts) > 0 {
			return strings.Join(parts, ", ")
		}
	}

	return ""
}
