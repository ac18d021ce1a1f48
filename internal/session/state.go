// Copyright (c) 2026 Vereinskasse. All rights reserved.
// Author: Vereinskasse Kiosk Team

package session

// State is the position of the terminal's session in its lifecycle.
//
//	Anonymous ──login──▶ Authenticating ──ok──▶ Authenticated
//	    ▲                      │                     │
//	    └────────fail──────────┘              401 ──▶ RefreshPending
//	    ▲                                            │
//	    └───────────────────fail─────────────────────┘
//
// Anonymous and Authenticated are stable; the other two are transient.
type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
	RefreshPending
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case RefreshPending:
		return "refresh_pending"
	default:
		return "anonymous"
	}
}

// MarshalText renders the state by name in JSON responses.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Stable reports whether no login or refresh is in flight.
func (s State) Stable() bool {
	return s == Anonymous || s == Authenticated
}
