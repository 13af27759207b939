// Package session persists the client-side session state: the bearer token
// issued at login and the cached display name of the signed-in user.
package session

import (
	"errors"
	"fmt"
)

// Persisted keys
const (
	TokenKey       = "token"
	DisplayNameKey = "userDisplayName"
)

// Keys lists every key owned by the session. Clear removes all of them.
var Keys = []string{TokenKey, DisplayNameKey}

// ErrUnknownKey is returned when a key outside Keys is written
var ErrUnknownKey = errors.New("unknown session key")

// Store is a key-value store scoped to a single client. Get reports whether
// the key is present; absence is not an error.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Clear() error
}

// Backend hands out stores scoped to one browser or device
type Backend interface {
	Scope(scopeID string) Store
	Close() error
}

// State is a snapshot of the persisted session
type State struct {
	Token       string
	DisplayName string
}

// Authenticated reports whether a token is present
func (s State) Authenticated() bool {
	return s.Token != ""
}

// Load reads the full session state from store
func Load(store Store) (State, error) {
	var state State

	token, ok, err := store.Get(TokenKey)
	if err != nil {
		return state, fmt.Errorf("failed to read token: %w", err)
	}
	if ok {
		state.Token = token
	}

	name, ok, err := store.Get(DisplayNameKey)
	if err != nil {
		return state, fmt.Errorf("failed to read display name: %w", err)
	}
	if ok {
		state.DisplayName = name
	}

	return state, nil
}

func checkKey(key string) error {
	for _, k := range Keys {
		if k == key {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownKey, key)
}
