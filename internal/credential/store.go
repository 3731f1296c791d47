// Package credential supplies the API key for the routing service from the
// most appropriate secure storage available on the host: the OS keyring
// (macOS Keychain, Windows Credential Manager, or the freedesktop Secret
// Service) with an environment-variable fallback.
package credential

import (
	"context"
	"errors"
)

// ErrNotFound indicates that no credential is available from a store.
var ErrNotFound = errors.New("credential not found")

// ErrReadOnly indicates that a store cannot persist credentials.
var ErrReadOnly = errors.New("credential store is read-only")

// Store provides and persists a single secret keyed by a fixed identifier.
type Store interface {
	// Get returns the stored secret, or ErrNotFound when absent.
	Get(ctx context.Context) (string, error)

	// Set persists the secret, or returns ErrReadOnly when the store
	// cannot write.
	Set(ctx context.Context, secret string) error

	// Name returns the store identifier, used for logging only.
	Name() string
}
