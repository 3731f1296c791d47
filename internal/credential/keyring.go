package credential

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "orbit"
	keyringAccount = "openrouter-api-key"
)

// KeyringStore persists the credential in the platform keyring.
// go-keyring selects the concrete backend per platform: Keychain on
// darwin, Credential Manager on windows, Secret Service over D-Bus on
// linux.
type KeyringStore struct {
	service string
	account string
}

// NewKeyringStore creates a keyring-backed store under the fixed
// orbit service identifier.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{
		service: keyringService,
		account: keyringAccount,
	}
}

// Get returns the secret from the platform keyring.
func (s *KeyringStore) Get(_ context.Context) (string, error) {
	secret, err := keyring.Get(s.service, s.account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		// An unavailable backend (e.g. no Secret Service on a headless
		// host) is treated as absence so the chain can fall through.
		return "", fmt.Errorf("%w: keyring: %s", ErrNotFound, err)
	}

	return secret, nil
}

// Set writes the secret to the platform keyring.
func (s *KeyringStore) Set(_ context.Context, secret string) error {
	if err := keyring.Set(s.service, s.account, secret); err != nil {
		return fmt.Errorf("failed to store credential in keyring: %w", err)
	}

	return nil
}

// Name returns the store identifier.
func (s *KeyringStore) Name() string {
	return "keyring"
}
