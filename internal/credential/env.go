package credential

import (
	"context"
	"os"
)

// EnvVar is the environment variable consulted by the fallback store.
const EnvVar = "OPENROUTER_API_KEY"

// EnvStore reads the credential from the process environment. It is the
// fallback for hosts without a usable keyring and for CI.
type EnvStore struct{}

// NewEnvStore creates an environment-backed store.
func NewEnvStore() *EnvStore {
	return &EnvStore{}
}

// Get returns the secret from the environment.
func (s *EnvStore) Get(_ context.Context) (string, error) {
	secret := os.Getenv(EnvVar)
	if secret == "" {
		return "", ErrNotFound
	}

	return secret, nil
}

// Set is not supported; the environment belongs to the caller.
func (s *EnvStore) Set(_ context.Context, _ string) error {
	return ErrReadOnly
}

// Name returns the store identifier.
func (s *EnvStore) Name() string {
	return "env"
}
