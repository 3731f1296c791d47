package credential

import (
	"context"
	"errors"
	"runtime"

	"go.uber.org/zap"

	"github.com/rdelgado/orbit/internal/observability"
)

// Chain consults a fixed sequence of stores. Get returns the first
// secret found; Set targets the first store that accepts a write.
type Chain struct {
	stores []Store
}

// NewChain creates a chain over the given stores, in priority order.
func NewChain(stores ...Store) *Chain {
	return &Chain{stores: stores}
}

// NewStore selects the backend chain for the current platform, once at
// startup. Platforms with a keyring try it first; the environment
// variable is always the last resort.
func NewStore(logger *zap.Logger) Store {
	switch runtime.GOOS {
	case "darwin", "windows", "linux":
		logger.Debug("credential backends selected",
			zap.String("os", runtime.GOOS),
			zap.String("order", "keyring,env"),
		)
		return NewChain(NewKeyringStore(), NewEnvStore())
	default:
		logger.Debug("credential backends selected",
			zap.String("os", runtime.GOOS),
			zap.String("order", "env"),
		)
		return NewChain(NewEnvStore())
	}
}

// Get returns the first secret any store yields, or ErrNotFound when
// every store comes up empty.
func (c *Chain) Get(ctx context.Context) (string, error) {
	logger := observability.FromContext(ctx)

	for _, store := range c.stores {
		secret, err := store.Get(ctx)
		if err == nil {
			return secret, nil
		}

		if !errors.Is(err, ErrNotFound) {
			return "", err
		}

		logger.Debug("credential store empty", zap.String("store", store.Name()))
	}

	return "", ErrNotFound
}

// Set persists the secret in the first writable store.
func (c *Chain) Set(ctx context.Context, secret string) error {
	for _, store := range c.stores {
		err := store.Set(ctx, secret)
		if err == nil {
			observability.FromContext(ctx).Info("credential stored",
				zap.String("store", store.Name()))
			return nil
		}

		if !errors.Is(err, ErrReadOnly) {
			return err
		}
	}

	return ErrReadOnly
}

// Name returns the store identifier.
func (c *Chain) Name() string {
	return "chain"
}
