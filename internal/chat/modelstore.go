package chat

import (
	"sync"

	"github.com/rdelgado/orbit/internal/config"
)

// ModelStore holds the process default model: the identifier used by
// every call that omits an explicit model. It replaces what the caller
// would otherwise carry as hidden global state.
type ModelStore struct {
	mu    sync.RWMutex
	model string
}

// NewModelStore seeds the store from configuration.
func NewModelStore(cfg *config.ChatConfig) *ModelStore {
	return &ModelStore{model: cfg.DefaultModel}
}

// Get returns the current default model.
func (s *ModelStore) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.model
}

// Set replaces the default model. Empty values are rejected.
func (s *ModelStore) Set(model string) error {
	if model == "" {
		return ErrNoModel
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.model = model
	return nil
}
