package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rdelgado/orbit/internal/config"
)

func TestLoad(t *testing.T) {
	t.Run("should load config with defaults", func(t *testing.T) {
		// Clear environment
		os.Clearenv()

		cfg := config.Load()

		require.NotNil(t, cfg)

		// Verify defaults
		require.Equal(t, "https://openrouter.ai/api/v1", cfg.Router.BaseURL)
		require.Equal(t, 300, cfg.Router.Timeout)
		require.Equal(t, "openai/gpt-4o-mini", cfg.Chat.DefaultModel)
		require.InDelta(t, 0.7, cfg.Chat.Temperature, 0.0001)
		require.Equal(t, 1000, cfg.Chat.MaxTokens)
	})

	t.Run("should load config from environment variables", func(t *testing.T) {
		// Set environment variables using t.Setenv for automatic cleanup
		t.Setenv("ORBIT_BASE_URL", "http://localhost:8081/v1")
		t.Setenv("ORBIT_TIMEOUT", "600")
		t.Setenv("ORBIT_DEFAULT_MODEL", "anthropic/claude-sonnet-4")
		t.Setenv("ORBIT_TEMPERATURE", "0.2")
		t.Setenv("ORBIT_MAX_TOKENS", "4096")

		cfg := config.Load()

		require.NotNil(t, cfg)

		// Verify loaded values
		require.Equal(t, "http://localhost:8081/v1", cfg.Router.BaseURL)
		require.Equal(t, 600, cfg.Router.Timeout)
		require.Equal(t, "anthropic/claude-sonnet-4", cfg.Chat.DefaultModel)
		require.InDelta(t, 0.2, cfg.Chat.Temperature, 0.0001)
		require.Equal(t, 4096, cfg.Chat.MaxTokens)
	})
}
