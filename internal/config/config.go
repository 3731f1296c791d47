package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"
)

// Config represents the orbit configuration.
type Config struct {
	Router RouterConfig
	Chat   ChatConfig
}

// RouterConfig contains settings for the routing API endpoint.
type RouterConfig struct {
	BaseURL string `env:"ORBIT_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	// Generation can be slow; the timeout covers the whole streamed response.
	Timeout int `env:"ORBIT_TIMEOUT" envDefault:"300"`
}

// ChatConfig contains completion call defaults.
type ChatConfig struct {
	DefaultModel string  `env:"ORBIT_DEFAULT_MODEL" envDefault:"openai/gpt-4o-mini"`
	Temperature  float64 `env:"ORBIT_TEMPERATURE"   envDefault:"0.7"`
	MaxTokens    int     `env:"ORBIT_MAX_TOKENS"    envDefault:"1000"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out
	*RouterConfig
	*ChatConfig
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		dig.Out{},
		&cfg.Router,
		&cfg.Chat,
	}
}
