package utils

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	// AllowedOrigins are the WebSocket origin patterns accepted on upgrade.
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// Web3FormsKey enables outbound feedback notifications when set.
	Web3FormsKey string `env:"WEB3FORMS_KEY"`

	// AwayGracePeriod is how long a disconnected participant stays in its
	// rooms before removal.
	AwayGracePeriod time.Duration `env:"AWAY_GRACE_PERIOD" envDefault:"5m" validate:"min=1s"`
}

// LoadConfig reads the optional .env file and parses the environment into a
// validated Config.
func LoadConfig() (*Config, error) {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
