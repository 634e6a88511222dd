package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv overlays USERAUTH_* environment variables onto config. Unset
// variables leave the current values alone.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(fmt.Errorf("parse env: %w", err))
	}
}
