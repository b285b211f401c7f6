// Package config loads binary configuration from the environment. The
// soloquest binaries declare their settings as structs with `env` tags
// (SOLOQUEST_DB_PATH, SOLOQUEST_SEED, ...) and layer flag overrides on top.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv fills target from environment variables according to its
// `env` struct tags, leaving `envDefault` values in place when a
// variable is unset.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
