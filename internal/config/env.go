package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ErrNoDisplay is returned when WAYLAND_DISPLAY is unset or empty.
var ErrNoDisplay = errors.New("WAYLAND_DISPLAY is not set")

// Environment is the session environment needed to reach the compositor.
type Environment struct {
	Display    string `env:"WAYLAND_DISPLAY,notEmpty"`
	RuntimeDir string `env:"XDG_RUNTIME_DIR"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadEnvironment reads the session environment.
func LoadEnvironment() (Environment, error) {
	var e Environment
	if err := ParseEnv(&e); err != nil {
		if errors.Is(err, env.EmptyVarError{}) {
			return Environment{}, ErrNoDisplay
		}
		return Environment{}, err
	}
	return e, nil
}
