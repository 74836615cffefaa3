package engine

import (
	"errors"
	"fmt"
)

// Timing defaults and validation bounds.
const (
	DefaultMovementIntervalMs    = 200
	DefaultTransporterIntervalMs = 100
	DefaultVolatileDelayMs       = 250

	MinGridSize = 1
	MaxGridSize = 64

	MaxBulkMoves = 50
)

var ErrInvalidConfig = errors.New("invalid configuration")

// GameConfig is the level-set configuration a session is created from.
type GameConfig struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	// Levels maps level numbers to raw level text. Level 0 is the hub the
	// player returns to after finishing a level.
	Levels map[uint16]string `json:"levels"`

	// StartLevel is the level loaded when a session starts.
	StartLevel uint16 `json:"start_level"`

	// Timer periods; zero means the default.
	MovementIntervalMs    int `json:"movement_interval_ms,omitempty"`
	TransporterIntervalMs int `json:"transporter_interval_ms,omitempty"`
	VolatileDelayMs       int `json:"volatile_delay_ms,omitempty"`
}

// ValidateGameConfig checks a configuration before an engine is built
// from it. Level content itself is not validated here; malformed levels
// fall back to the built-in default at load time.
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config cannot be nil", ErrInvalidConfig)
	}
	if config.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}
	if len(config.Levels) == 0 {
		return fmt.Errorf("%w: at least one level is required", ErrInvalidConfig)
	}
	if _, ok := config.Levels[config.StartLevel]; !ok {
		return fmt.Errorf("%w: start level %d not in level set", ErrInvalidConfig, config.StartLevel)
	}
	if config.MovementIntervalMs < 0 || config.TransporterIntervalMs < 0 || config.VolatileDelayMs < 0 {
		return fmt.Errorf("%w: timer intervals cannot be negative", ErrInvalidConfig)
	}

	for number, content := range config.Levels {
		dims := LoadLevel(content).Dimensions
		if dims.Width < MinGridSize || dims.Width > MaxGridSize ||
			dims.Height < MinGridSize || dims.Height > MaxGridSize {
			return fmt.Errorf("%w: level %d has out-of-range dimensions %dx%d",
				ErrInvalidConfig, number, dims.Width, dims.Height)
		}
	}

	return nil
}

func (c *GameConfig) movementIntervalMs() int {
	if c != nil && c.MovementIntervalMs > 0 {
		return c.MovementIntervalMs
	}
	return DefaultMovementIntervalMs
}

func (c *GameConfig) transporterIntervalMs() int {
	if c != nil && c.TransporterIntervalMs > 0 {
		return c.TransporterIntervalMs
	}
	return DefaultTransporterIntervalMs
}

func (c *GameConfig) volatileDelayMs() int {
	if c != nil && c.VolatileDelayMs > 0 {
		return c.VolatileDelayMs
	}
	return DefaultVolatileDelayMs
}
