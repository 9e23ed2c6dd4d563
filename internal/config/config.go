// Package config provides YAML-based game configuration loading and
// difficulty presets for the snake game.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalid is returned (wrapped) by Validate for unusable configurations.
var ErrInvalid = errors.New("invalid config")

// SnakeConfig contains all configuration for the snake game.
type SnakeConfig struct {
	Grid        GridConfig        `yaml:"grid"`
	Snake       SnakeParams       `yaml:"snake"`
	Scoring     ScoringConfig     `yaml:"scoring"`
	Spawn       SpawnConfig       `yaml:"spawn"`
	PowerUps    PowerUpConfig     `yaml:"powerups"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
}

// GridConfig defines the board. The board wraps around on both axes.
type GridConfig struct {
	Size int `yaml:"size"`
}

// SnakeParams defines movement parameters.
type SnakeParams struct {
	InitialSpeed  time.Duration `yaml:"initial_speed"`  // Tick interval at round start
	StartDelay    time.Duration `yaml:"start_delay"`    // Delay before the first tick after a reset
	ReverseGrowth bool          `yaml:"reverse_growth"` // Score food without growing
}

// ScoringConfig defines pickup values and their decay with travel distance.
type ScoringConfig struct {
	FoodBase    int `yaml:"food_base"`
	FoodMin     int `yaml:"food_min"`
	PowerUpBase int `yaml:"powerup_base"`
	PowerUpMin  int `yaml:"powerup_min"`
	DecayRate   int `yaml:"decay_rate"` // Cells travelled per point lost
}

// SpawnConfig defines food and power-up placement.
type SpawnConfig struct {
	PowerUpMinFood int `yaml:"powerup_min_food"` // Food eaten before a power-up may appear
	PowerUpMaxFood int `yaml:"powerup_max_food"`
	MaxAttempts    int `yaml:"max_attempts"` // Random samples before scanning free cells
}

// PowerUpConfig defines effect windows and magnitudes.
type PowerUpConfig struct {
	SpeedDuration      time.Duration `yaml:"speed_duration"`
	ShrinkDuration     time.Duration `yaml:"shrink_duration"`
	InvincibleDuration time.Duration `yaml:"invincible_duration"`
	MagnetDuration     time.Duration `yaml:"magnet_duration"`
	ShrinkSteps        int           `yaml:"shrink_steps"`
	ShrinkInterval     time.Duration `yaml:"shrink_interval"`
	MagnetRange        float64       `yaml:"magnet_range"` // Euclidean distance in cells
}

// LeaderboardConfig points at the remote highscore database.
// An empty URL disables the remote and leaves only the local store.
type LeaderboardConfig struct {
	URL     string        `yaml:"url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
	Limit   int           `yaml:"limit"`
}

// Validate checks the configuration for values the game cannot run with.
func (c SnakeConfig) Validate() error {
	switch {
	case c.Grid.Size < 5:
		return fmt.Errorf("%w: grid.size must be at least 5, got %d", ErrInvalid, c.Grid.Size)
	case c.Snake.InitialSpeed < 2*time.Millisecond:
		return fmt.Errorf("%w: snake.initial_speed too small: %v", ErrInvalid, c.Snake.InitialSpeed)
	case c.Scoring.DecayRate <= 0:
		return fmt.Errorf("%w: scoring.decay_rate must be positive", ErrInvalid)
	case c.Spawn.PowerUpMinFood <= 0 || c.Spawn.PowerUpMaxFood < c.Spawn.PowerUpMinFood:
		return fmt.Errorf("%w: spawn window [%d,%d] is empty", ErrInvalid, c.Spawn.PowerUpMinFood, c.Spawn.PowerUpMaxFood)
	case c.PowerUps.SpeedDuration <= 0, c.PowerUps.ShrinkDuration <= 0,
		c.PowerUps.InvincibleDuration <= 0, c.PowerUps.MagnetDuration <= 0:
		return fmt.Errorf("%w: power-up durations must be positive", ErrInvalid)
	case c.PowerUps.ShrinkSteps < 0:
		return fmt.Errorf("%w: powerups.shrink_steps must not be negative", ErrInvalid)
	case c.PowerUps.ShrinkInterval < 0:
		return fmt.Errorf("%w: powerups.shrink_interval must not be negative", ErrInvalid)
	case c.PowerUps.MagnetRange < 0:
		return fmt.Errorf("%w: powerups.magnet_range must not be negative", ErrInvalid)
	case c.Leaderboard.Limit <= 0:
		return fmt.Errorf("%w: leaderboard.limit must be positive", ErrInvalid)
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// SpeedForPreset returns the initial tick interval for a difficulty preset.
// Unknown presets return 0, meaning "keep the configured speed".
func SpeedForPreset(preset DifficultyPreset) time.Duration {
	switch preset {
	case DifficultyEasy:
		return 220 * time.Millisecond
	case DifficultyNormal:
		return 180 * time.Millisecond
	case DifficultyHard:
		return 120 * time.Millisecond
	default:
		return 0
	}
}

// ApplySnakePreset modifies the config based on a difficulty preset.
func ApplySnakePreset(cfg *SnakeConfig, preset DifficultyPreset) {
	if speed := SpeedForPreset(preset); speed > 0 {
		cfg.Snake.InitialSpeed = speed
	}
}
