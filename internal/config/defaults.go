package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

// DefaultSnakeConfig returns the default snake configuration.
func DefaultSnakeConfig() SnakeConfig {
	return SnakeConfig{
		Grid: GridConfig{
			Size: 14,
		},
		Snake: SnakeParams{
			InitialSpeed: 180 * time.Millisecond,
			StartDelay:   50 * time.Millisecond,
		},
		Scoring: ScoringConfig{
			FoodBase:    10,
			FoodMin:     1,
			PowerUpBase: 20,
			PowerUpMin:  2,
			DecayRate:   10,
		},
		Spawn: SpawnConfig{
			PowerUpMinFood: 5,
			PowerUpMaxFood: 8,
			MaxAttempts:    64,
		},
		PowerUps: PowerUpConfig{
			SpeedDuration:      10 * time.Second,
			ShrinkDuration:     10 * time.Second,
			InvincibleDuration: 10 * time.Second,
			MagnetDuration:     8 * time.Second,
			ShrinkSteps:        3,
			ShrinkInterval:     300 * time.Millisecond,
			MagnetRange:        5,
		},
		Leaderboard: LeaderboardConfig{
			Timeout: 5 * time.Second,
			Limit:   10,
		},
	}
}
