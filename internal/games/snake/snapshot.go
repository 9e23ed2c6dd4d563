package snake

import "time"

// GameStateType represents the current game state.
type GameStateType string

const (
	StateRunning  GameStateType = "running"
	StatePaused   GameStateType = "paused"
	StateGameOver GameStateType = "game_over"
)

// RunSummary is recorded when a round ends.
type RunSummary struct {
	Score     int
	Length    int
	Ticks     uint64
	FoodEaten int
	PowerUps  int
	Duration  time.Duration
	Seed      int64
}

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick        uint64
	Score       int
	SnakeLen    int
	HeadX       int
	HeadY       int
	Dir         Direction
	Travel      int
	Speed       time.Duration
	FoodX       int
	FoodY       int
	HasPowerUp  bool
	PowerUpType PowerUpType
	Invincible  bool
	Magnet      bool
	Active      int // Number of running effects
	State       GameStateType
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	head := g.snake.Head()
	snap := Snapshot{
		Tick:       g.ticks,
		Score:      g.score,
		SnakeLen:   g.snake.Len(),
		HeadX:      head.X,
		HeadY:      head.Y,
		Dir:        g.snake.Direction,
		Travel:     g.snake.Travel,
		Speed:      g.snake.Speed,
		FoodX:      g.food.X,
		FoodY:      g.food.Y,
		Invincible: g.powerups.Invincible(),
		Magnet:     g.powerups.MagnetActive(),
		Active:     len(g.powerups.active),
		State:      g.state,
	}
	if g.powerUp != nil {
		snap.HasPowerUp = true
		snap.PowerUpType = g.powerUp.Type
	}
	return snap
}
