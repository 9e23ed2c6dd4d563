// Package snake implements the wrap-around snake game with decaying pickup
// values and timed power-ups. The Game is a plain state machine; a Runner
// drives it from a single goroutine.
package snake

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/retro-snake/internal/config"
	"github.com/vovakirdan/retro-snake/internal/core"
)

// Status is the outcome of a single tick.
type Status int

const (
	StatusIdle     Status = iota // Paused or over, nothing changed
	StatusContinue               // Moved, redraw
	StatusGameOver               // Collided this tick
)

// PickupKind identifies what the head collected on a tick.
type PickupKind int

const (
	PickupNone PickupKind = iota
	PickupFood
	PickupPowerUp
)

// TickResult reports what a tick did.
type TickResult struct {
	Status  Status
	Pickup  PickupKind
	PowerUp PowerUpType // Valid when Pickup == PickupPowerUp
	Points  int         // Score gained this tick
	Frame   Frame
}

// Option configures a Game.
type Option func(*Game)

// WithSeed fixes the RNG seed for reproducible spawns.
func WithSeed(seed int64) Option {
	return func(g *Game) { g.seed = seed }
}

// WithClock replaces the wall clock used for effect timers.
func WithClock(c core.Clock) Option {
	return func(g *Game) { g.clock = c }
}

// WithReverseGrowth makes food score without growing the snake.
func WithReverseGrowth(on bool) Option {
	return func(g *Game) { g.reverseGrowth = on }
}

// WithEffectHook registers a callback for power-up start and expiry.
func WithEffectHook(fn func(EffectEvent)) Option {
	return func(g *Game) { g.hook = fn }
}

// Game owns one round of snake. It is not safe for concurrent use.
type Game struct {
	cfg           config.SnakeConfig
	clock         core.Clock
	seed          int64
	rng           *rand.Rand
	reverseGrowth bool
	hook          func(EffectEvent)

	scoring  ScoreModel
	sched    *Scheduler
	snake    *Snake
	spawner  *Spawner
	powerups *PowerUpEngine

	food    Point
	powerUp *PowerUp // Pending power-up; shares its cell with food

	score         int
	state         GameStateType
	ticks         uint64
	foodEaten     int
	powerUpsTaken int
	startedAt     time.Time
}

// New creates a game from cfg and starts the first round.
func New(cfg config.SnakeConfig, opts ...Option) *Game {
	g := &Game{
		cfg:           cfg,
		clock:         core.SystemClock{},
		seed:          time.Now().UnixNano(),
		reverseGrowth: cfg.Snake.ReverseGrowth,
		scoring:       ScoreModelFromConfig(cfg.Scoring),
		sched:         NewScheduler(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.rng = rand.New(rand.NewSource(g.seed))
	g.spawner = NewSpawner(g.rng, cfg.Grid.Size, cfg.Spawn)
	g.Reset()
	return g
}

// Reset cancels every pending timer and starts a fresh round.
func (g *Game) Reset() {
	g.sched.CancelAll()

	g.snake = NewSnake(g.cfg.Grid.Size, g.cfg.Snake.InitialSpeed, g.scoring)
	g.spawner.Reset()
	g.powerups = NewPowerUpEngine(g.cfg.PowerUps, g.sched, g.clock, g.snake)
	g.powerups.SetHook(g.hook)

	g.powerUp = nil
	g.placeFood()

	g.score = 0
	g.state = StateRunning
	g.ticks = 0
	g.foodEaten = 0
	g.powerUpsTaken = 0
	g.startedAt = g.clock.Now()
}

// Tick advances the game by one step.
func (g *Game) Tick() TickResult {
	if g.state != StateRunning {
		return TickResult{Status: StatusIdle, Frame: g.Frame()}
	}

	g.ticks++
	g.snake.Move()

	if g.powerups.MagnetActive() && g.food != NoPoint {
		g.food = g.powerups.Pull(g.food, g.snake.Head())
		if g.powerUp != nil {
			g.powerUp.Pos = g.food
		}
	}

	res := TickResult{Status: StatusContinue}
	head := g.snake.Head()

	switch {
	case g.powerUp != nil && head == g.powerUp.Pos:
		typ := g.powerUp.Type
		g.powerups.Apply(typ)
		g.powerUp = nil
		res.Pickup = PickupPowerUp
		res.PowerUp = typ
		res.Points = g.snake.PowerUpValue()
		g.score += res.Points
		g.powerUpsTaken++
		g.snake.ResetTravelDistance()
		g.placeFood()

	case head == g.food:
		if !g.reverseGrowth {
			g.snake.Grow()
		}
		res.Pickup = PickupFood
		res.Points = g.snake.FoodValue()
		g.score += res.Points
		g.foodEaten++
		g.snake.ResetTravelDistance()
		if pu, ok := g.spawner.GeneratePowerUp(g.snake.Body, g.powerUp != nil); ok {
			g.powerUp = &pu
			g.food = pu.Pos
		} else {
			g.placeFood()
		}
	}

	if g.snake.HitsSelf() && !g.powerups.Invincible() {
		g.state = StateGameOver
		res.Status = StatusGameOver
	}

	res.Frame = g.Frame()
	return res
}

func (g *Game) placeFood() {
	p, ok := g.spawner.GenerateFood(g.snake.Body)
	if !ok {
		p = NoPoint
	}
	g.food = p
}

// RunTimers fires every effect timer that is due. Returns true if any ran.
func (g *Game) RunTimers() bool {
	return g.sched.RunDue(g.clock.Now()) > 0
}

// NextTimer returns the deadline of the earliest pending effect timer.
func (g *Game) NextTimer() (time.Time, bool) {
	return g.sched.NextDue()
}

// Interval returns the delay until the next tick.
func (g *Game) Interval() time.Duration {
	return g.snake.Speed
}

// StartDelay returns the pause before the first tick of a round.
func (g *Game) StartDelay() time.Duration {
	return g.cfg.Snake.StartDelay
}

// Turn buffers a direction change. Ignored unless running.
func (g *Game) Turn(d Direction) bool {
	if g.state != StateRunning {
		return false
	}
	return g.snake.Turn(d)
}

// TogglePause switches between running and paused. Ignored once the game is over.
func (g *Game) TogglePause() GameStateType {
	switch g.state {
	case StateRunning:
		g.state = StatePaused
	case StatePaused:
		g.state = StateRunning
	}
	return g.state
}

// State returns the platform-facing summary.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.state == StateGameOver,
		Paused:   g.state == StatePaused,
	}
}

// Phase returns the current state machine state.
func (g *Game) Phase() GameStateType {
	return g.state
}

// Score returns the current score.
func (g *Game) Score() int {
	return g.score
}

// Body returns a copy of the snake body, head first.
func (g *Game) Body() []Point {
	return append([]Point(nil), g.snake.Body...)
}

// Food returns the food position, NoPoint when the board is full.
func (g *Game) Food() Point {
	return g.food
}

// PendingPowerUp returns the power-up waiting on the board, if any.
func (g *Game) PendingPowerUp() (PowerUp, bool) {
	if g.powerUp == nil {
		return PowerUp{}, false
	}
	return *g.powerUp, true
}

// Invincible reports whether self-collision is ignored.
func (g *Game) Invincible() bool {
	return g.powerups.Invincible()
}

// ActiveEffects returns running effects with their remaining time.
func (g *Game) ActiveEffects() []ActiveEffect {
	return g.powerups.Active()
}

// Seed returns the RNG seed.
func (g *Game) Seed() int64 {
	return g.seed
}

// Summary describes the current round.
func (g *Game) Summary() RunSummary {
	return RunSummary{
		Score:     g.score,
		Length:    g.snake.Len(),
		Ticks:     g.ticks,
		FoodEaten: g.foodEaten,
		PowerUps:  g.powerUpsTaken,
		Duration:  g.clock.Now().Sub(g.startedAt),
		Seed:      g.seed,
	}
}
