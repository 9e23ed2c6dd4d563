package snake

import (
	"math"
	"slices"
	"time"

	"github.com/vovakirdan/retro-snake/internal/config"
	"github.com/vovakirdan/retro-snake/internal/core"
)

// PowerUpType represents the kind of a power-up pickup.
type PowerUpType int

const (
	PowerUpSpeed      PowerUpType = iota // Halves the tick interval
	PowerUpShrink                        // Removes tail segments
	PowerUpInvincible                    // Suppresses self-collision
	PowerUpMagnet                        // Pulls the item toward the head
)

// AllPowerUps lists every power-up type in declaration order.
var AllPowerUps = []PowerUpType{PowerUpSpeed, PowerUpShrink, PowerUpInvincible, PowerUpMagnet}

// String returns the short identifier used in logs and JSON.
func (p PowerUpType) String() string {
	switch p {
	case PowerUpSpeed:
		return "speed"
	case PowerUpShrink:
		return "shrink"
	case PowerUpInvincible:
		return "invincible"
	case PowerUpMagnet:
		return "magnet"
	default:
		return "unknown"
	}
}

// MarshalText encodes the type by its identifier.
func (p PowerUpType) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a power-up identifier.
func (p *PowerUpType) UnmarshalText(text []byte) error {
	return unmarshalName(text, p, AllPowerUps, "power-up type")
}

// Name returns the display name shown in the active effects list.
func (p PowerUpType) Name() string {
	switch p {
	case PowerUpSpeed:
		return "Speed Boost"
	case PowerUpShrink:
		return "Shrink"
	case PowerUpInvincible:
		return "Invincible"
	case PowerUpMagnet:
		return "Magnet"
	default:
		return "?"
	}
}

// Glyph returns the display character for a power-up type.
func (p PowerUpType) Glyph() rune {
	switch p {
	case PowerUpSpeed:
		return '»'
	case PowerUpShrink:
		return '↓'
	case PowerUpInvincible:
		return '◆'
	case PowerUpMagnet:
		return '∩'
	default:
		return '?'
	}
}

// PowerUp is a pending pickup on the board.
type PowerUp struct {
	Type PowerUpType
	Pos  Point
}

// EffectEventKind tells whether an effect started or ran out.
type EffectEventKind int

const (
	EffectStarted EffectEventKind = iota
	EffectExpired
)

func (k EffectEventKind) String() string {
	if k == EffectStarted {
		return "started"
	}
	return "expired"
}

// EffectEvent is emitted whenever an effect enters or leaves the active set.
type EffectEvent struct {
	Type PowerUpType
	Kind EffectEventKind
	At   time.Time
}

// ActiveEffect describes a running effect for display.
type ActiveEffect struct {
	Type      PowerUpType   `json:"type"`
	Remaining time.Duration `json:"remaining"`
}

type effect struct {
	typ          PowerUpType
	started      time.Time
	expires      time.Time
	expiry       TaskID
	steps        []TaskID
	restoreSpeed time.Duration // SPEED only
}

// PowerUpEngine applies power-up effects and expires them through the scheduler.
// Every effect type runs independently of the others.
type PowerUpEngine struct {
	cfg    config.PowerUpConfig
	sched  *Scheduler
	clock  core.Clock
	snake  *Snake
	active map[PowerUpType]*effect
	hook   func(EffectEvent)

	invincible bool
	magnet     bool
}

// NewPowerUpEngine creates an engine acting on the given snake.
func NewPowerUpEngine(cfg config.PowerUpConfig, sched *Scheduler, clock core.Clock, snake *Snake) *PowerUpEngine {
	return &PowerUpEngine{
		cfg:    cfg,
		sched:  sched,
		clock:  clock,
		snake:  snake,
		active: make(map[PowerUpType]*effect),
	}
}

// SetHook registers a callback for effect start and expiry events.
func (e *PowerUpEngine) SetHook(fn func(EffectEvent)) {
	e.hook = fn
}

// Invincible reports whether self-collision is currently ignored.
func (e *PowerUpEngine) Invincible() bool {
	return e.invincible
}

// MagnetActive reports whether the magnet is pulling the item.
func (e *PowerUpEngine) MagnetActive() bool {
	return e.magnet
}

// IsActive reports whether an effect of the given type is running.
func (e *PowerUpEngine) IsActive(t PowerUpType) bool {
	_, ok := e.active[t]
	return ok
}

// Active returns running effects in type order with their remaining time.
func (e *PowerUpEngine) Active() []ActiveEffect {
	now := e.clock.Now()
	out := make([]ActiveEffect, 0, len(e.active))
	for _, eff := range e.active {
		out = append(out, ActiveEffect{Type: eff.typ, Remaining: max(0, eff.expires.Sub(now))})
	}
	slices.SortFunc(out, func(a, b ActiveEffect) int { return int(a.Type) - int(b.Type) })
	return out
}

// Apply starts the effect of t. Collecting a type that is already running
// restarts its timer without stacking the effect.
func (e *PowerUpEngine) Apply(t PowerUpType) {
	now := e.clock.Now()
	eff, running := e.active[t]
	if running {
		e.sched.Cancel(eff.expiry)
	} else {
		eff = &effect{typ: t}
		e.active[t] = eff
	}
	eff.started = now

	var d time.Duration
	switch t {
	case PowerUpSpeed:
		d = e.cfg.SpeedDuration
		if !running {
			eff.restoreSpeed = e.snake.Speed
			e.snake.Speed = (e.snake.Speed / 2).Truncate(time.Millisecond)
		}
	case PowerUpShrink:
		d = e.cfg.ShrinkDuration
		for _, id := range eff.steps {
			e.sched.Cancel(id)
		}
		eff.steps = eff.steps[:0]
		for i := range e.cfg.ShrinkSteps {
			id := e.sched.After(now, time.Duration(i)*e.cfg.ShrinkInterval, func() {
				e.snake.Shrink()
			})
			eff.steps = append(eff.steps, id)
		}
	case PowerUpInvincible:
		d = e.cfg.InvincibleDuration
		e.invincible = true
	case PowerUpMagnet:
		d = e.cfg.MagnetDuration
		e.magnet = true
	}

	eff.expires = now.Add(d)
	eff.expiry = e.sched.After(now, d, func() { e.expire(t) })

	if !running {
		e.emit(EffectEvent{Type: t, Kind: EffectStarted, At: now})
	}
}

func (e *PowerUpEngine) expire(t PowerUpType) {
	eff, ok := e.active[t]
	if !ok {
		return
	}
	switch t {
	case PowerUpSpeed:
		e.snake.Speed = eff.restoreSpeed
	case PowerUpInvincible:
		e.invincible = false
	case PowerUpMagnet:
		e.magnet = false
	}
	delete(e.active, t)
	e.emit(EffectEvent{Type: t, Kind: EffectExpired, At: e.clock.Now()})
}

func (e *PowerUpEngine) emit(ev EffectEvent) {
	if e.hook != nil {
		e.hook(ev)
	}
}

// Pull moves item one step toward head along the axis with the larger gap
// (vertical on ties) when it is within the magnet range.
func (e *PowerUpEngine) Pull(item, head Point) Point {
	if !e.magnet {
		return item
	}
	return MagnetStep(item, head, e.cfg.MagnetRange)
}

// MagnetStep returns item moved one cell toward head if their Euclidean
// distance is at most rng.
func MagnetStep(item, head Point, rng float64) Point {
	dx := item.X - head.X
	dy := item.Y - head.Y
	if math.Hypot(float64(dx), float64(dy)) > rng {
		return item
	}
	if core.Abs(dx) > core.Abs(dy) {
		item.X -= core.Sign(dx)
	} else {
		item.Y -= core.Sign(dy)
	}
	return item
}
