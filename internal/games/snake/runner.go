package snake

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/retro-snake/internal/core"
)

// Renderer receives a frame after every change worth redrawing.
type Renderer interface {
	Render(Frame)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(Frame)

// Render calls f(fr).
func (f RendererFunc) Render(fr Frame) { f(fr) }

type commandKind int

const (
	cmdTurn commandKind = iota
	cmdPause
	cmdReset
)

type command struct {
	kind commandKind
	dir  Direction
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger for round events.
func WithLogger(l *log.Logger) RunnerOption {
	return func(r *Runner) { r.log = l }
}

// WithGameOverHandler registers a callback invoked once per finished round.
// It runs on the runner goroutine and must not call back into the Runner.
func WithGameOverHandler(fn func(RunSummary)) RunnerOption {
	return func(r *Runner) { r.onGameOver = fn }
}

// Runner drives a Game from a single goroutine. Ticks, effect timers and
// player commands are serialised through its loop, so the Game is never
// touched concurrently.
type Runner struct {
	game       *Game
	renderer   Renderer
	log        *log.Logger
	onGameOver func(RunSummary)

	cmds chan command
	done chan struct{}
}

// NewRunner creates a runner for g that pushes frames to r.
func NewRunner(g *Game, r Renderer, opts ...RunnerOption) *Runner {
	rn := &Runner{
		game:     g,
		renderer: r,
		cmds:     make(chan command, 16),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(rn)
	}
	if rn.log == nil {
		rn.log = log.Default()
	}
	return rn
}

// Turn requests a direction change.
func (r *Runner) Turn(d Direction) {
	r.send(command{kind: cmdTurn, dir: d})
}

// TogglePause pauses or resumes the round.
func (r *Runner) TogglePause() {
	r.send(command{kind: cmdPause})
}

// Reset starts a new round.
func (r *Runner) Reset() {
	r.send(command{kind: cmdReset})
}

// Do translates a player action into a command. Returns false for actions
// the runner does not handle.
func (r *Runner) Do(a core.Action) bool {
	if d, ok := DirectionFromAction(a); ok {
		r.Turn(d)
		return true
	}
	switch a {
	case core.ActionPause:
		r.TogglePause()
	case core.ActionRestart:
		r.Reset()
	default:
		return false
	}
	return true
}

func (r *Runner) send(c command) {
	select {
	case r.cmds <- c:
	case <-r.done:
	}
}

// Run owns the game until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.done)

	tick := time.NewTimer(r.game.StartDelay())
	defer tick.Stop()
	timers := time.NewTimer(time.Hour)
	timers.Stop()
	defer timers.Stop()

	ticking := true
	r.renderer.Render(r.game.Frame())

	for {
		var timerC <-chan time.Time
		if next, ok := r.game.NextTimer(); ok {
			timers.Reset(max(0, next.Sub(r.game.clock.Now())))
			timerC = timers.C
		} else {
			timers.Stop()
		}

		var tickC <-chan time.Time
		if ticking {
			tickC = tick.C
		}

		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-tickC:
			res := r.game.Tick()
			switch res.Status {
			case StatusGameOver:
				ticking = false
				r.renderer.Render(res.Frame)
				r.finish()
			case StatusContinue:
				if res.Pickup == PickupPowerUp {
					r.log.Debug("power-up collected", "type", res.PowerUp, "points", res.Points)
				}
				r.renderer.Render(res.Frame)
				tick.Reset(r.game.Interval())
			default:
				tick.Reset(r.game.Interval())
			}

		case <-timerC:
			if r.game.RunTimers() {
				r.renderer.Render(r.game.Frame())
			}

		case c := <-r.cmds:
			switch c.kind {
			case cmdTurn:
				r.game.Turn(c.dir)
			case cmdPause:
				r.game.TogglePause()
			case cmdReset:
				r.game.Reset()
				tick.Reset(r.game.StartDelay())
				ticking = true
			}
			r.renderer.Render(r.game.Frame())
		}
	}
}

func (r *Runner) finish() {
	sum := r.game.Summary()
	r.log.Debug("round over",
		"score", sum.Score,
		"length", sum.Length,
		"ticks", sum.Ticks,
		"duration", sum.Duration.Round(time.Millisecond),
	)
	if r.onGameOver != nil {
		r.onGameOver(sum)
	}
}
