package snake

import (
	"testing"
	"time"

	"github.com/vovakirdan/retro-snake/internal/config"
	"github.com/vovakirdan/retro-snake/internal/core"
)

type engineFixture struct {
	clock  *core.ManualClock
	sched  *Scheduler
	snake  *Snake
	engine *PowerUpEngine
	events []EffectEvent
}

func newEngineFixture() *engineFixture {
	f := &engineFixture{
		clock: core.NewManualClock(t0),
		sched: NewScheduler(),
		snake: newTestSnake(),
	}
	f.engine = NewPowerUpEngine(config.DefaultSnakeConfig().PowerUps, f.sched, f.clock, f.snake)
	f.engine.SetHook(func(ev EffectEvent) { f.events = append(f.events, ev) })
	return f
}

func (f *engineFixture) advance(d time.Duration) {
	f.clock.Advance(d)
	f.sched.RunDue(f.clock.Now())
}

func (f *engineFixture) growTo(n int) {
	for f.snake.Len() < n {
		f.snake.Grow()
		f.snake.Move()
	}
}

func TestSpeedHalvesAndRestores(t *testing.T) {
	f := newEngineFixture()
	f.engine.Apply(PowerUpSpeed)

	if f.snake.Speed != 90*time.Millisecond {
		t.Fatalf("Expected speed 90ms, got %v", f.snake.Speed)
	}
	f.advance(9999 * time.Millisecond)
	if !f.engine.IsActive(PowerUpSpeed) {
		t.Fatal("Speed expired early")
	}
	f.advance(time.Millisecond)
	if f.snake.Speed != 180*time.Millisecond {
		t.Errorf("Expected speed restored to 180ms, got %v", f.snake.Speed)
	}
	if f.engine.IsActive(PowerUpSpeed) {
		t.Error("Speed still active after expiry")
	}
}

func TestSpeedTruncatesToMillisecond(t *testing.T) {
	f := newEngineFixture()
	f.snake.Speed = 125 * time.Millisecond
	f.engine.Apply(PowerUpSpeed)
	if f.snake.Speed != 62*time.Millisecond {
		t.Errorf("Expected 62ms, got %v", f.snake.Speed)
	}
	f.advance(10 * time.Second)
	if f.snake.Speed != 125*time.Millisecond {
		t.Errorf("Expected 125ms restored, got %v", f.snake.Speed)
	}
}

func TestRecollectRestartsTimerWithoutStacking(t *testing.T) {
	f := newEngineFixture()
	f.engine.Apply(PowerUpSpeed)
	f.advance(6 * time.Second)
	f.engine.Apply(PowerUpSpeed)

	if f.snake.Speed != 90*time.Millisecond {
		t.Fatalf("Speed halved twice: %v", f.snake.Speed)
	}
	f.advance(6 * time.Second)
	if !f.engine.IsActive(PowerUpSpeed) {
		t.Fatal("Re-collected effect expired on the original timer")
	}
	f.advance(4 * time.Second)
	if f.snake.Speed != 180*time.Millisecond {
		t.Errorf("Expected original speed restored, got %v", f.snake.Speed)
	}

	started, expired := 0, 0
	for _, ev := range f.events {
		switch ev.Kind {
		case EffectStarted:
			started++
		case EffectExpired:
			expired++
		}
	}
	if started != 1 || expired != 1 {
		t.Errorf("Expected one start and one expiry, got %d/%d", started, expired)
	}
}

func TestShrinkStepsSpacedOut(t *testing.T) {
	f := newEngineFixture()
	f.growTo(8)
	f.engine.Apply(PowerUpShrink)

	// First step is due immediately
	f.advance(0)
	if f.snake.Len() != 7 {
		t.Fatalf("Expected length 7 after first step, got %d", f.snake.Len())
	}
	f.advance(299 * time.Millisecond)
	if f.snake.Len() != 7 {
		t.Fatalf("Second step fired early, length %d", f.snake.Len())
	}
	f.advance(time.Millisecond)
	if f.snake.Len() != 6 {
		t.Fatalf("Expected length 6, got %d", f.snake.Len())
	}
	f.advance(300 * time.Millisecond)
	if f.snake.Len() != 5 {
		t.Fatalf("Expected length 5, got %d", f.snake.Len())
	}
	f.advance(time.Second)
	if f.snake.Len() != 5 {
		t.Errorf("Extra shrink step ran, length %d", f.snake.Len())
	}
	if !f.engine.IsActive(PowerUpShrink) {
		t.Error("Shrink entry should stay until its duration ends")
	}
	f.advance(10 * time.Second)
	if f.engine.IsActive(PowerUpShrink) {
		t.Error("Shrink still active after duration")
	}
}

func TestShrinkRespectsMinimumAtFireTime(t *testing.T) {
	f := newEngineFixture()
	f.growTo(4)
	f.engine.Apply(PowerUpShrink)
	f.advance(time.Second)
	if f.snake.Len() != MinLength {
		t.Errorf("Expected length %d, got %d", MinLength, f.snake.Len())
	}
}

func TestInvincibleAndMagnetFlags(t *testing.T) {
	f := newEngineFixture()
	f.engine.Apply(PowerUpInvincible)
	f.engine.Apply(PowerUpMagnet)

	if !f.engine.Invincible() || !f.engine.MagnetActive() {
		t.Fatal("Expected both flags on")
	}
	active := f.engine.Active()
	if len(active) != 2 || active[0].Type != PowerUpInvincible || active[1].Type != PowerUpMagnet {
		t.Fatalf("Unexpected active list %+v", active)
	}

	f.advance(8 * time.Second)
	if f.engine.MagnetActive() {
		t.Error("Magnet should expire after 8s")
	}
	if !f.engine.Invincible() {
		t.Error("Invincible should outlast the magnet")
	}
	f.advance(2 * time.Second)
	if f.engine.Invincible() {
		t.Error("Invincible should expire after 10s")
	}
	if len(f.engine.Active()) != 0 {
		t.Errorf("Expected no active effects, got %+v", f.engine.Active())
	}
}

func TestActiveRemaining(t *testing.T) {
	f := newEngineFixture()
	f.engine.Apply(PowerUpMagnet)
	f.clock.Advance(3 * time.Second)
	active := f.engine.Active()
	if len(active) != 1 || active[0].Remaining != 5*time.Second {
		t.Errorf("Expected 5s remaining, got %+v", active)
	}
}

func TestMagnetStep(t *testing.T) {
	tests := []struct {
		name       string
		item, head Point
		want       Point
	}{
		{"x axis", Point{10, 8}, Point{8, 8}, Point{9, 8}},
		{"negative x", Point{5, 9}, Point{8, 8}, Point{6, 9}},
		{"y axis", Point{8, 4}, Point{9, 8}, Point{8, 5}},
		{"tie goes vertical", Point{10, 10}, Point{8, 8}, Point{10, 9}},
		{"out of range", Point{13, 8}, Point{7, 8}, Point{13, 8}},
		{"edge of range", Point{12, 8}, Point{7, 8}, Point{11, 8}},
		{"same cell", Point{3, 3}, Point{3, 3}, Point{3, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MagnetStep(tt.item, tt.head, 5); got != tt.want {
				t.Errorf("MagnetStep(%v, %v) = %v, want %v", tt.item, tt.head, got, tt.want)
			}
		})
	}
}

func TestPullRequiresMagnet(t *testing.T) {
	f := newEngineFixture()
	item := Point{10, 8}
	if got := f.engine.Pull(item, Point{8, 8}); got != item {
		t.Errorf("Pull moved the item without a magnet: %v", got)
	}
}
