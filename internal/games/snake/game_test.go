package snake

import (
	"testing"
	"time"

	"github.com/vovakirdan/retro-snake/internal/config"
	"github.com/vovakirdan/retro-snake/internal/core"
)

func newTestGame(t *testing.T, opts ...Option) (*Game, *core.ManualClock) {
	t.Helper()
	clock := core.NewManualClock(t0)
	opts = append([]Option{WithSeed(12345), WithClock(clock)}, opts...)
	return New(config.DefaultSnakeConfig(), opts...), clock
}

// clearItem moves the food out of the snake's path.
func clearItem(g *Game) {
	g.powerUp = nil
	g.food = Point{0, 0}
}

// loopBody puts the snake one step away from biting its own tail.
func loopBody(g *Game) {
	g.snake.Body = []Point{{5, 5}, {5, 6}, {4, 6}, {4, 5}, {4, 4}}
	g.snake.Direction = DirLeft
	g.snake.NextDirection = DirLeft
}

func TestDeterminism(t *testing.T) {
	g1, _ := newTestGame(t)
	g2, _ := newTestGame(t)

	for i := range 300 {
		switch i {
		case 20:
			g1.Turn(DirDown)
			g2.Turn(DirDown)
		case 40:
			g1.Turn(DirLeft)
			g2.Turn(DirLeft)
		case 90:
			g1.Turn(DirUp)
			g2.Turn(DirUp)
		}
		g1.Tick()
		g2.Tick()
	}

	if s1, s2 := g1.Snapshot(), g2.Snapshot(); s1 != s2 {
		t.Errorf("Snapshots differ:\n%+v\n%+v", s1, s2)
	}
}

func TestFirstTickScenario(t *testing.T) {
	g, _ := newTestGame(t)
	clearItem(g)

	res := g.Tick()
	if res.Status != StatusContinue {
		t.Fatalf("Expected continue, got %v", res.Status)
	}
	want := []Point{{9, 8}, {8, 8}, {7, 8}}
	body := g.Body()
	for i, p := range want {
		if body[i] != p {
			t.Errorf("Segment %d: expected %v, got %v", i, p, body[i])
		}
	}
	if g.snake.Travel != 1 {
		t.Errorf("Expected travel 1, got %d", g.snake.Travel)
	}
}

func TestTicksWithoutPickups(t *testing.T) {
	g, _ := newTestGame(t)
	for i := 1; i <= 40; i++ {
		clearItem(g)
		g.food = Point{-5, -5}
		g.Tick()
		if g.snake.Travel != i {
			t.Fatalf("Tick %d: expected travel %d, got %d", i, i, g.snake.Travel)
		}
		if g.snake.Len() != MinLength {
			t.Fatalf("Tick %d: length changed to %d", i, g.snake.Len())
		}
	}
}

func TestFoodPickup(t *testing.T) {
	g, _ := newTestGame(t)
	g.powerUp = nil
	g.food = Point{9, 8}

	res := g.Tick()
	if res.Pickup != PickupFood || res.Points != 10 {
		t.Fatalf("Expected food pickup worth 10, got %+v", res)
	}
	if g.Score() != 10 {
		t.Errorf("Expected score 10, got %d", g.Score())
	}
	if g.snake.Travel != 0 {
		t.Errorf("Expected travel reset, got %d", g.snake.Travel)
	}
	if g.snake.Occupies(g.Food()) {
		t.Errorf("New food placed on snake at %v", g.Food())
	}

	clearItem(g)
	g.Tick()
	if g.snake.Len() != 4 {
		t.Errorf("Expected length 4 after growing, got %d", g.snake.Len())
	}
}

func TestFoodValueDecaysWithTravel(t *testing.T) {
	g, _ := newTestGame(t)
	g.snake.Travel = 24
	g.powerUp = nil
	g.food = Point{9, 8}

	// Travel becomes 25 on the move
	res := g.Tick()
	if res.Points != 8 {
		t.Errorf("Expected 8 points at travel 25, got %d", res.Points)
	}
}

func TestReverseGrowth(t *testing.T) {
	g, _ := newTestGame(t, WithReverseGrowth(true))
	g.powerUp = nil
	g.food = Point{9, 8}
	g.Tick()
	clearItem(g)
	g.Tick()

	if g.snake.Len() != MinLength {
		t.Errorf("Expected no growth, length %d", g.snake.Len())
	}
	if g.Score() != 10 {
		t.Errorf("Expected score 10, got %d", g.Score())
	}
}

func TestPowerUpSpawnsInPlaceOfFood(t *testing.T) {
	g, _ := newTestGame(t)
	g.spawner.foodCount = 4
	g.powerUp = nil
	g.food = Point{9, 8}

	g.Tick()
	pu, ok := g.PendingPowerUp()
	if !ok {
		t.Fatal("Expected a pending power-up after the fifth food")
	}
	if g.Food() != pu.Pos {
		t.Errorf("Food %v should share the power-up cell %v", g.Food(), pu.Pos)
	}
	if f := g.Frame(); f.ItemKind != ItemPowerUp || f.Value != 20 {
		t.Errorf("Expected power-up frame worth 20, got kind=%v value=%d", f.ItemKind, f.Value)
	}
}

func TestPowerUpPickup(t *testing.T) {
	g, _ := newTestGame(t)
	g.powerUp = &PowerUp{Type: PowerUpInvincible, Pos: Point{9, 8}}
	g.food = Point{9, 8}

	res := g.Tick()
	if res.Pickup != PickupPowerUp || res.PowerUp != PowerUpInvincible {
		t.Fatalf("Expected invincible pickup, got %+v", res)
	}
	if res.Points != 20 || g.Score() != 20 {
		t.Errorf("Expected 20 points, got %d (score %d)", res.Points, g.Score())
	}
	if _, ok := g.PendingPowerUp(); ok {
		t.Error("Power-up should be consumed")
	}
	if !g.Invincible() {
		t.Error("Expected invincibility")
	}
	if g.snake.Travel != 0 {
		t.Errorf("Expected travel reset, got %d", g.snake.Travel)
	}
	if g.snake.Len() != MinLength {
		t.Errorf("Power-up should not grow the snake, length %d", g.snake.Len())
	}
	if g.Food() == (Point{9, 8}) {
		t.Error("Expected fresh food after the power-up")
	}
}

func TestMagnetDragsFoodAndPowerUp(t *testing.T) {
	g, _ := newTestGame(t)
	g.powerups.Apply(PowerUpMagnet)
	g.powerUp = &PowerUp{Type: PowerUpSpeed, Pos: Point{12, 8}}
	g.food = Point{12, 8}

	g.Tick()
	pu, ok := g.PendingPowerUp()
	if !ok {
		t.Fatal("Power-up vanished")
	}
	if g.Food() != (Point{11, 8}) || pu.Pos != (Point{11, 8}) {
		t.Errorf("Expected both at (11,8), food %v power-up %v", g.Food(), pu.Pos)
	}

	// Head reaches (10,8), item pulled onto (10,8) and collected
	res := g.Tick()
	if res.Pickup != PickupPowerUp {
		t.Errorf("Expected the magnet to deliver the power-up, got %+v", res)
	}
}

func TestSelfCollisionEndsGame(t *testing.T) {
	g, _ := newTestGame(t)
	clearItem(g)
	loopBody(g)

	res := g.Tick()
	if res.Status != StatusGameOver || !res.Frame.GameOver {
		t.Fatalf("Expected game over, got %v", res.Status)
	}
	if !g.State().GameOver {
		t.Error("State should report game over")
	}

	// Ticking after game over is a no-op
	snap := g.Snapshot()
	if res := g.Tick(); res.Status != StatusIdle {
		t.Errorf("Expected idle after game over, got %v", res.Status)
	}
	if g.Snapshot() != snap {
		t.Error("Tick after game over mutated state")
	}
	if g.TogglePause() != StateGameOver {
		t.Error("Pause should be ignored after game over")
	}
	if g.Turn(DirUp) {
		t.Error("Turn should be ignored after game over")
	}
}

func TestInvincibilityPreventsGameOver(t *testing.T) {
	g, clock := newTestGame(t)
	clearItem(g)
	g.powerups.Apply(PowerUpInvincible)
	loopBody(g)

	res := g.Tick()
	if res.Status != StatusContinue {
		t.Fatalf("Expected continue while invincible, got %v", res.Status)
	}
	if !g.Invincible() {
		t.Fatal("Invincibility dropped before its timer")
	}

	clock.Advance(10 * time.Second)
	if !g.RunTimers() {
		t.Fatal("Expected the expiry timer to run")
	}
	if g.Invincible() {
		t.Error("Invincibility should end after 10s")
	}
}

func TestPauseSuppressesTicks(t *testing.T) {
	g, _ := newTestGame(t)
	if g.TogglePause() != StatePaused {
		t.Fatal("Expected paused")
	}
	snap := g.Snapshot()
	if res := g.Tick(); res.Status != StatusIdle {
		t.Errorf("Expected idle while paused, got %v", res.Status)
	}
	if g.Snapshot() != snap {
		t.Error("Paused tick mutated state")
	}
	if g.Turn(DirDown) {
		t.Error("Turn should be ignored while paused")
	}
	if g.TogglePause() != StateRunning {
		t.Error("Expected running after second toggle")
	}
}

func TestEffectTimersRunWhilePaused(t *testing.T) {
	g, clock := newTestGame(t)
	g.powerups.Apply(PowerUpMagnet)
	g.TogglePause()

	clock.Advance(8 * time.Second)
	g.RunTimers()
	if g.Frame().Magnet {
		t.Error("Magnet should expire on wall-clock time while paused")
	}
}

func TestResetMidGame(t *testing.T) {
	var events []EffectEvent
	g, clock := newTestGame(t, WithEffectHook(func(ev EffectEvent) { events = append(events, ev) }))

	for range 4 {
		g.snake.Grow()
		g.snake.Move()
	}
	g.score = 57
	g.powerups.Apply(PowerUpSpeed)
	g.powerups.Apply(PowerUpShrink)
	g.powerups.Apply(PowerUpInvincible)
	g.TogglePause()

	g.Reset()

	if g.Score() != 0 {
		t.Errorf("Expected score 0, got %d", g.Score())
	}
	want := []Point{{8, 8}, {7, 8}, {6, 8}}
	body := g.Body()
	if len(body) != len(want) {
		t.Fatalf("Expected %d segments, got %d", len(want), len(body))
	}
	for i, p := range want {
		if body[i] != p {
			t.Errorf("Segment %d: expected %v, got %v", i, p, body[i])
		}
	}
	if len(g.ActiveEffects()) != 0 || g.Invincible() {
		t.Error("Effects survived reset")
	}
	if g.Interval() != 180*time.Millisecond {
		t.Errorf("Expected base speed, got %v", g.Interval())
	}
	if g.Phase() != StateRunning {
		t.Errorf("Expected running, got %v", g.Phase())
	}
	if _, ok := g.NextTimer(); ok {
		t.Error("Timers from the previous round are still pending")
	}

	before := len(events)
	clock.Advance(time.Minute)
	if g.RunTimers() {
		t.Error("Old timers ran after reset")
	}
	if g.snake.Len() != MinLength || g.Interval() != 180*time.Millisecond {
		t.Error("Old timers mutated the new round")
	}
	if len(events) != before {
		t.Errorf("Unexpected effect events after reset: %v", events[before:])
	}
}

func TestFrameRoles(t *testing.T) {
	g, _ := newTestGame(t)
	for range 2 {
		g.snake.Grow()
		g.snake.Move()
	}
	f := g.Frame()
	roles := []SegmentRole{RoleHead, RoleBody, RoleBody, RoleTaper, RoleTail}
	if len(f.Segments) != len(roles) {
		t.Fatalf("Expected %d segments, got %d", len(roles), len(f.Segments))
	}
	for i, r := range roles {
		if f.Segments[i].Role != r {
			t.Errorf("Segment %d: expected %v, got %v", i, r, f.Segments[i].Role)
		}
	}
}

func TestFullBoardLeavesNoFood(t *testing.T) {
	cfg := config.DefaultSnakeConfig()
	cfg.Grid.Size = 5
	g := New(cfg, WithSeed(1), WithClock(core.NewManualClock(t0)))

	var body []Point
	for y := range 5 {
		for x := range 5 {
			body = append(body, Point{x, y})
		}
	}
	g.snake.Body = body
	g.placeFood()

	if g.Food() != NoPoint {
		t.Errorf("Expected no food on a full board, got %v", g.Food())
	}
	if g.Frame().ItemKind != ItemNone {
		t.Error("Frame should report no item")
	}
}
