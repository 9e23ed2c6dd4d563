package snake

import (
	"math/rand"

	"github.com/vovakirdan/retro-snake/internal/config"
)

// NoPoint marks an item that could not be placed because the board is full.
var NoPoint = Point{X: -1, Y: -1}

// Spawner places food and power-ups on free cells and decides when a
// power-up is due.
type Spawner struct {
	rng         *rand.Rand
	gridSize    int
	maxAttempts int
	minFood     int
	maxFood     int

	foodCount int // Food eaten since the last power-up spawned
	lastType  PowerUpType
	hasLast   bool
}

// NewSpawner creates a spawner for a board of the given size.
func NewSpawner(rng *rand.Rand, gridSize int, cfg config.SpawnConfig) *Spawner {
	return &Spawner{
		rng:         rng,
		gridSize:    gridSize,
		maxAttempts: cfg.MaxAttempts,
		minFood:     cfg.PowerUpMinFood,
		maxFood:     cfg.PowerUpMaxFood,
	}
}

// Reset forgets the food counter and the last power-up type.
func (s *Spawner) Reset() {
	s.foodCount = 0
	s.hasLast = false
}

// FoodCount returns the food eaten since the last power-up spawned.
func (s *Spawner) FoodCount() int {
	return s.foodCount
}

// LastType returns the most recently spawned power-up type.
func (s *Spawner) LastType() (PowerUpType, bool) {
	return s.lastType, s.hasLast
}

// GenerateFood returns a random free cell. It samples at random first and
// falls back to picking among the remaining free cells, so a crowded board
// never spins. Returns false only when every cell is taken.
func (s *Spawner) GenerateFood(body []Point) (Point, bool) {
	return s.freeCell(body)
}

// GeneratePowerUp counts one eaten food and, when the counter is inside the
// spawn window and nothing is pending, places a power-up of a different type
// than the previous one.
func (s *Spawner) GeneratePowerUp(body []Point, pending bool) (PowerUp, bool) {
	s.foodCount++
	if pending || s.foodCount < s.minFood || s.foodCount > s.maxFood {
		return PowerUp{}, false
	}

	types := make([]PowerUpType, 0, len(AllPowerUps))
	for _, t := range AllPowerUps {
		if s.hasLast && t == s.lastType {
			continue
		}
		types = append(types, t)
	}
	typ := types[s.rng.Intn(len(types))]

	pos, ok := s.freeCell(body)
	if !ok {
		return PowerUp{}, false
	}

	s.lastType = typ
	s.hasLast = true
	s.foodCount = 0
	return PowerUp{Type: typ, Pos: pos}, true
}

// freeCell samples up to maxAttempts random cells, then scans.
func (s *Spawner) freeCell(body []Point) (Point, bool) {
	for range s.maxAttempts {
		p := Point{X: s.rng.Intn(s.gridSize), Y: s.rng.Intn(s.gridSize)}
		if !occupied(body, p) {
			return p, true
		}
	}

	taken := make(map[Point]bool, len(body))
	for _, seg := range body {
		taken[seg] = true
	}
	var free []Point
	for y := 0; y < s.gridSize; y++ {
		for x := 0; x < s.gridSize; x++ {
			p := Point{X: x, Y: y}
			if !taken[p] {
				free = append(free, p)
			}
		}
	}
	if len(free) == 0 {
		return NoPoint, false
	}
	return free[s.rng.Intn(len(free))], true
}
