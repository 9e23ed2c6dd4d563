package snake

import (
	"time"

	"github.com/vovakirdan/retro-snake/internal/core"
)

// MinLength is the shortest the snake may ever be.
const MinLength = 3

// Direction represents the snake's movement direction.
type Direction int

const (
	DirRight Direction = iota
	DirDown
	DirLeft
	DirUp
)

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// MarshalText encodes the direction by name.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a direction name.
func (d *Direction) UnmarshalText(text []byte) error {
	return unmarshalName(text, d, []Direction{DirRight, DirDown, DirLeft, DirUp}, "direction")
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	default:
		return DirLeft
	}
}

// delta returns the unit step for the direction.
func (d Direction) delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	default:
		return 1, 0
	}
}

// DirectionFromAction maps a steering action to a direction.
func DirectionFromAction(a core.Action) (Direction, bool) {
	switch a {
	case core.ActionUp:
		return DirUp, true
	case core.ActionDown:
		return DirDown, true
	case core.ActionLeft:
		return DirLeft, true
	case core.ActionRight:
		return DirRight, true
	default:
		return DirRight, false
	}
}

// Point represents a cell on the board.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Snake holds the body and movement state. Head is Body[0].
type Snake struct {
	Body          []Point
	Direction     Direction
	NextDirection Direction     // Buffered input, applied after the next move
	Speed         time.Duration // Tick interval
	ShouldGrow    bool          // Skip the tail removal on the next move
	Travel        int           // Cells moved since the last pickup

	gridSize int
	scoring  ScoreModel
}

// NewSnake creates a three-segment snake in the middle of the board, heading right.
func NewSnake(gridSize int, speed time.Duration, scoring ScoreModel) *Snake {
	c := gridSize/2 + 1
	return &Snake{
		Body: []Point{
			{X: c, Y: c},
			{X: c - 1, Y: c},
			{X: c - 2, Y: c},
		},
		Direction:     DirRight,
		NextDirection: DirRight,
		Speed:         speed,
		gridSize:      gridSize,
		scoring:       scoring,
	}
}

// Head returns the head position.
func (s *Snake) Head() Point {
	return s.Body[0]
}

// Len returns the number of segments.
func (s *Snake) Len() int {
	return len(s.Body)
}

// Move advances the head one cell, wrapping at the board edges.
// The buffered direction takes effect after this move, so input lags one tick.
func (s *Snake) Move() {
	dx, dy := s.Direction.delta()
	head := s.Head()
	newHead := Point{
		X: core.Wrap(head.X+dx, s.gridSize),
		Y: core.Wrap(head.Y+dy, s.gridSize),
	}

	s.Travel++

	s.Body = append(s.Body, Point{})
	copy(s.Body[1:], s.Body)
	s.Body[0] = newHead
	s.Direction = s.NextDirection

	if s.ShouldGrow {
		s.ShouldGrow = false
	} else {
		s.Body = s.Body[:len(s.Body)-1]
	}
}

// Grow adds one segment on the next move.
func (s *Snake) Grow() {
	s.ShouldGrow = true
}

// Shrink removes the tail segment unless that would leave fewer than MinLength.
func (s *Snake) Shrink() bool {
	if len(s.Body) <= MinLength {
		return false
	}
	s.Body = s.Body[:len(s.Body)-1]
	return true
}

// Turn buffers a direction change. Reversing straight into the body is refused.
func (s *Snake) Turn(d Direction) bool {
	if d == s.Direction.Opposite() {
		return false
	}
	s.NextDirection = d
	return true
}

// ResetTravelDistance restarts value decay after a pickup.
func (s *Snake) ResetTravelDistance() {
	s.Travel = 0
}

// FoodValue returns what the next food is worth at the current travel distance.
func (s *Snake) FoodValue() int {
	return s.scoring.FoodValue(s.Travel)
}

// PowerUpValue returns what the next power-up is worth at the current travel distance.
func (s *Snake) PowerUpValue() int {
	return s.scoring.PowerUpValue(s.Travel)
}

// Occupies reports whether any segment is at p.
func (s *Snake) Occupies(p Point) bool {
	return occupied(s.Body, p)
}

// HitsSelf reports whether the head overlaps another segment.
func (s *Snake) HitsSelf() bool {
	head := s.Head()
	for _, seg := range s.Body[1:] {
		if seg == head {
			return true
		}
	}
	return false
}

func occupied(body []Point, p Point) bool {
	for _, seg := range body {
		if seg == p {
			return true
		}
	}
	return false
}
