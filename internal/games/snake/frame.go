package snake

import "fmt"

// SegmentRole tells the renderer how to style a body segment.
type SegmentRole int

const (
	RoleHead  SegmentRole = iota
	RoleBody
	RoleTaper // Second to last segment
	RoleTail
)

func (r SegmentRole) String() string {
	switch r {
	case RoleHead:
		return "head"
	case RoleTaper:
		return "taper"
	case RoleTail:
		return "tail"
	default:
		return "body"
	}
}

// MarshalText encodes the role by name.
func (r SegmentRole) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a role name.
func (r *SegmentRole) UnmarshalText(text []byte) error {
	return unmarshalName(text, r, []SegmentRole{RoleHead, RoleBody, RoleTaper, RoleTail}, "segment role")
}

// ItemKind is what currently sits on the item cell.
type ItemKind int

const (
	ItemNone ItemKind = iota // Board full
	ItemFood
	ItemPowerUp
)

func (k ItemKind) String() string {
	switch k {
	case ItemFood:
		return "food"
	case ItemPowerUp:
		return "powerup"
	default:
		return "none"
	}
}

// MarshalText encodes the kind by name.
func (k ItemKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes an item kind name.
func (k *ItemKind) UnmarshalText(text []byte) error {
	return unmarshalName(text, k, []ItemKind{ItemNone, ItemFood, ItemPowerUp}, "item kind")
}

// Segment is one styled body cell.
type Segment struct {
	Point
	Role SegmentRole `json:"role"`
}

// Frame is everything a renderer needs to draw the board.
type Frame struct {
	GridSize   int            `json:"grid"`
	Segments   []Segment      `json:"segments"`
	Direction  Direction      `json:"direction"`
	Item       Point          `json:"item"`
	ItemKind   ItemKind       `json:"item_kind"`
	PowerUp    PowerUpType    `json:"powerup"` // Valid when ItemKind == ItemPowerUp
	Score      int            `json:"score"`
	Value      int            `json:"value"` // What the visible item is worth right now
	Length     int            `json:"length"`
	Invincible bool           `json:"invincible"`
	Magnet     bool           `json:"magnet"`
	Effects    []ActiveEffect `json:"effects"`
	Paused     bool           `json:"paused"`
	GameOver   bool           `json:"game_over"`
}

// Frame builds a render frame of the current state.
func (g *Game) Frame() Frame {
	body := g.snake.Body
	f := Frame{
		GridSize:   g.cfg.Grid.Size,
		Segments:   make([]Segment, len(body)),
		Direction:  g.snake.Direction,
		Item:       g.food,
		ItemKind:   ItemFood,
		Score:      g.score,
		Value:      g.snake.FoodValue(),
		Length:     len(body),
		Invincible: g.powerups.Invincible(),
		Magnet:     g.powerups.MagnetActive(),
		Effects:    g.powerups.Active(),
		Paused:     g.state == StatePaused,
		GameOver:   g.state == StateGameOver,
	}
	for i, p := range body {
		f.Segments[i] = Segment{Point: p, Role: roleAt(i, len(body))}
	}
	switch {
	case g.powerUp != nil:
		f.ItemKind = ItemPowerUp
		f.PowerUp = g.powerUp.Type
		f.Item = g.powerUp.Pos
		f.Value = g.snake.PowerUpValue()
	case g.food == NoPoint:
		f.ItemKind = ItemNone
	}
	return f
}

func roleAt(i, n int) SegmentRole {
	switch {
	case i == 0:
		return RoleHead
	case i == n-1:
		return RoleTail
	case i == n-2:
		return RoleTaper
	default:
		return RoleBody
	}
}

// unmarshalName sets *dst to the value in values whose String matches text.
func unmarshalName[T fmt.Stringer](text []byte, dst *T, values []T, what string) error {
	name := string(text)
	for _, v := range values {
		if v.String() == name {
			*dst = v
			return nil
		}
	}
	return fmt.Errorf("snake: unknown %s %q", what, name)
}
