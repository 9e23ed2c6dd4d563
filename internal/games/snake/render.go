package snake

import (
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/retro-snake/internal/core"
)

const hudHeight = 2 // Score line plus separator

// MinScreenSize returns the smallest screen that fits a board of the given size.
// Every board cell is two columns wide so the grid looks square in a terminal.
func MinScreenSize(gridSize int) (w, h int) {
	return gridSize*2 + 2, hudHeight + gridSize + 3
}

// DrawFrame renders f into dst: HUD, board, effects line and overlays.
func DrawFrame(dst *core.Screen, f Frame) {
	dst.Clear()

	hud := fmt.Sprintf(" Snake | Score: %d  Value: %d  Length: %d", f.Score, f.Value, f.Length)
	dst.DrawText(0, 0, hud)
	for x := range dst.Width() {
		dst.Set(x, 1, '─')
	}

	needW, needH := MinScreenSize(f.GridSize)
	if dst.Width() < needW || dst.Height() < needH {
		renderOverlay(dst, "Window too small", fmt.Sprintf("Need %dx%d", needW, needH))
		return
	}

	boardW := f.GridSize*2 + 2
	offX := (dst.Width() - boardW) / 2
	offY := hudHeight
	dst.DrawBox(core.NewRect(offX, offY, boardW, f.GridSize+2))

	cellX := func(p Point) int { return offX + 1 + p.X*2 }
	cellY := func(p Point) int { return offY + 1 + p.Y }

	switch f.ItemKind {
	case ItemFood:
		dst.SetColored(cellX(f.Item), cellY(f.Item), '●', core.ColorRed)
	case ItemPowerUp:
		dst.SetColored(cellX(f.Item), cellY(f.Item), f.PowerUp.Glyph(), powerUpColor(f.PowerUp))
	}

	// Tail first so the head wins when segments overlap
	for i := len(f.Segments) - 1; i >= 0; i-- {
		seg := f.Segments[i]
		left, right := segmentGlyphs(seg.Role, f.Direction)
		c := segmentColor(seg.Role, f.Invincible)
		dst.SetColored(cellX(seg.Point), cellY(seg.Point), left, c)
		dst.SetColored(cellX(seg.Point)+1, cellY(seg.Point), right, c)
	}

	if line := effectsLine(f.Effects); line != "" {
		dst.DrawTextColored(offX, offY+f.GridSize+2, line, core.ColorBrightCyan)
	}

	switch {
	case f.GameOver:
		renderOverlay(dst, "Game Over", fmt.Sprintf("Score: %d  Press R to restart", f.Score))
	case f.Paused:
		renderOverlay(dst, "Paused", "Press P to continue")
	}
}

func segmentGlyphs(role SegmentRole, dir Direction) (rune, rune) {
	switch role {
	case RoleHead:
		switch dir {
		case DirUp:
			return '▲', '▲'
		case DirDown:
			return '▼', '▼'
		case DirLeft:
			return '◀', '█'
		default:
			return '█', '▶'
		}
	case RoleTaper:
		return '▓', '▓'
	case RoleTail:
		return '▒', '▒'
	default:
		return '█', '█'
	}
}

func segmentColor(role SegmentRole, invincible bool) core.Color {
	switch {
	case invincible:
		return core.ColorBrightCyan
	case role == RoleHead:
		return core.ColorBrightGreen
	default:
		return core.ColorGreen
	}
}

func powerUpColor(t PowerUpType) core.Color {
	switch t {
	case PowerUpSpeed:
		return core.ColorBrightYellow
	case PowerUpShrink:
		return core.ColorOrange
	case PowerUpInvincible:
		return core.ColorCyan
	default:
		return core.ColorMagenta
	}
}

func effectsLine(effects []ActiveEffect) string {
	if len(effects) == 0 {
		return ""
	}
	parts := make([]string, 0, len(effects))
	for _, e := range effects {
		secs := int((e.Remaining + time.Second - 1) / time.Second)
		parts = append(parts, fmt.Sprintf("%s %ds", e.Type.Name(), secs))
	}
	return strings.Join(parts, "  ")
}

// renderOverlay draws a centered overlay message.
func renderOverlay(dst *core.Screen, line1, line2 string) {
	w := dst.Width()
	h := dst.Height()

	maxLen := max(len([]rune(line1)), len([]rune(line2)))
	boxW := maxLen + 4
	boxH := 5
	box := core.NewRect((w-boxW)/2, (h-boxH)/2, boxW, boxH)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box)
	dst.DrawTextCentered(box.Y+1, line1)
	dst.DrawTextCentered(box.Y+3, line2)
}
