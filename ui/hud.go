package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mycelia/systems"
)

// HUDData holds everything the main HUD displays.
type HUDData struct {
	Year           float64
	ActiveAgents   int
	FrontierAgents int
	FreeSlots      int
	TrioNames      []string
	FPS            int32
	Speed          int
	Paused         bool
	ScreenWidth    int32
	ScreenHeight   int32
}

// HUDActions reports control changes the user made this frame.
type HUDActions struct {
	TogglePause bool
	Speed       int
}

// HUD renders the year clock, population counts, and playback controls.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD and returns any control changes.
func (h *HUD) Draw(data HUDData) HUDActions {
	actions := HUDActions{Speed: data.Speed}

	rl.DrawText(fmt.Sprintf("%d", int(data.Year)), 14, 10, 34, rl.RayWhite)
	rl.DrawText(
		fmt.Sprintf("agents: %d | frontier: %d | free: %d | fps: %d",
			data.ActiveAgents, data.FrontierAgents, data.FreeSlots, data.FPS),
		14, 48, 14, rl.LightGray,
	)

	if len(data.TrioNames) > 0 {
		label := "protagonists: "
		for i, name := range data.TrioNames {
			if i > 0 {
				label += " / "
			}
			label += name
		}
		rl.DrawText(label, 14, 66, 14, rl.Gray)
	}

	// Playback controls, bottom-left.
	y := float32(data.ScreenHeight - 40)
	pauseLabel := "Pause"
	if data.Paused {
		pauseLabel = "Resume"
	}
	if gui.Button(rl.Rectangle{X: 14, Y: y, Width: 80, Height: 26}, pauseLabel) {
		actions.TogglePause = true
	}

	speed := gui.SliderBar(
		rl.Rectangle{X: 160, Y: y + 3, Width: 120, Height: 20},
		"speed", fmt.Sprintf("%dx", data.Speed),
		float32(data.Speed), 1, 10,
	)
	actions.Speed = int(speed + 0.5)
	if actions.Speed < 1 {
		actions.Speed = 1
	}

	if data.Paused {
		rl.DrawText("PAUSED", data.ScreenWidth/2-40, 12, 20, rl.Yellow)
	}

	return actions
}

// Ledger renders the frontier ledger panel: one row per live frontier agent
// with its directive and remaining lifetime.
type Ledger struct {
	renderer *Renderer
}

// NewLedger creates a ledger panel renderer.
func NewLedger() *Ledger {
	return &Ledger{renderer: NewRenderer()}
}

// Draw renders the panel in the top-right corner.
func (l *Ledger) Draw(screenWidth int32, mirrors []systems.FrontierMirror) {
	if len(mirrors) == 0 {
		return
	}

	r := l.renderer
	width := int32(320)
	x := screenWidth - width - 10
	rows := int32(len(mirrors))
	height := r.Theme.Padding*2 + r.Theme.LineHeight*(rows+1) + 4

	r.DrawPanel(x, 10, width, height)

	y := 10 + r.Theme.Padding
	rl.DrawText("frontiers", x+r.Theme.Padding, y, r.Theme.HeaderFontSize, r.Theme.HeaderColor)
	y += r.Theme.LineHeight + 4

	for _, m := range mirrors {
		col := rl.ColorFromHSV(m.Hue, 0.45, 1.0)
		rl.DrawRectangle(x+r.Theme.Padding, y+3, 8, 8, col)

		var life float32
		if m.MaxAge > 0 {
			life = 1 - float32(m.Age)/float32(m.MaxAge)
		}
		text := fmt.Sprintf("%s %s  (%.0f%%)", m.Verb, m.Noun, life*100)
		rl.DrawText(text, x+r.Theme.Padding+14, y, r.Theme.FontSize, r.Theme.LabelColor)
		y += r.Theme.LineHeight
	}
}
