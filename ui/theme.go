// Package ui renders the HUD and the frontier ledger panel.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds the shared UI styling.
type Theme struct {
	PanelBg     rl.Color
	PanelBorder rl.Color
	HeaderColor rl.Color
	LabelColor  rl.Color
	ValueColor  rl.Color

	FontSize       int32
	HeaderFontSize int32
	LineHeight     int32
	Padding        int32
}

// DefaultTheme returns the default dark theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 12, G: 14, B: 20, A: 215},
		PanelBorder:    rl.Color{R: 70, G: 78, B: 95, A: 255},
		HeaderColor:    rl.RayWhite,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.White,
		FontSize:       12,
		HeaderFontSize: 16,
		LineHeight:     16,
		Padding:        10,
	}
}

// Renderer handles UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}
