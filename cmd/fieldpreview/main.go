// Trail field preview tool - interactive visualization with sliders.
//
// Runs the CPU backend on a small arena so trail parameters can be dialed in
// live before committing them to config.
//
// Usage: go run ./cmd/fieldpreview
package main

import (
	"fmt"
	"image/color"
	"math/rand"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mycelia/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30

	arenaSize  = 256
	agentCount = 250
)

// FieldParams holds the live-editable trail and steering parameters.
type FieldParams struct {
	DecayFactor     float32
	DepositRadius   float32
	DepositStrength float32
	TurnStrength    float32
	SensorDistance  float32
	Speed           float32
}

func defaultParams() FieldParams {
	return FieldParams{
		DecayFactor:     0.982,
		DepositRadius:   13.0,
		DepositStrength: 0.85,
		TurnStrength:    0.35,
		SensorDistance:  9.0,
		Speed:           1.2,
	}
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Trail Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	params := defaultParams()
	seed := int64(42)
	backend := newBackend(params, seed)

	img := rl.GenImageColor(arenaSize, arenaSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	pixels := make([]color.RGBA, arenaSize*arenaSize)
	paused := false

	for !rl.WindowShouldClose() {
		if !paused {
			backend.Step()
		}
		updateTexture(texture, backend.Field(), pixels)

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Draw preview
		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: arenaSize, Height: arenaSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		// Draw stats
		mean := backend.Field().Mean()
		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Agents: %d  Mean: %.3f", backend.Count(), mean), 15, statsY, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Trail Field Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		changed := false
		changed = slider(panelX, &panelY, "Decay factor (per-frame trail fade)",
			&params.DecayFactor, 0.90, 0.998, "%.3f") || changed
		changed = slider(panelX, &panelY, "Deposit radius (px)",
			&params.DepositRadius, 4.0, 30.0, "%.1f") || changed
		changed = slider(panelX, &panelY, "Deposit strength",
			&params.DepositStrength, 0.1, 2.0, "%.2f") || changed
		changed = slider(panelX, &panelY, "Turn strength (rad)",
			&params.TurnStrength, 0.05, 0.8, "%.2f") || changed
		changed = slider(panelX, &panelY, "Sensor distance (px)",
			&params.SensorDistance, 3.0, 20.0, "%.1f") || changed
		changed = slider(panelX, &panelY, "Agent speed (px/frame)",
			&params.Speed, 0.4, 3.0, "%.2f") || changed

		if changed {
			backend = newBackend(params, seed)
		}
		panelY += 10

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(paused, "Resume", "Pause")) {
			paused = !paused
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Restart") {
			backend = newBackend(params, seed)
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			seed = int64(rl.GetRandomValue(0, 99999))
			backend = newBackend(params, seed)
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams()
			backend = newBackend(params, seed)
		}
		panelY += 55

		// Output YAML
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		for _, line := range yamlLines(params) {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		// Instructions
		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)

		if rl.IsKeyPressed(rl.KeyC) {
			yaml := ""
			for _, line := range yamlLines(params) {
				yaml += line + "\n"
			}
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}
}

// slider draws a labeled SliderBar row and advances the panel cursor.
// Returns true when the value changed this frame.
func slider(panelX float32, panelY *float32, label string, value *float32, min, max float32, format string) bool {
	rl.DrawText(label, int32(panelX), int32(*panelY), 14, rl.Gray)
	*panelY += 18
	next := gui.SliderBar(
		rl.Rectangle{X: panelX, Y: *panelY, Width: float32(panelWidth - 80), Height: 20},
		fmt.Sprintf(format, min), fmt.Sprintf(format, max),
		*value, min, max,
	)
	rl.DrawText(fmt.Sprintf(format, *value), int32(panelX+float32(panelWidth-70)), int32(*panelY+2), 16, rl.DarkGray)
	*panelY += 35

	if next != *value {
		*value = next
		return true
	}
	return false
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

func yamlLines(p FieldParams) []string {
	return []string{
		"trail:",
		fmt.Sprintf("  decay_factor: %.3f", p.DecayFactor),
		fmt.Sprintf("  deposit_radius: %.1f", p.DepositRadius),
		fmt.Sprintf("  deposit_strength: %.2f", p.DepositStrength),
		"sensor:",
		fmt.Sprintf("  turn_strength: %.2f", p.TurnStrength),
		fmt.Sprintf("  distance: %.1f", p.SensorDistance),
		"agents:",
		fmt.Sprintf("  speed: %.2f", p.Speed),
	}
}

// newBackend builds a soft backend with a fresh agent population for the
// current parameters.
func newBackend(p FieldParams, seed int64) *systems.SoftBackend {
	rng := rand.New(rand.NewSource(seed))

	backend := systems.NewSoftBackend(systems.SoftParams{
		Width:  arenaSize,
		Height: arenaSize,
		Steer: systems.SteerParams{
			SensorAngle:    0.5,
			SensorDistance: p.SensorDistance,
			TurnStrength:   p.TurnStrength,
			Jitter:         0.15,
		},
		DecayFactor:     p.DecayFactor,
		DepositRadius:   p.DepositRadius,
		DepositStrength: p.DepositStrength,
	})

	for slot := 0; slot < agentCount; slot++ {
		backend.Spawn(slot, systems.SpawnData{
			X:          rng.Float32() * arenaSize,
			Y:          rng.Float32() * arenaSize,
			Heading:    rng.Float32() * systems.TwoPi,
			Speed:      p.Speed,
			RoleWeight: 0.25,
		})
	}
	return backend
}

// updateTexture maps field intensity to a dark-to-light gradient and uploads
// it to the preview texture.
func updateTexture(texture rl.Texture2D, field *systems.Field, pixels []color.RGBA) {
	for y := 0; y < arenaSize; y++ {
		for x := 0; x < arenaSize; x++ {
			v := field.Sample(float32(x), float32(y))
			if v > 1 {
				v = 1
			}

			var r, g, b uint8
			switch {
			case v < 0.25:
				t := v / 0.25
				r = uint8(8 + t*20)
				g = uint8(10 + t*40)
				b = uint8(20 + t*80)
			case v < 0.5:
				t := (v - 0.25) / 0.25
				r = uint8(28 + t*30)
				g = uint8(50 + t*110)
				b = uint8(100 + t*80)
			case v < 0.75:
				t := (v - 0.5) / 0.25
				r = uint8(58 + t*140)
				g = uint8(160 + t*40)
				b = uint8(180 - t*120)
			default:
				t := (v - 0.75) / 0.25
				r = uint8(198 + t*57)
				g = uint8(200 + t*55)
				b = uint8(60 + t*195)
			}
			pixels[y*arenaSize+x] = color.RGBA{R: r, G: g, B: b, A: 255}
		}
	}
	rl.UpdateTexture(texture, pixels)
}
