package game

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput processes keyboard controls:
//
//	space    pause / resume
//	comma    slow down
//	period   speed up
//	r        reset the trail field
func (g *Game) handleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyComma) && g.speed > 1 {
		g.speed--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.speed < 10 {
		g.speed++
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.pipeline.Trail().Reset()
	}
}
