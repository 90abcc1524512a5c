package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mycelia/telemetry"
	"github.com/pthm-cable/mycelia/ui"
)

// Frame runs one graphical frame: input, simulation steps at the current
// speed, then the full draw. Must not be called in headless mode.
func (g *Game) Frame() {
	g.handleInput()

	if !g.paused {
		for i := 0; i < g.speed; i++ {
			g.simulationStep()
		}
	}

	g.draw()
	g.perf.RecordFrame()
}

func (g *Game) draw() {
	g.perf.StartTick()
	g.perf.StartPhase(telemetry.PhaseRender)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.pipeline.Trail().Draw(g.cfg.Derived.ScreenW32, g.cfg.Derived.ScreenH32)

	g.overlay.DrawClusters(g.data.Clusters,
		g.data.ActiveClusterIDs(g.year, g.cfg.Clock.WindowYears), g.spawner.Trio())
	g.overlay.DrawFrontiers(g.mirror.Snapshot())
	g.overlay.DrawPings()

	g.ledger.Draw(int32(g.cfg.Screen.Width), g.mirror.Snapshot())
	actions := g.hud.Draw(ui.HUDData{
		Year:           g.year,
		ActiveAgents:   g.registry.ActiveCount(),
		FrontierAgents: g.registry.FrontierCount(),
		FreeSlots:      g.registry.AvailableSlots(),
		TrioNames:      g.trioNames(),
		FPS:            rl.GetFPS(),
		Speed:          g.speed,
		Paused:         g.paused,
		ScreenWidth:    int32(g.cfg.Screen.Width),
		ScreenHeight:   int32(g.cfg.Screen.Height),
	})

	rl.EndDrawing()
	g.perf.EndTick()

	if actions.TogglePause {
		g.paused = !g.paused
	}
	g.speed = actions.Speed
}

func (g *Game) trioNames() []string {
	trio := g.spawner.Trio()
	names := make([]string, 0, len(trio))
	for _, id := range trio {
		if c, ok := g.data.Cluster(id); ok {
			names = append(names, c.DisplayName())
		}
	}
	return names
}
