// Package game wires the simulation together: the year clock, the spawn
// scheduler, the agent backend (GPU pipeline or soft CPU), lifecycle, the
// frontier mirror, and telemetry. One Game per run.
package game

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/pthm-cable/mycelia/config"
	"github.com/pthm-cable/mycelia/dataset"
	"github.com/pthm-cable/mycelia/renderer"
	"github.com/pthm-cable/mycelia/systems"
	"github.com/pthm-cable/mycelia/telemetry"
	"github.com/pthm-cable/mycelia/ui"
)

// Options configures a run.
type Options struct {
	Seed           int64
	Headless       bool
	StepsPerUpdate int // headless steps per UpdateHeadless call
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	OutputDir      string  // empty disables CSV output
	Data           *dataset.Store
}

// Game owns the full simulation state.
type Game struct {
	cfg  *config.Config
	opts Options
	data *dataset.Store
	rng  *rand.Rand

	pool     *systems.SlotPool
	registry *systems.Registry
	spawner  *systems.Spawner
	mirror   *systems.Mirror

	pipeline *renderer.Pipeline    // graphical runs
	soft     *systems.SoftBackend  // headless runs
	overlay  *renderer.Overlay
	hud      *ui.HUD
	ledger   *ui.Ledger

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager

	tick   int
	year   float64
	paused bool
	speed  int

	// Scheduler edge detection, kept separate from the spawner's own so
	// telemetry records exactly the ticks that fired.
	schedYear   int
	schedTicked bool
}

// NewGame builds a game from the loaded config and options. In graphical
// mode the raylib window must already exist.
func NewGame(opts Options) (*Game, error) {
	if opts.Data == nil {
		return nil, fmt.Errorf("game: no dataset")
	}
	cfg := config.Cfg()

	if opts.StepsPerUpdate < 1 {
		opts.StepsPerUpdate = 1
	}

	g := &Game{
		cfg:   cfg,
		opts:  opts,
		data:  opts.Data,
		rng:   rand.New(rand.NewSource(opts.Seed)),
		pool:  systems.NewSlotPool(cfg.Agents.Capacity),
		year:  cfg.Clock.StartYear,
		speed: 1,
	}

	g.spawner = systems.NewSpawner(opts.Data, spawnerParams(cfg), g.rng)

	var backend systems.Backend
	if opts.Headless {
		g.soft = systems.NewSoftBackend(softParams(cfg))
		backend = g.soft
	} else {
		pipeline, err := renderer.NewPipeline(pipelineParams(cfg))
		if err != nil {
			return nil, fmt.Errorf("gpu pipeline init: %w", err)
		}
		g.pipeline = pipeline
		backend = g.pipeline
		g.mirror = systems.NewMirror()
		g.overlay = renderer.NewOverlay()
		g.hud = ui.NewHUD()
		g.ledger = ui.NewLedger()
	}

	g.registry = systems.NewRegistry(g.pool, backend,
		float32(cfg.Agents.ArrivalRadius), cfg.Agents.GraceFrames)

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}
	g.collector = telemetry.NewCollector(statsWindow, cfg.Derived.DT32)
	g.perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	g.output = output
	if err := g.output.WriteConfig(cfg); err != nil {
		slog.Warn("failed to write run config", "error", err)
	}

	slog.Info("game initialized",
		"projects", len(opts.Data.Projects),
		"bridges", len(opts.Data.Bridges),
		"clusters", len(opts.Data.Clusters),
		"capacity", cfg.Agents.Capacity,
		"headless", opts.Headless,
		"seed", opts.Seed,
	)
	return g, nil
}

// UpdateHeadless advances the simulation StepsPerUpdate ticks with no
// rendering.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.opts.StepsPerUpdate; i++ {
		g.simulationStep()
	}
}

// simulationStep runs one tick: clock, scheduler, agents, mirror, lifecycle,
// telemetry.
func (g *Game) simulationStep() {
	g.perf.StartTick()
	g.perf.StartPhase(telemetry.PhaseScheduler)

	g.advanceClock()
	g.runScheduler()

	g.perf.StartPhase(telemetry.PhaseAgents)
	if g.pipeline != nil {
		g.pipeline.StepAgents()
	} else {
		g.soft.StepAgents()
	}

	g.perf.StartPhase(telemetry.PhaseTrail)
	if g.pipeline != nil {
		g.pipeline.StepTrail()
	} else {
		g.soft.StepTrail()
	}

	g.perf.StartPhase(telemetry.PhaseMirror)
	if g.mirror != nil {
		g.mirror.Step()
		g.correctMirror()
	}

	g.perf.StartPhase(telemetry.PhaseLifecycle)
	g.runLifecycle()

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perf.EndTick()
	g.tick++
}

// advanceClock moves the year clock one frame, wrapping at the end of the
// simulated range. Pathway cooldowns reset on wrap: they are keyed by
// absolute year and would otherwise all sit in the future.
func (g *Game) advanceClock() {
	g.year += g.cfg.Clock.YearsPerSecond * float64(g.cfg.Derived.DT32)
	if g.year > g.cfg.Clock.EndYear {
		g.year = g.cfg.Clock.StartYear
		g.spawner.ResetPathways()
		g.schedTicked = false
		slog.Info("clock wrapped", "year", g.year)
	}
}

// runScheduler fires the spawner on integer year boundaries and applies the
// resulting batch.
func (g *Game) runScheduler() {
	y := int(math.Floor(g.year))
	if g.schedTicked && y == g.schedYear {
		return
	}
	g.schedYear = y
	g.schedTicked = true

	batch, ts := g.spawner.Tick(g.year, g.registry)
	g.collector.RecordSchedulerTick(ts)
	if len(batch) == 0 {
		return
	}

	slots := g.registry.SpawnBatch(batch)
	for i, slot := range slots {
		d := &batch[i]
		if !d.Frontier {
			continue
		}
		if g.mirror != nil {
			g.mirror.Add(slot, *d)
		}
		g.writeNarrative("spawn", d.Narrative, d.SourceCluster, d.TargetCluster)
	}
	g.collector.RecordSpawns(ts.Ecosystem, ts.Frontier)
}

// correctMirror periodically overwrites mirrored frontier positions with a
// GPU readback, bounding drift between the mirror's straight-line
// re-integration and the trail-following truth.
func (g *Game) correctMirror() {
	interval := g.cfg.GPU.ReadbackInterval
	if g.pipeline == nil || interval <= 0 || g.tick%interval != 0 {
		return
	}
	for _, ap := range g.pipeline.ReadPositions() {
		g.mirror.Correct(ap.Slot, ap.X, ap.Y)
	}
}

// runLifecycle ages agents, retires the dead, and routes frontier deaths to
// the mirror, the spawner's cooldowns, and the narrative log.
func (g *Game) runLifecycle() {
	timeouts, arrivals := g.registry.Advance(g.positions())
	for i := 0; i < timeouts; i++ {
		g.collector.RecordDeath(false)
	}
	for i := 0; i < arrivals; i++ {
		g.collector.RecordDeath(true)
	}

	deaths := g.registry.DrainDeadFrontier()
	if len(deaths) > 0 {
		if g.mirror != nil {
			for _, d := range deaths {
				g.mirror.Remove(d.Slot)
			}
		}
		g.spawner.OnFrontierDeath(deaths)
		for _, d := range deaths {
			event := "timeout"
			if d.ByArrival {
				event = "arrival"
			}
			g.writeNarrative(event, d.Narrative, d.SourceCluster, d.TargetCluster)
		}
	}

	for _, a := range g.registry.DrainArrivals() {
		if g.overlay != nil {
			g.overlay.AddArrival(a)
		}
	}
}

// positions returns the PositionSource for arrival detection: true positions
// from the soft backend, the mirror otherwise.
func (g *Game) positions() systems.PositionSource {
	if g.soft != nil {
		return g.soft
	}
	return g.mirror
}

func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.year,
		g.registry.ActiveCount(), g.registry.FrontierCount(),
		g.registry.AvailableSlots(), g.registry.Ages())
	perfStats := g.perf.Stats()

	if g.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}
	if err := g.output.WriteTelemetry(stats); err != nil {
		slog.Warn("telemetry write failed", "error", err)
	}
	if err := g.output.WritePerf(perfStats, g.tick); err != nil {
		slog.Warn("perf write failed", "error", err)
	}
}

func (g *Game) writeNarrative(event string, n systems.Narrative, source, target int) {
	if err := g.output.WriteNarrative(telemetry.NarrativeEvent{
		Tick:          g.tick,
		Year:          g.year,
		Event:         event,
		Verb:          n.Verb,
		Noun:          n.Noun,
		ProjectTitle:  n.ProjectTitle,
		SourceCluster: source,
		TargetCluster: target,
	}); err != nil {
		slog.Warn("narrative write failed", "error", err)
	}
}

// Tick returns the current tick count.
func (g *Game) Tick() int {
	return g.tick
}

// Year returns the current simulated year.
func (g *Game) Year() float64 {
	return g.year
}

// ActiveAgents returns the live agent count.
func (g *Game) ActiveAgents() int {
	return g.registry.ActiveCount()
}

// FrontierMirrors returns UI-facing snapshots of the live frontier agents.
// Empty in headless mode, where no mirror runs.
func (g *Game) FrontierMirrors() []systems.FrontierMirror {
	if g.mirror == nil {
		return nil
	}
	return g.mirror.Snapshot()
}

// SpawnAgents injects a prepared spawn batch outside the scheduler, e.g. for
// scripted demos. Returns the slots granted.
func (g *Game) SpawnAgents(batch []systems.SpawnData) []int {
	slots := g.registry.SpawnBatch(batch)
	if g.mirror != nil {
		for i, slot := range slots {
			if batch[i].Frontier {
				g.mirror.Add(slot, batch[i])
			}
		}
	}
	return slots
}

// Unload releases resources and closes output files.
func (g *Game) Unload() {
	if g.pipeline != nil {
		g.pipeline.Unload()
	}
	if err := g.output.Close(); err != nil {
		slog.Warn("closing output failed", "error", err)
	}
}
