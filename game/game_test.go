package game

import (
	"math"
	"testing"

	"github.com/pthm-cable/mycelia/config"
	"github.com/pthm-cable/mycelia/dataset"
)

// The integration tests run the game headless on the soft backend, so the
// whole loop is exercised without a window.

func testStore() *dataset.Store {
	projects := []*dataset.Project{
		{ID: 1, Title: "Gesture Looms", Year: 1983, Themes: "textiles;sensors", X: 200, Y: 200, ClusterID: 1},
		{ID: 2, Title: "Woven Circuits", Year: 1984, Themes: "textiles;electronics", X: 240, Y: 220, ClusterID: 1},
		{ID: 3, Title: "Field Recorders", Year: 1984, Themes: "sound;ecology", X: 900, Y: 500, ClusterID: 2},
		{ID: 4, Title: "Chorus Machines", Year: 1985, Themes: "sound;automata", X: 940, Y: 520, ClusterID: 2},
	}
	bridges := []*dataset.Bridge{
		{ProjectID: 2, SourceCluster: 1, TargetCluster: 2, Similarity: 0.91, Year: 1985},
		{ProjectID: 1, SourceCluster: 1, TargetCluster: 2, Similarity: 0.75, Year: 1984},
		{ProjectID: 3, SourceCluster: 2, TargetCluster: 1, Similarity: 0.82, Year: 1985},
	}
	return dataset.NewStore(projects, bridges)
}

func newHeadlessGame(t *testing.T) *Game {
	t.Helper()
	config.MustInit("")

	g, err := NewGame(Options{
		Seed:           42,
		Headless:       true,
		StepsPerUpdate: 1,
		Data:           testStore(),
	})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

func TestNewGameRequiresData(t *testing.T) {
	config.MustInit("")
	if _, err := NewGame(Options{Headless: true}); err == nil {
		t.Fatal("expected error without a dataset")
	}
}

func TestHeadlessRunSpawnsAgents(t *testing.T) {
	g := newHeadlessGame(t)

	// The first tick crosses the initial year boundary, so the scheduler
	// fires immediately.
	g.UpdateHeadless()

	if g.Tick() != 1 {
		t.Fatalf("tick = %d, want 1", g.Tick())
	}
	if g.ActiveAgents() == 0 {
		t.Fatal("no agents after the first scheduler tick")
	}
	if got := g.registry.FrontierCount(); got != 1 {
		t.Errorf("frontier count = %d, want 1", got)
	}
}

func TestHeadlessClockAdvances(t *testing.T) {
	g := newHeadlessGame(t)
	cfg := config.Cfg()

	steps := 600
	for i := 0; i < steps; i++ {
		g.UpdateHeadless()
	}

	elapsed := cfg.Clock.YearsPerSecond * float64(cfg.Derived.DT32) * float64(steps)
	want := cfg.Clock.StartYear + elapsed
	if math.Abs(g.Year()-want) > 0.01 {
		t.Errorf("year = %.3f, want about %.3f", g.Year(), want)
	}
	if g.Tick() != steps {
		t.Errorf("tick = %d, want %d", g.Tick(), steps)
	}
}

func TestHeadlessLifecycleRetiresAgents(t *testing.T) {
	g := newHeadlessGame(t)
	cfg := config.Cfg()

	// Run past the shortest possible lifetime so at least one ecosystem
	// agent dies and its slot returns to the pool.
	steps := cfg.Agents.EcoMinAge + 120
	for i := 0; i < steps; i++ {
		g.UpdateHeadless()
	}

	free := g.registry.AvailableSlots()
	live := g.registry.ActiveCount()
	if free+live != cfg.Agents.Capacity {
		t.Errorf("free %d + live %d != capacity %d", free, live, cfg.Agents.Capacity)
	}
	if live == 0 {
		t.Error("expected live agents mid-run")
	}
}

func TestStepsPerUpdate(t *testing.T) {
	config.MustInit("")
	g, err := NewGame(Options{
		Seed:           7,
		Headless:       true,
		StepsPerUpdate: 25,
		Data:           testStore(),
	})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	defer g.Unload()

	g.UpdateHeadless()
	if g.Tick() != 25 {
		t.Errorf("tick = %d, want 25", g.Tick())
	}
}
