package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/mycelia/dataset"
)

// testStore builds a three-cluster dataset with projects far apart on a
// 1920x1080 canvas. All projects sit in the year 2000 window.
func testStore(bridges []*dataset.Bridge) *dataset.Store {
	projects := []*dataset.Project{
		{ID: 1, Title: "Gel Actuators", Year: 1998, Themes: "soft matter;gels", X: 200, Y: 200, ClusterID: 1},
		{ID: 2, Title: "Swarm Mapping", Year: 1999, Themes: "robotics;swarms", X: 1700, Y: 200, ClusterID: 2},
		{ID: 3, Title: "Reef Sensing", Year: 2000, Themes: "oceans;sensing", X: 960, Y: 950, ClusterID: 3},
	}
	return dataset.NewStore(projects, bridges)
}

func testParams() SpawnerParams {
	return SpawnerParams{
		CanvasW: 1920, CanvasH: 1080,
		WindowYears:       10,
		MinSimilarity:     0.68,
		TrioSize:          3,
		TrioIntervalYears: 5,
		FrontierCap:       10,
		SpawnCapPerTick:   24,
		Weights:           ScoreWeights{Recency: 0.45, Intensity: 0.35, Bridging: 0.20},
		CooldownYears:     1, RecencySaturationYears: 25,
		NounWords: 3,
		Speed:     1.2, FrontierSpeedMult: 1.5,
		EcoMinAge: 100, EcoMaxAge: 4000,
		FrontierMinAge: 8000, FrontierMaxAge: 12500,
		FrontierWeight: 1.0, EcosystemWeight: 0.07,
	}
}

func testRegistry(capacity int) (*Registry, *recordingBackend) {
	backend := newRecordingBackend()
	return NewRegistry(NewSlotPool(capacity), backend, 18, 120), backend
}

func bridge(projectID, source, target int, sim, year float64) *dataset.Bridge {
	return &dataset.Bridge{
		ProjectID: projectID, SourceCluster: source, TargetCluster: target,
		Similarity: sim, Year: year,
	}
}

func TestTickNoQualifyingBridges(t *testing.T) {
	// Bridges outside the window or below the similarity floor never spawn.
	store := testStore([]*dataset.Bridge{
		bridge(1, 1, 2, 0.9, 1985), // too old for a year-2000 window
		bridge(2, 2, 3, 0.5, 2000), // below the floor
	})
	reg, _ := testRegistry(64)
	sp := NewSpawner(store, testParams(), rand.New(rand.NewSource(1)))

	batch, stats := sp.Tick(2000, reg)
	if len(batch) != 0 {
		t.Fatalf("spawned %d agents from no qualifying bridges", len(batch))
	}
	if stats.Candidates != 0 {
		t.Errorf("candidates = %d, want 0", stats.Candidates)
	}
	if reg.ActiveCount() != 0 {
		t.Errorf("registry active = %d, want 0", reg.ActiveCount())
	}
}

func TestTickFiresOncePerYear(t *testing.T) {
	store := testStore([]*dataset.Bridge{bridge(1, 1, 2, 0.9, 2000)})
	reg, _ := testRegistry(64)
	sp := NewSpawner(store, testParams(), rand.New(rand.NewSource(1)))

	batch, _ := sp.Tick(2000.0, reg)
	if len(batch) == 0 {
		t.Fatal("first tick spawned nothing")
	}
	reg.SpawnBatch(batch)

	// Fractional advances within the same year are no-ops.
	for _, yr := range []float64{2000.2, 2000.5, 2000.99} {
		if b, _ := sp.Tick(yr, reg); b != nil {
			t.Fatalf("mid-year tick at %v produced a batch", yr)
		}
	}

	// Crossing the boundary fires again.
	if b, _ := sp.Tick(2001.0, reg); len(b) == 0 {
		t.Error("year-boundary tick spawned nothing")
	}
}

func TestTickPromotesOneFrontier(t *testing.T) {
	store := testStore([]*dataset.Bridge{
		bridge(1, 1, 2, 0.95, 2000),
		bridge(1, 1, 3, 0.80, 2000),
		bridge(2, 2, 3, 0.75, 1999),
	})
	reg, _ := testRegistry(64)
	sp := NewSpawner(store, testParams(), rand.New(rand.NewSource(1)))

	batch, stats := sp.Tick(2000, reg)
	if stats.Frontier != 1 {
		t.Fatalf("frontier spawns = %d, want 1", stats.Frontier)
	}
	if stats.Ecosystem != len(batch)-1 {
		t.Errorf("ecosystem spawns = %d, want %d", stats.Ecosystem, len(batch)-1)
	}

	var f *SpawnData
	for i := range batch {
		if batch[i].Frontier {
			if f != nil {
				t.Fatal("more than one frontier in batch")
			}
			f = &batch[i]
		}
	}
	if f == nil {
		t.Fatal("no frontier in batch")
	}
	if f.RoleWeight != 1.0 {
		t.Errorf("frontier role weight = %v, want 1.0", f.RoleWeight)
	}
	if f.Hue != ClusterHue(f.SourceCluster) {
		t.Errorf("frontier hue = %v, want the source cluster's %v",
			f.Hue, ClusterHue(f.SourceCluster))
	}
	if f.Narrative.Verb == "" || f.Narrative.Noun == "" {
		t.Errorf("frontier narrative incomplete: %+v", f.Narrative)
	}
	target, _ := store.Cluster(f.TargetCluster)
	if f.TargetX != target.CentroidX || f.TargetY != target.CentroidY {
		t.Errorf("frontier target (%v, %v) not the centroid (%v, %v)",
			f.TargetX, f.TargetY, target.CentroidX, target.CentroidY)
	}
}

func TestLiveNounBlocksRepeatFrontier(t *testing.T) {
	store := testStore([]*dataset.Bridge{
		bridge(1, 1, 2, 0.95, 2000),
		bridge(1, 1, 2, 0.95, 2001),
	})
	reg, _ := testRegistry(64)
	params := testParams()
	params.FrontierCap = 100
	sp := NewSpawner(store, params, rand.New(rand.NewSource(1)))

	b1, s1 := sp.Tick(2000, reg)
	reg.SpawnBatch(b1)
	if s1.Frontier != 1 {
		t.Fatalf("first tick frontier = %d, want 1", s1.Frontier)
	}

	// Same pathway one year later: the live frontier agent still carries
	// the directive noun, so no second frontier.
	_, s2 := sp.Tick(2001.0, reg)
	if s2.Frontier != 0 {
		t.Errorf("duplicate noun re-promoted: frontier = %d", s2.Frontier)
	}
}

func TestCooledPathwayStillPromotes(t *testing.T) {
	// A pathway inside its cooldown scores zero on the recency term but is
	// not excluded: with no live frontier holding the noun, similarity and
	// bridging distance alone still promote the best bridge.
	store := testStore([]*dataset.Bridge{bridge(1, 1, 2, 0.95, 2000)})
	reg, _ := testRegistry(64)
	params := testParams()
	params.CooldownYears = 2
	sp := NewSpawner(store, params, rand.New(rand.NewSource(1)))

	// Promote at 2000 without registering the batch, so no agent carries
	// the noun at the next tick.
	_, s1 := sp.Tick(2000, reg)
	if s1.Frontier != 1 {
		t.Fatalf("first tick frontier = %d, want 1", s1.Frontier)
	}

	_, s2 := sp.Tick(2001.0, reg)
	if s2.Frontier != 1 {
		t.Errorf("cooled pathway demoted: frontier = %d, want 1", s2.Frontier)
	}
}

func TestFrontierDeathClearsCooldown(t *testing.T) {
	store := testStore([]*dataset.Bridge{bridge(1, 1, 2, 0.95, 2000)})
	reg, _ := testRegistry(64)
	sp := NewSpawner(store, testParams(), rand.New(rand.NewSource(1)))

	sp.Tick(2000, reg)
	key := dataset.PathwayKey{Source: 1, Target: 2}
	if _, ok := sp.cooldowns[key]; !ok {
		t.Fatal("cooldown not recorded on promotion")
	}

	sp.OnFrontierDeath([]FrontierDeath{{SourceCluster: 1, TargetCluster: 2, ByArrival: true}})
	if _, ok := sp.cooldowns[key]; ok {
		t.Error("cooldown survived the frontier death")
	}
}

func TestFrontierCapHolds(t *testing.T) {
	store := testStore([]*dataset.Bridge{
		bridge(1, 1, 2, 0.95, 2000),
		bridge(1, 1, 3, 0.90, 2001),
	})
	reg, _ := testRegistry(64)
	params := testParams()
	params.FrontierCap = 1
	sp := NewSpawner(store, params, rand.New(rand.NewSource(1)))

	b1, _ := sp.Tick(2000, reg)
	reg.SpawnBatch(b1)
	if reg.FrontierCount() != 1 {
		t.Fatalf("frontier count = %d after first tick, want 1", reg.FrontierCount())
	}

	_, s2 := sp.Tick(2001.0, reg)
	if s2.Frontier != 0 {
		t.Errorf("frontier cap ignored: spawned %d more", s2.Frontier)
	}
}

func TestSpawnCapTruncatesBySimilarity(t *testing.T) {
	// Six candidates, per-tick cap of three: the weakest three are dropped.
	bridges := []*dataset.Bridge{
		bridge(1, 1, 2, 0.70, 2000),
		bridge(1, 1, 2, 0.99, 2000),
		bridge(1, 1, 3, 0.72, 2000),
		bridge(1, 1, 3, 0.95, 2000),
		bridge(2, 2, 3, 0.71, 2000),
		bridge(2, 2, 1, 0.90, 2000),
	}
	store := testStore(bridges)
	reg, _ := testRegistry(64)
	params := testParams()
	params.SpawnCapPerTick = 3
	sp := NewSpawner(store, params, rand.New(rand.NewSource(1)))

	batch, stats := sp.Tick(2000, reg)
	if len(batch) != 3 {
		t.Fatalf("batch size = %d, want 3", len(batch))
	}
	if stats.DroppedByCap != 3 {
		t.Errorf("dropped = %d, want 3", stats.DroppedByCap)
	}
	for _, d := range batch {
		// Survivors are the three most similar bridges (0.99, 0.95, 0.90),
		// all of which target a resolvable cluster.
		if d.Hue == 0 && d.Brightness == 0 {
			t.Errorf("empty spawn data in truncated batch: %+v", d)
		}
	}
}

func TestSpawnCapRespectsPool(t *testing.T) {
	bridges := []*dataset.Bridge{
		bridge(1, 1, 2, 0.90, 2000),
		bridge(1, 1, 3, 0.85, 2000),
		bridge(2, 2, 3, 0.80, 2000),
	}
	store := testStore(bridges)
	reg, _ := testRegistry(2) // only two free slots
	sp := NewSpawner(store, testParams(), rand.New(rand.NewSource(1)))

	batch, stats := sp.Tick(2000, reg)
	if len(batch) != 2 {
		t.Fatalf("batch size = %d with 2 free slots, want 2", len(batch))
	}
	if stats.DroppedByCap != 1 {
		t.Errorf("dropped = %d, want 1", stats.DroppedByCap)
	}
}

func TestEcosystemSpawnAimsAtTarget(t *testing.T) {
	// The ecosystem role differs from frontier only in speed, life, and
	// narrative: it still rises at its source project heading toward the
	// target centroid, and carries the pathway association.
	store := testStore([]*dataset.Bridge{
		bridge(1, 1, 2, 0.95, 2000),
		bridge(1, 1, 3, 0.80, 2000),
	})
	reg, _ := testRegistry(64)
	sp := NewSpawner(store, testParams(), rand.New(rand.NewSource(1)))

	batch, _ := sp.Tick(2000, reg)
	var eco *SpawnData
	for i := range batch {
		if !batch[i].Frontier {
			eco = &batch[i]
		}
	}
	if eco == nil {
		t.Fatal("no ecosystem agent in batch")
	}
	if eco.SourceCluster == 0 || eco.TargetCluster == 0 {
		t.Fatalf("ecosystem pathway missing: source %d target %d",
			eco.SourceCluster, eco.TargetCluster)
	}

	target, _ := store.Cluster(eco.TargetCluster)
	want := math.Atan2(float64(target.CentroidY-eco.Y), float64(target.CentroidX-eco.X))
	if diff := math.Abs(float64(eco.Heading) - want); diff > 1e-5 {
		t.Errorf("ecosystem heading = %v, want %v toward the target centroid",
			eco.Heading, want)
	}
	if eco.TargetX != target.CentroidX || eco.TargetY != target.CentroidY {
		t.Errorf("ecosystem target (%v, %v) not the centroid (%v, %v)",
			eco.TargetX, eco.TargetY, target.CentroidX, target.CentroidY)
	}
}

func TestUnresolvableProjectDropsCandidate(t *testing.T) {
	// A bridge whose project id has no known position is dropped; the rest
	// of the batch proceeds.
	store := testStore([]*dataset.Bridge{
		bridge(99, 1, 2, 0.95, 2000), // no project 99
		bridge(1, 1, 3, 0.80, 2000),
	})
	reg, _ := testRegistry(64)
	sp := NewSpawner(store, testParams(), rand.New(rand.NewSource(1)))

	batch, stats := sp.Tick(2000, reg)
	if stats.Candidates != 2 {
		t.Fatalf("candidates = %d, want 2", stats.Candidates)
	}
	if len(batch) != 1 {
		t.Fatalf("batch size = %d, want 1 after dropping the unresolvable bridge", len(batch))
	}
	if batch[0].SourceCluster != 1 || batch[0].TargetCluster != 3 {
		t.Errorf("surviving spawn is pathway %d->%d, want 1->3",
			batch[0].SourceCluster, batch[0].TargetCluster)
	}
}

func TestNonTrioBridgesCountAgainstCap(t *testing.T) {
	// Cluster 4 has no window-active project, so it can never be a
	// protagonist; its bridges still qualify and consume the per-tick cap
	// before the trio restriction decides who spawns.
	projects := []*dataset.Project{
		{ID: 1, Title: "Gel Actuators", Year: 1998, Themes: "soft matter;gels", X: 200, Y: 200, ClusterID: 1},
		{ID: 2, Title: "Swarm Mapping", Year: 1999, Themes: "robotics;swarms", X: 1700, Y: 200, ClusterID: 2},
		{ID: 3, Title: "Reef Sensing", Year: 2000, Themes: "oceans;sensing", X: 960, Y: 950, ClusterID: 3},
		{ID: 4, Title: "Loom Archives", Year: 1900, Themes: "textiles;archives", X: 400, Y: 800, ClusterID: 4},
	}
	store := dataset.NewStore(projects, []*dataset.Bridge{
		bridge(4, 4, 1, 0.99, 2000),
		bridge(4, 4, 2, 0.98, 2000),
		bridge(1, 1, 2, 0.90, 2000),
	})
	reg, _ := testRegistry(64)
	params := testParams()
	params.SpawnCapPerTick = 2
	sp := NewSpawner(store, params, rand.New(rand.NewSource(1)))

	batch, stats := sp.Tick(2000, reg)
	if stats.Candidates != 3 {
		t.Fatalf("candidates = %d, want 3", stats.Candidates)
	}
	if stats.DroppedByCap != 1 {
		t.Errorf("dropped = %d, want 1 (the weakest, which was trio-sourced)", stats.DroppedByCap)
	}
	if len(batch) != 0 {
		t.Errorf("non-trio bridges spawned %d agents", len(batch))
	}
}

func TestTrioRotation(t *testing.T) {
	store := testStore([]*dataset.Bridge{bridge(1, 1, 2, 0.9, 2000)})
	reg, _ := testRegistry(64)
	sp := NewSpawner(store, testParams(), rand.New(rand.NewSource(1)))

	_, s1 := sp.Tick(2000, reg)
	if !s1.TrioRotated {
		t.Fatal("first tick did not select a trio")
	}
	if len(sp.Trio()) != 3 {
		t.Fatalf("trio = %v, want all 3 active clusters", sp.Trio())
	}

	for yr := 2001; yr <= 2004; yr++ {
		_, s := sp.Tick(float64(yr), reg)
		if s.TrioRotated {
			t.Fatalf("trio rotated early at year %d", yr)
		}
	}
	_, s5 := sp.Tick(2005, reg)
	if !s5.TrioRotated {
		t.Error("trio did not rotate at the interval boundary")
	}
}

func TestDirectiveNounTruncation(t *testing.T) {
	sp := NewSpawner(testStore(nil), testParams(), rand.New(rand.NewSource(1)))

	c := &dataset.Cluster{TopTerms: []string{"coral", "reef", "acoustic", "telemetry"}}
	if got := sp.directiveNoun(c); got != "coral reef acoustic" {
		t.Errorf("noun = %q, want %q", got, "coral reef acoustic")
	}

	short := &dataset.Cluster{TopTerms: []string{"gels"}}
	if got := sp.directiveNoun(short); got != "gels" {
		t.Errorf("noun = %q, want %q", got, "gels")
	}
}

func TestClusterHueStableAndSpread(t *testing.T) {
	if ClusterHue(3) != ClusterHue(3) {
		t.Error("hue not stable")
	}
	a, b := ClusterHue(1), ClusterHue(2)
	if a == b {
		t.Error("adjacent cluster ids share a hue")
	}
	for id := 0; id < 50; id++ {
		h := ClusterHue(id)
		if h < 0 || h >= 360 {
			t.Fatalf("hue out of range for id %d: %v", id, h)
		}
	}
}
