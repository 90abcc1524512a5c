package systems

import (
	"log/slog"
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/pthm-cable/mycelia/dataset"
)

// frontierVerbs is the pool of directive verbs for frontier labels.
var frontierVerbs = []string{
	"bridging",
	"weaving",
	"grafting",
	"linking",
	"threading",
	"translating",
	"crossing",
	"splicing",
}

// SpawnerParams collects the scheduler knobs. Filled from config at
// construction so the scheduler itself has no config dependency.
type SpawnerParams struct {
	CanvasW, CanvasH float32

	WindowYears       float64
	MinSimilarity     float64
	TrioSize          int
	TrioIntervalYears int
	FrontierCap       int
	SpawnCapPerTick   int

	Weights                ScoreWeights
	CooldownYears          float64
	RecencySaturationYears float64
	NounWords              int

	Speed             float32
	FrontierSpeedMult float32
	SpeedJitter       float32
	SpawnJitter       float32
	EcoMinAge         int
	EcoMaxAge         int
	FrontierMinAge    int
	FrontierMaxAge    int

	FrontierWeight  float32
	EcosystemWeight float32
}

// TickStats reports what one scheduler tick did, for telemetry.
type TickStats struct {
	Year         int
	Candidates   int
	DroppedByCap int
	Ecosystem    int
	Frontier     int
	TrioRotated  bool
}

// Spawner runs the once-per-simulated-year spawn selection: trio rotation,
// bridge filtering, frontier scoring with pathway cooldowns, and spawn-data
// construction for both roles.
type Spawner struct {
	data   *dataset.Store
	params SpawnerParams
	rng    *rand.Rand

	trio         []int
	trioYear     int
	lastTickYear int
	ticked       bool

	cooldowns PathwayCooldowns
}

// NewSpawner creates a spawner over the loaded dataset.
func NewSpawner(data *dataset.Store, params SpawnerParams, rng *rand.Rand) *Spawner {
	return &Spawner{
		data:      data,
		params:    params,
		rng:       rng,
		cooldowns: make(PathwayCooldowns),
	}
}

// Trio returns the current protagonist cluster ids.
func (s *Spawner) Trio() []int {
	return s.trio
}

// Tick runs the scheduler if the clock has crossed an integer year boundary
// since the last call. Returns the spawn batch for the registry (nil when
// nothing happened) and stats for this tick.
func (s *Spawner) Tick(year float64, reg *Registry) ([]SpawnData, TickStats) {
	y := int(math.Floor(year))
	if s.ticked && y == s.lastTickYear {
		return nil, TickStats{}
	}
	s.lastTickYear = y
	s.ticked = true

	stats := TickStats{Year: y}

	if s.trio == nil || y-s.trioYear >= s.params.TrioIntervalYears {
		active := s.data.ActiveClusterIDs(year, s.params.WindowYears)
		s.trio = SelectTrio(active, s.params.TrioSize, s.rng)
		s.trioYear = y
		stats.TrioRotated = true
	}

	candidates := s.collectCandidates(year)
	stats.Candidates = len(candidates)
	if len(candidates) == 0 {
		return nil, stats
	}

	// Truncate by similarity against both the pool and the per-tick cap, so
	// the strongest bridges survive congestion. The caps see the whole
	// qualifying list; the protagonist restriction comes after.
	cap := s.params.SpawnCapPerTick
	if avail := reg.AvailableSlots(); avail < cap {
		cap = avail
	}
	if len(candidates) > cap {
		sort.Slice(candidates, func(i, j int) bool {
			return candidates[i].Similarity > candidates[j].Similarity
		})
		stats.DroppedByCap = len(candidates) - cap
		candidates = candidates[:cap]
	}

	inTrio := make(map[int]bool, len(s.trio))
	for _, id := range s.trio {
		inTrio[id] = true
	}

	frontierIdx := s.pickFrontier(candidates, inTrio, year, reg)

	batch := make([]SpawnData, 0, len(candidates))
	for i, b := range candidates {
		if !inTrio[b.SourceCluster] {
			continue
		}
		if i == frontierIdx {
			d, ok := s.frontierSpawn(b)
			if !ok {
				continue
			}
			s.cooldowns[b.PathwayKey()] = year
			batch = append(batch, d)
			stats.Frontier++
			continue
		}
		d, ok := s.ecosystemSpawn(b)
		if !ok {
			continue
		}
		batch = append(batch, d)
		stats.Ecosystem++
	}
	return batch, stats
}

// ResetPathways drops all pathway cooldowns. Called when the year clock
// wraps back to the start, where stale future-dated entries would otherwise
// pin every pathway at recency zero.
func (s *Spawner) ResetPathways() {
	s.cooldowns = make(PathwayCooldowns)
}

// OnFrontierDeath clears pathway cooldowns for dead frontier agents, making
// their pathways eligible again on the next tick.
func (s *Spawner) OnFrontierDeath(deaths []FrontierDeath) {
	for _, d := range deaths {
		delete(s.cooldowns, dataset.PathwayKey{Source: d.SourceCluster, Target: d.TargetCluster})
	}
}

// collectCandidates filters bridges to those inside the sliding window,
// above the similarity floor, and with resolvable endpoints. Deliberately
// not restricted to the trio: non-protagonist bridges still count against
// the caps before the trio restriction picks who actually spawns.
func (s *Spawner) collectCandidates(year float64) []*dataset.Bridge {
	var out []*dataset.Bridge
	for _, b := range s.data.Bridges {
		if b.Year <= year-s.params.WindowYears || b.Year > year {
			continue
		}
		if b.Similarity < s.params.MinSimilarity {
			continue
		}
		if _, ok := s.data.Cluster(b.SourceCluster); !ok {
			continue
		}
		if _, ok := s.data.Cluster(b.TargetCluster); !ok {
			continue
		}
		out = append(out, b)
	}
	return out
}

// pickFrontier returns the index of the protagonist-sourced candidate
// promoted to frontier, or -1 when the frontier cap or the noun dedup rule
// spawns everything out. A cooled-down pathway is still scored, its recency
// term contributing zero.
func (s *Spawner) pickFrontier(candidates []*dataset.Bridge, inTrio map[int]bool, year float64, reg *Registry) int {
	if reg.FrontierCount() >= s.params.FrontierCap {
		return -1
	}

	best := -1
	bestScore := math.Inf(-1)
	for i, b := range candidates {
		if !inTrio[b.SourceCluster] {
			continue
		}
		recency := RecencyScore(s.cooldowns, b.PathwayKey(), year,
			s.params.CooldownYears, s.params.RecencySaturationYears)
		target, _ := s.data.Cluster(b.TargetCluster)
		if reg.HasNoun(s.directiveNoun(target)) {
			continue
		}
		source, _ := s.data.Cluster(b.SourceCluster)
		norm := NormalizedDistance(source, target, s.params.CanvasW, s.params.CanvasH)
		score := BridgeScore(recency, b.Similarity, norm, s.params.Weights)
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	return best
}

func (s *Spawner) frontierSpawn(b *dataset.Bridge) (SpawnData, bool) {
	target, ok := s.data.Cluster(b.TargetCluster)
	if !ok {
		return SpawnData{}, false
	}
	x, y, title, ok := s.spawnOrigin(b)
	if !ok {
		return SpawnData{}, false
	}
	x += s.jitter()
	y += s.jitter()
	heading := float32(math.Atan2(
		float64(target.CentroidY-y),
		float64(target.CentroidX-x),
	))

	return SpawnData{
		X: x, Y: y,
		Heading:       heading,
		Speed:         s.jitteredSpeed() * s.params.FrontierSpeedMult,
		MaxAge:        s.randomAge(s.params.FrontierMinAge, s.params.FrontierMaxAge),
		Frontier:      true,
		Hue:           ClusterHue(b.SourceCluster),
		Brightness:    1.0,
		RoleWeight:    s.params.FrontierWeight,
		SourceCluster: b.SourceCluster,
		TargetCluster: b.TargetCluster,
		TargetX:       target.CentroidX,
		TargetY:       target.CentroidY,
		Narrative: Narrative{
			Verb:         frontierVerbs[s.rng.Intn(len(frontierVerbs))],
			Noun:         s.directiveNoun(target),
			ProjectTitle: title,
			ClusterName:  target.DisplayName(),
		},
	}, true
}

// ecosystemSpawn builds the spawn data for a background agent: same origin
// and initial heading toward the target centroid as a frontier, but base
// speed, short life, dim, and no narrative.
func (s *Spawner) ecosystemSpawn(b *dataset.Bridge) (SpawnData, bool) {
	target, ok := s.data.Cluster(b.TargetCluster)
	if !ok {
		return SpawnData{}, false
	}
	x, y, _, ok := s.spawnOrigin(b)
	if !ok {
		return SpawnData{}, false
	}
	x += s.jitter()
	y += s.jitter()
	heading := float32(math.Atan2(
		float64(target.CentroidY-y),
		float64(target.CentroidX-x),
	))

	return SpawnData{
		X: x, Y: y,
		Heading:       heading,
		Speed:         s.jitteredSpeed(),
		MaxAge:        s.randomAge(s.params.EcoMinAge, s.params.EcoMaxAge),
		Hue:           ClusterHue(b.SourceCluster),
		Brightness:    0.45,
		RoleWeight:    s.params.EcosystemWeight,
		SourceCluster: b.SourceCluster,
		TargetCluster: b.TargetCluster,
		TargetX:       target.CentroidX,
		TargetY:       target.CentroidY,
	}, true
}

// spawnOrigin resolves the screen position of the project that produced the
// bridge. A bridge whose project has no known position is warn-logged and
// dropped; the rest of the batch proceeds.
func (s *Spawner) spawnOrigin(b *dataset.Bridge) (x, y float32, title string, ok bool) {
	p, found := s.data.Project(b.ProjectID)
	if !found {
		slog.Warn("bridge project has no position, dropping candidate",
			"project_id", b.ProjectID,
			"source_cluster", b.SourceCluster,
			"target_cluster", b.TargetCluster)
		return 0, 0, "", false
	}
	return p.X, p.Y, p.Title, true
}

// directiveNoun joins the target cluster's leading terms, truncated to the
// configured word count.
func (s *Spawner) directiveNoun(c *dataset.Cluster) string {
	n := s.params.NounWords
	if n <= 0 || n > len(c.TopTerms) {
		n = len(c.TopTerms)
	}
	return strings.Join(c.TopTerms[:n], " ")
}

func (s *Spawner) jitter() float32 {
	return (s.rng.Float32()*2 - 1) * s.params.SpawnJitter
}

func (s *Spawner) jitteredSpeed() float32 {
	return s.params.Speed * (1 + (s.rng.Float32()*2-1)*s.params.SpeedJitter)
}

func (s *Spawner) randomAge(min, max int) int {
	if max <= min {
		return min
	}
	return min + s.rng.Intn(max-min)
}

// ClusterHue maps a cluster id to a stable hue via the golden angle, so
// neighboring ids land far apart on the wheel.
func ClusterHue(id int) float32 {
	return float32(math.Mod(float64(id)*137.508, 360))
}
