package main

import (
	"math"
	"math/rand"
	"sync"

	"github.com/pthm-cable/mycelia/config"
	"github.com/pthm-cable/mycelia/systems"
)

// Evaluation arena: a reduced canvas keeps the CPU field passes cheap while
// preserving the deposit-radius-to-canvas ratio behavior well enough to tune.
const (
	arenaW = 480
	arenaH = 270

	// Coverage counts cells above this intensity.
	coverageThreshold = 0.05

	// Last fraction of the run used for the settled-state measurement.
	measureFraction = 0.25
)

// Targets for the settled trail field. Coverage is the fraction of lit
// cells: too low reads as empty space, too high as undifferentiated glow.
type Targets struct {
	Coverage float64
	Mean     float64
}

// FitnessEvaluator runs headless soft-backend simulations and scores the
// resulting trail field against the targets. Lower fitness is better.
type FitnessEvaluator struct {
	params  *ParamVector
	ticks   int
	agents  int
	seeds   []int64
	base    *config.Config
	targets Targets

	mu          sync.Mutex
	lastMetrics Metrics
}

// Metrics holds the measured field state from the most recent evaluation.
type Metrics struct {
	Coverage float64
	Mean     float64
	Drift    float64 // mean change between measurement samples
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, ticks, agents int, seeds []int64, base *config.Config, targets Targets) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:  params,
		ticks:   ticks,
		agents:  agents,
		seeds:   seeds,
		base:    base,
		targets: targets,
	}
}

// LastMetrics returns the metrics from the most recent Evaluate call.
func (fe *FitnessEvaluator) LastMetrics() Metrics {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastMetrics
}

// Evaluate computes fitness for a parameter vector, averaged across seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := *fe.base
	fe.params.ApplyToConfig(&cfg, x)

	results := make([]Metrics, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(&cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var agg Metrics
	for _, m := range results {
		agg.Coverage += m.Coverage
		agg.Mean += m.Mean
		agg.Drift += m.Drift
	}
	n := float64(len(fe.seeds))
	agg.Coverage /= n
	agg.Mean /= n
	agg.Drift /= n

	fe.mu.Lock()
	fe.lastMetrics = agg
	fe.mu.Unlock()

	covErr := agg.Coverage - fe.targets.Coverage
	meanErr := agg.Mean - fe.targets.Mean
	return covErr*covErr + 0.5*meanErr*meanErr + 2.0*agg.Drift
}

// runSimulation steps a soft backend populated with random agents and
// measures the field over the final stretch of the run.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) Metrics {
	rng := rand.New(rand.NewSource(seed))

	backend := systems.NewSoftBackend(systems.SoftParams{
		Width:  arenaW,
		Height: arenaH,
		Steer: systems.SteerParams{
			SensorAngle:    float32(cfg.Sensor.Angle),
			SensorDistance: float32(cfg.Sensor.Distance),
			TurnStrength:   float32(cfg.Sensor.TurnStrength),
			Jitter:         float32(cfg.Sensor.Jitter),
		},
		GoalBias:        float32(cfg.Sensor.GoalBias),
		DecayFactor:     float32(cfg.Trail.DecayFactor),
		DepositRadius:   float32(cfg.Trail.DepositRadius),
		DepositStrength: float32(cfg.Trail.DepositStrength),
	})

	for slot := 0; slot < fe.agents; slot++ {
		weight := float32(cfg.Trail.EcosystemWeight)
		if slot%10 == 0 {
			weight = float32(cfg.Trail.FrontierWeight)
		}
		backend.Spawn(slot, systems.SpawnData{
			X:          rng.Float32() * arenaW,
			Y:          rng.Float32() * arenaH,
			Heading:    rng.Float32() * systems.TwoPi,
			Speed:      float32(cfg.Agents.Speed),
			RoleWeight: weight,
		})
	}

	measureStart := fe.ticks - int(float64(fe.ticks)*measureFraction)
	sampleEvery := 30

	var coverageSum, meanSum, driftSum float64
	var samples int
	prevMean := math.NaN()

	for tick := 0; tick < fe.ticks; tick++ {
		backend.Step()

		if tick < measureStart || tick%sampleEvery != 0 {
			continue
		}
		mean := backend.Field().Mean()
		coverageSum += coverage(backend.Field())
		meanSum += mean
		if !math.IsNaN(prevMean) {
			driftSum += math.Abs(mean - prevMean)
		}
		prevMean = mean
		samples++
	}

	if samples == 0 {
		return Metrics{}
	}
	m := Metrics{
		Coverage: coverageSum / float64(samples),
		Mean:     meanSum / float64(samples),
	}
	if samples > 1 {
		m.Drift = driftSum / float64(samples-1)
	}
	return m
}

// coverage returns the fraction of cells above the intensity threshold.
func coverage(f *systems.Field) float64 {
	lit := 0
	total := f.Width() * f.Height()
	for y := 0; y < f.Height(); y++ {
		for x := 0; x < f.Width(); x++ {
			if f.Sample(float32(x), float32(y)) > coverageThreshold {
				lit++
			}
		}
	}
	return float64(lit) / float64(total)
}
