package telemetry

import (
	"log/slog"
	"sort"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int     `csv:"-"`
	WindowEndTick   int     `csv:"window_end"`
	SimYear         float64 `csv:"sim_year"`

	// Population at window end
	ActiveAgents   int `csv:"active_agents"`
	FrontierAgents int `csv:"frontier_agents"`
	FreeSlots      int `csv:"free_slots"`

	// Spawn events during window
	EcosystemSpawns int `csv:"eco_spawns"`
	FrontierSpawns  int `csv:"frontier_spawns"`

	// Death events during window
	TimeoutDeaths int `csv:"timeout_deaths"`
	ArrivalDeaths int `csv:"arrival_deaths"`

	// Scheduler activity during window
	SchedulerTicks int `csv:"scheduler_ticks"`
	CandidatesSeen int `csv:"candidates_seen"`
	DroppedByCap   int `csv:"dropped_by_cap"`
	EmptyTicks     int `csv:"empty_ticks"`
	TrioRotations  int `csv:"trio_rotations"`

	// Agent age distribution (frames, sampled at window end)
	AgeMean float64 `csv:"age_mean"`
	AgeP10  float64 `csv:"age_p10"`
	AgeP50  float64 `csv:"age_p50"`
	AgeP90  float64 `csv:"age_p90"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeAgeStats calculates mean and percentiles from agent ages.
func ComputeAgeStats(values []float64) (mean, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(n)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartTick),
		slog.Int("window_end", s.WindowEndTick),
		slog.Float64("sim_year", s.SimYear),
		slog.Int("active_agents", s.ActiveAgents),
		slog.Int("frontier_agents", s.FrontierAgents),
		slog.Int("free_slots", s.FreeSlots),
		slog.Int("eco_spawns", s.EcosystemSpawns),
		slog.Int("frontier_spawns", s.FrontierSpawns),
		slog.Int("timeout_deaths", s.TimeoutDeaths),
		slog.Int("arrival_deaths", s.ArrivalDeaths),
		slog.Int("scheduler_ticks", s.SchedulerTicks),
		slog.Int("candidates_seen", s.CandidatesSeen),
		slog.Int("dropped_by_cap", s.DroppedByCap),
		slog.Int("empty_ticks", s.EmptyTicks),
		slog.Int("trio_rotations", s.TrioRotations),
		slog.Float64("age_mean", s.AgeMean),
		slog.Float64("age_p10", s.AgeP10),
		slog.Float64("age_p50", s.AgeP50),
		slog.Float64("age_p90", s.AgeP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_year", s.SimYear,
		"active_agents", s.ActiveAgents,
		"frontier_agents", s.FrontierAgents,
		"free_slots", s.FreeSlots,
		"eco_spawns", s.EcosystemSpawns,
		"frontier_spawns", s.FrontierSpawns,
		"timeout_deaths", s.TimeoutDeaths,
		"arrival_deaths", s.ArrivalDeaths,
		"scheduler_ticks", s.SchedulerTicks,
		"candidates_seen", s.CandidatesSeen,
		"dropped_by_cap", s.DroppedByCap,
		"empty_ticks", s.EmptyTicks,
		"trio_rotations", s.TrioRotations,
		"age_mean", s.AgeMean,
		"age_p50", s.AgeP50,
		"age_p90", s.AgeP90,
	)
}
