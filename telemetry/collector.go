package telemetry

import (
	"math"

	"github.com/pthm-cable/mycelia/systems"
)

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int
	windowStartTick     int

	// Event counters for current window
	ecoSpawns      int
	frontierSpawns int
	timeoutDeaths  int
	arrivalDeaths  int
	schedulerTicks int
	candidatesSeen int
	droppedByCap   int
	emptyTicks     int
	trioRotations  int
}

// NewCollector creates a stats collector.
// windowDurationSec: how long each stats window lasts in wall-clock seconds
// at the target frame rate; dt: seconds per tick.
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	// Round, don't truncate: float32 dt carries enough error to lose a tick
	// (5s at a 1/60 dt would otherwise come out at 299).
	ticksPerWindow := int(math.Round(windowDurationSec / float64(dt)))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{windowDurationTicks: ticksPerWindow}
}

// RecordSpawns records a spawned batch split by role.
func (c *Collector) RecordSpawns(ecosystem, frontier int) {
	c.ecoSpawns += ecosystem
	c.frontierSpawns += frontier
}

// RecordDeath records one agent death.
func (c *Collector) RecordDeath(byArrival bool) {
	if byArrival {
		c.arrivalDeaths++
	} else {
		c.timeoutDeaths++
	}
}

// RecordSchedulerTick records one scheduler run.
func (c *Collector) RecordSchedulerTick(ts systems.TickStats) {
	c.schedulerTicks++
	c.candidatesSeen += ts.Candidates
	c.droppedByCap += ts.DroppedByCap
	if ts.Candidates == 0 {
		c.emptyTicks++
	}
	if ts.TrioRotated {
		c.trioRotations++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// ages holds the current agent ages in frames, for the distribution columns.
func (c *Collector) Flush(currentTick int, year float64, active, frontier, freeSlots int, ages []float64) WindowStats {
	ageMean, ageP10, ageP50, ageP90 := ComputeAgeStats(ages)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimYear:         year,

		ActiveAgents:   active,
		FrontierAgents: frontier,
		FreeSlots:      freeSlots,

		EcosystemSpawns: c.ecoSpawns,
		FrontierSpawns:  c.frontierSpawns,
		TimeoutDeaths:   c.timeoutDeaths,
		ArrivalDeaths:   c.arrivalDeaths,

		SchedulerTicks: c.schedulerTicks,
		CandidatesSeen: c.candidatesSeen,
		DroppedByCap:   c.droppedByCap,
		EmptyTicks:     c.emptyTicks,
		TrioRotations:  c.trioRotations,

		AgeMean: ageMean,
		AgeP10:  ageP10,
		AgeP50:  ageP50,
		AgeP90:  ageP90,
	}

	c.windowStartTick = currentTick
	c.ecoSpawns = 0
	c.frontierSpawns = 0
	c.timeoutDeaths = 0
	c.arrivalDeaths = 0
	c.schedulerTicks = 0
	c.candidatesSeen = 0
	c.droppedByCap = 0
	c.emptyTicks = 0
	c.trioRotations = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int {
	return c.windowDurationTicks
}
