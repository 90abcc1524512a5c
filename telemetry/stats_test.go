package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/mycelia/systems"
)

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}

	tests := []struct {
		name string
		p    float64
		want float64
	}{
		{"min", 0, 1},
		{"max", 1, 5},
		{"median", 0.5, 3},
		{"interpolated", 0.25, 2},
		{"p90", 0.9, 4.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(sorted, tt.p)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Percentile(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}

	if got := Percentile(nil, 0.5); got != 0 {
		t.Errorf("Percentile(empty) = %v, want 0", got)
	}
}

func TestComputeAgeStats(t *testing.T) {
	mean, p10, p50, p90 := ComputeAgeStats([]float64{10, 20, 30, 40, 50})
	if mean != 30 {
		t.Errorf("mean = %v, want 30", mean)
	}
	if p50 != 30 {
		t.Errorf("p50 = %v, want 30", p50)
	}
	if p10 >= p50 || p50 >= p90 {
		t.Errorf("percentiles not ordered: p10=%v p50=%v p90=%v", p10, p50, p90)
	}

	mean, p10, p50, p90 = ComputeAgeStats(nil)
	if mean != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty input should produce zeros")
	}
}

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(5.0, 1.0/60.0) // 300 ticks per window

	if c.WindowDurationTicks() != 300 {
		t.Fatalf("window = %d ticks, want 300", c.WindowDurationTicks())
	}
	if c.ShouldFlush(299) {
		t.Error("flushed before the window elapsed")
	}
	if !c.ShouldFlush(300) {
		t.Error("did not flush at the window boundary")
	}

	c.RecordSpawns(10, 1)
	c.RecordDeath(true)
	c.RecordDeath(false)
	c.RecordDeath(false)
	c.RecordSchedulerTick(systems.TickStats{Candidates: 8, DroppedByCap: 2, TrioRotated: true})
	c.RecordSchedulerTick(systems.TickStats{Candidates: 0})

	stats := c.Flush(300, 1999.5, 42, 3, 22, []float64{100, 200})
	if stats.EcosystemSpawns != 10 || stats.FrontierSpawns != 1 {
		t.Errorf("spawns = %d/%d, want 10/1", stats.EcosystemSpawns, stats.FrontierSpawns)
	}
	if stats.ArrivalDeaths != 1 || stats.TimeoutDeaths != 2 {
		t.Errorf("deaths = %d arrival / %d timeout, want 1/2", stats.ArrivalDeaths, stats.TimeoutDeaths)
	}
	if stats.SchedulerTicks != 2 || stats.CandidatesSeen != 8 || stats.DroppedByCap != 2 {
		t.Errorf("scheduler stats wrong: %+v", stats)
	}
	if stats.EmptyTicks != 1 || stats.TrioRotations != 1 {
		t.Errorf("empty/rotations = %d/%d, want 1/1", stats.EmptyTicks, stats.TrioRotations)
	}
	if stats.ActiveAgents != 42 || stats.FrontierAgents != 3 || stats.FreeSlots != 22 {
		t.Errorf("population columns wrong: %+v", stats)
	}
	if stats.AgeMean != 150 {
		t.Errorf("age mean = %v, want 150", stats.AgeMean)
	}

	// Counters reset after flush.
	next := c.Flush(600, 2000, 0, 0, 0, nil)
	if next.EcosystemSpawns != 0 || next.SchedulerTicks != 0 || next.ArrivalDeaths != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
	if next.WindowStartTick != 300 {
		t.Errorf("window start = %d, want 300", next.WindowStartTick)
	}
}
