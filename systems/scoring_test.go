package systems

import (
	"testing"

	"github.com/pthm-cable/mycelia/dataset"
)

func TestRecencyScore(t *testing.T) {
	key := dataset.PathwayKey{Source: 1, Target: 2}

	tests := []struct {
		name      string
		cooldowns PathwayCooldowns
		year      float64
		want      float64
		tolerance float64
	}{
		{"never highlighted", PathwayCooldowns{}, 2000, 1.0, 0},
		{"inside cooldown", PathwayCooldowns{key: 1999.5}, 2000, 0, 0},
		{"exactly at saturation", PathwayCooldowns{key: 1975}, 2000, 1.0, 1e-9},
		{"far past saturation", PathwayCooldowns{key: 1900}, 2000, 1.0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RecencyScore(tt.cooldowns, key, tt.year, 1, 25)
			if diff := got - tt.want; diff > tt.tolerance || diff < -tt.tolerance {
				t.Errorf("RecencyScore = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecencyScoreMonotone(t *testing.T) {
	key := dataset.PathwayKey{Source: 1, Target: 2}
	cd := PathwayCooldowns{key: 2000}

	prev := -1.0
	for year := 2001.0; year <= 2026; year++ {
		score := RecencyScore(cd, key, year, 1, 25)
		if score < prev {
			t.Fatalf("recency not monotone: %v at year %v after %v", score, year, prev)
		}
		if score < 0 || score > 1 {
			t.Fatalf("recency out of range at year %v: %v", year, score)
		}
		prev = score
	}
	if prev != 1.0 {
		t.Errorf("recency at saturation = %v, want 1.0", prev)
	}
}

func TestBridgeScoreWeights(t *testing.T) {
	w := ScoreWeights{Recency: 0.45, Intensity: 0.35, Bridging: 0.20}

	// All components maxed sum to the weight total.
	if got := BridgeScore(1, 1, 1, w); got != 1.0 {
		t.Errorf("full score = %v, want 1.0", got)
	}

	// A longer bridge outscores a shorter one, all else equal.
	near := BridgeScore(0.5, 0.8, 0.1, w)
	far := BridgeScore(0.5, 0.8, 0.9, w)
	if far <= near {
		t.Errorf("distance not rewarded: far %v <= near %v", far, near)
	}
}

func TestNormalizedDistance(t *testing.T) {
	a := &dataset.Cluster{CentroidX: 0, CentroidY: 0}
	b := &dataset.Cluster{CentroidX: 1920, CentroidY: 1080}

	if got := NormalizedDistance(a, a, 1920, 1080); got != 0 {
		t.Errorf("distance to self = %v, want 0", got)
	}
	if got := NormalizedDistance(a, b, 1920, 1080); got < 0.999 || got > 1 {
		t.Errorf("corner-to-corner distance = %v, want 1", got)
	}
	if got := NormalizedDistance(a, b, 0, 0); got != 0 {
		t.Errorf("degenerate canvas distance = %v, want 0", got)
	}
}
