package systems

import (
	"math"

	"github.com/pthm-cable/mycelia/dataset"
)

// ScoreWeights are the frontier-selection weights.
type ScoreWeights struct {
	Recency   float64
	Intensity float64
	Bridging  float64
}

// PathwayCooldowns maps a source→target cluster pathway to the year it was
// last highlighted as a frontier. Entries are removed when the frontier
// agent for that pathway dies, so the pathway becomes eligible again
// immediately.
type PathwayCooldowns map[dataset.PathwayKey]float64

// RecencyScore rewards pathways that have not been highlighted recently.
// Returns 0 inside the cooldown window, then a log-scaled score that
// saturates at 1.0 once saturationYears have passed. A pathway never
// highlighted scores 1.0.
func RecencyScore(cooldowns PathwayCooldowns, key dataset.PathwayKey, year, cooldownYears, saturationYears float64) float64 {
	last, seen := cooldowns[key]
	if !seen {
		return 1.0
	}
	since := year - last
	if since < cooldownYears {
		return 0
	}
	score := math.Log(1+since) / math.Log(1+saturationYears)
	if score > 1 {
		score = 1
	}
	return score
}

// BridgeScore combines recency, similarity, and normalized centroid distance
// into the frontier-selection score.
func BridgeScore(recency, similarity, normDistance float64, w ScoreWeights) float64 {
	return w.Recency*recency + w.Intensity*similarity + w.Bridging*normDistance
}

// NormalizedDistance maps the distance between two cluster centroids to
// [0, 1] against the canvas diagonal, so bridge-building across the map
// scores higher than a hop between neighbors.
func NormalizedDistance(a, b *dataset.Cluster, w, h float32) float64 {
	dx := float64(a.CentroidX - b.CentroidX)
	dy := float64(a.CentroidY - b.CentroidY)
	diag := math.Sqrt(float64(w)*float64(w) + float64(h)*float64(h))
	if diag == 0 {
		return 0
	}
	d := math.Sqrt(dx*dx+dy*dy) / diag
	if d > 1 {
		d = 1
	}
	return d
}
