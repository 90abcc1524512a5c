package systems

import (
	"log/slog"
	"math/rand"
	"sort"
)

// SelectTrio samples up to size protagonist clusters from the clusters with
// window-active projects. Candidates are sorted before sampling so the draw
// depends only on the seed, not map iteration order. Fewer than size active
// clusters is degraded but non-fatal.
func SelectTrio(activeClusterIDs []int, size int, rng *rand.Rand) []int {
	candidates := append([]int(nil), activeClusterIDs...)
	sort.Ints(candidates)

	if len(candidates) < size {
		slog.Warn("fewer active clusters than protagonist slots",
			"active", len(candidates),
			"wanted", size,
		)
	}

	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if len(candidates) > size {
		candidates = candidates[:size]
	}
	return candidates
}
