package dataset

import "sort"

// DeriveClusters computes per-cluster summaries from the project records:
// centroid (mean screen position), project count, year range, and top terms
// ranked by theme frequency.
func DeriveClusters(projects []*Project) map[int]*Cluster {
	type accum struct {
		sumX, sumY float64
		count      int
		yearMin    float64
		yearMax    float64
		terms      map[string]int
	}

	acc := make(map[int]*accum)
	for _, p := range projects {
		a, ok := acc[p.ClusterID]
		if !ok {
			a = &accum{yearMin: p.Year, yearMax: p.Year, terms: make(map[string]int)}
			acc[p.ClusterID] = a
		}
		a.sumX += float64(p.X)
		a.sumY += float64(p.Y)
		a.count++
		if p.Year < a.yearMin {
			a.yearMin = p.Year
		}
		if p.Year > a.yearMax {
			a.yearMax = p.Year
		}
		for _, t := range p.ThemeList() {
			a.terms[t]++
		}
	}

	clusters := make(map[int]*Cluster, len(acc))
	for id, a := range acc {
		clusters[id] = &Cluster{
			ID:           id,
			CentroidX:    float32(a.sumX / float64(a.count)),
			CentroidY:    float32(a.sumY / float64(a.count)),
			ProjectCount: a.count,
			YearMin:      a.yearMin,
			YearMax:      a.yearMax,
			TopTerms:     rankTerms(a.terms),
		}
	}
	return clusters
}

// rankTerms orders terms by descending count, ties broken alphabetically so
// the ranking is stable across runs.
func rankTerms(counts map[string]int) []string {
	terms := make([]string, 0, len(counts))
	for t := range counts {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	return terms
}
