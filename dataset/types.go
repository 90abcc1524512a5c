// Package dataset holds the project/cluster/bridge records the simulation
// consumes and their CSV loaders. The core never validates source files
// beyond dropping records it cannot resolve.
package dataset

import "strings"

// Project is one record of the underlying dataset, already laid out in
// screen space by the upstream embedding step.
type Project struct {
	ID        int     `csv:"id"`
	Title     string  `csv:"title"`
	Year      float64 `csv:"year"`
	Themes    string  `csv:"themes"` // semicolon-separated
	X         float32 `csv:"x"`
	Y         float32 `csv:"y"`
	ClusterID int     `csv:"cluster_id"`
}

// ThemeList splits the semicolon-separated themes field.
func (p *Project) ThemeList() []string {
	if p.Themes == "" {
		return nil
	}
	parts := strings.Split(p.Themes, ";")
	out := parts[:0]
	for _, s := range parts {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Bridge is a candidate cross-cluster activity record, read-only to the core.
type Bridge struct {
	ProjectID     int     `csv:"project_id"`
	SourceCluster int     `csv:"source_cluster"`
	TargetCluster int     `csv:"target_cluster"`
	Similarity    float64 `csv:"similarity_score"`
	Year          float64 `csv:"year"`
}

// PathwayKey identifies a source/target cluster pair for cooldown tracking.
func (b *Bridge) PathwayKey() PathwayKey {
	return PathwayKey{Source: b.SourceCluster, Target: b.TargetCluster}
}

// PathwayKey is a directed source→target cluster pair.
type PathwayKey struct {
	Source int
	Target int
}

// Cluster is a derived cluster summary: spawn/target geometry plus the
// descriptive terms the narrative layer draws nouns from.
type Cluster struct {
	ID           int
	CentroidX    float32
	CentroidY    float32
	ProjectCount int
	YearMin      float64
	YearMax      float64
	TopTerms     []string
}

// DisplayName returns the cluster's leading term, or a numeric fallback.
func (c *Cluster) DisplayName() string {
	if len(c.TopTerms) > 0 {
		return c.TopTerms[0]
	}
	return "cluster"
}
