package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mycelia/dataset"
	"github.com/pthm-cable/mycelia/systems"
)

// ping is one expanding arrival ring.
type ping struct {
	x, y float32
	hue  float32
	age  int
}

const pingLifetime = 90 // frames

// Overlay draws everything on top of the trail field: cluster markers,
// frontier agent dots and labels, and arrival rings.
type Overlay struct {
	pings []ping
}

// NewOverlay creates an empty overlay.
func NewOverlay() *Overlay {
	return &Overlay{}
}

// AddArrival queues an expanding ring at a frontier arrival point.
func (o *Overlay) AddArrival(a systems.Arrival) {
	o.pings = append(o.pings, ping{x: a.X, y: a.Y, hue: a.Hue})
}

// DrawClusters marks the active cluster centroids, protagonist clusters
// brighter and named.
func (o *Overlay) DrawClusters(clusters map[int]*dataset.Cluster, activeIDs, trio []int) {
	inTrio := make(map[int]bool, len(trio))
	for _, id := range trio {
		inTrio[id] = true
	}

	for _, id := range activeIDs {
		c, ok := clusters[id]
		if !ok {
			continue
		}
		hue := systems.ClusterHue(id)
		if inTrio[id] {
			col := rl.ColorFromHSV(hue, 0.5, 1.0)
			rl.DrawCircleLines(int32(c.CentroidX), int32(c.CentroidY), 14, col)
			rl.DrawCircle(int32(c.CentroidX), int32(c.CentroidY), 3, col)
			rl.DrawText(c.DisplayName(),
				int32(c.CentroidX)+18, int32(c.CentroidY)-6, 12, rl.Fade(col, 0.9))
		} else {
			col := rl.ColorFromHSV(hue, 0.35, 0.6)
			rl.DrawCircle(int32(c.CentroidX), int32(c.CentroidY), 2, rl.Fade(col, 0.6))
		}
	}
}

// DrawFrontiers renders the mirrored frontier agents: a bright dot plus the
// directive label ("weaving soft matter") and the project that sparked it.
func (o *Overlay) DrawFrontiers(mirrors []systems.FrontierMirror) {
	for _, m := range mirrors {
		col := rl.ColorFromHSV(m.Hue, 0.4, 1.0)
		rl.DrawCircle(int32(m.X), int32(m.Y), 3.5, col)

		label := fmt.Sprintf("%s %s", m.Verb, m.Noun)
		rl.DrawText(label, int32(m.X)+8, int32(m.Y)-14, 12, col)
		if m.ProjectTitle != "" {
			rl.DrawText(m.ProjectTitle, int32(m.X)+8, int32(m.Y), 10, rl.Fade(col, 0.6))
		}
	}
}

// DrawPings advances and renders the arrival rings, dropping expired ones.
func (o *Overlay) DrawPings() {
	alive := o.pings[:0]
	for i := range o.pings {
		p := &o.pings[i]
		p.age++
		if p.age > pingLifetime {
			continue
		}

		t := float32(p.age) / pingLifetime
		radius := 6 + t*42
		col := rl.Fade(rl.ColorFromHSV(p.hue, 0.5, 1.0), 1-t)
		rl.DrawCircleLines(int32(p.x), int32(p.y), radius, col)
		alive = append(alive, *p)
	}
	o.pings = alive
}
