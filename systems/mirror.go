package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
)

// Frontier agents have their kinematics shadowed on the CPU so the label
// overlay and arrival detection never need a full texture readback. The
// mirror re-integrates positions with the same speed constants the GPU uses
// (straight line toward the target); it is a read-mostly cache and can drift
// from the true GPU trajectory, which wanders with the trail field.

// Kinematics is the mirrored position/velocity of a frontier agent.
type Kinematics struct {
	X, Y   float32
	VX, VY float32
	Speed  float32
}

// Lifecycle ties a mirror entity back to its texture slot.
type Lifecycle struct {
	Slot    int
	Age     int
	MaxAge  int
	TargetX float32
	TargetY float32
}

// Label is the narrative payload shown next to a frontier agent.
type Label struct {
	Verb         string
	Noun         string
	ProjectTitle string
	ClusterName  string
	Hue          float32
}

// Mirror is the ark-backed shadow store for frontier agents.
type Mirror struct {
	world  *ecs.World
	mapper *ecs.Map3[Kinematics, Lifecycle, Label]
	filter *ecs.Filter3[Kinematics, Lifecycle, Label]

	kinMap   *ecs.Map1[Kinematics]
	lifeMap  *ecs.Map1[Lifecycle]
	labelMap *ecs.Map1[Label]

	bySlot map[int]ecs.Entity
}

// FrontierMirror is a UI-facing snapshot of one mirrored agent.
type FrontierMirror struct {
	Slot         int
	X, Y         float32
	Age          int
	MaxAge       int
	Verb         string
	Noun         string
	ProjectTitle string
	ClusterName  string
	Hue          float32
}

// NewMirror creates an empty mirror.
func NewMirror() *Mirror {
	world := ecs.NewWorld()
	return &Mirror{
		world:    world,
		mapper:   ecs.NewMap3[Kinematics, Lifecycle, Label](world),
		filter:   ecs.NewFilter3[Kinematics, Lifecycle, Label](world),
		kinMap:   ecs.NewMap1[Kinematics](world),
		lifeMap:  ecs.NewMap1[Lifecycle](world),
		labelMap: ecs.NewMap1[Label](world),
		bySlot:   make(map[int]ecs.Entity),
	}
}

// Add shadows a newly spawned frontier agent.
func (m *Mirror) Add(slot int, d SpawnData) {
	sin, cos := math.Sincos(float64(d.Heading))
	kin := Kinematics{
		X: d.X, Y: d.Y,
		VX:    float32(cos) * d.Speed,
		VY:    float32(sin) * d.Speed,
		Speed: d.Speed,
	}
	life := Lifecycle{
		Slot:    slot,
		MaxAge:  d.MaxAge,
		TargetX: d.TargetX,
		TargetY: d.TargetY,
	}
	label := Label{
		Verb:         d.Narrative.Verb,
		Noun:         d.Narrative.Noun,
		ProjectTitle: d.Narrative.ProjectTitle,
		ClusterName:  d.Narrative.ClusterName,
		Hue:          d.Hue,
	}
	entity := m.mapper.NewEntity(&kin, &life, &label)
	m.bySlot[slot] = entity
}

// Remove drops the shadow entity for a slot, if present.
func (m *Mirror) Remove(slot int) {
	entity, ok := m.bySlot[slot]
	if !ok {
		return
	}
	m.mapper.Remove(entity)
	delete(m.bySlot, slot)
}

// Step advances every mirrored agent one frame: velocity re-aimed at the
// target each step, position advanced at the agent's speed.
func (m *Mirror) Step() {
	query := m.filter.Query()
	for query.Next() {
		kin, life, _ := query.Get()

		life.Age++

		dx := life.TargetX - kin.X
		dy := life.TargetY - kin.Y
		dist := float32(math.Sqrt(float64(dx*dx + dy*dy)))
		if dist > 1e-3 {
			kin.VX = dx / dist * kin.Speed
			kin.VY = dy / dist * kin.Speed
		}
		kin.X += kin.VX
		kin.Y += kin.VY
	}
}

// Position implements PositionSource for arrival detection.
func (m *Mirror) Position(slot int) (x, y float32, ok bool) {
	entity, found := m.bySlot[slot]
	if !found {
		return 0, 0, false
	}
	kin := m.kinMap.Get(entity)
	if kin == nil {
		return 0, 0, false
	}
	return kin.X, kin.Y, true
}

// Correct overwrites a mirrored position with an authoritative GPU readback,
// bounding the drift between the mirror's re-integration and the true
// trajectory.
func (m *Mirror) Correct(slot int, x, y float32) {
	entity, ok := m.bySlot[slot]
	if !ok {
		return
	}
	if kin := m.kinMap.Get(entity); kin != nil {
		kin.X, kin.Y = x, y
	}
}

// Snapshot returns UI-facing copies of every mirrored agent.
func (m *Mirror) Snapshot() []FrontierMirror {
	out := make([]FrontierMirror, 0, len(m.bySlot))
	query := m.filter.Query()
	for query.Next() {
		kin, life, label := query.Get()
		out = append(out, FrontierMirror{
			Slot:         life.Slot,
			X:            kin.X,
			Y:            kin.Y,
			Age:          life.Age,
			MaxAge:       life.MaxAge,
			Verb:         label.Verb,
			Noun:         label.Noun,
			ProjectTitle: label.ProjectTitle,
			ClusterName:  label.ClusterName,
			Hue:          label.Hue,
		})
	}
	return out
}

// Count returns the number of mirrored agents.
func (m *Mirror) Count() int {
	return len(m.bySlot)
}
