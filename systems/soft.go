package systems

import "math"

// SoftParams configures the CPU agent backend.
type SoftParams struct {
	Width, Height float32

	Steer    SteerParams
	GoalBias float32 // per-frame heading pull toward a frontier target [0,1]

	DecayFactor     float32
	DepositRadius   float32
	DepositStrength float32
}

// softAgent is one CPU-integrated agent.
type softAgent struct {
	x, y       float32
	heading    float32
	speed      float32
	roleWeight float32
	frontier   bool
	targetX    float32
	targetY    float32
}

// SoftBackend integrates agents on the CPU with the reference steering and
// field kernels. It backs headless runs, the tuner, and integration tests;
// graphical runs use the GPU pipeline instead.
type SoftBackend struct {
	params SoftParams
	field  *Field
	agents map[int]*softAgent

	sources []DepositSource // reused across frames
}

// NewSoftBackend creates a soft backend with its own trail field.
func NewSoftBackend(params SoftParams) *SoftBackend {
	return &SoftBackend{
		params: params,
		field:  NewField(int(params.Width), int(params.Height)),
		agents: make(map[int]*softAgent),
	}
}

// Spawn implements Backend.
func (b *SoftBackend) Spawn(slot int, d SpawnData) {
	b.agents[slot] = &softAgent{
		x: d.X, y: d.Y,
		heading:    d.Heading,
		speed:      d.Speed,
		roleWeight: d.RoleWeight,
		frontier:   d.Frontier,
		targetX:    d.TargetX,
		targetY:    d.TargetY,
	}
}

// Kill implements Backend.
func (b *SoftBackend) Kill(slots []int) {
	for _, slot := range slots {
		delete(b.agents, slot)
	}
}

// Position implements PositionSource; with the soft backend the registry
// reads true positions rather than the mirror's re-integration.
func (b *SoftBackend) Position(slot int) (x, y float32, ok bool) {
	a, found := b.agents[slot]
	if !found {
		return 0, 0, false
	}
	return a.x, a.y, true
}

// Step advances the simulation one frame: steering and movement, then field
// decay and deposition. Matches the GPU pass order.
func (b *SoftBackend) Step() {
	b.StepAgents()
	b.StepTrail()
}

// StepAgents steers and advances every agent against last frame's field.
// Decay is a uniform scale, so sampling before or after it steers the same.
func (b *SoftBackend) StepAgents() {
	b.sources = b.sources[:0]
	for _, a := range b.agents {
		a.heading = Steer(a.x, a.y, a.heading, b.field, b.params.Steer, Hash2D(a.x, a.y))
		if a.frontier {
			a.heading = pullToward(a.heading, a.x, a.y, a.targetX, a.targetY, b.params.GoalBias)
		}
		a.x, a.y = Advance(a.x, a.y, a.heading, a.speed, b.params.Width, b.params.Height)
		b.sources = append(b.sources, DepositSource{X: a.x, Y: a.y, RoleWeight: a.roleWeight})
	}
}

// StepTrail decays the field, then deposits at the positions StepAgents just
// produced.
func (b *SoftBackend) StepTrail() {
	b.field.Decay(b.params.DecayFactor)
	b.field.Deposit(b.sources, b.params.DepositRadius, b.params.DepositStrength)
}

// Field exposes the trail field, read by the tuner and tests.
func (b *SoftBackend) Field() *Field {
	return b.field
}

// Count returns the number of live agents.
func (b *SoftBackend) Count() int {
	return len(b.agents)
}

// pullToward blends the heading toward the direction of (tx, ty) by bias.
func pullToward(heading, x, y, tx, ty, bias float32) float32 {
	desired := float32(math.Atan2(float64(ty-y), float64(tx-x)))
	return heading + angleDiff(desired, heading)*bias
}

// angleDiff returns a-b wrapped into [-pi, pi].
func angleDiff(a, b float32) float32 {
	d := float32(math.Mod(float64(a-b)+math.Pi, TwoPi))
	if d < 0 {
		d += TwoPi
	}
	return d - math.Pi
}
