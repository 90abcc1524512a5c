package systems

// Backend is the surface the registry drives: the GPU texture pipeline in
// graphical runs, the soft CPU backend in headless runs and tests. Spawn
// must leave the slot valid in both ping-pong copies; Kill must zero it in
// both.
type Backend interface {
	Spawn(slot int, d SpawnData)
	Kill(slots []int)
}

// PositionSource reports the current canvas position of a slot, when known.
// The frontier mirror implements this for arrival detection.
type PositionSource interface {
	Position(slot int) (x, y float32, ok bool)
}

// Narrative is the label payload carried by frontier agents. Never touched
// by the GPU side.
type Narrative struct {
	Verb         string
	Noun         string
	ProjectTitle string
	ClusterName  string
}

// SpawnData describes one agent to create.
type SpawnData struct {
	X, Y       float32
	Heading    float32
	Speed      float32
	MaxAge     int
	Frontier   bool
	Hue        float32 // cluster hue, degrees
	Brightness float32
	RoleWeight float32

	SourceCluster int
	TargetCluster int
	TargetX       float32
	TargetY       float32

	Narrative Narrative // frontier only
}

// agentMeta is the CPU bookkeeping for one live slot. Kinematics live on the
// GPU; only lifecycle state is mirrored here.
type agentMeta struct {
	age           int
	maxAge        int
	frontier      bool
	sourceCluster int
	targetCluster int
	targetX       float32
	targetY       float32
	hue           float32
	narrative     Narrative
}

// FrontierDeath reports a dead frontier agent for pathway-cooldown cleanup.
type FrontierDeath struct {
	Slot          int
	SourceCluster int
	TargetCluster int
	ByArrival     bool
	Narrative     Narrative
}

// Arrival is a one-shot visual ping event at a frontier agent's target.
type Arrival struct {
	X, Y float32
	Hue  float32
}

// Registry owns agent lifecycle on the CPU: ages, death detection, slot
// reclamation, and the dead-frontier / arrival queues. All mutation happens
// on the frame loop; death accounting deliberately lives here rather than in
// a shader because slot reclamation is a CPU-visible event.
type Registry struct {
	pool    *SlotPool
	backend Backend

	active        map[int]*agentMeta
	frontierCount int

	arrivalRadius float32
	graceFrames   int

	deadFrontier []FrontierDeath
	arrivals     []Arrival
}

// NewRegistry creates a registry over the given pool and backend.
func NewRegistry(pool *SlotPool, backend Backend, arrivalRadius float32, graceFrames int) *Registry {
	return &Registry{
		pool:          pool,
		backend:       backend,
		active:        make(map[int]*agentMeta),
		arrivalRadius: arrivalRadius,
		graceFrames:   graceFrames,
	}
}

// SpawnBatch creates agents for as many batch entries as the pool can hold,
// in order. Returns the slots granted; entries past pool exhaustion are
// silently dropped.
func (r *Registry) SpawnBatch(batch []SpawnData) []int {
	slots := make([]int, 0, len(batch))
	for i := range batch {
		d := &batch[i]
		slot, ok := r.pool.Allocate()
		if !ok {
			break
		}
		r.active[slot] = &agentMeta{
			maxAge:        d.MaxAge,
			frontier:      d.Frontier,
			sourceCluster: d.SourceCluster,
			targetCluster: d.TargetCluster,
			targetX:       d.TargetX,
			targetY:       d.TargetY,
			hue:           d.Hue,
			narrative:     d.Narrative,
		}
		if d.Frontier {
			r.frontierCount++
		}
		r.backend.Spawn(slot, *d)
		slots = append(slots, slot)
	}
	return slots
}

// Advance ages every live agent one frame and retires the dead: lifetime
// expiry for everyone, arrival for frontier agents past the grace period.
// Slot release and GPU kill happen in the same synchronous step so the free
// list and active set never disagree. Returns the death counts by cause.
func (r *Registry) Advance(positions PositionSource) (timeouts, arrivals int) {
	var dead []int
	for slot, m := range r.active {
		m.age++

		if m.age > m.maxAge {
			dead = append(dead, slot)
			r.noteDeath(slot, m, false)
			timeouts++
			continue
		}

		if m.frontier && m.age > r.graceFrames && positions != nil {
			x, y, ok := positions.Position(slot)
			if ok {
				dx := x - m.targetX
				dy := y - m.targetY
				if dx*dx+dy*dy < r.arrivalRadius*r.arrivalRadius {
					dead = append(dead, slot)
					r.noteDeath(slot, m, true)
					r.arrivals = append(r.arrivals, Arrival{X: m.targetX, Y: m.targetY, Hue: m.hue})
					arrivals++
				}
			}
		}
	}

	if len(dead) == 0 {
		return 0, 0
	}
	r.backend.Kill(dead)
	for _, slot := range dead {
		if m := r.active[slot]; m != nil && m.frontier {
			r.frontierCount--
		}
		delete(r.active, slot)
		r.pool.Release(slot)
	}
	return timeouts, arrivals
}

// Ages returns the ages of all live agents in frames, for telemetry.
func (r *Registry) Ages() []float64 {
	out := make([]float64, 0, len(r.active))
	for _, m := range r.active {
		out = append(out, float64(m.age))
	}
	return out
}

func (r *Registry) noteDeath(slot int, m *agentMeta, byArrival bool) {
	if !m.frontier {
		return
	}
	r.deadFrontier = append(r.deadFrontier, FrontierDeath{
		Slot:          slot,
		SourceCluster: m.sourceCluster,
		TargetCluster: m.targetCluster,
		ByArrival:     byArrival,
		Narrative:     m.narrative,
	})
}

// DrainDeadFrontier returns frontier deaths since the last call and clears
// the queue.
func (r *Registry) DrainDeadFrontier() []FrontierDeath {
	out := r.deadFrontier
	r.deadFrontier = nil
	return out
}

// DrainArrivals returns arrival pings since the last call and clears the
// queue.
func (r *Registry) DrainArrivals() []Arrival {
	out := r.arrivals
	r.arrivals = nil
	return out
}

// ActiveCount returns the number of live agents.
func (r *Registry) ActiveCount() int {
	return len(r.active)
}

// FrontierCount returns the number of live frontier agents.
func (r *Registry) FrontierCount() int {
	return r.frontierCount
}

// AvailableSlots returns how many more agents can spawn right now.
func (r *Registry) AvailableSlots() int {
	return r.pool.Free()
}

// HasNoun reports whether any live frontier agent already carries the given
// directive noun; the spawner uses this to avoid duplicate narratives.
func (r *Registry) HasNoun(noun string) bool {
	for _, m := range r.active {
		if m.frontier && m.narrative.Noun == noun {
			return true
		}
	}
	return false
}
