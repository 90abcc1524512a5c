// Package systems holds the CPU side of the simulation: the slot-pool
// allocator, the agent lifecycle registry, the spawn-selection scheduler,
// and the reference kernels the GPU passes mirror.
package systems

// SlotPool is a free-list allocator over the fixed agent arena [0, capacity).
// A slot is either on the free list or bound to exactly one live agent;
// the two sets partition the id space at all times.
type SlotPool struct {
	capacity int
	free     []int
	inUse    []bool
}

// NewSlotPool creates a pool with all slots free.
func NewSlotPool(capacity int) *SlotPool {
	p := &SlotPool{
		capacity: capacity,
		free:     make([]int, 0, capacity),
		inUse:    make([]bool, capacity),
	}
	// Low indices allocate first so texture writes cluster at the top rows.
	for i := capacity - 1; i >= 0; i-- {
		p.free = append(p.free, i)
	}
	return p
}

// Allocate pops a free slot. Returns false when the pool is exhausted;
// callers must skip the spawn, not error.
func (p *SlotPool) Allocate() (int, bool) {
	n := len(p.free)
	if n == 0 {
		return 0, false
	}
	slot := p.free[n-1]
	p.free = p.free[:n-1]
	p.inUse[slot] = true
	return slot, true
}

// Release returns a slot to the free list. Releasing a slot that is not in
// use is a no-op, so a double kill cannot corrupt the free list.
func (p *SlotPool) Release(slot int) {
	if slot < 0 || slot >= p.capacity || !p.inUse[slot] {
		return
	}
	p.inUse[slot] = false
	p.free = append(p.free, slot)
}

// Free returns the number of available slots.
func (p *SlotPool) Free() int {
	return len(p.free)
}

// InUse returns the number of allocated slots.
func (p *SlotPool) InUse() int {
	return p.capacity - len(p.free)
}

// Capacity returns the total slot count.
func (p *SlotPool) Capacity() int {
	return p.capacity
}
