package systems

import "testing"

func TestSlotPoolPartitionInvariant(t *testing.T) {
	p := NewSlotPool(16)

	if p.Free()+p.InUse() != 16 {
		t.Fatalf("free+inUse = %d, want 16", p.Free()+p.InUse())
	}

	var slots []int
	for i := 0; i < 10; i++ {
		s, ok := p.Allocate()
		if !ok {
			t.Fatalf("allocate %d failed with %d free", i, p.Free())
		}
		slots = append(slots, s)
		if p.Free()+p.InUse() != 16 {
			t.Fatalf("after allocate: free+inUse = %d, want 16", p.Free()+p.InUse())
		}
	}

	for _, s := range slots[:5] {
		p.Release(s)
		if p.Free()+p.InUse() != 16 {
			t.Fatalf("after release: free+inUse = %d, want 16", p.Free()+p.InUse())
		}
	}

	if p.InUse() != 5 {
		t.Errorf("inUse = %d, want 5", p.InUse())
	}
}

func TestSlotPoolExhaustion(t *testing.T) {
	p := NewSlotPool(4)

	seen := make(map[int]bool)
	for i := 0; i < 4; i++ {
		s, ok := p.Allocate()
		if !ok {
			t.Fatalf("allocate %d failed", i)
		}
		if s < 0 || s >= 4 {
			t.Fatalf("slot %d out of range", s)
		}
		if seen[s] {
			t.Fatalf("slot %d allocated twice", s)
		}
		seen[s] = true
	}

	if _, ok := p.Allocate(); ok {
		t.Error("allocate succeeded on exhausted pool")
	}
}

func TestSlotPoolDoubleReleaseGuarded(t *testing.T) {
	p := NewSlotPool(4)

	s, _ := p.Allocate()
	p.Release(s)
	p.Release(s) // must be a no-op

	if p.Free() != 4 {
		t.Fatalf("free = %d after double release, want 4", p.Free())
	}

	// The freed slot must not be handed out twice.
	seen := make(map[int]bool)
	for i := 0; i < 4; i++ {
		got, ok := p.Allocate()
		if !ok {
			t.Fatalf("allocate %d failed", i)
		}
		if seen[got] {
			t.Fatalf("slot %d allocated twice after double release", got)
		}
		seen[got] = true
	}
}

func TestSlotPoolReleaseOutOfRange(t *testing.T) {
	p := NewSlotPool(4)
	p.Release(-1)
	p.Release(100)
	if p.Free() != 4 {
		t.Errorf("free = %d after out-of-range releases, want 4", p.Free())
	}
}
