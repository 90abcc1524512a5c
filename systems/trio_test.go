package systems

import (
	"math/rand"
	"testing"
)

func TestSelectTrio(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	t.Run("samples exactly size distinct clusters", func(t *testing.T) {
		trio := SelectTrio([]int{5, 1, 9, 3, 7}, 3, rng)
		if len(trio) != 3 {
			t.Fatalf("trio size = %d, want 3", len(trio))
		}
		seen := make(map[int]bool)
		for _, id := range trio {
			if seen[id] {
				t.Fatalf("duplicate cluster %d in trio", id)
			}
			seen[id] = true
		}
	})

	t.Run("degrades when fewer clusters are active", func(t *testing.T) {
		trio := SelectTrio([]int{4, 2}, 3, rng)
		if len(trio) != 2 {
			t.Errorf("trio size = %d, want 2", len(trio))
		}
	})

	t.Run("empty input yields empty trio", func(t *testing.T) {
		if trio := SelectTrio(nil, 3, rng); len(trio) != 0 {
			t.Errorf("trio = %v, want empty", trio)
		}
	})

	t.Run("deterministic under a fixed seed", func(t *testing.T) {
		a := SelectTrio([]int{9, 5, 1, 7, 3}, 3, rand.New(rand.NewSource(7)))
		b := SelectTrio([]int{1, 3, 5, 7, 9}, 3, rand.New(rand.NewSource(7)))
		if len(a) != len(b) {
			t.Fatal("seeded draws differ in size")
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("seeded draws differ: %v vs %v", a, b)
			}
		}
	})
}
