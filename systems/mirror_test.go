package systems

import (
	"math"
	"testing"
)

func frontierSpawn() SpawnData {
	return SpawnData{
		X: 100, Y: 100, Heading: 0, Speed: 2,
		MaxAge: 1000, Frontier: true, Hue: 300,
		TargetX: 200, TargetY: 100,
		Narrative: Narrative{
			Verb: "weaving", Noun: "soft matter",
			ProjectTitle: "Gel Actuators", ClusterName: "materials",
		},
	}
}

func TestMirrorAddRemove(t *testing.T) {
	m := NewMirror()

	m.Add(7, frontierSpawn())
	if m.Count() != 1 {
		t.Fatalf("count = %d, want 1", m.Count())
	}

	x, y, ok := m.Position(7)
	if !ok || x != 100 || y != 100 {
		t.Errorf("Position(7) = (%v, %v, %v), want (100, 100, true)", x, y, ok)
	}

	if _, _, ok := m.Position(3); ok {
		t.Error("Position resolved an unknown slot")
	}

	m.Remove(7)
	if m.Count() != 0 {
		t.Errorf("count = %d after remove, want 0", m.Count())
	}
	m.Remove(7) // no-op
}

func TestMirrorStepMovesTowardTarget(t *testing.T) {
	m := NewMirror()
	m.Add(0, frontierSpawn())

	m.Step()
	x, y, _ := m.Position(0)
	if math.Abs(float64(x-102)) > 0.001 || math.Abs(float64(y-100)) > 0.001 {
		t.Errorf("after one step at speed 2 toward (200,100): got (%v, %v), want (102, 100)", x, y)
	}

	// Enough steps to cover the 100px distance
	for i := 0; i < 60; i++ {
		m.Step()
	}
	x, y, _ = m.Position(0)
	dx := float64(x - 200)
	dy := float64(y - 100)
	if math.Sqrt(dx*dx+dy*dy) > 3 {
		t.Errorf("mirror did not converge on target: at (%v, %v)", x, y)
	}
}

func TestMirrorSnapshot(t *testing.T) {
	m := NewMirror()
	m.Add(4, frontierSpawn())

	snap := m.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("snapshot has %d entries, want 1", len(snap))
	}
	s := snap[0]
	if s.Slot != 4 || s.Verb != "weaving" || s.Noun != "soft matter" ||
		s.ProjectTitle != "Gel Actuators" || s.ClusterName != "materials" {
		t.Errorf("snapshot narrative wrong: %+v", s)
	}
	if s.Hue != 300 {
		t.Errorf("snapshot hue = %v, want 300", s.Hue)
	}
}

func TestMirrorAges(t *testing.T) {
	m := NewMirror()
	m.Add(0, frontierSpawn())

	for i := 0; i < 10; i++ {
		m.Step()
	}
	if got := m.Snapshot()[0].Age; got != 10 {
		t.Errorf("age = %d after 10 steps, want 10", got)
	}
}
