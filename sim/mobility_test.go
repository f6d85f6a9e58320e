package sim

import (
	"math"
	"testing"
)

// manualClock lets mobility tests set the time directly.
type manualClock struct {
	now int64
}

func (c *manualClock) Now() int64        { return c.now }
func (c *manualClock) Schedule(ev Event) {}

func TestWorld_ConstantVelocityAdvance(t *testing.T) {
	clock := &manualClock{}
	w := NewWorld(clock)
	w.Register(NodeID(0), Vector{X: 10})
	if err := w.SetVelocity(NodeID(0), Vector{X: 2.5}); err != nil {
		t.Fatalf("SetVelocity: %v", err)
	}

	clock.now = Seconds(4.0)
	pos, err := w.Position(NodeID(0))
	if err != nil {
		t.Fatalf("Position: %v", err)
	}
	if math.Abs(pos.X-20.0) > 1e-9 {
		t.Errorf("expected x=20 after 4s at 2.5 m/s, got %g", pos.X)
	}
}

func TestWorld_SetPositionRebases(t *testing.T) {
	clock := &manualClock{}
	w := NewWorld(clock)
	w.Register(NodeID(0), Vector{})
	if err := w.SetVelocity(NodeID(0), Vector{X: 1.0}); err != nil {
		t.Fatalf("SetVelocity: %v", err)
	}

	clock.now = Seconds(5.0)
	if err := w.SetPosition(NodeID(0), Vector{X: 100, Z: 10}); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}

	// The teleport resets the reference time; motion resumes from there.
	clock.now = Seconds(7.0)
	pos, _ := w.Position(NodeID(0))
	if math.Abs(pos.X-102.0) > 1e-9 {
		t.Errorf("expected x=102, got %g", pos.X)
	}
	if pos.Z != 10 {
		t.Errorf("expected z=10 preserved, got %g", pos.Z)
	}
}

func TestWorld_SetVelocityKeepsCurrentPosition(t *testing.T) {
	clock := &manualClock{}
	w := NewWorld(clock)
	w.Register(NodeID(0), Vector{})
	if err := w.SetVelocity(NodeID(0), Vector{X: 2.0}); err != nil {
		t.Fatalf("SetVelocity: %v", err)
	}

	// Changing velocity mid-flight must fold in the distance already covered.
	clock.now = Seconds(3.0)
	if err := w.SetVelocity(NodeID(0), Vector{X: -1.0}); err != nil {
		t.Fatalf("SetVelocity: %v", err)
	}
	clock.now = Seconds(5.0)
	pos, _ := w.Position(NodeID(0))
	if math.Abs(pos.X-4.0) > 1e-9 {
		t.Errorf("expected x=6-2=4, got %g", pos.X)
	}
}

func TestWorld_UnknownNodeErrors(t *testing.T) {
	w := NewWorld(&manualClock{})
	if _, err := w.Position(NodeID(99)); err == nil {
		t.Error("expected error for unregistered node")
	}
	if err := w.SetPosition(NodeID(99), Vector{}); err == nil {
		t.Error("expected error for unregistered node")
	}
	if err := w.SetVelocity(NodeID(99), Vector{}); err == nil {
		t.Error("expected error for unregistered node")
	}
	if _, err := w.Velocity(NodeID(99)); err == nil {
		t.Error("expected error for unregistered node")
	}
}

func TestWorld_Distance(t *testing.T) {
	w := NewWorld(&manualClock{})
	w.Register(NodeID(0), Vector{X: 0, Z: 0})
	w.Register(NodeID(1), Vector{X: 30, Z: 40})

	d, err := w.Distance(NodeID(0), NodeID(1))
	if err != nil {
		t.Fatalf("Distance: %v", err)
	}
	if math.Abs(d-50.0) > 1e-9 {
		t.Errorf("expected 50 (3-4-5 triangle scaled), got %g", d)
	}

	if _, err := w.Distance(NodeID(0), NodeID(7)); err == nil {
		t.Error("expected error when one endpoint is unknown")
	}
}
