package sim

import (
	"fmt"
	"math"
)

// Vector is a 3-D position or velocity in metres / metres per second.
type Vector struct {
	X float64
	Y float64
	Z float64
}

// DistanceTo returns the Euclidean distance to other.
func (v Vector) DistanceTo(other Vector) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	dz := v.Z - other.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// MobilityOracle is the controller's only access to node kinematics. The
// backend owns positions and velocities; the controller holds node IDs.
type MobilityOracle interface {
	// Position returns the node's current position.
	Position(id NodeID) (Vector, error)
	// Velocity returns the node's current velocity.
	Velocity(id NodeID) (Vector, error)
	// SetPosition snapshots the node at p as of the current time.
	SetPosition(id NodeID, p Vector) error
	// SetVelocity snapshots the node's position and changes its velocity.
	SetVelocity(id NodeID, v Vector) error
	// Distance returns the Euclidean distance between two nodes in metres.
	Distance(a, b NodeID) (float64, error)
}

// kinematicState is one node's constant-velocity record: position as of
// updatedAt, advanced lazily on read.
type kinematicState struct {
	pos       Vector
	vel       Vector
	updatedAt int64
}

// World is the in-simulator mobility backend: every registered node moves with
// constant velocity between updates, the way the original experiment's
// constant-velocity mobility models do.
type World struct {
	clock Clock
	state map[NodeID]*kinematicState
}

// NewWorld creates a mobility backend reading time from clock.
func NewWorld(clock Clock) *World {
	return &World{
		clock: clock,
		state: make(map[NodeID]*kinematicState),
	}
}

// Register adds a node at position p with zero velocity.
func (w *World) Register(id NodeID, p Vector) {
	w.state[id] = &kinematicState{pos: p, updatedAt: w.clock.Now()}
}

// advance folds elapsed time into the stored position.
func (w *World) advance(ks *kinematicState) {
	now := w.clock.Now()
	if now == ks.updatedAt {
		return
	}
	dt := ToSeconds(now - ks.updatedAt)
	ks.pos.X += ks.vel.X * dt
	ks.pos.Y += ks.vel.Y * dt
	ks.pos.Z += ks.vel.Z * dt
	ks.updatedAt = now
}

func (w *World) lookup(id NodeID) (*kinematicState, error) {
	ks, ok := w.state[id]
	if !ok {
		return nil, fmt.Errorf("mobility: node %d has no mobility state", id)
	}
	return ks, nil
}

// Position returns the node's position at the current time.
func (w *World) Position(id NodeID) (Vector, error) {
	ks, err := w.lookup(id)
	if err != nil {
		return Vector{}, err
	}
	w.advance(ks)
	return ks.pos, nil
}

// Velocity returns the node's velocity.
func (w *World) Velocity(id NodeID) (Vector, error) {
	ks, err := w.lookup(id)
	if err != nil {
		return Vector{}, err
	}
	return ks.vel, nil
}

// SetPosition teleports the node to p as of the current time.
func (w *World) SetPosition(id NodeID, p Vector) error {
	ks, err := w.lookup(id)
	if err != nil {
		return err
	}
	ks.pos = p
	ks.updatedAt = w.clock.Now()
	return nil
}

// SetVelocity changes the node's velocity, keeping its current position.
func (w *World) SetVelocity(id NodeID, v Vector) error {
	ks, err := w.lookup(id)
	if err != nil {
		return err
	}
	w.advance(ks)
	ks.vel = v
	return nil
}

// Distance returns the Euclidean distance between nodes a and b.
func (w *World) Distance(a, b NodeID) (float64, error) {
	pa, err := w.Position(a)
	if err != nil {
		return 0, err
	}
	pb, err := w.Position(b)
	if err != nil {
		return 0, err
	}
	return pa.DistanceTo(pb), nil
}
