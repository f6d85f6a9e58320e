package sim

import "fmt"

// NodeID indexes a node record in the Fleet. The controller and the mobility
// backend both refer to nodes by ID rather than by pointer, so ownership of the
// records stays with the Fleet.
type NodeID int

// NodeKind classifies a node's role in the forwarding chain.
type NodeKind string

const (
	KindUser  NodeKind = "user"
	KindRelay NodeKind = "relay"
	KindAP    NodeKind = "ap"
)

// RelayState tracks whether a relay is part of the active chain.
type RelayState string

const (
	// RelayStaged means allocated but parked outside the chain.
	RelayStaged RelayState = "staged"
	// RelayDeployed means a member of the chain, subject to balancing.
	RelayDeployed RelayState = "deployed"
)

// Node is an identity record. Positions and velocities live in the mobility
// backend, not here.
type Node struct {
	ID    NodeID
	Kind  NodeKind
	Label string // short display name: "U", "A", "D1", ...
}

// Relay pairs a relay node with its lifecycle state. The staged → deployed
// transition happens at most once and never reverts.
type Relay struct {
	Node  NodeID
	Index int // stable creation order; deployment picks the lowest staged index
	State RelayState
}

// Deployed reports whether the relay is in the active chain.
func (r *Relay) Deployed() bool {
	return r.State == RelayDeployed
}

// Fleet is the flat arena of node records for one simulation run.
type Fleet struct {
	nodes []Node
}

// NewFleet creates an empty fleet.
func NewFleet() *Fleet {
	return &Fleet{nodes: make([]Node, 0)}
}

// Add appends a node record and returns its ID.
func (f *Fleet) Add(kind NodeKind, label string) NodeID {
	id := NodeID(len(f.nodes))
	f.nodes = append(f.nodes, Node{ID: id, Kind: kind, Label: label})
	return id
}

// Node returns the record for id.
func (f *Fleet) Node(id NodeID) (Node, error) {
	if int(id) < 0 || int(id) >= len(f.nodes) {
		return Node{}, fmt.Errorf("fleet: no node with id %d", id)
	}
	return f.nodes[id], nil
}

// Label returns the display label for id, or "?" if the ID is unknown.
func (f *Fleet) Label(id NodeID) string {
	n, err := f.Node(id)
	if err != nil {
		return "?"
	}
	return n.Label
}

// Len returns the number of node records.
func (f *Fleet) Len() int {
	return len(f.nodes)
}
