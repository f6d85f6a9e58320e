package sim

import (
	"golang.org/x/exp/slices"
)

// ChainNode is one member of the active forwarding chain with its position
// frozen at build time.
type ChainNode struct {
	ID    NodeID
	Label string
	Pos   Vector
}

// Hop is an adjacent pair in the chain. Distance is Euclidean, so a relay's
// height counts against its hops.
type Hop struct {
	Left     ChainNode
	Right    ChainNode
	Distance float64
}

// Chain is the ordered sequence [user, deployed relays ascending in x, AP].
// It is a pure projection over the current node set, rebuilt on demand and
// never stored.
type Chain struct {
	nodes []ChainNode
}

// BuildChain projects the user, every deployed relay, and the AP into a chain
// sorted by ascending x.
func BuildChain(oracle MobilityOracle, fleet *Fleet, user NodeID, relays []*Relay, ap NodeID) (Chain, error) {
	members := []NodeID{user}
	for _, r := range relays {
		if r.Deployed() {
			members = append(members, r.Node)
		}
	}
	members = append(members, ap)

	nodes := make([]ChainNode, 0, len(members))
	for _, id := range members {
		pos, err := oracle.Position(id)
		if err != nil {
			return Chain{}, err
		}
		nodes = append(nodes, ChainNode{ID: id, Label: fleet.Label(id), Pos: pos})
	}
	slices.SortStableFunc(nodes, func(a, b ChainNode) int {
		switch {
		case a.Pos.X < b.Pos.X:
			return -1
		case a.Pos.X > b.Pos.X:
			return 1
		default:
			return 0
		}
	})
	return Chain{nodes: nodes}, nil
}

// Nodes returns the chain members in x order.
func (c Chain) Nodes() []ChainNode {
	return c.nodes
}

// Len returns the number of chain members.
func (c Chain) Len() int {
	return len(c.nodes)
}

// Hops returns the adjacent pairs of the chain with their Euclidean
// distances.
func (c Chain) Hops() []Hop {
	if len(c.nodes) < 2 {
		return nil
	}
	hops := make([]Hop, 0, len(c.nodes)-1)
	for i := 0; i+1 < len(c.nodes); i++ {
		left, right := c.nodes[i], c.nodes[i+1]
		hops = append(hops, Hop{
			Left:     left,
			Right:    right,
			Distance: left.Pos.DistanceTo(right.Pos),
		})
	}
	return hops
}

// MaxHopDistance returns the largest hop distance, or 0 for a degenerate
// chain.
func (c Chain) MaxHopDistance() float64 {
	maxDist := 0.0
	for _, h := range c.Hops() {
		if h.Distance > maxDist {
			maxDist = h.Distance
		}
	}
	return maxDist
}

// WorstHopRSSI samples the estimator for every hop and returns the weakest
// value. For an empty chain it returns 0 (no hop can be weak).
func (c Chain) WorstHopRSSI(est *LinkEstimator) float64 {
	hops := c.Hops()
	if len(hops) == 0 {
		return 0
	}
	worst := est.RSSI(hops[0].Distance)
	for _, h := range hops[1:] {
		if rssi := est.RSSI(h.Distance); rssi < worst {
			worst = rssi
		}
	}
	return worst
}

// LargestGap returns the endpoints, in x, of the widest gap between adjacent
// chain members. Deployment targets the midpoint of this gap.
func (c Chain) LargestGap() (leftX, rightX float64) {
	bestGap := -1.0
	for i := 0; i+1 < len(c.nodes); i++ {
		gap := c.nodes[i+1].Pos.X - c.nodes[i].Pos.X
		if gap > bestGap {
			bestGap = gap
			leftX = c.nodes[i].Pos.X
			rightX = c.nodes[i+1].Pos.X
		}
	}
	return leftX, rightX
}

// neighbors returns the chain members adjacent to id, or ok=false when id is
// not an interior member.
func (c Chain) neighbors(id NodeID) (left, right ChainNode, ok bool) {
	for i, n := range c.nodes {
		if n.ID == id {
			if i == 0 || i == len(c.nodes)-1 {
				return ChainNode{}, ChainNode{}, false
			}
			return c.nodes[i-1], c.nodes[i+1], true
		}
	}
	return ChainNode{}, ChainNode{}, false
}
