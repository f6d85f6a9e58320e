package sim

import (
	"golang.org/x/exp/slices"
)

// Move is one relay's planned displacement for a balance tick.
type Move struct {
	Relay    NodeID
	OldX     float64
	NewX     float64
	VX       float64 // steering velocity; zeroed when the separation pass overrides NewX
	LeftHop  float64 // x-distance to the left chain neighbour at plan time
	RightHop float64 // x-distance to the right chain neighbour at plan time
}

// BalancingPolicy equalises each deployed relay's left and right hop along the
// x axis. Per tick it plans a velocity step toward the farther neighbour, with
// a deadband to prevent chatter, then a second pass restores ordering and
// minimum separation.
type BalancingPolicy struct {
	cfg *Config
}

// NewBalancingPolicy creates a policy bound to cfg.
func NewBalancingPolicy(cfg *Config) *BalancingPolicy {
	return &BalancingPolicy{cfg: cfg}
}

// Plan computes the tentative step for every deployed relay in the chain.
// With Δ = L − R: a larger left hop (Δ > deadband) steps the relay leftward,
// toward the farther neighbour; a larger right hop steps it rightward; inside
// the deadband the relay holds position.
func (p *BalancingPolicy) Plan(chain Chain, relays []*Relay) []Move {
	dt := p.cfg.BalanceInterval
	moves := make([]Move, 0, len(relays))
	for _, r := range relays {
		if !r.Deployed() {
			continue
		}
		left, right, ok := chain.neighbors(r.Node)
		if !ok {
			continue
		}
		var pos ChainNode
		for _, n := range chain.Nodes() {
			if n.ID == r.Node {
				pos = n
				break
			}
		}

		l := pos.Pos.X - left.Pos.X
		rr := right.Pos.X - pos.Pos.X
		delta := l - rr

		vx := 0.0
		if delta > p.cfg.HopDiffMetres {
			vx = -p.cfg.RelayMoveSpeed
		} else if delta < -p.cfg.HopDiffMetres {
			vx = p.cfg.RelayMoveSpeed
		}

		moves = append(moves, Move{
			Relay:    r.Node,
			OldX:     pos.Pos.X,
			NewX:     pos.Pos.X + vx*dt,
			VX:       vx,
			LeftHop:  l,
			RightHop: rr,
		})
	}
	return moves
}

// EnforceSeparation is the second pass over the tentative moves: relays are
// sorted by their new x, and every adjacent pair closer than the minimum
// separation is respaced symmetrically about the pair's midpoint. Adjusted
// relays have their steering velocity cancelled.
func (p *BalancingPolicy) EnforceSeparation(moves []Move) []Move {
	if len(moves) < 2 {
		return moves
	}
	sortByNewX := func() {
		slices.SortStableFunc(moves, func(a, b Move) int {
			switch {
			case a.NewX < b.NewX:
				return -1
			case a.NewX > b.NewX:
				return 1
			default:
				return 0
			}
		})
	}
	// Respacing one pair can squeeze the pair before it, so sweep until a
	// fixed point. Spreading about midpoints converges geometrically; the cap
	// only guards against float jitter.
	const maxSweeps = 64
	const slack = 1e-9
	for sweep := 0; sweep < maxSweeps; sweep++ {
		sortByNewX()
		adjusted := false
		for i := 0; i+1 < len(moves); i++ {
			gap := moves[i+1].NewX - moves[i].NewX
			if gap >= p.cfg.MinSeparation-slack {
				continue
			}
			mid := (moves[i].NewX + moves[i+1].NewX) / 2.0
			moves[i].NewX = mid - p.cfg.MinSeparation/2.0
			moves[i+1].NewX = mid + p.cfg.MinSeparation/2.0
			moves[i].VX = 0
			moves[i+1].VX = 0
			adjusted = true
		}
		if !adjusted {
			break
		}
	}
	return moves
}

// Clamp confines the moves to [min(userX, apX)+ε, max(userX, apX)−ε]. Only
// applied when the containment flag is set; the default behaviour lets relays
// range freely.
func (p *BalancingPolicy) Clamp(moves []Move, userX, apX float64) []Move {
	const margin = 0.1
	lo := min(userX, apX) + margin
	hi := max(userX, apX) - margin
	if lo > hi {
		lo, hi = (lo+hi)/2, (lo+hi)/2
	}
	for i := range moves {
		if moves[i].NewX < lo {
			moves[i].NewX = lo
			moves[i].VX = 0
		}
		if moves[i].NewX > hi {
			moves[i].NewX = hi
			moves[i].VX = 0
		}
	}
	return moves
}
