package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/gavincwyant/multi-hop-drone-forwarding/sim/trace"
)

// clusterBaseX is where cluster-mode relays start packing, a few metres ahead
// of the user's starting position.
const clusterBaseX = 5.0

// Controller is the adaptive relay control loop. It owns the configuration and
// the metric aggregator, borrows node positions through the MobilityOracle,
// and drives the deployment and balancing policies from two recurring ticks on
// the Clock. Single-threaded and cooperative: it never spawns goroutines.
type Controller struct {
	cfg     Config
	clock   Clock
	oracle  MobilityOracle
	fleet   *Fleet
	est     *LinkEstimator
	metrics *MetricAggregator
	telem   *Telemetry
	trace   *trace.SimulationTrace

	deployPolicy  *DeploymentPolicy
	balancePolicy *BalancingPolicy

	user   NodeID
	ap     NodeID
	relays []*Relay

	stopped     bool
	deployments int
}

// NewController validates cfg and performs the initial relay placement for the
// configured init mode. The user, AP, and relay nodes must already be
// registered with the mobility backend.
func NewController(cfg Config, clock Clock, oracle MobilityOracle, fleet *Fleet,
	user, ap NodeID, relays []*Relay, est *LinkEstimator, metrics *MetricAggregator,
	telem *Telemetry, tr *trace.SimulationTrace) (*Controller, error) {

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{
		cfg:     cfg,
		clock:   clock,
		oracle:  oracle,
		fleet:   fleet,
		est:     est,
		metrics: metrics,
		telem:   telem,
		trace:   tr,
		user:    user,
		ap:      ap,
		relays:  relays,
	}
	c.deployPolicy = NewDeploymentPolicy(&c.cfg)
	c.balancePolicy = NewBalancingPolicy(&c.cfg)
	if err := c.placeInitial(); err != nil {
		return nil, err
	}
	return c, nil
}

// placeInitial positions the relays per the init mode. In even and cluster
// modes every relay starts deployed; in deploy mode the relays are staged near
// the AP until the trigger predicate fires.
func (c *Controller) placeInitial() error {
	apPos, err := c.oracle.Position(c.ap)
	if err != nil {
		return fmt.Errorf("controller: AP has no mobility state: %w", err)
	}
	k := len(c.relays)
	for i, r := range c.relays {
		var x float64
		state := RelayDeployed
		switch c.cfg.InitMode {
		case InitEven:
			x = float64(i+1) / float64(k+1) * c.cfg.TotalDistance
		case InitCluster:
			x = clusterBaseX + float64(i)
		case InitDeploy:
			x = apPos.X - float64(i)
			state = RelayStaged
		default:
			return fmt.Errorf("controller: unknown init mode %q", c.cfg.InitMode)
		}
		if err := c.oracle.SetPosition(r.Node, Vector{X: x, Z: c.cfg.RelayHeight}); err != nil {
			return err
		}
		if err := c.oracle.SetVelocity(r.Node, Vector{}); err != nil {
			return err
		}
		r.State = state
		c.telem.Eventf("[Init] relay %s %s at x=%.2f", c.fleet.Label(r.Node), state, x)
	}
	return nil
}

// Start registers the two recurring ticks with the clock. Each tick handler
// reschedules itself, so Start is called exactly once.
func (c *Controller) Start() {
	c.clock.Schedule(NewBalanceTickEvent(c.clock.Now()+Seconds(c.cfg.BalanceInterval), c))
	c.clock.Schedule(NewMonitorTickEvent(c.clock.Now()+Seconds(c.cfg.MonitorInterval), c))
}

// Stop cancels the recurring ticks. The ticks already in the event queue
// execute as no-ops.
func (c *Controller) Stop() {
	c.stopped = true
}

// Chain rebuilds the active forwarding chain from the current node set.
func (c *Controller) Chain() (Chain, error) {
	return BuildChain(c.oracle, c.fleet, c.user, c.relays, c.ap)
}

// Relays returns the controller's relay records.
func (c *Controller) Relays() []*Relay {
	return c.relays
}

// Deployments returns how many staged → deployed transitions have happened.
func (c *Controller) Deployments() int {
	return c.deployments
}

// DeployedCount returns the number of relays currently in the chain.
func (c *Controller) DeployedCount() int {
	n := 0
	for _, r := range c.relays {
		if r.Deployed() {
			n++
		}
	}
	return n
}

// onBalanceTick runs one pass of the balancing policy and applies the
// resulting moves through the mobility oracle.
func (c *Controller) onBalanceTick(now int64) {
	if c.stopped {
		return
	}
	defer c.clock.Schedule(NewBalanceTickEvent(now+Seconds(c.cfg.BalanceInterval), c))

	if c.DeployedCount() == 0 {
		return
	}
	chain, err := c.Chain()
	if err != nil {
		logrus.Warnf("balance tick skipped: %v", err)
		return
	}
	moves := c.balancePolicy.Plan(chain, c.relays)
	moves = c.balancePolicy.EnforceSeparation(moves)
	if c.cfg.ClampToEndpoints {
		userPos, uerr := c.oracle.Position(c.user)
		apPos, aerr := c.oracle.Position(c.ap)
		if uerr == nil && aerr == nil {
			moves = c.balancePolicy.Clamp(moves, userPos.X, apPos.X)
		}
	}
	c.applyMoves(now, moves)
}

// applyMoves pushes the planned displacements into the mobility backend. A
// refusal for one relay is logged and does not stop the others.
func (c *Controller) applyMoves(now int64, moves []Move) {
	for _, mv := range moves {
		pos, err := c.oracle.Position(mv.Relay)
		if err != nil {
			logrus.Warnf("relay %s: mobility refused: %v", c.fleet.Label(mv.Relay), err)
			continue
		}
		if err := c.oracle.SetVelocity(mv.Relay, Vector{X: mv.VX}); err != nil {
			logrus.Warnf("relay %s: mobility refused: %v", c.fleet.Label(mv.Relay), err)
			continue
		}
		if err := c.oracle.SetPosition(mv.Relay, Vector{X: mv.NewX, Y: pos.Y, Z: pos.Z}); err != nil {
			logrus.Warnf("relay %s: mobility refused: %v", c.fleet.Label(mv.Relay), err)
			continue
		}
		if math.Abs(mv.NewX-mv.OldX) > 0.001 {
			label := c.fleet.Label(mv.Relay)
			c.telem.Eventf("[Move] relay %s x=%.2f -> x=%.2f (L=%.2fm R=%.2fm)",
				label, mv.OldX, mv.NewX, mv.LeftHop, mv.RightHop)
			c.trace.RecordMove(trace.MoveRecord{
				TimeSeconds: ToSeconds(now),
				Relay:       label,
				FromX:       mv.OldX,
				ToX:         mv.NewX,
				LeftHopM:    mv.LeftHop,
				RightHopM:   mv.RightHop,
			})
		}
	}
}

// onMonitorTick emits the telemetry snapshot, then evaluates the deployment
// policy. At most one relay is deployed per tick.
func (c *Controller) onMonitorTick(now int64) {
	if c.stopped {
		return
	}
	defer c.clock.Schedule(NewMonitorTickEvent(now+Seconds(c.cfg.MonitorInterval), c))

	chain, err := c.Chain()
	if err != nil {
		logrus.Warnf("monitor tick skipped: %v", err)
		return
	}
	userX := 0.0
	if userPos, uerr := c.oracle.Position(c.user); uerr == nil {
		userX = userPos.X
	}
	c.telem.Snapshot(now, userX, chain, c.est, c.metrics)

	decision := c.deployPolicy.Evaluate(chain, c.metrics.Window, c.est)
	if !decision.Fire {
		return
	}
	relay := NextStaged(c.relays)
	if relay == nil {
		// Predicate fired with the staging set exhausted: silent no-op.
		return
	}
	c.applyDeployment(now, chain, relay, decision)
}

// applyDeployment teleports the relay to the midpoint of the chain's widest
// gap, marks it deployed, and resets the window counters so the next decision
// is taken on fresh evidence from the new topology. When the widest gap is
// narrower than twice the minimum separation the midpoint lands inside a
// neighbour's spacing, so the deployed set is respaced in the same tick rather
// than waiting for the next balance pass.
func (c *Controller) applyDeployment(now int64, chain Chain, relay *Relay, decision DeployDecision) {
	oldPos, err := c.oracle.Position(relay.Node)
	if err != nil {
		logrus.Warnf("relay %s: mobility refused, staying staged: %v", c.fleet.Label(relay.Node), err)
		return
	}
	targetX := DeployTarget(chain)
	if err := c.oracle.SetPosition(relay.Node, Vector{X: targetX, Y: oldPos.Y, Z: c.cfg.RelayHeight}); err != nil {
		logrus.Warnf("relay %s: mobility refused, staying staged: %v", c.fleet.Label(relay.Node), err)
		return
	}
	if err := c.oracle.SetVelocity(relay.Node, Vector{}); err != nil {
		logrus.Warnf("relay %s: mobility refused: %v", c.fleet.Label(relay.Node), err)
	}
	relay.State = RelayDeployed
	c.deployments++
	c.metrics.ResetWindow()

	label := c.fleet.Label(relay.Node)
	c.telem.Eventf("[Deploy] relay %s x=%.2f -> x=%.2f (reasons=%v loss=%.1f%% rtt=%.1fms rssi=%.1fdBm maxHop=%.1fm)",
		label, oldPos.X, targetX, decision.Reasons, decision.LossPct, decision.AvgRTTMs,
		decision.WorstRSSIDBm, decision.MaxHopM)
	c.trace.RecordDeployment(trace.DeploymentRecord{
		TimeSeconds:  ToSeconds(now),
		Relay:        label,
		FromX:        oldPos.X,
		ToX:          targetX,
		Reasons:      decision.Reasons,
		LossPct:      decision.LossPct,
		AvgRTTMs:     decision.AvgRTTMs,
		WorstRSSIDBm: decision.WorstRSSIDBm,
		MaxHopM:      decision.MaxHopM,
	})
	c.respaceDeployed()
}

// respaceDeployed restores minimum separation across the deployed set from
// the relays' current positions. Holds are represented as zero-displacement
// moves so the separation pass only shifts relays that actually crowd a
// neighbour.
func (c *Controller) respaceDeployed() {
	moves := make([]Move, 0, len(c.relays))
	for _, r := range c.relays {
		if !r.Deployed() {
			continue
		}
		pos, err := c.oracle.Position(r.Node)
		if err != nil {
			logrus.Warnf("relay %s: mobility refused: %v", c.fleet.Label(r.Node), err)
			continue
		}
		moves = append(moves, Move{Relay: r.Node, OldX: pos.X, NewX: pos.X})
	}
	for _, mv := range c.balancePolicy.EnforceSeparation(moves) {
		if math.Abs(mv.NewX-mv.OldX) <= 0.001 {
			continue
		}
		pos, err := c.oracle.Position(mv.Relay)
		if err != nil {
			continue
		}
		if err := c.oracle.SetVelocity(mv.Relay, Vector{}); err != nil {
			logrus.Warnf("relay %s: mobility refused: %v", c.fleet.Label(mv.Relay), err)
			continue
		}
		if err := c.oracle.SetPosition(mv.Relay, Vector{X: mv.NewX, Y: pos.Y, Z: pos.Z}); err != nil {
			logrus.Warnf("relay %s: mobility refused: %v", c.fleet.Label(mv.Relay), err)
			continue
		}
		c.telem.Eventf("[Respace] relay %s x=%.2f -> x=%.2f", c.fleet.Label(mv.Relay), mv.OldX, mv.NewX)
	}
}
