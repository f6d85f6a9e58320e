package sim

import (
	"fmt"
	"io"

	"github.com/gavincwyant/multi-hop-drone-forwarding/sim/trace"
	"github.com/iti/rngstream"
)

// Experiment assembles one complete run: kernel, mobility world, fleet,
// traffic collaborator, and the relay controller.
type Experiment struct {
	Sim        *Simulator
	World      *World
	Fleet      *Fleet
	Controller *Controller
	Traffic    *EchoTraffic
	Metrics    *MetricAggregator
	Estimator  *LinkEstimator
	Trace      *trace.SimulationTrace

	User NodeID
	AP   NodeID
}

// NewExperiment builds the standard topology (user at the origin walking +x,
// AP at totalDistance, relays placed per the init mode) and wires every
// component together. The log sink receives the telemetry stream.
func NewExperiment(cfg Config, traffic TrafficConfig, logSink io.Writer, traceLevel trace.TraceLevel) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !trace.IsValidTraceLevel(string(traceLevel)) {
		return nil, fmt.Errorf("experiment: unknown trace level %q", traceLevel)
	}

	simulator := NewSimulator(Seconds(cfg.DurationSeconds))
	world := NewWorld(simulator)
	fleet := NewFleet()
	rng := NewPartitionedRNG(cfg.Seed)
	est := NewLinkEstimator(rng.DeriveSeed(SubsystemLink))
	metrics := NewMetricAggregator()
	telem := NewTelemetry(logSink, cfg.AsciiStep)
	tr := trace.NewSimulationTrace(trace.TraceConfig{Level: traceLevel})

	user := fleet.Add(KindUser, "U")
	world.Register(user, Vector{})
	if err := world.SetVelocity(user, Vector{X: cfg.UserSpeed}); err != nil {
		return nil, err
	}

	relays := make([]*Relay, 0, cfg.NumRelays)
	for i := 0; i < cfg.NumRelays; i++ {
		id := fleet.Add(KindRelay, fmt.Sprintf("D%d", i+1))
		world.Register(id, Vector{})
		relays = append(relays, &Relay{Node: id, Index: i, State: RelayStaged})
	}

	ap := fleet.Add(KindAP, "A")
	world.Register(ap, Vector{X: cfg.TotalDistance})

	controller, err := NewController(cfg, simulator, world, fleet, user, ap, relays, est, metrics, telem, tr)
	if err != nil {
		return nil, err
	}

	// rngstream draws its per-stream state from package-level seed state, so
	// it has to be pinned from the master seed before the traffic stream is
	// created or same-seed runs in one process diverge.
	if ok := rngstream.SetPackageSeed(rng.StreamState(SubsystemTraffic)); !ok {
		return nil, fmt.Errorf("seed traffic stream: invalid seed")
	}
	echo := NewEchoTraffic(simulator, traffic, est, controller.Chain, metrics)

	return &Experiment{
		Sim:        simulator,
		World:      world,
		Fleet:      fleet,
		Controller: controller,
		Traffic:    echo,
		Metrics:    metrics,
		Estimator:  est,
		Trace:      tr,
		User:       user,
		AP:         ap,
	}, nil
}

// Run starts the controller and the traffic and drains the event loop to the
// horizon.
func (e *Experiment) Run() {
	e.Controller.Start()
	e.Traffic.Start()
	e.Sim.Run()
}
