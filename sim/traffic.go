package sim

import (
	"github.com/iti/rngstream"
)

// TrafficConfig tunes the UDP echo collaborator.
type TrafficConfig struct {
	IntervalSeconds float64 // time between client sends
	PacketSizeBytes int     // payload size, reporting only
	MaxPackets      int     // client send budget
	StartSeconds    float64 // first send
	StopSeconds     float64 // no sends at or after this time
	DropProb        float64 // forced per-packet loss, for degradation experiments
	SensitivityDBm  float64 // receiver floor; below it a hop never delivers
	FullMarginDB    float64 // margin above the floor at which a hop always delivers
	BaseHopDelayMs  float64 // fixed forwarding delay per hop
}

// DefaultTrafficConfig mirrors the echo application settings of the field
// experiments: one 1024-byte probe every half second from t=2s, at most 1000
// packets.
func DefaultTrafficConfig(stopSeconds float64) TrafficConfig {
	return TrafficConfig{
		IntervalSeconds: 0.5,
		PacketSizeBytes: 1024,
		MaxPackets:      1000,
		StartSeconds:    2.0,
		StopSeconds:     stopSeconds,
		DropProb:        0,
		SensitivityDBm:  -85.0,
		FullMarginDB:    10.0,
		BaseHopDelayMs:  1.0,
	}
}

// EchoTraffic is the in-simulator traffic collaborator: a UDP echo client on
// the user and server on the AP, with every packet relayed hop by hop along
// the current chain. Per-hop delivery is a Bernoulli draw on the RSSI margin
// over the receiver floor. It feeds the three trace callbacks of the
// TrafficObserver, which is the controller's only view of it.
type EchoTraffic struct {
	clock    Clock
	cfg      TrafficConfig
	est      *LinkEstimator
	chainFn  func() (Chain, error)
	observer TrafficObserver
	rng      *rngstream.RngStream

	nextUID uint32
	sent    int
	stopped bool
}

// NewEchoTraffic wires the collaborator to the chain provider and observer.
func NewEchoTraffic(clock Clock, cfg TrafficConfig, est *LinkEstimator,
	chainFn func() (Chain, error), observer TrafficObserver) *EchoTraffic {
	return &EchoTraffic{
		clock:    clock,
		cfg:      cfg,
		est:      est,
		chainFn:  chainFn,
		observer: observer,
		rng:      rngstream.New("traffic"),
	}
}

// Start schedules the first client send.
func (t *EchoTraffic) Start() {
	t.clock.Schedule(NewEchoSendEvent(Seconds(t.cfg.StartSeconds), t))
}

// Stop ends the client's send loop; deliveries already in flight complete.
func (t *EchoTraffic) Stop() {
	t.stopped = true
}

// Sent returns how many probes the client has transmitted.
func (t *EchoTraffic) Sent() int {
	return t.sent
}

// deliveryProb maps a sampled hop RSSI to a delivery probability: zero at the
// receiver floor, certain delivery at FullMarginDB above it, linear between.
func (t *EchoTraffic) deliveryProb(rssiDBm float64) float64 {
	margin := rssiDBm - t.cfg.SensitivityDBm
	switch {
	case margin <= 0:
		return 0
	case margin >= t.cfg.FullMarginDB:
		return 1
	default:
		return margin / t.cfg.FullMarginDB
	}
}

// hopDelay returns the forwarding delay for one hop in ticks.
func (t *EchoTraffic) hopDelay(distM float64) int64 {
	const propagationMps = 3.0e8
	return Seconds(t.cfg.BaseHopDelayMs/1e3 + distM/propagationMps)
}

// traverse draws delivery for every hop in order, accumulating delay. ok is
// false as soon as any hop drops the packet.
func (t *EchoTraffic) traverse(hops []Hop) (delay int64, ok bool) {
	for _, h := range hops {
		p := t.deliveryProb(t.est.RSSI(h.Distance))
		if t.rng.RandU01() >= p {
			return 0, false
		}
		delay += t.hopDelay(h.Distance)
	}
	return delay, true
}

// handleSend transmits one probe along the current chain and schedules the
// server receive and echo completion that its per-hop draws allow.
func (t *EchoTraffic) handleSend(sim *Simulator, now int64) {
	if t.stopped || now >= Seconds(t.cfg.StopSeconds) || t.sent >= t.cfg.MaxPackets {
		return
	}
	t.nextUID++
	t.sent++
	uid := t.nextUID
	t.observer.OnTx(uid, now)

	// Schedule the next probe before resolving this one.
	next := now + Seconds(t.cfg.IntervalSeconds)
	if t.sent < t.cfg.MaxPackets && next < Seconds(t.cfg.StopSeconds) {
		sim.Schedule(NewEchoSendEvent(next, t))
	}

	chain, err := t.chainFn()
	if err != nil || chain.Len() < 2 {
		return
	}
	if t.cfg.DropProb > 0 && t.rng.RandU01() < t.cfg.DropProb {
		return
	}
	hops := chain.Hops()
	fwd, ok := t.traverse(hops)
	if !ok {
		return
	}
	sim.Schedule(NewServerRxEvent(now+fwd, t, uid))

	ret, ok := t.traverse(hops)
	if !ok {
		return
	}
	sim.Schedule(NewClientRxEvent(now+fwd+ret, t, uid))
}

func (t *EchoTraffic) handleServerRx(now int64, uid uint32) {
	t.observer.OnServerRx(uid, now)
}

func (t *EchoTraffic) handleClientRx(now int64, uid uint32) {
	t.observer.OnClientRx(uid, now)
}
