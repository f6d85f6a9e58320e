package sim

// DeployDecision is the outcome of one trigger-predicate evaluation, with the
// evidence that produced it.
type DeployDecision struct {
	Fire         bool
	Reasons      []string // which predicates fired: "loss", "rtt", "rssi", "hop"
	LossPct      float64
	AvgRTTMs     float64
	RTTSamples   uint64
	WorstRSSIDBm float64
	MaxHopM      float64
}

// DeploymentPolicy decides when link quality has degraded enough to inject a
// staged relay into the chain. It is evaluated once per monitor tick and has
// no side effects; the controller applies the resulting deployment.
type DeploymentPolicy struct {
	cfg *Config
}

// NewDeploymentPolicy creates a policy bound to cfg.
func NewDeploymentPolicy(cfg *Config) *DeploymentPolicy {
	return &DeploymentPolicy{cfg: cfg}
}

// Evaluate applies the trigger predicate (a logical OR over window loss,
// window average RTT, worst-hop RSSI, and largest hop distance) to the
// current picture.
func (p *DeploymentPolicy) Evaluate(chain Chain, window CounterSet, est *LinkEstimator) DeployDecision {
	d := DeployDecision{
		LossPct:      window.LossPct(),
		AvgRTTMs:     window.AvgRTTMs,
		RTTSamples:   window.RTTSamples,
		WorstRSSIDBm: chain.WorstHopRSSI(est),
		MaxHopM:      chain.MaxHopDistance(),
	}

	if window.TxPackets > 0 && d.LossPct > p.cfg.LossThresholdPct {
		d.Reasons = append(d.Reasons, "loss")
	}
	if window.RTTSamples > 0 && d.AvgRTTMs > p.cfg.RTTThresholdMs {
		d.Reasons = append(d.Reasons, "rtt")
	}
	if d.WorstRSSIDBm < p.cfg.RSSIThresholdDBm {
		d.Reasons = append(d.Reasons, "rssi")
	}
	if d.MaxHopM > p.cfg.MaxHopMetres {
		d.Reasons = append(d.Reasons, "hop")
	}

	d.Fire = len(d.Reasons) > 0
	return d
}

// NextStaged returns the staged relay with the lowest index, or nil when the
// staging set is exhausted.
func NextStaged(relays []*Relay) *Relay {
	var best *Relay
	for _, r := range relays {
		if r.State != RelayStaged {
			continue
		}
		if best == nil || r.Index < best.Index {
			best = r
		}
	}
	return best
}

// DeployTarget selects the x-coordinate for a new relay: the midpoint of the
// widest gap in the current chain.
func DeployTarget(chain Chain) float64 {
	left, right := chain.LargestGap()
	return (left + right) / 2.0
}
