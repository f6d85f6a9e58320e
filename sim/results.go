package sim

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/gavincwyant/multi-hop-drone-forwarding/sim/trace"
)

// RTTStats summarises the cumulative RTT samples of a run.
type RTTStats struct {
	Samples int     `json:"samples"`
	MeanMs  float64 `json:"mean_ms"`
	P50Ms   float64 `json:"p50_ms"`
	P90Ms   float64 `json:"p90_ms"`
	P95Ms   float64 `json:"p95_ms"`
	P99Ms   float64 `json:"p99_ms"`
}

// ChainEntry is one node's final position in the report.
type ChainEntry struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Z     float64 `json:"z"`
}

// RunResult is the end-of-run report written by --results.
type RunResult struct {
	Config      Config                   `json:"config"`
	EndSeconds  float64                  `json:"end_s"`
	TxPackets   uint64                   `json:"tx_packets"`
	RxPackets   uint64                   `json:"rx_packets"`
	LossPct     float64                  `json:"loss_pct"`
	RTT         RTTStats                 `json:"rtt"`
	Deployments []trace.DeploymentRecord `json:"deployments"`
	FinalChain  []ChainEntry             `json:"final_chain"`
}

// BuildResult assembles the report from a finished experiment.
func (e *Experiment) BuildResult(cfg Config) (RunResult, error) {
	chain, err := e.Controller.Chain()
	if err != nil {
		return RunResult{}, err
	}
	entries := make([]ChainEntry, 0, chain.Len())
	for _, n := range chain.Nodes() {
		entries = append(entries, ChainEntry{Label: n.Label, X: n.Pos.X, Z: n.Pos.Z})
	}
	return RunResult{
		Config:      cfg,
		EndSeconds:  ToSeconds(e.Sim.Now()),
		TxPackets:   e.Metrics.Total.TxPackets,
		RxPackets:   e.Metrics.Total.RxPackets,
		LossPct:     e.Metrics.Total.LossPct(),
		RTT:         summariseRTT(e.Metrics.RTTSamplesMs()),
		Deployments: e.Trace.Deployments,
		FinalChain:  entries,
	}, nil
}

// summariseRTT computes the mean and the usual tail quantiles. Quantile
// requires sorted input, so the samples are copied first.
func summariseRTT(samplesMs []float64) RTTStats {
	if len(samplesMs) == 0 {
		return RTTStats{}
	}
	sorted := append([]float64(nil), samplesMs...)
	sort.Float64s(sorted)
	return RTTStats{
		Samples: len(sorted),
		MeanMs:  stat.Mean(sorted, nil),
		P50Ms:   stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90Ms:   stat.Quantile(0.90, stat.Empirical, sorted, nil),
		P95Ms:   stat.Quantile(0.95, stat.Empirical, sorted, nil),
		P99Ms:   stat.Quantile(0.99, stat.Empirical, sorted, nil),
	}
}

// SaveJSON writes v to path as indented JSON.
func SaveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("results: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("results: write %s: %w", path, err)
	}
	return nil
}
