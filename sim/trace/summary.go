package trace

import "math"

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDeployments int
	TotalMoves       int
	MeanStepM        float64
	MaxStepM         float64
	MovesPerRelay    map[string]int // relay label → count of balance moves
	ReasonCounts     map[string]int // trigger predicate → times it fired
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		MovesPerRelay: make(map[string]int),
		ReasonCounts:  make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalDeployments = len(st.Deployments)
	for _, d := range st.Deployments {
		for _, reason := range d.Reasons {
			summary.ReasonCounts[reason]++
		}
	}

	if len(st.Moves) > 0 {
		totalStep := 0.0
		for _, m := range st.Moves {
			step := math.Abs(m.ToX - m.FromX)
			summary.MovesPerRelay[m.Relay]++
			totalStep += step
			if step > summary.MaxStepM {
				summary.MaxStepM = step
			}
		}
		summary.TotalMoves = len(st.Moves)
		summary.MeanStepM = totalStep / float64(len(st.Moves))
	}

	return summary
}
