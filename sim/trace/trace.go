// Package trace records the controller's deployment and movement decisions
// for post-run analysis of an experiment.
package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures every deployment and movement decision.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SimulationTrace collects decision records during a run.
type SimulationTrace struct {
	Config      TraceConfig
	Deployments []DeploymentRecord
	Moves       []MoveRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:      config,
		Deployments: make([]DeploymentRecord, 0),
		Moves:       make([]MoveRecord, 0),
	}
}

// Enabled reports whether decision records are being kept.
func (st *SimulationTrace) Enabled() bool {
	return st != nil && st.Config.Level == TraceLevelDecisions
}

// RecordDeployment appends a deployment decision record.
func (st *SimulationTrace) RecordDeployment(record DeploymentRecord) {
	if !st.Enabled() {
		return
	}
	st.Deployments = append(st.Deployments, record)
}

// RecordMove appends a movement decision record.
func (st *SimulationTrace) RecordMove(record MoveRecord) {
	if !st.Enabled() {
		return
	}
	st.Moves = append(st.Moves, record)
}
