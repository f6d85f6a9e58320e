package trace

// DeploymentRecord captures one staged → deployed transition and the evidence
// that triggered it.
type DeploymentRecord struct {
	TimeSeconds  float64  `json:"time_s"`
	Relay        string   `json:"relay"`
	FromX        float64  `json:"from_x"`
	ToX          float64  `json:"to_x"`
	Reasons      []string `json:"reasons"`
	LossPct      float64  `json:"loss_pct"`
	AvgRTTMs     float64  `json:"avg_rtt_ms"`
	WorstRSSIDBm float64  `json:"worst_rssi_dbm"`
	MaxHopM      float64  `json:"max_hop_m"`
}

// MoveRecord captures one balance-tick displacement of a deployed relay.
type MoveRecord struct {
	TimeSeconds float64 `json:"time_s"`
	Relay       string  `json:"relay"`
	FromX       float64 `json:"from_x"`
	ToX         float64 `json:"to_x"`
	LeftHopM    float64 `json:"left_hop_m"`
	RightHopM   float64 `json:"right_hop_m"`
}
