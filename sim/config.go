package sim

import "fmt"

// InitMode selects the initial placement of the relays.
type InitMode string

const (
	// InitEven spreads the relays evenly between user and AP, all deployed.
	InitEven InitMode = "even"
	// InitCluster packs the relays near the user in 1 m increments, all deployed.
	InitCluster InitMode = "cluster"
	// InitDeploy stages the relays near the AP; the controller deploys them on demand.
	InitDeploy InitMode = "deploy"
)

// ParseInitMode validates a placement-mode string.
func ParseInitMode(s string) (InitMode, error) {
	switch InitMode(s) {
	case InitEven, InitCluster, InitDeploy:
		return InitMode(s), nil
	}
	return "", fmt.Errorf("config: unknown init mode %q (want even, cluster, or deploy)", s)
}

// Config is the immutable configuration bundle for one experiment run. The
// controller owns it for the lifetime of the run.
type Config struct {
	NumRelays     int      // relay count, >= 0
	InitMode      InitMode // even | cluster | deploy
	TotalDistance float64  // metres between user start and AP
	UserSpeed     float64  // m/s, user walks +x
	RelayHeight   float64  // metres, z of every airborne relay

	RelayMoveSpeed  float64 // m/s applied per balance tick
	BalanceInterval float64 // seconds between balance ticks
	MonitorInterval float64 // seconds between monitor ticks

	// Deployment trigger thresholds.
	LossThresholdPct float64 // window loss percentage
	RTTThresholdMs   float64 // window average RTT
	RSSIThresholdDBm float64 // worst-hop RSSI floor
	MaxHopMetres     float64 // largest tolerated hop distance

	HopDiffMetres    float64 // balancing deadband on |L − R|
	MinSeparation    float64 // minimum x spacing between adjacent deployed relays
	ClampToEndpoints bool    // optionally confine relays to [user.x, ap.x]

	AsciiStep float64 // metres per ASCII map column

	Seed            int64   // master seed for every random stream
	DurationSeconds float64 // simulation horizon
}

// DefaultConfig returns the baseline experiment configuration, matching the
// walk-away scenario's tuning.
func DefaultConfig() Config {
	return Config{
		NumRelays:        2,
		InitMode:         InitDeploy,
		TotalDistance:    0,
		UserSpeed:        2.5,
		RelayHeight:      10.0,
		RelayMoveSpeed:   3.0,
		BalanceInterval:  1.0,
		MonitorInterval:  2.0,
		LossThresholdPct: 30.0,
		RTTThresholdMs:   150.0,
		RSSIThresholdDBm: -75.0,
		MaxHopMetres:     40.0,
		HopDiffMetres:    3.0,
		MinSeparation:    0.5,
		ClampToEndpoints: false,
		AsciiStep:        10.0,
		Seed:             42,
		DurationSeconds:  60.0,
	}
}

// Validate rejects configurations the controller cannot run with. Degenerate
// geometry (zero distance, zero speed) is allowed; nonsensical thresholds and
// intervals are not.
func (c *Config) Validate() error {
	if c.NumRelays < 0 {
		return fmt.Errorf("config: numRelays must be >= 0, got %d", c.NumRelays)
	}
	if _, err := ParseInitMode(string(c.InitMode)); err != nil {
		return err
	}
	if c.TotalDistance < 0 {
		return fmt.Errorf("config: totalDistance must be >= 0, got %g", c.TotalDistance)
	}
	if c.UserSpeed < 0 {
		return fmt.Errorf("config: userSpeed must be >= 0, got %g", c.UserSpeed)
	}
	if c.RelayMoveSpeed < 0 {
		return fmt.Errorf("config: relayMoveSpeed must be >= 0, got %g", c.RelayMoveSpeed)
	}
	if c.BalanceInterval <= 0 {
		return fmt.Errorf("config: balanceInterval must be > 0, got %g", c.BalanceInterval)
	}
	if c.MonitorInterval <= 0 {
		return fmt.Errorf("config: monitorInterval must be > 0, got %g", c.MonitorInterval)
	}
	if c.LossThresholdPct < 0 || c.LossThresholdPct > 100 {
		return fmt.Errorf("config: lossThreshold must be in [0,100], got %g", c.LossThresholdPct)
	}
	if c.RTTThresholdMs < 0 {
		return fmt.Errorf("config: rttThreshold must be >= 0, got %g", c.RTTThresholdMs)
	}
	if c.MaxHopMetres <= 0 {
		return fmt.Errorf("config: maxHopDistance must be > 0, got %g", c.MaxHopMetres)
	}
	if c.HopDiffMetres < 0 {
		return fmt.Errorf("config: hopDiff must be >= 0, got %g", c.HopDiffMetres)
	}
	if c.MinSeparation < 0 {
		return fmt.Errorf("config: minSeparation must be >= 0, got %g", c.MinSeparation)
	}
	if c.AsciiStep <= 0 {
		return fmt.Errorf("config: asciiStep must be > 0, got %g", c.AsciiStep)
	}
	if c.DurationSeconds <= 0 {
		return fmt.Errorf("config: duration must be > 0, got %g", c.DurationSeconds)
	}
	return nil
}
