package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gavincwyant/multi-hop-drone-forwarding/sim"
)

// Scenario is one named preset in scenarios.yaml. Pointer fields distinguish
// "not set" from an explicit zero, so presets only override what they name.
type Scenario struct {
	Description      string   `yaml:"description"`
	NumDrones        *int     `yaml:"num_drones"`
	DroneInitMode    *string  `yaml:"drone_init_mode"`
	TotalDistance    *float64 `yaml:"total_distance"`
	UserSpeed        *float64 `yaml:"user_speed"`
	DroneHeight      *float64 `yaml:"drone_height"`
	MoveSpeed        *float64 `yaml:"move_speed"`
	BalanceInterval  *float64 `yaml:"balance_interval"`
	MonitorInterval  *float64 `yaml:"monitor_interval"`
	LossThresholdPct *float64 `yaml:"loss_threshold_pct"`
	RTTThresholdMs   *float64 `yaml:"rtt_threshold_ms"`
	RSSIThresholdDBm *float64 `yaml:"rssi_threshold_dbm"`
	MaxHopMetres     *float64 `yaml:"max_hop_m"`
	HopDiffMetres    *float64 `yaml:"hop_diff_m"`
	MinSeparation    *float64 `yaml:"min_separation_m"`
	Clamp            *bool    `yaml:"clamp"`
	DurationSeconds  *float64 `yaml:"duration_s"`
	Seed             *int64   `yaml:"seed"`
}

// ScenarioFile represents the full scenarios.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type ScenarioFile struct {
	Version   string              `yaml:"version"`
	Scenarios map[string]Scenario `yaml:"scenarios"`
}

// LoadScenario parses the presets file with strict field checking and returns
// the named preset. Typos in field names cause errors rather than silent skips.
func LoadScenario(path, name string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenarios file: %w", err)
	}
	var file ScenarioFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return Scenario{}, fmt.Errorf("parse scenarios YAML: %w", err)
	}
	preset, ok := file.Scenarios[name]
	if !ok {
		return Scenario{}, fmt.Errorf("scenario %q not found in %s", name, path)
	}
	return preset, nil
}

// Apply overlays the preset's set fields onto the configuration.
func (s Scenario) Apply(cfg *sim.Config) {
	if s.NumDrones != nil {
		cfg.NumRelays = *s.NumDrones
	}
	if s.DroneInitMode != nil {
		cfg.InitMode = sim.InitMode(*s.DroneInitMode)
	}
	if s.TotalDistance != nil {
		cfg.TotalDistance = *s.TotalDistance
	}
	if s.UserSpeed != nil {
		cfg.UserSpeed = *s.UserSpeed
	}
	if s.DroneHeight != nil {
		cfg.RelayHeight = *s.DroneHeight
	}
	if s.MoveSpeed != nil {
		cfg.RelayMoveSpeed = *s.MoveSpeed
	}
	if s.BalanceInterval != nil {
		cfg.BalanceInterval = *s.BalanceInterval
	}
	if s.MonitorInterval != nil {
		cfg.MonitorInterval = *s.MonitorInterval
	}
	if s.LossThresholdPct != nil {
		cfg.LossThresholdPct = *s.LossThresholdPct
	}
	if s.RTTThresholdMs != nil {
		cfg.RTTThresholdMs = *s.RTTThresholdMs
	}
	if s.RSSIThresholdDBm != nil {
		cfg.RSSIThresholdDBm = *s.RSSIThresholdDBm
	}
	if s.MaxHopMetres != nil {
		cfg.MaxHopMetres = *s.MaxHopMetres
	}
	if s.HopDiffMetres != nil {
		cfg.HopDiffMetres = *s.HopDiffMetres
	}
	if s.MinSeparation != nil {
		cfg.MinSeparation = *s.MinSeparation
	}
	if s.Clamp != nil {
		cfg.ClampToEndpoints = *s.Clamp
	}
	if s.DurationSeconds != nil {
		cfg.DurationSeconds = *s.DurationSeconds
	}
	if s.Seed != nil {
		cfg.Seed = *s.Seed
	}
}
