package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gavincwyant/multi-hop-drone-forwarding/sim"
)

func writeScenarios(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write scenarios: %v", err)
	}
	return path
}

func TestLoadScenario_AppliesOnlySetFields(t *testing.T) {
	path := writeScenarios(t, `
version: "1.0"
scenarios:
  trial:
    description: "partial override"
    num_drones: 4
    total_distance: 80.0
    user_speed: 0.0
`)
	preset, err := LoadScenario(path, "trial")
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}

	cfg := sim.DefaultConfig()
	preset.Apply(&cfg)

	if cfg.NumRelays != 4 {
		t.Errorf("NumRelays = %d, want 4", cfg.NumRelays)
	}
	if cfg.TotalDistance != 80.0 {
		t.Errorf("TotalDistance = %g, want 80", cfg.TotalDistance)
	}
	if cfg.UserSpeed != 0.0 {
		t.Errorf("UserSpeed = %g, explicit zero must apply", cfg.UserSpeed)
	}
	// Fields the preset never names keep their defaults.
	if cfg.MonitorInterval != 2.0 {
		t.Errorf("MonitorInterval = %g, must stay at the default", cfg.MonitorInterval)
	}
	if cfg.Seed != 42 {
		t.Errorf("Seed = %d, must stay at the default", cfg.Seed)
	}
}

// Typos in field names must fail loudly, not silently skip.
func TestLoadScenario_StrictFieldChecking(t *testing.T) {
	path := writeScenarios(t, `
version: "1.0"
scenarios:
  broken:
    num_dronez: 4
`)
	if _, err := LoadScenario(path, "broken"); err == nil {
		t.Error("expected a strict-parsing error for the misspelled field")
	}
}

func TestLoadScenario_UnknownName(t *testing.T) {
	path := writeScenarios(t, `
version: "1.0"
scenarios:
  trial:
    num_drones: 1
`)
	if _, err := LoadScenario(path, "missing"); err == nil {
		t.Error("expected an error for an unknown scenario name")
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	if _, err := LoadScenario("/nonexistent/scenarios.yaml", "any"); err == nil {
		t.Error("expected an error for a missing file")
	}
}

// The presets shipped at the repo root must parse and apply cleanly.
func TestLoadScenario_ShippedPresets(t *testing.T) {
	path := "../scenarios.yaml"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("scenarios.yaml not found, skipping integration test")
	}
	for _, name := range []string{"baseline", "walkaway", "even-pair", "cluster-spread", "sustained-loss"} {
		preset, err := LoadScenario(path, name)
		if err != nil {
			t.Errorf("scenario %q: %v", name, err)
			continue
		}
		cfg := sim.DefaultConfig()
		preset.Apply(&cfg)
		if err := cfg.Validate(); err != nil {
			t.Errorf("scenario %q produces an invalid config: %v", name, err)
		}
	}
}
