package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gavincwyant/multi-hop-drone-forwarding/sim"
	"github.com/gavincwyant/multi-hop-drone-forwarding/sim/trace"
)

var (
	// Experiment topology flags
	numDrones     int     // number of relay drones (0 = direct user-AP link)
	droneInitMode string  // placement: even | cluster | deploy
	totalDistance float64 // metres between user start and AP
	userSpeed     float64 // user walking speed, m/s
	droneHeight   float64 // relay flight height, metres

	// Controller tuning flags
	moveSpeed       float64 // relay adjustment speed per balance tick, m/s
	balanceInterval float64 // seconds between balance ticks
	monitorInterval float64 // seconds between monitor ticks
	lossThreshold   float64 // deployment trigger: window loss %
	rttThreshold    float64 // deployment trigger: window average RTT, ms
	rssiThreshold   float64 // deployment trigger: worst-hop RSSI, dBm
	maxHopDistance  float64 // deployment trigger: largest hop, metres
	hopDiff         float64 // balancing deadband on |L-R|, metres
	minSeparation   float64 // minimum spacing between deployed relays, metres
	clampRelays     bool    // confine relays to the user-AP segment

	// Traffic flags
	trafficInterval float64 // seconds between echo probes
	trafficDropProb float64 // forced per-packet loss, for degradation runs

	// Run control flags
	seed        int64   // master seed for every random stream
	duration    float64 // simulation horizon, seconds
	logLevel    string  // logrus verbosity
	asciiStep   float64 // metres per ASCII map column
	scenario    string  // named preset from the scenarios file
	scenarios   string  // path to the scenario presets YAML
	traceLevel  string  // decision trace level (none | decisions)
	traceOutput string  // JSON path for the decision trace
	resultsPath string  // JSON path for the end-of-run report
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "drone-relay",
	Short: "Adaptive multi-hop drone relay experiments",
}

// runCmd executes one experiment using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one relay deployment experiment",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg := sim.DefaultConfig()
		if scenario != "" {
			preset, err := LoadScenario(scenarios, scenario)
			if err != nil {
				logrus.Fatalf("Failed to load scenario %q: %v", scenario, err)
			}
			preset.Apply(&cfg)
			logrus.Infof("Applied scenario preset %q", scenario)
		}
		applyFlags(cmd, &cfg)

		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s", traceLevel)
		}

		mode, err := sim.ParseInitMode(droneInitMode)
		if err != nil {
			logrus.Fatalf("Invalid init mode: %v", err)
		}
		if cmd.Flags().Changed("droneInitMode") || scenario == "" {
			cfg.InitMode = mode
		}

		traffic := sim.DefaultTrafficConfig(cfg.DurationSeconds)
		if cmd.Flags().Changed("trafficInterval") {
			traffic.IntervalSeconds = trafficInterval
		}
		if cmd.Flags().Changed("dropProb") {
			traffic.DropProb = trafficDropProb
		}

		logrus.Infof("Starting run: %d relays (%s), user %.1f m/s, AP at %.0f m, horizon %.0fs",
			cfg.NumRelays, cfg.InitMode, cfg.UserSpeed, cfg.TotalDistance, cfg.DurationSeconds)

		exp, err := sim.NewExperiment(cfg, traffic, os.Stdout, trace.TraceLevel(traceLevel))
		if err != nil {
			logrus.Fatalf("Failed to build experiment: %v", err)
		}
		exp.Run()

		if resultsPath != "" {
			result, err := exp.BuildResult(cfg)
			if err != nil {
				logrus.Fatalf("Failed to build results: %v", err)
			}
			if err := sim.SaveJSON(resultsPath, result); err != nil {
				logrus.Fatalf("Failed to save results: %v", err)
			}
			logrus.Infof("Results written to %s", resultsPath)
		}
		if traceOutput != "" && exp.Trace.Enabled() {
			summary := trace.Summarize(exp.Trace)
			out := struct {
				Trace   *trace.SimulationTrace `json:"trace"`
				Summary *trace.TraceSummary    `json:"summary"`
			}{exp.Trace, summary}
			if err := sim.SaveJSON(traceOutput, out); err != nil {
				logrus.Fatalf("Failed to save trace: %v", err)
			}
			logrus.Infof("Decision trace written to %s", traceOutput)
		}

		logrus.Info("Run complete.")
	},
}

// applyFlags copies every explicitly set flag over the (possibly preset)
// configuration, so flags always win over scenario values.
func applyFlags(cmd *cobra.Command, cfg *sim.Config) {
	set := func(name string, fn func()) {
		if cmd.Flags().Changed(name) || scenario == "" {
			fn()
		}
	}
	set("numDrones", func() { cfg.NumRelays = numDrones })
	set("totalDistance", func() { cfg.TotalDistance = totalDistance })
	set("userSpeed", func() { cfg.UserSpeed = userSpeed })
	set("droneHeight", func() { cfg.RelayHeight = droneHeight })
	set("moveSpeed", func() { cfg.RelayMoveSpeed = moveSpeed })
	set("balanceInterval", func() { cfg.BalanceInterval = balanceInterval })
	set("monitorInterval", func() { cfg.MonitorInterval = monitorInterval })
	set("lossThreshold", func() { cfg.LossThresholdPct = lossThreshold })
	set("rttThreshold", func() { cfg.RTTThresholdMs = rttThreshold })
	set("rssiThreshold", func() { cfg.RSSIThresholdDBm = rssiThreshold })
	set("maxHopDistance", func() { cfg.MaxHopMetres = maxHopDistance })
	set("hopDiff", func() { cfg.HopDiffMetres = hopDiff })
	set("minSeparation", func() { cfg.MinSeparation = minSeparation })
	set("clamp", func() { cfg.ClampToEndpoints = clampRelays })
	set("asciiStep", func() { cfg.AsciiStep = asciiStep })
	set("seed", func() { cfg.Seed = seed })
	set("duration", func() { cfg.DurationSeconds = duration })
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().IntVar(&numDrones, "numDrones", 2, "Number of drone relays (0 = none)")
	runCmd.Flags().StringVar(&droneInitMode, "droneInitMode", "deploy", "Placement: even | cluster | deploy")
	runCmd.Flags().Float64Var(&totalDistance, "totalDistance", 0, "Metres between user start and AP")
	runCmd.Flags().Float64Var(&userSpeed, "userSpeed", 2.5, "User movement speed (m/s)")
	runCmd.Flags().Float64Var(&droneHeight, "droneHeight", 10.0, "Relay flight height (m)")

	runCmd.Flags().Float64Var(&moveSpeed, "moveSpeed", 3.0, "Relay adjustment speed (m/s)")
	runCmd.Flags().Float64Var(&balanceInterval, "balanceInterval", 1.0, "Seconds between balance ticks")
	runCmd.Flags().Float64Var(&monitorInterval, "monitorInterval", 2.0, "Seconds between monitor ticks")
	runCmd.Flags().Float64Var(&lossThreshold, "lossThreshold", 30.0, "Deployment trigger: window loss (%)")
	runCmd.Flags().Float64Var(&rttThreshold, "rttThreshold", 150.0, "Deployment trigger: window avg RTT (ms)")
	runCmd.Flags().Float64Var(&rssiThreshold, "rssiThreshold", -75.0, "Deployment trigger: worst-hop RSSI (dBm)")
	runCmd.Flags().Float64Var(&maxHopDistance, "maxHopDistance", 40.0, "Deployment trigger: largest hop (m)")
	runCmd.Flags().Float64Var(&hopDiff, "hopDiff", 3.0, "Balancing deadband on |L-R| (m)")
	runCmd.Flags().Float64Var(&minSeparation, "minSeparation", 0.5, "Minimum spacing between deployed relays (m)")
	runCmd.Flags().BoolVar(&clampRelays, "clamp", false, "Confine relays to the user-AP segment")

	runCmd.Flags().Float64Var(&trafficInterval, "trafficInterval", 0.5, "Seconds between echo probes")
	runCmd.Flags().Float64Var(&trafficDropProb, "dropProb", 0, "Forced per-packet loss probability")

	runCmd.Flags().Int64Var(&seed, "seed", 42, "Master seed for all random streams")
	runCmd.Flags().Float64Var(&duration, "duration", 60.0, "Simulation horizon (seconds)")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().Float64Var(&asciiStep, "asciiStep", 10.0, "Metres per ASCII map column")
	runCmd.Flags().StringVar(&scenario, "scenario", "", "Named preset from the scenarios file")
	runCmd.Flags().StringVar(&scenarios, "scenariosFile", "scenarios.yaml", "Path to the scenario presets YAML")
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Decision trace level (none | decisions)")
	runCmd.Flags().StringVar(&traceOutput, "traceOutput", "", "Write the decision trace JSON here")
	runCmd.Flags().StringVar(&resultsPath, "results", "", "Write the end-of-run report JSON here")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
