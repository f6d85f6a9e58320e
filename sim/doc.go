// Package sim provides the discrete-event simulation core for the adaptive
// drone-relay experiments: a mobile ground user keeps UDP echo connectivity to
// a fixed access point while airborne relays are staged, deployed, and
// self-balanced along the user→AP axis.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - event.go: event types that drive the simulation (echo traffic, balance and monitor ticks)
//   - simulator.go: the event loop and the Clock contract
//   - controller.go: the closed loop that stages, deploys, and balances relays
//
// # Architecture
//
// The kernel is a deterministic event heap (event_heap.go). All state mutation
// happens inside Event.Execute on the single simulation goroutine, so no
// synchronisation is needed. The controller talks to its environment only
// through small interfaces:
//   - Clock: current time and one-shot event scheduling (implemented by Simulator)
//   - MobilityOracle: node positions and velocities (implemented by World)
//   - TrafficObserver: Tx/Rx/echo-completion callbacks (implemented by MetricAggregator)
//   - LogSink: line-oriented telemetry output (any io.Writer)
//
// The policies are pure where practical: chain.go is a read-only projection of
// the node set, deploy.go evaluates the trigger predicate without side effects,
// and balance.go plans moves that the controller applies through the oracle.
package sim
