package sim

import (
	"github.com/sirupsen/logrus"
)

// Simulation time is measured in integer ticks at nanosecond resolution.
const TicksPerSecond int64 = 1_000_000_000

// Seconds converts a duration in seconds to ticks.
func Seconds(s float64) int64 {
	return int64(s * float64(TicksPerSecond))
}

// ToSeconds converts ticks to seconds.
func ToSeconds(t int64) float64 {
	return float64(t) / float64(TicksPerSecond)
}

// Millis converts ticks to milliseconds.
func Millis(t int64) float64 {
	return float64(t) / 1e6
}

// Clock is the scheduling surface the controller and the traffic collaborator
// see. One-shot semantics: a recurring tick reschedules itself at the end of
// its own handler.
type Clock interface {
	// Now returns the current simulation time in ticks.
	Now() int64
	// Schedule enqueues an event; ev.Timestamp() must be >= Now().
	Schedule(ev Event)
}

// Simulator owns simulation time and the event loop. It implements Clock.
type Simulator struct {
	clock   int64
	horizon int64
	events  *EventHeap
	stopped bool
}

// NewSimulator creates a simulator that runs until horizon ticks.
func NewSimulator(horizon int64) *Simulator {
	return &Simulator{
		clock:   0,
		horizon: horizon,
		events:  NewEventHeap(),
	}
}

// Now returns the current simulation time in ticks.
func (s *Simulator) Now() int64 {
	return s.clock
}

// Horizon returns the configured end of the run in ticks.
func (s *Simulator) Horizon() int64 {
	return s.horizon
}

// Schedule enqueues an event for execution.
func (s *Simulator) Schedule(ev Event) {
	s.events.Schedule(ev)
}

// Pending returns the number of queued events.
func (s *Simulator) Pending() int {
	return s.events.Len()
}

// Stop ends the run after the event currently executing completes.
func (s *Simulator) Stop() {
	s.stopped = true
}

// Run drains the event heap serially until it is empty, the horizon is
// reached, or Stop is called. Events sharing a timestamp execute in the
// deterministic heap order, never interleaved.
func (s *Simulator) Run() {
	for s.events.Len() > 0 && !s.stopped {
		next := s.events.Peek()
		if next.Timestamp() > s.horizon {
			break
		}
		ev := s.events.PopNext()
		// advance the clock
		s.clock = ev.Timestamp()
		logrus.Debugf("[t=%.2fs] executing %s", ToSeconds(s.clock), ev.Type())
		ev.Execute(s)
	}
	logrus.Debugf("[t=%.2fs] simulation ended", ToSeconds(s.clock))
}
