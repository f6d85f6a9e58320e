package sim

// TrafficObserver receives the three trace callbacks of the echo traffic:
// client transmit, server receive (throughput), and client receive (RTT
// completion). Packet UIDs are stable from Tx to the matching Rx.
type TrafficObserver interface {
	OnTx(uid uint32, now int64)
	OnServerRx(uid uint32, now int64)
	OnClientRx(uid uint32, now int64)
}

// CounterSet is one set of traffic statistics. The aggregator keeps two: a
// cumulative set that is never reset, and a window set that is reset exactly
// when a deployment occurs.
type CounterSet struct {
	TxPackets  uint64
	RxPackets  uint64
	RTTSamples uint64
	AvgRTTMs   float64 // running arithmetic mean of the RTT samples in this set
}

// LossPct returns the loss rate in percent, or 0 before any transmission.
func (c *CounterSet) LossPct() float64 {
	if c.TxPackets == 0 {
		return 0
	}
	return 100.0 * (1.0 - float64(c.RxPackets)/float64(c.TxPackets))
}

// addRTT folds one RTT sample into the running mean:
// avg ← avg + (sample − avg)/n
func (c *CounterSet) addRTT(sampleMs float64) {
	c.RTTSamples++
	c.AvgRTTMs += (sampleMs - c.AvgRTTMs) / float64(c.RTTSamples)
}

// DefaultMaxPendingRTT bounds the uid → send-time map so packets that never
// return cannot grow it without limit over a long run.
const DefaultMaxPendingRTT = 4096

// MetricAggregator consolidates the traffic trace counters into one object.
// It is not safe for concurrent use; all callbacks run on the simulation
// goroutine.
type MetricAggregator struct {
	Total  CounterSet
	Window CounterSet

	pending      map[uint32]int64 // packet UID → send time in ticks
	pendingOrder []uint32         // insertion order, for bounded-horizon eviction
	maxPending   int

	rttSamplesMs []float64 // every cumulative RTT sample, for the results report
}

// NewMetricAggregator creates an aggregator with the default pending-RTT cap.
func NewMetricAggregator() *MetricAggregator {
	return &MetricAggregator{
		pending:    make(map[uint32]int64),
		maxPending: DefaultMaxPendingRTT,
	}
}

// OnTx records a client transmission and remembers the send time for RTT
// attribution.
func (m *MetricAggregator) OnTx(uid uint32, now int64) {
	m.Total.TxPackets++
	m.Window.TxPackets++
	if _, exists := m.pending[uid]; !exists {
		m.pendingOrder = append(m.pendingOrder, uid)
	}
	m.pending[uid] = now
	m.evictStale()
}

// OnServerRx records a packet reaching the echo server.
func (m *MetricAggregator) OnServerRx(uid uint32, now int64) {
	m.Total.RxPackets++
	m.Window.RxPackets++
}

// OnClientRx completes the echo for uid, contributing one RTT sample to both
// counter sets. Unknown UIDs are ignored; each Tx contributes at most one
// sample.
func (m *MetricAggregator) OnClientRx(uid uint32, now int64) {
	sentAt, ok := m.pending[uid]
	if !ok {
		return
	}
	rttMs := Millis(now - sentAt)
	m.Total.addRTT(rttMs)
	m.Window.addRTT(rttMs)
	m.rttSamplesMs = append(m.rttSamplesMs, rttMs)
	delete(m.pending, uid)
}

// ResetWindow zeroes the window counter set only. The cumulative set and the
// pending map are untouched.
func (m *MetricAggregator) ResetWindow() {
	m.Window = CounterSet{}
}

// PendingRTTs returns the number of sent packets still awaiting an echo.
func (m *MetricAggregator) PendingRTTs() int {
	return len(m.pending)
}

// RTTSamplesMs returns every cumulative RTT sample in arrival order.
func (m *MetricAggregator) RTTSamplesMs() []float64 {
	return m.rttSamplesMs
}

// evictStale drops the oldest still-pending entries once the map exceeds its
// cap. Entries already completed by OnClientRx are skipped as the order queue
// is drained.
func (m *MetricAggregator) evictStale() {
	for len(m.pending) > m.maxPending && len(m.pendingOrder) > 0 {
		uid := m.pendingOrder[0]
		m.pendingOrder = m.pendingOrder[1:]
		delete(m.pending, uid)
	}
	// Compact the order queue when completions have left it mostly dead weight.
	if len(m.pendingOrder) > 2*m.maxPending {
		live := m.pendingOrder[:0]
		for _, uid := range m.pendingOrder {
			if _, ok := m.pending[uid]; ok {
				live = append(live, uid)
			}
		}
		m.pendingOrder = live
	}
}
