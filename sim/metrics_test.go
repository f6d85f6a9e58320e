package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Ten probes sent, eight echoed: the aggregator must report exactly eight RTT
// samples and the correct mean.
func TestMetricAggregator_RTTAttribution(t *testing.T) {
	m := NewMetricAggregator()

	for uid := uint32(1); uid <= 10; uid++ {
		m.OnTx(uid, Seconds(float64(uid)))
	}
	// Echo back uids 1..8 with a 4 ms round trip each.
	for uid := uint32(1); uid <= 8; uid++ {
		m.OnServerRx(uid, Seconds(float64(uid))+Seconds(0.002))
		m.OnClientRx(uid, Seconds(float64(uid))+Seconds(0.004))
	}

	assert.Equal(t, uint64(10), m.Total.TxPackets)
	assert.Equal(t, uint64(8), m.Total.RxPackets)
	assert.Equal(t, uint64(8), m.Total.RTTSamples)
	assert.InDelta(t, 4.0, m.Total.AvgRTTMs, 1e-9)
	assert.InDelta(t, 20.0, m.Total.LossPct(), 1e-9)
	assert.Equal(t, 2, m.PendingRTTs(), "unanswered probes stay pending")
	assert.Len(t, m.RTTSamplesMs(), 8)
}

func TestMetricAggregator_UnknownUIDIgnored(t *testing.T) {
	m := NewMetricAggregator()
	m.OnClientRx(99, Seconds(1.0))
	assert.Equal(t, uint64(0), m.Total.RTTSamples)
}

// A duplicate echo completion must not contribute a second RTT sample.
func TestMetricAggregator_OneSamplePerTx(t *testing.T) {
	m := NewMetricAggregator()
	m.OnTx(1, 0)
	m.OnClientRx(1, Seconds(0.004))
	m.OnClientRx(1, Seconds(0.008))

	assert.Equal(t, uint64(1), m.Total.RTTSamples)
	assert.InDelta(t, 4.0, m.Total.AvgRTTMs, 1e-9)
}

// ResetWindow zeroes only the window set; totals and pending survive.
func TestMetricAggregator_WindowReset(t *testing.T) {
	m := NewMetricAggregator()
	m.OnTx(1, 0)
	m.OnServerRx(1, Seconds(0.002))
	m.OnClientRx(1, Seconds(0.004))
	m.OnTx(2, Seconds(0.5))

	m.ResetWindow()

	assert.Equal(t, CounterSet{}, m.Window)
	assert.Equal(t, uint64(2), m.Total.TxPackets)
	assert.Equal(t, uint64(1), m.Total.RTTSamples)
	assert.Equal(t, 1, m.PendingRTTs())

	// A probe sent before the reset can still complete its RTT afterwards.
	m.OnClientRx(2, Seconds(0.504))
	assert.Equal(t, uint64(2), m.Total.RTTSamples)
	assert.Equal(t, uint64(1), m.Window.RTTSamples)
}

func TestMetricAggregator_LossPctBeforeAnyTraffic(t *testing.T) {
	m := NewMetricAggregator()
	assert.Equal(t, 0.0, m.Total.LossPct())
	assert.Equal(t, 0.0, m.Window.LossPct())
}

// The pending map must stay bounded when probes never return.
func TestMetricAggregator_PendingEviction(t *testing.T) {
	m := NewMetricAggregator()
	m.maxPending = 8

	for uid := uint32(1); uid <= 20; uid++ {
		m.OnTx(uid, Seconds(float64(uid)))
	}
	assert.LessOrEqual(t, m.PendingRTTs(), 8)

	// The oldest entries were evicted; a late echo for uid 1 is ignored.
	m.OnClientRx(1, Seconds(30.0))
	assert.Equal(t, uint64(0), m.Total.RTTSamples)

	// The newest entry is still attributable.
	m.OnClientRx(20, Seconds(20.004))
	assert.Equal(t, uint64(1), m.Total.RTTSamples)
}

func TestCounterSet_RunningMean(t *testing.T) {
	var c CounterSet
	c.addRTT(2.0)
	c.addRTT(4.0)
	c.addRTT(6.0)
	assert.Equal(t, uint64(3), c.RTTSamples)
	assert.InDelta(t, 4.0, c.AvgRTTMs, 1e-9)
}
