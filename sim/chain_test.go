package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chainFixture builds a user/relays/AP topology with explicit x positions.
// Relays are deployed unless their position is NaN, which leaves them staged.
func chainFixture(t *testing.T, userX, apX float64, relayX ...float64) (Chain, *Fleet, []*Relay) {
	t.Helper()
	clock := &manualClock{}
	w := NewWorld(clock)
	fleet := NewFleet()

	user := fleet.Add(KindUser, "U")
	w.Register(user, Vector{X: userX})

	relays := make([]*Relay, 0, len(relayX))
	for i, x := range relayX {
		id := fleet.Add(KindRelay, labelFor(i))
		r := &Relay{Node: id, Index: i, State: RelayDeployed}
		if math.IsNaN(x) {
			r.State = RelayStaged
			x = 0
		}
		w.Register(id, Vector{X: x, Z: 10})
		relays = append(relays, r)
	}

	ap := fleet.Add(KindAP, "A")
	w.Register(ap, Vector{X: apX})

	chain, err := BuildChain(w, fleet, user, relays, ap)
	require.NoError(t, err)
	return chain, fleet, relays
}

func labelFor(i int) string {
	return "D" + string(rune('1'+i))
}

func TestBuildChain_SortsByX(t *testing.T) {
	chain, _, _ := chainFixture(t, 0, 60, 40, 20)

	labels := make([]string, 0, chain.Len())
	for _, n := range chain.Nodes() {
		labels = append(labels, n.Label)
	}
	assert.Equal(t, []string{"U", "D2", "D1", "A"}, labels)
}

func TestBuildChain_ExcludesStagedRelays(t *testing.T) {
	staged := math.NaN()
	chain, _, _ := chainFixture(t, 0, 60, 30, staged)

	assert.Equal(t, 3, chain.Len())
	for _, n := range chain.Nodes() {
		assert.NotEqual(t, "D2", n.Label)
	}
}

func TestChain_HopsAreEuclidean(t *testing.T) {
	// Relay at height 10 over x=30: both hops are sqrt(30^2 + 10^2).
	chain, _, _ := chainFixture(t, 0, 60, 30)

	hops := chain.Hops()
	require.Len(t, hops, 2)
	want := math.Sqrt(30*30 + 10*10)
	assert.InDelta(t, want, hops[0].Distance, 1e-9)
	assert.InDelta(t, want, hops[1].Distance, 1e-9)
	assert.InDelta(t, want, chain.MaxHopDistance(), 1e-9)
}

func TestChain_DegenerateCases(t *testing.T) {
	var empty Chain
	assert.Nil(t, empty.Hops())
	assert.Equal(t, 0.0, empty.MaxHopDistance())
	assert.Equal(t, 0.0, empty.WorstHopRSSI(NewLinkEstimatorParams(20, 2.5, 1, 0, 1)))
}

func TestChain_WorstHopRSSI(t *testing.T) {
	est := NewLinkEstimatorParams(20.0, 2.5, 1.0, 0, 1)
	chain, _, _ := chainFixture(t, 0, 100, 20)

	// The longer hop (relay to AP) has the weaker signal.
	hops := chain.Hops()
	require.Len(t, hops, 2)
	worst := est.RSSI(hops[1].Distance)
	assert.InDelta(t, worst, chain.WorstHopRSSI(est), 1e-9)
	assert.Less(t, chain.WorstHopRSSI(est), est.RSSI(hops[0].Distance))
}

func TestChain_LargestGap(t *testing.T) {
	chain, _, _ := chainFixture(t, 0, 100, 20)

	left, right := chain.LargestGap()
	assert.Equal(t, 20.0, left)
	assert.Equal(t, 100.0, right)
	assert.Equal(t, 60.0, DeployTarget(chain))
}

func TestChain_NeighborsEndpointsExcluded(t *testing.T) {
	chain, _, relays := chainFixture(t, 0, 60, 30)

	left, right, ok := chain.neighbors(relays[0].Node)
	require.True(t, ok)
	assert.Equal(t, "U", left.Label)
	assert.Equal(t, "A", right.Label)

	// The user is an endpoint, not an interior member.
	_, _, ok = chain.neighbors(chain.Nodes()[0].ID)
	assert.False(t, ok)

	_, _, ok = chain.neighbors(NodeID(999))
	assert.False(t, ok)
}
