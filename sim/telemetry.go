package sim

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// Telemetry renders the per-tick textual record of an experiment: the chain
// with per-hop distances and RSSI, window and cumulative counters, and a 1-D
// ASCII strip of node positions. It only reads the other components' state.
type Telemetry struct {
	sink      io.Writer
	asciiStep float64 // metres per ASCII column
}

// NewTelemetry creates a telemetry writer binning the ASCII strip into
// asciiStep-metre cells.
func NewTelemetry(sink io.Writer, asciiStep float64) *Telemetry {
	return &Telemetry{sink: sink, asciiStep: asciiStep}
}

// Eventf writes a single tagged event line ([Init], [Deploy], [Move]).
func (t *Telemetry) Eventf(format string, args ...any) {
	fmt.Fprintf(t.sink, format+"\n", args...)
}

// Snapshot writes the monitor-tick record for the current chain.
func (t *Telemetry) Snapshot(now int64, userX float64, chain Chain, est *LinkEstimator, m *MetricAggregator) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%.2fs: UserX=%.2f m |", ToSeconds(now), userX)
	for _, h := range chain.Hops() {
		fmt.Fprintf(&sb, " %s-%s=%.2fm (%.1fdBm)", h.Left.Label, h.Right.Label, h.Distance, est.MeanRSSI(h.Distance))
	}
	fmt.Fprintf(&sb, " | win Tx=%d Rx=%d loss=%.1f%% rtt=%.1fms",
		m.Window.TxPackets, m.Window.RxPackets, m.Window.LossPct(), m.Window.AvgRTTMs)
	fmt.Fprintf(&sb, " | tot Tx=%d Rx=%d loss=%.1f%% rtt=%.1fms",
		m.Total.TxPackets, m.Total.RxPackets, m.Total.LossPct(), m.Total.AvgRTTMs)
	fmt.Fprintln(t.sink, sb.String())
	t.asciiMap(chain)
}

// asciiMap bins the chain nodes' x-coordinates into fixed-pitch cells. When
// two nodes share a cell the rightmost one wins the label.
func (t *Telemetry) asciiMap(chain Chain) {
	nodes := chain.Nodes()
	if len(nodes) == 0 {
		return
	}
	minX, maxX := nodes[0].Pos.X, nodes[0].Pos.X
	for _, n := range nodes[1:] {
		minX = math.Min(minX, n.Pos.X)
		maxX = math.Max(maxX, n.Pos.X)
	}
	if maxX-minX < t.asciiStep {
		maxX = minX + t.asciiStep
	}
	cols := int(math.Ceil((maxX - minX) / t.asciiStep))
	if cols < 10 {
		cols = 10
	}

	row := make([]string, cols)
	for i := range row {
		row[i] = "-"
	}
	// Chain nodes are already in x order, so a later node wins shared cells.
	for _, n := range nodes {
		idx := int(math.Floor((n.Pos.X - minX) / t.asciiStep))
		if idx >= cols {
			idx = cols - 1
		}
		if idx < 0 {
			idx = 0
		}
		row[idx] = n.Label
	}

	var line strings.Builder
	for _, cell := range row {
		fmt.Fprintf(&line, "%4s", cell)
	}
	fmt.Fprintf(t.sink, "[ASCII] %s\n", line.String())

	var ruler strings.Builder
	for c := 0; c < cols; c++ {
		x := minX + (float64(c)+0.5)*t.asciiStep
		s := fmt.Sprintf("%.0f", x)
		if len(s) > 4 {
			s = s[:4]
		}
		fmt.Fprintf(&ruler, "%4s", s)
	}
	fmt.Fprintf(t.sink, "[POS]   %s\n\n", ruler.String())
}
