package sim

import (
	"testing"
)

// TestEventHeap_TimestampOrdering verifies that events pop in timestamp order
// regardless of insertion order.
func TestEventHeap_TimestampOrdering(t *testing.T) {
	h := NewEventHeap()
	h.Schedule(NewBalanceTickEvent(Seconds(3.0), nil))
	h.Schedule(NewBalanceTickEvent(Seconds(1.0), nil))
	h.Schedule(NewBalanceTickEvent(Seconds(2.0), nil))

	want := []int64{Seconds(1.0), Seconds(2.0), Seconds(3.0)}
	for i, ts := range want {
		ev := h.PopNext()
		if ev == nil {
			t.Fatalf("pop %d: heap empty", i)
		}
		if ev.Timestamp() != ts {
			t.Errorf("pop %d: got timestamp %d, want %d", i, ev.Timestamp(), ts)
		}
	}
	if h.Len() != 0 {
		t.Errorf("expected empty heap, %d events remain", h.Len())
	}
}

// TestEventHeap_TypePriority_SameTimestamp verifies the same-timestamp tie
// break: traffic events before the balance tick, balance tick before the
// monitor tick.
func TestEventHeap_TypePriority_SameTimestamp(t *testing.T) {
	ts := Seconds(2.0)
	h := NewEventHeap()
	// Insert in reverse priority order.
	h.Schedule(NewMonitorTickEvent(ts, nil))
	h.Schedule(NewBalanceTickEvent(ts, nil))
	h.Schedule(NewClientRxEvent(ts, nil, 7))
	h.Schedule(NewServerRxEvent(ts, nil, 7))
	h.Schedule(NewEchoSendEvent(ts, nil))

	want := []EventType{
		EventTypeEchoSend,
		EventTypeServerRx,
		EventTypeClientRx,
		EventTypeBalanceTick,
		EventTypeMonitorTick,
	}
	for i, typ := range want {
		ev := h.PopNext()
		if ev.Type() != typ {
			t.Errorf("pop %d: got %s, want %s", i, ev.Type(), typ)
		}
	}
}

// TestEventHeap_EventIDTieBreak verifies that two events of the same type and
// timestamp pop in creation order.
func TestEventHeap_EventIDTieBreak(t *testing.T) {
	ts := Seconds(1.0)
	first := NewEchoSendEvent(ts, nil)
	second := NewEchoSendEvent(ts, nil)

	h := NewEventHeap()
	h.Schedule(second)
	h.Schedule(first)

	if got := h.PopNext(); got.EventID() != first.EventID() {
		t.Errorf("expected event %d first, got %d", first.EventID(), got.EventID())
	}
	if got := h.PopNext(); got.EventID() != second.EventID() {
		t.Errorf("expected event %d second, got %d", second.EventID(), got.EventID())
	}
}

// TestEventHeap_PeekDoesNotRemove verifies Peek leaves the heap intact.
func TestEventHeap_PeekDoesNotRemove(t *testing.T) {
	h := NewEventHeap()
	if h.Peek() != nil {
		t.Error("expected nil peek on empty heap")
	}
	ev := NewBalanceTickEvent(Seconds(1.0), nil)
	h.Schedule(ev)

	if got := h.Peek(); got != Event(ev) {
		t.Errorf("peek returned wrong event")
	}
	if h.Len() != 1 {
		t.Errorf("peek removed the event, len=%d", h.Len())
	}
}
