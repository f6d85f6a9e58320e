package sim

import "sync/atomic"

// Global event ID counter for deterministic tie-breaking
var globalEventID uint64

// Event is a scheduled simulation action. Each event carries a timestamp (in
// ticks), a type, and a creation-ordered ID; Execute advances simulation state
// when the event loop reaches it.
type Event interface {
	Timestamp() int64
	EventID() uint64
	Type() EventType
	Execute(sim *Simulator)
}

// EventType identifies an event category for priority ordering.
type EventType string

const (
	EventTypeEchoSend    EventType = "EchoSend"
	EventTypeServerRx    EventType = "ServerRx"
	EventTypeClientRx    EventType = "ClientRx"
	EventTypeBalanceTick EventType = "BalanceTick"
	EventTypeMonitorTick EventType = "MonitorTick"
)

// EventTypePriority orders events that share a timestamp. Traffic callbacks run
// before the scheduled ticks so the metrics a tick reads are current, and the
// balance tick runs before the monitor tick so the topology is stabilised
// before a deployment decision is taken.
var EventTypePriority = map[EventType]int{
	EventTypeEchoSend:    1,
	EventTypeServerRx:    2,
	EventTypeClientRx:    3,
	EventTypeBalanceTick: 4,
	EventTypeMonitorTick: 5,
}

// BaseEvent provides common event fields
type BaseEvent struct {
	timestamp int64
	eventID   uint64
	eventType EventType
}

func newBaseEvent(timestamp int64, eventType EventType) BaseEvent {
	return BaseEvent{
		timestamp: timestamp,
		eventID:   atomic.AddUint64(&globalEventID, 1),
		eventType: eventType,
	}
}

func (e *BaseEvent) Timestamp() int64 {
	return e.timestamp
}

func (e *BaseEvent) EventID() uint64 {
	return e.eventID
}

func (e *BaseEvent) Type() EventType {
	return e.eventType
}

// EchoSendEvent fires one echo request from the user toward the AP.
type EchoSendEvent struct {
	BaseEvent
	Traffic *EchoTraffic
}

// NewEchoSendEvent schedules a client send at timestamp.
func NewEchoSendEvent(timestamp int64, traffic *EchoTraffic) *EchoSendEvent {
	return &EchoSendEvent{
		BaseEvent: newBaseEvent(timestamp, EventTypeEchoSend),
		Traffic:   traffic,
	}
}

func (e *EchoSendEvent) Execute(sim *Simulator) {
	e.Traffic.handleSend(sim, e.timestamp)
}

// ServerRxEvent marks a packet's arrival at the AP-side echo server.
type ServerRxEvent struct {
	BaseEvent
	Traffic *EchoTraffic
	UID     uint32
}

// NewServerRxEvent schedules a server-side receive for packet UID.
func NewServerRxEvent(timestamp int64, traffic *EchoTraffic, uid uint32) *ServerRxEvent {
	return &ServerRxEvent{
		BaseEvent: newBaseEvent(timestamp, EventTypeServerRx),
		Traffic:   traffic,
		UID:       uid,
	}
}

func (e *ServerRxEvent) Execute(sim *Simulator) {
	e.Traffic.handleServerRx(e.timestamp, e.UID)
}

// ClientRxEvent marks the echo reply's arrival back at the user, completing
// one RTT sample.
type ClientRxEvent struct {
	BaseEvent
	Traffic *EchoTraffic
	UID     uint32
}

// NewClientRxEvent schedules the echo completion for packet UID.
func NewClientRxEvent(timestamp int64, traffic *EchoTraffic, uid uint32) *ClientRxEvent {
	return &ClientRxEvent{
		BaseEvent: newBaseEvent(timestamp, EventTypeClientRx),
		Traffic:   traffic,
		UID:       uid,
	}
}

func (e *ClientRxEvent) Execute(sim *Simulator) {
	e.Traffic.handleClientRx(e.timestamp, e.UID)
}

// BalanceTickEvent drives one pass of the balancing policy.
type BalanceTickEvent struct {
	BaseEvent
	Controller *Controller
}

// NewBalanceTickEvent schedules a balance tick at timestamp.
func NewBalanceTickEvent(timestamp int64, c *Controller) *BalanceTickEvent {
	return &BalanceTickEvent{
		BaseEvent:  newBaseEvent(timestamp, EventTypeBalanceTick),
		Controller: c,
	}
}

func (e *BalanceTickEvent) Execute(sim *Simulator) {
	e.Controller.onBalanceTick(e.timestamp)
}

// MonitorTickEvent drives telemetry and then the deployment policy.
type MonitorTickEvent struct {
	BaseEvent
	Controller *Controller
}

// NewMonitorTickEvent schedules a monitor tick at timestamp.
func NewMonitorTickEvent(timestamp int64, c *Controller) *MonitorTickEvent {
	return &MonitorTickEvent{
		BaseEvent:  newBaseEvent(timestamp, EventTypeMonitorTick),
		Controller: c,
	}
}

func (e *MonitorTickEvent) Execute(sim *Simulator) {
	e.Controller.onMonitorTick(e.timestamp)
}
