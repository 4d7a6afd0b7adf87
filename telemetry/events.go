// Package telemetry is the router's observability boundary: a fixed event
// vocabulary consumed through a one-operation sink contract, and trace
// records persisted through a pluggable store.
package telemetry

import "time"

// EventName is one value from the fixed router event vocabulary.
type EventName string

const (
	EventCallStart      EventName = "call.start"
	EventPolicyDecision EventName = "policy.decision"
	EventAttemptStart   EventName = "attempt.start"
	EventAttemptSuccess EventName = "attempt.success"
	EventAttemptFailure EventName = "attempt.failure"
	EventCallSuccess    EventName = "call.success"
	EventCallFailure    EventName = "call.failure"
)

// Event is emitted at every significant routing step. Attempt-level events
// carry the attempt index; failure events carry the failure kind.
type Event struct {
	Name        EventName      `json:"event"`
	RequestID   string         `json:"request_id"`
	Role        string         `json:"role,omitempty"`
	Provider    string         `json:"provider,omitempty"`
	Attempt     int            `json:"attempt"`
	Elapsed     time.Duration  `json:"elapsed,omitempty"`
	FailureKind string         `json:"failure_kind,omitempty"`
	Data        map[string]any `json:"data,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}

// EventSink receives router events. Implementations must tolerate concurrent
// calls from independent router invocations; a sink that panics is contained
// by the router and never aborts the in-flight request.
type EventSink interface {
	Emit(Event)
}

// SinkFunc adapts a function to the EventSink interface.
type SinkFunc func(Event)

// Emit implements EventSink.
func (f SinkFunc) Emit(ev Event) {
	f(ev)
}
