package input

import "sync/atomic"

// Metrics counts dispatcher activity. Counters may be read from any
// goroutine while the dispatcher runs.
type Metrics struct {
	bytesTotal     atomic.Uint64
	keyEventsTotal atomic.Uint64
	commandsTotal  atomic.Uint64
	unboundKeys    atomic.Uint64
	malformed      atomic.Uint64
	escapeTimeouts atomic.Uint64
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	Bytes          uint64
	KeyEvents      uint64
	Commands       uint64
	UnboundKeys    uint64
	Malformed      uint64
	EscapeTimeouts uint64
}

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Bytes:          m.bytesTotal.Load(),
		KeyEvents:      m.keyEventsTotal.Load(),
		Commands:       m.commandsTotal.Load(),
		UnboundKeys:    m.unboundKeys.Load(),
		Malformed:      m.malformed.Load(),
		EscapeTimeouts: m.escapeTimeouts.Load(),
	}
}

// Reset clears all counters.
func (m *Metrics) Reset() {
	m.bytesTotal.Store(0)
	m.keyEventsTotal.Store(0)
	m.commandsTotal.Store(0)
	m.unboundKeys.Store(0)
	m.malformed.Store(0)
	m.escapeTimeouts.Store(0)
}
