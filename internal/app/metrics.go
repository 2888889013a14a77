package app

import (
	"sync/atomic"
	"time"
)

// Metrics tracks event loop counters. Writers are the loop goroutine;
// Snapshot may be called from anywhere.
type Metrics struct {
	// Frame timing
	frameCount   atomic.Uint64
	frameTotalNs atomic.Int64
	frameMinNs   atomic.Int64
	frameMaxNs   atomic.Int64
	lastFrameNs  atomic.Int64

	// Output volume
	cellsWritten atomic.Uint64
	fullRedraws  atomic.Uint64

	// Input handling
	inputChunks atomic.Uint64
	commands    atomic.Uint64
	applyErrors atomic.Uint64

	// Persistence
	saves        atomic.Uint64
	saveFailures atomic.Uint64
	reloads      atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{startTime: time.Now()}
	m.frameMinNs.Store(1<<63 - 1)
	return m
}

// RecordFrame records one render pass and the cells it wrote.
func (m *Metrics) RecordFrame(duration time.Duration, cells int, full bool) {
	ns := duration.Nanoseconds()

	m.frameCount.Add(1)
	m.frameTotalNs.Add(ns)
	m.lastFrameNs.Store(ns)
	m.cellsWritten.Add(uint64(max(cells, 0)))
	if full {
		m.fullRedraws.Add(1)
	}

	for {
		old := m.frameMinNs.Load()
		if ns >= old || m.frameMinNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.frameMaxNs.Load()
		if ns <= old || m.frameMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordInput records one input chunk and the commands it produced.
func (m *Metrics) RecordInput(commands int) {
	m.inputChunks.Add(1)
	m.commands.Add(uint64(max(commands, 0)))
}

// RecordApplyError records a command the engine rejected.
func (m *Metrics) RecordApplyError() {
	m.applyErrors.Add(1)
}

// RecordSave records a save attempt.
func (m *Metrics) RecordSave(err error) {
	if err != nil {
		m.saveFailures.Add(1)
		return
	}
	m.saves.Add(1)
}

// RecordReload records a reload after an external change.
func (m *Metrics) RecordReload() {
	m.reloads.Add(1)
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	frames := m.frameCount.Load()
	var avg int64
	if frames > 0 {
		avg = m.frameTotalNs.Load() / int64(frames)
	}
	minNs := m.frameMinNs.Load()
	if minNs == 1<<63-1 {
		minNs = 0
	}

	return MetricsSnapshot{
		Uptime:         time.Since(m.startTime),
		FrameCount:     frames,
		AvgFrameTimeNs: avg,
		MinFrameTimeNs: minNs,
		MaxFrameTimeNs: m.frameMaxNs.Load(),
		LastFrameNs:    m.lastFrameNs.Load(),
		CellsWritten:   m.cellsWritten.Load(),
		FullRedraws:    m.fullRedraws.Load(),
		InputChunks:    m.inputChunks.Load(),
		Commands:       m.commands.Load(),
		ApplyErrors:    m.applyErrors.Load(),
		Saves:          m.saves.Load(),
		SaveFailures:   m.saveFailures.Load(),
		Reloads:        m.reloads.Load(),
	}
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime         time.Duration
	FrameCount     uint64
	AvgFrameTimeNs int64
	MinFrameTimeNs int64
	MaxFrameTimeNs int64
	LastFrameNs    int64
	CellsWritten   uint64
	FullRedraws    uint64
	InputChunks    uint64
	Commands       uint64
	ApplyErrors    uint64
	Saves          uint64
	SaveFailures   uint64
	Reloads        uint64
}
