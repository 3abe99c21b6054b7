package session

import (
	"errors"
	"sync/atomic"
	"time"
)

// Metrics tracks render execution counters for one environment.
type Metrics struct {
	Executions atomic.Int64
	Failures   atomic.Int64
	Timeouts   atomic.Int64
	Merges     atomic.Int64

	latencySum   atomic.Int64
	latencyCount atomic.Int64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) RecordExecution(latency time.Duration, err error) {
	if m == nil {
		return
	}
	m.Executions.Add(1)
	m.latencySum.Add(latency.Nanoseconds())
	m.latencyCount.Add(1)
	if err == nil {
		return
	}
	m.Failures.Add(1)
	if errors.Is(err, ErrExecutionTimeout) {
		m.Timeouts.Add(1)
	}
}

func (m *Metrics) RecordMerge() {
	if m == nil {
		return
	}
	m.Merges.Add(1)
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	avg := time.Duration(0)
	if count := m.latencyCount.Load(); count > 0 {
		avg = time.Duration(m.latencySum.Load() / count)
	}
	return MetricsSnapshot{
		Executions:     m.Executions.Load(),
		Failures:       m.Failures.Load(),
		Timeouts:       m.Timeouts.Load(),
		Merges:         m.Merges.Load(),
		AverageLatency: avg,
	}
}

type MetricsSnapshot struct {
	Executions     int64
	Failures       int64
	Timeouts       int64
	Merges         int64
	AverageLatency time.Duration
}
