// Package telemetry provides metrics collection and reporting
// for monitoring the Sweven MCP server.
package telemetry

import (
	"sync"
	"time"
)

// MetricsCollector provides a thread-safe interface for collecting
// application metrics for monitoring and troubleshooting.
type MetricsCollector struct {
	counters   map[string]int64
	gauges     map[string]float64
	timers     map[string][]time.Duration
	latestTime map[string]time.Time
	mu         sync.RWMutex
}

// Metric names used across the server
const (
	// Login outcomes
	MetricLoginSuccess = "auth.login.success"
	MetricLoginFailure = "auth.login.failure"

	// Remote API calls by outcome
	MetricRemoteCallsSuccess = "sweven.api_calls.success"
	MetricRemoteCallsFailure = "sweven.api_calls.failure"

	// Remote API response times by endpoint
	MetricResponseTimeLogin       = "sweven.response_time.login"
	MetricResponseTimeTeamMembers = "sweven.response_time.team_members"
	MetricResponseTimeTrackings   = "sweven.response_time.trackings"
	MetricResponseTimeNotes       = "sweven.response_time.notes"
	MetricResponseTimeWorkOrder   = "sweven.response_time.work_order"

	// Streaming sessions
	MetricSessionsOpened = "sessions.opened"
	MetricSessionsClosed = "sessions.closed"
	MetricSessionsActive = "sessions.active"

	// Tool invocations
	MetricToolCalls        = "tools.calls"
	MetricToolCallFailures = "tools.call_failures"
)

// NewMetricsCollector creates a new MetricsCollector instance
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		counters:   make(map[string]int64),
		gauges:     make(map[string]float64),
		timers:     make(map[string][]time.Duration),
		latestTime: make(map[string]time.Time),
	}
}

// IncrementCounter increments a named counter by the specified amount
func (m *MetricsCollector) IncrementCounter(name string, amount int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counters[name] += amount
}

// SetGauge sets a named gauge to the specified value
func (m *MetricsCollector) SetGauge(name string, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gauges[name] = value
}

// RecordTimer records a duration for the specified timer
func (m *MetricsCollector) RecordTimer(name string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.timers[name]; !exists {
		m.timers[name] = make([]time.Duration, 0)
	}

	m.timers[name] = append(m.timers[name], duration)
	m.latestTime[name] = time.Now()

	// Limit the number of stored durations to avoid unbounded growth
	if len(m.timers[name]) > 100 {
		m.timers[name] = m.timers[name][1:]
	}
}

// GetCounter returns the current value of a named counter
func (m *MetricsCollector) GetCounter(name string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.counters[name]
}

// GetGauge returns the current value of a named gauge
func (m *MetricsCollector) GetGauge(name string) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.gauges[name]
}

// GetTimerAverage returns the average of the recorded durations for a timer,
// or zero when nothing has been recorded.
func (m *MetricsCollector) GetTimerAverage(name string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	samples := m.timers[name]
	if len(samples) == 0 {
		return 0
	}

	var total time.Duration
	for _, d := range samples {
		total += d
	}
	return total / time.Duration(len(samples))
}

// Snapshot returns a copy of all counters and gauges for reporting
func (m *MetricsCollector) Snapshot() (map[string]int64, map[string]float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counters := make(map[string]int64, len(m.counters))
	for k, v := range m.counters {
		counters[k] = v
	}
	gauges := make(map[string]float64, len(m.gauges))
	for k, v := range m.gauges {
		gauges[k] = v
	}
	return counters, gauges
}
