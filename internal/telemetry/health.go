package telemetry

import (
	"time"
)

// HealthStatus represents the health status of the server
type HealthStatus string

const (
	// StatusHealthy indicates the server is fully operational
	StatusHealthy HealthStatus = "healthy"

	// StatusDegraded indicates the server is operational but recent
	// remote calls have been failing
	StatusDegraded HealthStatus = "degraded"
)

// HealthReport contains information about the current health of the server
type HealthReport struct {
	Status           HealthStatus       `json:"status"`
	Timestamp        time.Time          `json:"timestamp"`
	Authenticated    bool               `json:"authenticated"`
	ActiveSessions   int                `json:"active_sessions"`
	TotalRemoteCalls int64              `json:"total_remote_calls"`
	SuccessRate      float64            `json:"success_rate"`
	ResponseTimes    map[string]float64 `json:"response_times_ms"`
	Version          string             `json:"version"`
}

// CreateHealthReport generates a health report from the collected metrics.
func CreateHealthReport(m *MetricsCollector, activeSessions int, authenticated bool, version string) *HealthReport {
	totalSuccess := m.GetCounter(MetricRemoteCallsSuccess)
	totalFailure := m.GetCounter(MetricRemoteCallsFailure)
	totalCalls := totalSuccess + totalFailure

	var successRate float64
	if totalCalls > 0 {
		successRate = float64(totalSuccess) / float64(totalCalls) * 100.0
	}

	status := StatusHealthy
	if totalCalls > 0 && totalSuccess == 0 {
		status = StatusDegraded
	}

	responseTimes := map[string]float64{
		"login":        float64(m.GetTimerAverage(MetricResponseTimeLogin)) / float64(time.Millisecond),
		"team_members": float64(m.GetTimerAverage(MetricResponseTimeTeamMembers)) / float64(time.Millisecond),
		"trackings":    float64(m.GetTimerAverage(MetricResponseTimeTrackings)) / float64(time.Millisecond),
		"notes":        float64(m.GetTimerAverage(MetricResponseTimeNotes)) / float64(time.Millisecond),
		"work_order":   float64(m.GetTimerAverage(MetricResponseTimeWorkOrder)) / float64(time.Millisecond),
	}

	return &HealthReport{
		Status:           status,
		Timestamp:        time.Now().UTC(),
		Authenticated:    authenticated,
		ActiveSessions:   activeSessions,
		TotalRemoteCalls: totalCalls,
		SuccessRate:      successRate,
		ResponseTimes:    responseTimes,
		Version:          version,
	}
}
