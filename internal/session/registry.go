// Package session tracks live streaming client connections so that
// posted messages can be routed back to the right event stream.
package session

import (
	"errors"
	"sync"

	"github.com/josedlucas/sweven-mcp-server/internal/telemetry"
)

var (
	// ErrSessionNotFound is returned when no transport is registered
	// under the requested session id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrDuplicateSession is returned when a transport tries to
	// register an id that is already live.
	ErrDuplicateSession = errors.New("session already registered")
)

// Transport is one live client connection keyed by its session id.
type Transport interface {
	SessionID() string
	Close() error
}

// Registry is a concurrency-safe map of live sessions.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]Transport
	metrics  *telemetry.MetricsCollector
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithMetrics attaches a metrics collector for session gauges.
func WithMetrics(m *telemetry.MetricsCollector) RegistryOption {
	return func(r *Registry) { r.metrics = m }
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{sessions: make(map[string]Transport)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a transport under its session id.
func (r *Registry) Register(t Transport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := t.SessionID()
	if _, exists := r.sessions[id]; exists {
		return ErrDuplicateSession
	}
	r.sessions[id] = t

	if r.metrics != nil {
		r.metrics.IncrementCounter(telemetry.MetricSessionsOpened, 1)
		r.metrics.SetGauge(telemetry.MetricSessionsActive, float64(len(r.sessions)))
	}
	return nil
}

// Lookup returns the transport registered under id.
func (r *Registry) Lookup(id string) (Transport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return t, nil
}

// Unregister removes and closes the transport under id. Unknown ids
// are a no-op so disconnect paths can run unconditionally.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	t, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	remaining := len(r.sessions)
	r.mu.Unlock()

	if !ok {
		return
	}
	_ = t.Close()

	if r.metrics != nil {
		r.metrics.IncrementCounter(telemetry.MetricSessionsClosed, 1)
		r.metrics.SetGauge(telemetry.MetricSessionsActive, float64(remaining))
	}
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}
