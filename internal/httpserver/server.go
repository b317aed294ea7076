// Package httpserver exposes the tool surface over HTTP with
// server-sent events. Clients open GET /sse, learn their message
// endpoint from the first event, and POST JSON-RPC messages that are
// answered over the event stream.
package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/josedlucas/sweven-mcp-server/internal/session"
	"github.com/josedlucas/sweven-mcp-server/internal/telemetry"
)

// Server routes streaming clients to the tool dispatcher.
type Server struct {
	dispatcher  Dispatcher
	registry    *session.Registry
	logger      *slog.Logger
	messagePath string
	health      func() *telemetry.HealthReport
}

// Option configures a Server.
type Option func(*Server)

// WithRegistry supplies the session registry. Without one the message
// endpoint answers 503.
func WithRegistry(r *session.Registry) Option {
	return func(s *Server) { s.registry = r }
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithHealthReporter supplies the /health payload builder.
func WithHealthReporter(fn func() *telemetry.HealthReport) Option {
	return func(s *Server) { s.health = fn }
}

// NewServer builds the HTTP layer around a tool dispatcher.
func NewServer(d Dispatcher, messagePath string, opts ...Option) *Server {
	if messagePath == "" {
		messagePath = "/messages"
	}
	s := &Server{
		dispatcher:  d,
		logger:      slog.Default(),
		messagePath: messagePath,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/sse", s.handleSSE).Methods(http.MethodGet)
	r.HandleFunc(s.messagePath, s.handleMessage).Methods(http.MethodPost)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	return r
}

// ListenAndServe runs the HTTP layer until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("Starting SSE server", "addr", addr, "message_path", s.messagePath)
	return http.ListenAndServe(addr, s.Handler())
}

// handleSSE opens an event stream, registers its session, and blocks
// until the client disconnects or the transport closes.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	if s.registry == nil {
		writeErrorResponse(w, http.StatusServiceUnavailable,
			ErrorCodeSessionLayerUnavailable, "Session layer is not available", nil)
		return
	}

	t, err := NewSSETransport(w, s.messagePath)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError,
			ErrorCodeInternalError, "Failed to open event stream", err)
		return
	}

	if err := s.registry.Register(t); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError,
			ErrorCodeInternalError, "Failed to register session", err)
		return
	}
	s.logger.Info("SSE session opened", "session_id", t.SessionID())

	defer func() {
		s.registry.Unregister(t.SessionID())
		s.logger.Info("SSE session closed", "session_id", t.SessionID())
	}()

	select {
	case <-r.Context().Done():
	case <-t.Done():
	}
}

// handleMessage accepts one JSON-RPC message for an open session. The
// response travels back over the session's event stream, not this
// request.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	if s.registry == nil {
		writeErrorResponse(w, http.StatusServiceUnavailable,
			ErrorCodeSessionLayerUnavailable, "Session layer is not available", nil)
		return
	}

	var msg rpcMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeErrorResponse(w, http.StatusBadRequest,
			ErrorCodeInvalidRequest, "Invalid JSON-RPC message", err)
		return
	}

	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		sessionID = msg.SessionID
	}
	if sessionID == "" {
		writeErrorResponse(w, http.StatusBadRequest,
			ErrorCodeInvalidRequest, "Missing sessionId", nil)
		return
	}

	t, err := s.registry.Lookup(sessionID)
	if err != nil {
		writeErrorResponse(w, http.StatusNotFound,
			ErrorCodeSessionNotFound, "Session not found", err)
		return
	}

	transport, ok := t.(*SSETransport)
	if !ok {
		writeErrorResponse(w, http.StatusInternalServerError,
			ErrorCodeInternalError, "Session has unexpected transport type", nil)
		return
	}

	// The request context ends when this handler returns, so the tool
	// call runs detached and answers over the event stream.
	go s.dispatchAsync(transport, msg)

	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) dispatchAsync(t *SSETransport, msg rpcMessage) {
	resp, ok := dispatch(context.Background(), s.dispatcher, msg)
	if !ok {
		return
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("Failed to encode response", "error", err, "session_id", t.SessionID())
		return
	}
	if err := t.Send(payload); err != nil {
		s.logger.Warn("Failed to deliver response", "error", err, "session_id", t.SessionID())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.health()); err != nil {
		s.logger.Error("Failed to encode health report", "error", err)
	}
}
