package httpserver

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/josedlucas/sweven-mcp-server/internal/session"
	"github.com/josedlucas/sweven-mcp-server/internal/telemetry"
	"github.com/josedlucas/sweven-mcp-server/internal/tools"
)

// fakeDispatcher answers every tool call with a canned payload.
type fakeDispatcher struct {
	payload string
	isError bool
}

func (f *fakeDispatcher) ServerName() string    { return "test-server" }
func (f *fakeDispatcher) ServerVersion() string { return "0.0.1" }
func (f *fakeDispatcher) Tools() []tools.Descriptor {
	return tools.Descriptors()
}
func (f *fakeDispatcher) Call(ctx context.Context, name string, args json.RawMessage) (string, bool) {
	return f.payload, f.isError
}

func newTestServer(t *testing.T, d Dispatcher) (*httptest.Server, *session.Registry) {
	t.Helper()
	registry := session.NewRegistry(session.WithMetrics(telemetry.NewMetricsCollector()))
	srv := NewServer(d, "/messages", WithRegistry(registry))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, registry
}

// openStream connects to /sse and returns the reader plus the message
// endpoint announced in the first event.
func openStream(t *testing.T, ts *httptest.Server) (*bufio.Reader, string, func()) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/sse", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from /sse, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected event-stream content type, got %q", ct)
	}

	reader := bufio.NewReader(resp.Body)
	event, data := readEvent(t, reader)
	if event != "endpoint" {
		t.Fatalf("expected endpoint event first, got %q", event)
	}
	if !strings.HasPrefix(data, "/messages?sessionId=") {
		t.Fatalf("unexpected endpoint payload %q", data)
	}

	return reader, data, func() { resp.Body.Close() }
}

func readEvent(t *testing.T, r *bufio.Reader) (event, data string) {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("failed to read event stream: %v", err)
		}
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "":
			if event != "" || data != "" {
				return event, data
			}
		}
	}
}

func TestSSEHandshakeAndToolCall(t *testing.T) {
	ts, _ := newTestServer(t, &fakeDispatcher{payload: "hello"})

	reader, endpoint, closeStream := openStream(t, ts)
	defer closeStream()

	body := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"get_team_members","arguments":{}}}`
	resp, err := http.Post(ts.URL+endpoint, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202 from message post, got %d", resp.StatusCode)
	}

	event, data := readEvent(t, reader)
	if event != "message" {
		t.Fatalf("expected message event, got %q", event)
	}

	var rpcResp struct {
		ID     int `json:"id"`
		Result struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
			IsError bool `json:"isError"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(data), &rpcResp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if rpcResp.ID != 1 {
		t.Errorf("expected response id 1, got %d", rpcResp.ID)
	}
	if len(rpcResp.Result.Content) != 1 || rpcResp.Result.Content[0].Text != "hello" {
		t.Errorf("unexpected result content: %+v", rpcResp.Result.Content)
	}
	if rpcResp.Result.IsError {
		t.Error("expected success result")
	}
}

func TestInitializeOverStream(t *testing.T) {
	ts, _ := newTestServer(t, &fakeDispatcher{})

	reader, endpoint, closeStream := openStream(t, ts)
	defer closeStream()

	body := `{"jsonrpc":"2.0","id":7,"method":"initialize","params":{}}`
	resp, err := http.Post(ts.URL+endpoint, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	_, data := readEvent(t, reader)
	var rpcResp struct {
		Result struct {
			ProtocolVersion string `json:"protocolVersion"`
			ServerInfo      struct {
				Name string `json:"name"`
			} `json:"serverInfo"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(data), &rpcResp); err != nil {
		t.Fatal(err)
	}
	if rpcResp.Result.ProtocolVersion != protocolVersion {
		t.Errorf("unexpected protocol version %q", rpcResp.Result.ProtocolVersion)
	}
	if rpcResp.Result.ServerInfo.Name != "test-server" {
		t.Errorf("unexpected server name %q", rpcResp.Result.ServerInfo.Name)
	}
}

func TestToolsListOverStream(t *testing.T) {
	ts, _ := newTestServer(t, &fakeDispatcher{})

	reader, endpoint, closeStream := openStream(t, ts)
	defer closeStream()

	body := `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`
	resp, err := http.Post(ts.URL+endpoint, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	_, data := readEvent(t, reader)
	var rpcResp struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(data), &rpcResp); err != nil {
		t.Fatal(err)
	}
	if len(rpcResp.Result.Tools) != 5 {
		t.Fatalf("expected 5 tools, got %d", len(rpcResp.Result.Tools))
	}
}

func TestMessageUnknownSession(t *testing.T) {
	ts, _ := newTestServer(t, &fakeDispatcher{})

	body := `{"jsonrpc":"2.0","id":1,"method":"ping"}`
	resp, err := http.Post(ts.URL+"/messages?sessionId=nope", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown session, got %d", resp.StatusCode)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatal(err)
	}
	if errResp.Code != ErrorCodeSessionNotFound {
		t.Errorf("expected SESSION_NOT_FOUND code, got %q", errResp.Code)
	}
}

func TestMessageMissingSessionID(t *testing.T) {
	ts, _ := newTestServer(t, &fakeDispatcher{})

	body := `{"jsonrpc":"2.0","id":1,"method":"ping"}`
	resp, err := http.Post(ts.URL+"/messages", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without session id, got %d", resp.StatusCode)
	}
}

func TestMessageSessionIDInBody(t *testing.T) {
	ts, _ := newTestServer(t, &fakeDispatcher{payload: "ok"})

	reader, endpoint, closeStream := openStream(t, ts)
	defer closeStream()

	sessionID := strings.TrimPrefix(endpoint, "/messages?sessionId=")
	body := `{"jsonrpc":"2.0","id":3,"method":"ping","sessionId":"` + sessionID + `"}`
	resp, err := http.Post(ts.URL+"/messages", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202 with body session id, got %d", resp.StatusCode)
	}

	event, _ := readEvent(t, reader)
	if event != "message" {
		t.Fatalf("expected message event, got %q", event)
	}
}

func TestMessageWithoutRegistry(t *testing.T) {
	srv := NewServer(&fakeDispatcher{}, "/messages")
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	body := `{"jsonrpc":"2.0","id":1,"method":"ping"}`
	resp, err := http.Post(ts.URL+"/messages?sessionId=x", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a registry, got %d", resp.StatusCode)
	}
}

func TestNotificationProducesNoResponse(t *testing.T) {
	ts, _ := newTestServer(t, &fakeDispatcher{})

	reader, endpoint, closeStream := openStream(t, ts)
	defer closeStream()

	body := `{"jsonrpc":"2.0","method":"notifications/initialized"}`
	resp, err := http.Post(ts.URL+endpoint, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202 for notification, got %d", resp.StatusCode)
	}

	// A follow-up ping should be the first and only event delivered.
	body = `{"jsonrpc":"2.0","id":9,"method":"ping"}`
	resp, err = http.Post(ts.URL+endpoint, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	_, data := readEvent(t, reader)
	var rpcResp struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal([]byte(data), &rpcResp); err != nil {
		t.Fatal(err)
	}
	if rpcResp.ID != 9 {
		t.Errorf("expected the ping response, got id %d", rpcResp.ID)
	}
}

func TestSessionUnregisteredOnDisconnect(t *testing.T) {
	ts, registry := newTestServer(t, &fakeDispatcher{})

	_, _, closeStream := openStream(t, ts)
	if registry.Len() != 1 {
		t.Fatalf("expected 1 live session, got %d", registry.Len())
	}

	closeStream()

	deadline := time.After(2 * time.Second)
	for registry.Len() != 0 {
		select {
		case <-deadline:
			t.Fatal("session was not unregistered after disconnect")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	registry := session.NewRegistry()
	metrics := telemetry.NewMetricsCollector()
	srv := NewServer(&fakeDispatcher{}, "/messages",
		WithRegistry(registry),
		WithHealthReporter(func() *telemetry.HealthReport {
			return telemetry.CreateHealthReport(metrics, registry.Len(), false, "test")
		}))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from /health, got %d", resp.StatusCode)
	}

	var report telemetry.HealthReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatal(err)
	}
	if report.Version != "test" {
		t.Errorf("unexpected version %q", report.Version)
	}
	if report.ActiveSessions != 0 {
		t.Errorf("expected no active sessions, got %d", report.ActiveSessions)
	}
	if report.Status != telemetry.StatusHealthy {
		t.Errorf("expected healthy status, got %q", report.Status)
	}
}
