package httpserver

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
)

// SSETransport is one server-sent-events client connection. Writes are
// serialized because tool responses arrive from dispatch goroutines.
type SSETransport struct {
	id      string
	w       http.ResponseWriter
	flusher http.Flusher

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewSSETransport assigns a fresh session id and emits the SSE headers
// plus the endpoint event that tells the client where to POST.
func NewSSETransport(w http.ResponseWriter, messagePath string) (*SSETransport, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming unsupported by response writer")
	}

	t := &SSETransport{
		id:      uuid.NewString(),
		w:       w,
		flusher: flusher,
		done:    make(chan struct{}),
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache, no-transform")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")

	fmt.Fprintf(w, "event: endpoint\ndata: %s?sessionId=%s\n\n", messagePath, t.id)
	flusher.Flush()
	return t, nil
}

// SessionID returns the id assigned at connection time.
func (t *SSETransport) SessionID() string {
	return t.id
}

// Send writes one message event frame to the client.
func (t *SSETransport) Send(payload []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return fmt.Errorf("session %s is closed", t.id)
	}
	if _, err := fmt.Fprintf(t.w, "event: message\ndata: %s\n\n", payload); err != nil {
		return err
	}
	t.flusher.Flush()
	return nil
}

// Close marks the transport closed and releases Done waiters. It is
// safe to call more than once.
func (t *SSETransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.closed {
		t.closed = true
		close(t.done)
	}
	return nil
}

// Done is closed when the transport shuts down.
func (t *SSETransport) Done() <-chan struct{} {
	return t.done
}
