package notify

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/kei-test/mega/internal/domain/history"
)

// MirrorOptions configures the external mirror connection.
type MirrorOptions struct {
	URL          string
	Workers      int
	Buffer       int
	DialTimeout  time.Duration
	WriteTimeout time.Duration
}

// Mirror pushes login events to the external log collector over a
// websocket. Delivery is best effort: dial and write failures drop the
// event after a log line, and the connection is re-dialed on the next push.
// It satisfies the recorder's MirrorPublisher contract.
type Mirror struct {
	opts   MirrorOptions
	queue  *Queue[history.Event]
	logger *slog.Logger

	mu   sync.Mutex
	conn *websocket.Conn
}

func NewMirror(opts MirrorOptions, logger *slog.Logger) *Mirror {
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 5 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	m := &Mirror{
		opts:   opts,
		logger: logger,
	}
	m.queue = NewQueue(opts.Workers, opts.Buffer, m.send, logger)
	return m
}

// Enqueue hands one event to the background workers. Drops are logged, the
// caller is never blocked or failed.
func (m *Mirror) Enqueue(event history.Event) {
	if err := m.queue.Submit(event); err != nil {
		m.logger.Warn("mirror event dropped",
			"username", event.Username, "error", err)
	}
}

func (m *Mirror) send(event history.Event) error {
	payload, err := sonic.Marshal(event)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	conn, err := m.connection()
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(m.opts.WriteTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		conn.Close()
		m.conn = nil
		return err
	}
	return nil
}

// connection returns the live websocket, dialing when needed. Callers hold
// the mutex.
func (m *Mirror) connection() (*websocket.Conn, error) {
	if m.conn != nil {
		return m.conn, nil
	}
	dialer := websocket.Dialer{HandshakeTimeout: m.opts.DialTimeout}
	conn, _, err := dialer.Dial(m.opts.URL, http.Header{})
	if err != nil {
		return nil, err
	}
	m.conn = conn
	return conn, nil
}

// Close drains the queue and drops the connection.
func (m *Mirror) Close() {
	m.queue.Stop()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
	}
}
