// Package wsdriver streams trace reports to a WebSocket endpoint as JSON
// text messages.
package wsdriver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/torosent/functrace"
)

const (
	defaultHandshakeTimeout = 10 * time.Second
	defaultWriteTimeout     = 10 * time.Second
)

// Driver maintains a client connection to a WebSocket server and writes
// one message per report. The connection is dialed lazily on first emit
// and redialed on the emit after a write failure.
type Driver struct {
	url     string
	headers http.Header
	dialer  *websocket.Dialer

	writeTimeout time.Duration

	mu   sync.Mutex
	conn *websocket.Conn
}

// Option configures a Driver.
type Option func(*Driver)

// WithHeaders sets extra handshake headers (auth tokens and the like).
func WithHeaders(h http.Header) Option {
	return func(d *Driver) { d.headers = h }
}

// WithWriteTimeout bounds each report write.
func WithWriteTimeout(t time.Duration) Option {
	return func(d *Driver) {
		if t > 0 {
			d.writeTimeout = t
		}
	}
}

// New creates a driver targeting a ws:// or wss:// URL.
func New(url string, opts ...Option) *Driver {
	d := &Driver{
		url: url,
		dialer: &websocket.Dialer{
			HandshakeTimeout: defaultHandshakeTimeout,
		},
		writeTimeout: defaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Emit writes the report as a JSON text message, dialing first if needed.
// On failure the connection is dropped so the next emit reconnects.
func (d *Driver) Emit(ctx context.Context, report *functrace.Report) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn == nil {
		conn, _, err := d.dialer.DialContext(ctx, d.url, d.headers)
		if err != nil {
			return fmt.Errorf("wsdriver: dial %s: %w", d.url, err)
		}
		d.conn = conn
	}

	_ = d.conn.SetWriteDeadline(time.Now().Add(d.writeTimeout))
	if err := d.conn.WriteJSON(report); err != nil {
		_ = d.conn.Close()
		d.conn = nil
		return fmt.Errorf("wsdriver: write report: %w", err)
	}
	return nil
}

// Close sends a close frame and releases the connection.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn == nil {
		return nil
	}
	deadline := time.Now().Add(d.writeTimeout)
	_ = d.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		deadline,
	)
	err := d.conn.Close()
	d.conn = nil
	return err
}
