package socket

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Connection constants.
const (
	// defaultHandshakeTimeout is the maximum time to wait for the
	// WebSocket upgrade to complete.
	defaultHandshakeTimeout = 10 * time.Second

	// defaultWriteTimeout is the maximum time to wait for a single
	// outbound frame write.
	defaultWriteTimeout = 5 * time.Second

	// defaultMaxMessageSize is the largest inbound frame accepted.
	// Full-state snapshots on large installations can run to megabytes.
	defaultMaxMessageSize = 4 << 20
)

// Options configures connection behaviour. The zero value selects the
// package defaults.
type Options struct {
	// HandshakeTimeout bounds the WebSocket upgrade.
	HandshakeTimeout time.Duration

	// WriteTimeout bounds a single WriteFrame call.
	WriteTimeout time.Duration

	// MaxMessageSize limits inbound frame size in bytes.
	MaxMessageSize int64
}

func (o Options) withDefaults() Options {
	if o.HandshakeTimeout <= 0 {
		o.HandshakeTimeout = defaultHandshakeTimeout
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = defaultWriteTimeout
	}
	if o.MaxMessageSize <= 0 {
		o.MaxMessageSize = defaultMaxMessageSize
	}
	return o
}

// Conn is a single persistent WebSocket connection carrying one JSON
// object per text frame.
//
// Thread Safety:
//   - WriteFrame is safe for concurrent use (serialised by a mutex).
//   - ReadFrame must only be called from one goroutine at a time; the
//     protocol session owns the receive loop.
//   - Close is safe to call from any goroutine and is idempotent.
type Conn struct {
	ws   *websocket.Conn
	opts Options

	writeMu sync.Mutex

	closeOnce sync.Once
	closeErr  error
	closed    chan struct{}
}

// Dial opens a WebSocket connection to the given URL.
//
// The returned connection owns exactly one physical socket. Dial failures
// are transient transport errors: the caller is expected to retry with
// backoff, never to crash.
//
// Parameters:
//   - ctx: Cancels an in-flight dial attempt
//   - url: ws:// or wss:// endpoint
//   - opts: Connection options (zero value for defaults)
//
// Returns:
//   - *Conn: Connected transport ready for use
//   - error: Wrapping ErrConnectionFailed on any dial failure
func Dial(ctx context.Context, url string, opts Options) (*Conn, error) {
	opts = opts.withDefaults()

	dialer := websocket.Dialer{
		HandshakeTimeout: opts.HandshakeTimeout,
	}

	ws, resp, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrConnectionFailed, resp.Status, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	ws.SetReadLimit(opts.MaxMessageSize)

	return &Conn{
		ws:     ws,
		opts:   opts,
		closed: make(chan struct{}),
	}, nil
}

// ReadFrame blocks until the next frame arrives and returns its payload.
//
// Cancelling ctx interrupts the read by expiring the read deadline; the
// connection is unusable afterwards, matching the teardown semantics of
// a transport failure.
//
// Returns:
//   - []byte: Raw frame payload (one JSON object)
//   - error: ctx.Err() on cancellation, or wrapping ErrConnectionClosed
//     on any transport failure or remote close
func (c *Conn) ReadFrame(ctx context.Context) ([]byte, error) {
	stop := context.AfterFunc(ctx, func() {
		// Expiring the deadline is the only way to interrupt a
		// blocked gorilla read.
		_ = c.ws.SetReadDeadline(time.Now())
	})
	defer stop()

	_, payload, err := c.ws.ReadMessage()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", ErrConnectionClosed, err)
	}
	return payload, nil
}

// WriteFrame sends one frame containing the given payload.
//
// Writes are serialised; the write deadline comes from Options.
//
// Returns:
//   - error: ctx.Err() on cancellation, or wrapping ErrConnectionClosed
//     on any transport failure
func (c *Conn) WriteFrame(ctx context.Context, payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.closed:
		return ErrConnectionClosed
	default:
	}

	if err := c.ws.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout)); err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionClosed, err)
	}

	if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %w", ErrConnectionClosed, err)
	}
	return nil
}

// Close tears down the physical connection. It attempts a clean close
// frame with a short deadline, then closes the underlying socket.
// Subsequent calls return the first result.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		close(c.closed)

		deadline := time.Now().Add(time.Second)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")

		c.writeMu.Lock()
		_ = c.ws.WriteControl(websocket.CloseMessage, msg, deadline)
		c.writeMu.Unlock()

		c.closeErr = c.ws.Close()
	})
	return c.closeErr
}
