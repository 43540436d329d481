// ABOUTME: WebSocket client for the media stream protocol
// ABOUTME: Handles connection, outbound events and inbound media routing
package protocol

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/muhammadawaisg/basic-ai-call/internal/logging"
)

// ErrNotConnected is returned when sending on a client that is not open
var ErrNotConnected = errors.New("not connected")

const (
	defaultHandshakeTimeout = 10 * time.Second
	defaultWriteTimeout     = 5 * time.Second
	mediaBufferSize         = 100
)

// Config holds client configuration
type Config struct {
	URL              string
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	Header           http.Header
}

// Client represents a WebSocket client
type Client struct {
	config Config
	conn   *websocket.Conn
	mu     sync.RWMutex
	// gorilla allows one concurrent writer
	writeMu sync.Mutex

	media chan []byte
	done  chan struct{}
	err   error

	ignored atomic.Int64

	// State
	connected bool
	closeOnce sync.Once
}

// NewClient creates a new WebSocket client
func NewClient(config Config) *Client {
	if config.HandshakeTimeout <= 0 {
		config.HandshakeTimeout = defaultHandshakeTimeout
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = defaultWriteTimeout
	}

	return &Client{
		config: config,
		media:  make(chan []byte, mediaBufferSize),
		done:   make(chan struct{}),
	}
}

// Connect establishes the WebSocket connection and starts the reader
func (c *Client) Connect(ctx context.Context) error {
	logging.Infow("connecting", "url", c.config.URL)

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: c.config.HandshakeTimeout,
	}
	conn, _, err := dialer.DialContext(ctx, c.config.URL, c.config.Header)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.readMessages()

	logging.Infow("connected", "url", c.config.URL)
	return nil
}

// sendJSON sends a JSON message while the connection is open
func (c *Client) sendJSON(msg Message) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.connected {
		return ErrNotConnected
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("write %s: %w", msg.Event, err)
	}
	return nil
}

// SendStart sends the session-start event
func (c *Client) SendStart(streamSid string) error {
	return c.sendJSON(NewStartMessage(streamSid))
}

// SendMedia sends one frame as a media event stamped with at
func (c *Client) SendMedia(frame []byte, at time.Time) error {
	return c.sendJSON(NewMediaMessage(frame, at))
}

// readMessages reads and routes incoming messages until the connection ends
func (c *Client) readMessages() {
	var readErr error
	defer func() { c.shutdown(readErr) }()

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			readErr = err
			return
		}

		if messageType != websocket.TextMessage {
			c.ignore("non-text frame", "type", messageType)
			continue
		}

		payload, ok := ParseMedia(data)
		if !ok {
			c.ignore("not a media event", "size", len(data))
			continue
		}

		select {
		case c.media <- payload:
		case <-c.done:
			return
		}
	}
}

func (c *Client) ignore(reason string, keysAndValues ...interface{}) {
	c.ignored.Add(1)
	logging.Debugw("ignoring inbound message", append([]interface{}{"reason", reason}, keysAndValues...)...)
}

// Media returns decoded inbound media payloads in arrival order
func (c *Client) Media() <-chan []byte {
	return c.media
}

// Done is closed once the connection has ended for any reason
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Err returns why the connection ended. It is nil after a local Close or
// a clean close from the server.
func (c *Client) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Ignored returns how many inbound messages were not valid media events
func (c *Client) Ignored() int64 {
	return c.ignored.Load()
}

// shutdown records the close reason and releases the connection once
func (c *Client) shutdown(cause error) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		if cause != nil && c.connected && !websocket.IsCloseError(cause, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			c.err = cause
		}
		c.connected = false
		if c.conn != nil {
			c.conn.Close()
		}
		close(c.done)
		logging.Infow("connection closed", "url", c.config.URL, "error", c.err)
	})
}

// Close sends a close frame and closes the connection
func (c *Client) Close() error {
	c.mu.RLock()
	conn := c.conn
	connected := c.connected
	c.mu.RUnlock()

	if connected {
		c.writeMu.Lock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()
	}

	c.shutdown(nil)
	return nil
}

// IsConnected returns connection status
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}
