package client

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/moodlens/moodlens/backend/internal/model/emotion"
	"github.com/moodlens/moodlens/backend/pkg/logger"
)

// Connection states exposed for display.
const (
	StateConnected    = "connected"
	StateDisconnected = "disconnected"
)

const (
	handshakeTimeout = 10 * time.Second
	writeTimeout     = 5 * time.Second
)

// Client holds one websocket to the aggregation server. There is no
// reconnect: once the socket drops, records are dropped until a new Dial.
type Client struct {
	mu   sync.Mutex
	url  string
	conn *websocket.Conn
	log  *logrus.Entry
}

// New creates a disconnected client for the given socket URL.
func New(url string) *Client {
	return &Client{
		url: url,
		log: logger.Component("transport"),
	}
}

// Dial opens the socket. Safe to call again after a drop.
func (c *Client) Dial(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return err
	}

	c.conn = conn
	c.log.WithField("url", c.url).Info("connected")
	return nil
}

// Send writes a record as a JSON text frame. Records produced while the
// socket is not open are silently dropped; no buffering, no backpressure.
// A write error closes the connection.
func (c *Client) Send(rec emotion.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return
	}

	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteJSON(rec); err != nil {
		c.log.WithError(err).Warn("send failed, closing connection")
		c.conn.Close()
		c.conn = nil
	}
}

// State reports connected or disconnected for UI display.
func (c *Client) State() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return StateConnected
	}
	return StateDisconnected
}

// Close sends a close frame and tears the socket down.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}

	deadline := time.Now().Add(writeTimeout)
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	err := c.conn.Close()
	c.conn = nil
	return err
}
