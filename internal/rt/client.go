package rt

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"github.com/hafizhannan/baatcheet/internal/bus"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20
	sendBuffer     = 64
)

// Client maintains the realtime websocket connection to the backend,
// publishing parsed events on the bus and draining an outbound queue.
// It reconnects with exponential backoff until explicitly closed.
type Client struct {
	url    string
	token  string
	parser *Parser
	bus    *bus.Bus
	logger *zap.Logger

	send   chan []byte
	cancel context.CancelFunc

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

// NewClient creates a realtime client. The token is presented as a bearer
// Authorization header during the websocket handshake.
func NewClient(url, token string, parser *Parser, b *bus.Bus, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		url:    url,
		token:  token,
		parser: parser,
		bus:    b,
		logger: logger,
		send:   make(chan []byte, sendBuffer),
	}
}

// Start runs the connect/reconnect loop until ctx is cancelled or Close is
// called.
func (c *Client) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	go c.run(ctx)
}

// Close stops the client for good; no reconnect is attempted afterwards.
func (c *Client) Close() {
	c.mu.Lock()
	c.closed = true
	conn := c.conn
	c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
	if conn != nil {
		_ = conn.Close()
	}
}

func (c *Client) run(ctx context.Context) {
	policy := backoff.NewExponentialBackOff()
	policy.MaxInterval = 30 * time.Second
	policy.MaxElapsedTime = 0 // retry forever until closed

	for {
		if ctx.Err() != nil || c.isClosed() {
			return
		}
		if err := c.connectAndPump(ctx); err != nil {
			c.logger.Warn("realtime connection lost", zap.Error(err))
		}
		c.bus.Publish(bus.Now(bus.KindConnDown, nil))

		wait := policy.NextBackOff()
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) connectAndPump(ctx context.Context) error {
	dialer := &websocket.Dialer{HandshakeTimeout: 30 * time.Second}
	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}

	conn, _, err := dialer.DialContext(ctx, c.url, header)
	if err != nil {
		return err
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = conn.Close()
		return nil
	}
	c.conn = conn
	c.mu.Unlock()

	c.logger.Info("realtime connected", zap.String("url", c.url))
	c.bus.Publish(bus.Now(bus.KindConnUp, nil))

	done := make(chan struct{})
	go c.writePump(ctx, conn, done)
	err = c.readPump(conn)
	close(done)

	c.mu.Lock()
	c.conn = nil
	c.mu.Unlock()
	_ = conn.Close()
	return err
}

// readPump reads frames until the connection fails, parsing each into a
// typed event on the bus. Malformed frames are dropped, never fatal.
func (c *Client) readPump(conn *websocket.Conn) error {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var frame Frame
		if err := conn.ReadJSON(&frame); err != nil {
			return err
		}
		kind, ev, ok := c.parser.Parse(frame)
		if !ok {
			continue
		}
		c.bus.Publish(bus.Now(kind, ev))
	}
}

// writePump drains the outbound queue and keeps the connection alive with
// pings.
func (c *Client) writePump(ctx context.Context, conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case payload := <-c.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// enqueue queues one frame for sending. A full queue drops the frame with a
// log instead of blocking the caller.
func (c *Client) enqueue(event string, payload any) {
	data, err := encodeFrame(event, payload)
	if err != nil {
		c.logger.Error("encode frame", zap.String("event", event), zap.Error(err))
		return
	}
	select {
	case c.send <- data:
	default:
		c.logger.Warn("outbound queue full, dropping frame", zap.String("event", event))
	}
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
