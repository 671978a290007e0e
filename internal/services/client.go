package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/eosyam/scrum-game/internal/config"
)

// Client wraps a single WebSocket connection with its own buffered send
// channel and write pump. Reads are driven by the WebSocket handler; the
// client only owns the outgoing half.
type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	hub    *Hub
	connID string

	ctx     context.Context
	cancel  context.CancelFunc
	closed  bool
	closeMu sync.Mutex
}

// NewClient creates a client for an accepted connection.
func NewClient(conn *websocket.Conn, hub *Hub, connID string) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		conn:   conn,
		send:   make(chan []byte, config.ClientSendBufferSize),
		hub:    hub,
		connID: connID,
		ctx:    ctx,
		cancel: cancel,
	}
}

// ID returns the transport-assigned connection id.
func (c *Client) ID() string {
	return c.connID
}

// Start begins the client's write pump.
func (c *Client) Start() {
	go c.writePump()
}

// Context is cancelled when the client closes; the read loop uses it to bound
// its reads.
func (c *Client) Context() context.Context {
	return c.ctx
}

// writePump handles outgoing messages and keep-alive pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				_ = c.conn.Close(websocket.StatusNormalClosure, "")
				return
			}

			writeCtx, cancel := context.WithTimeout(c.ctx, config.WriteTimeout)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()

			if err != nil {
				log.Printf("write error (conn=%s): %v", c.connID, err)
				c.hub.Metrics().IncrementBroadcastErrors()
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(c.ctx, config.WriteTimeout)
			err := c.conn.Ping(pingCtx)
			cancel()

			if err != nil {
				log.Printf("ping error (conn=%s): %v", c.connID, err)
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// Send queues a message for the connection. Returns false if the client is
// closed or too slow to keep up, in which case it is shut down.
func (c *Client) Send(message []byte) bool {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- message:
		return true
	default:
		// Channel full, client is too slow
		log.Printf("send buffer full, closing slow client (conn=%s)", c.connID)
		c.hub.Metrics().IncrementBroadcastErrors()
		c.closeLocked()
		return false
	}
}

// Close cleanly shuts down the client connection. Safe to call repeatedly.
func (c *Client) Close() {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()
	c.closeLocked()
}

func (c *Client) closeLocked() {
	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
	close(c.send)
	_ = c.conn.Close(websocket.StatusNormalClosure, "")
}
