package hub

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// sendBufferSize bounds the per-connection outbound queue (§5): a slow client cannot block
// broadcast to others. A full buffer triggers a forced close rather than blocking the hub.
const sendBufferSize = 64

// closeBackpressure is an application-specific close code (RFC 6455 §7.4.2, 4000-4999 range)
// sent when a connection's outbound buffer overflows.
const closeBackpressure = 4008

const writeDeadline = 5 * time.Second

// Client wraps one WebSocket connection with a bounded outbound queue and the group
// memberships (tenant, conversations) it currently belongs to.
type Client struct {
	TenantID string
	UserID   string

	conn *websocket.Conn
	send chan Frame

	mu            sync.Mutex
	conversations map[string]struct{}

	closeOnce sync.Once
	done      chan struct{}
}

func newClient(conn *websocket.Conn, tenantID, userID string) *Client {
	return &Client{
		TenantID:      tenantID,
		UserID:        userID,
		conn:          conn,
		send:          make(chan Frame, sendBufferSize),
		conversations: make(map[string]struct{}),
		done:          make(chan struct{}),
	}
}

// Enqueue attempts to hand f to the client's write pump without blocking. A full buffer is
// treated as an unrecoverable back-pressure condition and forces the connection closed.
func (c *Client) Enqueue(f Frame) {
	select {
	case c.send <- f:
	default:
		c.forceClose()
	}
}

func (c *Client) joinConversation(conversationID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conversations[conversationID] = struct{}{}
}

func (c *Client) inConversation(conversationID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.conversations[conversationID]
	return ok
}

func (c *Client) forceClose() {
	c.closeOnce.Do(func() {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(closeBackpressure, "send buffer overflow"),
			time.Now().Add(writeDeadline))
		close(c.done)
		_ = c.conn.Close()
	})
}

// writePump drains c.send to the socket until the connection closes.
func (c *Client) writePump() {
	for {
		select {
		case <-c.done:
			return
		case f, ok := <-c.send:
			if !ok {
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteJSON(f); err != nil {
				c.forceClose()
				return
			}
		}
	}
}
