// internal/websocket/client.go
package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	wstypes "worklink-service/internal/domain/websocket"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is a single authenticated websocket connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	accountID   int64
	role        string
	jti         string
	connectedAt time.Time

	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger

	// sendMu orders SendMessage against Close so a queued frame can
	// never hit an already closed send channel.
	sendMu    sync.Mutex
	closed    bool
	closeOnce sync.Once
}

func NewClient(hub *Hub, conn *websocket.Conn, auth *AuthInfo, logger *zap.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, 256),
		accountID:   auth.AccountID,
		role:        auth.Role,
		jti:         auth.JTI,
		connectedAt: time.Now(),
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger,
	}
}

func (c *Client) AccountID() int64 { return c.accountID }
func (c *Client) Role() string     { return c.role }

// ReadPump drains incoming frames until the connection drops.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
			_, message, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					c.logger.Warn("websocket read error",
						zap.Int64("account_id", c.accountID),
						zap.Error(err),
					)
				}
				return
			}
			c.handleMessage(message)
		}
	}
}

// WritePump flushes queued frames and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			return
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(data []byte) {
	msg, err := wstypes.ParseMessage(data)
	if err != nil {
		c.SendError("invalid_message", "failed to parse message", err.Error())
		return
	}

	if msg.Type == wstypes.EventTypePing {
		c.SendMessage(wstypes.NewMessage(wstypes.EventTypePong, nil))
		return
	}

	if err := c.hub.HandleClientMessage(c.ctx, c, msg); err != nil {
		c.SendError("handler_error", "failed to process message", err.Error())
	}
}

// SendMessage queues a frame. A full send buffer means the reader is gone,
// so the connection is torn down instead of blocking the hub.
func (c *Client) SendMessage(msg *wstypes.WSMessage) {
	data, err := msg.ToJSON()
	if err != nil {
		c.logger.Error("failed to marshal websocket message", zap.Error(err))
		return
	}

	c.sendMu.Lock()
	if c.closed {
		c.sendMu.Unlock()
		return
	}

	select {
	case c.send <- data:
		c.sendMu.Unlock()
	case <-c.ctx.Done():
		c.sendMu.Unlock()
	default:
		// Unlock before unregistering so the hub can call Close without
		// deadlocking on sendMu.
		c.sendMu.Unlock()
		c.hub.unregister <- c
	}
}

func (c *Client) SendError(code, message, details string) {
	c.SendMessage(wstypes.NewMessage(wstypes.EventTypeError, wstypes.ErrorData{
		Code:    code,
		Message: message,
		Details: details,
	}))
}

// Close cancels the pumps and closes the send channel. Safe to call more
// than once and concurrently with SendMessage.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.cancel()
		c.sendMu.Lock()
		c.closed = true
		close(c.send)
		c.sendMu.Unlock()
	})
}

// DecodeData re-marshals a frame's data payload into a typed request.
func DecodeData(data interface{}, out interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
