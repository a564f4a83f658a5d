package realtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gatherly/api/internal/config"
)

// Client is one websocket connection with its identity and send queue
type Client struct {
	ID     string
	UserID string

	conn   *websocket.Conn
	send   chan []byte
	cfg    config.RealtimeConfig
	logger *slog.Logger

	closeOnce chan struct{}
}

// NewClient wraps an upgraded connection
func NewClient(id, userID string, conn *websocket.Conn, cfg config.RealtimeConfig, logger *slog.Logger) *Client {
	return &Client{
		ID:        id,
		UserID:    userID,
		conn:      conn,
		send:      make(chan []byte, cfg.SendBuffer),
		cfg:       cfg,
		logger:    logger,
		closeOnce: make(chan struct{}),
	}
}

func (c *Client) closeSend() {
	select {
	case <-c.closeOnce:
	default:
		close(c.closeOnce)
		close(c.send)
	}
}

// readPump reads intent frames from the connection and hands them to the
// bridge. It owns the connection's read side; it exits on any read error
// and unregisters the client.
func (c *Client) readPump(ctx context.Context, hub *Hub, bridge *Bridge) {
	defer func() {
		hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
		return nil
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("websocket read error",
					slog.String("client_id", c.ID),
					slog.String("error", err.Error()))
			}
			return
		}
		bridge.Dispatch(ctx, c, frame)
	}
}

// writePump drains the send queue onto the connection and keeps the
// connection alive with pings. It owns the connection's write side.
func (c *Client) writePump() {
	pingPeriod := (c.cfg.PongWait * 9) / 10
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
