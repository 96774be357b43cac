package ws

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/mcoot/spellfight/internal/protocol"
	"github.com/mcoot/spellfight/internal/services/game"
)

// conn pumps frames between one websocket and one game session
type conn struct {
	socket  *websocket.Conn
	session *game.Session
	limiter *rate.Limiter
	cfg     Config
	logger  *slog.Logger
	written chan struct{}
}

func newConn(socket *websocket.Conn, session *game.Session, cfg Config, logger *slog.Logger) *conn {
	return &conn{
		socket:  socket,
		session: session,
		limiter: rate.NewLimiter(rate.Limit(cfg.IntentRate), cfg.IntentBurst),
		cfg:     cfg,
		logger:  logger,
		written: make(chan struct{}),
	}
}

// readPump decodes intents until the socket fails or is closed
func (c *conn) readPump() {
	c.socket.SetReadLimit(c.cfg.MaxMessageSize)
	_ = c.socket.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.socket.SetPongHandler(func(string) error {
		return c.socket.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})

	for {
		_, data, err := c.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Debug("read failed", slog.Any("error", err))
			}
			return
		}

		if !c.limiter.Allow() {
			c.logger.Debug("intent rate limited")
			continue
		}

		intent, err := protocol.DecodeIntent(data)
		if err != nil {
			c.logger.Debug("dropping frame", slog.Any("error", err))
			continue
		}
		c.session.Submit(intent)
	}
}

// writePump sends session events and keepalive pings. It closes the socket
// when the session's event stream ends.
func (c *conn) writePump() {
	ticker := time.NewTicker(c.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.socket.Close()
		close(c.written)
	}()

	for {
		select {
		case ev, ok := <-c.session.Events():
			_ = c.socket.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if !ok {
				_ = c.socket.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"))
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				c.logger.Error("failed to encode event", slog.String("type", string(ev.Type)), slog.Any("error", err))
				continue
			}
			if err := c.socket.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Debug("write failed", slog.Any("error", err))
				return
			}

		case <-ticker.C:
			_ = c.socket.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
