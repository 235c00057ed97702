package stream

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/foxseedlab/kikitori/internal/stream"
	"github.com/gorilla/websocket"
)

const closeGracePeriod = time.Second

type WebSocketDialer struct {
	dialer       *websocket.Dialer
	writeTimeout time.Duration
}

func NewWebSocketDialer(writeTimeout time.Duration) stream.Dialer {
	return &WebSocketDialer{
		dialer:       websocket.DefaultDialer,
		writeTimeout: writeTimeout,
	}
}

func (d *WebSocketDialer) Dial(ctx context.Context, url string, handler stream.Handler) (stream.Conn, error) {
	conn, resp, err := d.dialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: status %d: %w", url, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	slog.Info("stream connection opened", "url", url)

	c := &wsConn{
		conn:         conn,
		handler:      handler,
		writeTimeout: d.writeTimeout,
	}
	go c.readLoop()
	return c, nil
}

type wsConn struct {
	conn         *websocket.Conn
	handler      stream.Handler
	writeTimeout time.Duration

	mu     sync.Mutex
	closed bool
}

func (c *wsConn) SendChunk(chunk []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	if err := c.conn.WriteMessage(websocket.BinaryMessage, chunk); err != nil {
		return fmt.Errorf("send audio chunk: %w", err)
	}
	return nil
}

func (c *wsConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGracePeriod)); err != nil {
		slog.Debug("failed to send close frame", "error", err)
	}
	return c.conn.Close()
}

// markClosed reports whether the connection was still open, i.e. whether the
// caller observed an unexpected end of stream.
func (c *wsConn) markClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.closed = true
	_ = c.conn.Close()
	return true
}

func (c *wsConn) readLoop() {
	var seq uint64
	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			if !c.markClosed() {
				slog.Debug("stream read loop stopped after close", "error", err)
				return
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				slog.Warn("stream closed by server", "error", err)
			} else {
				slog.Error("stream connection lost", "error", err)
			}
			c.handler.OnDisconnect(err)
			return
		}
		if msgType != websocket.TextMessage {
			slog.Warn("dropping non-text stream frame", "message_type", msgType, "bytes", len(data))
			continue
		}
		seg, err := stream.ParseFrame(data, seq+1)
		if err != nil {
			slog.Warn("dropping malformed stream frame", "error", err, "bytes", len(data))
			continue
		}
		seq++
		if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
			slog.Debug("stream frame received", "seq", seg.Seq, "kind", seg.Kind)
		}
		c.handler.OnSegment(seg)
	}
}
