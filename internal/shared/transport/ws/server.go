package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"FourEmpires/modules/kit/logx"
	"FourEmpires/modules/kit/tracex"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 观战流是只读广播，不做同源限制。
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client 一条观战连接。写走带缓冲的单 goroutine，读循环只消费控制帧。
type Client struct {
	gameID string
	conn   *websocket.Conn
	send   chan []byte

	closeOnce sync.Once
}

func (c *Client) trySend(data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// Server 观战入口：GET /watch?game_id=xxx 升级成 websocket 订阅。
type Server struct {
	hub    *Hub
	logger logx.Logger
	http   *http.Server
}

func NewServer(addr string, hub *Hub, logger logx.Logger) *Server {
	if logger == nil {
		logger = logx.NewZapLogger(nil)
	}
	s := &Server{
		hub:    hub,
		logger: logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/watch", s.handleWatch)
	s.http = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

func (s *Server) Start() error {
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.http.Shutdown(ctx)
}

func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	ctx := tracex.WithTraceID(r.Context(), tracex.NewTraceID())
	log := s.logger.WithContext(ctx)

	gameID := r.URL.Query().Get("game_id")
	if gameID == "" {
		http.Error(w, "game_id is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("ws upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		gameID: gameID,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
	}
	s.hub.Subscribe(gameID, client)
	log.Info("observer connected", zap.String("game_id", gameID), zap.String("remote", conn.RemoteAddr().String()))

	go s.writePump(client)
	go s.readPump(client, log)
}

func (s *Server) writePump(c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump 只处理 pong/close；观战端不上行业务数据。
func (s *Server) readPump(c *Client, log logx.Logger) {
	defer func() {
		s.hub.Unsubscribe(c)
		c.close()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug("observer read error", zap.Error(err))
			}
			return
		}
	}
}
