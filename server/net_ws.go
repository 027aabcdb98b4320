package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"cowrie/config"
	"cowrie/game"
)

// ClientConn 负责发送（写）数据到客户端的轻量包装
type ClientConn struct {
	ws   *websocket.Conn
	send chan []byte

	closeOnce sync.Once
}

func NewClientConn(ws *websocket.Conn, buffer int) *ClientConn {
	return &ClientConn{
		ws:   ws,
		send: make(chan []byte, buffer),
	}
}

// Enqueue 将要发送的消息压入队列（非阻塞，满则丢弃并返回 false）
// 只能在 Hub 持锁期间调用，保证不会与 Close 并发
func (c *ClientConn) Enqueue(b []byte) bool {
	select {
	case c.send <- b:
		return true
	default:
		return false
	}
}

// Close 关闭发送队列，写协程随之退出并关闭底层连接
func (c *ClientConn) Close() {
	c.closeOnce.Do(func() { close(c.send) })
}

// writePump 独立协程，负责从 send 队列写出到 WS，并定期发送 ping
func (c *ClientConn) writePump(cfg config.WebSocketConfig) {
	ticker := time.NewTicker(cfg.PingPeriod())
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump 顺序读取客户端事件并交给分发器；同一连接的事件不会并发处理
func (c *ClientConn) readPump(h game.Handle, d *Dispatcher, cfg config.WebSocketConfig, log *zap.Logger) {
	c.ws.SetReadLimit(cfg.ReadLimit)
	_ = c.ws.SetReadDeadline(time.Now().Add(cfg.PongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(cfg.PongWait))
	})

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug("read error", zap.String("handle", string(h)), zap.Error(err))
			}
			return
		}
		var env Envelope
		if err := json.Unmarshal(payload, &env); err != nil || env.Event == "" {
			log.Debug("dropping malformed frame", zap.String("handle", string(h)))
			continue
		}
		d.Dispatch(h, env)
	}
}

// WSHandler WebSocket 接入：GET /ws
type WSHandler struct {
	hub      *Hub
	d        *Dispatcher
	cfg      config.WebSocketConfig
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *Hub, d *Dispatcher, cfg config.WebSocketConfig, log *zap.Logger) *WSHandler {
	return &WSHandler{
		hub: hub,
		d:   d,
		cfg: cfg,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// 客户端与静态页面同源部署，不在此处限制来源
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade error", zap.Error(err))
		return
	}

	h := game.Handle(uuid.NewString())
	client := NewClientConn(ws, s.cfg.SendBuffer)
	s.hub.Register(h, client)
	s.d.Connect(h)

	go client.writePump(s.cfg)
	client.readPump(h, s.d, s.cfg, s.log)

	// 读泵退出即断线：先做房间恢复，再注销连接
	s.d.Disconnect(h)
	s.hub.Unregister(h)
}
