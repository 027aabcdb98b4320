package server

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"cowrie/game"
)

// Hub 连接表与广播分组（按房间号），实现 game.Broadcaster
// 投递只做非阻塞入队，发送队列满的连接会丢消息但不影响其他成员
type Hub struct {
	mu     sync.RWMutex
	conns  map[game.Handle]*ClientConn
	groups map[string]map[game.Handle]struct{}

	log *zap.Logger
}

// NewHub 创建空 Hub
func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		conns:  make(map[game.Handle]*ClientConn),
		groups: make(map[string]map[game.Handle]struct{}),
		log:    log,
	}
}

// Register 登记新连接
func (h *Hub) Register(id game.Handle, c *ClientConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[id] = c
}

// Unregister 注销连接并关闭发送队列；之后不会再有入队
func (h *Hub) Unregister(id game.Handle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.conns[id]
	if !ok {
		return
	}
	delete(h.conns, id)
	for room, members := range h.groups {
		delete(members, id)
		if len(members) == 0 {
			delete(h.groups, room)
		}
	}
	c.Close()
}

func (h *Hub) Subscribe(roomID string, id game.Handle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.groups[roomID]
	if !ok {
		members = make(map[game.Handle]struct{})
		h.groups[roomID] = members
	}
	members[id] = struct{}{}
}

func (h *Hub) Unsubscribe(roomID string, id game.Handle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.groups[roomID]
	if !ok {
		return
	}
	delete(members, id)
	if len(members) == 0 {
		delete(h.groups, roomID)
	}
}

// Send 发给单个连接
func (h *Hub) Send(id game.Handle, event string, payload any) {
	b, ok := h.encode(event, payload)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, ok := h.conns[id]; ok {
		h.enqueue(id, c, b)
	}
}

// Broadcast 发给房间分组内所有连接
func (h *Hub) Broadcast(roomID string, event string, payload any) {
	b, ok := h.encode(event, payload)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id := range h.groups[roomID] {
		if c, ok := h.conns[id]; ok {
			h.enqueue(id, c, b)
		}
	}
}

// GroupSize 分组内的连接数
func (h *Hub) GroupSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[roomID])
}

func (h *Hub) enqueue(id game.Handle, c *ClientConn, b []byte) {
	if !c.Enqueue(b) {
		h.log.Debug("send queue full, dropping message", zap.String("handle", string(id)))
	}
}

func (h *Hub) encode(event string, payload any) ([]byte, bool) {
	b, err := json.Marshal(outbound{Event: event, Data: payload})
	if err != nil {
		h.log.Error("encode outbound event", zap.String("event", event), zap.Error(err))
		return nil, false
	}
	return b, true
}
