package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait    = 5 * time.Second
	pingInterval = 30 * time.Second
)

// Frame — исходящее сообщение live-канала: {"type": ..., "data": ...}.
type Frame struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub держит по одному активному соединению на пользователя и рассылает кадры.
// Повторное подключение пользователя вытесняет предыдущее соединение.
type Hub struct {
	mu     sync.RWMutex
	conns  map[int64]*websocket.Conn
	logger *zap.SugaredLogger
}

func NewHub(logger *zap.SugaredLogger) *Hub {
	return &Hub{
		conns:  make(map[int64]*websocket.Conn),
		logger: logger,
	}
}

// Register привязывает соединение к пользователю и запускает ping-горутину.
func (h *Hub) Register(userID int64, conn *websocket.Conn) {
	h.mu.Lock()
	if old, ok := h.conns[userID]; ok {
		_ = old.Close()
	}
	h.conns[userID] = conn
	h.mu.Unlock()

	h.logger.Infow("ws: client connected", "user_id", userID)

	go h.ping(userID, conn)
}

// Unregister закрывает и забывает соединение, если оно всё ещё текущее.
func (h *Hub) Unregister(userID int64, conn *websocket.Conn) {
	h.mu.Lock()
	if cur, ok := h.conns[userID]; ok && cur == conn {
		delete(h.conns, userID)
	}
	h.mu.Unlock()
	_ = conn.Close()
	h.logger.Infow("ws: client disconnected", "user_id", userID)
}

// Send доставляет кадр подключённому пользователю. Отсутствие соединения — не ошибка.
func (h *Hub) Send(userID int64, f Frame) {
	h.mu.RLock()
	conn, ok := h.conns[userID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	payload, err := json.Marshal(f)
	if err != nil {
		h.logger.Errorw("ws: marshal frame", "error", err)
		return
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		h.logger.Warnw("ws: write failed, dropping client", "user_id", userID, "error", err)
		h.Unregister(userID, conn)
	}
}

// Connected сообщает, слушает ли пользователь live-канал.
func (h *Hub) Connected(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.conns[userID]
	return ok
}

// ConnectedUsers — пользователи с активным соединением.
func (h *Hub) ConnectedUsers() []int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]int64, 0, len(h.conns))
	for id := range h.conns {
		out = append(out, id)
	}
	return out
}

// ping периодически шлёт control-фреймы; умершее соединение снимается с учёта.
func (h *Hub) ping(userID int64, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for range ticker.C {
		h.mu.RLock()
		cur, ok := h.conns[userID]
		h.mu.RUnlock()
		if !ok || cur != conn {
			return
		}
		if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
			h.logger.Warnw("ws: ping failed", "user_id", userID, "error", err)
			h.Unregister(userID, conn)
			return
		}
	}
}
