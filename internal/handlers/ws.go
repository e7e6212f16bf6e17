package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"MedMonitor/internal/config"
	"MedMonitor/internal/middleware"
	"MedMonitor/internal/ws"
)

// WSHandler апгрейдит /ws/{userID} до WebSocket и регистрирует соединение в хабе.
// Токен приходит query-параметром: браузерный WebSocket не умеет заголовки.
type WSHandler struct {
	hub      *ws.Hub
	logger   *zap.SugaredLogger
	cfg      *config.Config
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *ws.Hub, logger *zap.SugaredLogger, cfg *config.Config) *WSHandler {
	return &WSHandler{
		hub:    hub,
		logger: logger,
		cfg:    cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// клиенты ходят с произвольного origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	claims, err := middleware.ParseToken(r.URL.Query().Get("token"), middleware.TokenKindAccess, h.cfg.AuthSecret)
	if err != nil || claims.UserID != userID {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnw("ws: upgrade failed", "user_id", userID, "error", err)
		return
	}

	h.hub.Register(userID, conn)

	// читаем до закрытия: входящие фреймы игнорируются, но read-цикл
	// нужен для обработки control-фреймов и обнаружения обрыва
	go func() {
		defer h.hub.Unregister(userID, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
