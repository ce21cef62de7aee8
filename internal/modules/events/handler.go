package events

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type Handler struct {
	hub *Hub
	log *zap.Logger
}

func NewHandler(hub *Hub, log *zap.Logger) *Handler {
	return &Handler{hub: hub, log: log}
}

// RegisterRoutes expects admin to already require an admin session.
func (h *Handler) RegisterRoutes(admin gin.IRoutes) {
	admin.GET("/ws", h.Serve)
}

// Serve upgrades the request and keeps the socket registered until the client goes away.
func (h *Handler) Serve(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	id := h.hub.Register(conn)
	defer h.hub.Unregister(id)

	conn.SetReadLimit(512)
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}
