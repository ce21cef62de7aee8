package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 5 * time.Second

// Hub keeps the open admin websocket connections and broadcasts events to them.
type Hub struct {
	connections map[string]*websocket.Conn
	mutex       sync.Mutex
	log         *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		connections: make(map[string]*websocket.Conn),
		log:         log,
	}
}

func (h *Hub) Register(conn *websocket.Conn) string {
	id := uuid.NewString()

	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.connections[id] = conn
	return id
}

func (h *Hub) Unregister(id string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if conn, exists := h.connections[id]; exists && conn != nil {
		_ = conn.Close()
		delete(h.connections, id)
	}
}

// Publish writes ev to every connection. Connections that fail are dropped.
// Writes happen under the hub lock, which also serialises writers per connection.
func (h *Hub) Publish(_ context.Context, ev Event) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for id, conn := range h.connections {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(ev); err != nil {
			h.log.Debug("dropping admin socket", zap.String("conn_id", id), zap.Error(err))
			_ = conn.Close()
			delete(h.connections, id)
		}
	}
	return nil
}

func (h *Hub) OnlineCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	return len(h.connections)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for id, conn := range h.connections {
		if conn != nil {
			_ = conn.Close()
		}
		delete(h.connections, id)
	}
}
