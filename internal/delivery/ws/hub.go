package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/gorilla/websocket"
)

// writeWait bounds a single write so a stalled client cannot hold the hub.
const writeWait = 5 * time.Second

// Hub groups websocket connections into rooms, one room per lecture.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]map[*websocket.Conn]bool
	log   *logger.ZapLogger
}

func NewHub(log *logger.ZapLogger) *Hub {
	return &Hub{
		rooms: make(map[string]map[*websocket.Conn]bool),
		log:   log,
	}
}

func (h *Hub) Register(roomID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[*websocket.Conn]bool)
	}
	h.rooms[roomID][conn] = true

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "[hub] register",
		Fields:  map[string]any{"room": roomID, "conns": len(h.rooms[roomID])},
	})
}

func (h *Hub) Unregister(roomID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(roomID, conn)
}

// drop removes and closes conn. Caller holds h.mu.
func (h *Hub) drop(roomID string, conn *websocket.Conn) {
	conns, ok := h.rooms[roomID]
	if !ok {
		return
	}

	if _, ok := conns[conn]; ok {
		delete(conns, conn)
		conn.Close()
	}

	if len(conns) == 0 {
		delete(h.rooms, roomID)
	}
}

func (h *Hub) roomSize(roomID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[roomID])
}

// SendToRoom writes msg to every connection in the room. A websocket conn
// allows one writer at a time, so writes go under the hub lock; a conn whose
// write fails or times out is dropped.
func (h *Hub) SendToRoom(roomID string, msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.rooms[roomID] {
		h.write(roomID, conn, msg)
	}
}

// SendTo writes msg to a single registered connection.
func (h *Hub) SendTo(roomID string, conn *websocket.Conn, msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.rooms[roomID][conn] {
		return
	}
	h.write(roomID, conn, msg)
}

func (h *Hub) write(roomID string, conn *websocket.Conn, msg []byte) {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		h.log.Log(logger.LogEntry{
			Level:   "error",
			Message: "[hub] send failed, dropping conn",
			Error:   err,
			Fields:  map[string]any{"room": roomID},
		})
		h.drop(roomID, conn)
	}
}

var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}
