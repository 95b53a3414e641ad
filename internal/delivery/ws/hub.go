package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/BogdanParamon/project-portofolio-management-be/internal/ports"
	"github.com/Vovarama1992/go-utils/logger"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	sendBuffer = 16
	writeWait  = 5 * time.Second
)

// Hub tracks the websocket connections of every project room. Each
// connection owns one subscription; its writer goroutine forwards project
// ids from the subscription channel to the socket.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]map[*websocket.Conn]struct{}
	subs  ports.Subscriptions
	log   *logger.ZapLogger
}

func NewHub(subs ports.Subscriptions, log *logger.ZapLogger) *Hub {
	return &Hub{
		rooms: make(map[uuid.UUID]map[*websocket.Conn]struct{}),
		subs:  subs,
		log:   log,
	}
}

// Register joins conn to the project room and starts its writer. The
// returned func undoes both and is safe to call more than once.
func (h *Hub) Register(projectID uuid.UUID, conn *websocket.Conn) func() {
	ch := make(chan string, sendBuffer)
	handle := h.subs.Subscribe(projectID, ch)

	h.mu.Lock()
	if _, ok := h.rooms[projectID]; !ok {
		h.rooms[projectID] = make(map[*websocket.Conn]struct{})
	}
	h.rooms[projectID][conn] = struct{}{}
	n := len(h.rooms[projectID])
	h.mu.Unlock()

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "ws subscribed",
		Fields:  map[string]any{"projectID": projectID.String(), "conns": n},
	})

	done := make(chan struct{})
	go h.writer(projectID, conn, ch, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			h.subs.Unsubscribe(handle)
			close(done)
			h.unregister(projectID, conn)
		})
	}
}

func (h *Hub) writer(projectID uuid.UUID, conn *websocket.Conn, ch <-chan string, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case msg := <-ch:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				h.log.Log(logger.LogEntry{
					Level:   "warn",
					Message: "ws send failed",
					Error:   err,
					Fields:  map[string]any{"projectID": projectID.String()},
				})
				_ = conn.Close()
				return
			}
		}
	}
}

func (h *Hub) unregister(projectID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.rooms[projectID]
	if !ok {
		return
	}
	if _, ok := conns[conn]; ok {
		delete(conns, conn)
		_ = conn.Close()
	}
	if len(conns) == 0 {
		delete(h.rooms, projectID)
	}
}

func (h *Hub) Conns(projectID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[projectID])
}

// Close drops every connection. Reader loops then fail and run their own
// cleanup.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, conns := range h.rooms {
		for conn := range conns {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"),
				time.Now().Add(writeWait))
			_ = conn.Close()
		}
	}
	h.rooms = make(map[uuid.UUID]map[*websocket.Conn]struct{})
}

var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}
