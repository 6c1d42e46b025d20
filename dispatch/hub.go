package dispatch

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/foodcart-app/utils"
)

const (
	writeWait = 5 * time.Second
	// sendBuffer is how many messages a dashboard may fall behind before it is dropped.
	sendBuffer = 16
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub fans order events out to the managers' dashboards. Each connection has its
// own queue and writer goroutine, so Publish never waits on the network.
type Hub struct {
	clients  map[*websocket.Conn]chan []byte
	mutex    sync.RWMutex
	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]chan []byte),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (h *Hub) Register(conn *websocket.Conn) {
	send := make(chan []byte, sendBuffer)
	h.mutex.Lock()
	h.clients[conn] = send
	h.mutex.Unlock()
	go h.writePump(conn, send)
}

// Unregister stops the writer and closes the connection. Repeated calls are no-ops.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if send, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(send)
		conn.Close()
	}
}

// Clients returns the number of connected dashboards.
func (h *Hub) Clients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// Publish queues the event for every client. A client whose queue is full is dropped.
func (h *Hub) Publish(event string, data interface{}) {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		utils.ErrorLogger.WithError(err).WithField("event", event).Error("marshal feed message")
		return
	}

	h.mutex.RLock()
	var lagging []*websocket.Conn
	for conn, send := range h.clients {
		select {
		case send <- payload:
		default:
			lagging = append(lagging, conn)
		}
	}
	h.mutex.RUnlock()

	for _, conn := range lagging {
		utils.ErrorLogger.WithField("event", event).WithField("remote", conn.RemoteAddr().String()).Error("feed client too slow, dropping")
		h.Unregister(conn)
	}
	utils.InfoLogger.WithField("event", event).Debugf("Broadcast to %d clients", h.Clients())
}

func (h *Hub) writePump(conn *websocket.Conn, send <-chan []byte) {
	for payload := range send {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			utils.ErrorLogger.WithError(err).Error("send feed message")
			h.Unregister(conn)
			return
		}
	}
}

// ServeWS upgrades the request and keeps the connection until the client leaves.
func (h *Hub) ServeWS(c *gin.Context) {
	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.WithError(err).Error("websocket upgrade failed")
		return
	}
	h.Register(ws)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
	h.Unregister(ws)
}
