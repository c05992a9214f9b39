package live

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yeremiapane/resto-panel/models"
	"github.com/yeremiapane/resto-panel/utils"
)

const (
	writeWait = 5 * time.Second
	// sendBuffer is how many events a panel may lag behind before it is dropped.
	sendBuffer = 32
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// panel is one connected websocket. Only its writePump goroutine writes to conn.
type panel struct {
	conn     *websocket.Conn
	tenantID string
	send     chan []byte
}

// Hub holds the connected panels of every entreprise.
type Hub struct {
	clients map[*websocket.Conn]*panel
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*panel)}
}

// RegisterClient adds a connection for one entreprise and starts its writer.
func (h *Hub) RegisterClient(conn *websocket.Conn, tenantID string) {
	p := &panel{conn: conn, tenantID: tenantID, send: make(chan []byte, sendBuffer)}

	h.mutex.Lock()
	h.clients[conn] = p
	h.mutex.Unlock()

	go h.writePump(p)
}

// UnregisterClient releases the connection. The writer closes the socket.
func (h *Hub) UnregisterClient(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.remove(conn)
}

// remove must be called with the mutex held.
func (h *Hub) remove(conn *websocket.Conn) {
	if p, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(p.send)
	}
}

// ClientCount -> number of panels connected for tenantID
func (h *Hub) ClientCount(tenantID string) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	n := 0
	for _, p := range h.clients {
		if p.tenantID == tenantID {
			n++
		}
	}
	return n
}

// PublishOrderEvent sends the order to every panel of its entreprise.
func (h *Hub) PublishOrderEvent(tenantID, event string, order *models.Order) {
	h.Broadcast(tenantID, Message{Event: event, Data: order})
}

// PublishClientEvent is PublishOrderEvent for client records.
func (h *Hub) PublishClientEvent(tenantID, event string, client *models.Client) {
	h.Broadcast(tenantID, Message{Event: event, Data: client})
}

// Broadcast queues msg for the tenant's panels and never blocks on a socket.
// A panel whose queue is full is dropped.
func (h *Hub) Broadcast(tenantID string, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling live message: %v", err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, p := range h.clients {
		if p.tenantID != tenantID {
			continue
		}
		select {
		case p.send <- data:
		default:
			utils.ErrorLogger.Printf("Live panel of %s is too slow, dropping it", tenantID)
			h.remove(conn)
		}
	}
}

func (h *Hub) writePump(p *panel) {
	defer p.conn.Close()

	for data := range p.send {
		p.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("Error sending live message, dropping client: %v", err)
			h.UnregisterClient(p.conn)
			// drain until remove closes the channel
			for range p.send {
			}
			return
		}
	}
}
