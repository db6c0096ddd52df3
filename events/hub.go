package events

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/lotusgarden/pos-app/models"
	"github.com/lotusgarden/pos-app/utils"
)

// Event types pushed to connected terminals.
const (
	EventTableUpdate = "table_update"
	EventOrderUpdate = "order_update"
	EventOrderPaid   = "order_paid"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds every connected terminal so table and order changes reach the
// floor plan views without polling.
type Hub struct {
	clients map[*websocket.Conn]struct{}
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]struct{}),
}

// RegisterClient adds a terminal connection to the hub.
func RegisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = struct{}{}
}

// UnregisterClient drops a terminal connection and closes it.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastTableUpdate pushes a table status change to every terminal.
func BroadcastTableUpdate(table models.Table) {
	broadcast(Message{
		Event: EventTableUpdate,
		Data:  table,
	})
}

// BroadcastOrderUpdate pushes an active order create/update.
func BroadcastOrderUpdate(order models.Order) {
	broadcast(Message{
		Event: EventOrderUpdate,
		Data:  order,
	})
}

// BroadcastOrderPaid pushes a completed payment with the freed table status.
func BroadcastOrderPaid(history models.OrderHistory, tableStatus string) {
	broadcast(Message{
		Event: EventOrderPaid,
		Data: map[string]interface{}{
			"orderHistory": history,
			"tableStatus":  tableStatus,
		},
	})
}

func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		if utils.ErrorLogger != nil {
			utils.ErrorLogger.Printf("Error marshaling event: %v", err)
		}
		return
	}

	for conn := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			if utils.ErrorLogger != nil {
				utils.ErrorLogger.Printf("Error sending event to terminal: %v", err)
			}
		}
	}
}
