package events

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // terminals connect from the local network
	},
}

// Handler upgrades a terminal connection and keeps it registered until the
// peer goes away.
func Handler(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	RegisterClient(ws)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	UnregisterClient(ws)
}
