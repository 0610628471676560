package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"

	"github.com/ridesync/ridesync/pkg/logger"
	"github.com/ridesync/ridesync/pkg/websocket"
)

// HandleWebSocket handles GET /api/ws. Clients connect with a channel
// query parameter, their rider or driver id, and receive ride
// lifecycle notifications published to that channel.
func (h *Handlers) HandleWebSocket(c *gin.Context) {
	upgrader := gorilla.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true // Allow all origins in development
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Error("Failed to upgrade to WebSocket", logger.Err(err))
		return
	}

	channel := c.Query("channel")
	if channel == "" {
		h.Logger.Warn("Missing channel in WebSocket connection")
		conn.Close()
		return
	}

	client := websocket.NewClient(h.Hub, conn, channel, h.Logger)
	h.Hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
