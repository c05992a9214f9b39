package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/resto-panel/live"
	"github.com/yeremiapane/resto-panel/middlewares"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // access is already gated by the token
	},
}

// LiveHandler -> WebSocket endpoint, one connection per panel
func LiveHandler(hub *live.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := middlewares.EntrepriseID(c)
		if tenantID == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		hub.RegisterClient(ws, tenantID)

		// read until the panel disconnects
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				break
			}
		}
		hub.UnregisterClient(ws)
	}
}
