package handler

import (
	"net/http"

	gorilla "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"pokeswap/internal/domain/entity"
	"pokeswap/internal/infrastructure/websocket"
	"pokeswap/pkg/errors"
	"pokeswap/pkg/logger"
	"pokeswap/pkg/response"
)

var upgrader = gorilla.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	manager *websocket.Manager
}

func NewWebSocketHandler(manager *websocket.Manager) *WebSocketHandler {
	return &WebSocketHandler{
		manager: manager,
	}
}

// HandleConnection upgrades the request and registers the user for trade
// notifications. Identity is the bare username, same as everywhere else.
func (h *WebSocketHandler) HandleConnection(c echo.Context) error {
	username := entity.NormalizeUsername(c.QueryParam("username"))
	if username == "" {
		return response.Error(c, errors.BadRequest("Username is required", nil))
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("Websocket upgrade failed for %s: %v", username, err)
		return err
	}

	client := &websocket.Client{
		Username: username,
		Conn:     conn,
		Send:     make(chan []byte, 16),
	}

	h.manager.Register <- client

	go client.WritePump()
	go client.ReadPump(h.manager)

	return nil
}
