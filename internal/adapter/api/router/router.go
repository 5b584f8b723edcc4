package router

import (
	"github.com/labstack/echo/v4"

	"pokeswap/internal/adapter/api/handler"
)

func Setup(e *echo.Echo, wsHandler *handler.WebSocketHandler) {
	SetupAuthRouter(e)
	SetupCardRouter(e)
	SetupTradeRouter(e)
	SetupShareRouter(e)
	SetupWebSocketRouter(e, wsHandler)
	SetupHealthRouter(e)
}
