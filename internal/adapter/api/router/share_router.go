package router

import (
	"github.com/labstack/echo/v4"

	"pokeswap/internal/adapter/api/handler"
)

func SetupShareRouter(e *echo.Echo) {
	shareHandler := handler.GetShareHandler()

	e.GET("/api/share/:username", shareHandler.GetSharedCollection)
}
