package router

import (
	"github.com/labstack/echo/v4"

	"pokeswap/internal/adapter/api/handler"
)

func SetupCardRouter(e *echo.Echo) {
	cardHandler := handler.GetCardHandler()

	cards := e.Group("/api/cards")
	cards.POST("/add", cardHandler.AddCard)
	cards.POST("/recognize", cardHandler.RecognizeName)
}
