package router

import (
	"github.com/labstack/echo/v4"

	"pokeswap/internal/adapter/api/handler"
)

func SetupTradeRouter(e *echo.Echo) {
	tradeHandler := handler.GetTradeHandler()

	trades := e.Group("/api/trades")
	trades.POST("/create", tradeHandler.CreateTrade)
	trades.GET("/:username", tradeHandler.ListPending)
	trades.POST("/:username/:tradeId/accept", tradeHandler.AcceptTrade)
	trades.POST("/:username/:tradeId/decline", tradeHandler.DeclineTrade)
}
