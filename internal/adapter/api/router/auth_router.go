package router

import (
	"github.com/labstack/echo/v4"

	"pokeswap/internal/adapter/api/handler"
)

func SetupAuthRouter(e *echo.Echo) {
	authHandler := handler.GetAuthHandler()

	users := e.Group("/api/users")
	users.POST("/signup", authHandler.SignUp)
	users.POST("/login", authHandler.Login)
	users.GET("/:username", authHandler.GetAccount)
}
