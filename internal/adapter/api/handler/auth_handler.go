package handler

import (
	"github.com/labstack/echo/v4"

	"pokeswap/internal/usecase"
	"pokeswap/pkg/response"
)

type AuthHandler struct {
	authUseCase *usecase.AuthUseCase
}

func NewAuthHandler(authUseCase *usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

type signUpRequest struct {
	Username   string `json:"username" validate:"required"`
	ProfilePic string `json:"profilePic" validate:"omitempty,oneof=eevee squirtle charmander bulbasaur"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
}

func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.authUseCase.SignUp(c.Request().Context(), usecase.SignUpInput{
		Username:   req.Username,
		ProfilePic: req.ProfilePic,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, map[string]interface{}{
		"user": user,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.authUseCase.Login(c.Request().Context(), req.Username)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"user": user,
	})
}

func (h *AuthHandler) GetAccount(c echo.Context) error {
	user, err := h.authUseCase.GetAccount(c.Request().Context(), c.Param("username"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"user": user,
	})
}
