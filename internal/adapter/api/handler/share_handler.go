package handler

import (
	"github.com/labstack/echo/v4"

	"pokeswap/internal/usecase"
	"pokeswap/pkg/response"
)

type ShareHandler struct {
	shareUseCase *usecase.ShareUseCase
}

func NewShareHandler(shareUseCase *usecase.ShareUseCase) *ShareHandler {
	return &ShareHandler{
		shareUseCase: shareUseCase,
	}
}

// GetSharedCollection serves the public share link. No access check; sharing
// is intentionally open to anyone holding the URL.
func (h *ShareHandler) GetSharedCollection(c echo.Context) error {
	collection, err := h.shareUseCase.SharedCollection(c.Request().Context(), c.Param("username"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"collection": collection,
	})
}
