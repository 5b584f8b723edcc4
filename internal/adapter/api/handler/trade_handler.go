package handler

import (
	"github.com/labstack/echo/v4"

	"pokeswap/internal/usecase"
	"pokeswap/pkg/logger"
	"pokeswap/pkg/response"
)

type TradeHandler struct {
	tradeUseCase *usecase.TradeUseCase
}

func NewTradeHandler(tradeUseCase *usecase.TradeUseCase) *TradeHandler {
	return &TradeHandler{
		tradeUseCase: tradeUseCase,
	}
}

// CreateTrade accepts a multipart form: either offeredCardId referencing a
// card in the requester's collection, or the fields of a new card with an
// optional offeredImage upload. The two variants are decided here, once, and
// passed into the engine as a typed OfferSpec.
func (h *TradeHandler) CreateTrade(c echo.Context) error {
	input := usecase.CreateTradeInput{
		OwnerUsername:     c.FormValue("ownerUsername"),
		RequesterUsername: c.FormValue("requesterUsername"),
		OwnerCardID:       c.FormValue("ownerCardId"),
	}

	if offeredCardID := c.FormValue("offeredCardId"); offeredCardID != "" {
		input.Offer = usecase.OfferSpec{ExistingCardID: offeredCardID}
	} else {
		spec := &usecase.NewCardSpec{
			Name:      c.FormValue("offeredName"),
			Price:     parsePrice(c.FormValue("offeredPrice")),
			Condition: parseCondition(c.FormValue("offeredCondition")),
		}

		// The image is optional for a new-card offer.
		if image, err := readFormImage(c, "offeredImage"); err == nil {
			spec.Filename = image.filename
			spec.ImageType = image.fileType
			spec.Image = image.data
		}

		input.Offer = usecase.OfferSpec{NewCard: spec}
	}

	trade, err := h.tradeUseCase.CreateTrade(c.Request().Context(), input)
	if err != nil {
		logger.Error("Failed to create trade from %s to %s: %v", input.RequesterUsername, input.OwnerUsername, err)
		return response.Error(c, err)
	}

	return response.Created(c, map[string]interface{}{
		"trade": trade,
	})
}

func (h *TradeHandler) ListPending(c echo.Context) error {
	trades, err := h.tradeUseCase.ListPending(c.Request().Context(), c.Param("username"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"trades": trades,
	})
}

func (h *TradeHandler) AcceptTrade(c echo.Context) error {
	return h.resolve(c, usecase.DecisionAccept)
}

func (h *TradeHandler) DeclineTrade(c echo.Context) error {
	return h.resolve(c, usecase.DecisionDecline)
}

func (h *TradeHandler) resolve(c echo.Context, decision string) error {
	result, err := h.tradeUseCase.Resolve(c.Request().Context(), c.Param("username"), c.Param("tradeId"), decision)
	if err != nil {
		logger.Error("Failed to %s trade %s for %s: %v", decision, c.Param("tradeId"), c.Param("username"), err)
		return response.Error(c, err)
	}

	return response.Success(c, result)
}
