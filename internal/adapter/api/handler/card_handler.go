package handler

import (
	"io"
	"strconv"

	"github.com/labstack/echo/v4"

	"pokeswap/internal/usecase"
	"pokeswap/pkg/errors"
	"pokeswap/pkg/logger"
	"pokeswap/pkg/response"
)

const maxImageSize = 5 * 1024 * 1024

type CardHandler struct {
	collectionUseCase *usecase.CollectionUseCase
}

func NewCardHandler(collectionUseCase *usecase.CollectionUseCase) *CardHandler {
	return &CardHandler{
		collectionUseCase: collectionUseCase,
	}
}

func (h *CardHandler) AddCard(c echo.Context) error {
	username := c.FormValue("username")
	if username == "" {
		return response.Error(c, errors.BadRequest("Username is required", nil))
	}

	image, err := readFormImage(c, "image")
	if err != nil {
		return response.Error(c, err)
	}

	card, totalValue, err := h.collectionUseCase.AddCard(c.Request().Context(), username, usecase.AddCardInput{
		Name:      c.FormValue("name"),
		Price:     parsePrice(c.FormValue("price")),
		Condition: parseCondition(c.FormValue("condition")),
		Filename:  image.filename,
		ImageType: image.fileType,
		Image:     image.data,
	})
	if err != nil {
		logger.Error("Failed to add card for %s: %v", username, err)
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"card":       card,
		"totalValue": totalValue,
	})
}

// RecognizeName guesses a card name from an uploaded image without saving a
// card, so the client can prefill the form.
func (h *CardHandler) RecognizeName(c echo.Context) error {
	image, err := readFormImage(c, "image")
	if err != nil {
		return response.Error(c, err)
	}

	name, err := h.collectionUseCase.RecognizeName(c.Request().Context(), image.filename, image.data)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"name": name,
	})
}

type formImage struct {
	filename string
	fileType string
	data     []byte
}

func readFormImage(c echo.Context, field string) (*formImage, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return nil, errors.BadRequest("Card image is required", err)
	}

	if file.Size > maxImageSize {
		return nil, errors.BadRequest("Image exceeds the 5MB upload limit", nil)
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}

	return &formImage{
		filename: file.Filename,
		fileType: file.Header.Get("Content-Type"),
		data:     data,
	}, nil
}

func parsePrice(raw string) float64 {
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return price
}

func parseCondition(raw string) int {
	condition, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return condition
}
