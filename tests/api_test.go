package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokeswap/internal/adapter/api"
	"pokeswap/internal/adapter/api/handler"
	"pokeswap/internal/adapter/api/router"
	"pokeswap/internal/adapter/repository"
	"pokeswap/internal/domain/service"
	"pokeswap/internal/infrastructure/storage"
	"pokeswap/internal/usecase"
	"pokeswap/pkg/utils"
)

// newTestServer wires the full HTTP stack over a throwaway data directory:
// real file store, real journal, local image storage.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	dataDir := t.TempDir()

	userRepo, err := repository.NewFileUserRepository(dataDir)
	require.NoError(t, err)
	journal, err := repository.NewFileExchangeJournal(dataDir)
	require.NoError(t, err)
	uploader, err := storage.NewLocalStorageClient(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)

	nameService := service.NewCardNameService()
	locks := utils.NewKeyMutex()

	authUseCase := usecase.NewAuthUseCase(userRepo)
	collectionUseCase := usecase.NewCollectionUseCase(userRepo, uploader, nameService, locks)
	shareUseCase := usecase.NewShareUseCase(userRepo)
	tradeUseCase := usecase.NewTradeUseCase(userRepo, journal, uploader, nameService, nil, locks)

	require.NoError(t, tradeUseCase.Recover(context.Background()))

	handler.Setup(authUseCase, collectionUseCase, tradeUseCase, shareUseCase)

	e := echo.New()
	e.Validator = api.NewValidator()
	router.SetupAuthRouter(e)
	router.SetupCardRouter(e)
	router.SetupTradeRouter(e)
	router.SetupShareRouter(e)
	router.SetupHealthRouter(e)

	return e
}

func doJSON(e *echo.Echo, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func doMultipart(t *testing.T, e *echo.Echo, path string, fields map[string]string, imageField, imageName string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if imageField != "" {
		part, err := writer.CreateFormFile(imageField, imageName)
		require.NoError(t, err)
		_, err = part.Write([]byte{0x89, 0x50, 0x4e, 0x47})
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var envelope struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, "body: %s", rec.Body.String())
	return envelope.Data
}

func TestHealthCheck(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Server is running")
}

func TestSignUpAndLoginFlow(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/users/signup", map[string]string{"username": "Ash"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	data := decodeData(t, rec)
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "ash", user["username"])
	assert.Equal(t, "eevee", user["profilePic"])

	// Duplicate signup conflicts regardless of casing.
	rec = doJSON(e, http.MethodPost, "/api/users/signup", map[string]string{"username": "ASH"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/users/login", map[string]string{"username": "ash"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/users/login", map[string]string{"username": "nobody"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSignUpValidation(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/users/signup", map[string]string{"username": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/users/signup", map[string]string{
		"username":   "brock",
		"profilePic": "mewtwo",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddCardAndShare(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/users/signup", map[string]string{"username": "ash"})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Name omitted: guessed from the filename.
	rec = doMultipart(t, e, "/api/cards/add", map[string]string{
		"username": "ash",
		"price":    "20.5",
	}, "image", "pikachu-holo.png")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := decodeData(t, rec)
	card := data["card"].(map[string]interface{})
	assert.Equal(t, "Pikachu", card["name"])
	assert.Equal(t, 20.5, card["price"])
	assert.Equal(t, 5.0, card["condition"])
	assert.Equal(t, 20.5, data["totalValue"])
	assert.True(t, strings.HasPrefix(card["imageUrl"].(string), "http://localhost:8080/uploads/"))

	// Missing image is rejected up front.
	rec = doMultipart(t, e, "/api/cards/add", map[string]string{"username": "ash"}, "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// The public share view needs no credentials.
	rec = doJSON(e, http.MethodGet, "/api/share/ash", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	shared := decodeData(t, rec)["collection"].(map[string]interface{})
	assert.Equal(t, "ash", shared["username"])
	assert.Len(t, shared["cards"], 1)

	rec = doJSON(e, http.MethodGet, "/api/share/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecognizeName(t *testing.T) {
	e := newTestServer(t)

	rec := doMultipart(t, e, "/api/cards/recognize", nil, "image", "my_charizard.JPG")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Charizard", decodeData(t, rec)["name"])
}

func TestTradeFlowOverHTTP(t *testing.T) {
	e := newTestServer(t)

	for _, username := range []string{"ash", "misty"} {
		rec := doJSON(e, http.MethodPost, "/api/users/signup", map[string]string{"username": username})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doMultipart(t, e, "/api/cards/add", map[string]string{
		"username": "ash", "name": "Pikachu", "price": "20", "condition": "9",
	}, "image", "pikachu.png")
	require.Equal(t, http.StatusOK, rec.Code)
	pikachuID := decodeData(t, rec)["card"].(map[string]interface{})["id"].(string)

	rec = doMultipart(t, e, "/api/cards/add", map[string]string{
		"username": "misty", "name": "Squirtle", "price": "15", "condition": "8",
	}, "image", "squirtle.png")
	require.Equal(t, http.StatusOK, rec.Code)
	squirtleID := decodeData(t, rec)["card"].(map[string]interface{})["id"].(string)

	rec = doMultipart(t, e, "/api/trades/create", map[string]string{
		"ownerUsername":     "ash",
		"requesterUsername": "misty",
		"ownerCardId":       pikachuID,
		"offeredCardId":     squirtleID,
	}, "", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	trade := decodeData(t, rec)["trade"].(map[string]interface{})
	tradeID := trade["id"].(string)
	assert.Equal(t, "pending", trade["status"])

	rec = doJSON(e, http.MethodGet, "/api/trades/ash", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData(t, rec)["trades"], 1)

	rec = doJSON(e, http.MethodPost, fmt.Sprintf("/api/trades/ash/%s/accept", tradeID), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Accepting again is rejected as already handled.
	rec = doJSON(e, http.MethodPost, fmt.Sprintf("/api/trades/ash/%s/accept", tradeID), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Cards swapped hands.
	rec = doJSON(e, http.MethodGet, "/api/share/ash", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ashCards := decodeData(t, rec)["collection"].(map[string]interface{})["cards"].([]interface{})
	require.Len(t, ashCards, 1)
	assert.Equal(t, "Squirtle", ashCards[0].(map[string]interface{})["name"])

	rec = doJSON(e, http.MethodGet, "/api/share/misty", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	mistyCards := decodeData(t, rec)["collection"].(map[string]interface{})["cards"].([]interface{})
	require.Len(t, mistyCards, 1)
	assert.Equal(t, "Pikachu", mistyCards[0].(map[string]interface{})["name"])
}

func TestDeclineTradeOverHTTP(t *testing.T) {
	e := newTestServer(t)

	for _, username := range []string{"ash", "misty"} {
		rec := doJSON(e, http.MethodPost, "/api/users/signup", map[string]string{"username": username})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doMultipart(t, e, "/api/cards/add", map[string]string{
		"username": "ash", "name": "Pikachu", "price": "20",
	}, "image", "pikachu.png")
	require.Equal(t, http.StatusOK, rec.Code)
	pikachuID := decodeData(t, rec)["card"].(map[string]interface{})["id"].(string)

	// New-card offer without a stored counterpart.
	rec = doMultipart(t, e, "/api/trades/create", map[string]string{
		"ownerUsername":     "ash",
		"requesterUsername": "misty",
		"ownerCardId":       pikachuID,
		"offeredName":       "Staryu",
		"offeredPrice":      "5",
	}, "offeredImage", "staryu.png")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	tradeID := decodeData(t, rec)["trade"].(map[string]interface{})["id"].(string)

	rec = doJSON(e, http.MethodPost, fmt.Sprintf("/api/trades/ash/%s/decline", tradeID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Nothing moved.
	rec = doJSON(e, http.MethodGet, "/api/share/ash", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData(t, rec)["collection"].(map[string]interface{})["cards"], 1)
}
