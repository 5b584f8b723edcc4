package usecase

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"pokeswap/internal/domain/entity"
	"pokeswap/internal/domain/repository"
	apperrors "pokeswap/pkg/errors"
	"pokeswap/pkg/utils"
)

const defaultCondition = 5

type CollectionUseCase struct {
	userRepo repository.UserRepository
	uploader FileUploader
	names    CardNameSuggester
	locks    *utils.KeyMutex
}

func NewCollectionUseCase(userRepo repository.UserRepository, uploader FileUploader, names CardNameSuggester, locks *utils.KeyMutex) *CollectionUseCase {
	return &CollectionUseCase{
		userRepo: userRepo,
		uploader: uploader,
		names:    names,
		locks:    locks,
	}
}

type AddCardInput struct {
	Name      string
	Price     float64
	Condition int
	Filename  string
	ImageType string
	Image     []byte
}

// AddCard uploads the image, resolves the card name, appends the card to the
// user's collection and returns it with the recomputed total value.
func (uc *CollectionUseCase) AddCard(ctx context.Context, username string, input AddCardInput) (*entity.Card, float64, error) {
	key := entity.NormalizeUsername(username)
	if key == "" {
		return nil, 0, apperrors.BadRequest("Username is required", nil)
	}
	if len(input.Image) == 0 {
		return nil, 0, apperrors.BadRequest("Card image is required", nil)
	}

	uc.locks.Lock(key)
	defer uc.locks.Unlock(key)

	user, err := uc.userRepo.GetByUsername(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, 0, apperrors.NotFound("User", err)
		}
		return nil, 0, apperrors.Internal("Failed to load user", err)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = uc.names.SuggestName(input.Filename, input.Image)
	}

	imageURL, err := uc.uploader.UploadFile(ctx, bytes.NewReader(input.Image), input.ImageType, key)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to upload card image", err)
	}

	card := entity.Card{
		ID:        uuid.New().String(),
		Name:      name,
		Price:     sanitizePrice(input.Price),
		Condition: sanitizeCondition(input.Condition),
		ImageURL:  imageURL,
		CreatedAt: time.Now().UTC(),
	}

	user.Cards = append(user.Cards, card)
	if err := uc.userRepo.Save(ctx, user); err != nil {
		return nil, 0, apperrors.Internal("Failed to save user", err)
	}

	return &card, TotalValue(user.Cards), nil
}

// RecognizeName runs the name heuristic without saving a card.
func (uc *CollectionUseCase) RecognizeName(ctx context.Context, filename string, image []byte) (string, error) {
	if len(image) == 0 {
		return "", apperrors.BadRequest("Card image is required", nil)
	}
	return uc.names.SuggestName(filename, image), nil
}

// TotalValue sums card prices; a missing or garbage price counts as zero.
func TotalValue(cards []entity.Card) float64 {
	var total float64
	for _, card := range cards {
		if card.Price > 0 && !math.IsNaN(card.Price) && !math.IsInf(card.Price, 0) {
			total += card.Price
		}
	}
	return total
}

func sanitizePrice(price float64) float64 {
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0
	}
	return price
}

func sanitizeCondition(condition int) int {
	switch {
	case condition == 0:
		return defaultCondition
	case condition < 1:
		return 1
	case condition > 10:
		return 10
	default:
		return condition
	}
}
