package usecase

import (
	"context"
	"errors"

	"pokeswap/internal/domain/entity"
	"pokeswap/internal/domain/repository"
	apperrors "pokeswap/pkg/errors"
)

// ShareUseCase serves the public read-only collection view. Sharing is
// intentionally unauthenticated: anyone with the link can look.
type ShareUseCase struct {
	userRepo repository.UserRepository
}

func NewShareUseCase(userRepo repository.UserRepository) *ShareUseCase {
	return &ShareUseCase{
		userRepo: userRepo,
	}
}

type SharedCollection struct {
	Username string        `json:"username"`
	Cards    []entity.Card `json:"cards"`
}

func (uc *ShareUseCase) SharedCollection(ctx context.Context, username string) (*SharedCollection, error) {
	key := entity.NormalizeUsername(username)
	if key == "" {
		return nil, apperrors.BadRequest("Username is required", nil)
	}

	user, err := uc.userRepo.GetByUsername(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("User", err)
		}
		return nil, apperrors.Internal("Failed to load user", err)
	}

	return &SharedCollection{
		Username: user.Username,
		Cards:    user.Cards,
	}, nil
}
