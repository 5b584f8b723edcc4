package usecase

import (
	"context"
	"errors"

	"pokeswap/internal/domain/entity"
	"pokeswap/internal/domain/repository"
	apperrors "pokeswap/pkg/errors"
)

// AuthUseCase is identity without authentication: a username either has a
// record or it does not. There are no passwords anywhere in this system.
type AuthUseCase struct {
	userRepo repository.UserRepository
}

func NewAuthUseCase(userRepo repository.UserRepository) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
	}
}

type SignUpInput struct {
	Username   string
	ProfilePic string
}

func (uc *AuthUseCase) SignUp(ctx context.Context, input SignUpInput) (*entity.User, error) {
	username := entity.NormalizeUsername(input.Username)
	if username == "" {
		return nil, apperrors.BadRequest("Username is required", nil)
	}

	profilePic := input.ProfilePic
	if profilePic == "" {
		profilePic = entity.DefaultProfilePic
	}
	if !entity.ValidProfilePic(profilePic) {
		return nil, apperrors.BadRequest("Unknown profile picture", nil)
	}

	user := &entity.User{
		Username:   username,
		ProfilePic: profilePic,
		Cards:      []entity.Card{},
		Trades:     []entity.Trade{},
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, apperrors.Conflict("Username already taken")
		}
		return nil, apperrors.Internal("Failed to create user", err)
	}

	return user, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, username string) (*entity.User, error) {
	return uc.lookup(ctx, username)
}

func (uc *AuthUseCase) GetAccount(ctx context.Context, username string) (*entity.User, error) {
	return uc.lookup(ctx, username)
}

func (uc *AuthUseCase) lookup(ctx context.Context, username string) (*entity.User, error) {
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

	return user, nil
}
