package repository

import (
	"context"
	"errors"

	"pokeswap/internal/domain/entity"
)

var (
	ErrNotFound      = errors.New("user record not found")
	ErrAlreadyExists = errors.New("user record already exists")
)

// UserRepository is the record store: one full account document per
// normalized username. It offers no cross-record transactions; callers that
// touch two records must serialize and journal themselves.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Save(ctx context.Context, user *entity.User) error
}
