package repository

import (
	"context"
	"time"

	"pokeswap/internal/domain/entity"
)

// ExchangeIntent captures both sides of an accepted trade before either
// account record is written. It carries full card values so a replay can
// finish the exchange even after one of the two writes already landed.
type ExchangeIntent struct {
	TradeID     string      `json:"tradeId"`
	Owner       string      `json:"owner"`
	Requester   string      `json:"requester"`
	OwnerCard   entity.Card `json:"ownerCard"`
	OfferedCard entity.Card `json:"offeredCard"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type ExchangeJournal interface {
	Log(ctx context.Context, intent *ExchangeIntent) error
	Clear(ctx context.Context, tradeID string) error
	Pending(ctx context.Context) ([]*ExchangeIntent, error)
}
