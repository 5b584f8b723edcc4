package usecase

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"pokeswap/internal/domain/entity"
	"pokeswap/internal/domain/repository"
	apperrors "pokeswap/pkg/errors"
	"pokeswap/pkg/logger"
	"pokeswap/pkg/utils"
)

const (
	DecisionAccept  = "accept"
	DecisionDecline = "decline"
)

// TradeUseCase owns the offer lifecycle (pending → accepted/declined) and
// the two-party card exchange. The record store has no transactions, so the
// engine serializes per-account through the keyed mutex and journals an
// exchange intent before touching either record.
type TradeUseCase struct {
	userRepo repository.UserRepository
	journal  repository.ExchangeJournal
	uploader FileUploader
	names    CardNameSuggester
	notifier TradeNotifier
	locks    *utils.KeyMutex
}

func NewTradeUseCase(
	userRepo repository.UserRepository,
	journal repository.ExchangeJournal,
	uploader FileUploader,
	names CardNameSuggester,
	notifier TradeNotifier,
	locks *utils.KeyMutex,
) *TradeUseCase {
	return &TradeUseCase{
		userRepo: userRepo,
		journal:  journal,
		uploader: uploader,
		names:    names,
		notifier: notifier,
		locks:    locks,
	}
}

type NewCardSpec struct {
	Name      string
	Price     float64
	Condition int
	Filename  string
	ImageType string
	Image     []byte
}

// OfferSpec is a tagged union decided once at the transport boundary:
// exactly one of ExistingCardID or NewCard is set.
type OfferSpec struct {
	ExistingCardID string
	NewCard        *NewCardSpec
}

type CreateTradeInput struct {
	OwnerUsername     string
	RequesterUsername string
	OwnerCardID       string
	Offer             OfferSpec
}

type TradeResolution struct {
	Trade     *entity.Trade `json:"trade"`
	Owner     *entity.User  `json:"owner,omitempty"`
	Requester *entity.User  `json:"requester,omitempty"`
}

func (uc *TradeUseCase) CreateTrade(ctx context.Context, input CreateTradeInput) (*entity.Trade, error) {
	ownerKey := entity.NormalizeUsername(input.OwnerUsername)
	requesterKey := entity.NormalizeUsername(input.RequesterUsername)

	if ownerKey == "" || requesterKey == "" || input.OwnerCardID == "" {
		return nil, apperrors.BadRequest("Missing trade fields", nil)
	}
	if ownerKey == requesterKey {
		return nil, apperrors.BadRequest("Cannot trade with yourself", nil)
	}

	locked := uc.locks.LockKeys(ownerKey, requesterKey)
	defer uc.locks.UnlockKeys(locked)

	owner, err := uc.load(ctx, ownerKey, "Owner")
	if err != nil {
		return nil, err
	}
	requester, err := uc.load(ctx, requesterKey, "Requester")
	if err != nil {
		return nil, err
	}

	if findCard(owner.Cards, input.OwnerCardID) == -1 {
		return nil, apperrors.NotFound("Owner card", nil)
	}

	offeredCard, err := uc.resolveOffer(ctx, requester, input.Offer)
	if err != nil {
		return nil, err
	}

	trade := entity.Trade{
		ID:          uuid.New().String(),
		From:        requester.Username,
		To:          owner.Username,
		OwnerCardID: input.OwnerCardID,
		OfferedCard: offeredCard,
		Status:      entity.TradeStatusPending,
		CreatedAt:   time.Now().UTC(),
	}

	// Only the recipient's record holds the offer; the requester's record is
	// untouched by trade creation.
	owner.Trades = append(owner.Trades, trade)
	if err := uc.userRepo.Save(ctx, owner); err != nil {
		return nil, apperrors.Internal("Failed to save trade", err)
	}

	if uc.notifier != nil {
		uc.notifier.NotifyTradeOffer(owner.Username, &trade)
	}

	return &trade, nil
}

// resolveOffer turns an OfferSpec into the offered-card snapshot. An
// existing card is copied by value and stays in the requester's collection
// until acceptance; a new card is synthesized with a fresh id.
func (uc *TradeUseCase) resolveOffer(ctx context.Context, requester *entity.User, offer OfferSpec) (entity.Card, error) {
	if offer.ExistingCardID != "" {
		idx := findCard(requester.Cards, offer.ExistingCardID)
		if idx == -1 {
			return entity.Card{}, apperrors.NotFound("Offered card", nil)
		}
		return requester.Cards[idx], nil
	}

	spec := offer.NewCard
	if spec == nil {
		return entity.Card{}, apperrors.BadRequest("An offered card or card details are required", nil)
	}

	name := strings.TrimSpace(spec.Name)
	imageURL := ""
	if len(spec.Image) > 0 {
		if name == "" {
			name = uc.names.SuggestName(spec.Filename, spec.Image)
		}
		url, err := uc.uploader.UploadFile(ctx, bytes.NewReader(spec.Image), spec.ImageType, entity.NormalizeUsername(requester.Username))
		if err != nil {
			return entity.Card{}, apperrors.Internal("Failed to upload offered card image", err)
		}
		imageURL = url
	}
	if name == "" {
		name = "Unknown Card"
	}

	return entity.Card{
		ID:        uuid.New().String(),
		Name:      name,
		Price:     sanitizePrice(spec.Price),
		Condition: sanitizeCondition(spec.Condition),
		ImageURL:  imageURL,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// ListPending returns the open offers addressed to username. Resolved trades
// stay on the record for history but drop out of this listing.
func (uc *TradeUseCase) ListPending(ctx context.Context, username string) ([]entity.Trade, error) {
	key := entity.NormalizeUsername(username)
	if key == "" {
		return nil, apperrors.BadRequest("Username is required", nil)
	}

	user, err := uc.load(ctx, key, "User")
	if err != nil {
		return nil, err
	}

	pending := []entity.Trade{}
	for _, trade := range user.Trades {
		// The To filter is defensive; trades are only ever stored on the
		// recipient's record.
		if entity.NormalizeUsername(trade.To) == key && trade.Status == entity.TradeStatusPending {
			pending = append(pending, trade)
		}
	}
	return pending, nil
}

func (uc *TradeUseCase) Resolve(ctx context.Context, ownerUsername, tradeID, decision string) (*TradeResolution, error) {
	ownerKey := entity.NormalizeUsername(ownerUsername)
	if ownerKey == "" || tradeID == "" {
		return nil, apperrors.BadRequest("Missing trade fields", nil)
	}

	switch decision {
	case DecisionDecline:
		return uc.decline(ctx, ownerKey, tradeID)
	case DecisionAccept:
		return uc.accept(ctx, ownerKey, tradeID)
	default:
		return nil, apperrors.BadRequest("Unknown trade decision", nil)
	}
}

func (uc *TradeUseCase) decline(ctx context.Context, ownerKey, tradeID string) (*TradeResolution, error) {
	uc.locks.Lock(ownerKey)
	defer uc.locks.Unlock(ownerKey)

	owner, err := uc.load(ctx, ownerKey, "Owner")
	if err != nil {
		return nil, err
	}

	idx := findTrade(owner.Trades, tradeID)
	if idx == -1 {
		return nil, apperrors.NotFound("Trade", nil)
	}

	trade := &owner.Trades[idx]
	if trade.Status != entity.TradeStatusPending {
		return nil, apperrors.InvalidState("Trade already handled")
	}

	trade.Status = entity.TradeStatusDeclined
	if err := uc.userRepo.Save(ctx, owner); err != nil {
		return nil, apperrors.Internal("Failed to save trade", err)
	}

	if uc.notifier != nil {
		uc.notifier.NotifyTradeResolved(trade.From, trade)
	}

	return &TradeResolution{Trade: trade}, nil
}

func (uc *TradeUseCase) accept(ctx context.Context, ownerKey, tradeID string) (*TradeResolution, error) {
	// The counterparty is only known after reading the trade, so peek under
	// the owner's lock alone, then retake both locks in sorted order.
	requesterKey, err := uc.peekRequester(ctx, ownerKey, tradeID)
	if err != nil {
		return nil, err
	}

	locked := uc.locks.LockKeys(ownerKey, requesterKey)
	defer uc.locks.UnlockKeys(locked)

	owner, err := uc.load(ctx, ownerKey, "Owner")
	if err != nil {
		return nil, err
	}

	idx := findTrade(owner.Trades, tradeID)
	if idx == -1 {
		return nil, apperrors.NotFound("Trade", nil)
	}

	trade := &owner.Trades[idx]
	// Re-checked under both locks; the state may have moved between the peek
	// and here.
	if trade.Status != entity.TradeStatusPending {
		return nil, apperrors.InvalidState("Trade already handled")
	}

	requester, err := uc.load(ctx, requesterKey, "Requester")
	if err != nil {
		return nil, err
	}

	cardIdx := findCard(owner.Cards, trade.OwnerCardID)
	if cardIdx == -1 {
		// The requested card was moved or removed since the offer, e.g. by
		// another accepted trade. The trade stays pending.
		return nil, apperrors.NotFound("Owner card", nil)
	}

	intent := &repository.ExchangeIntent{
		TradeID:     trade.ID,
		Owner:       owner.Username,
		Requester:   requester.Username,
		OwnerCard:   owner.Cards[cardIdx],
		OfferedCard: trade.OfferedCard,
		CreatedAt:   time.Now().UTC(),
	}

	// Journal first: with the intent on disk a crash between the two record
	// writes can be replayed to completion on restart.
	if err := uc.journal.Log(ctx, intent); err != nil {
		return nil, apperrors.Internal("Failed to record exchange intent", err)
	}

	applyExchange(owner, requester, intent)
	trade.Status = entity.TradeStatusAccepted

	if err := uc.userRepo.Save(ctx, owner); err != nil {
		// Neither record was written; drop the intent and fail cleanly.
		if clearErr := uc.journal.Clear(ctx, trade.ID); clearErr != nil {
			logger.LogTradeError(trade.ID, "clear-intent", clearErr)
		}
		return nil, apperrors.Internal("Failed to save owner", err)
	}

	if err := uc.userRepo.Save(ctx, requester); err != nil {
		// The owner's record is already written. The intent stays on disk so
		// Recover can finish the requester's side after a restart.
		logger.Error("Partial exchange for trade %s: owner written, requester write failed: %v", trade.ID, err)
		return nil, apperrors.Internal("Failed to save requester", err)
	}

	if err := uc.journal.Clear(ctx, trade.ID); err != nil {
		logger.LogTradeError(trade.ID, "clear-intent", err)
	}

	if uc.notifier != nil {
		uc.notifier.NotifyTradeResolved(requester.Username, trade)
	}

	return &TradeResolution{Trade: trade, Owner: owner, Requester: requester}, nil
}

func (uc *TradeUseCase) peekRequester(ctx context.Context, ownerKey, tradeID string) (string, error) {
	uc.locks.Lock(ownerKey)
	defer uc.locks.Unlock(ownerKey)

	owner, err := uc.load(ctx, ownerKey, "Owner")
	if err != nil {
		return "", err
	}

	idx := findTrade(owner.Trades, tradeID)
	if idx == -1 {
		return "", apperrors.NotFound("Trade", nil)
	}

	trade := owner.Trades[idx]
	if trade.Status != entity.TradeStatusPending {
		return "", apperrors.InvalidState("Trade already handled")
	}

	requesterKey := entity.NormalizeUsername(trade.From)
	if requesterKey == "" {
		return "", apperrors.NotFound("Requester", nil)
	}
	return requesterKey, nil
}

// Recover replays exchange intents left behind by a crash between the two
// record writes of an accept. The exchange mutation is idempotent, so a
// replay of an already-finished side converges to the same state. Intents
// that still fail are kept on disk for manual reconciliation.
func (uc *TradeUseCase) Recover(ctx context.Context) error {
	intents, err := uc.journal.Pending(ctx)
	if err != nil {
		return err
	}

	for _, intent := range intents {
		if err := uc.replay(ctx, intent); err != nil {
			logger.Error("Failed to replay exchange for trade %s: %v", intent.TradeID, err)
			continue
		}
		logger.Info("Replayed exchange for trade %s", intent.TradeID)
	}
	return nil
}

func (uc *TradeUseCase) replay(ctx context.Context, intent *repository.ExchangeIntent) error {
	ownerKey := entity.NormalizeUsername(intent.Owner)
	requesterKey := entity.NormalizeUsername(intent.Requester)

	locked := uc.locks.LockKeys(ownerKey, requesterKey)
	defer uc.locks.UnlockKeys(locked)

	owner, err := uc.userRepo.GetByUsername(ctx, ownerKey)
	if err != nil {
		return err
	}
	requester, err := uc.userRepo.GetByUsername(ctx, requesterKey)
	if err != nil {
		return err
	}

	applyExchange(owner, requester, intent)
	if idx := findTrade(owner.Trades, intent.TradeID); idx != -1 {
		owner.Trades[idx].Status = entity.TradeStatusAccepted
	}

	if err := uc.userRepo.Save(ctx, owner); err != nil {
		return err
	}
	if err := uc.userRepo.Save(ctx, requester); err != nil {
		return err
	}
	return uc.journal.Clear(ctx, intent.TradeID)
}

// applyExchange moves the owner's card to the requester and the offered
// snapshot to the owner. Every edit is keyed by card id, which makes the
// mutation idempotent and de-duplicates an existing-card offer whose source
// was never removed from the requester at offer time.
func applyExchange(owner, requester *entity.User, intent *repository.ExchangeIntent) {
	owner.Cards = removeCard(owner.Cards, intent.OwnerCard.ID)
	if findCard(requester.Cards, intent.OwnerCard.ID) == -1 {
		requester.Cards = append(requester.Cards, intent.OwnerCard)
	}

	requester.Cards = removeCard(requester.Cards, intent.OfferedCard.ID)
	if findCard(owner.Cards, intent.OfferedCard.ID) == -1 {
		owner.Cards = append(owner.Cards, intent.OfferedCard)
	}
}

func (uc *TradeUseCase) load(ctx context.Context, key, resource string) (*entity.User, error) {
	user, err := uc.userRepo.GetByUsername(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(resource, err)
		}
		return nil, apperrors.Internal("Failed to load "+strings.ToLower(resource), err)
	}
	return user, nil
}

func findCard(cards []entity.Card, id string) int {
	for i, card := range cards {
		if card.ID == id {
			return i
		}
	}
	return -1
}

func removeCard(cards []entity.Card, id string) []entity.Card {
	out := cards[:0]
	for _, card := range cards {
		if card.ID != id {
			out = append(out, card)
		}
	}
	return out
}

func findTrade(trades []entity.Trade, id string) int {
	for i, trade := range trades {
		if trade.ID == id {
			return i
		}
	}
	return -1
}
