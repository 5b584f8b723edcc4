package usecase

import (
	"context"
	"fmt"
	"io"
	"sync"

	"pokeswap/internal/domain/entity"
	"pokeswap/internal/domain/repository"
)

// memoryUserRepo mimics the file store's value semantics: every read and
// write copies the record, so aliasing bugs in the usecases surface in tests.
type memoryUserRepo struct {
	mu      sync.Mutex
	users   map[string]*entity.User
	saveErr map[string]error
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{
		users:   make(map[string]*entity.User),
		saveErr: make(map[string]error),
	}
}

func (r *memoryUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := entity.NormalizeUsername(user.Username)
	if _, ok := r.users[key]; ok {
		return repository.ErrAlreadyExists
	}
	r.users[key] = cloneUser(user)
	return nil
}

func (r *memoryUserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[entity.NormalizeUsername(username)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(user), nil
}

func (r *memoryUserRepo) Save(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := entity.NormalizeUsername(user.Username)
	if err := r.saveErr[key]; err != nil {
		return err
	}
	r.users[key] = cloneUser(user)
	return nil
}

// failSaves makes every Save for username fail with err until reset.
func (r *memoryUserRepo) failSaves(username string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.saveErr, entity.NormalizeUsername(username))
		return
	}
	r.saveErr[entity.NormalizeUsername(username)] = err
}

// mustGet reads a record directly for assertions.
func (r *memoryUserRepo) mustGet(username string) *entity.User {
	user, err := r.GetByUsername(context.Background(), username)
	if err != nil {
		panic(err)
	}
	return user
}

func cloneUser(user *entity.User) *entity.User {
	clone := *user
	clone.Cards = append([]entity.Card{}, user.Cards...)
	clone.Trades = append([]entity.Trade{}, user.Trades...)
	return &clone
}

type memoryJournal struct {
	mu      sync.Mutex
	intents map[string]*repository.ExchangeIntent
	logErr  error
}

func newMemoryJournal() *memoryJournal {
	return &memoryJournal{
		intents: make(map[string]*repository.ExchangeIntent),
	}
}

func (j *memoryJournal) Log(ctx context.Context, intent *repository.ExchangeIntent) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.logErr != nil {
		return j.logErr
	}
	copied := *intent
	j.intents[intent.TradeID] = &copied
	return nil
}

func (j *memoryJournal) Clear(ctx context.Context, tradeID string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.intents, tradeID)
	return nil
}

func (j *memoryJournal) Pending(ctx context.Context) ([]*repository.ExchangeIntent, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	var intents []*repository.ExchangeIntent
	for _, intent := range j.intents {
		copied := *intent
		intents = append(intents, &copied)
	}
	return intents, nil
}

type fakeUploader struct {
	mu      sync.Mutex
	uploads int
	err     error
}

func (u *fakeUploader) UploadFile(ctx context.Context, file io.Reader, fileType, folder string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.err != nil {
		return "", u.err
	}
	u.uploads++
	return fmt.Sprintf("https://images.test/%s/%d", folder, u.uploads), nil
}

type fakeNameSuggester struct {
	name string
}

func (s *fakeNameSuggester) SuggestName(filename string, image []byte) string {
	if s.name != "" {
		return s.name
	}
	return "Unknown Card"
}

type notifierEvent struct {
	kind     string
	username string
	tradeID  string
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []notifierEvent
}

func (n *fakeNotifier) NotifyTradeOffer(username string, trade *entity.Trade) {
	n.record("offer", username, trade)
}

func (n *fakeNotifier) NotifyTradeResolved(username string, trade *entity.Trade) {
	n.record("resolved", username, trade)
}

func (n *fakeNotifier) record(kind, username string, trade *entity.Trade) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notifierEvent{kind: kind, username: username, tradeID: trade.ID})
}
