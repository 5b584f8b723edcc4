package usecase

import (
	"context"
	"io"

	"pokeswap/internal/domain/entity"
)

// FileUploader stores an uploaded image and returns a URL for it.
// Implemented by the GCS and local-disk storage clients.
type FileUploader interface {
	UploadFile(ctx context.Context, file io.Reader, fileType, folder string) (string, error)
}

// CardNameSuggester guesses a card name from an uploaded image. It never
// fails; a best-effort placeholder comes back in the worst case.
type CardNameSuggester interface {
	SuggestName(filename string, image []byte) string
}

// TradeNotifier pushes trade lifecycle events to connected users.
// Implemented by the websocket manager.
type TradeNotifier interface {
	NotifyTradeOffer(username string, trade *entity.Trade)
	NotifyTradeResolved(username string, trade *entity.Trade)
}
