package entity

import (
	"time"
)

const (
	TradeStatusPending  = "pending"
	TradeStatusAccepted = "accepted"
	TradeStatusDeclined = "declined"
)

// Trade is stored on the recipient's (To) record only. OfferedCard is a
// value snapshot taken at offer time, not a reference into the requester's
// collection.
type Trade struct {
	ID          string    `json:"id"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	OwnerCardID string    `json:"ownerCardId"`
	OfferedCard Card      `json:"offeredCard"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}
