// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names, also used as routing keys on the default exchange.
const (
	UserSignedUpQueue  = "user.signed_up"
	PlanPurchasedQueue = "subscription.purchased"
)

// UserSignedUpEvent is published after a new account row was inserted.
type UserSignedUpEvent struct {
	UserID     int64  `json:"user_id"`
	Email      string `json:"email"`
	SignedUpAt string `json:"signed_up_at"`
}

// PlanPurchasedEvent is published after a user was marked as paid.  It
// carries enough information for downstream consumers to log, notify, or
// trigger billing analytics without querying the primary database.
type PlanPurchasedEvent struct {
	UserID      int64  `json:"user_id"`
	Email       string `json:"email"`
	Plan        string `json:"plan"`
	PurchasedAt string `json:"purchased_at"`
}
