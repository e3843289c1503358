package account

import (
	"errors"
	"time"
)

var (
	// ErrNotFound indicates no account exists for the given subject.
	ErrNotFound = errors.New("account not found")
	// ErrInsufficientTokens indicates a debit would take the balance below zero.
	ErrInsufficientTokens = errors.New("insufficient tokens")
)

// Account is a billed user of the generation service, keyed by the identity
// provider subject.
type Account struct {
	ID                 uint
	PublicID           string
	Subject            string
	Email              string
	Name               string
	Tokens             int64
	TotalAPICalls      int64
	SignupBonusGranted bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
