package account

import "context"

// Repository persists accounts and performs atomic balance mutations.
type Repository interface {
	// FindBySubject returns the account for an identity subject, or ErrNotFound.
	FindBySubject(ctx context.Context, subject string) (*Account, error)
	// Create inserts a new account. The caller sets PublicID and initial balance.
	Create(ctx context.Context, acc *Account) error
	// DebitTokens atomically decrements the balance by amount and increments
	// the call counter, only when the balance covers the amount. It returns
	// the post-debit account state, or ErrInsufficientTokens without mutating
	// anything when the balance is short.
	DebitTokens(ctx context.Context, subject string, amount int64) (*Account, error)
	// CreditTokens atomically increments the balance by amount and returns
	// the post-credit account state.
	CreditTokens(ctx context.Context, subject string, amount int64) (*Account, error)
}
