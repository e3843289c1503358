// Package store provides an in-memory account repository for local
// development and tests. Balances do not survive a restart; production
// deployments use the database-backed repository instead.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"bongo-server/internal/domain/account"
)

// ErrDuplicateSubject is returned by Create when the subject already has an
// account. Callers resolve the race by re-reading.
var ErrDuplicateSubject = errors.New("subject already has an account")

// MemoryAccountStore implements account.Repository with a mutex-guarded map.
type MemoryAccountStore struct {
	mu       sync.Mutex
	accounts map[string]*account.Account
	nextID   uint
}

// NewMemoryAccountStore creates an empty in-memory store.
func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{
		accounts: make(map[string]*account.Account),
	}
}

func (s *MemoryAccountStore) FindBySubject(_ context.Context, subject string) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[subject]
	if !ok {
		return nil, account.ErrNotFound
	}
	cp := *acc
	return &cp, nil
}

func (s *MemoryAccountStore) Create(_ context.Context, acc *account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[acc.Subject]; exists {
		return ErrDuplicateSubject
	}

	s.nextID++
	acc.ID = s.nextID
	now := time.Now()
	acc.CreatedAt = now
	acc.UpdatedAt = now

	cp := *acc
	s.accounts[acc.Subject] = &cp
	return nil
}

func (s *MemoryAccountStore) DebitTokens(_ context.Context, subject string, amount int64) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[subject]
	if !ok {
		return nil, account.ErrNotFound
	}
	if acc.Tokens < amount {
		return nil, account.ErrInsufficientTokens
	}

	acc.Tokens -= amount
	acc.TotalAPICalls++
	acc.UpdatedAt = time.Now()

	cp := *acc
	return &cp, nil
}

func (s *MemoryAccountStore) CreditTokens(_ context.Context, subject string, amount int64) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[subject]
	if !ok {
		return nil, account.ErrNotFound
	}

	acc.Tokens += amount
	acc.UpdatedAt = time.Now()

	cp := *acc
	return &cp, nil
}

// Count returns the number of stored accounts.
func (s *MemoryAccountStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.accounts)
}
