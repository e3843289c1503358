package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bongo-server/internal/domain/account"
)

func seedAccount(t *testing.T, s *MemoryAccountStore, subject string, tokens int64) {
	t.Helper()
	require.NoError(t, s.Create(context.Background(), &account.Account{
		Subject:  subject,
		PublicID: "acct_" + subject,
		Tokens:   tokens,
	}))
}

func TestCreateAndFind(t *testing.T) {
	s := NewMemoryAccountStore()
	seedAccount(t, s, "sub-1", 10)

	acc, err := s.FindBySubject(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), acc.Tokens)
	assert.NotZero(t, acc.ID)
	assert.False(t, acc.CreatedAt.IsZero())
}

func TestFindUnknownSubject(t *testing.T) {
	s := NewMemoryAccountStore()

	_, err := s.FindBySubject(context.Background(), "nobody")
	assert.ErrorIs(t, err, account.ErrNotFound)
}

func TestCreateDuplicateSubject(t *testing.T) {
	s := NewMemoryAccountStore()
	seedAccount(t, s, "sub-1", 10)

	err := s.Create(context.Background(), &account.Account{Subject: "sub-1"})
	assert.ErrorIs(t, err, ErrDuplicateSubject)
	assert.Equal(t, 1, s.Count())
}

func TestDebitTokens(t *testing.T) {
	s := NewMemoryAccountStore()
	seedAccount(t, s, "sub-1", 5)
	ctx := context.Background()

	acc, err := s.DebitTokens(ctx, "sub-1", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), acc.Tokens)
	assert.Equal(t, int64(1), acc.TotalAPICalls)

	_, err = s.DebitTokens(ctx, "sub-1", 3)
	assert.ErrorIs(t, err, account.ErrInsufficientTokens)

	// Failed debit leaves state untouched.
	acc, err = s.FindBySubject(ctx, "sub-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), acc.Tokens)
	assert.Equal(t, int64(1), acc.TotalAPICalls)
}

func TestCreditTokens(t *testing.T) {
	s := NewMemoryAccountStore()
	seedAccount(t, s, "sub-1", 1)

	acc, err := s.CreditTokens(context.Background(), "sub-1", 9)
	require.NoError(t, err)
	assert.Equal(t, int64(10), acc.Tokens)
}

func TestReturnedAccountsAreCopies(t *testing.T) {
	s := NewMemoryAccountStore()
	seedAccount(t, s, "sub-1", 5)
	ctx := context.Background()

	acc, err := s.FindBySubject(ctx, "sub-1")
	require.NoError(t, err)
	acc.Tokens = 1000

	fresh, err := s.FindBySubject(ctx, "sub-1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), fresh.Tokens)
}

func TestConcurrentDebitsNeverOverdraw(t *testing.T) {
	s := NewMemoryAccountStore()
	seedAccount(t, s, "sub-1", 50)
	ctx := context.Background()

	var wg sync.WaitGroup
	var succeeded int64
	var mu sync.Mutex
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.DebitTokens(ctx, "sub-1", 1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else if !errors.Is(err, account.ErrInsufficientTokens) {
				t.Errorf("unexpected debit error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), succeeded)
	acc, err := s.FindBySubject(ctx, "sub-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), acc.Tokens)
	assert.Equal(t, int64(50), acc.TotalAPICalls)
}
