package account

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu       sync.Mutex
	accounts map[string]*Account
	nextID   uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{accounts: make(map[string]*Account)}
}

func (r *fakeRepo) FindBySubject(_ context.Context, subject string) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.accounts[subject]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *acc
	return &cp, nil
}

func (r *fakeRepo) Create(_ context.Context, acc *Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[acc.Subject]; ok {
		return errors.New("duplicate subject")
	}
	r.nextID++
	acc.ID = r.nextID
	cp := *acc
	r.accounts[acc.Subject] = &cp
	return nil
}

func (r *fakeRepo) DebitTokens(_ context.Context, subject string, amount int64) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.accounts[subject]
	if !ok {
		return nil, ErrNotFound
	}
	if acc.Tokens < amount {
		return nil, ErrInsufficientTokens
	}
	acc.Tokens -= amount
	acc.TotalAPICalls++
	cp := *acc
	return &cp, nil
}

func (r *fakeRepo) CreditTokens(_ context.Context, subject string, amount int64) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.accounts[subject]
	if !ok {
		return nil, ErrNotFound
	}
	acc.Tokens += amount
	cp := *acc
	return &cp, nil
}

func TestEnsureAccountCreatesWithBonus(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, 10, zerolog.Nop())

	acc, err := svc.EnsureAccount(context.Background(), Identity{Subject: "sub-1", Email: "a@b.c", Name: "A"})
	require.NoError(t, err)

	assert.Equal(t, int64(10), acc.Tokens)
	assert.True(t, acc.SignupBonusGranted)
	assert.NotEmpty(t, acc.PublicID)
	assert.Equal(t, "a@b.c", acc.Email)
}

func TestEnsureAccountIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, 10, zerolog.Nop())
	ctx := context.Background()

	first, err := svc.EnsureAccount(ctx, Identity{Subject: "sub-1"})
	require.NoError(t, err)

	again, err := svc.EnsureAccount(ctx, Identity{Subject: "sub-1"})
	require.NoError(t, err)

	assert.Equal(t, first.PublicID, again.PublicID)
	assert.Equal(t, int64(10), again.Tokens, "bonus must only be granted once")
}

func TestEnsureAccountRecoversFromCreateRace(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, 10, zerolog.Nop())
	ctx := context.Background()

	// Simulate a concurrent writer winning the insert between find and create.
	require.NoError(t, repo.Create(ctx, &Account{Subject: "sub-1", PublicID: "acct_winner", Tokens: 10}))

	// Force the losing path: Create fails with duplicate, service re-reads.
	acc, err := svc.EnsureAccount(ctx, Identity{Subject: "sub-1"})
	require.NoError(t, err)
	assert.Equal(t, "acct_winner", acc.PublicID)
}

func TestEnsureAccountRejectsEmptySubject(t *testing.T) {
	svc := NewService(newFakeRepo(), 10, zerolog.Nop())

	_, err := svc.EnsureAccount(context.Background(), Identity{})
	assert.Error(t, err)
}
