package meter

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bongo-server/internal/domain/account"
	"bongo-server/internal/domain/catalog"
	"bongo-server/internal/utils/platformerrors"
)

type memRepo struct {
	mu       sync.Mutex
	accounts map[string]*account.Account
}

func newMemRepo(seed map[string]int64) *memRepo {
	r := &memRepo{accounts: make(map[string]*account.Account)}
	for subject, tokens := range seed {
		r.accounts[subject] = &account.Account{Subject: subject, Tokens: tokens}
	}
	return r
}

func (r *memRepo) FindBySubject(_ context.Context, subject string) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.accounts[subject]
	if !ok {
		return nil, account.ErrNotFound
	}
	cp := *acc
	return &cp, nil
}

func (r *memRepo) Create(_ context.Context, acc *account.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *acc
	r.accounts[acc.Subject] = &cp
	return nil
}

func (r *memRepo) DebitTokens(_ context.Context, subject string, amount int64) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.accounts[subject]
	if !ok {
		return nil, account.ErrNotFound
	}
	if acc.Tokens < amount {
		return nil, account.ErrInsufficientTokens
	}
	acc.Tokens -= amount
	acc.TotalAPICalls++
	cp := *acc
	return &cp, nil
}

func (r *memRepo) CreditTokens(_ context.Context, subject string, amount int64) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.accounts[subject]
	if !ok {
		return nil, account.ErrNotFound
	}
	acc.Tokens += amount
	cp := *acc
	return &cp, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []BalanceEvent
}

func (p *recordingPublisher) Publish(_ string, e BalanceEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) all() []BalanceEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]BalanceEvent, len(p.events))
	copy(out, p.events)
	return out
}

func newTestMeter(seed map[string]int64, pub Publisher) *Meter {
	return New(newMemRepo(seed), DefaultCosts(), pub, false, zerolog.Nop())
}

func TestDefaultCosts(t *testing.T) {
	costs := DefaultCosts()
	assert.Equal(t, int64(1), costs.Cost(catalog.CategoryText))
	assert.Equal(t, int64(2), costs.Cost(catalog.CategoryImage))
	assert.Equal(t, int64(3), costs.Cost(catalog.CategoryVideo))
	assert.Equal(t, int64(1), costs.Cost(catalog.Category("mystery")), "unknown categories bill at text rate")
}

func TestCheckDoesNotMutate(t *testing.T) {
	m := newTestMeter(map[string]int64{"sub": 5}, nil)
	ctx := context.Background()

	res, err := m.Check(ctx, "sub", catalog.CategoryVideo)
	require.NoError(t, err)
	assert.True(t, res.HasEnough)
	assert.Equal(t, int64(3), res.Required)
	assert.Equal(t, int64(5), res.Available)

	// A check is a read, never a reservation.
	res, err = m.Check(ctx, "sub", catalog.CategoryVideo)
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.Available)
}

func TestCheckInsufficient(t *testing.T) {
	m := newTestMeter(map[string]int64{"sub": 1}, nil)

	res, err := m.Check(context.Background(), "sub", catalog.CategoryImage)
	require.NoError(t, err)
	assert.False(t, res.HasEnough)
	assert.Equal(t, int64(2), res.Required)
	assert.Equal(t, int64(1), res.Available)
}

func TestConsumePublishesEvent(t *testing.T) {
	pub := &recordingPublisher{}
	m := newTestMeter(map[string]int64{"sub": 5}, pub)

	got, err := m.Consume(context.Background(), "sub", catalog.CategoryImage)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.RemainingTokens)
	assert.Equal(t, int64(1), got.TotalAPICalls)

	events := pub.all()
	require.Len(t, events, 1)
	assert.Equal(t, EventTokensConsumed, events[0].Type)
	assert.Equal(t, int64(3), events[0].Tokens)
	assert.Equal(t, int64(1), events[0].TotalAPICalls)
}

func TestConsumeInsufficientBalance(t *testing.T) {
	pub := &recordingPublisher{}
	m := newTestMeter(map[string]int64{"sub": 2}, pub)

	_, err := m.Consume(context.Background(), "sub", catalog.CategoryVideo)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeInsufficientBalance))
	assert.Empty(t, pub.all(), "failed consume must not publish")

	// Balance untouched.
	res, err := m.Check(context.Background(), "sub", catalog.CategoryText)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Available)
}

func TestRefundPublishesTokensAdded(t *testing.T) {
	pub := &recordingPublisher{}
	m := newTestMeter(map[string]int64{"sub": 5}, pub)
	ctx := context.Background()

	_, err := m.Consume(ctx, "sub", catalog.CategoryVideo)
	require.NoError(t, err)
	require.NoError(t, m.Refund(ctx, "sub", catalog.CategoryVideo))

	res, err := m.Check(ctx, "sub", catalog.CategoryText)
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.Available, "refund restores the debited amount")

	events := pub.all()
	require.Len(t, events, 2)
	assert.Equal(t, EventTokensAdded, events[1].Type)
	assert.Equal(t, int64(5), events[1].Tokens)
}

func TestGrant(t *testing.T) {
	pub := &recordingPublisher{}
	m := newTestMeter(map[string]int64{"sub": 1}, pub)

	got, err := m.Grant(context.Background(), "sub", 25)
	require.NoError(t, err)
	assert.Equal(t, int64(26), got.RemainingTokens)

	events := pub.all()
	require.Len(t, events, 1)
	assert.Equal(t, EventTokensAdded, events[0].Type)
}

func TestGrantRejectsNonPositiveAmount(t *testing.T) {
	m := newTestMeter(map[string]int64{"sub": 1}, nil)

	_, err := m.Grant(context.Background(), "sub", 0)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestConcurrentConsumeNeverOverdraws(t *testing.T) {
	m := newTestMeter(map[string]int64{"sub": 10}, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.Consume(ctx, "sub", catalog.CategoryText); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	res, err := m.Check(ctx, "sub", catalog.CategoryText)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Available)
}
