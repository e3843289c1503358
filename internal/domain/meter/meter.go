package meter

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"bongo-server/internal/domain/account"
	"bongo-server/internal/domain/catalog"
	"bongo-server/internal/infrastructure/metrics"
	"bongo-server/internal/utils/platformerrors"
)

// CostTable maps a model category to its token cost per generation.
type CostTable map[catalog.Category]int64

// DefaultCosts returns the built-in cost schedule.
func DefaultCosts() CostTable {
	return CostTable{
		catalog.CategoryText:  1,
		catalog.CategoryImage: 2,
		catalog.CategoryVideo: 3,
	}
}

// Cost returns the token cost for a category. Unknown categories bill at the
// text rate.
func (t CostTable) Cost(c catalog.Category) int64 {
	if cost, ok := t[c]; ok {
		return cost
	}
	return t[catalog.CategoryText]
}

// CheckResult is an advisory snapshot of whether a balance covers a cost.
// It is a point-in-time read, not a reservation: the balance may change
// before a subsequent Consume, which performs its own atomic check.
type CheckResult struct {
	HasEnough bool
	Required  int64
	Available int64
}

// Consumption reports the account state after a successful debit.
type Consumption struct {
	RemainingTokens int64
	TotalAPICalls   int64
}

// Balance event types pushed to connected clients.
const (
	EventTokensConsumed = "tokensConsumed"
	EventTokensAdded    = "tokensAdded"
)

// BalanceEvent is the realtime balance notification payload.
type BalanceEvent struct {
	Type          string `json:"type"`
	Tokens        int64  `json:"tokens"`
	TotalAPICalls int64  `json:"totalApiCalls"`
}

// Publisher pushes balance events to a subject's live sessions. Publishing
// must not block the caller.
type Publisher interface {
	Publish(subject string, event BalanceEvent)
}

// NopPublisher discards events.
type NopPublisher struct{}

func (NopPublisher) Publish(string, BalanceEvent) {}

// Meter gates generations on token balances and keeps live sessions in sync.
type Meter struct {
	repo            account.Repository
	costs           CostTable
	events          Publisher
	refundOnFailure bool
	log             zerolog.Logger
}

// New creates a Meter. A nil publisher disables realtime notifications.
func New(repo account.Repository, costs CostTable, events Publisher, refundOnFailure bool, log zerolog.Logger) *Meter {
	if events == nil {
		events = NopPublisher{}
	}
	return &Meter{
		repo:            repo,
		costs:           costs,
		events:          events,
		refundOnFailure: refundOnFailure,
		log:             log,
	}
}

// Cost returns the token cost for a category.
func (m *Meter) Cost(c catalog.Category) int64 {
	return m.costs.Cost(c)
}

// RefundOnFailure reports whether failed generations are credited back.
func (m *Meter) RefundOnFailure() bool {
	return m.refundOnFailure
}

// Check reads the current balance against the cost of a category. The result
// is advisory only; callers must still Consume before doing billable work.
func (m *Meter) Check(ctx context.Context, subject string, c catalog.Category) (*CheckResult, error) {
	acc, err := m.repo.FindBySubject(ctx, subject)
	if err != nil {
		return nil, platformerrors.NewError(platformerrors.ErrorTypeNotFound,
			platformerrors.LayerDomain, "account lookup failed", err)
	}

	required := m.costs.Cost(c)
	return &CheckResult{
		HasEnough: acc.Tokens >= required,
		Required:  required,
		Available: acc.Tokens,
	}, nil
}

// Consume atomically debits the cost of a category and publishes a
// tokensConsumed event. An insufficient balance yields an
// ErrorTypeInsufficientBalance platform error and no mutation.
func (m *Meter) Consume(ctx context.Context, subject string, c catalog.Category) (*Consumption, error) {
	required := m.costs.Cost(c)

	acc, err := m.repo.DebitTokens(ctx, subject, required)
	if err != nil {
		if errors.Is(err, account.ErrInsufficientTokens) {
			return nil, platformerrors.NewError(platformerrors.ErrorTypeInsufficientBalance,
				platformerrors.LayerDomain,
				fmt.Sprintf("insufficient tokens: need %d", required), err)
		}
		return nil, platformerrors.NewError(platformerrors.ErrorTypeInternal,
			platformerrors.LayerDomain, "token debit failed", err)
	}

	metrics.TokensConsumed.Add(float64(required))
	m.events.Publish(subject, BalanceEvent{
		Type:          EventTokensConsumed,
		Tokens:        acc.Tokens,
		TotalAPICalls: acc.TotalAPICalls,
	})

	m.log.Debug().
		Str("category", string(c)).
		Int64("cost", required).
		Int64("remaining", acc.Tokens).
		Msg("[Meter] Tokens consumed")

	return &Consumption{
		RemainingTokens: acc.Tokens,
		TotalAPICalls:   acc.TotalAPICalls,
	}, nil
}

// Refund credits back the cost of a category after a failed generation and
// publishes a tokensAdded event.
func (m *Meter) Refund(ctx context.Context, subject string, c catalog.Category) error {
	amount := m.costs.Cost(c)

	acc, err := m.repo.CreditTokens(ctx, subject, amount)
	if err != nil {
		return platformerrors.NewError(platformerrors.ErrorTypeInternal,
			platformerrors.LayerDomain, "token refund failed", err)
	}

	metrics.TokensGranted.Add(float64(amount))
	m.events.Publish(subject, BalanceEvent{
		Type:          EventTokensAdded,
		Tokens:        acc.Tokens,
		TotalAPICalls: acc.TotalAPICalls,
	})

	m.log.Info().
		Str("category", string(c)).
		Int64("amount", amount).
		Int64("balance", acc.Tokens).
		Msg("[Meter] Tokens refunded")

	return nil
}

// Grant credits an arbitrary token amount to a subject and publishes a
// tokensAdded event. Used by admin top-ups.
func (m *Meter) Grant(ctx context.Context, subject string, amount int64) (*Consumption, error) {
	if amount <= 0 {
		return nil, platformerrors.NewError(platformerrors.ErrorTypeValidation,
			platformerrors.LayerDomain, "grant amount must be positive", nil)
	}

	acc, err := m.repo.CreditTokens(ctx, subject, amount)
	if err != nil {
		return nil, platformerrors.NewError(platformerrors.ErrorTypeInternal,
			platformerrors.LayerDomain, "token grant failed", err)
	}

	metrics.TokensGranted.Add(float64(amount))
	m.events.Publish(subject, BalanceEvent{
		Type:          EventTokensAdded,
		Tokens:        acc.Tokens,
		TotalAPICalls: acc.TotalAPICalls,
	})

	return &Consumption{
		RemainingTokens: acc.Tokens,
		TotalAPICalls:   acc.TotalAPICalls,
	}, nil
}
