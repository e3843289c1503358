package handlers

import (
	"context"

	"bongo-server/internal/config"
	"bongo-server/internal/domain/account"
	"bongo-server/internal/domain/meter"
)

// AccountHandler serves account profile and admin token grants.
type AccountHandler struct {
	cfg      *config.Config
	accounts *account.Service
	meter    *meter.Meter
}

// NewAccountHandler creates an AccountHandler.
func NewAccountHandler(cfg *config.Config, accounts *account.Service, m *meter.Meter) *AccountHandler {
	return &AccountHandler{cfg: cfg, accounts: accounts, meter: m}
}

// Get returns the account for a subject.
func (h *AccountHandler) Get(ctx context.Context, subject string) (*account.Account, error) {
	return h.accounts.Get(ctx, subject)
}

// IsAdmin reports whether a subject may call admin endpoints.
func (h *AccountHandler) IsAdmin(subject string) bool {
	return h.cfg.IsAdminSubject(subject)
}

// Grant credits tokens to a subject's balance.
func (h *AccountHandler) Grant(ctx context.Context, subject string, amount int64) (*meter.Consumption, error) {
	return h.meter.Grant(ctx, subject, amount)
}
