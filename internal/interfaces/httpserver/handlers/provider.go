// Package handlers wires domain services to HTTP-facing operations.
package handlers

import (
	"github.com/rs/zerolog"

	"bongo-server/internal/config"
	"bongo-server/internal/domain/account"
	"bongo-server/internal/domain/meter"
	"bongo-server/internal/infrastructure/realtime"
)

// Provider holds all HTTP handlers.
type Provider struct {
	Generation *GenerationHandler
	Token      *TokenHandler
	Account    *AccountHandler
	Model      *ModelHandler
	Realtime   *RealtimeHandler
}

// NewProvider creates all handlers.
func NewProvider(
	cfg *config.Config,
	generator Generator,
	m *meter.Meter,
	accounts *account.Service,
	hub *realtime.Hub,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Generation: NewGenerationHandler(generator, m, log),
		Token:      NewTokenHandler(generator.Registry(), m),
		Account:    NewAccountHandler(cfg, accounts, m),
		Model:      NewModelHandler(generator.Registry(), m),
		Realtime:   NewRealtimeHandler(hub, log),
	}
}
