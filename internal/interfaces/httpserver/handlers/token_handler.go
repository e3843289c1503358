package handlers

import (
	"context"

	"bongo-server/internal/domain/catalog"
	"bongo-server/internal/domain/meter"
)

// TokenHandler serves client-driven balance check and consume calls. These
// exist for UI preflight; the generation endpoint performs its own consume.
type TokenHandler struct {
	registry *catalog.Registry
	meter    *meter.Meter
}

// NewTokenHandler creates a TokenHandler.
func NewTokenHandler(registry *catalog.Registry, m *meter.Meter) *TokenHandler {
	return &TokenHandler{registry: registry, meter: m}
}

// Check reports whether a subject's balance covers the selected cost. The
// result is advisory; it does not reserve tokens.
func (h *TokenHandler) Check(ctx context.Context, subject, modelKey, category string) (*meter.CheckResult, error) {
	return h.meter.Check(ctx, subject, h.resolveCategory(modelKey, category))
}

// Consume debits the selected cost from a subject's balance.
func (h *TokenHandler) Consume(ctx context.Context, subject, modelKey, category string) (*meter.Consumption, error) {
	return h.meter.Consume(ctx, subject, h.resolveCategory(modelKey, category))
}

// resolveCategory picks the billing category: an explicit model key wins,
// then a bare category name, then the default model's category.
func (h *TokenHandler) resolveCategory(modelKey, category string) catalog.Category {
	if modelKey != "" {
		d, _ := h.registry.Lookup(modelKey)
		return d.Category
	}
	switch catalog.Category(category) {
	case catalog.CategoryText, catalog.CategoryImage, catalog.CategoryVideo:
		return catalog.Category(category)
	}
	return h.registry.Default().Category
}
