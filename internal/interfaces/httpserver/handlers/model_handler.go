package handlers

import (
	"bongo-server/internal/domain/catalog"
	"bongo-server/internal/domain/meter"
)

// ModelHandler serves the model catalog.
type ModelHandler struct {
	registry *catalog.Registry
	meter    *meter.Meter
}

// NewModelHandler creates a ModelHandler.
func NewModelHandler(registry *catalog.Registry, m *meter.Meter) *ModelHandler {
	return &ModelHandler{registry: registry, meter: m}
}

// List returns catalog descriptors, optionally filtered to one category.
func (h *ModelHandler) List(category string) []catalog.Descriptor {
	if category != "" {
		return h.registry.ListByCategory(catalog.Category(category))
	}
	return h.registry.List()
}

// DefaultKey returns the default model key.
func (h *ModelHandler) DefaultKey() string {
	return h.registry.Default().Key
}

// Cost returns the token cost for a category.
func (h *ModelHandler) Cost(c catalog.Category) int64 {
	return h.meter.Cost(c)
}
