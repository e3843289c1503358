package handlers

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"bongo-server/internal/domain/catalog"
	"bongo-server/internal/domain/generation"
	"bongo-server/internal/domain/meter"
	"bongo-server/internal/infrastructure/metrics"
	"bongo-server/internal/interfaces/httpserver/requests"
)

// Generator runs the generation pipeline. Satisfied by generation.Service.
type Generator interface {
	Generate(ctx context.Context, subject string, req generation.Request) (*generation.Outputs, error)
	Registry() *catalog.Registry
}

// GenerationHandler serves generation requests.
type GenerationHandler struct {
	generator Generator
	meter     *meter.Meter
	log       zerolog.Logger
}

// NewGenerationHandler creates a GenerationHandler.
func NewGenerationHandler(generator Generator, m *meter.Meter, log zerolog.Logger) *GenerationHandler {
	return &GenerationHandler{generator: generator, meter: m, log: log}
}

// Generate runs one generation for a subject and records request metrics.
func (h *GenerationHandler) Generate(ctx context.Context, subject string, req requests.GenerateRequest) (*generation.Outputs, error) {
	start := time.Now()

	descriptor, _ := h.generator.Registry().Lookup(req.ModelKey)

	out, err := h.generator.Generate(ctx, subject, generation.Request{
		Prompt:    req.Message,
		ModelKey:  req.ModelKey,
		MaxTokens: req.MaxTokens,
		Category:  req.Category,
		ImageData: req.ImageData,
	})

	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	metrics.RecordGeneration(string(descriptor.Category), outcome, time.Since(start))

	return out, err
}
