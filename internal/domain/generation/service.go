package generation

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"bongo-server/internal/domain/catalog"
	"bongo-server/internal/domain/meter"
	"bongo-server/internal/utils/platformerrors"
)

// Attempt records one candidate invocation for the failure trail.
type Attempt struct {
	Strategy string
	URL      string
	Detail   string
}

// Outcome is a successful provider invocation.
type Outcome struct {
	// Body is the raw provider response body.
	Body []byte
	// Strategy is the label of the candidate that succeeded.
	Strategy string
	// Trail lists the failed attempts that preceded the success.
	Trail []Attempt
}

// Invoker executes an ordered candidate list until one succeeds.
type Invoker interface {
	Invoke(ctx context.Context, candidates []Candidate, payload []byte) (*Outcome, error)
}

// Outputs combines the normalized result with the post-debit balance.
type Outputs struct {
	Result      *Result
	Consumption *meter.Consumption
}

// Service runs the full generation pipeline: descriptor lookup, payload
// build, endpoint resolution, token consumption, provider invocation and
// response normalization.
type Service struct {
	registry   *catalog.Registry
	resolver   *Resolver
	invoker    Invoker
	meter      *meter.Meter
	normalizer *Normalizer
	log        zerolog.Logger
}

// NewService wires the generation pipeline.
func NewService(registry *catalog.Registry, resolver *Resolver, invoker Invoker, m *meter.Meter, normalizer *Normalizer, log zerolog.Logger) *Service {
	return &Service{
		registry:   registry,
		resolver:   resolver,
		invoker:    invoker,
		meter:      m,
		normalizer: normalizer,
		log:        log,
	}
}

// Registry exposes the model catalog backing this service.
func (s *Service) Registry() *catalog.Registry {
	return s.registry
}

// Generate runs one generation for the given subject.
//
// Payload build and endpoint resolution happen before any billing so that
// configuration errors never cost tokens. The debit happens strictly before
// the first provider call; whether a failed invocation is refunded follows
// the configured billing policy.
func (s *Service) Generate(ctx context.Context, subject string, req Request) (*Outputs, error) {
	if strings.TrimSpace(req.Prompt) == "" && req.ImageData == "" {
		return nil, platformerrors.NewError(platformerrors.ErrorTypeValidation,
			platformerrors.LayerDomain, "prompt or image data must be provided", nil)
	}

	descriptor, matched := s.registry.Lookup(req.ModelKey)
	if !matched && req.ModelKey != "" {
		s.log.Warn().
			Str("model_key", req.ModelKey).
			Str("fallback", descriptor.Key).
			Msg("[GenerationService] Unknown model key, using default")
	}

	payload, err := BuildPayload(descriptor, req)
	if err != nil {
		return nil, err
	}

	candidates := s.resolver.Resolve(descriptor)
	if len(candidates) == 0 {
		return nil, platformerrors.NewError(platformerrors.ErrorTypeConfiguration,
			platformerrors.LayerDomain, "endpoint resolution produced no candidates", nil)
	}

	consumption, err := s.meter.Consume(ctx, subject, descriptor.Category)
	if err != nil {
		return nil, err
	}

	outcome, err := s.invoker.Invoke(ctx, candidates, payload)
	if err != nil {
		s.settleFailure(ctx, subject, descriptor.Category)
		return nil, err
	}

	result, err := s.normalizer.Normalize(ctx, descriptor, req.Prompt, outcome.Body, outcome.Strategy)
	if err != nil {
		s.settleFailure(ctx, subject, descriptor.Category)
		return nil, err
	}

	s.log.Info().
		Str("model", descriptor.Key).
		Str("category", string(descriptor.Category)).
		Str("approach", outcome.Strategy).
		Int("failed_attempts", len(outcome.Trail)).
		Msg("[GenerationService] Generation completed")

	return &Outputs{Result: result, Consumption: consumption}, nil
}

// settleFailure applies the billing policy after a failed generation.
func (s *Service) settleFailure(ctx context.Context, subject string, c catalog.Category) {
	if !s.meter.RefundOnFailure() {
		return
	}
	if err := s.meter.Refund(ctx, subject, c); err != nil {
		s.log.Error().Err(err).
			Str("category", string(c)).
			Msg("[GenerationService] Refund after failed generation did not apply")
	}
}
