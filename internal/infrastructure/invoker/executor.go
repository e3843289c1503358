// Package invoker executes provider endpoint candidates in fallback order.
package invoker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"resty.dev/v3"

	"bongo-server/internal/domain/generation"
	"bongo-server/internal/infrastructure/metrics"
	"bongo-server/internal/utils/httpclients"
	"bongo-server/internal/utils/platformerrors"
)

// Executor invokes provider endpoints over HTTP with a bearer credential.
// Candidates are tried in order; the first well-formed success wins.
type Executor struct {
	client           *resty.Client
	bearerToken      string
	candidateTimeout time.Duration
	log              zerolog.Logger
}

// NewExecutor creates an Executor. candidateTimeout bounds each individual
// endpoint attempt, not the whole sequence.
func NewExecutor(bearerToken string, candidateTimeout time.Duration, log zerolog.Logger) *Executor {
	return &Executor{
		client:           httpclients.NewClient("bedrock-invoker"),
		bearerToken:      bearerToken,
		candidateTimeout: candidateTimeout,
		log:              log,
	}
}

// Invoke tries each candidate until one returns a 2xx with a valid JSON body.
// A 2xx with a malformed body counts as that candidate's failure and the next
// one is tried. When every candidate fails, the returned error aggregates
// each attempt's strategy label and failure detail in order.
func (e *Executor) Invoke(ctx context.Context, candidates []generation.Candidate, payload []byte) (*generation.Outcome, error) {
	var trail []generation.Attempt

	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, platformerrors.NewError(platformerrors.ErrorTypeTimeout,
				platformerrors.LayerInfrastructure, "generation canceled", err)
		}

		body, detail := e.tryCandidate(ctx, candidate, payload)
		if detail == "" {
			metrics.RecordCandidateAttempt(candidate.Strategy, "success")
			e.log.Info().
				Str("strategy", candidate.Strategy).
				Int("order", candidate.Order).
				Int("failed_before", len(trail)).
				Msg("[Executor] Endpoint succeeded")
			return &generation.Outcome{
				Body:     body,
				Strategy: candidate.Strategy,
				Trail:    trail,
			}, nil
		}

		metrics.RecordCandidateAttempt(candidate.Strategy, "failure")
		e.log.Warn().
			Str("strategy", candidate.Strategy).
			Str("url", candidate.URL).
			Str("detail", detail).
			Msg("[Executor] Endpoint attempt failed")
		trail = append(trail, generation.Attempt{
			Strategy: candidate.Strategy,
			URL:      candidate.URL,
			Detail:   detail,
		})
	}

	parts := make([]string, 0, len(trail))
	for _, a := range trail {
		parts = append(parts, fmt.Sprintf("%s: %s", a.Strategy, a.Detail))
	}
	return nil, platformerrors.NewError(platformerrors.ErrorTypeExternal,
		platformerrors.LayerInfrastructure,
		"all endpoints failed ("+strings.Join(parts, "; ")+")", nil)
}

// tryCandidate performs one attempt. An empty detail means success.
func (e *Executor) tryCandidate(ctx context.Context, candidate generation.Candidate, payload []byte) (body []byte, detail string) {
	attemptCtx, cancel := context.WithTimeout(ctx, e.candidateTimeout)
	defer cancel()

	resp, err := e.client.R().
		SetContext(attemptCtx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("Authorization", "Bearer "+e.bearerToken).
		SetBody(payload).
		Post(candidate.URL)
	if err != nil {
		return nil, fmt.Sprintf("request failed: %v", err)
	}

	raw := resp.Bytes()
	if resp.IsError() {
		return nil, fmt.Sprintf("status %d: %s", resp.StatusCode(), truncate(string(raw), 200))
	}
	if !json.Valid(raw) {
		return nil, fmt.Sprintf("status %d with malformed body", resp.StatusCode())
	}
	return raw, ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
