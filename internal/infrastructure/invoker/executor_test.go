package invoker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bongo-server/internal/domain/generation"
	"bongo-server/internal/utils/platformerrors"
)

func newTestExecutor(timeout time.Duration) *Executor {
	return NewExecutor("test-bearer", timeout, zerolog.Nop())
}

func candidateFor(url, strategy string, order int) generation.Candidate {
	return generation.Candidate{URL: url, Strategy: strategy, Order: order}
}

func TestInvokeFirstCandidateSucceeds(t *testing.T) {
	var gotAuth, gotContentType atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		gotContentType.Store(r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"text":"ok"}]}`))
	}))
	defer srv.Close()

	exec := newTestExecutor(5 * time.Second)
	outcome, err := exec.Invoke(context.Background(),
		[]generation.Candidate{candidateFor(srv.URL, "direct", 1)},
		[]byte(`{"prompt":"hi"}`))
	require.NoError(t, err)

	assert.Equal(t, "direct", outcome.Strategy)
	assert.Empty(t, outcome.Trail)
	assert.JSONEq(t, `{"content":[{"text":"ok"}]}`, string(outcome.Body))
	assert.Equal(t, "Bearer test-bearer", gotAuth.Load())
	assert.Equal(t, "application/json", gotContentType.Load())
}

func TestInvokeFallsThroughToSecondCandidate(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"model not enabled"}`, http.StatusForbidden)
	}))
	defer failing.Close()

	succeeding := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"images":["abc"]}`))
	}))
	defer succeeding.Close()

	exec := newTestExecutor(5 * time.Second)
	outcome, err := exec.Invoke(context.Background(),
		[]generation.Candidate{
			candidateFor(failing.URL, "direct", 1),
			candidateFor(succeeding.URL, "cross-region", 2),
		},
		[]byte(`{}`))
	require.NoError(t, err)

	assert.Equal(t, "cross-region", outcome.Strategy)
	require.Len(t, outcome.Trail, 1)
	assert.Equal(t, "direct", outcome.Trail[0].Strategy)
	assert.Contains(t, outcome.Trail[0].Detail, "status 403")
}

func TestInvokeMalformedSuccessBodyFallsThrough(t *testing.T) {
	malformed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer malformed.Close()

	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer good.Close()

	exec := newTestExecutor(5 * time.Second)
	outcome, err := exec.Invoke(context.Background(),
		[]generation.Candidate{
			candidateFor(malformed.URL, "direct", 1),
			candidateFor(good.URL, "alt-region", 2),
		},
		[]byte(`{}`))
	require.NoError(t, err)

	assert.Equal(t, "alt-region", outcome.Strategy)
	require.Len(t, outcome.Trail, 1)
	assert.Contains(t, outcome.Trail[0].Detail, "malformed body")
}

func TestInvokeAllCandidatesFailAggregatesInOrder(t *testing.T) {
	forbidden := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer forbidden.Close()

	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "missing", http.StatusNotFound)
	}))
	defer notFound.Close()

	exec := newTestExecutor(5 * time.Second)
	_, err := exec.Invoke(context.Background(),
		[]generation.Candidate{
			candidateFor(forbidden.URL, "direct", 1),
			candidateFor(notFound.URL, "cross-region", 2),
		},
		[]byte(`{}`))
	require.Error(t, err)

	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal))
	msg := err.Error()
	assert.Contains(t, msg, "direct: status 403")
	assert.Contains(t, msg, "cross-region: status 404")
	assert.Less(t, // direct's failure is reported before cross-region's
		strings.Index(msg, "direct:"), strings.Index(msg, "cross-region:"))
}

func TestInvokeCandidateTimeoutMovesOn(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()

	fast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer fast.Close()

	exec := newTestExecutor(100 * time.Millisecond)
	outcome, err := exec.Invoke(context.Background(),
		[]generation.Candidate{
			candidateFor(slow.URL, "direct", 1),
			candidateFor(fast.URL, "cross-region", 2),
		},
		[]byte(`{}`))
	require.NoError(t, err)

	assert.Equal(t, "cross-region", outcome.Strategy)
	require.Len(t, outcome.Trail, 1)
	assert.Contains(t, outcome.Trail[0].Detail, "request failed")
}

func TestInvokeCanceledContextStopsSequence(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := newTestExecutor(time.Second)
	_, err := exec.Invoke(ctx,
		[]generation.Candidate{candidateFor("http://127.0.0.1:1", "direct", 1)},
		[]byte(`{}`))
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeTimeout))
}
