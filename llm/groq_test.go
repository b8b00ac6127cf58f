package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"scholar-summary/config"
	"scholar-summary/httputil"
)

func testClient(t *testing.T, baseURL, apiKey string) *Client {
	t.Helper()
	cfg := &config.Config{
		GroqAPIKey:          apiKey,
		GroqModel:           "llama-3.3-70b-versatile",
		GroqBaseURL:         baseURL,
		FetchTimeoutSeconds: 5,
	}
	return NewClient(cfg, zap.NewNop())
}

func TestGenerateWithoutAPIKey(t *testing.T) {
	c := testClient(t, "http://unused", "")

	_, err := c.Generate(context.Background(), "summarize this", 800, 0.3)
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestGenerateRetriesRateLimitThenSucceeds(t *testing.T) {
	prev := httputil.RetryBaseDelay
	httputil.RetryBaseDelay = time.Millisecond
	defer func() { httputil.RetryBaseDelay = prev }()

	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama-3.3-70b-versatile", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)

		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"A concise summary."}}]}`))
	}))
	defer server.Close()

	c := testClient(t, server.URL, "test-key")

	text, err := c.Generate(context.Background(), "summarize this", 800, 0.3)
	require.NoError(t, err)
	assert.Equal(t, "A concise summary.", text)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGenerateReturnsErrorAfterRetryExhaustion(t *testing.T) {
	prev := httputil.RetryBaseDelay
	httputil.RetryBaseDelay = time.Millisecond
	defer func() { httputil.RetryBaseDelay = prev }()

	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := testClient(t, server.URL, "test-key")

	_, err := c.Generate(context.Background(), "summarize this", 800, 0.3)
	assert.Error(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGenerateEmptyCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	c := testClient(t, server.URL, "test-key")

	_, err := c.Generate(context.Background(), "summarize this", 800, 0.3)
	assert.Error(t, err)
}
