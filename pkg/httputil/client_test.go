package httputil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/investo/pkg/config"
	"github.com/wonny/investo/pkg/logger"
)

func newTestClient() *Client {
	cfg := &config.Config{Env: "development", HTTPTimeout: 2 * time.Second}
	return New(cfg, logger.NewNop())
}

func TestNew(t *testing.T) {
	client := newTestClient()

	require.NotNil(t, client)
	assert.Equal(t, 2*time.Second, client.httpClient.Timeout)
	assert.Equal(t, 2, client.retryConfig.MaxRetries)
	assert.True(t, client.retryConfig.Enabled)
}

func TestNew_DefaultTimeout(t *testing.T) {
	client := New(&config.Config{}, logger.NewNop())
	assert.Equal(t, 12*time.Second, client.httpClient.Timeout)
}

func TestWithRetryAndDisable(t *testing.T) {
	client := newTestClient().WithRetry(5, 2*time.Second)
	assert.Equal(t, 5, client.retryConfig.MaxRetries)
	assert.Equal(t, 2*time.Second, client.retryConfig.InitialDelay)

	client.DisableRetry()
	assert.False(t, client.retryConfig.Enabled)
}

func TestGet_SetsDefaultUserAgent(t *testing.T) {
	var gotUA, gotCustom string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotCustom = r.Header.Get("X-Token")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resp, err := newTestClient().Get(context.Background(), server.URL, map[string]string{"X-Token": "abc"})
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, DefaultUserAgent, gotUA)
	assert.Equal(t, "abc", gotCustom)
}

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"c": 189.5, "t": 1700000000}`))
	}))
	defer server.Close()

	var quote struct {
		C float64 `json:"c"`
		T int64   `json:"t"`
	}
	err := newTestClient().GetJSON(context.Background(), server.URL, nil, &quote)
	require.NoError(t, err)
	assert.Equal(t, 189.5, quote.C)
	assert.Equal(t, int64(1700000000), quote.T)
}

func TestGetBody_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestClient().GetBody(context.Background(), server.URL, nil)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestRetryOn5xx(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := newTestClient().WithRetry(3, 10*time.Millisecond)

	body, err := client.GetBody(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestRetryExhausted(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient().WithRetry(1, time.Millisecond)

	_, err := client.GetBody(context.Background(), server.URL, nil)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
}

func TestLocalLimit_RespectsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	client := newTestClient().WithLocalLimit(0.001, 1)

	resp, err := client.Get(context.Background(), server.URL, nil)
	require.NoError(t, err)
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.Get(ctx, server.URL, nil)
	assert.Error(t, err)
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		statusCode int
		want       bool
	}{
		{200, false},
		{400, false},
		{404, false},
		{429, true},
		{500, true},
		{503, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.statusCode), func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryableError(tt.statusCode))
		})
	}
}
