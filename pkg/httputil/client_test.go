package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/quotecert/pkg/logger"
)

func TestNew(t *testing.T) {
	client := New(logger.Nop(), 0)

	require.NotNil(t, client)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
	assert.True(t, client.retryConfig.Enabled)
	assert.Equal(t, 2, client.retryConfig.MaxRetries)
}

func TestWithRetryAndDisable(t *testing.T) {
	client := New(logger.Nop(), time.Second).WithRetry(5, time.Millisecond)
	assert.Equal(t, 5, client.retryConfig.MaxRetries)
	assert.Equal(t, time.Millisecond, client.retryConfig.InitialDelay)

	client.DisableRetry()
	assert.False(t, client.retryConfig.Enabled)
}

func TestDoJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"echo": in["grade"]})
	}))
	defer server.Close()

	client := New(logger.Nop(), time.Second)

	var out map[string]string
	err := client.DoJSON(context.Background(), server.URL, map[string]string{"grade": "B"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "B", out["echo"])
}

func TestDoJSON_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("bad grade"))
	}))
	defer server.Close()

	client := New(logger.Nop(), time.Second)

	var out map[string]string
	err := client.DoJSON(context.Background(), server.URL, map[string]string{}, &out)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, "bad grade", statusErr.Body)
}

func TestRetryOn5xxReplaysBody(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in["k"] != "v" {
			t.Errorf("attempt %d: body not replayed: %v", atomic.LoadInt32(&attempts), err)
		}
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := New(logger.Nop(), time.Second).WithRetry(3, time.Millisecond)

	resp, err := client.PostJSON(context.Background(), server.URL, map[string]string{"k": "v"})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestNoRetryOn4xx(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := New(logger.Nop(), time.Second).WithRetry(3, time.Millisecond)

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{200, false},
		{404, false},
		{429, true},
		{500, true},
		{503, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsRetryableError(tt.code), "status %d", tt.code)
	}
}
