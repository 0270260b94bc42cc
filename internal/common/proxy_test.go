package common

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProxy_RequestSendsHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "overseer-test", r.Header.Get("User-Agent"))
		w.Write([]byte("hello"))
	}))
	defer server.Close()

	proxy := NewProxy(map[string]string{"User-Agent": "overseer-test"}, time.Second)
	body, err := proxy.Request(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))
}

func TestProxy_RequestStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	proxy := NewProxy(nil, time.Second)
	_, err := proxy.Request(context.Background(), server.URL)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
	assert.Contains(t, err.Error(), "Service unavailable")
}

func TestProxy_RequestHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	proxy := NewProxy(nil, time.Minute)
	_, err := proxy.Request(ctx, server.URL)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
