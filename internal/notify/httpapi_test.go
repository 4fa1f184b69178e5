package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safar/gymwear-api/internal/logger"
)

func TestHTTPTransport_Send(t *testing.T) {
	var got apiRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"id":"abc"}`))
	}))
	defer srv.Close()

	tr := NewHTTPTransport(HTTPAPIConfig{Endpoint: srv.URL, APIKey: "re_test"}, srv.Client(), logger.Discard())

	err := tr.Send(context.Background(), &Message{
		From:    "orders@gymwear.test",
		To:      "ana@example.com",
		Subject: "GymWear - Order #1 - Pending",
		HTML:    "<p>hi</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer re_test", auth)
	assert.Equal(t, apiRequest{
		From:    "orders@gymwear.test",
		To:      []string{"ana@example.com"},
		Subject: "GymWear - Order #1 - Pending",
		HTML:    "<p>hi</p>",
	}, got)
}

func TestHTTPTransport_Non2xx(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"domain not verified"}`))
	}))
	defer srv.Close()

	tr := NewHTTPTransport(HTTPAPIConfig{Endpoint: srv.URL, APIKey: "k"}, srv.Client(), logger.Discard())
	err := tr.Send(context.Background(), &Message{To: "ana@example.com"})

	var statusErr *APIStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "domain not verified")
	assert.Equal(t, int32(1), hits.Load(), "no retry")
}

func TestDispatcher_HTTPFailureSurfacesOnce(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := newTestConfig()
	cfg.HTTPAPI = HTTPAPIConfig{Endpoint: srv.URL, APIKey: "k"}
	d := NewDispatcher(cfg, NewHTTPTransport(cfg.HTTPAPI, srv.Client(), logger.Discard()), logger.Discard())

	err := d.Notify(context.Background(), "ana@example.com", 9, "delivered")

	var notifyErr *NotificationError
	require.True(t, errors.As(err, &notifyErr))
	assert.Equal(t, "http", notifyErr.Transport)
	var statusErr *APIStatusError
	assert.True(t, errors.As(err, &statusErr))
	assert.Equal(t, int32(1), hits.Load())
}

func TestHTTPTransport_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	tr := NewHTTPTransport(HTTPAPIConfig{Endpoint: srv.URL, APIKey: "k"}, srv.Client(), logger.Discard())
	for i := 0; i < 5; i++ {
		assert.Error(t, tr.Send(context.Background(), &Message{To: "a@b.c"}))
	}

	err := tr.Send(context.Background(), &Message{To: "a@b.c"})
	assert.Error(t, err)
	assert.Equal(t, int32(5), hits.Load(), "open breaker rejects without calling the API")
}

func TestHTTPTransport_RecipientRejectionsKeepBreakerClosed(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		var req apiRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.To) == 1 && req.To[0] == "bad@x" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tr := NewHTTPTransport(HTTPAPIConfig{Endpoint: srv.URL, APIKey: "k"}, srv.Client(), logger.Discard())
	for i := 0; i < 6; i++ {
		var statusErr *APIStatusError
		err := tr.Send(context.Background(), &Message{To: "bad@x"})
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusUnprocessableEntity, statusErr.StatusCode)
	}

	require.NoError(t, tr.Send(context.Background(), &Message{To: "good@example.com"}))
	assert.Equal(t, int32(7), hits.Load())
}

func TestHTTPTransport_CancelledCallersKeepBreakerClosed(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tr := NewHTTPTransport(HTTPAPIConfig{Endpoint: srv.URL, APIKey: "k"}, srv.Client(), logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 6; i++ {
		err := tr.Send(ctx, &Message{To: "a@b.c"})
		assert.ErrorIs(t, err, context.Canceled)
	}

	require.NoError(t, tr.Send(context.Background(), &Message{To: "a@b.c"}))
	assert.Equal(t, int32(1), hits.Load())
}

func TestBreakerSuccess(t *testing.T) {
	assert.True(t, breakerSuccess(nil))
	assert.True(t, breakerSuccess(&APIStatusError{StatusCode: http.StatusUnprocessableEntity}))
	assert.True(t, breakerSuccess(fmt.Errorf("email api request: %w", context.Canceled)))
	assert.False(t, breakerSuccess(&APIStatusError{StatusCode: http.StatusServiceUnavailable}))
	assert.False(t, breakerSuccess(errors.New("connection refused")))
}

func TestHTTPTransport_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	tr := NewHTTPTransport(HTTPAPIConfig{Endpoint: url, APIKey: "k"}, nil, logger.Discard())
	err := tr.Send(context.Background(), &Message{To: "a@b.c"})
	assert.Error(t, err)
}
