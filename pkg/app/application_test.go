package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtbook/pkg/config"
	"courtbook/pkg/contracts"
	"courtbook/pkg/logger"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type echoHandler struct{}

func (echoHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/echo", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
}

func testConfig() *config.Config {
	return &config.Config{
		Log:             logger.Discard(),
		Port:            "0",
		RateLimitRPS:    100,
		RateLimitBurst:  100,
		RequestTimeout:  time.Second,
		IdempotencyTTL:  time.Minute,
		MaxRequestSize:  1024,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		IdleTimeout:     time.Second,
		ShutdownTimeout: time.Second,
	}
}

func TestProbes(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)

	a := NewApplication(testConfig())
	a.SetApp(pingerFunc(func(context.Context) error {
		if healthy.Load() {
			return nil
		}
		return errors.New("mongo down")
	}), echoHandler{})
	defer a.idempotencyStore.Stop()
	defer a.rateLimiter.Stop()

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	assert.Equal(t, http.StatusOK, get("/health").Code)
	assert.Equal(t, http.StatusOK, get("/ready").Code)

	healthy.Store(false)
	rec := get("/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "unavailable")
	assert.Equal(t, http.StatusOK, get("/health").Code)

	rec = get("/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestAppRoutesGoThroughMiddleware(t *testing.T) {
	a := NewApplication(testConfig())
	a.SetApp(pingerFunc(func(context.Context) error { return nil }), echoHandler{})
	defer a.idempotencyStore.Stop()
	defer a.rateLimiter.Stop()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/echo", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodPost, "/api/v1/echo", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	rec = httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestRunContext_StopsWorkers(t *testing.T) {
	a := NewApplication(testConfig())
	a.SetApp(pingerFunc(func(context.Context) error { return nil }))

	started := make(chan struct{})
	a.AddWorker("test", contracts.WorkerFunc(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.RunContext(ctx) }()

	<-started
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("RunContext did not return")
	}
}

func TestRunContext_WorkerFailure(t *testing.T) {
	a := NewApplication(testConfig())
	a.SetApp(pingerFunc(func(context.Context) error { return nil }))
	a.AddWorker("broken", contracts.WorkerFunc(func(context.Context) error {
		return errors.New("consumer crashed")
	}))

	err := a.RunContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "consumer crashed")
}
