package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/sync/errgroup"

	"courtbook/pkg/config"
	"courtbook/pkg/contracts"
	"courtbook/pkg/middleware"
)

type namedWorker struct {
	name   string
	worker contracts.Worker
}

type Application struct {
	cfg              *config.Config
	server           *http.Server
	idempotencyStore *middleware.InMemoryIdempotencyStore
	rateLimiter      *middleware.RateLimiter
	workers          []namedWorker
}

func NewApplication(cfg *config.Config) *Application {
	return &Application{cfg: cfg}
}

// SetApp wires the probe routes and the API handlers behind their
// middleware stacks.
func (a *Application) SetApp(pinger Pinger, handlers ...contracts.Handler) {
	mux := http.NewServeMux()
	health := a.healthHandler(pinger)
	mux.Handle("/health", health)
	mux.Handle("/ready", health)
	mux.Handle("/metrics", health)
	mux.Handle("/", a.appHandler(handlers))

	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      mux,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}
	a.cfg.Log.Info("HTTP server configured", "port", a.cfg.Port)
}

func (a *Application) healthHandler(pinger Pinger) http.Handler {
	router := httprouter.New()
	NewHealthHandler(pinger, a.cfg.Log).RegisterRoutes(router)

	a.cfg.Log.Info("Health endpoints configured with minimal middleware (Recovery + Logging only)")
	return middleware.Chain(router,
		middleware.Recovery(a.cfg.Log),
		middleware.RequestLogging(a.cfg.Log),
	)
}

func (a *Application) appHandler(handlers []contracts.Handler) http.Handler {
	router := httprouter.New()
	for _, h := range handlers {
		h.RegisterRoutes(router)
	}

	a.idempotencyStore = middleware.NewInMemoryIdempotencyStore(a.cfg.IdempotencyTTL)
	a.rateLimiter = middleware.NewRateLimiter(a.cfg.RateLimitRPS, a.cfg.RateLimitBurst, 3*time.Minute, middleware.CustomerKey, a.cfg.Log)

	a.cfg.Log.Info("Application endpoints configured with full middleware stack")
	return middleware.Chain(router,
		middleware.Recovery(a.cfg.Log),
		middleware.RequestLogging(a.cfg.Log),
		middleware.HTTPMetrics(),
		middleware.MaxBodySize(int64(a.cfg.MaxRequestSize)),
		middleware.ContentTypeValidation(a.cfg.Log),
		middleware.RateLimit(a.rateLimiter),
		middleware.RequestTimeout(a.cfg.RequestTimeout),
		middleware.Idempotency(a.idempotencyStore),
	)
}

// Handler exposes the configured HTTP handler.
func (a *Application) Handler() http.Handler {
	return a.server.Handler
}

// AddWorker registers a background loop that shares the server's lifetime.
func (a *Application) AddWorker(name string, worker contracts.Worker) {
	a.workers = append(a.workers, namedWorker{name: name, worker: worker})
}

// Run serves until SIGINT or SIGTERM and exits the process on failure.
func (a *Application) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.RunContext(ctx); err != nil {
		a.cfg.Log.Fatal("Service terminated with error", "error", err)
	}
}

// RunContext runs the server and every worker until ctx is done or one of
// them fails, then shuts the rest down.
func (a *Application) RunContext(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr)
		if err := a.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	for _, w := range a.workers {
		g.Go(func() error {
			a.cfg.Log.Info("Starting worker", "worker", w.name)
			if err := w.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("worker %s: %w", w.name, err)
			}
			a.cfg.Log.Info("Worker stopped", "worker", w.name)
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		return a.gracefulShutdown()
	})

	return g.Wait()
}

func (a *Application) gracefulShutdown() error {
	a.cfg.Log.Info("Starting graceful shutdown...")

	a.idempotencyStore.Stop()
	a.rateLimiter.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if closeErr := a.server.Close(); closeErr != nil {
			return fmt.Errorf("could not stop server gracefully: %w", closeErr)
		}
		return err
	}

	a.cfg.Log.Info("Server stopped gracefully")
	return nil
}
