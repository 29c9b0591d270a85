package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"slotly/pkg/config"
	"slotly/pkg/contracts"
	"slotly/pkg/middleware"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/julienschmidt/httprouter"
)

const redisPingTimeout = 3 * time.Second

type closer struct {
	name string
	fn   func() error
}

type Application struct {
	cfg              *config.Config
	host             string
	server           *http.Server
	idempotencyStore middleware.IdempotencyStore
	rateLimiter      *middleware.RateLimiter
	handler          http.Handler
	closers          []closer
}

func NewApplication(cfg *config.Config) *Application {
	return &Application{cfg: cfg}
}

// ListenOn binds the server to a specific host instead of every interface.
func (a *Application) ListenOn(host string) *Application {
	a.host = host
	return a
}

// IdempotencyStore returns the store shared by the Idempotency middleware and
// any service that dedupes on its own, creating it on first use. Redis is used
// when REDIS_ADDR is set and reachable.
func (a *Application) IdempotencyStore() middleware.IdempotencyStore {
	if a.idempotencyStore != nil {
		return a.idempotencyStore
	}

	if a.cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     a.cfg.RedisAddr,
			Password: a.cfg.RedisPassword,
			DB:       a.cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		err := client.Ping(ctx).Err()
		cancel()
		if err == nil {
			a.cfg.Log.Info("Using Redis idempotency store", "addr", a.cfg.RedisAddr)
			a.idempotencyStore = middleware.NewRedisIdempotencyStore(client, a.cfg.IdempotencyTTL, a.cfg.Log)
			return a.idempotencyStore
		}
		_ = client.Close()
		a.cfg.Log.Warn("Redis unavailable, falling back to in-memory idempotency store", "addr", a.cfg.RedisAddr, "error", err)
	}

	a.idempotencyStore = middleware.NewInMemoryIdempotencyStore(a.cfg.IdempotencyTTL)
	return a.idempotencyStore
}

// OnShutdown registers fn to run after the server stopped, in registration order.
func (a *Application) OnShutdown(name string, fn func() error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}

// SetApp builds the API handler: health endpoints get the minimal stack, every
// other route gets the full one.
func (a *Application) SetApp(health contracts.Handler, handlers ...contracts.Handler) {
	healthRouter := httprouter.New()
	health.RegisterRoutes(healthRouter)

	var healthHandler http.Handler = healthRouter
	healthHandler = middleware.RequestLogging(a.cfg.Log)(healthHandler)
	healthHandler = middleware.Recovery(a.cfg.Log)(healthHandler)

	appRouter := httprouter.New()
	for _, h := range handlers {
		h.RegisterRoutes(appRouter)
	}

	mux := http.NewServeMux()
	mux.Handle("/health", healthHandler)
	mux.Handle("/ready", healthHandler)
	mux.Handle("/", a.apiStack(appRouter))
	a.handler = mux
	a.cfg.Log.Info("Application endpoints configured", "handlers", len(handlers))
}

func (a *Application) apiStack(router http.Handler) http.Handler {
	a.rateLimiter = middleware.NewRateLimiter(
		a.cfg.RateLimitRequests,
		a.cfg.RateLimitWindow,
		middleware.DefaultClientKeyExtractor,
		a.cfg.Log,
	)

	h := router
	h = middleware.Idempotency(a.IdempotencyStore(), middleware.IdempotencyHeader)(h)
	h = middleware.RequestTimeout(a.cfg.RequestTimeout)(h)
	h = middleware.RateLimit(a.rateLimiter)(h)
	h = middleware.ContentTypeValidation(a.cfg.Log)(h)
	if a.cfg.WebhookSecret != "" {
		h = middleware.WebhookSignature(a.cfg.WebhookSecret, a.cfg.Log)(h)
		a.cfg.Log.Info("Webhook signature verification enabled")
	}
	h = middleware.WebhookRawBody(a.cfg.Log)(h)
	h = middleware.Language()(h)
	h = middleware.IdentityFromHeaders()(h)
	h = middleware.MaxRequestSize(int64(a.cfg.MaxRequestSize))(h)
	h = middleware.CrossOriginIsolation()(h)
	h = middleware.RequestLogging(a.cfg.Log)(h)
	h = middleware.Recovery(a.cfg.Log)(h)
	return h
}

// SetStatic serves h, typically the SPA handler, behind the headers the
// frontend needs.
func (a *Application) SetStatic(h http.Handler) {
	h = middleware.CrossOriginIsolation()(h)
	h = middleware.RequestLogging(a.cfg.Log)(h)
	h = middleware.Recovery(a.cfg.Log)(h)
	a.handler = h
}

func (a *Application) Handler() http.Handler {
	return a.handler
}

func (a *Application) setServer() {
	a.server = &http.Server{
		Addr:         a.host + ":" + a.cfg.Port,
		Handler:      a.handler,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}
	a.cfg.Log.Info("HTTP server configured", "address", a.server.Addr)
}

func (a *Application) Run() {
	a.setServer()
	serverErrors := make(chan error, 1)

	go func() {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			a.stopWorkers()
			a.cfg.Log.Fatal("HTTP server failed", "error", err)
		}

	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		a.gracefulShutdown()
	}
}

func (a *Application) gracefulShutdown() {
	a.cfg.Log.Info("Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Error("Could not stop server gracefully", "error", err)
		}
	}

	a.stopWorkers()
	a.cfg.Log.Info("Server stopped gracefully")
}

// stopWorkers stops middleware goroutines and runs the registered closers.
func (a *Application) stopWorkers() {
	a.cfg.Log.Info("Stopping background workers...")
	if a.idempotencyStore != nil {
		a.idempotencyStore.Stop()
	}
	if a.rateLimiter != nil {
		a.rateLimiter.Stop()
	}
	for _, c := range a.closers {
		if err := c.fn(); err != nil {
			a.cfg.Log.Error("Failed to close resource", "resource", c.name, "error", err)
		}
	}
	a.cfg.GracefulShutdown()
	a.cfg.Log.Info("Background workers stopped")
}
