package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"assetshare/pkg/config"
	"assetshare/pkg/middleware"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"github.com/rs/cors"
)

// Handler registers its routes on the application router.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}

// Worker runs in the background until its context is cancelled.
type Worker func(ctx context.Context)

type closer struct {
	name string
	fn   func() error
}

type Application struct {
	cfg            *config.Config
	server         *http.Server
	healthHandler  http.Handler
	appHttpHandler http.Handler

	workers []namedWorker
	closers []closer
	wg      sync.WaitGroup
}

type namedWorker struct {
	name string
	run  Worker
}

func NewApplication(cfg *config.Config) *Application {
	return &Application{cfg: cfg}
}

// AddWorker registers a goroutine started by Run and stopped on shutdown.
func (a *Application) AddWorker(name string, w Worker) {
	a.workers = append(a.workers, namedWorker{name: name, run: w})
}

// OnShutdown registers a cleanup run after the server stopped, in reverse
// registration order.
func (a *Application) OnShutdown(name string, fn func() error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}

// SetApp builds the server. Long-lived and probe endpoints (health, ready,
// websocket) get only recovery and logging; every other route gets the full
// chain.
func (a *Application) SetApp(health, realtime Handler, handlers ...Handler) {
	a.setHealthHandler(health, realtime)
	a.setAppHandler(handlers...)
	a.setAppServer()
}

func (a *Application) setHealthHandler(handlers ...Handler) {
	router := httprouter.New()
	for _, h := range handlers {
		h.RegisterRoutes(router)
	}

	a.healthHandler = alice.New(
		middleware.Recovery(a.cfg.Log),
		middleware.RequestLogging(a.cfg.Log),
	).Then(router)
	a.cfg.Log.Info("Health and websocket endpoints configured with minimal middleware (Recovery + Logging only)")
}

func (a *Application) setAppHandler(handlers ...Handler) {
	router := httprouter.New()
	for _, h := range handlers {
		h.RegisterRoutes(router)
	}

	chain := alice.New(
		middleware.Recovery(a.cfg.Log),
		middleware.RequestLogging(a.cfg.Log),
		middleware.MaxRequestSize(int64(a.cfg.MaxRequestSize), int64(a.cfg.MaxUploadSize)),
		middleware.ContentTypeValidation(a.cfg.Log),
		middleware.RequestTimeout(a.cfg.RequestTimeout),
	)
	a.appHttpHandler = chain.Then(router)
	a.cfg.Log.Info("Application endpoints configured with full middleware stack")
}

func (a *Application) setAppServer() {
	mux := http.NewServeMux()
	mux.Handle("/health", a.healthHandler)
	mux.Handle("/ready", a.healthHandler)
	mux.Handle("/ws", a.healthHandler)
	mux.Handle("/", a.appHttpHandler)

	c := cors.New(cors.Options{
		AllowedOrigins:   a.cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
	})

	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      c.Handler(mux),
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}

	a.cfg.Log.Info("HTTP server configured", "port", a.cfg.Port, "cors_origins", a.cfg.CORSAllowedOrigins)
}

// Handler returns the fully wrapped server handler.
func (a *Application) Handler() http.Handler {
	return a.server.Handler
}

func (a *Application) Run() {
	ctx, stopWorkers := context.WithCancel(context.Background())
	for _, w := range a.workers {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			a.cfg.Log.Info("Starting background worker", "worker", w.name)
			w.run(ctx)
			a.cfg.Log.Info("Background worker stopped", "worker", w.name)
		}()
	}

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
			stopWorkers()
			a.cfg.Log.Fatal("HTTP server failed", "error", err)
		}

	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		a.gracefulShutdown(stopWorkers)
	}
}

func (a *Application) gracefulShutdown(stopWorkers context.CancelFunc) {
	a.cfg.Log.Info("Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Error("Could not stop server gracefully", "error", err)
		}
	}
	a.cfg.Log.Info("Server stopped")

	a.cfg.Log.Info("Stopping background workers...")
	stopWorkers()
	a.wg.Wait()
	a.cfg.Log.Info("Background workers stopped")

	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.fn(); err != nil {
			a.cfg.Log.Error("Shutdown step failed", "step", c.name, "error", err)
		}
	}

	a.cfg.GracefulShutdown()
	a.cfg.Log.Info("Shutdown complete")
}
