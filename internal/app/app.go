// Package app wires configuration, storage, domain services, and the
// HTTP server together.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/koyo-dev/tableside/internal/catalog"
	"github.com/koyo-dev/tableside/internal/domain/menu"
	"github.com/koyo-dev/tableside/internal/domain/order"
	"github.com/koyo-dev/tableside/internal/domain/table"
	"github.com/koyo-dev/tableside/internal/handler"
	"github.com/koyo-dev/tableside/internal/memstore"
	"github.com/koyo-dev/tableside/internal/storage/postgres"
	"github.com/koyo-dev/tableside/pkg/health"
	"github.com/koyo-dev/tableside/pkg/httpmiddleware"
)

// backend is satisfied by both storage implementations.
type backend interface {
	Menu() menu.Repository
	Tables() table.Registry
	Orders() order.Store
}

// Run creates all dependencies, starts the HTTP server, and handles
// graceful shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	healthSvc := health.NewService()
	healthSvc.AddLiveness("goroutines", time.Second, health.GoroutineCountCheck(10000))

	// Empty DatabaseURL selects the in-memory backend seeded from the
	// embedded catalog; otherwise Postgres, seeded via cmd/seed-db.
	var store backend
	if cfg.DatabaseURL == "" {
		items, err := catalog.Load()
		if err != nil {
			return errors.Wrap(err, "load catalog")
		}
		store = memstore.New(items, catalog.Tables())
		lg.Info("Using in-memory backend", zap.Int("menu_items", len(items)))
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return errors.Wrap(err, "create db pool")
		}
		defer pool.Close()

		if err := postgres.RunMigrations(ctx, pool); err != nil {
			return errors.Wrap(err, "run migrations")
		}

		healthSvc.AddReadiness("postgres", 5*time.Second, health.PingCheck(pool))
		store = postgres.NewStore(pool)
		lg.Info("Using postgres backend")
	}

	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	lifecycle := order.NewService(store.Menu(), store.Orders())

	h := handler.NewHandler(
		handler.Config{ImageBaseURL: cfg.ImageBaseURL},
		store.Menu(),
		store.Tables(),
		store.Orders(),
		lifecycle,
	)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /livez", healthSvc.LiveHandler)
	mux.HandleFunc("GET /readyz", healthSvc.ReadyHandler)
	mux.Handle("/api/", h.Routes())

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins: cfg.CORS.Origins,
				AllowHeaders: []string{"Content-Type"},
				MaxAge:       86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Instrument("tableside-api", m.TracerProvider(), m.MeterProvider()),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: flip readiness off, let the load balancer
	// drain, then stop the server.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
