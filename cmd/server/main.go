package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Simplici0/fraktkalkulator/internal/config"
	"github.com/Simplici0/fraktkalkulator/internal/db"
	"github.com/Simplici0/fraktkalkulator/internal/logging"
	"github.com/Simplici0/fraktkalkulator/internal/migrations"
	"github.com/Simplici0/fraktkalkulator/internal/pricing"
	"github.com/Simplici0/fraktkalkulator/internal/seed"
	"github.com/Simplici0/fraktkalkulator/internal/store"
)

const shutdownTimeout = 10 * time.Second

type server struct {
	auth      *authService
	estimates *store.Store
	pricing   pricing.Options
	pages     pages
	logger    *zap.Logger
	now       func() time.Time
}

func main() {
	cfg := config.Load()

	logger := logging.Must(logging.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Development: cfg.IsDev(),
		Service:     "fraktkalkulator",
	})
	defer func() { _ = logger.Sync() }()

	for _, w := range cfg.Warnings() {
		logger.Warn("configuration", zap.String("warning", w))
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer database.Close()

	if err := migrations.Up(database, logger); err != nil {
		logger.Fatal("failed to run database migrations", zap.Error(err))
	}

	stats, err := seed.Run(context.Background(), database, seed.Config{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	})
	if err != nil {
		logger.Fatal("failed to seed database", zap.Error(err))
	}
	logger.Info("seed complete", zap.Int("inserts", stats.Inserts), zap.Int("updates", stats.Updates))

	tmpl, err := loadPages()
	if err != nil {
		logger.Fatal("failed to parse templates", zap.Error(err))
	}

	auth, err := newAuthService(database, cfg.SessionSecret, !cfg.IsDev())
	if err != nil {
		logger.Fatal("failed to set up sessions", zap.Error(err))
	}
	if cfg.SessionSecret == "" {
		logger.Warn("using a random session secret; admin sessions end on restart")
	}

	srv := &server{
		auth:      auth,
		estimates: store.New(database),
		pricing:   cfg.Pricing,
		pages:     tmpl,
		logger:    logger,
		now:       time.Now,
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("listening",
			zap.String("addr", httpServer.Addr),
			zap.String("rounding", cfg.Pricing.Rounding.String()),
			zap.Bool("ramp_surcharge", cfg.Pricing.RampTracking),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleCalculatorForm)
	r.Post("/", s.handleCalculatorSubmit)
	r.Post("/receipt", s.handleReceiptExport)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog", s.handleCatalog)
		r.Post("/estimates", s.handleEstimateAPI)
	})

	r.Get("/login", s.handleLoginForm)
	r.Post("/login", s.handleLoginSubmit)
	r.Post("/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Get("/estimates", s.handleEstimatesList)
		r.Get("/estimates/{id}/receipt/{format}", s.handleEstimateReceipt)
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	return r
}

// requestLogger logs one line per request once the handler returns.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				logger.Info("request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", status),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
