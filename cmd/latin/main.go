package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/laporan-latin/laporan-latin/internal/app"
	"github.com/laporan-latin/laporan-latin/internal/auth"
	"github.com/laporan-latin/laporan-latin/internal/lalin"
	lalinhttp "github.com/laporan-latin/laporan-latin/internal/lalin/http"
	"github.com/laporan-latin/laporan-latin/internal/lalin/svg"
	"github.com/laporan-latin/laporan-latin/internal/lalin/ui"
	"github.com/laporan-latin/laporan-latin/internal/masterdata/gerbang"
	"github.com/laporan-latin/laporan-latin/internal/observability"
	"github.com/laporan-latin/laporan-latin/internal/platform/cache"
	"github.com/laporan-latin/laporan-latin/internal/platform/db"
	"github.com/laporan-latin/laporan-latin/internal/shared"
	"github.com/laporan-latin/laporan-latin/internal/upstream"
	"github.com/laporan-latin/laporan-latin/internal/view"
	"github.com/laporan-latin/laporan-latin/jobs"
)

const sessionCookie = "latin_session"

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN, db.PoolOptions{})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cache.Options{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	sessionManager := shared.NewSessionManager(redisClient, sessionCookie, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	client := upstream.NewClient(upstream.Options{
		BaseURL:  cfg.UpstreamBaseURL,
		Timeout:  cfg.UpstreamTimeout,
		Observer: metrics,
	})

	authService := auth.NewService(client)
	authHandler := auth.NewHandler(logger, authService, templates, sessionManager, csrfManager)

	reportService := lalin.NewService(client, lalin.NewCache(redisClient, cfg.ReportCacheTTL), lalin.ServiceOptions{
		PageLimit:   cfg.UpstreamPageLimit,
		Concurrency: cfg.UpstreamFetchConcurrency,
		LoadTimeout: cfg.AppRequestTimeout,
	})
	reportHandler := lalinhttp.NewHandler(logger, reportService, templates, csrfManager,
		ui.BarFunc(svg.Bars), ui.DonutFunc(svg.Donut),
		lalinhttp.Options{DefaultDate: cfg.DefaultReportDate, RequestTimeout: cfg.AppRequestTimeout},
	)

	gerbangService := gerbang.NewService(gerbang.NewRepository(dbpool))
	gerbangHandler := gerbang.NewHandler(logger, gerbangService, templates, csrfManager)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,
		Metrics:        metrics,
		AuthHandler:    authHandler,
		ReportHandler:  reportHandler,
		GerbangHandler: gerbangHandler,
		JobHandler:     jobHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("upstream", client.BaseURL()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
