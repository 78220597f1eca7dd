package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/laporan-latin/laporan-latin/internal/app"
	jobmetrics "github.com/laporan-latin/laporan-latin/internal/jobs"
	"github.com/laporan-latin/laporan-latin/internal/lalin"
	"github.com/laporan-latin/laporan-latin/internal/platform/cache"
	"github.com/laporan-latin/laporan-latin/internal/upstream"
	"github.com/laporan-latin/laporan-latin/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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
	if !cfg.HasServiceAccount() {
		logger.Error("UPSTREAM_SERVICE_USER and UPSTREAM_SERVICE_PASSWORD are required by the worker")
		os.Exit(1)
	}

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

	client := upstream.NewClient(upstream.Options{BaseURL: cfg.UpstreamBaseURL, Timeout: cfg.UpstreamTimeout})
	reportService := lalin.NewService(client, lalin.NewCache(redisClient, cfg.ReportCacheTTL), lalin.ServiceOptions{
		PageLimit:   cfg.UpstreamPageLimit,
		Concurrency: cfg.UpstreamFetchConcurrency,
	})

	warmupJob := jobs.NewReportWarmupJob(reportService, client, jobs.ServiceAccount{
		Username: cfg.UpstreamServiceUser,
		Password: cfg.UpstreamServicePassword,
	}, logger, jobmetrics.NewMetrics(nil))

	warmupTask, err := jobs.NewReportWarmupTask("", cfg.WarmupDays)
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskReportWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.WarmupCron, Task: warmupTask},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker", slog.String("cron", cfg.WarmupCron), slog.Int("days", cfg.WarmupDays))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
