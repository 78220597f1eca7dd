package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/laporan-latin/laporan-latin/internal/auth"
	jobmetrics "github.com/laporan-latin/laporan-latin/internal/jobs"
	"github.com/laporan-latin/laporan-latin/internal/lalin"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// DayLoader loads and caches every record of one date.
type DayLoader interface {
	Day(ctx context.Context, token, date string) ([]lalin.TransactionRecord, error)
}

// ServiceAccount is the upstream login used by background jobs.
type ServiceAccount struct {
	Username string
	Password string
}

// ReportWarmupJob fills the report cache so the first page view of a day
// does not wait on the upstream API.
type ReportWarmupJob struct {
	Loader  DayLoader
	Auth    auth.Authenticator
	Account ServiceAccount
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	Timeout time.Duration
	clock   func() time.Time
}

// NewReportWarmupJob wires dependencies for the warmup handler.
func NewReportWarmupJob(loader DayLoader, authn auth.Authenticator, account ServiceAccount, logger *slog.Logger, metrics *jobmetrics.Metrics) *ReportWarmupJob {
	return &ReportWarmupJob{
		Loader:  loader,
		Auth:    authn,
		Account: account,
		Logger:  logger,
		Metrics: metrics,
		Timeout: 2 * time.Minute,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// WithClock overrides the job clock for testing.
func (j *ReportWarmupJob) WithClock(fn func() time.Time) {
	if fn != nil {
		j.clock = fn
	}
}

// Handle processes report warmup tasks.
func (j *ReportWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Loader == nil || j.Auth == nil {
		return errors.New("report warmup: handler not configured")
	}
	var payload ReportWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("report warmup: %v: %w", err, asynq.SkipRetry)
	}
	dates, err := payload.Dates(j.now())
	if err != nil {
		return fmt.Errorf("report warmup: %v: %w", err, asynq.SkipRetry)
	}

	tracker := j.metrics().Track(TaskReportWarmup)
	return tracker.End(j.run(ctx, dates))
}

func (j *ReportWarmupJob) run(ctx context.Context, dates []string) error {
	logger := j.logger().With(slog.String("from", dates[0]), slog.String("to", dates[len(dates)-1]))
	logger.Info("starting report warmup")
	start := time.Now()

	token, err := j.Auth.Login(ctx, j.Account.Username, j.Account.Password)
	if err != nil {
		logger.Error("service login", slog.Any("error", err))
		return fmt.Errorf("report warmup: login: %w", err)
	}

	total := 0
	for _, date := range dates {
		n, err := j.warmDate(ctx, token, date)
		if err != nil {
			logger.Error("warm date", slog.String("date", date), slog.Any("error", err))
			return fmt.Errorf("report warmup: %s: %w", date, err)
		}
		j.metrics().AddWarmedRecords(date, n)
		total += n
	}

	logger.Info("completed report warmup", slog.Int("days", len(dates)), slog.Int("records", total), slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *ReportWarmupJob) warmDate(ctx context.Context, token, date string) (int, error) {
	timeout := j.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	dateCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	records, err := j.Loader.Day(dateCtx, token, date)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

func (j *ReportWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskReportWarmup))
	}
	return slog.Default().With(slog.String("job", TaskReportWarmup))
}

func (j *ReportWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *ReportWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
