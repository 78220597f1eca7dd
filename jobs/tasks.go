package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"github.com/laporan-latin/laporan-latin/internal/lalin"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportWarmup preloads whole days of traffic into the report cache.
	TaskReportWarmup = "lalin:report_warmup"

	maxWarmupDays = 31
)

// ReportWarmupPayload selects the days to warm: Days dates ending at Date.
// An empty Date means yesterday in UTC.
type ReportWarmupPayload struct {
	Date string `json:"date,omitempty"`
	Days int    `json:"days"`
}

// NewReportWarmupTask constructs the warmup task.
func NewReportWarmupTask(date string, days int) (*asynq.Task, error) {
	data, err := json.Marshal(ReportWarmupPayload{Date: date, Days: days})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportWarmup, data, asynq.Queue(QueueDefault), asynq.MaxRetry(3)), nil
}

// Dates expands the payload into YYYY-MM-DD strings, oldest first.
func (p ReportWarmupPayload) Dates(now time.Time) ([]string, error) {
	end := now.UTC().AddDate(0, 0, -1)
	if p.Date != "" {
		parsed, err := lalin.ParseDate(p.Date)
		if err != nil {
			return nil, err
		}
		end = parsed
	}
	days := p.Days
	if days <= 0 {
		days = 1
	}
	if days > maxWarmupDays {
		days = maxWarmupDays
	}
	dates := make([]string, 0, days)
	for i := days - 1; i >= 0; i-- {
		dates = append(dates, end.AddDate(0, 0, -i).Format(lalin.DateLayout))
	}
	return dates, nil
}
