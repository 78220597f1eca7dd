package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/hibiken/asynq"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/laporan-latin/laporan-latin/jobs"
)

const reportWarmupJob = "report-warmup"

// JobsCLI wraps manual management helpers for Asynq jobs.
type JobsCLI struct {
	client    *jobs.Client
	inspector jobs.QueueInspector
	closer    func() error
}

// NewJobsCLI initialises the CLI helpers using the provided Redis address.
func NewJobsCLI(redisAddr string) *JobsCLI {
	opts := asynq.RedisClientOpt{Addr: redisAddr}
	inspector := asynq.NewInspector(opts)
	return &JobsCLI{
		client:    jobs.NewClient(opts),
		inspector: inspector,
		closer:    inspector.Close,
	}
}

// Close releases underlying resources.
func (c *JobsCLI) Close() error {
	var errs []error
	if c.closer != nil {
		errs = append(errs, c.closer())
	}
	if c.client != nil {
		errs = append(errs, c.client.Close())
	}
	return errors.Join(errs...)
}

// Trigger enqueues a supported job by name.
func (c *JobsCLI) Trigger(ctx context.Context, name, date string, days int) (*asynq.TaskInfo, error) {
	if name != reportWarmupJob && name != jobs.TaskReportWarmup {
		return nil, fmt.Errorf("jobs cli: unsupported job %s", name)
	}
	if c == nil || c.client == nil {
		return nil, errors.New("jobs cli: client not configured")
	}
	return c.client.EnqueueReportWarmup(ctx, date, days)
}

// InspectQueue reports the default queue state.
func (c *JobsCLI) InspectQueue() (jobs.QueueHealth, error) {
	if c == nil || c.inspector == nil {
		return jobs.QueueHealth{}, errors.New("jobs cli: inspector not configured")
	}
	return jobs.Stats(c.inspector)
}

func newJobsCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Trigger and inspect background jobs",
	}

	var date string
	var days int
	trigger := &cobra.Command{
		Use:       "trigger " + reportWarmupJob,
		Short:     "Enqueue a job now",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{reportWarmupJob},
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := rt.jobsCLI()
			if err != nil {
				return err
			}
			defer cli.Close()
			info, err := cli.Trigger(cmd.Context(), args[0], date, days)
			if err != nil {
				return err
			}
			fmt.Fprintln(rt.out, pterm.Success.Sprintf("%s diantrikan di %s (id %s)", info.Type, info.Queue, info.ID))
			return nil
		},
	}
	trigger.Flags().StringVar(&date, "date", "", "last date to warm (default yesterday)")
	trigger.Flags().IntVar(&days, "days", 1, "number of days ending at --date")

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show queue depth",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cli, err := rt.jobsCLI()
			if err != nil {
				return err
			}
			defer cli.Close()
			health, err := cli.InspectQueue()
			if err != nil {
				return err
			}
			return renderQueue(rt, health)
		},
	}

	cmd.AddCommand(trigger, stats)
	return cmd
}

func (rt *runtime) jobsCLI() (*JobsCLI, error) {
	cfg, err := rt.config()
	if err != nil {
		return nil, err
	}
	return NewJobsCLI(cfg.RedisAddr), nil
}

func renderQueue(rt *runtime, h jobs.QueueHealth) error {
	table, err := pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Queue", "Pending", "Active", "Scheduled", "Retry", "Archived", "Paused"},
		{h.Queue, strconv.Itoa(h.Pending), strconv.Itoa(h.Active), strconv.Itoa(h.Scheduled),
			strconv.Itoa(h.Retry), strconv.Itoa(h.Archived), strconv.FormatBool(h.Paused)},
	}).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(rt.out, table)
	return err
}
