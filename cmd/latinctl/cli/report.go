package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/laporan-latin/laporan-latin/internal/lalin"
	"github.com/laporan-latin/laporan-latin/internal/lalin/export"
	"github.com/laporan-latin/laporan-latin/internal/shared"
	"github.com/laporan-latin/laporan-latin/internal/upstream"
)

type reportOptions struct {
	date  string
	page  int
	mode  string
	all   bool
	input string
	out   string
}

func newReportCommand(rt *runtime) *cobra.Command {
	var opts reportOptions
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Aggregate traffic records into the Laporan Latin table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.runReport(cmd.Context(), opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.date, "date", "2023-11-01", "report date (YYYY-MM-DD)")
	flags.IntVar(&opts.page, "page", 1, "upstream page to aggregate")
	flags.StringVar(&opts.mode, "mode", lalin.ModeCash.Key(), "payment mode: "+modeKeys())
	flags.BoolVar(&opts.all, "all", false, "aggregate every page of the date")
	flags.StringVar(&opts.input, "input", "", "read records from a JSON file instead of the API")
	flags.StringVar(&opts.out, "out", "", "also write the report to a .csv, .xlsx or .pdf file")
	return cmd
}

func modeKeys() string {
	keys := make([]string, 0, len(lalin.Modes()))
	for _, m := range lalin.Modes() {
		keys = append(keys, m.Key())
	}
	return strings.Join(keys, ", ")
}

func (rt *runtime) runReport(ctx context.Context, opts reportOptions) error {
	mode, err := lalin.ParseMode(opts.mode)
	if err != nil {
		return err
	}
	if _, err := lalin.ParseDate(opts.date); err != nil {
		return err
	}
	if opts.page < 1 {
		return fmt.Errorf("page must be at least 1, got %d", opts.page)
	}
	if opts.out != "" {
		if _, err := exportWriter(opts.out); err != nil {
			return err
		}
	}

	records, err := rt.loadRecords(ctx, opts)
	if err != nil {
		return err
	}
	report := lalin.Aggregate(records, mode)
	title := fmt.Sprintf("Laporan Lalin %s (%s)", opts.date, mode.Label())

	fmt.Fprint(rt.out, pterm.DefaultSection.Sprint(title))
	fmt.Fprintln(rt.out, pterm.Info.Sprintf("%s record, %s baris", shared.FormatNumber(int64(len(records))), shared.FormatNumber(int64(len(report.Rows)))))
	if err := renderTotals(rt.out, report); err != nil {
		return err
	}

	if opts.out != "" {
		if err := writeExport(opts.out, report, title); err != nil {
			return err
		}
		fmt.Fprintln(rt.out, pterm.Success.Sprintf("laporan ditulis ke %s", opts.out))
	}
	return nil
}

func (rt *runtime) loadRecords(ctx context.Context, opts reportOptions) ([]lalin.TransactionRecord, error) {
	if opts.input != "" {
		body, err := os.ReadFile(opts.input)
		if err != nil {
			return nil, err
		}
		page, err := upstream.DecodeLalinPage(body)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opts.input, err)
		}
		return page.Records, nil
	}

	cfg, err := rt.config()
	if err != nil {
		return nil, err
	}
	client, token, err := rt.login(ctx, cfg)
	if err != nil {
		return nil, err
	}
	svc := lalin.NewService(client, lalin.NewCache(nil, 0), lalin.ServiceOptions{
		PageLimit:   cfg.UpstreamPageLimit,
		Concurrency: cfg.UpstreamFetchConcurrency,
	})
	if opts.all {
		return svc.Day(ctx, token, opts.date)
	}
	page, err := svc.Page(ctx, token, lalin.Query{Date: opts.date, Page: opts.page})
	if err != nil {
		return nil, err
	}
	return page.Records, nil
}

// renderTotals prints one line per branch followed by the grand total.
func renderTotals(w io.Writer, report lalin.Report) error {
	header := []string{"Ruas"}
	header = append(header, export.Header[7:]...)
	data := pterm.TableData{header}
	for _, line := range export.Lines(report) {
		if line.Kind == export.LineRow {
			continue
		}
		row := []string{line.Labels[1]}
		for _, v := range line.Numbers() {
			row = append(row, shared.FormatNumber(v))
		}
		data = append(data, row)
	}
	table, err := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithRightAlignment().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(data).
		Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, table)
	return err
}

type reportWriter func(io.Writer, lalin.Report, string) error

func exportWriter(path string) (reportWriter, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return func(w io.Writer, r lalin.Report, _ string) error { return export.WriteReportCSV(w, r) }, nil
	case ".xlsx":
		return func(w io.Writer, r lalin.Report, _ string) error { return export.WriteReportXLSX(w, r) }, nil
	case ".pdf":
		return export.WriteReportPDF, nil
	default:
		return nil, fmt.Errorf("unsupported export %q: use .csv, .xlsx or .pdf", path)
	}
}

func writeExport(path string, report lalin.Report, title string) (err error) {
	write, err := exportWriter(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f, report, title)
}
