package ui

import (
	"fmt"
	"html/template"
	"net/url"
	"strconv"

	"github.com/laporan-latin/laporan-latin/internal/lalin"
	"github.com/laporan-latin/laporan-latin/internal/lalin/svg"
	"github.com/laporan-latin/laporan-latin/internal/shared"
)

// ReportFilters are the validated query parameters of report pages.
type ReportFilters struct {
	Date string
	Page int
	Mode lalin.PaymentMode
}

// Values encodes the filters back into a query string.
func (f ReportFilters) Values() url.Values {
	v := url.Values{}
	v.Set("tanggal", f.Date)
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	if f.Mode.Valid() {
		v.Set("mode", f.Mode.Key())
	}
	return v
}

// Query is the upstream page selected by the filters.
func (f ReportFilters) Query() lalin.Query {
	return lalin.Query{Date: f.Date, Page: f.Page}
}

// ModeTab is one payment-mode tab above the report table.
type ModeTab struct {
	Label  string
	URL    string
	Active bool
}

// PageLink is one numbered pager entry.
type PageLink struct {
	Number int
	URL    string
	Active bool
}

// Pager drives the pagination partial.
type Pager struct {
	Current int
	Total   int
	Links   []PageLink
	PrevURL string
	NextURL string
}

// ExportLinks point at the download endpoints for the current filters.
type ExportLinks struct {
	CSV  string
	XLSX string
	PDF  string
}

// ReportViewModel feeds pages/laporan.html.
type ReportViewModel struct {
	Filters ReportFilters
	Tabs    []ModeTab
	Report  lalin.Report
	Count   int
	Pager   Pager
	Exports ExportLinks
}

// RecordRow is one raw record in the per-day listing.
type RecordRow struct {
	ID       int64
	Branch   string
	Gate     string
	Lane     string
	Shift    int
	Class    int
	Cash     int64
	EMandiri int64
	EBri     int64
	EBni     int64
	EBca     int64
	ETotal   int64
	EFlo     int64
}

// DailyViewModel feeds pages/laporan_per_hari.html.
type DailyViewModel struct {
	Filters ReportFilters
	Rows    []RecordRow
	Count   int
	Pager   Pager
}

// Chart is a rendered chart with its table fallback.
type Chart struct {
	Title  string
	SVG    template.HTML
	Slices []lalin.Slice
}

// DashboardViewModel feeds pages/dashboard.html.
type DashboardViewModel struct {
	Date     string
	Records  int
	Charged  int64
	ETollBy  Chart
	ByShift  Chart
	ByGate   Chart
	ByBranch Chart
}

// BarRenderer abstracts SVG bar chart rendering.
type BarRenderer interface {
	Bars(width, height int, values []float64, labels []string, opts svg.BarOpts) (template.HTML, error)
}

// DonutRenderer abstracts SVG donut chart rendering.
type DonutRenderer interface {
	Donut(size int, values []float64, labels []string, opts svg.DonutOpts) (template.HTML, error)
}

// BarFunc adapts a function to BarRenderer.
type BarFunc func(width, height int, values []float64, labels []string, opts svg.BarOpts) (template.HTML, error)

// Bars implements BarRenderer.
func (f BarFunc) Bars(width, height int, values []float64, labels []string, opts svg.BarOpts) (template.HTML, error) {
	return f(width, height, values, labels, opts)
}

// DonutFunc adapts a function to DonutRenderer.
type DonutFunc func(size int, values []float64, labels []string, opts svg.DonutOpts) (template.HTML, error)

// Donut implements DonutRenderer.
func (f DonutFunc) Donut(size int, values []float64, labels []string, opts svg.DonutOpts) (template.HTML, error) {
	return f(size, values, labels, opts)
}

// BuildTabs returns one tab per payment mode keeping date and page.
func BuildTabs(path string, filters ReportFilters) []ModeTab {
	tabs := make([]ModeTab, 0, len(lalin.Modes()))
	for _, mode := range lalin.Modes() {
		f := filters
		f.Mode = mode
		f.Page = 1
		tabs = append(tabs, ModeTab{
			Label:  mode.Label(),
			URL:    path + "?" + f.Values().Encode(),
			Active: mode == filters.Mode,
		})
	}
	return tabs
}

// BuildPager computes the numbered window plus prev/next links.
func BuildPager(path string, filters ReportFilters, current, total int) Pager {
	if current < 1 {
		current = 1
	}
	link := func(page int) string {
		f := filters
		f.Page = page
		return path + "?" + f.Values().Encode()
	}
	pager := Pager{Current: current, Total: total}
	for _, n := range shared.PageWindow(current, total, shared.DefaultWindow) {
		pager.Links = append(pager.Links, PageLink{Number: n, URL: link(n), Active: n == current})
	}
	if current > 1 {
		pager.PrevURL = link(current - 1)
	}
	if current < total {
		pager.NextURL = link(current + 1)
	}
	return pager
}

// BuildExports returns download links for the current filters.
func BuildExports(base string, filters ReportFilters) ExportLinks {
	q := filters.Values().Encode()
	return ExportLinks{
		CSV:  fmt.Sprintf("%s/export.csv?%s", base, q),
		XLSX: fmt.Sprintf("%s/export.xlsx?%s", base, q),
		PDF:  fmt.Sprintf("%s/export.pdf?%s", base, q),
	}
}

// ToRecordRows converts records for the per-day listing.
func ToRecordRows(records []lalin.TransactionRecord) []RecordRow {
	rows := make([]RecordRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, RecordRow{
			ID:       r.ID,
			Branch:   lalin.BranchLabel(r.BranchID),
			Gate:     lalin.GateLabel(r.GateID),
			Lane:     lalin.LaneLabel(r.LaneID),
			Shift:    r.Shift,
			Class:    r.Class,
			Cash:     r.Cash,
			EMandiri: r.EMandiri,
			EBri:     r.EBri,
			EBni:     r.EBni,
			EBca:     r.EBca,
			ETotal:   r.ElectronicToll(),
			EFlo:     r.EFlo,
		})
	}
	return rows
}

// SliceSeries splits slices into chart values and labels.
func SliceSeries(slices []lalin.Slice) ([]float64, []string) {
	values := make([]float64, 0, len(slices))
	labels := make([]string, 0, len(slices))
	for _, s := range slices {
		values = append(values, float64(s.Value))
		labels = append(labels, s.Label)
	}
	return values, labels
}
