// Package export renders aggregated traffic reports as CSV, XLSX and PDF.
package export

import (
	"fmt"
	"strconv"

	"github.com/laporan-latin/laporan-latin/internal/lalin"
)

// LineKind tells detail rows apart from summary rows.
type LineKind int

const (
	LineRow LineKind = iota
	LineBranch
	LineGrand
)

// Header is the column order shared by every format.
var Header = []string{
	"No", "Ruas", "Gerbang", "Gardu", "Hari", "Tanggal", "Metode Pembayaran",
	"Gol I", "Gol II", "Gol III", "Gol IV", "Gol V", "Total Lalin",
}

const labelColumns = 7

// Line is one printable row: text columns followed by the totals.
type Line struct {
	Kind   LineKind
	Labels [labelColumns]string
	Totals lalin.Totals
}

// Numbers returns the class columns followed by the total.
func (l Line) Numbers() []int64 {
	out := make([]int64, 0, lalin.ClassCount+1)
	out = append(out, l.Totals.Gol[:]...)
	return append(out, l.Totals.Total)
}

// Lines flattens a report into detail rows, one line per branch and the
// grand total.
func Lines(report lalin.Report) []Line {
	lines := make([]Line, 0, len(report.Rows)+len(report.Branches)+1)
	for _, row := range report.Rows {
		lines = append(lines, Line{
			Kind: LineRow,
			Labels: [labelColumns]string{
				strconv.Itoa(row.No), row.BranchLabel, row.GateLabel, row.LaneLabel,
				row.Weekday, row.DateLabel, row.Method,
			},
			Totals: row.Totals,
		})
	}
	for _, branch := range report.Branches {
		lines = append(lines, Line{
			Kind:   LineBranch,
			Labels: [labelColumns]string{"", "Total " + branch.Label},
			Totals: branch.Totals,
		})
	}
	lines = append(lines, Line{
		Kind:   LineGrand,
		Labels: [labelColumns]string{"", "Total Keseluruhan"},
		Totals: report.Grand,
	})
	return lines
}

// Filename builds the attachment name for an export.
func Filename(q lalin.Query, mode lalin.PaymentMode, ext string) string {
	return fmt.Sprintf("laporan-latin-%s-p%d-%s.%s", q.Date, q.Page, mode.Key(), ext)
}
