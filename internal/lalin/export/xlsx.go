package export

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/laporan-latin/laporan-latin/internal/lalin"
)

// WriteReportXLSX writes a single-sheet workbook named after the mode.
func WriteReportXLSX(w io.Writer, report lalin.Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := report.Mode.Label()
	if sheet == "" {
		sheet = "Laporan"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: 3})
	if err != nil {
		return err
	}
	numberStyle, err := f.NewStyle(&excelize.Style{NumFmt: 3})
	if err != nil {
		return err
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(Header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, line := range Lines(report) {
		rowNum := i + 2
		values := make([]any, 0, len(Header))
		for _, label := range line.Labels {
			values = append(values, label)
		}
		for _, v := range line.Numbers() {
			values = append(values, v)
		}
		start, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, start, &values); err != nil {
			return err
		}
		style := numberStyle
		if line.Kind != LineRow {
			style = totalStyle
		}
		from, _ := excelize.CoordinatesToCellName(labelColumns+1, rowNum)
		to, _ := excelize.CoordinatesToCellName(len(Header), rowNum)
		if err := f.SetCellStyle(sheet, from, to, style); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "B", "G", 16); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "H", "M", 14); err != nil {
		return err
	}
	return f.Write(w)
}
