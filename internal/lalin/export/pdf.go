package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/laporan-latin/laporan-latin/internal/lalin"
	"github.com/laporan-latin/laporan-latin/internal/shared"
)

var pdfWidths = []float64{10, 18, 22, 14, 16, 22, 30, 22, 22, 22, 22, 22, 30}

// WriteReportPDF renders the report as a landscape A4 table.
func WriteReportPDF(w io.Writer, report lalin.Report, title string) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 14)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont("Arial", "I", 7)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 6, fmt.Sprintf("Halaman %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	writeHeader := func() {
		pdf.SetFont("Arial", "B", 7)
		pdf.SetFillColor(226, 232, 240)
		pdf.SetTextColor(15, 23, 42)
		for i, h := range Header {
			pdf.CellFormat(pdfWidths[i], 7, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 9, tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 8)
	pdf.CellFormat(0, 6, tr("Metode: "+report.Mode.Label()), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	writeHeader()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, line := range Lines(report) {
		if pdf.GetY()+6 > pageHeight-bottom-4 {
			pdf.AddPage()
			writeHeader()
		}
		fill := line.Kind != LineRow
		style := ""
		if fill {
			style = "B"
			pdf.SetFillColor(241, 245, 249)
		}
		pdf.SetFont("Arial", style, 7)
		for i, label := range line.Labels {
			pdf.CellFormat(pdfWidths[i], 6, tr(label), "1", 0, "L", fill, 0, "")
		}
		for i, v := range line.Numbers() {
			pdf.CellFormat(pdfWidths[labelColumns+i], 6, tr(shared.FormatRupiah(v)), "1", 0, "R", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}
