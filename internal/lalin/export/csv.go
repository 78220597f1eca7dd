package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/laporan-latin/laporan-latin/internal/lalin"
)

// WriteReportCSV serialises a report with raw integer amounts.
func WriteReportCSV(w io.Writer, report lalin.Report) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return err
	}
	for _, line := range Lines(report) {
		record := make([]string, 0, len(Header))
		record = append(record, line.Labels[:]...)
		for _, v := range line.Numbers() {
			record = append(record, strconv.FormatInt(v, 10))
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
