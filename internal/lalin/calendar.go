package lalin

import (
	"fmt"
	"time"
)

// DateLayout is the wire and query format of report dates.
const DateLayout = "2006-01-02"

var weekdayNames = [7]string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}

// WeekdayName returns the Indonesian day name of d.
func WeekdayName(d time.Time) string {
	return weekdayNames[int(d.Weekday())]
}

// FormatDate renders d as DD-MM-YYYY.
func FormatDate(d time.Time) string {
	return d.Format("02-01-2006")
}

// ParseDate parses a YYYY-MM-DD date at UTC midnight.
func ParseDate(value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("lalin: invalid date %q", value)
	}
	return d, nil
}

// BranchLabel names a branch (ruas) for display.
func BranchLabel(id int64) string {
	return fmt.Sprintf("Ruas %d", id)
}

// GateLabel names a toll gate for display.
func GateLabel(id int64) string {
	return fmt.Sprintf("Gerbang %d", id)
}

// LaneLabel zero-pads a lane id to two digits.
func LaneLabel(id int64) string {
	return fmt.Sprintf("%02d", id)
}
