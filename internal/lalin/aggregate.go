package lalin

import "time"

// ClassCount is the number of vehicle classes (golongan) tracked per row.
const ClassCount = 5

// Totals accumulates amounts per vehicle class plus a running total.
type Totals struct {
	Gol   [ClassCount]int64 `json:"gol"`
	Total int64             `json:"total"`
}

// Class returns the accumulator of class 1..5, zero otherwise.
func (t Totals) Class(class int) int64 {
	if class < 1 || class > ClassCount {
		return 0
	}
	return t.Gol[class-1]
}

func (t *Totals) add(class int, value int64) {
	if class >= 1 && class <= ClassCount {
		t.Gol[class-1] += value
	}
	t.Total += value
}

func (t *Totals) merge(other Totals) {
	for i := range t.Gol {
		t.Gol[i] += other.Gol[i]
	}
	t.Total += other.Total
}

// ReportRow is one grouped line of the report.
type ReportRow struct {
	No          int       `json:"no"`
	BranchID    int64     `json:"branch_id"`
	GateID      int64     `json:"gate_id"`
	LaneID      int64     `json:"lane_id"`
	Date        time.Time `json:"date"`
	BranchLabel string    `json:"branch"`
	GateLabel   string    `json:"gate"`
	LaneLabel   string    `json:"lane"`
	Weekday     string    `json:"weekday"`
	DateLabel   string    `json:"date_label"`
	Method      string    `json:"method"`
	Totals
}

// BranchTotal is the summary of every row sharing a branch label.
type BranchTotal struct {
	Label  string `json:"label"`
	Totals Totals `json:"totals"`
}

// Report is the output of Aggregate.
type Report struct {
	Mode     PaymentMode   `json:"mode"`
	Rows     []ReportRow   `json:"rows"`
	Branches []BranchTotal `json:"branches"`
	Grand    Totals        `json:"grand"`
}

// BranchTotals exposes the branch summaries keyed by branch label.
func (r Report) BranchTotals() map[string]Totals {
	out := make(map[string]Totals, len(r.Branches))
	for _, b := range r.Branches {
		out[b.Label] = b.Totals
	}
	return out
}

type rowKey struct {
	branch int64
	gate   int64
	lane   int64
	date   string
	method string
}

// Aggregate groups records by branch, gate, lane, date and method label,
// accumulating the mode's value per vehicle class. Rows keep the order in
// which their key first appeared.
func Aggregate(records []TransactionRecord, mode PaymentMode) Report {
	report := Report{Mode: mode, Rows: []ReportRow{}, Branches: []BranchTotal{}}
	label := mode.Label()

	index := make(map[rowKey]int)
	for i, rec := range records {
		value := mode.Value(rec)
		if value == 0 && mode.SkipsZero() {
			continue
		}
		key := rowKey{
			branch: rec.BranchID,
			gate:   rec.GateID,
			lane:   rec.LaneID,
			date:   rec.Date.Format(DateLayout),
			method: label,
		}
		pos, ok := index[key]
		if !ok {
			pos = len(report.Rows)
			index[key] = pos
			report.Rows = append(report.Rows, newRow(i+1, rec, label))
		}
		report.Rows[pos].add(rec.Class, value)
	}

	branchIndex := make(map[string]int)
	for _, row := range report.Rows {
		pos, ok := branchIndex[row.BranchLabel]
		if !ok {
			pos = len(report.Branches)
			branchIndex[row.BranchLabel] = pos
			report.Branches = append(report.Branches, BranchTotal{Label: row.BranchLabel})
		}
		report.Branches[pos].Totals.merge(row.Totals)
		report.Grand.merge(row.Totals)
	}
	return report
}

func newRow(no int, rec TransactionRecord, method string) ReportRow {
	return ReportRow{
		No:          no,
		BranchID:    rec.BranchID,
		GateID:      rec.GateID,
		LaneID:      rec.LaneID,
		Date:        rec.Date,
		BranchLabel: BranchLabel(rec.BranchID),
		GateLabel:   GateLabel(rec.GateID),
		LaneLabel:   LaneLabel(rec.LaneID),
		Weekday:     WeekdayName(rec.Date),
		DateLabel:   FormatDate(rec.Date),
		Method:      method,
	}
}
