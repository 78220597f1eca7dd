package lalin

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Slice is one labelled value of a dashboard chart.
type Slice struct {
	Label   string `json:"label"`
	Value   int64  `json:"value"`
	Percent int64  `json:"percent"`
}

// Dashboard groups the chart series shown on the dashboard page.
type Dashboard struct {
	Date     string  `json:"date"`
	Records  int     `json:"records"`
	Charged  int64   `json:"charged"`
	ETollBy  []Slice `json:"etoll_by_bank"`
	ByShift  []Slice `json:"by_shift"`
	ByGate   []Slice `json:"by_gate"`
	ByBranch []Slice `json:"by_branch"`
}

// BuildDashboard computes every dashboard breakdown for one set of records.
func BuildDashboard(date string, records []TransactionRecord) Dashboard {
	var charged int64
	for _, r := range records {
		charged += r.Charged()
	}
	return Dashboard{
		Date:     date,
		Records:  len(records),
		Charged:  charged,
		ETollBy:  ETollByBank(records),
		ByShift:  ByShift(records),
		ByGate:   ByGate(records),
		ByBranch: ByBranch(records),
	}
}

// ETollByBank sums electronic payments per issuer, Flo included as its own bar.
func ETollByBank(records []TransactionRecord) []Slice {
	banks := []struct {
		label string
		pick  func(TransactionRecord) int64
	}{
		{"BCA", func(r TransactionRecord) int64 { return r.EBca }},
		{"BRI", func(r TransactionRecord) int64 { return r.EBri }},
		{"BNI", func(r TransactionRecord) int64 { return r.EBni }},
		{"DKI", func(r TransactionRecord) int64 { return r.EDKI }},
		{"Mandiri", func(r TransactionRecord) int64 { return r.EMandiri }},
		{"Mega", func(r TransactionRecord) int64 { return r.EMega }},
		{"Flo", func(r TransactionRecord) int64 { return r.EFlo }},
	}
	out := make([]Slice, len(banks))
	for i, bank := range banks {
		out[i].Label = bank.label
		for _, r := range records {
			out[i].Value += bank.pick(r)
		}
	}
	withShares(out)
	return out
}

// ByShift sums charged traffic per shift in ascending shift order.
func ByShift(records []TransactionRecord) []Slice {
	sums := make(map[int64]int64)
	for _, r := range records {
		sums[int64(r.Shift)] += r.Charged()
	}
	out := sortedSlices(sums, func(id int64) string { return fmt.Sprintf("Shift %d", id) })
	withShares(out)
	return out
}

// ByGate sums charged traffic per gate, ordered by label.
func ByGate(records []TransactionRecord) []Slice {
	sums := make(map[int64]int64)
	for _, r := range records {
		sums[r.GateID] += r.Charged()
	}
	out := sortedSlices(sums, GateLabel)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	withShares(out)
	return out
}

// ByBranch sums charged traffic per branch in ascending branch order.
func ByBranch(records []TransactionRecord) []Slice {
	sums := make(map[int64]int64)
	for _, r := range records {
		sums[r.BranchID] += r.Charged()
	}
	out := sortedSlices(sums, BranchLabel)
	withShares(out)
	return out
}

// SharePercent returns round(value/total*100), half away from zero, or 0 when total is 0.
func SharePercent(value, total int64) int64 {
	if total == 0 {
		return 0
	}
	return decimal.NewFromInt(value).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(total)).
		Round(0).
		IntPart()
}

func sortedSlices(sums map[int64]int64, label func(int64) string) []Slice {
	ids := make([]int64, 0, len(sums))
	for id := range sums {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]Slice, 0, len(ids))
	for _, id := range ids {
		out = append(out, Slice{Label: label(id), Value: sums[id]})
	}
	return out
}

func withShares(slices []Slice) {
	var total int64
	for _, s := range slices {
		total += s.Value
	}
	for i := range slices {
		slices[i].Percent = SharePercent(slices[i].Value, total)
	}
}
