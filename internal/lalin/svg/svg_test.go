package svg

import (
	"strings"
	"testing"
)

func TestBarsProducesSVG(t *testing.T) {
	html, err := Bars(480, 220, []float64{1500000, 250000}, []string{"Gerbang 1", "Gerbang 2"}, BarOpts{
		Title:      "Lalin per gerbang",
		ShowValues: true,
	})
	if err != nil {
		t.Fatalf("bars renderer error: %v", err)
	}
	output := string(html)
	if !strings.HasPrefix(output, "<svg") {
		t.Fatalf("expected svg output, got %s", output)
	}
	if strings.Count(output, "<rect") != 2 {
		t.Fatalf("expected one rect per bar")
	}
	if !strings.Contains(output, "1.5jt") {
		t.Fatalf("expected abbreviated value label")
	}
	if !strings.Contains(output, `id="lalin-per-gerbang-bar-title"`) {
		t.Fatalf("expected title id derived from chart title")
	}
}

func TestBarsRejectsMismatchedInput(t *testing.T) {
	if _, err := Bars(0, 0, []float64{1}, nil, BarOpts{}); err == nil {
		t.Fatalf("expected error without labels")
	}
	if _, err := Bars(0, 0, []float64{1, 2}, []string{"a"}, BarOpts{}); err == nil {
		t.Fatalf("expected error on length mismatch")
	}
}

func TestBarsAllZero(t *testing.T) {
	html, err := Bars(0, 0, []float64{0, 0}, []string{"a", "b"}, BarOpts{})
	if err != nil {
		t.Fatalf("bars renderer error: %v", err)
	}
	if strings.Contains(string(html), "NaN") {
		t.Fatalf("zero series must not produce NaN coordinates")
	}
}

func TestDonutArcs(t *testing.T) {
	html, err := Donut(200, []float64{3, 0, 1}, []string{"Shift 1", "Shift 2", "Shift 3"}, DonutOpts{Title: "Shift", CenterLabel: "4"})
	if err != nil {
		t.Fatalf("donut renderer error: %v", err)
	}
	output := string(html)
	if strings.Count(output, "<path") != 2 {
		t.Fatalf("expected zero slices to be skipped, got %s", output)
	}
	if !strings.Contains(output, " 0 1 1 ") {
		t.Fatalf("expected large-arc flag on the 75%% slice")
	}
	if strings.Count(output, "<rect") != 3 {
		t.Fatalf("expected one legend entry per label")
	}
}

func TestDonutSingleSliceIsFullRing(t *testing.T) {
	html, err := Donut(0, []float64{5}, []string{"Ruas 1"}, DonutOpts{})
	if err != nil {
		t.Fatalf("donut renderer error: %v", err)
	}
	output := string(html)
	if strings.Contains(output, "<path") {
		t.Fatalf("a single slice should render as a circle")
	}
	if strings.Count(output, "<circle") != 2 {
		t.Fatalf("expected background ring plus full slice")
	}
}

func TestFormatTick(t *testing.T) {
	cases := map[float64]string{
		0:             "0",
		950:           "950",
		15000:         "15rb",
		2500000:       "2.5jt",
		3_200_000_000: "3.2M",
	}
	for in, want := range cases {
		if got := formatTick(in); got != want {
			t.Fatalf("formatTick(%v) = %q, want %q", in, got, want)
		}
	}
}
