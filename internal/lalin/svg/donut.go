package svg

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

// Donut renders a ring chart with one arc per value and a legend below.
// Non-positive values are skipped; an all-zero series renders an empty ring.
func Donut(size int, values []float64, labels []string, opts DonutOpts) (template.HTML, error) {
	if len(values) != len(labels) {
		return "", fmt.Errorf("svg: values length must match labels")
	}
	if size <= 0 {
		size = DefaultSize
	}
	thickness := opts.Thickness
	if thickness <= 0 {
		thickness = DefaultThickness
	}
	radius := float64(size)/2 - thickness/2 - 4
	if radius <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}
	cx, cy := float64(size)/2, float64(size)/2
	legendHeight := 16 * len(labels)

	titleID := makeID(opts.Title, "donut-title")
	descID := makeID(opts.Title, "donut-desc")

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" role="img" aria-labelledby="%s %s">`, size, size+legendHeight+8, titleID, descID)
	fmt.Fprintf(&b, `<title id="%s">%s</title>`, titleID, template.HTMLEscapeString(fallback(opts.Title, "Grafik donat")))
	fmt.Fprintf(&b, `<desc id="%s">%s</desc>`, descID, template.HTMLEscapeString(fallback(opts.Description, "Komposisi nilai")))
	fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="#e2e8f0" stroke-width="%.2f"></circle>`, cx, cy, radius, thickness)

	total := sum(values)
	if total > 0 {
		angle := -math.Pi / 2
		for i, v := range values {
			if v <= 0 {
				continue
			}
			sweep := v / total * 2 * math.Pi
			color := colorAt(opts.Palette, i)
			label := template.HTMLEscapeString(labels[i])
			if almostEqual(sweep, 2*math.Pi) {
				fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="%s" stroke-width="%.2f" aria-label="%s"></circle>`, cx, cy, radius, color, thickness, label)
				break
			}
			x1, y1 := cx+radius*math.Cos(angle), cy+radius*math.Sin(angle)
			end := angle + sweep
			x2, y2 := cx+radius*math.Cos(end), cy+radius*math.Sin(end)
			large := 0
			if sweep > math.Pi {
				large = 1
			}
			fmt.Fprintf(&b, `<path d="M %.2f %.2f A %.2f %.2f 0 %d 1 %.2f %.2f" fill="none" stroke="%s" stroke-width="%.2f" aria-label="%s"></path>`, x1, y1, radius, radius, large, x2, y2, color, thickness, label)
			angle = end
		}
	}

	if opts.CenterLabel != "" {
		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" fill="#0f172a" font-size="14" font-weight="600" text-anchor="middle">%s</text>`, cx, cy+5, template.HTMLEscapeString(opts.CenterLabel))
	}

	for i, label := range labels {
		y := float64(size + 8 + i*16)
		fmt.Fprintf(&b, `<rect x="8" y="%.2f" width="10" height="10" fill="%s"></rect>`, y, colorAt(opts.Palette, i))
		fmt.Fprintf(&b, `<text x="24" y="%.2f" fill="#475569" font-size="11">%s</text>`, y+9, template.HTMLEscapeString(label))
	}

	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}
