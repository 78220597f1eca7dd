package svg

// BarOpts customises the bar chart renderer.
type BarOpts struct {
	Title       string
	Description string
	Color       string
	AxisColor   string
	GridColor   string
	Padding     float64
	TickCount   int
	ShowValues  bool
}

// DonutOpts customises the donut chart renderer.
type DonutOpts struct {
	Title       string
	Description string
	Palette     []string
	Thickness   float64
	CenterLabel string
}

// Chart defaults.
const (
	DefaultWidth     = 640
	DefaultHeight    = 260
	DefaultSize      = 220
	DefaultPadding   = 32.0
	DefaultTicks     = 5
	DefaultThickness = 36.0
)

// DefaultPalette colours slices and bars in order.
var DefaultPalette = []string{
	"#2563eb", "#16a34a", "#f59e0b", "#dc2626", "#7c3aed", "#0891b2", "#db2777", "#65a30d",
}
