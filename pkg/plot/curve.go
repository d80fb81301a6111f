package plot

import (
	"fmt"

	"github.com/openbeamline/beamplot/pkg/geom"
	"github.com/openbeamline/beamplot/pkg/tao"
)

// Curve is one assembled curve of a graph: an optional polyline, optional
// symbols, an optional histogram, plus overlay patches (wave-analysis
// regions).
type Curve struct {
	Name      string
	Info      *tao.CurveInfo
	Line      *CurveLine
	Symbol    *CurveSymbols
	Histogram *Histogram
	Patches   []Patch
}

// LegendLabel is the curve's legend entry; empty means it is left out of
// the legend. Physical aperture curves fall back to their data type.
func (c *Curve) LegendLabel() string {
	if c.Info.LegendText != "" {
		return c.Info.LegendText
	}
	if c.Info.DataType == "physical_aperture" {
		return c.Info.DataType
	}
	return ""
}

// Draw emits the curve onto the surface: line, then symbols, then
// histogram, then patches.
func (c *Curve) Draw(s Surface) {
	if c.Line != nil {
		s.Line(c.Line)
	}
	if c.Symbol != nil {
		s.Symbols(c.Symbol)
	}
	if c.Histogram != nil {
		s.Histogram(c.Histogram)
	}
	for _, p := range c.Patches {
		s.Patch(p)
	}
}

// waveSources are symbol colors that make the wave overlay switch to its
// contrasting color.
var waveSources = map[Color]bool{
	Blue:   true,
	Navy:   true,
	Cyan:   true,
	Green:  true,
	Purple: true,
}

// NewCurve assembles a curve from engine records. graphType selects the
// assembly: plain data curves, wave overlays, or histograms. histInfo is
// required for histogram graphs and waveParams for wave graphs.
func NewCurve(
	graphType string,
	info *tao.CurveInfo,
	points []geom.Point,
	symbolPoints []geom.Point,
	histInfo *tao.HistogramInfo,
	waveParams *tao.WaveParams,
) (*Curve, error) {
	lineColor := NormalizeColor(info.Line.Color)
	linePattern := PatternFor(info.Line.Pattern)
	lineWidth := 0.0
	if info.DrawLine {
		lineWidth = info.Line.Width
	}

	symbolColor := NormalizeColor(info.Symbol.Color)
	marker := MarkerFor(info.Symbol.Type)
	faceColor := NoColor
	if UseSymbolColor(info.Symbol.Type, info.Symbol.FillPattern) {
		faceColor = symbolColor
	}
	markerSize := 0.0
	if info.DrawSymbols && marker != MarkerNone {
		markerSize = info.Symbol.Height
	}

	// Vertical extent of the curve, used to size wave overlays. When both
	// line and symbol data exist the range is stretched beyond the data so
	// the overlay rectangles clearly enclose it.
	var yMin, yMax float64
	switch {
	case len(points) > 0 && len(symbolPoints) > 0:
		hi := max(maxY(points), maxY(symbolPoints))
		lo := min(minY(points), minY(symbolPoints))
		yMax = max(0.5*hi, 2*hi)
		yMin = min(0.5*lo, 2*lo)
	case len(symbolPoints) > 0:
		yMax = maxY(symbolPoints)
		yMin = minY(symbolPoints)
	case len(points) > 0:
		yMax = maxY(points)
		yMin = minY(points)
	default:
		return nil, fmt.Errorf("%w: curve %s", ErrNoCurveData, info.Name)
	}

	c := &Curve{Name: info.Name, Info: info}
	if len(points) > 0 {
		c.Line = &CurveLine{
			Points:  points,
			Color:   lineColor,
			Width:   lineWidth / 2,
			Pattern: linePattern,
		}
	}
	if len(symbolPoints) > 0 {
		c.Symbol = &CurveSymbols{
			Points:    symbolPoints,
			Color:     symbolColor,
			FillColor: faceColor,
			Marker:    marker,
			Size:      markerSize / 2,
			EdgeWidth: info.Symbol.LineWidth / 2,
		}
	}

	switch graphType {
	case "data", "dynamic_aperture", "phase_space":
		return c, nil

	case "wave.0", "wave.a", "wave.b":
		if waveParams == nil {
			return nil, fmt.Errorf("plot: curve %s: wave graph without wave parameters", info.Name)
		}
		waveColor := Blue
		if waveSources[symbolColor] {
			waveColor = Orange
		}
		style := PatchStyle{Color: waveColor, Fill: false, LineWidth: 1}
		if graphType != "wave.b" {
			c.Patches = append(c.Patches, &PatchRect{
				XY:         geom.Point{X: waveParams.IxA1, Y: yMin},
				Width:      waveParams.IxA2 - waveParams.IxA1,
				Height:     yMax - yMin,
				PatchStyle: style,
			})
		}
		if graphType != "wave.a" {
			c.Patches = append(c.Patches, &PatchRect{
				XY:         geom.Point{X: waveParams.IxB1, Y: yMin},
				Width:      waveParams.IxB2 - waveParams.IxB1,
				Height:     yMax - yMin,
				PatchStyle: style,
			})
		}
		return c, nil

	case "histogram":
		if histInfo == nil {
			return nil, fmt.Errorf("plot: curve %s: histogram graph without binning info", info.Name)
		}
		c.Line = nil
		c.Symbol = nil
		c.Histogram = &Histogram{
			Xs:      xs(points),
			Weights: ys(points),
			Bins:    histInfo.Number,
			Color:   symbolColor,
		}
		return c, nil
	}

	return nil, &UnsupportedGraphError{Name: info.Name, Type: graphType}
}

func xs(pts []geom.Point) []float64 {
	out := make([]float64, len(pts))
	for i, p := range pts {
		out[i] = p.X
	}
	return out
}

func ys(pts []geom.Point) []float64 {
	out := make([]float64, len(pts))
	for i, p := range pts {
		out[i] = p.Y
	}
	return out
}

func minY(pts []geom.Point) float64 {
	m := pts[0].Y
	for _, p := range pts[1:] {
		if p.Y < m {
			m = p.Y
		}
	}
	return m
}

func maxY(pts []geom.Point) float64 {
	m := pts[0].Y
	for _, p := range pts[1:] {
		if p.Y > m {
			m = p.Y
		}
	}
	return m
}
