package plot

import (
	"errors"
	"testing"

	"github.com/openbeamline/beamplot/pkg/geom"
	"github.com/openbeamline/beamplot/pkg/tao"
)

func testCurveInfo() *tao.CurveInfo {
	return &tao.CurveInfo{
		Name:        "c1",
		DrawLine:    true,
		DrawSymbols: true,
		Line:        tao.CurveLineInfo{Color: "blue", Pattern: "dashed", Width: 3},
		Symbol: tao.CurveSymbolInfo{
			Color:       "red",
			Type:        "circle",
			FillPattern: "no_fill",
			Height:      8,
			LineWidth:   2,
		},
	}
}

func pts(vals ...float64) []geom.Point {
	out := make([]geom.Point, 0, len(vals)/2)
	for i := 0; i+1 < len(vals); i += 2 {
		out = append(out, geom.Point{X: vals[i], Y: vals[i+1]})
	}
	return out
}

func TestNewCurveHalvesWidths(t *testing.T) {
	c, err := NewCurve("data", testCurveInfo(), pts(0, 1, 1, 2), pts(0, 1), nil, nil)
	if err != nil {
		t.Fatalf("NewCurve: %v", err)
	}
	if c.Line == nil || c.Symbol == nil {
		t.Fatalf("line/symbol missing: %+v", c)
	}
	if c.Line.Width != 1.5 {
		t.Fatalf("line width = %v, want reported 3 halved", c.Line.Width)
	}
	if c.Line.Pattern != Dashed {
		t.Fatalf("line pattern = %q", c.Line.Pattern)
	}
	if c.Symbol.Size != 4 {
		t.Fatalf("marker size = %v, want reported 8 halved", c.Symbol.Size)
	}
	if c.Symbol.EdgeWidth != 1 {
		t.Fatalf("marker edge = %v, want reported 2 halved", c.Symbol.EdgeWidth)
	}
	// Hollow circle with no_fill keeps its face unpainted.
	if c.Symbol.FillColor != NoColor {
		t.Fatalf("face color = %q, want none", c.Symbol.FillColor)
	}
}

func TestNewCurveDrawTogglesZeroSizes(t *testing.T) {
	info := testCurveInfo()
	info.DrawLine = false
	info.DrawSymbols = false
	c, err := NewCurve("data", info, pts(0, 1, 1, 2), pts(0, 1), nil, nil)
	if err != nil {
		t.Fatalf("NewCurve: %v", err)
	}
	if c.Line.Width != 0 {
		t.Fatalf("line width = %v, want 0 when draw_line off", c.Line.Width)
	}
	if c.Symbol.Size != 0 {
		t.Fatalf("marker size = %v, want 0 when draw_symbols off", c.Symbol.Size)
	}
}

func TestNewCurveFilledSymbol(t *testing.T) {
	info := testCurveInfo()
	info.Symbol.Type = "circle_filled"
	c, err := NewCurve("data", info, nil, pts(0, 1), nil, nil)
	if err != nil {
		t.Fatalf("NewCurve: %v", err)
	}
	if c.Symbol.FillColor != Red {
		t.Fatalf("face color = %q, want symbol color", c.Symbol.FillColor)
	}
}

func TestNewCurveNoData(t *testing.T) {
	_, err := NewCurve("data", testCurveInfo(), nil, nil, nil, nil)
	if !errors.Is(err, ErrNoCurveData) {
		t.Fatalf("got %v, want ErrNoCurveData", err)
	}
}

func TestNewCurveUnsupportedType(t *testing.T) {
	_, err := NewCurve("key_table", testCurveInfo(), pts(0, 1), nil, nil, nil)
	var unsupported *UnsupportedGraphError
	if !errors.As(err, &unsupported) {
		t.Fatalf("got %v, want UnsupportedGraphError", err)
	}
}

func TestNewCurveWaveOverlay(t *testing.T) {
	wave := &tao.WaveParams{IxA1: 10, IxA2: 20, IxB1: 70, IxB2: 80}

	for _, tc := range []struct {
		graphType string
		wantRects int
	}{
		{"wave.0", 2},
		{"wave.a", 1},
		{"wave.b", 1},
	} {
		c, err := NewCurve(tc.graphType, testCurveInfo(), pts(0, 1, 1, 2), pts(0, 1), nil, wave)
		if err != nil {
			t.Fatalf("NewCurve(%s): %v", tc.graphType, err)
		}
		if len(c.Patches) != tc.wantRects {
			t.Fatalf("%s: %d patches, want %d", tc.graphType, len(c.Patches), tc.wantRects)
		}
		// Red symbols are not a wave source color, so the overlay is blue.
		rect := c.Patches[0].(*PatchRect)
		if rect.Color != Blue {
			t.Fatalf("%s: overlay color = %q, want blue", tc.graphType, rect.Color)
		}
		if rect.Fill {
			t.Fatalf("%s: overlay should be unfilled", tc.graphType)
		}
	}
}

func TestNewCurveWaveOverlayContrastColor(t *testing.T) {
	info := testCurveInfo()
	info.Symbol.Color = "blue"
	wave := &tao.WaveParams{IxA1: 1, IxA2: 2, IxB1: 3, IxB2: 4}
	c, err := NewCurve("wave.a", info, pts(0, 1, 1, 2), pts(0, 1), nil, wave)
	if err != nil {
		t.Fatalf("NewCurve: %v", err)
	}
	if got := c.Patches[0].(*PatchRect).Color; got != Orange {
		t.Fatalf("overlay color = %q, want orange against blue symbols", got)
	}
}

func TestNewCurveWaveRangeExtension(t *testing.T) {
	wave := &tao.WaveParams{IxA1: 0, IxA2: 1}
	// Both line and symbol data: y range stretches to 2x the extremes
	// (for positive max) and 2x the min.
	c, err := NewCurve("wave.a", testCurveInfo(), pts(0, -1, 1, 3), pts(0.5, 2), nil, wave)
	if err != nil {
		t.Fatalf("NewCurve: %v", err)
	}
	rect := c.Patches[0].(*PatchRect)
	if rect.XY.Y != -2 {
		t.Fatalf("overlay y = %v, want -2 (2x min)", rect.XY.Y)
	}
	if got := rect.XY.Y + rect.Height; got != 6 {
		t.Fatalf("overlay top = %v, want 6 (2x max)", got)
	}

	// Symbols only: no extension.
	c, err = NewCurve("wave.a", testCurveInfo(), nil, pts(0, -1, 1, 3), nil, wave)
	if err != nil {
		t.Fatalf("NewCurve: %v", err)
	}
	rect = c.Patches[0].(*PatchRect)
	if rect.XY.Y != -1 || rect.XY.Y+rect.Height != 3 {
		t.Fatalf("overlay span = [%v, %v], want data extent", rect.XY.Y, rect.XY.Y+rect.Height)
	}
}

func TestNewCurveHistogram(t *testing.T) {
	hist := &tao.HistogramInfo{Number: 40}
	c, err := NewCurve("histogram", testCurveInfo(), pts(0, 1, 1, 2, 2, 1), nil, hist, nil)
	if err != nil {
		t.Fatalf("NewCurve: %v", err)
	}
	if c.Line != nil || c.Symbol != nil {
		t.Fatalf("histogram curve kept line/symbol primitives")
	}
	if c.Histogram == nil {
		t.Fatalf("histogram missing")
	}
	if c.Histogram.Bins != 40 {
		t.Fatalf("bins = %d, want 40", c.Histogram.Bins)
	}
	if len(c.Histogram.Xs) != 3 || len(c.Histogram.Weights) != 3 {
		t.Fatalf("samples = %d/%d, want 3/3", len(c.Histogram.Xs), len(c.Histogram.Weights))
	}
	if c.Histogram.Color != Red {
		t.Fatalf("histogram color = %q, want symbol color", c.Histogram.Color)
	}
}

func TestLegendLabel(t *testing.T) {
	info := testCurveInfo()
	c := &Curve{Info: info}
	if got := c.LegendLabel(); got != "" {
		t.Fatalf("LegendLabel = %q, want empty", got)
	}
	info.LegendText = "beta x"
	if got := c.LegendLabel(); got != "beta x" {
		t.Fatalf("LegendLabel = %q", got)
	}
	info.LegendText = ""
	info.DataType = "physical_aperture"
	if got := c.LegendLabel(); got != "physical_aperture" {
		t.Fatalf("LegendLabel = %q, want data type fallback", got)
	}
}
