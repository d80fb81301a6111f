package plot

import (
	"context"
	"errors"
	"testing"

	"github.com/openbeamline/beamplot/pkg/tao"
)

func TestFixLimits(t *testing.T) {
	if got := FixLimits([2]float64{0, 0}, 0); got != [2]float64{-0.001, 0.001} {
		t.Fatalf("degenerate limits = %v", got)
	}
	if got := FixLimits([2]float64{-10, 20}, 0.1); got != [2]float64{-11, 22} {
		t.Fatalf("padded limits = %v", got)
	}
	if got := FixLimits([2]float64{1, 2}, 0); got != [2]float64{1, 2} {
		t.Fatalf("plain limits changed: %v", got)
	}
}

func basicGraphClient() *fakeClient {
	f := newFakeClient()
	f.graphs["r1.g"] = &tao.GraphInfo{
		Type:            "data",
		NumCurves:       2,
		CurveNames:      []string{"c1", "c2"},
		Title:           "Orbit",
		TitleSuffix:     "[model]",
		XLabel:          "s [m]",
		YLabel:          "x [mm]",
		XMin:            0, XMax: 100,
		YMin:            -2, YMax: 2,
		DrawAxes:        true,
		DrawGrid:        true,
		DrawCurveLegend: true,
	}
	f.regions["r1"] = &tao.RegionInfo{NumGraphs: 1, GraphNames: []string{"g"}, XAxisType: "s"}
	f.curves["r1.g.c1"] = testCurveInfo()
	f.lines["r1.g.c1"] = pts(0, 1, 50, 2, 100, 1)
	f.symbols["r1.g.c1"] = pts(0, 1, 100, 1)
	f.curves["r1.g.c2"] = testCurveInfo()
	// c2 has no data at all; it is skipped, not fatal.
	return f
}

func TestNewBasicGraph(t *testing.T) {
	f := basicGraphClient()
	g, err := NewBasicGraph(context.Background(), f, "r1", "g", nil)
	if err != nil {
		t.Fatalf("NewBasicGraph: %v", err)
	}
	frame := g.Frame()
	if frame.Title != "Orbit [model]" {
		t.Fatalf("title = %q", frame.Title)
	}
	if frame.FullName() != "r1.g" {
		t.Fatalf("full name = %q", frame.FullName())
	}
	if frame.XLim != [2]float64{0, 100} || frame.YLim != [2]float64{-2, 2} {
		t.Fatalf("limits = %v/%v", frame.XLim, frame.YLim)
	}
	if len(g.Curves) != 1 {
		t.Fatalf("curves = %d, want only the one with data", len(g.Curves))
	}
	if g.Kind() != KindBasic {
		t.Fatalf("kind = %v", g.Kind())
	}
	if !g.IsSPlot() {
		t.Fatalf("x axis type s should make this an s plot")
	}
	if g.NumPoints() != 3 {
		t.Fatalf("NumPoints = %d, want 3", g.NumPoints())
	}
}

func TestNewBasicGraphInvalid(t *testing.T) {
	f := basicGraphClient()
	f.graphs["r1.g"].WhyInvalid = "no data loaded"
	_, err := NewBasicGraph(context.Background(), f, "r1", "g", nil)
	var invalid *GraphInvalidError
	if !errors.As(err, &invalid) {
		t.Fatalf("got %v, want GraphInvalidError", err)
	}
	if invalid.Reason != "no data loaded" {
		t.Fatalf("reason = %q", invalid.Reason)
	}
}

func TestNewBasicGraphWrongType(t *testing.T) {
	f := basicGraphClient()
	f.graphs["r1.g"].Type = "lat_layout"
	_, err := NewBasicGraph(context.Background(), f, "r1", "g", nil)
	var unsupported *UnsupportedGraphError
	if !errors.As(err, &unsupported) {
		t.Fatalf("got %v, want UnsupportedGraphError", err)
	}
}

func TestClampXRange(t *testing.T) {
	f := basicGraphClient()
	g, err := NewBasicGraph(context.Background(), f, "r1", "g", nil)
	if err != nil {
		t.Fatalf("NewBasicGraph: %v", err)
	}
	lo, hi := g.ClampXRange(nil, nil)
	if lo != 0 || hi != 100 {
		t.Fatalf("default range = (%v, %v)", lo, hi)
	}
	neg := -5.0
	upper := 50.0
	lo, hi = g.ClampXRange(&neg, &upper)
	if lo != 0 {
		t.Fatalf("s plot allowed negative s: %v", lo)
	}
	if hi != 50 {
		t.Fatalf("upper bound = %v", hi)
	}
}

// drawRecorder counts primitives by kind.
type drawRecorder struct {
	lines       []*CurveLine
	symbols     []*CurveSymbols
	histograms  []*Histogram
	patches     []Patch
	annotations []*Annotation
}

func (r *drawRecorder) Line(l *CurveLine)       { r.lines = append(r.lines, l) }
func (r *drawRecorder) Symbols(s *CurveSymbols) { r.symbols = append(r.symbols, s) }
func (r *drawRecorder) Histogram(h *Histogram)  { r.histograms = append(r.histograms, h) }
func (r *drawRecorder) Patch(p Patch)           { r.patches = append(r.patches, p) }
func (r *drawRecorder) Annotate(a *Annotation)  { r.annotations = append(r.annotations, a) }

func TestBasicGraphDraw(t *testing.T) {
	f := basicGraphClient()
	g, err := NewBasicGraph(context.Background(), f, "r1", "g", nil)
	if err != nil {
		t.Fatalf("NewBasicGraph: %v", err)
	}
	var rec drawRecorder
	g.Draw(&rec)
	if len(rec.lines) != 1 || len(rec.symbols) != 1 {
		t.Fatalf("drew %d lines, %d symbols", len(rec.lines), len(rec.symbols))
	}
}
