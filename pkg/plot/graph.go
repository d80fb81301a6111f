package plot

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/openbeamline/beamplot/pkg/geom"
	"github.com/openbeamline/beamplot/pkg/tao"
)

// Client is what this package needs from an engine connection. *tao.Client
// satisfies it; tests use small fakes.
type Client interface {
	PlotGraph(ctx context.Context, graphName string) (*tao.GraphInfo, error)
	PlotRegion(ctx context.Context, regionName string) (*tao.RegionInfo, error)
	PlotCurve(ctx context.Context, curveName string) (*tao.CurveInfo, error)
	CurveLine(ctx context.Context, curveName string) ([]geom.Point, error)
	CurveSymbols(ctx context.Context, curveName string) ([]geom.Point, error)
	Histogram(ctx context.Context, graphName string) (*tao.HistogramInfo, error)
	WaveParams(ctx context.Context) (*tao.WaveParams, error)
	PlotPage(ctx context.Context) (*tao.PlotPage, error)
	LatLayout(ctx context.Context, universe, branch int) ([]*tao.LatLayoutInfo, error)
	FloorPlan(ctx context.Context, graphName string) ([]*tao.FloorPlanElementInfo, error)
	FloorOrbit(ctx context.Context, graphName string) ([]*tao.FloorOrbitInfo, error)
	BuildingWallGraph(ctx context.Context, graphName string) ([]*tao.BuildingWallPoint, error)
	BuildingWallList(ctx context.Context) ([]*tao.BuildingWallInfo, error)
	PlaceBuffer(ctx context.Context) ([]*tao.PlaceBufferEntry, error)
	Regions(ctx context.Context) ([]*tao.RegionListing, error)
	Place(ctx context.Context, region, template string) error
	ApplyCurveSettings(ctx context.Context, region, graph string, settings map[int]tao.CurveSettings) error
}

// GraphKind tags the concrete graph variants.
type GraphKind int

const (
	KindBasic GraphKind = iota
	KindLatticeLayout
	KindFloorPlan
)

// Graph is one composed graph ready for drawing.
type Graph interface {
	Kind() GraphKind
	Frame() *Frame
	Draw(s Surface)
}

// Frame carries the axes furniture shared by all graph kinds.
type Frame struct {
	RegionName string
	GraphName  string

	Title  string
	XLabel string
	YLabel string

	XLim [2]float64
	YLim [2]float64

	ShowAxes   bool
	DrawGrid   bool
	DrawLegend bool

	// XAxisType is the region's x axis type, "s" for longitudinal plots.
	XAxisType string
}

// FullName is the engine name of the placed graph, region.graph.
func (f *Frame) FullName() string {
	return f.RegionName + "." + f.GraphName
}

// FixLimits widens degenerate axis limits so a surface never divides by a
// zero span, optionally padding by a fraction of each bound.
func FixLimits(lim [2]float64, padFactor float64) [2]float64 {
	if geom.IsClose(lim[0], 0) && geom.IsClose(lim[1], 0) {
		return [2]float64{-0.001, 0.001}
	}
	return [2]float64{
		lim[0] - abs(lim[0]*padFactor),
		lim[1] + abs(lim[1]*padFactor),
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// BasicGraph is a data graph: curves of lines and symbols over shared axes.
// Wave and histogram graphs are basic graphs too; their extras live on the
// curves.
type BasicGraph struct {
	frame  Frame
	Info   *tao.GraphInfo
	Curves []*Curve
}

func (g *BasicGraph) Kind() GraphKind { return KindBasic }
func (g *BasicGraph) Frame() *Frame   { return &g.frame }

// Draw emits every curve. Legend assembly is the surface's concern; it can
// ask each curve for its LegendLabel.
func (g *BasicGraph) Draw(s Surface) {
	for _, c := range g.Curves {
		c.Draw(s)
	}
}

// IsSPlot reports whether the x axis is the longitudinal s coordinate.
func (g *BasicGraph) IsSPlot() bool {
	if g.frame.XAxisType == "s" {
		return true
	}
	label := strings.ReplaceAll(strings.ToLower(g.frame.XLabel), " ", "")
	return label == "s[m]" || label == "s(m)"
}

// XRange is the graph's reported x range.
func (g *BasicGraph) XRange() (float64, float64) {
	return g.Info.XMin, g.Info.XMax
}

// ClampXRange fills missing bounds from the graph range and keeps s plots
// out of negative s.
func (g *BasicGraph) ClampXRange(x0, x1 *float64) (float64, float64) {
	lo, hi := g.XRange()
	if x0 != nil {
		lo = *x0
	}
	if x1 != nil {
		hi = *x1
	}
	if g.IsSPlot() && lo < 0 {
		lo = 0
	}
	return lo, hi
}

// defaultCurvePoints is the engine's documented default for n_curve_points.
const defaultCurvePoints = 401

// NumPoints is the sample count of the first curve with line data.
func (g *BasicGraph) NumPoints() int {
	for _, c := range g.Curves {
		if c.Line != nil {
			return len(c.Line.Points)
		}
	}
	return defaultCurvePoints
}

// NewBasicGraph fetches and assembles a data graph. info may be pre-fetched
// to save a round trip.
func NewBasicGraph(ctx context.Context, client Client, regionName, graphName string, info *tao.GraphInfo) (*BasicGraph, error) {
	fullName := regionName + "." + graphName
	if info == nil {
		var err error
		info, err = client.PlotGraph(ctx, fullName)
		if err != nil {
			return nil, err
		}
	}
	switch info.Type {
	case "lat_layout", "floor_plan", "key_table":
		return nil, &UnsupportedGraphError{Name: fullName, Type: info.Type}
	}
	if info.WhyInvalid != "" {
		return nil, &GraphInvalidError{Name: fullName, Reason: info.WhyInvalid}
	}

	regionInfo, err := client.PlotRegion(ctx, regionName)
	if err != nil {
		return nil, err
	}

	g := &BasicGraph{
		frame: Frame{
			RegionName: regionName,
			GraphName:  graphName,
			Title:      strings.TrimSpace(info.Title + " " + info.TitleSuffix),
			XLabel:     info.XLabel,
			YLabel:     info.YLabel,
			XLim:       [2]float64{info.XMin, info.XMax},
			YLim:       [2]float64{info.YMin, info.YMax},
			ShowAxes:   info.DrawAxes,
			DrawGrid:   info.DrawGrid,
			DrawLegend: info.DrawCurveLegend,
			XAxisType:  regionInfo.XAxisType,
		},
		Info: info,
	}

	var histInfo *tao.HistogramInfo
	if info.Type == "histogram" {
		if histInfo, err = client.Histogram(ctx, fullName); err != nil {
			return nil, err
		}
	}
	var waveParams *tao.WaveParams
	if strings.HasPrefix(info.Type, "wave.") {
		if waveParams, err = client.WaveParams(ctx); err != nil {
			return nil, err
		}
	}

	for _, curveName := range info.CurveNames {
		curve, err := fetchCurve(ctx, client, fullName, curveName, info.Type, histInfo, waveParams)
		if err != nil {
			if errors.Is(err, ErrNoCurveData) {
				log.Printf("plot: no curve data for %s.%s", fullName, curveName)
				continue
			}
			return nil, err
		}
		g.Curves = append(g.Curves, curve)
	}
	return g, nil
}

func fetchCurve(
	ctx context.Context,
	client Client,
	graphFullName, curveName, graphType string,
	histInfo *tao.HistogramInfo,
	waveParams *tao.WaveParams,
) (*Curve, error) {
	fullName := graphFullName + "." + curveName
	info, err := client.PlotCurve(ctx, fullName)
	if err != nil {
		return nil, err
	}
	// Curves legitimately may have only lines or only symbols; the engine
	// errors on the missing half.
	points, err := client.CurveLine(ctx, fullName)
	if err != nil {
		points = nil
	}
	symbolPoints, err := client.CurveSymbols(ctx, fullName)
	if err != nil {
		symbolPoints = nil
	}
	curve, err := NewCurve(graphType, info, points, symbolPoints, histInfo, waveParams)
	if err != nil {
		return nil, err
	}
	if curve.Name == "" {
		curve.Name = curveName
	}
	return curve, nil
}
