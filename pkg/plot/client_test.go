package plot

import (
	"context"
	"errors"
	"fmt"

	"github.com/openbeamline/beamplot/pkg/geom"
	"github.com/openbeamline/beamplot/pkg/tao"
)

// fakeClient serves canned records keyed by full graph/curve name.
type fakeClient struct {
	graphs     map[string]*tao.GraphInfo
	regions    map[string]*tao.RegionInfo
	curves     map[string]*tao.CurveInfo
	lines      map[string][]geom.Point
	symbols    map[string][]geom.Point
	histograms map[string]*tao.HistogramInfo
	wave       *tao.WaveParams
	page       *tao.PlotPage
	layout     []*tao.LatLayoutInfo
	floorPlan  map[string][]*tao.FloorPlanElementInfo
	floorOrbit map[string][]*tao.FloorOrbitInfo
	wallPoints []*tao.BuildingWallPoint
	wallList   []*tao.BuildingWallInfo
	buffer     []*tao.PlaceBufferEntry
	listings   []*tao.RegionListing

	placed        map[string]string // region -> template, from Place calls
	placeErr      error
	curveCommands []string
}

var errNotFound = errors.New("fake: not found")

func newFakeClient() *fakeClient {
	return &fakeClient{
		graphs:     make(map[string]*tao.GraphInfo),
		regions:    make(map[string]*tao.RegionInfo),
		curves:     make(map[string]*tao.CurveInfo),
		lines:      make(map[string][]geom.Point),
		symbols:    make(map[string][]geom.Point),
		histograms: make(map[string]*tao.HistogramInfo),
		page:       &tao.PlotPage{LatLayoutShapeScale: 1, FloorPlanShapeScale: 1},
		floorPlan:  make(map[string][]*tao.FloorPlanElementInfo),
		floorOrbit: make(map[string][]*tao.FloorOrbitInfo),
		placed:     make(map[string]string),
	}
}

func (f *fakeClient) PlotGraph(_ context.Context, name string) (*tao.GraphInfo, error) {
	g, ok := f.graphs[name]
	if !ok {
		return nil, fmt.Errorf("%w: graph %s", errNotFound, name)
	}
	return g, nil
}

func (f *fakeClient) PlotRegion(_ context.Context, name string) (*tao.RegionInfo, error) {
	r, ok := f.regions[name]
	if !ok {
		return nil, fmt.Errorf("%w: region %s", errNotFound, name)
	}
	return r, nil
}

func (f *fakeClient) PlotCurve(_ context.Context, name string) (*tao.CurveInfo, error) {
	c, ok := f.curves[name]
	if !ok {
		return nil, fmt.Errorf("%w: curve %s", errNotFound, name)
	}
	return c, nil
}

func (f *fakeClient) CurveLine(_ context.Context, name string) ([]geom.Point, error) {
	pts, ok := f.lines[name]
	if !ok {
		return nil, fmt.Errorf("%w: line %s", errNotFound, name)
	}
	return pts, nil
}

func (f *fakeClient) CurveSymbols(_ context.Context, name string) ([]geom.Point, error) {
	pts, ok := f.symbols[name]
	if !ok {
		return nil, fmt.Errorf("%w: symbols %s", errNotFound, name)
	}
	return pts, nil
}

func (f *fakeClient) Histogram(_ context.Context, name string) (*tao.HistogramInfo, error) {
	h, ok := f.histograms[name]
	if !ok {
		return nil, fmt.Errorf("%w: histogram %s", errNotFound, name)
	}
	return h, nil
}

func (f *fakeClient) WaveParams(context.Context) (*tao.WaveParams, error) {
	if f.wave == nil {
		return nil, errNotFound
	}
	return f.wave, nil
}

func (f *fakeClient) PlotPage(context.Context) (*tao.PlotPage, error) { return f.page, nil }

func (f *fakeClient) LatLayout(_ context.Context, _, branch int) ([]*tao.LatLayoutInfo, error) {
	if f.layout == nil {
		return nil, errNotFound
	}
	return f.layout, nil
}

func (f *fakeClient) FloorPlan(_ context.Context, name string) ([]*tao.FloorPlanElementInfo, error) {
	return f.floorPlan[name], nil
}

func (f *fakeClient) FloorOrbit(_ context.Context, name string) ([]*tao.FloorOrbitInfo, error) {
	return f.floorOrbit[name], nil
}

func (f *fakeClient) BuildingWallGraph(_ context.Context, _ string) ([]*tao.BuildingWallPoint, error) {
	return f.wallPoints, nil
}

func (f *fakeClient) BuildingWallList(context.Context) ([]*tao.BuildingWallInfo, error) {
	return f.wallList, nil
}

func (f *fakeClient) PlaceBuffer(context.Context) ([]*tao.PlaceBufferEntry, error) {
	entries := f.buffer
	f.buffer = nil
	return entries, nil
}

func (f *fakeClient) Regions(context.Context) ([]*tao.RegionListing, error) {
	return f.listings, nil
}

func (f *fakeClient) Place(_ context.Context, region, template string) error {
	if f.placeErr != nil {
		return f.placeErr
	}
	f.placed[region] = template
	return nil
}

func (f *fakeClient) ApplyCurveSettings(_ context.Context, region, graph string, settings map[int]tao.CurveSettings) error {
	for i := 1; i <= len(settings); i++ {
		if cs, ok := settings[i]; ok {
			f.curveCommands = append(f.curveCommands, cs.Commands(region, graph, i)...)
		}
	}
	return nil
}
