package plot

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/openbeamline/beamplot/pkg/tao"
)

func TestManagerToPlace(t *testing.T) {
	ctx := context.Background()
	f := basicGraphClient()
	m := NewManager(f)

	f.buffer = []*tao.PlaceBufferEntry{
		{Region: "r1", Graph: "orbit"},
		{Region: "r2", Graph: "beta"},
	}
	pending, err := m.ToPlace(ctx)
	if err != nil {
		t.Fatalf("ToPlace: %v", err)
	}
	want := map[string]string{"r1": "orbit", "r2": "beta"}
	if !reflect.DeepEqual(pending, want) {
		t.Fatalf("pending = %v, want %v", pending, want)
	}

	// Graph "none" clears a single pending region.
	f.buffer = []*tao.PlaceBufferEntry{{Region: "r1", Graph: "none"}}
	pending, err = m.ToPlace(ctx)
	if err != nil {
		t.Fatalf("ToPlace: %v", err)
	}
	if !reflect.DeepEqual(pending, map[string]string{"r2": "beta"}) {
		t.Fatalf("pending after clear = %v", pending)
	}

	// Region "*" clears everything.
	f.buffer = []*tao.PlaceBufferEntry{{Region: "*", Graph: "none"}}
	pending, err = m.ToPlace(ctx)
	if err != nil {
		t.Fatalf("ToPlace: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("pending after wildcard clear = %v", pending)
	}
}

func TestRegionForGraphPending(t *testing.T) {
	f := basicGraphClient()
	m := NewManager(f)
	f.buffer = []*tao.PlaceBufferEntry{{Region: "r2", Graph: "orbit"}}

	region, err := m.RegionForGraph(context.Background(), "orbit")
	if err != nil {
		t.Fatalf("RegionForGraph: %v", err)
	}
	if region != "r2" {
		t.Fatalf("region = %q, want the pending one", region)
	}
}

func TestRegionForGraphFree(t *testing.T) {
	f := basicGraphClient()
	m := NewManager(f)
	f.listings = []*tao.RegionListing{
		{Index: 1, Region: "r1", PlotName: "beta"},
		{Index: 2, Region: "r2", PlotName: ""},
	}

	region, err := m.RegionForGraph(context.Background(), "orbit")
	if err != nil {
		t.Fatalf("RegionForGraph: %v", err)
	}
	if region != "r2" {
		t.Fatalf("region = %q, want the free one", region)
	}
}

func TestRegionForGraphReuse(t *testing.T) {
	ctx := context.Background()
	f := basicGraphClient()
	m := NewManager(f)
	f.listings = []*tao.RegionListing{
		{Index: 1, Region: "r1", PlotName: "beta"},
	}

	// Nothing held yet: reuse has nothing to fall back on.
	_, err := m.RegionForGraph(ctx, "orbit")
	if !errors.Is(err, ErrAllRegionsInUse) {
		t.Fatalf("got %v, want ErrAllRegionsInUse", err)
	}

	if _, err := m.Place(ctx, "orbit", "r1"); err != nil {
		t.Fatalf("Place: %v", err)
	}
	region, err := m.RegionForGraph(ctx, "orbit")
	if err != nil {
		t.Fatalf("RegionForGraph: %v", err)
	}
	if region != "r1" {
		t.Fatalf("region = %q, want the reused one", region)
	}

	m.AllowReuse = false
	_, err = m.RegionForGraph(ctx, "orbit")
	if !errors.Is(err, ErrAllRegionsInUse) {
		t.Fatalf("got %v, want ErrAllRegionsInUse without reuse", err)
	}
}

func TestManagerPlace(t *testing.T) {
	ctx := context.Background()
	f := basicGraphClient()
	m := NewManager(f)

	graphs, err := m.Place(ctx, "orbit", "r1")
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if f.placed["r1"] != "orbit" {
		t.Fatalf("engine placement = %v", f.placed)
	}
	if len(graphs) != 1 || graphs[0].Kind() != KindBasic {
		t.Fatalf("graphs = %v", graphs)
	}
	if got := m.Graphs("r1"); len(got) != 1 {
		t.Fatalf("held graphs = %d", len(got))
	}
	if got := m.RegionNames(); !reflect.DeepEqual(got, []string{"r1"}) {
		t.Fatalf("region names = %v", got)
	}
}

func TestUpdateRegionSkipsUnsupported(t *testing.T) {
	ctx := context.Background()
	f := basicGraphClient()
	f.regions["r1"].NumGraphs = 2
	f.regions["r1"].GraphNames = []string{"g", "keys"}
	f.graphs["r1.keys"] = &tao.GraphInfo{Type: "key_table"}
	m := NewManager(f)

	graphs, err := m.UpdateRegion(ctx, "r1", "orbit")
	if err != nil {
		t.Fatalf("UpdateRegion: %v", err)
	}
	if len(graphs) != 1 {
		t.Fatalf("graphs = %d, want the key table skipped", len(graphs))
	}

	m.IgnoreUnsupported = false
	_, err = m.UpdateRegion(ctx, "r1", "orbit")
	var unsupported *UnsupportedGraphError
	if !errors.As(err, &unsupported) {
		t.Fatalf("got %v, want UnsupportedGraphError", err)
	}
}

func TestUpdateRegionSkipsInvalid(t *testing.T) {
	ctx := context.Background()
	f := basicGraphClient()
	f.graphs["r1.g"].WhyInvalid = "no data loaded"
	m := NewManager(f)

	graphs, err := m.UpdateRegion(ctx, "r1", "orbit")
	if err != nil {
		t.Fatalf("UpdateRegion: %v", err)
	}
	if len(graphs) != 0 {
		t.Fatalf("graphs = %d, want the invalid graph skipped", len(graphs))
	}

	m.IgnoreInvalid = false
	_, err = m.UpdateRegion(ctx, "r1", "orbit")
	var invalid *GraphInvalidError
	if !errors.As(err, &invalid) {
		t.Fatalf("got %v, want GraphInvalidError", err)
	}
}

func TestPlaceAll(t *testing.T) {
	ctx := context.Background()
	f := basicGraphClient()
	m := NewManager(f)
	f.buffer = []*tao.PlaceBufferEntry{{Region: "r1", Graph: "orbit"}}

	result, err := m.PlaceAll(ctx)
	if err != nil {
		t.Fatalf("PlaceAll: %v", err)
	}
	if len(result["r1"]) != 1 {
		t.Fatalf("result = %v", result)
	}
	if f.placed["r1"] != "orbit" {
		t.Fatalf("engine placement = %v", f.placed)
	}

	// The buffer was consumed; nothing is pending anymore.
	pending, err := m.ToPlace(ctx)
	if err != nil {
		t.Fatalf("ToPlace: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("pending = %v", pending)
	}
}

func TestPrepareGraphs(t *testing.T) {
	ctx := context.Background()
	f := basicGraphClient()
	m := NewManager(f)

	curves := map[int]tao.CurveSettings{
		1: {SymbolEvery: tao.Opt(5), DrawLine: tao.Opt(false)},
	}
	graphs, region, err := m.PrepareGraphs(ctx, "orbit", "r1", curves)
	if err != nil {
		t.Fatalf("PrepareGraphs: %v", err)
	}
	if region != "r1" || len(graphs) != 1 {
		t.Fatalf("region %q, %d graphs", region, len(graphs))
	}
	want := []string{
		"set curve r1.g.c1 symbol_every = 5",
		"set curve r1.g.c1 draw_line = F",
	}
	if !reflect.DeepEqual(f.curveCommands, want) {
		t.Fatalf("curve commands = %v, want %v", f.curveCommands, want)
	}
}

func TestManagerClear(t *testing.T) {
	ctx := context.Background()
	f := basicGraphClient()
	m := NewManager(f)
	if _, err := m.Place(ctx, "orbit", "r1"); err != nil {
		t.Fatalf("Place: %v", err)
	}

	m.Clear(ctx, "")
	if f.placed["*"] != "none" {
		t.Fatalf("engine clear = %v", f.placed)
	}
	if len(m.RegionNames()) != 0 {
		t.Fatalf("regions survived clear: %v", m.RegionNames())
	}

	// Engine failures do not keep stale local state around.
	if _, err := m.Place(ctx, "orbit", "r1"); err != nil {
		t.Fatalf("Place: %v", err)
	}
	f.placeErr = errors.New("engine busy")
	m.Clear(ctx, "r1")
	if len(m.Graphs("r1")) != 0 {
		t.Fatalf("graphs survived failed clear")
	}
}

func TestManagerClearEmptiesPending(t *testing.T) {
	ctx := context.Background()
	f := basicGraphClient()
	m := NewManager(f)

	f.buffer = []*tao.PlaceBufferEntry{{Region: "r1", Graph: "orbit"}}
	pending, err := m.ToPlace(ctx)
	if err != nil {
		t.Fatalf("ToPlace: %v", err)
	}
	if !reflect.DeepEqual(pending, map[string]string{"r1": "orbit"}) {
		t.Fatalf("pending = %v", pending)
	}

	m.Clear(ctx, "*")
	pending, err = m.ToPlace(ctx)
	if err != nil {
		t.Fatalf("ToPlace: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("pending after Clear(*) = %v, want empty", pending)
	}
}

func TestManagerLatticeLayoutGraph(t *testing.T) {
	ctx := context.Background()
	f := layoutClient()
	f.listings = []*tao.RegionListing{{Index: 1, Region: "lat_layout", PlotName: ""}}
	f.regions["lat_layout"].NumGraphs = 1
	f.regions["lat_layout"].GraphNames = []string{"g"}
	m := NewManager(f)

	g, err := m.LatticeLayoutGraph(ctx)
	if err != nil {
		t.Fatalf("LatticeLayoutGraph: %v", err)
	}
	if g.Kind() != KindLatticeLayout {
		t.Fatalf("kind = %v", g.Kind())
	}
	if f.placed["lat_layout"] != "lat_layout" {
		t.Fatalf("engine placement = %v", f.placed)
	}

	// A second call returns the held graph without placing again.
	f.placed = map[string]string{}
	if _, err := m.LatticeLayoutGraph(ctx); err != nil {
		t.Fatalf("LatticeLayoutGraph: %v", err)
	}
	if len(f.placed) != 0 {
		t.Fatalf("unexpected placement: %v", f.placed)
	}
}
