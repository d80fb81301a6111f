package tao

import (
	"context"
	"fmt"

	"github.com/openbeamline/beamplot/pkg/geom"
)

// Conn is a raw command transport to a Tao engine: one command in, the
// response lines out. Pipe and Replay both implement it.
type Conn interface {
	Cmd(ctx context.Context, command string) ([]string, error)
	Close() error
}

// Client wraps a Conn with typed accessors for the plotting interface
// commands. Graph and curve names are full paths like "r12.g.a".
type Client struct {
	conn Conn
}

// NewClient returns a typed client over conn.
func NewClient(conn Conn) *Client { return &Client{conn: conn} }

// Cmd issues a raw command, for callers that need commands the typed
// surface does not cover (settings writes, custom places).
func (c *Client) Cmd(ctx context.Context, command string) ([]string, error) {
	return c.conn.Cmd(ctx, command)
}

// Close releases the underlying transport.
func (c *Client) Close() error { return c.conn.Close() }

func (c *Client) params(ctx context.Context, command string) (Params, error) {
	lines, err := c.conn.Cmd(ctx, command)
	if err != nil {
		return Params{}, err
	}
	if err := checkEngineErrors(lines); err != nil {
		return Params{}, fmt.Errorf("%q: %w", command, err)
	}
	return ParseParams(lines)
}

func (c *Client) rows(ctx context.Context, command string) ([][]string, error) {
	lines, err := c.conn.Cmd(ctx, command)
	if err != nil {
		return nil, err
	}
	if err := checkEngineErrors(lines); err != nil {
		return nil, fmt.Errorf("%q: %w", command, err)
	}
	return ParseRows(lines)
}

// PlotGraph fetches graph attributes for a full graph name.
func (c *Client) PlotGraph(ctx context.Context, graphName string) (*GraphInfo, error) {
	p, err := c.params(ctx, "python plot_graph "+graphName)
	if err != nil {
		return nil, err
	}
	return GraphInfoFromParams(p)
}

// PlotRegion fetches region attributes and its graph names.
func (c *Client) PlotRegion(ctx context.Context, regionName string) (*RegionInfo, error) {
	p, err := c.params(ctx, "python plot1 "+regionName)
	if err != nil {
		return nil, err
	}
	return RegionInfoFromParams(p)
}

// PlotCurve fetches curve attributes for a full curve name.
func (c *Client) PlotCurve(ctx context.Context, curveName string) (*CurveInfo, error) {
	p, err := c.params(ctx, "python plot_curve "+curveName)
	if err != nil {
		return nil, err
	}
	info, err := CurveInfoFromParams(p)
	if err != nil {
		return nil, err
	}
	if info.Name == "" {
		info.Name = curveName
	}
	return info, nil
}

// CurveLine fetches the polyline samples of a curve. An empty result means
// the curve has no line data.
func (c *Client) CurveLine(ctx context.Context, curveName string) ([]geom.Point, error) {
	return c.points(ctx, "python plot_line "+curveName)
}

// CurveSymbols fetches the symbol positions of a curve.
func (c *Client) CurveSymbols(ctx context.Context, curveName string) ([]geom.Point, error) {
	return c.points(ctx, "python plot_symbol "+curveName)
}

func (c *Client) points(ctx context.Context, command string) ([]geom.Point, error) {
	rows, err := c.rows(ctx, command)
	if err != nil {
		return nil, err
	}
	pts := make([]geom.Point, 0, len(rows))
	for _, row := range rows {
		p, err := PointFromRow(row)
		if err != nil {
			return nil, err
		}
		pts = append(pts, p)
	}
	return pts, nil
}

// Histogram fetches histogram binning for a full graph name.
func (c *Client) Histogram(ctx context.Context, graphName string) (*HistogramInfo, error) {
	p, err := c.params(ctx, "python plot_histogram "+graphName)
	if err != nil {
		return nil, err
	}
	return HistogramInfoFromParams(p)
}

// WaveParams fetches the current wave-analysis intervals.
func (c *Client) WaveParams(ctx context.Context) (*WaveParams, error) {
	p, err := c.params(ctx, "python wave params")
	if err != nil {
		return nil, err
	}
	return WaveParamsFromParams(p)
}

// PlotPage fetches page-wide plot settings.
func (c *Client) PlotPage(ctx context.Context) (*PlotPage, error) {
	p, err := c.params(ctx, "python plot_page")
	if err != nil {
		return nil, err
	}
	return PlotPageFromParams(p)
}

// LatLayout fetches the lattice-layout element rows for one branch.
func (c *Client) LatLayout(ctx context.Context, universe, branch int) ([]*LatLayoutInfo, error) {
	rows, err := c.rows(ctx, fmt.Sprintf("python plot_lat_layout %d@%d", universe, branch))
	if err != nil {
		return nil, err
	}
	els := make([]*LatLayoutInfo, 0, len(rows))
	for _, row := range rows {
		el, err := LatLayoutInfoFromRow(row)
		if err != nil {
			return nil, err
		}
		els = append(els, el)
	}
	return els, nil
}

// FloorPlan fetches the floor-plan element rows for a full graph name.
func (c *Client) FloorPlan(ctx context.Context, graphName string) ([]*FloorPlanElementInfo, error) {
	rows, err := c.rows(ctx, "python floor_plan "+graphName)
	if err != nil {
		return nil, err
	}
	els := make([]*FloorPlanElementInfo, 0, len(rows))
	for _, row := range rows {
		el, err := FloorPlanElementInfoFromRow(row)
		if err != nil {
			return nil, err
		}
		els = append(els, el)
	}
	return els, nil
}

// FloorOrbit fetches the orbit-sample rows for a floor-plan graph.
func (c *Client) FloorOrbit(ctx context.Context, graphName string) ([]*FloorOrbitInfo, error) {
	rows, err := c.rows(ctx, "python floor_orbit "+graphName)
	if err != nil {
		return nil, err
	}
	orbits := make([]*FloorOrbitInfo, 0, len(rows))
	for _, row := range rows {
		o, err := FloorOrbitInfoFromRow(row)
		if err != nil {
			return nil, err
		}
		orbits = append(orbits, o)
	}
	return orbits, nil
}

// BuildingWallGraph fetches the wall vertices for a full graph name.
func (c *Client) BuildingWallGraph(ctx context.Context, graphName string) ([]*BuildingWallPoint, error) {
	rows, err := c.rows(ctx, "python building_wall_graph "+graphName)
	if err != nil {
		return nil, err
	}
	pts := make([]*BuildingWallPoint, 0, len(rows))
	for _, row := range rows {
		p, err := BuildingWallPointFromRow(row)
		if err != nil {
			return nil, err
		}
		pts = append(pts, p)
	}
	return pts, nil
}

// BuildingWallList fetches the styling rows for all defined walls.
func (c *Client) BuildingWallList(ctx context.Context) ([]*BuildingWallInfo, error) {
	rows, err := c.rows(ctx, "python building_wall_list")
	if err != nil {
		return nil, err
	}
	walls := make([]*BuildingWallInfo, 0, len(rows))
	for _, row := range rows {
		w, err := BuildingWallInfoFromRow(row)
		if err != nil {
			return nil, err
		}
		walls = append(walls, w)
	}
	return walls, nil
}

// PlaceBuffer drains the engine's pending placement buffer.
func (c *Client) PlaceBuffer(ctx context.Context) ([]*PlaceBufferEntry, error) {
	rows, err := c.rows(ctx, "python place_buffer")
	if err != nil {
		return nil, err
	}
	entries := make([]*PlaceBufferEntry, 0, len(rows))
	for _, row := range rows {
		e, err := PlaceBufferEntryFromRow(row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Regions lists the display regions and what is placed in each.
func (c *Client) Regions(ctx context.Context) ([]*RegionListing, error) {
	rows, err := c.rows(ctx, "python plot_list r")
	if err != nil {
		return nil, err
	}
	listings := make([]*RegionListing, 0, len(rows))
	for _, row := range rows {
		l, err := RegionListingFromRow(row)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, nil
}

// Place puts a plot template into a region without echoing back through the
// engine's place buffer. Template "none" clears the region.
func (c *Client) Place(ctx context.Context, region, template string) error {
	lines, err := c.conn.Cmd(ctx, fmt.Sprintf("place -no_buffer %s %s", region, template))
	if err != nil {
		return err
	}
	return checkEngineErrors(lines)
}
