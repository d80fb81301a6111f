// Package tao talks to the Tao accelerator-simulation engine. It defines
// the typed records the plotting layer consumes, parses the engine's
// semicolon-delimited response lines, and provides two clients: a live
// subprocess pipe and a recorded-session replay.
package tao

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/openbeamline/beamplot/pkg/geom"
)

// GraphInfo describes one placed graph, as reported by `python plot_graph`.
type GraphInfo struct {
	Type       string // graph^type: data, lat_layout, floor_plan, wave.*, histogram, key_table
	NumCurves  int
	CurveNames []string
	WhyInvalid string

	Title       string
	TitleSuffix string
	XLabel      string
	YLabel      string
	XMin        float64
	XMax        float64
	YMin        float64
	YMax        float64

	DrawAxes        bool
	DrawGrid        bool
	DrawCurveLegend bool

	XMinorDiv        int
	XMajorDivNominal int

	IxUniverse int
	IxBranch   int

	FloorPlanSizeIsAbsolute bool
	FloorPlanOrbitScale     float64
	FloorPlanOrbitColor     string
}

// GraphInfoFromParams validates and converts a parameter map.
func GraphInfoFromParams(p Params) (*GraphInfo, error) {
	r := reader{p: p, record: "plot_graph"}
	g := &GraphInfo{
		Type:             r.str("graph^type"),
		NumCurves:        r.intOr("num_curves", 0),
		WhyInvalid:       r.strOr("why_invalid", ""),
		Title:            r.strOr("title", ""),
		TitleSuffix:      r.strOr("title_suffix", ""),
		XLabel:           r.strOr("x_label", ""),
		YLabel:           r.strOr("y_label", ""),
		XMin:             r.real("x_min"),
		XMax:             r.real("x_max"),
		YMin:             r.real("y_min"),
		YMax:             r.real("y_max"),
		DrawAxes:         r.boolOr("draw_axes", true),
		DrawGrid:         r.boolOr("draw_grid", true),
		DrawCurveLegend:  r.boolOr("draw_curve_legend", true),
		XMinorDiv:        r.intOr("x_minor_div", 0),
		XMajorDivNominal: r.intOr("x_major_div_nominal", 0),
		IxUniverse:       r.intOr("ix_universe", -1),
		IxBranch:         r.intOr("ix_branch", -1),

		FloorPlanSizeIsAbsolute: r.boolOr("floor_plan%size_is_absolute", false),
		FloorPlanOrbitScale:     r.realOr("floor_plan%orbit_scale", 0),
		FloorPlanOrbitColor:     r.strOr("floor_plan%orbit_color", ""),
	}
	for i := 1; i <= g.NumCurves; i++ {
		g.CurveNames = append(g.CurveNames, r.str(fmt.Sprintf("curve[%d]", i)))
	}
	if r.err != nil {
		return nil, r.err
	}
	return g, nil
}

// RegionInfo describes one plot region, as reported by `python plot1`.
type RegionInfo struct {
	NumGraphs  int
	GraphNames []string
	XAxisType  string
}

// RegionInfoFromParams validates and converts a parameter map.
func RegionInfoFromParams(p Params) (*RegionInfo, error) {
	r := reader{p: p, record: "plot1"}
	ri := &RegionInfo{
		NumGraphs: r.intOr("num_graphs", 0),
		XAxisType: r.strOr("x_axis_type", ""),
	}
	for i := 1; i <= ri.NumGraphs; i++ {
		ri.GraphNames = append(ri.GraphNames, r.str(fmt.Sprintf("graph[%d]", i)))
	}
	if r.err != nil {
		return nil, r.err
	}
	return ri, nil
}

// CurveLineInfo is the line sub-record of a curve.
type CurveLineInfo struct {
	Color   string
	Pattern string
	Width   float64
}

// CurveSymbolInfo is the symbol sub-record of a curve.
type CurveSymbolInfo struct {
	Color       string
	Type        string
	FillPattern string
	Height      float64
	LineWidth   float64
}

// CurveInfo describes one curve, as reported by `python plot_curve`.
type CurveInfo struct {
	Name        string
	DataType    string
	LegendText  string
	UseY2       bool
	DrawLine    bool
	DrawSymbols bool
	Line        CurveLineInfo
	Symbol      CurveSymbolInfo
}

// CurveInfoFromParams validates and converts a parameter map.
func CurveInfoFromParams(p Params) (*CurveInfo, error) {
	r := reader{p: p, record: "plot_curve"}
	c := &CurveInfo{
		Name:        r.strOr("name", ""),
		DataType:    r.strOr("data_type", ""),
		LegendText:  r.strOr("legend_text", ""),
		UseY2:       r.boolOr("use_y2", false),
		DrawLine:    r.boolOr("draw_line", true),
		DrawSymbols: r.boolOr("draw_symbols", true),
		Line: CurveLineInfo{
			Color:   r.str("line%color"),
			Pattern: r.strOr("line%pattern", "solid"),
			Width:   r.realOr("line%width", 1),
		},
		Symbol: CurveSymbolInfo{
			Color:       r.str("symbol%color"),
			Type:        r.str("symbol%type"),
			FillPattern: r.strOr("symbol%fill_pattern", ""),
			Height:      r.realOr("symbol%height", 6),
			LineWidth:   r.realOr("symbol%line_width", 1),
		},
	}
	if r.err != nil {
		return nil, r.err
	}
	return c, nil
}

// HistogramInfo describes the binning of a histogram graph.
type HistogramInfo struct {
	Number  int // number of bins
	Density bool
}

// HistogramInfoFromParams validates and converts a parameter map.
func HistogramInfoFromParams(p Params) (*HistogramInfo, error) {
	r := reader{p: p, record: "plot_histogram"}
	h := &HistogramInfo{
		Number:  int(r.real("number")),
		Density: r.boolOr("density_normalized", false),
	}
	if r.err != nil {
		return nil, r.err
	}
	return h, nil
}

// WaveParams carries the wave-analysis x-intervals of interest.
type WaveParams struct {
	IxA1 float64
	IxA2 float64
	IxB1 float64
	IxB2 float64
}

// WaveParamsFromParams validates and converts a parameter map.
func WaveParamsFromParams(p Params) (*WaveParams, error) {
	r := reader{p: p, record: "wave params"}
	w := &WaveParams{
		IxA1: r.real("ix_a1"),
		IxA2: r.real("ix_a2"),
		IxB1: r.real("ix_b1"),
		IxB2: r.real("ix_b2"),
	}
	if r.err != nil {
		return nil, r.err
	}
	return w, nil
}

// PlotPage carries page-wide scaling factors.
type PlotPage struct {
	LatLayoutShapeScale float64
	FloorPlanShapeScale float64
}

// PlotPageFromParams validates and converts a parameter map.
func PlotPageFromParams(p Params) (*PlotPage, error) {
	r := reader{p: p, record: "plot_page"}
	pg := &PlotPage{
		LatLayoutShapeScale: r.realOr("lat_layout_shape_scale", 1),
		FloorPlanShapeScale: r.realOr("floor_plan_shape_scale", 1),
	}
	if r.err != nil {
		return nil, r.err
	}
	return pg, nil
}

// LatLayoutInfo is one lattice-layout element row.
type LatLayoutInfo struct {
	Index     int
	SStart    float64 // ele_s_start
	SEnd      float64 // ele_s_end
	Y1        float64
	Y2        float64
	LineWidth float64
	Color     string
	Shape     string
	LabelName string
}

// LatLayoutInfoFromRow converts one `python plot_lat_layout` row.
func LatLayoutInfoFromRow(fields []string) (*LatLayoutInfo, error) {
	if len(fields) < 9 {
		return nil, fmt.Errorf("tao: plot_lat_layout row has %d fields, want 9", len(fields))
	}
	f := rowReader{fields: fields, record: "plot_lat_layout"}
	el := &LatLayoutInfo{
		Index:     f.int(0),
		SStart:    f.real(1),
		SEnd:      f.real(2),
		Y1:        f.real(3),
		Y2:        f.real(4),
		LineWidth: f.real(5),
		Color:     f.str(6),
		Shape:     f.str(7),
		LabelName: f.str(8),
	}
	if f.err != nil {
		return nil, f.err
	}
	return el, nil
}

// FloorPlanElementInfo is one floor-plan element row.
type FloorPlanElementInfo struct {
	BranchIndex int
	Index       int
	EleKey      string
	End1R1      float64 // x1
	End1R2      float64 // y1
	End1Theta   float64 // entry angle
	End2R1      float64 // x2
	End2R2      float64 // y2
	End2Theta   float64 // exit angle
	LineWidth   float64
	Shape       string
	Y1          float64 // transverse offset above
	Y2          float64 // transverse offset below
	Color       string
	LabelName   string

	// Sbend relative face angles; zero for all other elements.
	RelAngleStart float64 // ele_e1
	RelAngleEnd   float64 // ele_e2
}

// FloorPlanElementInfoFromRow converts one `python floor_plan` row. The two
// trailing relative-angle fields are present for sbends only.
func FloorPlanElementInfoFromRow(fields []string) (*FloorPlanElementInfo, error) {
	if len(fields) < 15 {
		return nil, fmt.Errorf("tao: floor_plan row has %d fields, want at least 15", len(fields))
	}
	f := rowReader{fields: fields, record: "floor_plan"}
	el := &FloorPlanElementInfo{
		BranchIndex: f.int(0),
		Index:       f.int(1),
		EleKey:      strings.ToLower(f.str(2)),
		End1R1:      f.real(3),
		End1R2:      f.real(4),
		End1Theta:   f.real(5),
		End2R1:      f.real(6),
		End2R2:      f.real(7),
		End2Theta:   f.real(8),
		LineWidth:   f.real(9),
		Shape:       f.str(10),
		Y1:          f.real(11),
		Y2:          f.real(12),
		Color:       f.str(13),
		LabelName:   f.str(14),
	}
	if len(fields) >= 17 {
		el.RelAngleStart = f.real(15)
		el.RelAngleEnd = f.real(16)
	}
	if f.err != nil {
		return nil, f.err
	}
	return el, nil
}

// BuildingWallPoint is one `python building_wall_graph` row: a vertex of a
// wall outline, with the arc radius leading to the previous vertex.
type BuildingWallPoint struct {
	Index   int // wall index
	Point   int // vertex ordinal within the wall
	OffsetX float64
	OffsetY float64
	Radius  float64
}

// BuildingWallPointFromRow converts one building_wall_graph row.
func BuildingWallPointFromRow(fields []string) (*BuildingWallPoint, error) {
	if len(fields) < 5 {
		return nil, fmt.Errorf("tao: building_wall_graph row has %d fields, want 5", len(fields))
	}
	f := rowReader{fields: fields, record: "building_wall_graph"}
	w := &BuildingWallPoint{
		Index:   f.int(0),
		Point:   f.int(1),
		OffsetX: f.real(2),
		OffsetY: f.real(3),
		Radius:  f.real(4),
	}
	if f.err != nil {
		return nil, f.err
	}
	return w, nil
}

// BuildingWallInfo is one `python building_wall_list` row: styling for one
// wall index.
type BuildingWallInfo struct {
	Index     int
	Name      string
	Color     string
	LineWidth float64
}

// BuildingWallInfoFromRow converts one building_wall_list row.
func BuildingWallInfoFromRow(fields []string) (*BuildingWallInfo, error) {
	if len(fields) < 4 {
		return nil, fmt.Errorf("tao: building_wall_list row has %d fields, want 4", len(fields))
	}
	f := rowReader{fields: fields, record: "building_wall_list"}
	w := &BuildingWallInfo{
		Index:     f.int(0),
		Name:      f.str(1),
		Color:     f.str(2),
		LineWidth: f.real(3),
	}
	if f.err != nil {
		return nil, f.err
	}
	return w, nil
}

// FloorOrbitInfo is one `python floor_orbit` row: a run of orbit samples for
// either the x or y coordinate.
type FloorOrbitInfo struct {
	BranchIndex int
	Index       int
	EleKey      string // "x" or "y"
	Orbits      []float64
}

// FloorOrbitInfoFromRow converts one floor_orbit row.
func FloorOrbitInfoFromRow(fields []string) (*FloorOrbitInfo, error) {
	if len(fields) < 4 {
		return nil, fmt.Errorf("tao: floor_orbit row has %d fields, want at least 4", len(fields))
	}
	f := rowReader{fields: fields, record: "floor_orbit"}
	o := &FloorOrbitInfo{
		BranchIndex: f.int(0),
		Index:       f.int(1),
		EleKey:      strings.ToLower(f.str(2)),
	}
	for i := 3; i < len(fields); i++ {
		o.Orbits = append(o.Orbits, f.real(i))
	}
	if f.err != nil {
		return nil, f.err
	}
	return o, nil
}

// PlaceBufferEntry is one pending placement from the engine's write-ahead
// place buffer. Graph "none" clears the region; region "*" clears all.
type PlaceBufferEntry struct {
	Region string
	Graph  string
}

// PlaceBufferEntryFromRow converts one place_buffer row.
func PlaceBufferEntryFromRow(fields []string) (*PlaceBufferEntry, error) {
	if len(fields) < 2 {
		return nil, fmt.Errorf("tao: place_buffer row has %d fields, want 2", len(fields))
	}
	return &PlaceBufferEntry{Region: fields[0], Graph: fields[1]}, nil
}

// RegionListing is one `python plot_list r` row, naming a display region and
// the template currently placed in it (empty when the region is free).
type RegionListing struct {
	Index    int
	Region   string
	PlotName string
	Visible  bool
}

// RegionListingFromRow converts one plot_list row.
func RegionListingFromRow(fields []string) (*RegionListing, error) {
	if len(fields) < 3 {
		return nil, fmt.Errorf("tao: plot_list row has %d fields, want at least 3", len(fields))
	}
	f := rowReader{fields: fields, record: "plot_list"}
	l := &RegionListing{
		Index:    f.int(0),
		Region:   f.str(1),
		PlotName: f.str(2),
	}
	if len(fields) >= 4 {
		l.Visible = fields[3] == "T"
	}
	if f.err != nil {
		return nil, f.err
	}
	return l, nil
}

// PointFromRow converts an `index;x;y` row from plot_line or plot_symbol.
func PointFromRow(fields []string) (geom.Point, error) {
	if len(fields) < 3 {
		return geom.Point{}, fmt.Errorf("tao: point row has %d fields, want 3", len(fields))
	}
	f := rowReader{fields: fields, record: "plot point"}
	p := geom.Point{X: f.real(1), Y: f.real(2)}
	if f.err != nil {
		return geom.Point{}, f.err
	}
	return p, nil
}

// reader accumulates the first conversion error while pulling typed values
// out of a Params map, so record constructors stay flat.
type reader struct {
	p      Params
	record string
	err    error
}

func (r *reader) fail(key string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("tao: %s: key %q: %w", r.record, key, err)
	}
}

func (r *reader) str(key string) string {
	v, ok := r.p.Lookup(key)
	if !ok {
		r.fail(key, errMissingKey)
		return ""
	}
	return v
}

func (r *reader) strOr(key, def string) string {
	v, ok := r.p.Lookup(key)
	if !ok {
		return def
	}
	return v
}

func (r *reader) real(key string) float64 {
	v, ok := r.p.Lookup(key)
	if !ok {
		r.fail(key, errMissingKey)
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		r.fail(key, err)
		return 0
	}
	return f
}

func (r *reader) realOr(key string, def float64) float64 {
	if _, ok := r.p.Lookup(key); !ok {
		return def
	}
	return r.real(key)
}

func (r *reader) intOr(key string, def int) int {
	v, ok := r.p.Lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		r.fail(key, err)
		return 0
	}
	return n
}

func (r *reader) boolOr(key string, def bool) bool {
	v, ok := r.p.Lookup(key)
	if !ok {
		return def
	}
	return parseLogical(v, def)
}

// parseLogical reads a Tao logical ("T"/"F", with Fortran spellings).
func parseLogical(v string, def bool) bool {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "T", "TRUE", ".TRUE.":
		return true
	case "F", "FALSE", ".FALSE.":
		return false
	}
	return def
}

// rowReader is the positional counterpart of reader for array-style rows.
type rowReader struct {
	fields []string
	record string
	err    error
}

func (f *rowReader) fail(i int, err error) {
	if f.err == nil {
		f.err = fmt.Errorf("tao: %s: field %d: %w", f.record, i, err)
	}
}

func (f *rowReader) str(i int) string {
	return strings.TrimSpace(f.fields[i])
}

func (f *rowReader) real(i int) float64 {
	v, err := strconv.ParseFloat(f.str(i), 64)
	if err != nil {
		f.fail(i, err)
		return 0
	}
	return v
}

func (f *rowReader) int(i int) int {
	v, err := strconv.Atoi(f.str(i))
	if err != nil {
		f.fail(i, err)
		return 0
	}
	return v
}
