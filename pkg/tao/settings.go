package tao

import (
	"context"
	"fmt"
	"strconv"
)

// Settings types serialize to `set graph` / `set curve` commands. Nil
// pointer fields are left at the engine's current value; only set fields
// emit a command. Opt is the usual way to fill one in:
//
//	gs := tao.GraphSettings{DrawGrid: tao.Opt(false)}

// Opt returns a pointer to v, for filling optional settings fields inline.
func Opt[T any](v T) *T { return &v }

// QPPoint is a quick-plot point with units.
type QPPoint struct {
	X     float64
	Y     float64
	Units string
}

// Commands serializes the point under parent (e.g. "curve_legend_origin").
func (p QPPoint) Commands(region, graph, parent string) []string {
	out := []string{
		fmt.Sprintf("set graph %s.%s %s%%x = %s", region, graph, parent, formatReal(p.X)),
		fmt.Sprintf("set graph %s.%s %s%%y = %s", region, graph, parent, formatReal(p.Y)),
	}
	if p.Units != "" {
		out = append(out, fmt.Sprintf("set graph %s.%s %s%%units = %s", region, graph, parent, p.Units))
	}
	return out
}

// QPRect is a quick-plot rectangle with units.
type QPRect struct {
	X1    float64
	X2    float64
	Y1    float64
	Y2    float64
	Units string
}

// Commands serializes the rectangle under parent (e.g. "margin").
func (r QPRect) Commands(region, graph, parent string) []string {
	out := []string{
		fmt.Sprintf("set graph %s.%s %s%%x1 = %s", region, graph, parent, formatReal(r.X1)),
		fmt.Sprintf("set graph %s.%s %s%%x2 = %s", region, graph, parent, formatReal(r.X2)),
		fmt.Sprintf("set graph %s.%s %s%%y1 = %s", region, graph, parent, formatReal(r.Y1)),
		fmt.Sprintf("set graph %s.%s %s%%y2 = %s", region, graph, parent, formatReal(r.Y2)),
	}
	if r.Units != "" {
		out = append(out, fmt.Sprintf("set graph %s.%s %s%%units = %s", region, graph, parent, r.Units))
	}
	return out
}

// AxisSettings configures one axis (x, x2, y or y2) of a region's graphs.
type AxisSettings struct {
	Bounds          *string // zero_at_end, zero_symmetric, general, exact
	Min             *float64
	Max             *float64
	NumberOffset    *float64
	LabelOffset     *float64
	MajorTickLen    *float64
	MinorTickLen    *float64
	LabelColor      *string
	MajorDiv        *int
	MajorDivNominal *int
	MinorDiv        *int
	MinorDivMax     *int
	Places          *int
	TickSide        *int
	NumberSide      *int
	Label           *string
	Type            *string // log or linear
	DrawLabel       *bool
	DrawNumbers     *bool
}

// Commands serializes the axis settings. Axis commands address the region,
// not an individual graph.
func (a AxisSettings) Commands(region, axis string) []string {
	w := settingWriter{scope: region, prefix: axis + "%"}
	w.str("bounds", a.Bounds)
	w.real("min", a.Min)
	w.real("max", a.Max)
	w.real("number_offset", a.NumberOffset)
	w.real("label_offset", a.LabelOffset)
	w.real("major_tick_len", a.MajorTickLen)
	w.real("minor_tick_len", a.MinorTickLen)
	w.str("label_color", a.LabelColor)
	w.int("major_div", a.MajorDiv)
	w.int("major_div_nominal", a.MajorDivNominal)
	w.int("minor_div", a.MinorDiv)
	w.int("minor_div_max", a.MinorDivMax)
	w.int("places", a.Places)
	w.int("tick_side", a.TickSide)
	w.int("number_side", a.NumberSide)
	w.str("label", a.Label)
	w.str("type", a.Type)
	w.logical("draw_label", a.DrawLabel)
	w.logical("draw_numbers", a.DrawNumbers)
	return w.out
}

// FloorPlanSettings configures the floor_plan sub-record of a graph.
type FloorPlanSettings struct {
	CorrectDistortion *bool
	SizeIsAbsolute    *bool
	DrawOnlyFirstPass *bool
	FlipLabelSide     *bool
	Rotation          *float64
	OrbitScale        *float64
	OrbitColor        *string
	OrbitLattice      *string
	OrbitPattern      *string
	OrbitWidth        *int
	View              *string // xy, xz, yx, yz, zx, zy
}

// Commands serializes the floor-plan settings for region.graph.
func (f FloorPlanSettings) Commands(region, graph string) []string {
	w := settingWriter{scope: region + "." + graph, prefix: "floor_plan%"}
	w.logical("correct_distortion", f.CorrectDistortion)
	w.logical("size_is_absolute", f.SizeIsAbsolute)
	w.logical("draw_only_first_pass", f.DrawOnlyFirstPass)
	w.logical("flip_label_side", f.FlipLabelSide)
	w.real("rotation", f.Rotation)
	w.real("orbit_scale", f.OrbitScale)
	w.str("orbit_color", f.OrbitColor)
	w.str("orbit_lattice", f.OrbitLattice)
	w.str("orbit_pattern", f.OrbitPattern)
	w.int("orbit_width", f.OrbitWidth)
	w.str("view", f.View)
	return w.out
}

// GraphSettings configures one placed graph.
type GraphSettings struct {
	TextLegend        map[int]string
	Box               map[int]int
	AllowWrapAround   *bool
	Component         *string
	Clip              *bool
	CurveLegendOrigin *QPPoint
	DrawAxes          *bool
	DrawTitle         *bool
	DrawCurveLegend   *bool
	DrawGrid          *bool
	FloorPlan         *FloorPlanSettings
	IxUniverse        *int
	IxBranch          *int
	Margin            *QPRect
	ScaleMargin       *QPRect
	SymbolSizeScale   *float64
	TextLegendOrigin  *QPRect
	Title             *string
	X                 *AxisSettings
	X2                *AxisSettings
	Y                 *AxisSettings
	Y2                *AxisSettings
	Y2MirrorsY        *bool
	XAxisScaleFactor  *float64
}

// Commands serializes the graph settings for region.graph.
func (g GraphSettings) Commands(region, graph string) []string {
	var out []string
	for i := 1; i <= maxKey(g.TextLegend); i++ {
		if v, ok := g.TextLegend[i]; ok {
			out = append(out, fmt.Sprintf("set graph %s.%s text_legend(%d) = %s", region, graph, i, v))
		}
	}
	for i := 1; i <= maxKey(g.Box); i++ {
		if v, ok := g.Box[i]; ok {
			out = append(out, fmt.Sprintf("set graph %s.%s box(%d) = %d", region, graph, i, v))
		}
	}

	w := settingWriter{scope: region + "." + graph}
	w.logical("allow_wrap_around", g.AllowWrapAround)
	w.str("component", g.Component)
	w.logical("clip", g.Clip)
	w.logical("draw_axes", g.DrawAxes)
	w.logical("draw_title", g.DrawTitle)
	w.logical("draw_curve_legend", g.DrawCurveLegend)
	w.logical("draw_grid", g.DrawGrid)
	w.int("ix_universe", g.IxUniverse)
	w.int("ix_branch", g.IxBranch)
	w.real("symbol_size_scale", g.SymbolSizeScale)
	w.str("title", g.Title)
	w.logical("y2_mirrors_y", g.Y2MirrorsY)
	w.real("x_axis_scale_factor", g.XAxisScaleFactor)
	out = append(out, w.out...)

	if g.CurveLegendOrigin != nil {
		out = append(out, g.CurveLegendOrigin.Commands(region, graph, "curve_legend_origin")...)
	}
	if g.Margin != nil {
		out = append(out, g.Margin.Commands(region, graph, "margin")...)
	}
	if g.ScaleMargin != nil {
		out = append(out, g.ScaleMargin.Commands(region, graph, "scale_margin")...)
	}
	if g.TextLegendOrigin != nil {
		out = append(out, g.TextLegendOrigin.Commands(region, graph, "text_legend_origin")...)
	}
	if g.FloorPlan != nil {
		out = append(out, g.FloorPlan.Commands(region, graph)...)
	}
	if g.X != nil {
		out = append(out, g.X.Commands(region, "x")...)
	}
	if g.X2 != nil {
		out = append(out, g.X2.Commands(region, "x2")...)
	}
	if g.Y != nil {
		out = append(out, g.Y.Commands(region, "y")...)
	}
	if g.Y2 != nil {
		out = append(out, g.Y2.Commands(region, "y2")...)
	}
	return out
}

// CurveSettings configures one curve of a placed graph, addressed by its
// one-based index.
type CurveSettings struct {
	EleRefName       *string
	IxEleRef         *int
	IxBranch         *int
	IxUniverse       *int
	IxBunch          *int
	SymbolEvery      *int
	YAxisScaleFactor *float64
	UseY2            *bool
	DrawLine         *bool
	DrawSymbols      *bool
	DrawSymbolIndex  *bool
	SmoothLineCalc   *bool
}

// Commands serializes the curve settings for curve index of region.graph.
func (c CurveSettings) Commands(region, graph string, index int) []string {
	w := settingWriter{kind: "curve", scope: fmt.Sprintf("%s.%s.c%d", region, graph, index)}
	w.str("ele_ref_name", c.EleRefName)
	w.int("ix_ele_ref", c.IxEleRef)
	w.int("ix_branch", c.IxBranch)
	w.int("ix_universe", c.IxUniverse)
	w.int("ix_bunch", c.IxBunch)
	w.int("symbol_every", c.SymbolEvery)
	w.real("y_axis_scale_factor", c.YAxisScaleFactor)
	w.logical("use_y2", c.UseY2)
	w.logical("draw_line", c.DrawLine)
	w.logical("draw_symbols", c.DrawSymbols)
	w.logical("draw_symbol_index", c.DrawSymbolIndex)
	w.logical("smooth_line_calc", c.SmoothLineCalc)
	return w.out
}

// ApplyCurveSettings sends per-curve settings, keyed by one-based curve
// index, for an already-placed graph.
func (c *Client) ApplyCurveSettings(ctx context.Context, region, graph string, settings map[int]CurveSettings) error {
	for i := 1; i <= maxKey(settings); i++ {
		cs, ok := settings[i]
		if !ok {
			continue
		}
		for _, command := range cs.Commands(region, graph, i) {
			lines, err := c.conn.Cmd(ctx, command)
			if err != nil {
				return err
			}
			if err := checkEngineErrors(lines); err != nil {
				return fmt.Errorf("%q: %w", command, err)
			}
		}
	}
	return nil
}

// ApplyGraphSettings sends graph settings for an already-placed graph.
func (c *Client) ApplyGraphSettings(ctx context.Context, region, graph string, settings GraphSettings) error {
	for _, command := range settings.Commands(region, graph) {
		lines, err := c.conn.Cmd(ctx, command)
		if err != nil {
			return err
		}
		if err := checkEngineErrors(lines); err != nil {
			return fmt.Errorf("%q: %w", command, err)
		}
	}
	return nil
}

// settingWriter accumulates `set <kind> <scope> <prefix><key> = <value>`
// commands for non-nil fields.
type settingWriter struct {
	kind   string // "graph" unless set
	scope  string
	prefix string
	out    []string
}

func (w *settingWriter) add(key, value string) {
	kind := w.kind
	if kind == "" {
		kind = "graph"
	}
	w.out = append(w.out, fmt.Sprintf("set %s %s %s%s = %s", kind, w.scope, w.prefix, key, value))
}

func (w *settingWriter) str(key string, v *string) {
	if v != nil {
		w.add(key, *v)
	}
}

func (w *settingWriter) real(key string, v *float64) {
	if v != nil {
		w.add(key, formatReal(*v))
	}
}

func (w *settingWriter) int(key string, v *int) {
	if v != nil {
		w.add(key, strconv.Itoa(*v))
	}
}

func (w *settingWriter) logical(key string, v *bool) {
	if v == nil {
		return
	}
	if *v {
		w.add(key, "T")
	} else {
		w.add(key, "F")
	}
}

func formatReal(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// maxKey returns the largest key, so indexed settings can be emitted in
// ascending order.
func maxKey[T any](m map[int]T) int {
	max := 0
	for i := range m {
		if i > max {
			max = i
		}
	}
	return max
}
