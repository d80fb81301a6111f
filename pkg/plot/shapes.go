package plot

import "github.com/openbeamline/beamplot/pkg/geom"

// Surface receives drawing primitives in data coordinates. Implementations
// decide how to rasterize them; see pkg/render for the Gio surface.
type Surface interface {
	Line(l *CurveLine)
	Symbols(s *CurveSymbols)
	Histogram(h *Histogram)
	Patch(p Patch)
	Annotate(a *Annotation)
}

// LinePattern is the dash pattern of a stroked line.
type LinePattern string

const (
	Solid   LinePattern = "solid"
	Dashed  LinePattern = "dashed"
	DashDot LinePattern = "dashdot"
	Dotted  LinePattern = "dotted"
)

// CurveLine is a stroked polyline.
type CurveLine struct {
	Points  []geom.Point
	Color   Color
	Width   float64
	Pattern LinePattern
}

// CurveSymbols stamps a marker at each point.
type CurveSymbols struct {
	Points    []geom.Point
	Color     Color  // marker edge color
	FillColor Color  // marker face color, NoColor for hollow markers
	Marker    Marker
	Size      float64
	EdgeWidth float64
}

// Histogram is a step-outline histogram: Xs are sample positions binned
// into Bins equal-width bins over their range, each sample weighted by the
// matching entry of Weights.
type Histogram struct {
	Xs      []float64
	Weights []float64
	Bins    int
	Color   Color
}

// PatchStyle is shared outline/fill styling for patches.
type PatchStyle struct {
	Color     Color // outline color
	FillColor Color // fill color when filled
	LineWidth float64
	Fill      bool
	Alpha     float64 // 0 means opaque
	Hatch     string  // fill hatch pattern, empty for solid
}

// Patch is a closed outline primitive. Surfaces type-switch on the concrete
// patch types.
type Patch interface {
	Style() PatchStyle
	isPatch()
}

// PatchRect is an axis-aligned or rotated rectangle anchored at XY (its
// lower-left corner before rotation). Angle is in degrees, rotating about
// the anchor.
type PatchRect struct {
	XY     geom.Point
	Width  float64
	Height float64
	Angle  float64
	PatchStyle
}

// PatchCircle is a circle outline or disc.
type PatchCircle struct {
	Center geom.Point
	Radius float64
	PatchStyle
}

// PatchEllipse is an ellipse with the given full width and height.
type PatchEllipse struct {
	Center geom.Point
	Width  float64
	Height float64
	Angle  float64
	PatchStyle
}

// PatchArc is an elliptical arc from Theta1 to Theta2, in degrees measured
// counter-clockwise from the positive x axis.
type PatchArc struct {
	Center geom.Point
	Width  float64
	Height float64
	Theta1 float64
	Theta2 float64
	PatchStyle
}

// PatchPolygon is a closed polygon.
type PatchPolygon struct {
	Points []geom.Point
	PatchStyle
}

// PatchSbend is a bend body bounded by two quadratic Bezier splines, each
// given as start, control and end points. The region between the splines is
// filled.
type PatchSbend struct {
	Spline1 [3]geom.Point
	Spline2 [3]geom.Point
	PatchStyle
}

func (p *PatchRect) Style() PatchStyle    { return p.PatchStyle }
func (p *PatchCircle) Style() PatchStyle  { return p.PatchStyle }
func (p *PatchEllipse) Style() PatchStyle { return p.PatchStyle }
func (p *PatchArc) Style() PatchStyle     { return p.PatchStyle }
func (p *PatchPolygon) Style() PatchStyle { return p.PatchStyle }
func (p *PatchSbend) Style() PatchStyle   { return p.PatchStyle }

func (*PatchRect) isPatch()    {}
func (*PatchCircle) isPatch()  {}
func (*PatchEllipse) isPatch() {}
func (*PatchArc) isPatch()     {}
func (*PatchPolygon) isPatch() {}
func (*PatchSbend) isPatch()   {}

// Alignment of annotation text relative to its anchor point.
type Alignment string

const (
	AlignLeft     Alignment = "left"
	AlignCenter   Alignment = "center"
	AlignRight    Alignment = "right"
	AlignBaseline Alignment = "baseline"
	AlignTop      Alignment = "top"
	AlignBottom   Alignment = "bottom"
)

// Annotation is a text label anchored in data coordinates. Rotation is in
// degrees counter-clockwise.
type Annotation struct {
	X        float64
	Y        float64
	Text     string
	HAlign   Alignment
	VAlign   Alignment
	Color    Color
	Rotation float64
	Clip     bool
}
