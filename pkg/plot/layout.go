package plot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/openbeamline/beamplot/pkg/geom"
	"github.com/openbeamline/beamplot/pkg/tao"
)

// Shape is the closed set of drawable element shapes. Engine shape names
// may carry a "prefix:" which is stripped before parsing.
type Shape string

const (
	ShapeBox       Shape = "box"
	ShapeXBox      Shape = "xbox"
	ShapeX         Shape = "x"
	ShapeBowTie    Shape = "bow_tie"
	ShapeRBowTie   Shape = "rbow_tie"
	ShapeDiamond   Shape = "diamond"
	ShapeCircle    Shape = "circle"
	ShapeUTriangle Shape = "u_triangle"
	ShapeDTriangle Shape = "d_triangle"
	ShapeLTriangle Shape = "l_triangle"
	ShapeRTriangle Shape = "r_triangle"
)

var knownShapes = map[Shape]bool{
	ShapeBox: true, ShapeXBox: true, ShapeX: true,
	ShapeBowTie: true, ShapeRBowTie: true, ShapeDiamond: true,
	ShapeCircle:    true,
	ShapeUTriangle: true, ShapeDTriangle: true,
	ShapeLTriangle: true, ShapeRTriangle: true,
}

// ParseShape strips any prefix and validates the shape name.
func ParseShape(name string) (Shape, error) {
	if _, rest, ok := strings.Cut(name, ":"); ok {
		name = rest
	}
	s := Shape(strings.ToLower(strings.TrimSpace(name)))
	if !knownShapes[s] {
		return "", &UnknownShapeError{Shape: name}
	}
	return s, nil
}

// LatticeLayoutElement is one element of the layout strip: its outline as
// patches and polylines, plus its name annotation.
type LatticeLayoutElement struct {
	Info        *tao.LatLayoutInfo
	Patches     []Patch
	Lines       [][]geom.Point
	Annotations []*Annotation
	Color       Color
	Width       float64
}

// Draw emits the element outline and label.
func (e *LatticeLayoutElement) Draw(s Surface) {
	for _, pts := range e.Lines {
		s.Line(&CurveLine{Points: pts, Color: e.Color, Width: e.Width, Pattern: Solid})
	}
	for _, p := range e.Patches {
		s.Patch(p)
	}
	for _, a := range e.Annotations {
		s.Annotate(a)
	}
}

// regularShape builds the outline for an element lying inside the lattice,
// s1 < s2. Shapes straddle y = 0; the label hangs below the deepest shape
// at y2Floor, rotated vertical.
func regularShape(s1, s2, y1, y2, width float64, color Color, shape Shape, name string, y2Floor float64) ([]Patch, [][]geom.Point, []*Annotation) {
	var (
		patches     []Patch
		lines       [][]geom.Point
		annotations []*Annotation
	)
	if name != "" {
		annotations = append(annotations, &Annotation{
			X:        (s1 + s2) / 2,
			Y:        1.1 * y2Floor,
			Text:     name,
			HAlign:   AlignCenter,
			VAlign:   AlignTop,
			Color:    color,
			Rotation: 90,
		})
	}

	style := PatchStyle{Color: color, LineWidth: width, Fill: false}
	box := &PatchRect{
		XY:         geom.Point{X: s1, Y: y1},
		Width:      s2 - s1,
		Height:     y2 - y1,
		PatchStyle: style,
	}
	sMid := (s1 + s2) / 2
	yMid := (y1 + y2) / 2

	switch shape {
	case ShapeBox:
		patches = []Patch{box}
	case ShapeXBox:
		patches = []Patch{box}
		lines = [][]geom.Point{
			{{X: s1, Y: y1}, {X: s2, Y: y2}},
			{{X: s1, Y: y2}, {X: s2, Y: y1}},
		}
	case ShapeX:
		lines = [][]geom.Point{
			{{X: s1, Y: y1}, {X: s2, Y: y2}},
			{{X: s1, Y: y2}, {X: s2, Y: y1}},
		}
	case ShapeBowTie:
		lines = [][]geom.Point{{
			{X: s1, Y: y1}, {X: s2, Y: y2}, {X: s2, Y: y1}, {X: s1, Y: y2}, {X: s1, Y: y1},
		}}
	case ShapeRBowTie:
		lines = [][]geom.Point{{
			{X: s1, Y: y1}, {X: s2, Y: y2}, {X: s1, Y: y2}, {X: s2, Y: y1}, {X: s1, Y: y1},
		}}
	case ShapeDiamond:
		lines = [][]geom.Point{{
			{X: s1, Y: 0}, {X: sMid, Y: y1}, {X: s2, Y: 0}, {X: sMid, Y: y2}, {X: s1, Y: 0},
		}}
	case ShapeCircle:
		patches = []Patch{&PatchEllipse{
			Center:     geom.Point{X: sMid, Y: 0},
			Width:      y1 - y2,
			Height:     y1 - y2,
			PatchStyle: style,
		}}
	case ShapeUTriangle:
		patches = []Patch{trianglePatch(style, geom.Point{X: s1, Y: y2}, geom.Point{X: s2, Y: y2}, geom.Point{X: sMid, Y: y1})}
	case ShapeDTriangle:
		patches = []Patch{trianglePatch(style, geom.Point{X: s1, Y: y1}, geom.Point{X: s2, Y: y1}, geom.Point{X: sMid, Y: y2})}
	case ShapeLTriangle:
		patches = []Patch{trianglePatch(style, geom.Point{X: s1, Y: yMid}, geom.Point{X: s2, Y: y2}, geom.Point{X: s2, Y: y1})}
	case ShapeRTriangle:
		patches = []Patch{trianglePatch(style, geom.Point{X: s1, Y: y1}, geom.Point{X: s1, Y: y2}, geom.Point{X: s2, Y: yMid})}
	}

	return patches, lines, annotations
}

func trianglePatch(style PatchStyle, pts ...geom.Point) Patch {
	return &PatchPolygon{Points: pts, PatchStyle: style}
}

// wrappedShape builds the outline for an element wrapped around the
// lattice ends, s1 >= s2: the body is drawn in two halves at both ends of
// the visible range, with a label at each half.
func wrappedShape(s1, s2, y1, y2 float64, color Color, shape Shape, name string, xMin, xMax, y2Floor float64) ([][]geom.Point, []*Annotation, error) {
	sMin := max(xMin, s1+(s1+s2)/2)
	sMax := min(xMax, s1-(s1+s2)/2)

	lines, err := wrappedShapeLines(shape, s1, s2, y1, y2, sMin, sMax)
	if err != nil {
		return nil, nil, err
	}

	annotations := []*Annotation{
		{
			X: sMax, Y: 1.1 * y2Floor,
			Text:   name,
			HAlign: AlignRight, VAlign: AlignTop,
			Color: color,
			Clip:  true,
		},
		{
			X: sMin, Y: 1.1 * y2Floor,
			Text:   name,
			HAlign: AlignLeft, VAlign: AlignTop,
			Color: color,
			Clip:  true,
		},
	}
	return lines, annotations, nil
}

func wrappedShapeLines(shape Shape, s1, s2, y1, y2, sMin, sMax float64) ([][]geom.Point, error) {
	seg := func(x0, y0, x1, y1 float64) []geom.Point {
		return []geom.Point{{X: x0, Y: y0}, {X: x1, Y: y1}}
	}
	switch shape {
	case ShapeBox:
		return [][]geom.Point{
			seg(s1, y1, sMax, y1),
			seg(s1, y2, sMax, y2),
			seg(sMin, y1, s2, y1),
			seg(sMin, y2, s2, y2),
			seg(s1, y1, s1, y2),
			seg(s2, y1, s2, y2),
		}, nil
	case ShapeXBox:
		return [][]geom.Point{
			seg(s1, y1, sMax, y1),
			seg(s1, y2, sMax, y2),
			seg(s1, y1, sMax, 0),
			seg(s1, y2, sMax, 0),
			seg(sMin, y1, s2, y1),
			seg(sMin, y2, s2, y2),
			seg(sMin, 0, s2, y1),
			seg(sMin, 0, s2, y2),
			seg(s1, y1, s1, y2),
			seg(s2, y1, s2, y2),
		}, nil
	case ShapeX:
		return [][]geom.Point{
			seg(s1, y1, sMax, 0),
			seg(s1, y2, sMax, 0),
			seg(sMin, 0, s2, y1),
			seg(sMin, 0, s2, y2),
		}, nil
	case ShapeBowTie:
		return [][]geom.Point{
			seg(s1, y1, sMax, y1),
			seg(s1, y2, sMax, y2),
			seg(s1, y1, sMax, 0),
			seg(s1, y2, sMax, 0),
			seg(sMin, y1, s2, y1),
			seg(sMin, y2, s2, y2),
			seg(sMin, 0, s2, y1),
			seg(sMin, 0, s2, y2),
		}, nil
	case ShapeDiamond:
		return [][]geom.Point{
			seg(s1, 0, sMax, y1),
			seg(s1, 0, sMax, y2),
			seg(sMin, y1, s2, 0),
			seg(sMin, y2, s2, 0),
		}, nil
	}
	return nil, &UnknownShapeError{Shape: string(shape)}
}

// newLatticeLayoutElement scales and orients one element row. The reported
// y2 is measured downward; it is negated here so shapes straddle zero.
func newLatticeLayoutElement(graphInfo *tao.GraphInfo, info *tao.LatLayoutInfo, y2Floor float64, page *tao.PlotPage) (*LatticeLayoutElement, error) {
	s1 := info.SStart
	s2 := info.SEnd
	y1 := info.Y1 * page.LatLayoutShapeScale
	y2 := -info.Y2 * page.LatLayoutShapeScale
	color := NormalizeColor(info.Color)
	name := EscapeLabel(info.LabelName)

	shape, err := ParseShape(info.Shape)
	if err != nil {
		return nil, err
	}

	el := &LatticeLayoutElement{
		Info:  info,
		Color: color,
		Width: info.LineWidth,
	}
	if s2 > s1 {
		patches, lines, annotations := regularShape(s1, s2, y1, y2, info.LineWidth, color, shape, name, y2Floor)
		el.Patches = patches
		el.Lines = lines
		el.Annotations = annotations
	} else {
		lines, annotations, err := wrappedShape(s1, s2, y1, y2, color, shape, name, graphInfo.XMin, graphInfo.XMax, y2Floor)
		if err != nil {
			return nil, err
		}
		el.Lines = lines
		el.Annotations = annotations
	}
	return el, nil
}

// LatticeLayoutGraph is the lattice strip graph drawn under data graphs.
type LatticeLayoutGraph struct {
	frame    Frame
	Info     *tao.GraphInfo
	Elements []*LatticeLayoutElement

	Universe   int
	Branch     int
	Y2Floor    float64
	BorderXLim [2]float64
}

func (g *LatticeLayoutGraph) Kind() GraphKind { return KindLatticeLayout }
func (g *LatticeLayoutGraph) Frame() *Frame   { return &g.frame }

// Draw emits the zero axis line and every element.
func (g *LatticeLayoutGraph) Draw(s Surface) {
	lo, hi := g.frame.XLim[0], g.frame.XLim[1]
	s.Line(&CurveLine{
		Points:  []geom.Point{{X: lo, Y: 0}, {X: hi, Y: 0}},
		Color:   Black,
		Width:   1,
		Pattern: Solid,
	})
	for _, el := range g.Elements {
		el.Draw(s)
	}
}

// YMax is the largest shape offset, for sizing the strip.
func (g *LatticeLayoutGraph) YMax() float64 {
	m := 0.0
	for _, el := range g.Elements {
		if el.Info.Y1 > m {
			m = el.Info.Y1
		}
		if el.Info.Y2 > m {
			m = el.Info.Y2
		}
	}
	return m
}

// NewLatticeLayoutGraph fetches and assembles the layout strip for the
// given region and graph (conventionally "lat_layout.g").
func NewLatticeLayoutGraph(ctx context.Context, client Client, regionName, graphName string, info *tao.GraphInfo, page *tao.PlotPage) (*LatticeLayoutGraph, error) {
	fullName := regionName + "." + graphName
	if info == nil {
		var err error
		info, err = client.PlotGraph(ctx, fullName)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrNoLayout, fullName)
		}
	}
	if info.Type != "lat_layout" {
		return nil, &UnsupportedGraphError{Name: fullName, Type: info.Type}
	}
	if page == nil {
		var err error
		page, err = client.PlotPage(ctx)
		if err != nil {
			return nil, err
		}
	}
	regionInfo, err := client.PlotRegion(ctx, regionName)
	if err != nil {
		return nil, err
	}

	universe := info.IxUniverse
	if universe == -1 {
		universe = 1
	}
	branch := info.IxBranch
	elems, err := client.LatLayout(ctx, universe, branch)
	if err != nil && branch == -1 {
		// Branch -1 is not resolvable for some lattices; branch 0 is.
		elems, err = client.LatLayout(ctx, universe, 0)
	}
	if err != nil {
		return nil, err
	}
	if len(elems) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoLayout, fullName)
	}

	maxY2 := elems[0].Y2
	for _, el := range elems[1:] {
		if el.Y2 > maxY2 {
			maxY2 = el.Y2
		}
	}
	y2Floor := -maxY2

	g := &LatticeLayoutGraph{
		frame: Frame{
			RegionName: regionName,
			GraphName:  graphName,
			XLim:       [2]float64{info.XMin, info.XMax},
			YLim:       [2]float64{info.YMin, info.YMax},
			XAxisType:  regionInfo.XAxisType,
		},
		Info:       info,
		Universe:   universe,
		Branch:     branch,
		Y2Floor:    y2Floor,
		BorderXLim: [2]float64{1.1 * info.XMin, 1.1 * info.XMax},
	}
	for _, elemInfo := range elems {
		el, err := newLatticeLayoutElement(info, elemInfo, y2Floor, page)
		if err != nil {
			var unknown *UnknownShapeError
			if errors.As(err, &unknown) {
				log.Printf("plot: layout element %s: %v", elemInfo.LabelName, err)
				continue
			}
			return nil, err
		}
		g.Elements = append(g.Elements, el)
	}
	return g, nil
}
