package plot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/openbeamline/beamplot/pkg/geom"
	"github.com/openbeamline/beamplot/pkg/tao"
)

// FloorPlanElement is one machine element in floor coordinates: its outline
// as lines and patches, plus its name annotation.
type FloorPlanElement struct {
	BranchIndex int
	Index       int
	Info        *tao.FloorPlanElementInfo

	Lines       []*CurveLine
	Patches     []Patch
	Annotations []*Annotation
}

// Name is the element's label.
func (e *FloorPlanElement) Name() string { return e.Info.LabelName }

// Draw emits the element outline and label.
func (e *FloorPlanElement) Draw(s Surface) {
	for _, l := range e.Lines {
		s.Line(l)
	}
	for _, p := range e.Patches {
		s.Patch(p)
	}
	for _, a := range e.Annotations {
		s.Annotate(a)
	}
}

// pointsPerMeter converts the engine's point-based shape offsets when the
// page does not define an explicit scale.
const pointsPerMeter = 72.0

// floorPlanScale resolves the shape offset scale. Offsets are reported in
// printer points unless the page carries a real shape scale.
func floorPlanScale(graphInfo *tao.GraphInfo, page *tao.PlotPage) float64 {
	if graphInfo.FloorPlanSizeIsAbsolute || page.FloorPlanShapeScale == 1.0 {
		return 1 / pointsPerMeter
	}
	return 1.0
}

// newFloorPlanElement builds one element's outline. Elements run from
// (x1,y1) at entry angle angleStart to (x2,y2) at exit angle angleEnd, with
// transverse offsets off1 above and off2 below the centerline.
func newFloorPlanElement(info *tao.FloorPlanElementInfo, graphInfo *tao.GraphInfo, page *tao.PlotPage) (*FloorPlanElement, error) {
	scale := floorPlanScale(graphInfo, page)
	var (
		x1, y1     = info.End1R1, info.End1R2
		x2, y2     = info.End2R1, info.End2R2
		angleStart = info.End1Theta
		angleEnd   = info.End2Theta
		off1       = info.Y1 * scale
		off2       = info.Y2 * scale
		width      = info.LineWidth
		color      = NormalizeColor(info.Color)
		isBend     = info.EleKey == "sbend"
	)

	el := &FloorPlanElement{
		BranchIndex: info.BranchIndex,
		Index:       info.Index,
		Info:        info,
	}

	if info.EleKey == "drift" || info.EleKey == "kicker" {
		// Drifts and kickers always show their centerline.
		el.Lines = append(el.Lines, &CurveLine{
			Points: []geom.Point{{X: x1, Y: y1}, {X: x2, Y: y2}},
			Color:  Black,
			Width:  1,
		})
	}

	shape, shapeErr := ParseShape(info.Shape)

	switch {
	case off1 == 0 && off2 == 0 && !isBend && color.Drawable():
		el.Lines = append(el.Lines, &CurveLine{
			Points: []geom.Point{{X: x1, Y: y1}, {X: x2, Y: y2}},
			Color:  color,
			Width:  width,
		})

	case shapeErr == nil && shape == ShapeBox && !isBend && color.Drawable():
		el.Patches = append(el.Patches, floorBox(x1, x2, y1, y2, off1, off2, width, color, angleStart))

	case shapeErr == nil && shape == ShapeXBox && !isBend && color.Drawable():
		el.Lines = append(el.Lines, floorXBox(x1, x2, y1, y2, off1, off2, width, color, angleStart))

	case shapeErr == nil && shape == ShapeX && !isBend && color.Drawable():
		el.Lines = append(el.Lines, floorXLines(x1, x2, y1, y2, off1, off2, width, color, angleStart)...)

	case shapeErr == nil && shape == ShapeBowTie && !isBend && color.Drawable():
		el.Lines = append(el.Lines, floorBowTie(x1, x2, y1, y2, off1, off2, width, color, angleStart))

	case shapeErr == nil && shape == ShapeDiamond && !isBend && color.Drawable():
		el.Lines = append(el.Lines, floorDiamond(x1, x2, y1, y2, off1, off2, width, color, angleStart))

	case shapeErr == nil && shape == ShapeCircle && !isBend && color.Drawable():
		el.Patches = append(el.Patches, &PatchCircle{
			Center:     geom.Point{X: x1 + (x2-x1)/2, Y: y1 + (y2-y1)/2},
			Radius:     off1,
			PatchStyle: PatchStyle{Color: color, LineWidth: width, Fill: false},
		})

	case shapeErr == nil && shape == ShapeBox && isBend && color.Drawable():
		el.Lines = append(el.Lines, sbendFaces(
			x1, x2, y1, y2, off1, off2, width, color,
			angleStart, angleEnd, info.RelAngleStart, info.RelAngleEnd)...)
		lines, patches := sbendBody(
			x1, x2, y1, y2, off1, off2, width, color,
			angleStart, angleEnd, info.RelAngleStart, info.RelAngleEnd)
		el.Lines = append(el.Lines, lines...)
		el.Patches = append(el.Patches, patches...)

	case info.Shape != "":
		if shapeErr != nil {
			return nil, shapeErr
		}
		// A known shape that no branch accepted, e.g. an undrawable
		// color or a bend with a non-box shape.
		return nil, fmt.Errorf("plot: unhandled shape %q on element %s", info.Shape, info.LabelName)
	}

	if info.LabelName != "" && color.Drawable() {
		midAngle := (angleEnd + angleStart) / 2
		rotation := midAngle * 180 / math.Pi
		align := AlignLeft
		if math.Sin(midAngle) > 0 {
			rotation -= 90
			align = AlignRight
		} else {
			rotation += 90
		}
		el.Annotations = append(el.Annotations, &Annotation{
			X:        x1 + (x2-x1)/2 - 1.3*off1*math.Sin(angleStart),
			Y:        y1 + (y2-y1)/2 + 1.3*off1*math.Cos(angleStart),
			Text:     EscapeLabel(info.LabelName),
			HAlign:   align,
			VAlign:   AlignCenter,
			Color:    Black,
			Rotation: rotation,
			Clip:     true,
		})
	}

	return el, nil
}

// floorBox is a rectangle along the element axis, anchored at the entry end
// offset below the centerline and rotated by the entry angle.
func floorBox(x1, x2, y1, y2, off1, off2, width float64, color Color, angleStart float64) Patch {
	return &PatchRect{
		XY:         geom.Point{X: x1 + off2*math.Sin(angleStart), Y: y1 - off2*math.Cos(angleStart)},
		Width:      math.Hypot(x2-x1, y2-y1),
		Height:     off1 + off2,
		Angle:      angleStart * 180 / math.Pi,
		PatchStyle: PatchStyle{Color: color, LineWidth: width, Fill: false},
	}
}

func floorXLines(x1, x2, y1, y2, off1, off2, width float64, color Color, angle float64) []*CurveLine {
	sin, cos := math.Sin(angle), math.Cos(angle)
	return []*CurveLine{
		{
			Points: []geom.Point{
				{X: x1 + off2*sin, Y: y1 - off2*cos},
				{X: x2 - off1*sin, Y: y2 + off1*cos},
			},
			Color: color, Width: width,
		},
		{
			Points: []geom.Point{
				{X: x1 - off1*sin, Y: y1 + off1*cos},
				{X: x2 + off2*sin, Y: y2 - off2*cos},
			},
			Color: color, Width: width,
		},
	}
}

func floorXBox(x1, x2, y1, y2, off1, off2, width float64, color Color, angle float64) *CurveLine {
	sin, cos := math.Sin(angle), math.Cos(angle)
	p0 := geom.Point{X: x1 + off2*sin, Y: y1 - off2*cos}
	p1 := geom.Point{X: x2 - off1*sin, Y: y2 + off1*cos}
	p2 := geom.Point{X: x1 - off1*sin, Y: y1 + off1*cos}
	p3 := geom.Point{X: x2 + off2*sin, Y: y2 - off2*cos}
	return &CurveLine{
		Points: []geom.Point{p0, p1, p2, p3, p0, p2, p3, p1},
		Color:  color,
		Width:  width,
	}
}

func floorBowTie(x1, x2, y1, y2, off1, off2, width float64, color Color, angle float64) *CurveLine {
	sin, cos := math.Sin(angle), math.Cos(angle)
	a := geom.Point{X: x1 + off2*sin, Y: y1 - off2*cos}
	b := geom.Point{X: x2 - off1*sin, Y: y2 + off1*cos}
	c := geom.Point{X: x1 - off1*sin, Y: y1 + off1*cos}
	d := geom.Point{X: x2 + off2*sin, Y: y2 - off2*cos}
	return &CurveLine{
		Points: []geom.Point{a, b, c, d, a},
		Color:  color,
		Width:  width,
	}
}

func floorDiamond(x1, x2, y1, y2, off1, off2, width float64, color Color, angle float64) *CurveLine {
	sin, cos := math.Sin(angle), math.Cos(angle)
	mx, my := x1+(x2-x1)/2, y1+(y2-y1)/2
	top := geom.Point{X: mx - off1*sin, Y: my + off1*cos}
	bottom := geom.Point{X: mx + off2*sin, Y: my - off2*cos}
	return &CurveLine{
		Points: []geom.Point{{X: x1, Y: y1}, top, {X: x2, Y: y2}, bottom, {X: x1, Y: y1}},
		Color:  color,
		Width:  width,
	}
}

// sbendFaces draws the two straight end faces of a bend, tilted by the
// pole-face rotation angles.
func sbendFaces(x1, x2, y1, y2, off1, off2, width float64, color Color, angleStart, angleEnd, relStart, relEnd float64) []*CurveLine {
	sinStart, cosStart := math.Sin(angleStart-relStart), math.Cos(angleStart-relStart)
	sinEnd, cosEnd := math.Sin(angleEnd+relEnd), math.Cos(angleEnd+relEnd)
	return []*CurveLine{
		{
			Points: []geom.Point{
				{X: x1 - off1*sinStart, Y: y1 + off1*cosStart},
				{X: x1 + off2*sinStart, Y: y1 - off2*cosStart},
			},
			Color: color, Width: width,
		},
		{
			Points: []geom.Point{
				{X: x2 - off1*sinEnd, Y: y2 + off1*cosEnd},
				{X: x2 + off2*sinEnd, Y: y2 - off2*cosEnd},
			},
			Color: color, Width: width,
		},
	}
}

// sbendBody draws the curved boundaries of a bend. The arc center is the
// intersection of the entry and exit face lines; a straight-sided body is
// drawn when the faces are parallel (a zero-angle bend).
func sbendBody(x1, x2, y1, y2, off1, off2, width float64, color Color, angleStart, angleEnd, relStart, relEnd float64) ([]*CurveLine, []Patch) {
	sinStart, cosStart := math.Sin(angleStart), math.Cos(angleStart)
	sinEnd, cosEnd := math.Sin(angleEnd), math.Cos(angleEnd)

	line1 := geom.LineThrough(
		geom.Point{X: x1 - off1*sinStart, Y: y1 + off1*cosStart},
		geom.Point{X: x1 + off2*sinStart, Y: y1 - off2*cosStart},
	)
	line2 := geom.LineThrough(
		geom.Point{X: x2 - off1*sinEnd, Y: y2 + off1*cosEnd},
		geom.Point{X: x2 + off2*math.Sin(angleEnd+relEnd), Y: y2 - off2*math.Cos(angleEnd+relEnd)},
	)

	relSinStart, relCosStart := math.Sin(angleStart-relStart), math.Cos(angleStart-relStart)
	relSinEnd, relCosEnd := math.Sin(angleEnd+relEnd), math.Cos(angleEnd+relEnd)

	center, err := geom.Intersect(line1, line2)
	if errors.Is(err, geom.ErrNoIntersection) {
		// Parallel faces: the bend is straight, so the boundaries are too.
		return []*CurveLine{
			{
				Points: []geom.Point{
					{X: x1 - off1*relSinStart, Y: y1 + off1*relCosStart},
					{X: x2 - off1*relSinEnd, Y: y2 + off1*relCosEnd},
				},
				Color: color, Width: width,
			},
			{
				Points: []geom.Point{
					{X: x1 + off2*relSinStart, Y: y1 - off2*relCosStart},
					{X: x2 + off2*relSinEnd, Y: y2 - off2*relCosEnd},
				},
				Color: color, Width: width,
			},
		}, nil
	}

	// Outer boundary corners (offset off1) and inner corners (offset off2).
	c1 := geom.Point{X: x1 - off1*relSinStart, Y: y1 + off1*relCosStart}
	c2 := geom.Point{X: x2 - off1*relSinEnd, Y: y2 + off1*relCosEnd}
	c3 := geom.Point{X: x1 + off2*relSinStart, Y: y1 - off2*relCosStart}
	c4 := geom.Point{X: x2 + off2*relSinEnd, Y: y2 - off2*relCosEnd}

	angle1 := 360 + degreesAtan2(c1.Y-center.Y, c1.X-center.X)
	angle2 := 360 + degreesAtan2(c2.Y-center.Y, c2.X-center.X)
	angle3 := 360 + degreesAtan2(c3.Y-center.Y, c3.X-center.X)
	angle4 := 360 + degreesAtan2(c4.Y-center.Y, c4.X-center.X)

	a1, a2 := arcSpan(angle1, angle2)
	a3, a4 := arcSpan(angle3, angle4)

	outerRadius := center.Dist(c1)
	innerRadius := center.Dist(c3)
	style := PatchStyle{Color: color, LineWidth: width, Fill: false}
	patches := []Patch{
		&PatchArc{
			Center: center,
			Width:  2 * outerRadius, Height: 2 * outerRadius,
			Theta1: a1, Theta2: a2,
			PatchStyle: style,
		},
		&PatchArc{
			Center: center,
			Width:  2 * innerRadius, Height: 2 * innerRadius,
			Theta1: a3, Theta2: a4,
			PatchStyle: style,
		},
		sbendFill(center, c1, c2, c3, c4, outerRadius, innerRadius, angleStart, angleEnd),
	}
	return nil, patches
}

// arcSpan orders two absolute angles so the drawn arc takes the short way
// around.
func arcSpan(a, b float64) (float64, float64) {
	if math.Abs(a-b) < 180 {
		return math.Min(a, b), math.Max(a, b)
	}
	return math.Max(a, b), math.Min(a, b)
}

// sbendFill builds the filled body between the two arc boundaries as a pair
// of quadratic splines through the arc midpoints.
func sbendFill(center, c1, c2, c3, c4 geom.Point, outerRadius, innerRadius, angleStart, angleEnd float64) Patch {
	if angleStart <= angleEnd {
		outerRadius = -outerRadius
		innerRadius = -innerRadius
	}
	midAngle := (angleStart + angleEnd) / 2
	top := geom.Point{
		X: center.X - outerRadius*math.Sin(midAngle),
		Y: center.Y + outerRadius*math.Cos(midAngle),
	}
	bottom := geom.Point{
		X: center.X - innerRadius*math.Sin(midAngle),
		Y: center.Y + innerRadius*math.Cos(midAngle),
	}

	// Control point of the quadratic through two corners and the arc
	// midpoint.
	control := func(mid, a, b geom.Point) geom.Point {
		return geom.Point{
			X: 2*mid.X - 0.5*a.X - 0.5*b.X,
			Y: 2*mid.Y - 0.5*a.Y - 0.5*b.Y,
		}
	}
	return &PatchSbend{
		Spline1:    [3]geom.Point{c1, control(top, c1, c2), c2},
		Spline2:    [3]geom.Point{c4, control(bottom, c3, c4), c3},
		PatchStyle: PatchStyle{FillColor: Green, Fill: true, Alpha: 0.5},
	}
}

func degreesAtan2(y, x float64) float64 {
	return math.Atan2(y, x) * 180 / math.Pi
}

// FloorOrbits is the orbit trace drawn over a floor plan.
type FloorOrbits struct {
	Info  []*tao.FloorOrbitInfo
	Curve *CurveSymbols
}

// Draw emits the orbit symbols.
func (f *FloorOrbits) Draw(s Surface) { s.Symbols(f.Curve) }

// NewFloorOrbits fetches the orbit samples for a floor-plan graph.
func NewFloorOrbits(ctx context.Context, client Client, graphFullName string, color Color) (*FloorOrbits, error) {
	infos, err := client.FloorOrbit(ctx, graphFullName)
	if err != nil {
		return nil, err
	}
	var xs, ys []float64
	for _, info := range infos {
		switch info.EleKey {
		case "x":
			xs = append(xs, info.Orbits...)
		case "y":
			ys = append(ys, info.Orbits...)
		}
	}
	n := min(len(xs), len(ys))
	pts := make([]geom.Point, n)
	for i := range pts {
		pts[i] = geom.Point{X: xs[i], Y: ys[i]}
	}
	return &FloorOrbits{
		Info: infos,
		Curve: &CurveSymbols{
			Points:    pts,
			Color:     color,
			FillColor: color,
			Marker:    MarkerCircle,
			Size:      1,
			EdgeWidth: 1,
		},
	}, nil
}

// FloorPlanGraph is the machine seen from above: elements in floor
// coordinates, building walls, and optionally the orbit trace.
type FloorPlanGraph struct {
	frame    Frame
	Info     *tao.GraphInfo
	Elements []*FloorPlanElement
	Walls    *BuildingWalls
	Orbits   *FloorOrbits
}

func (g *FloorPlanGraph) Kind() GraphKind { return KindFloorPlan }
func (g *FloorPlanGraph) Frame() *Frame   { return &g.frame }

// Draw emits elements, then walls, then orbits.
func (g *FloorPlanGraph) Draw(s Surface) {
	for _, el := range g.Elements {
		el.Draw(s)
	}
	if g.Walls != nil {
		g.Walls.Draw(s)
	}
	if g.Orbits != nil {
		g.Orbits.Draw(s)
	}
}

// NewFloorPlanGraph fetches and assembles a floor plan graph.
func NewFloorPlanGraph(ctx context.Context, client Client, regionName, graphName string, info *tao.GraphInfo, page *tao.PlotPage) (*FloorPlanGraph, error) {
	fullName := regionName + "." + graphName
	if info == nil {
		var err error
		info, err = client.PlotGraph(ctx, fullName)
		if err != nil {
			return nil, err
		}
	}
	if info.Type != "floor_plan" {
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

	g := &FloorPlanGraph{
		frame: Frame{
			RegionName: regionName,
			GraphName:  graphName,
			Title:      strings.TrimSpace(info.Title + " " + info.TitleSuffix),
			XLabel:     info.XLabel,
			YLabel:     info.YLabel,
			XLim:       [2]float64{info.XMin, info.XMax},
			YLim:       [2]float64{info.YMin, info.YMax},
			DrawGrid:   info.DrawGrid,
			DrawLegend: info.DrawCurveLegend,
			XAxisType:  regionInfo.XAxisType,
		},
		Info: info,
	}

	elemInfos, err := client.FloorPlan(ctx, fullName)
	if err != nil {
		return nil, err
	}
	for _, elemInfo := range elemInfos {
		el, err := newFloorPlanElement(elemInfo, info, page)
		if err != nil {
			var unknown *UnknownShapeError
			if errors.As(err, &unknown) {
				log.Printf("plot: floor plan element %s: %v", elemInfo.LabelName, err)
				continue
			}
			return nil, err
		}
		g.Elements = append(g.Elements, el)
	}

	wallPoints, err := client.BuildingWallGraph(ctx, fullName)
	if err != nil {
		return nil, err
	}
	wallList, err := client.BuildingWallList(ctx)
	if err != nil {
		return nil, err
	}
	g.Walls = NewBuildingWalls(wallPoints, wallList)

	if info.FloorPlanOrbitScale != 0 {
		g.Orbits, err = NewFloorOrbits(ctx, client, fullName, NormalizeColor(info.FloorPlanOrbitColor))
		if err != nil {
			return nil, err
		}
	}
	return g, nil
}
