package render

import (
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/font"
	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"

	"github.com/openbeamline/beamplot/pkg/geom"
	"github.com/openbeamline/beamplot/pkg/plot"
)

// Surface rasterizes plot primitives onto Gio ops through a camera. It
// implements plot.Surface.
type Surface struct {
	gtx    layout.Context
	camera *Camera
	shaper *text.Shaper
}

// NewSurface creates a surface drawing into gtx through camera.
func NewSurface(gtx layout.Context, camera *Camera, shaper *text.Shaper) *Surface {
	if shaper == nil {
		shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
	}
	return &Surface{gtx: gtx, camera: camera, shaper: shaper}
}

// Line strokes a polyline with its dash pattern.
func (s *Surface) Line(l *plot.CurveLine) {
	if len(l.Points) < 2 || !l.Color.Drawable() || l.Width <= 0 {
		return
	}
	screen := make([]geom.Point, len(l.Points))
	for i, pt := range l.Points {
		x, y := s.camera.DataToScreen(pt)
		screen[i] = geom.Point{X: x, Y: y}
	}

	width := l.Width
	if width < 1.0 {
		width = 1.0
	}
	lineColor := GetPlotColor(l.Color)
	for _, seg := range dashSegments(screen, dashPatterns[l.Pattern]) {
		strokePolyline(s.gtx, seg, width, lineColor, false)
	}
}

// Symbols stamps the marker glyph at every point.
func (s *Surface) Symbols(sym *plot.CurveSymbols) {
	if sym.Marker == plot.MarkerNone || sym.Size <= 0 || !sym.Color.Drawable() {
		return
	}
	size := sym.Size * 2.0 // symbol height is in points, halved upstream
	if size < 2.0 {
		size = 2.0
	}
	edgeWidth := sym.EdgeWidth
	if edgeWidth < 1.0 {
		edgeWidth = 1.0
	}

	edge := GetPlotColor(sym.Color)
	var face color.NRGBA
	filled := sym.FillColor.Drawable()
	if filled {
		face = GetPlotColor(sym.FillColor)
	}

	for _, pt := range sym.Points {
		x, y := s.camera.DataToScreen(pt)
		s.stampMarker(sym.Marker, x, y, size, edgeWidth, edge, face, filled)
	}
}

// Histogram strokes the step outline of the binned samples.
func (s *Surface) Histogram(h *plot.Histogram) {
	steps := histogramSteps(h.Xs, h.Weights, h.Bins)
	if len(steps) < 2 {
		return
	}
	s.Line(&plot.CurveLine{Points: steps, Color: h.Color, Width: 1, Pattern: plot.Solid})
}

// Patch draws one of the closed outline primitives.
func (s *Surface) Patch(p plot.Patch) {
	switch patch := p.(type) {
	case *plot.PatchRect:
		s.patchRect(patch)
	case *plot.PatchCircle:
		s.patchEllipse(patch.Center, 2*patch.Radius, 2*patch.Radius, patch.PatchStyle)
	case *plot.PatchEllipse:
		s.patchEllipse(patch.Center, patch.Width, patch.Height, patch.PatchStyle)
	case *plot.PatchArc:
		s.patchArc(patch)
	case *plot.PatchPolygon:
		s.patchPolygon(patch.Points, patch.PatchStyle)
	case *plot.PatchSbend:
		s.patchSbend(patch)
	}
}

// Annotate renders a text label, possibly rotated about its anchor.
func (s *Surface) Annotate(a *plot.Annotation) {
	if a.Text == "" || !a.Color.Drawable() {
		return
	}
	x, y := s.camera.DataToScreen(geom.Point{X: a.X, Y: a.Y})

	fontSize := 12.0
	textColor := GetPlotColor(a.Color)

	// Shift the anchor by alignment before rotating.
	offX := alignOffset(a.HAlign, a.Text, fontSize)
	offY := 0.0
	switch a.VAlign {
	case plot.AlignCenter:
		offY = -fontSize / 2
	case plot.AlignTop:
		offY = 0
	default: // bottom
		offY = -fontSize
	}

	macro := op.Record(s.gtx.Ops)
	// Screen Y grows downward, so the rotation sense is negated.
	angleRad := float32(-a.Rotation * math.Pi / 180.0)
	transform := f32.Affine2D{}.
		Offset(f32.Pt(float32(offX), float32(offY))).
		Rotate(f32.Pt(0, 0), angleRad).
		Offset(f32.Pt(float32(x), float32(y)))
	stack := op.Affine(transform).Push(s.gtx.Ops)

	paint.ColorOp{Color: textColor}.Add(s.gtx.Ops)
	label := widget.Label{Alignment: text.Start, MaxLines: 1}
	label.Layout(s.gtx, s.shaper, font.Font{}, unit.Sp(fontSize), a.Text, op.CallOp{})

	stack.Pop()
	call := macro.Stop()
	call.Add(s.gtx.Ops)
}

// alignOffset estimates the horizontal anchor shift for a label. Glyph
// metrics are not available before layout; half the em size per rune is a
// serviceable estimate at these font sizes.
func alignOffset(align plot.Alignment, label string, fontSize float64) float64 {
	width := float64(len([]rune(label))) * fontSize * 0.55
	switch align {
	case plot.AlignCenter:
		return -width / 2
	case plot.AlignRight:
		return -width
	}
	return 0
}

func (s *Surface) stampMarker(m plot.Marker, x, y, size, edgeWidth float64, edge, face color.NRGBA, filled bool) {
	half := size / 2
	seg := func(pts ...geom.Point) {
		strokePolyline(s.gtx, pts, edgeWidth, edge, false)
	}
	at := func(dx, dy float64) geom.Point { return geom.Point{X: x + dx, Y: y + dy} }

	switch m {
	case plot.MarkerDot:
		fillEllipse(s.gtx, x, y, math.Max(size/4, 1.5), math.Max(size/4, 1.5), edge)

	case plot.MarkerCircle, plot.MarkerCirclePlus, plot.MarkerCircleDot:
		if filled {
			fillEllipse(s.gtx, x, y, half, half, face)
		}
		strokeEllipse(s.gtx, x, y, half, half, edgeWidth, edge)
		if m == plot.MarkerCirclePlus {
			seg(at(-half, 0), at(half, 0))
			seg(at(0, -half), at(0, half))
		}
		if m == plot.MarkerCircleDot {
			fillEllipse(s.gtx, x, y, math.Max(half/4, 1), math.Max(half/4, 1), edge)
		}

	case plot.MarkerSquare:
		corners := []geom.Point{at(-half, -half), at(half, -half), at(half, half), at(-half, half)}
		if filled {
			fillScreenPolygon(s.gtx, corners, face)
		}
		strokePolyline(s.gtx, append(corners, corners[0]), edgeWidth, edge, false)

	case plot.MarkerDiamond:
		corners := []geom.Point{at(0, -half), at(half, 0), at(0, half), at(-half, 0)}
		if filled {
			fillScreenPolygon(s.gtx, corners, face)
		}
		strokePolyline(s.gtx, append(corners, corners[0]), edgeWidth, edge, false)

	case plot.MarkerTriangle:
		corners := []geom.Point{at(0, -half), at(half, half), at(-half, half)}
		if filled {
			fillScreenPolygon(s.gtx, corners, face)
		}
		strokePolyline(s.gtx, append(corners, corners[0]), edgeWidth, edge, false)

	case plot.MarkerPlus:
		seg(at(-half, 0), at(half, 0))
		seg(at(0, -half), at(0, half))

	case plot.MarkerTimes, plot.MarkerX:
		seg(at(-half, -half), at(half, half))
		seg(at(-half, half), at(half, -half))

	case plot.MarkerCross:
		seg(at(-half, 0), at(half, 0))
		seg(at(0, -half), at(0, half))
		seg(at(-half, -half), at(half, half))
		seg(at(-half, half), at(half, -half))

	case plot.MarkerStar:
		for i := 0; i < 5; i++ {
			angle := -math.Pi/2 + float64(i)*2*math.Pi/5
			seg(at(0, 0), at(half*math.Cos(angle), half*math.Sin(angle)))
		}

	default:
		fillEllipse(s.gtx, x, y, math.Max(size/4, 1.5), math.Max(size/4, 1.5), edge)
	}
}

func (s *Surface) patchRect(p *plot.PatchRect) {
	// Corners in data space: the rectangle rotates about its anchor.
	rad := p.Angle * math.Pi / 180.0
	cos, sin := math.Cos(rad), math.Sin(rad)
	w, h := p.Width, p.Height
	corners := []geom.Point{
		p.XY,
		{X: p.XY.X + w*cos, Y: p.XY.Y + w*sin},
		{X: p.XY.X + w*cos - h*sin, Y: p.XY.Y + w*sin + h*cos},
		{X: p.XY.X - h*sin, Y: p.XY.Y + h*cos},
	}
	s.patchPolygon(corners, p.PatchStyle)
}

func (s *Surface) patchPolygon(points []geom.Point, style plot.PatchStyle) {
	if len(points) < 2 {
		return
	}
	screen := make([]geom.Point, len(points))
	for i, pt := range points {
		x, y := s.camera.DataToScreen(pt)
		screen[i] = geom.Point{X: x, Y: y}
	}
	if style.Fill && style.FillColor.Drawable() {
		fillScreenPolygon(s.gtx, screen, styleFill(style))
	}
	if style.Color.Drawable() {
		strokePolyline(s.gtx, append(screen, screen[0]), math.Max(style.LineWidth, 1), GetPlotColor(style.Color), false)
	}
}

const arcSegments = 64

func (s *Surface) patchEllipse(center geom.Point, width, height float64, style plot.PatchStyle) {
	pts := make([]geom.Point, 0, arcSegments+1)
	for i := 0; i <= arcSegments; i++ {
		angle := float64(i) * 2.0 * math.Pi / arcSegments
		pts = append(pts, geom.Point{
			X: center.X + width/2*math.Cos(angle),
			Y: center.Y + height/2*math.Sin(angle),
		})
	}
	screen := make([]geom.Point, len(pts))
	for i, pt := range pts {
		x, y := s.camera.DataToScreen(pt)
		screen[i] = geom.Point{X: x, Y: y}
	}
	if style.Fill && style.FillColor.Drawable() {
		fillScreenPolygon(s.gtx, screen, styleFill(style))
	}
	if style.Color.Drawable() {
		strokePolyline(s.gtx, screen, math.Max(style.LineWidth, 1), GetPlotColor(style.Color), false)
	}
}

func (s *Surface) patchArc(p *plot.PatchArc) {
	t1, t2 := p.Theta1, p.Theta2
	// Arcs sweep counter-clockwise; the long way when theta2 < theta1.
	if t2 < t1 {
		t2 += 360
	}
	pts := make([]geom.Point, 0, arcSegments+1)
	for i := 0; i <= arcSegments; i++ {
		angle := (t1 + (t2-t1)*float64(i)/arcSegments) * math.Pi / 180.0
		pts = append(pts, geom.Point{
			X: p.Center.X + p.Width/2*math.Cos(angle),
			Y: p.Center.Y + p.Height/2*math.Sin(angle),
		})
	}
	screen := make([]geom.Point, len(pts))
	for i, pt := range pts {
		x, y := s.camera.DataToScreen(pt)
		screen[i] = geom.Point{X: x, Y: y}
	}
	if p.Color.Drawable() {
		strokePolyline(s.gtx, screen, math.Max(p.LineWidth, 1), GetPlotColor(p.Color), false)
	}
}

func (s *Surface) patchSbend(p *plot.PatchSbend) {
	toScreen := func(pt geom.Point) f32.Point {
		x, y := s.camera.DataToScreen(pt)
		return f32.Pt(float32(x), float32(y))
	}

	var path clip.Path
	path.Begin(s.gtx.Ops)
	path.MoveTo(toScreen(p.Spline1[0]))
	path.QuadTo(toScreen(p.Spline1[1]), toScreen(p.Spline1[2]))
	path.LineTo(toScreen(p.Spline2[0]))
	path.QuadTo(toScreen(p.Spline2[1]), toScreen(p.Spline2[2]))
	path.Close()
	outline := clip.Outline{Path: path.End()}.Op()

	if p.Fill && p.FillColor.Drawable() {
		paint.FillShape(s.gtx.Ops, styleFill(p.PatchStyle), outline)
	}
}

func styleFill(style plot.PatchStyle) color.NRGBA {
	c := GetPlotColor(style.FillColor)
	if style.Alpha > 0 {
		c = WithAlpha(c, style.Alpha)
	}
	return c
}

// strokePolyline strokes screen-space points with the given width.
func strokePolyline(gtx layout.Context, points []geom.Point, width float64, lineColor color.NRGBA, closed bool) {
	if len(points) < 2 {
		return
	}
	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(f32.Pt(float32(points[0].X), float32(points[0].Y)))
	for _, pt := range points[1:] {
		path.LineTo(f32.Pt(float32(pt.X), float32(pt.Y)))
	}
	if closed {
		path.Close()
	}
	stroke := clip.Stroke{Path: path.End(), Width: float32(width)}.Op()
	paint.FillShape(gtx.Ops, lineColor, stroke)
}

// fillScreenPolygon fills a closed polygon given in screen coordinates.
func fillScreenPolygon(gtx layout.Context, points []geom.Point, fillColor color.NRGBA) {
	if len(points) < 3 {
		return
	}
	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(f32.Pt(float32(points[0].X), float32(points[0].Y)))
	for _, pt := range points[1:] {
		path.LineTo(f32.Pt(float32(pt.X), float32(pt.Y)))
	}
	path.Close()
	paint.FillShape(gtx.Ops, fillColor, clip.Outline{Path: path.End()}.Op())
}

// fillEllipse fills an axis-aligned ellipse centered at (x, y) with the
// given half-axes, in screen coordinates.
func fillEllipse(gtx layout.Context, x, y, rx, ry float64, fillColor color.NRGBA) {
	stack := op.Affine(f32.Affine2D{}.Offset(f32.Pt(float32(x), float32(y)))).Push(gtx.Ops)
	defer stack.Pop()

	rect := image.Rectangle{
		Min: image.Pt(int(-rx), int(-ry)),
		Max: image.Pt(int(rx), int(ry)),
	}
	paint.FillShape(gtx.Ops, fillColor, clip.Ellipse(rect).Op(gtx.Ops))
}

// strokeEllipse strokes an axis-aligned ellipse outline in screen
// coordinates.
func strokeEllipse(gtx layout.Context, x, y, rx, ry, width float64, strokeColor color.NRGBA) {
	pts := make([]geom.Point, 0, arcSegments+1)
	for i := 0; i <= arcSegments; i++ {
		angle := float64(i) * 2.0 * math.Pi / arcSegments
		pts = append(pts, geom.Point{X: x + rx*math.Cos(angle), Y: y + ry*math.Sin(angle)})
	}
	strokePolyline(gtx, pts, width, strokeColor, false)
}
