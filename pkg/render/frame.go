package render

import (
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/font"
	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"

	"github.com/openbeamline/beamplot/pkg/geom"
	"github.com/openbeamline/beamplot/pkg/plot"
)

// GraphView draws one composed graph: background, grid, the graph's own
// primitives, then ticks, axis labels, title and legend on top.
type GraphView struct {
	Camera *Camera
	Shaper *text.Shaper

	// ShowGrid overrides the graph's own grid flag when false.
	ShowGrid bool
}

// NewGraphView creates a view over a camera sized for the given screen.
func NewGraphView(width, height int) *GraphView {
	return &GraphView{
		Camera:   NewCamera(width, height),
		Shaper:   text.NewShaper(text.WithCollection(gofont.Collection())),
		ShowGrid: true,
	}
}

// Fit centers the camera on the graph's own limits.
func (v *GraphView) Fit(g plot.Graph) {
	frame := g.Frame()
	if g.Kind() == plot.KindFloorPlan {
		v.Camera.FitSquare(frame.XLim, frame.YLim)
		return
	}
	v.Camera.Fit(plot.FixLimits(frame.XLim, 0), plot.FixLimits(frame.YLim, 0))
}

// Layout draws the graph into gtx.
func (v *GraphView) Layout(gtx layout.Context, g plot.Graph) {
	v.Camera.UpdateScreenSize(gtx.Constraints.Max.X, gtx.Constraints.Max.Y)

	paint.Fill(gtx.Ops, GetBackgroundColor())

	frame := g.Frame()
	xTicks, yTicks := v.ticks()

	if v.ShowGrid && frame.DrawGrid {
		v.drawGrid(gtx, xTicks, yTicks)
	}

	surface := NewSurface(gtx, v.Camera, v.Shaper)
	g.Draw(surface)

	v.drawTickLabels(gtx, xTicks, yTicks)
	v.drawLabels(gtx, frame)
	if frame.DrawLegend {
		v.drawLegend(gtx, g)
	}
}

func (v *GraphView) ticks() (x, y []Tick) {
	xLim, yLim := v.Camera.VisibleBounds()
	return Ticks(xLim[0], xLim[1], 8), Ticks(yLim[0], yLim[1], 6)
}

func (v *GraphView) drawGrid(gtx layout.Context, xTicks, yTicks []Tick) {
	gridColor := GetGridColor()
	xLim, yLim := v.Camera.VisibleBounds()

	for _, t := range xTicks {
		x0, y0 := v.Camera.DataToScreen(geom.Point{X: t.Value, Y: yLim[0]})
		x1, y1 := v.Camera.DataToScreen(geom.Point{X: t.Value, Y: yLim[1]})
		strokePolyline(gtx, []geom.Point{{X: x0, Y: y0}, {X: x1, Y: y1}}, 1, gridColor, false)
	}
	for _, t := range yTicks {
		x0, y0 := v.Camera.DataToScreen(geom.Point{X: xLim[0], Y: t.Value})
		x1, y1 := v.Camera.DataToScreen(geom.Point{X: xLim[1], Y: t.Value})
		strokePolyline(gtx, []geom.Point{{X: x0, Y: y0}, {X: x1, Y: y1}}, 1, gridColor, false)
	}
}

func (v *GraphView) drawTickLabels(gtx layout.Context, xTicks, yTicks []Tick) {
	axisColor := GetAxisColor()
	height := float64(v.Camera.ScreenHeight)

	for _, t := range xTicks {
		x, _ := v.Camera.DataToScreen(geom.Point{X: t.Value})
		v.text(gtx, x-float64(len(t.Label))*3.5, height-18, t.Label, axisColor, 11)
	}
	for _, t := range yTicks {
		_, y := v.Camera.DataToScreen(geom.Point{Y: t.Value})
		v.text(gtx, 4, y-7, t.Label, axisColor, 11)
	}
}

func (v *GraphView) drawLabels(gtx layout.Context, frame *plot.Frame) {
	axisColor := GetAxisColor()
	width := float64(v.Camera.ScreenWidth)
	height := float64(v.Camera.ScreenHeight)

	if frame.Title != "" {
		v.text(gtx, width/2-float64(len(frame.Title))*4, 6, frame.Title, axisColor, 14)
	}
	if frame.XLabel != "" {
		v.text(gtx, width/2-float64(len(frame.XLabel))*3, height-36, frame.XLabel, axisColor, 12)
	}
	if frame.YLabel != "" {
		v.rotatedText(gtx, 16, height/2, frame.YLabel, axisColor, 12)
	}
}

// drawLegend lists curve legend labels in the top-left corner, each with a
// short sample of the curve's line color.
func (v *GraphView) drawLegend(gtx layout.Context, g plot.Graph) {
	basic, ok := g.(*plot.BasicGraph)
	if !ok {
		return
	}
	axisColor := GetAxisColor()
	y := 28.0
	for _, curve := range basic.Curves {
		label := curve.LegendLabel()
		if label == "" {
			continue
		}
		sampleColor := axisColor
		if curve.Line != nil && curve.Line.Color.Drawable() {
			sampleColor = GetPlotColor(curve.Line.Color)
		} else if curve.Symbol != nil {
			sampleColor = GetPlotColor(curve.Symbol.Color)
		}
		strokePolyline(gtx, []geom.Point{{X: 46, Y: y + 7}, {X: 74, Y: y + 7}}, 2, sampleColor, false)
		v.text(gtx, 80, y, label, axisColor, 11)
		y += 16
	}
}

func (v *GraphView) text(gtx layout.Context, x, y float64, s string, c color.NRGBA, size float64) {
	macro := op.Record(gtx.Ops)
	stack := op.Affine(f32.Affine2D{}.Offset(f32.Pt(float32(x), float32(y)))).Push(gtx.Ops)

	paint.ColorOp{Color: c}.Add(gtx.Ops)
	label := widget.Label{Alignment: text.Start, MaxLines: 1}
	label.Layout(gtx, v.Shaper, font.Font{}, unit.Sp(size), s, op.CallOp{})

	stack.Pop()
	call := macro.Stop()
	call.Add(gtx.Ops)
}

func (v *GraphView) rotatedText(gtx layout.Context, x, y float64, s string, c color.NRGBA, size float64) {
	macro := op.Record(gtx.Ops)
	transform := f32.Affine2D{}.
		Rotate(f32.Pt(0, 0), float32(-math.Pi/2)).
		Offset(f32.Pt(float32(x), float32(y)))
	stack := op.Affine(transform).Push(gtx.Ops)

	paint.ColorOp{Color: c}.Add(gtx.Ops)
	label := widget.Label{Alignment: text.Start, MaxLines: 1}
	label.Layout(gtx, v.Shaper, font.Font{}, unit.Sp(size), s, op.CallOp{})

	stack.Pop()
	call := macro.Stop()
	call.Add(gtx.Ops)
}
