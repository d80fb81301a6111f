package ui

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"strings"

	"gioui.org/app"
	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"github.com/oligo/gioview/theme"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"github.com/openbeamline/beamplot/pkg/plot"
	"github.com/openbeamline/beamplot/pkg/render"
)

// App is the interactive graph viewer. It shows one region at a time; the
// region's graphs split the canvas into horizontal bands that pan and zoom
// together.
type App struct {
	window *app.Window
	ops    op.Ops

	gvTheme  *theme.Theme
	darkMode bool

	manager *plot.Manager
	regions []string
	current int
	views   []*render.GraphView

	refreshIcon *widget.Icon
	refreshBtn  widget.Clickable
	fitBtn      widget.Clickable
	prevBtn     widget.Clickable
	nextBtn     widget.Clickable
	gridSwitch  widget.Bool
	darkSwitch  widget.Bool

	dragging bool
	lastDrag f32.Point
	plotSize image.Point
	needFit  bool

	statusText string
}

// New builds the viewer over a manager that already holds composed graphs.
func New(w *app.Window, manager *plot.Manager) *App {
	if w == nil {
		w = new(app.Window)
	}
	w.Option(app.Title("beamplot"), app.Size(unit.Dp(1100), unit.Dp(800)))

	a := &App{
		window:  w,
		gvTheme: theme.NewTheme("", nil, true),
		manager: manager,
		regions: manager.RegionNames(),
	}
	if icon, err := widget.NewIcon(icons.NavigationRefresh); err == nil {
		a.refreshIcon = icon
	}
	// Grid on by default; the graph's own DrawGrid flag still gates it.
	a.gridSwitch.Value = true
	a.darkSwitch.Value = a.darkMode
	a.applyPalette()
	a.selectRegion(0)
	return a
}

// Run blocks processing window events until the window closes.
func (a *App) Run() error {
	for {
		switch ev := a.window.Event().(type) {
		case app.DestroyEvent:
			return ev.Err
		case app.FrameEvent:
			gtx := app.NewContext(&a.ops, ev)
			if quit := a.handleEvents(gtx); quit {
				return nil
			}
			a.layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}

func (a *App) regionName() string {
	if a.current < 0 || a.current >= len(a.regions) {
		return ""
	}
	return a.regions[a.current]
}

func (a *App) graphs() []plot.Graph {
	return a.manager.Graphs(a.regionName())
}

// selectRegion switches the canvas to another region, building a fitted
// view for each of its graphs.
func (a *App) selectRegion(idx int) {
	if len(a.regions) == 0 {
		a.statusText = "no regions placed"
		return
	}
	a.current = ((idx % len(a.regions)) + len(a.regions)) % len(a.regions)

	graphs := a.graphs()
	a.views = make([]*render.GraphView, len(graphs))
	height := max(a.plotSize.Y/max(len(graphs), 1), 1)
	for i, g := range graphs {
		v := render.NewGraphView(max(a.plotSize.X, 1), height)
		v.ShowGrid = a.gridSwitch.Value
		v.Fit(g)
		a.views[i] = v
	}
	// The window may not have a size yet; refit at the first real layout.
	a.needFit = true
	a.updateStatus()
}

func (a *App) updateStatus() {
	graphs := a.graphs()
	names := make([]string, len(graphs))
	for i, g := range graphs {
		names[i] = g.Frame().GraphName
	}
	a.statusText = fmt.Sprintf("region %s (%d/%d): %s",
		a.regionName(), a.current+1, len(a.regions), strings.Join(names, ", "))
}

// refresh recomposes the current region from the engine.
func (a *App) refresh() {
	region := a.regionName()
	graphs := a.graphs()
	if region == "" || len(graphs) == 0 {
		return
	}
	graphName := graphs[0].Frame().GraphName
	if _, err := a.manager.UpdateRegion(context.Background(), region, graphName); err != nil {
		a.statusText = fmt.Sprintf("refresh %s: %v", region, err)
		return
	}
	a.selectRegion(a.current)
}

func (a *App) fitAll() {
	for i, g := range a.graphs() {
		if i < len(a.views) {
			a.views[i].Fit(g)
		}
	}
}

func (a *App) setDarkMode(enabled bool) {
	if a.darkMode == enabled {
		return
	}
	a.darkMode = enabled
	a.darkSwitch.Value = enabled
	if enabled {
		render.SetTheme(render.ThemeDark)
	} else {
		render.SetTheme(render.ThemeLight)
	}
	a.applyPalette()
}

func (a *App) setGrid(enabled bool) {
	a.gridSwitch.Value = enabled
	for _, v := range a.views {
		v.ShowGrid = enabled
	}
}

func (a *App) handleEvents(gtx layout.Context) bool {
	for {
		ev, ok := gtx.Event(key.Filter{})
		if !ok {
			break
		}
		ke, ok := ev.(key.Event)
		if !ok || ke.State != key.Press {
			continue
		}
		if a.handleKey(ke.Name) {
			return true
		}
	}

	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  a,
			Kinds:   pointer.Press | pointer.Drag | pointer.Release | pointer.Scroll,
			ScrollY: pointer.ScrollRange{Min: -20, Max: 20},
		})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		switch pe.Kind {
		case pointer.Press:
			if pe.Buttons == pointer.ButtonPrimary {
				a.dragging = true
				a.lastDrag = pe.Position
			}
		case pointer.Drag:
			if a.dragging {
				dx := float64(pe.Position.X - a.lastDrag.X)
				dy := float64(pe.Position.Y - a.lastDrag.Y)
				a.lastDrag = pe.Position
				for _, v := range a.views {
					v.Camera.Pan(dx, dy)
				}
			}
		case pointer.Release, pointer.Cancel:
			a.dragging = false
		case pointer.Scroll:
			factor := 1.0 - float64(pe.Scroll.Y)*0.05
			a.zoomAt(float64(pe.Position.X), float64(pe.Position.Y), factor)
		}
		a.window.Invalidate()
	}
	return false
}

func (a *App) handleKey(name key.Name) bool {
	const panStep = 40
	switch name {
	case key.NameEscape, "Q":
		return true
	case key.NameSpace:
		a.fitAll()
	case "R":
		a.refresh()
	case "G":
		a.setGrid(!a.gridSwitch.Value)
	case "D":
		a.setDarkMode(!a.darkMode)
	case key.NameTab, key.NameRightArrow:
		a.selectRegion(a.current + 1)
	case key.NameLeftArrow:
		a.selectRegion(a.current - 1)
	case key.NameUpArrow:
		a.panAll(0, panStep)
	case key.NameDownArrow:
		a.panAll(0, -panStep)
	case "=", "+":
		a.zoomCenter(1.25)
	case "-":
		a.zoomCenter(0.8)
	default:
		return false
	}
	a.window.Invalidate()
	return false
}

func (a *App) panAll(dx, dy float64) {
	for _, v := range a.views {
		v.Camera.Pan(dx, dy)
	}
}

// zoomAt zooms every band keeping the cursor column stationary; the row
// anchor is band-local so stacked graphs stay aligned in x.
func (a *App) zoomAt(x, y float64, factor float64) {
	if len(a.views) == 0 {
		return
	}
	bandH := float64(a.plotSize.Y) / float64(len(a.views))
	band := int(y / max(bandH, 1))
	for i, v := range a.views {
		localY := float64(v.Camera.ScreenHeight) / 2
		if i == band {
			localY = y - float64(band)*bandH
		}
		v.Camera.ZoomAt(x, localY, factor)
	}
}

func (a *App) zoomCenter(factor float64) {
	for _, v := range a.views {
		v.Camera.ZoomAt(float64(v.Camera.ScreenWidth)/2, float64(v.Camera.ScreenHeight)/2, factor)
	}
}

func (a *App) layout(gtx layout.Context) layout.Dimensions {
	paint.FillShape(gtx.Ops, a.gvTheme.Palette.Bg, clip.Rect{Max: gtx.Constraints.Max}.Op())

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(a.layoutToolbar),
		layout.Flexed(1, a.layoutPlots),
		layout.Rigid(a.layoutStatusBar),
	)
}

func (a *App) layoutToolbar(gtx layout.Context) layout.Dimensions {
	th := a.gvTheme.Theme

	if a.prevBtn.Clicked(gtx) {
		a.selectRegion(a.current - 1)
	}
	if a.nextBtn.Clicked(gtx) {
		a.selectRegion(a.current + 1)
	}
	if a.refreshBtn.Clicked(gtx) {
		a.refresh()
	}
	if a.fitBtn.Clicked(gtx) {
		a.fitAll()
	}
	if a.gridSwitch.Update(gtx) {
		a.setGrid(a.gridSwitch.Value)
	}
	if a.darkSwitch.Update(gtx) {
		a.setDarkMode(a.darkSwitch.Value)
	}

	inset := layout.UniformInset(unit.Dp(6))
	return inset.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(material.Button(th, &a.prevBtn, "<").Layout),
			layout.Rigid(layout.Spacer{Width: unit.Dp(4)}.Layout),
			layout.Rigid(material.Body1(th, a.regionName()).Layout),
			layout.Rigid(layout.Spacer{Width: unit.Dp(4)}.Layout),
			layout.Rigid(material.Button(th, &a.nextBtn, ">").Layout),
			layout.Rigid(layout.Spacer{Width: unit.Dp(16)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				if a.refreshIcon == nil {
					return material.Button(th, &a.refreshBtn, "Refresh").Layout(gtx)
				}
				return material.IconButton(th, &a.refreshBtn, a.refreshIcon, "Refresh").Layout(gtx)
			}),
			layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
			layout.Rigid(material.Button(th, &a.fitBtn, "Fit").Layout),
			layout.Rigid(layout.Spacer{Width: unit.Dp(16)}.Layout),
			layout.Rigid(material.Caption(th, "Grid").Layout),
			layout.Rigid(material.Switch(th, &a.gridSwitch, "Grid").Layout),
			layout.Rigid(layout.Spacer{Width: unit.Dp(12)}.Layout),
			layout.Rigid(material.Caption(th, "Dark").Layout),
			layout.Rigid(material.Switch(th, &a.darkSwitch, "Dark mode").Layout),
		)
	})
}

func (a *App) layoutPlots(gtx layout.Context) layout.Dimensions {
	size := gtx.Constraints.Max
	a.plotSize = size

	area := clip.Rect{Max: size}.Push(gtx.Ops)
	event.Op(gtx.Ops, a)

	graphs := a.graphs()
	if len(graphs) == 0 || len(a.views) != len(graphs) {
		area.Pop()
		return layout.Center.Layout(gtx, material.Body1(a.gvTheme.Theme, "nothing placed").Layout)
	}

	bandH := size.Y / len(graphs)
	if a.needFit && size.X > 1 && bandH > 1 {
		for i, g := range graphs {
			a.views[i].Camera.UpdateScreenSize(size.X, bandH)
			a.views[i].Fit(g)
		}
		a.needFit = false
	}
	for i, g := range graphs {
		offset := op.Offset(image.Pt(0, i*bandH)).Push(gtx.Ops)
		band := clip.Rect{Max: image.Pt(size.X, bandH)}.Push(gtx.Ops)
		sub := gtx
		sub.Constraints = layout.Exact(image.Pt(size.X, bandH))
		a.views[i].Layout(sub, g)
		band.Pop()
		offset.Pop()
	}

	area.Pop()
	return layout.Dimensions{Size: size}
}

func (a *App) layoutStatusBar(gtx layout.Context) layout.Dimensions {
	inset := layout.Inset{Top: unit.Dp(4), Bottom: unit.Dp(4), Left: unit.Dp(8), Right: unit.Dp(8)}
	return inset.Layout(gtx, material.Caption(a.gvTheme.Theme, a.statusText).Layout)
}

func (a *App) applyPalette() {
	if a.darkMode {
		a.gvTheme.WithPalette(theme.Palette{
			Bg:         rgb(18, 20, 26),
			Fg:         rgb(233, 236, 245),
			ContrastBg: rgb(120, 150, 255),
			ContrastFg: rgb(12, 16, 24),
			Bg2:        rgb(34, 40, 50),
		})
	} else {
		a.gvTheme.WithPalette(theme.Palette{
			Bg:         rgb(245, 247, 253),
			Fg:         rgb(34, 37, 49),
			ContrastBg: rgb(80, 120, 255),
			ContrastFg: rgb(255, 255, 255),
			Bg2:        rgb(225, 230, 244),
		})
	}
}

func rgb(r, g, b uint8) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}
