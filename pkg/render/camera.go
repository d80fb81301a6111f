package render

import (
	"github.com/openbeamline/beamplot/pkg/geom"
)

// Camera represents a viewport onto a graph's data coordinates.
// X and Y carry independent scales because data axes rarely share units
// (meters along the beamline against millimeters of orbit, say).
type Camera struct {
	// Center position in data coordinates
	CenterX float64
	CenterY float64

	// Zoom levels (pixels per data unit), one per axis
	ZoomX float64
	ZoomY float64

	// Screen dimensions (pixels)
	ScreenWidth  int
	ScreenHeight int

	// InvertY flips the Y axis so data Y increases upward on screen.
	InvertY bool
}

// NewCamera creates a camera with default settings.
func NewCamera(screenWidth, screenHeight int) *Camera {
	return &Camera{
		ZoomX:        10.0,
		ZoomY:        10.0,
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
		InvertY:      true,
	}
}

// DataToScreen converts data coordinates to screen coordinates (pixels).
func (c *Camera) DataToScreen(pos geom.Point) (float64, float64) {
	x := (pos.X - c.CenterX) * c.ZoomX
	y := (pos.Y - c.CenterY) * c.ZoomY

	x += float64(c.ScreenWidth) / 2.0
	y += float64(c.ScreenHeight) / 2.0

	if c.InvertY {
		y = float64(c.ScreenHeight) - y
	}
	return x, y
}

// ScreenToData converts screen coordinates (pixels) to data coordinates.
func (c *Camera) ScreenToData(screenX, screenY float64) geom.Point {
	y := screenY
	if c.InvertY {
		y = float64(c.ScreenHeight) - screenY
	}

	x := screenX - float64(c.ScreenWidth)/2.0
	y = y - float64(c.ScreenHeight)/2.0

	x /= c.ZoomX
	y /= c.ZoomY

	return geom.Point{X: x + c.CenterX, Y: y + c.CenterY}
}

// Pan moves the camera by screen pixel offsets.
func (c *Camera) Pan(deltaX, deltaY float64) {
	c.CenterX -= deltaX / c.ZoomX
	if c.InvertY {
		c.CenterY += deltaY / c.ZoomY
	} else {
		c.CenterY -= deltaY / c.ZoomY
	}
}

// ZoomAt zooms in/out at a specific screen position.
// factor > 1 zooms in, factor < 1 zooms out.
func (c *Camera) ZoomAt(screenX, screenY, factor float64) {
	before := c.ScreenToData(screenX, screenY)

	c.ZoomX = clampZoom(c.ZoomX * factor)
	c.ZoomY = clampZoom(c.ZoomY * factor)

	after := c.ScreenToData(screenX, screenY)

	// Keep the point under the cursor stationary.
	c.CenterX += before.X - after.X
	c.CenterY += before.Y - after.Y
}

func clampZoom(zoom float64) float64 {
	if zoom < 1e-6 {
		return 1e-6
	}
	if zoom > 1e9 {
		return 1e9
	}
	return zoom
}

// Fit adjusts the camera so the data rectangle fills the view with a small
// margin.
func (c *Camera) Fit(xLim, yLim [2]float64) {
	width := xLim[1] - xLim[0]
	height := yLim[1] - yLim[0]
	if width <= 0 || height <= 0 {
		return
	}

	c.CenterX = (xLim[0] + xLim[1]) / 2.0
	c.CenterY = (yLim[0] + yLim[1]) / 2.0

	c.ZoomX = float64(c.ScreenWidth) * 0.9 / width
	c.ZoomY = float64(c.ScreenHeight) * 0.9 / height
}

// FitSquare is Fit with a single shared scale, for graphs whose axes have
// the same units (floor plans).
func (c *Camera) FitSquare(xLim, yLim [2]float64) {
	c.Fit(xLim, yLim)
	zoom := min(c.ZoomX, c.ZoomY)
	c.ZoomX = zoom
	c.ZoomY = zoom
}

// UpdateScreenSize updates the camera when the window is resized.
func (c *Camera) UpdateScreenSize(width, height int) {
	c.ScreenWidth = width
	c.ScreenHeight = height
}

// VisibleBounds returns the visible area in data coordinates, for culling.
func (c *Camera) VisibleBounds() (xLim, yLim [2]float64) {
	topLeft := c.ScreenToData(0, 0)
	bottomRight := c.ScreenToData(float64(c.ScreenWidth), float64(c.ScreenHeight))

	xLim = [2]float64{min(topLeft.X, bottomRight.X), max(topLeft.X, bottomRight.X)}
	yLim = [2]float64{min(topLeft.Y, bottomRight.Y), max(topLeft.Y, bottomRight.Y)}
	return xLim, yLim
}
