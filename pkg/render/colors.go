package render

import (
	"image/color"

	"github.com/openbeamline/beamplot/pkg/plot"
)

// ColorTheme selects a palette for the viewer chrome and curve colors.
type ColorTheme int

const (
	ThemeLight ColorTheme = iota
	ThemeDark
)

// ThemeNames maps theme enum to display name.
var ThemeNames = map[ColorTheme]string{
	ThemeLight: "Light",
	ThemeDark:  "Dark",
}

// CurrentTheme is the active color theme (default: Light).
var CurrentTheme = ThemeLight

// SetTheme changes the active color theme.
func SetTheme(theme ColorTheme) {
	CurrentTheme = theme
}

var lightColors = map[plot.Color]color.NRGBA{
	plot.Black:       {R: 0, G: 0, B: 0, A: 255},
	plot.White:       {R: 255, G: 255, B: 255, A: 255},
	plot.Red:         {R: 214, G: 39, B: 40, A: 255},
	plot.Green:       {R: 44, G: 160, B: 44, A: 255},
	plot.Blue:        {R: 31, G: 119, B: 180, A: 255},
	plot.Cyan:        {R: 23, G: 190, B: 207, A: 255},
	plot.Magenta:     {R: 227, G: 119, B: 194, A: 255},
	plot.Yellow:      {R: 219, G: 202, B: 0, A: 255},
	plot.Orange:      {R: 255, G: 127, B: 14, A: 255},
	plot.Purple:      {R: 148, G: 103, B: 189, A: 255},
	plot.Navy:        {R: 0, G: 0, B: 128, A: 255},
	plot.GreenYellow: {R: 173, G: 255, B: 47, A: 255},
	plot.LimeGreen:   {R: 50, G: 205, B: 50, A: 255},
	plot.VioletRed:   {R: 199, G: 21, B: 133, A: 255},
	plot.Gray:        {R: 127, G: 127, B: 127, A: 255},
	plot.LightGray:   {R: 199, G: 199, B: 199, A: 255},
}

// darkColors brightens a few colors that vanish against a dark background.
var darkColors = map[plot.Color]color.NRGBA{
	plot.Black:       {R: 230, G: 230, B: 230, A: 255},
	plot.White:       {R: 20, G: 20, B: 20, A: 255},
	plot.Red:         {R: 255, G: 99, B: 99, A: 255},
	plot.Green:       {R: 92, G: 205, B: 92, A: 255},
	plot.Blue:        {R: 90, G: 160, B: 230, A: 255},
	plot.Cyan:        {R: 80, G: 220, B: 235, A: 255},
	plot.Magenta:     {R: 240, G: 150, B: 215, A: 255},
	plot.Yellow:      {R: 235, G: 220, B: 80, A: 255},
	plot.Orange:      {R: 255, G: 160, B: 70, A: 255},
	plot.Purple:      {R: 180, G: 145, B: 220, A: 255},
	plot.Navy:        {R: 100, G: 100, B: 220, A: 255},
	plot.GreenYellow: {R: 190, G: 255, B: 90, A: 255},
	plot.LimeGreen:   {R: 90, G: 225, B: 90, A: 255},
	plot.VioletRed:   {R: 235, G: 85, B: 170, A: 255},
	plot.Gray:        {R: 150, G: 150, B: 150, A: 255},
	plot.LightGray:   {R: 90, G: 90, B: 90, A: 255},
}

// GetPlotColor returns the screen color for a symbolic curve color using the
// current theme. Unknown colors fall back to the theme foreground.
func GetPlotColor(c plot.Color) color.NRGBA {
	colors := lightColors
	if CurrentTheme == ThemeDark {
		colors = darkColors
	}
	if nrgba, ok := colors[c]; ok {
		return nrgba
	}
	return colors[plot.Black]
}

// Chrome colors for the surrounding frame.
var (
	lightBackground = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	darkBackground  = color.NRGBA{R: 18, G: 18, B: 24, A: 255}
	lightGrid       = color.NRGBA{R: 225, G: 225, B: 225, A: 255}
	darkGrid        = color.NRGBA{R: 55, G: 55, B: 65, A: 255}
	lightAxis       = color.NRGBA{R: 40, G: 40, B: 40, A: 255}
	darkAxis        = color.NRGBA{R: 200, G: 200, B: 205, A: 255}
)

// GetBackgroundColor returns the canvas color for the current theme.
func GetBackgroundColor() color.NRGBA {
	if CurrentTheme == ThemeDark {
		return darkBackground
	}
	return lightBackground
}

// GetGridColor returns the grid line color for the current theme.
func GetGridColor() color.NRGBA {
	if CurrentTheme == ThemeDark {
		return darkGrid
	}
	return lightGrid
}

// GetAxisColor returns the frame/tick/label color for the current theme.
func GetAxisColor() color.NRGBA {
	if CurrentTheme == ThemeDark {
		return darkAxis
	}
	return lightAxis
}

// WithAlpha returns the color with its alpha channel replaced.
func WithAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	c.A = uint8(alpha * 255)
	return c
}
