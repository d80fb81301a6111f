package plot

import "strings"

// Color is a symbolic color name in canonical lower-case form. Surfaces map
// it to actual pixels; this package only normalizes and compares.
type Color string

// Colors every surface is expected to know.
const (
	Black       Color = "black"
	White       Color = "white"
	Red         Color = "red"
	Green       Color = "green"
	Blue        Color = "blue"
	Cyan        Color = "cyan"
	Magenta     Color = "magenta"
	Yellow      Color = "yellow"
	Orange      Color = "orange"
	Purple      Color = "purple"
	Navy        Color = "navy"
	Gray        Color = "gray"
	NoColor     Color = "none"
	GreenYellow Color = "greenyellow"
	LimeGreen   Color = "limegreen"
	VioletRed   Color = "mediumvioletred"
	LightGray   Color = "lightgray"
)

// engine spellings that differ from canonical names
var colorAliases = map[string]Color{
	"yellow_green":   GreenYellow,
	"light_green":    LimeGreen,
	"navy_blue":      Navy,
	"reddish_purple": VioletRed,
	"dark_grey":      Gray,
	"dark_gray":      Gray,
	"light_grey":     LightGray,
	"grey":           Gray,
	"transparent":    NoColor,
	"not_set":        "",
	"":               "",
}

// NormalizeColor maps an engine color name to its canonical form. Unset and
// transparent spellings normalize to "" and NoColor respectively.
func NormalizeColor(name string) Color {
	lower := strings.ToLower(strings.TrimSpace(name))
	if c, ok := colorAliases[lower]; ok {
		return c
	}
	return Color(lower)
}

// Or returns c, or def when c is unset.
func (c Color) Or(def Color) Color {
	if c == "" {
		return def
	}
	return c
}

// Drawable reports whether the color paints anything.
func (c Color) Drawable() bool { return c != "" && c != NoColor }
