package plot

import "strings"

// Marker is a canonical symbol glyph.
type Marker string

const (
	MarkerNone       Marker = ""
	MarkerDot        Marker = "dot"
	MarkerSquare     Marker = "square"
	MarkerPlus       Marker = "plus"
	MarkerTimes      Marker = "times"
	MarkerCircle     Marker = "circle"
	MarkerX          Marker = "x"
	MarkerTriangle   Marker = "triangle"
	MarkerCirclePlus Marker = "circle_plus"
	MarkerCircleDot  Marker = "circle_dot"
	MarkerDiamond    Marker = "diamond"
	MarkerStar       Marker = "star"
	MarkerCross      Marker = "cross"
)

// engine symbol types and legacy numeric codes, mapped to glyphs
var markerTable = map[string]Marker{
	"do_not_draw":     MarkerNone,
	"square":          MarkerSquare,
	"dot":             MarkerDot,
	"plus":            MarkerPlus,
	"times":           MarkerTimes,
	"circle":          MarkerCircle,
	"x":               MarkerX,
	"x_symbol":        MarkerX,
	"triangle":        MarkerTriangle,
	"circle_plus":     MarkerCirclePlus,
	"circle_dot":      MarkerCircleDot,
	"square_concave":  MarkerSquare,
	"diamond":         MarkerDiamond,
	"star5":           MarkerStar,
	"star_of_david":   MarkerStar,
	"red_cross":       MarkerCross,
	"square_filled":   MarkerSquare,
	"circle_filled":   MarkerCircle,
	"star5_filled":    MarkerStar,
	"triangle_filled": MarkerTriangle,
	"0":               MarkerSquare,
	"1":               MarkerDot,
	"2":               MarkerPlus,
	"3":               MarkerTimes,
	"4":               MarkerCircle,
	"5":               MarkerX,
	"16":              MarkerSquare,
	"17":              MarkerCircle,
}

// MarkerFor maps an engine symbol type to its glyph. Unknown types draw as
// a dot, matching the fallback of the original renderer.
func MarkerFor(symbolType string) Marker {
	if m, ok := markerTable[strings.ToLower(strings.TrimSpace(symbolType))]; ok {
		return m
	}
	return MarkerDot
}

var patternTable = map[string]LinePattern{
	"solid":     Solid,
	"dashed":    Dashed,
	"dash_dot":  DashDot,
	"dotted":    Dotted,
	"dash_dot3": DashDot,
	"1":         Solid,
	"2":         Dashed,
	"3":         DashDot,
	"4":         Dotted,
	"5":         DashDot,
}

// PatternFor maps an engine line pattern to a dash pattern, defaulting to
// solid.
func PatternFor(name string) LinePattern {
	if p, ok := patternTable[strings.ToLower(strings.TrimSpace(name))]; ok {
		return p
	}
	return Solid
}

// fills that count as a full (solid) fill; hatch styles draw filled here
var fullFills = map[string]bool{
	"solid_fill":    true,
	"solid":         true,
	"full":          true,
	"hatched":       true,
	"cross_hatched": true,
	"1":             true,
	"3":             true,
	"4":             true,
}

// FillIsFull reports whether an engine fill pattern paints the symbol body.
func FillIsFull(pattern string) bool {
	return fullFills[strings.ToLower(strings.TrimSpace(pattern))]
}

// UseSymbolColor decides whether a symbol's face takes the symbol color or
// stays hollow. Dots, explicitly filled variants, negative legacy codes and
// full fill patterns paint the face.
func UseSymbolColor(symbolType, fillPattern string) bool {
	st := strings.ToLower(strings.TrimSpace(symbolType))
	if st == "dot" || st == "1" {
		return true
	}
	if strings.HasSuffix(st, "filled") || strings.HasPrefix(st, "-") {
		return true
	}
	return FillIsFull(fillPattern)
}

// labelEscaper neutralizes the markup characters of the engine's legacy
// text renderer so labels display literally.
var labelEscaper = strings.NewReplacer(
	`\`, ``,
	`$`, ``,
	`^`, ``,
	`_`, ``,
)

// EscapeLabel strips legacy markup control characters from a label.
func EscapeLabel(label string) string {
	return labelEscaper.Replace(label)
}
