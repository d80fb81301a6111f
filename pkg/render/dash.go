package render

import (
	"math"

	"github.com/openbeamline/beamplot/pkg/geom"
	"github.com/openbeamline/beamplot/pkg/plot"
)

// dashPattern is a repeating on/off run length sequence in pixels.
type dashPattern []float64

// dashPatterns are tuned to read well at typical line widths.
var dashPatterns = map[plot.LinePattern]dashPattern{
	plot.Solid:   nil,
	plot.Dashed:  {8, 5},
	plot.DashDot: {8, 4, 2, 4},
	plot.Dotted:  {2, 4},
}

// dashSegments cuts a polyline (screen coordinates) into the visible runs of
// a dash pattern. A nil or empty pattern returns the polyline unchanged.
func dashSegments(points []geom.Point, pattern dashPattern) [][]geom.Point {
	if len(points) < 2 {
		return nil
	}
	if len(pattern) == 0 {
		return [][]geom.Point{points}
	}

	var (
		segments [][]geom.Point
		current  []geom.Point
		phase    int     // index into pattern
		left     float64 // remaining length of current pattern run
	)
	left = pattern[0]
	penDown := true // even runs draw, odd runs skip

	emit := func() {
		if len(current) >= 2 {
			segments = append(segments, current)
		}
		current = nil
	}

	pos := points[0]
	current = []geom.Point{pos}
	for _, next := range points[1:] {
		for {
			dist := math.Hypot(next.X-pos.X, next.Y-pos.Y)
			if dist <= left {
				left -= dist
				pos = next
				if penDown {
					current = append(current, pos)
				}
				break
			}
			// The run ends inside this segment; cut at the boundary.
			t := left / dist
			cut := geom.Point{X: pos.X + t*(next.X-pos.X), Y: pos.Y + t*(next.Y-pos.Y)}
			if penDown {
				current = append(current, cut)
				emit()
			} else {
				current = []geom.Point{cut}
			}
			pos = cut
			phase = (phase + 1) % len(pattern)
			left = pattern[phase]
			penDown = phase%2 == 0
		}
	}
	emit()
	return segments
}
