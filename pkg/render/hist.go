package render

import (
	"github.com/openbeamline/beamplot/pkg/geom"
)

// histogramSteps bins the samples and returns the step outline of the
// histogram as a polyline in data coordinates, starting and ending on the
// baseline.
func histogramSteps(xs, weights []float64, bins int) []geom.Point {
	if len(xs) == 0 || bins < 1 {
		return nil
	}
	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		lo = min(lo, x)
		hi = max(hi, x)
	}
	if hi == lo {
		hi = lo + 1
	}
	binWidth := (hi - lo) / float64(bins)

	counts := make([]float64, bins)
	for i, x := range xs {
		bin := int((x - lo) / binWidth)
		if bin >= bins { // the sample at the upper edge
			bin = bins - 1
		}
		w := 1.0
		if i < len(weights) {
			w = weights[i]
		}
		counts[bin] += w
	}

	steps := make([]geom.Point, 0, 2*bins+2)
	steps = append(steps, geom.Point{X: lo, Y: 0})
	for i, count := range counts {
		left := lo + float64(i)*binWidth
		right := left + binWidth
		steps = append(steps,
			geom.Point{X: left, Y: count},
			geom.Point{X: right, Y: count},
		)
	}
	steps = append(steps, geom.Point{X: hi, Y: 0})
	return steps
}
