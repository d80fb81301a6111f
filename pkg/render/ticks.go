package render

import (
	"math"
	"strconv"
)

// Tick is one axis tick: its data position and label.
type Tick struct {
	Value float64
	Label string
}

// Ticks places round-numbered ticks over [lo, hi], aiming for about n of
// them. The spacing is the largest of 1, 2 or 5 times a power of ten that
// still yields at least n/2 ticks.
func Ticks(lo, hi float64, n int) []Tick {
	if n < 2 {
		n = 2
	}
	span := hi - lo
	if span <= 0 || math.IsNaN(span) || math.IsInf(span, 0) {
		return nil
	}

	step := niceStep(span / float64(n-1))
	first := math.Ceil(lo/step) * step

	var ticks []Tick
	for v := first; v <= hi+step/1e6; v += step {
		// Snap values like 0.30000000000000004 back onto the grid.
		v = math.Round(v/step) * step
		if v == 0 {
			v = 0 // normalize -0
		}
		ticks = append(ticks, Tick{Value: v, Label: formatTick(v, step)})
	}
	return ticks
}

// niceStep rounds a raw step up to 1, 2 or 5 times a power of ten.
func niceStep(raw float64) float64 {
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch frac := raw / mag; {
	case frac <= 1:
		return mag
	case frac <= 2:
		return 2 * mag
	case frac <= 5:
		return 5 * mag
	default:
		return 10 * mag
	}
}

func formatTick(v, step float64) string {
	if math.Abs(v) >= 1e5 || (v != 0 && math.Abs(v) < 1e-4) {
		return strconv.FormatFloat(v, 'e', 1, 64)
	}
	decimals := 0
	if step < 1 {
		decimals = int(math.Ceil(-math.Log10(step)))
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
