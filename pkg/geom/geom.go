// Package geom provides the small 2-D geometry kit used by the plot
// builders: points, infinite lines, and the two intersection routines the
// floor-plan and building-wall constructions depend on.
package geom

import (
	"errors"
	"math"
)

// ErrNoIntersection is returned by Intersect when the two lines are
// parallel or coincident.
var ErrNoIntersection = errors.New("geom: lines do not intersect")

// ErrNoCircle is returned by CircleIntersection when no circle of the given
// radius passes through both points.
var ErrNoCircle = errors.New("geom: points farther apart than the diameter")

// closeTol is the absolute tolerance used by IsClose.
const closeTol = 1e-9

// Point is a position in the 2-D data plane.
type Point struct {
	X float64
	Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// IsClose reports whether a and b are equal within tolerance.
func IsClose(a, b float64) bool {
	return math.Abs(a-b) <= closeTol
}

// Line is an infinite line described by a point on the line and a direction
// vector. The direction need not be normalized.
type Line struct {
	Origin Point
	Dir    Point
}

// LineThrough returns the infinite line through p and q.
func LineThrough(p, q Point) Line {
	return Line{Origin: p, Dir: q.Sub(p)}
}

// Intersect returns the intersection point of two infinite lines.
// Parallel (or coincident) lines yield ErrNoIntersection.
func Intersect(a, b Line) (Point, error) {
	// Cross product of the direction vectors; zero means parallel.
	det := a.Dir.X*b.Dir.Y - a.Dir.Y*b.Dir.X
	if math.Abs(det) <= closeTol*(math.Abs(a.Dir.X*b.Dir.Y)+math.Abs(a.Dir.Y*b.Dir.X)+1) {
		return Point{}, ErrNoIntersection
	}

	d := b.Origin.Sub(a.Origin)
	t := (d.X*b.Dir.Y - d.Y*b.Dir.X) / det
	return Point{
		X: a.Origin.X + t*a.Dir.X,
		Y: a.Origin.Y + t*a.Dir.Y,
	}, nil
}

// CircleIntersection returns the two candidate centers of a circle with the
// given radius passing through (mx, my) and (kx, ky). The candidates are
// mirror images across the chord; they coincide when the points are exactly
// a diameter apart. ErrNoCircle is returned when the points are farther
// apart than 2*radius or the radius is not positive.
func CircleIntersection(mx, my, kx, ky, radius float64) (Point, Point, error) {
	if radius <= 0 {
		return Point{}, Point{}, ErrNoCircle
	}

	dx := kx - mx
	dy := ky - my
	chord := math.Hypot(dx, dy)
	if chord > 2*radius || chord == 0 {
		return Point{}, Point{}, ErrNoCircle
	}

	// Midpoint of the chord plus/minus the half-sagitta along the normal.
	midX := (mx + kx) / 2
	midY := (my + ky) / 2
	h := math.Sqrt(radius*radius - (chord/2)*(chord/2))

	nx := -dy / chord
	ny := dx / chord

	c0 := Point{X: midX + h*nx, Y: midY + h*ny}
	c1 := Point{X: midX - h*nx, Y: midY - h*ny}
	return c0, c1, nil
}
