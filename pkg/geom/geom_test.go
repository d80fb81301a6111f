package geom

import (
	"math"
	"testing"
)

func TestIntersect(t *testing.T) {
	cases := []struct {
		name string
		a, b Line
		want Point
	}{
		{
			name: "axes",
			a:    LineThrough(Point{-1, 0}, Point{1, 0}),
			b:    LineThrough(Point{0, -1}, Point{0, 1}),
			want: Point{0, 0},
		},
		{
			name: "diagonals",
			a:    LineThrough(Point{0, 0}, Point{2, 2}),
			b:    LineThrough(Point{0, 2}, Point{2, 0}),
			want: Point{1, 1},
		},
		{
			name: "offset",
			a:    LineThrough(Point{1, 1}, Point{4, 1}),
			b:    LineThrough(Point{3, 0}, Point{3, 5}),
			want: Point{3, 1},
		},
	}

	for _, tc := range cases {
		got, err := Intersect(tc.a, tc.b)
		if err != nil {
			t.Fatalf("%s: Intersect returned error: %v", tc.name, err)
		}
		if !IsClose(got.X, tc.want.X) || !IsClose(got.Y, tc.want.Y) {
			t.Fatalf("%s: Intersect = (%v, %v), want (%v, %v)", tc.name, got.X, got.Y, tc.want.X, tc.want.Y)
		}
	}
}

func TestIntersectParallel(t *testing.T) {
	a := LineThrough(Point{0, 0}, Point{1, 1})
	b := LineThrough(Point{0, 1}, Point{1, 2})
	if _, err := Intersect(a, b); err != ErrNoIntersection {
		t.Fatalf("Intersect(parallel) error = %v, want ErrNoIntersection", err)
	}

	// Coincident lines have no unique intersection either.
	c := LineThrough(Point{0, 0}, Point{2, 2})
	if _, err := Intersect(a, c); err != ErrNoIntersection {
		t.Fatalf("Intersect(coincident) error = %v, want ErrNoIntersection", err)
	}
}

func TestCircleIntersection(t *testing.T) {
	// Two points one unit apart on a unit circle: centers sit at the two
	// intersections of the point-centered circles.
	c0, c1, err := CircleIntersection(0, 0, 1, 0, 1)
	if err != nil {
		t.Fatalf("CircleIntersection returned error: %v", err)
	}

	for _, c := range []Point{c0, c1} {
		if d := c.Dist(Point{0, 0}); !IsClose(d, 1) {
			t.Fatalf("center %v is %v from first point, want 1", c, d)
		}
		if d := c.Dist(Point{1, 0}); !IsClose(d, 1) {
			t.Fatalf("center %v is %v from second point, want 1", c, d)
		}
	}

	// Candidates are mirror images across the chord.
	if !IsClose(c0.Y, -c1.Y) || !IsClose(c0.X, c1.X) {
		t.Fatalf("candidates %v and %v are not mirrored across the chord", c0, c1)
	}
}

func TestCircleIntersectionDegenerate(t *testing.T) {
	if _, _, err := CircleIntersection(0, 0, 10, 0, 1); err != ErrNoCircle {
		t.Fatalf("separation > diameter: error = %v, want ErrNoCircle", err)
	}
	if _, _, err := CircleIntersection(0, 0, 1, 0, 0); err != ErrNoCircle {
		t.Fatalf("zero radius: error = %v, want ErrNoCircle", err)
	}
	if _, _, err := CircleIntersection(2, 3, 2, 3, 1); err != ErrNoCircle {
		t.Fatalf("identical points: error = %v, want ErrNoCircle", err)
	}
}

func TestCircleIntersectionDiameter(t *testing.T) {
	// Points exactly a diameter apart: both candidates collapse onto the
	// chord midpoint.
	c0, c1, err := CircleIntersection(-1, 0, 1, 0, 1)
	if err != nil {
		t.Fatalf("CircleIntersection returned error: %v", err)
	}
	if !IsClose(c0.X, 0) || !IsClose(c0.Y, 0) {
		t.Fatalf("first candidate = %v, want origin", c0)
	}
	if math.Abs(c0.X-c1.X) > 1e-9 || math.Abs(c0.Y-c1.Y) > 1e-9 {
		t.Fatalf("candidates differ: %v vs %v", c0, c1)
	}
}
