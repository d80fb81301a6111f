package plot

import (
	"context"
	"errors"
	"testing"

	"github.com/openbeamline/beamplot/pkg/tao"
)

func TestParseShape(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Shape
	}{
		{"box", ShapeBox},
		{"var:box", ShapeBox},
		{"XBOX", ShapeXBox},
		{"u_triangle", ShapeUTriangle},
	} {
		got, err := ParseShape(tc.in)
		if err != nil {
			t.Fatalf("ParseShape(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseShape(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
	_, err := ParseShape("blob")
	var unknown *UnknownShapeError
	if !errors.As(err, &unknown) {
		t.Fatalf("got %v, want UnknownShapeError", err)
	}
}

func TestRegularShape(t *testing.T) {
	patches, lines, annotations := regularShape(10, 12, 1, -1, 2, Blue, ShapeBox, "Q1", -1.5)
	if len(patches) != 1 || len(lines) != 0 {
		t.Fatalf("box: %d patches, %d lines", len(patches), len(lines))
	}
	rect := patches[0].(*PatchRect)
	if rect.XY.X != 10 || rect.XY.Y != 1 || rect.Width != 2 || rect.Height != -2 {
		t.Fatalf("box rect = %+v", rect)
	}
	if len(annotations) != 1 {
		t.Fatalf("annotations = %d", len(annotations))
	}
	a := annotations[0]
	if a.X != 11 || a.Y != 1.1*-1.5 {
		t.Fatalf("label at (%v, %v)", a.X, a.Y)
	}
	if a.Rotation != 90 || a.HAlign != AlignCenter || a.VAlign != AlignTop {
		t.Fatalf("label style = %+v", a)
	}

	_, lines, _ = regularShape(10, 12, 1, -1, 2, Blue, ShapeXBox, "", -1.5)
	if len(lines) != 2 {
		t.Fatalf("xbox: %d cross lines, want 2", len(lines))
	}

	patches, lines, _ = regularShape(10, 12, 1, -1, 2, Blue, ShapeDiamond, "", -1.5)
	if len(patches) != 0 || len(lines) != 1 || len(lines[0]) != 5 {
		t.Fatalf("diamond: %d patches, lines %v", len(patches), lines)
	}

	patches, _, _ = regularShape(10, 12, 1, -1, 2, Blue, ShapeUTriangle, "", -1.5)
	poly := patches[0].(*PatchPolygon)
	if len(poly.Points) != 3 {
		t.Fatalf("triangle points = %v", poly.Points)
	}
}

func TestWrappedShape(t *testing.T) {
	// s1 >= s2 means the element wraps around the lattice ends.
	s1, s2 := 90.0, 10.0
	lines, annotations, err := wrappedShape(s1, s2, 1, -1, Blue, ShapeBox, "WRAP", 0, 100, -1.5)
	if err != nil {
		t.Fatalf("wrappedShape: %v", err)
	}
	if len(lines) != 6 {
		t.Fatalf("box wrap: %d segments, want 6", len(lines))
	}
	if len(annotations) != 2 {
		t.Fatalf("wrap labels = %d, want one per half", len(annotations))
	}

	sMin := max(0.0, s1+(s1+s2)/2)
	sMax := min(100.0, s1-(s1+s2)/2)
	if annotations[0].X != sMax || annotations[1].X != sMin {
		t.Fatalf("labels at %v and %v, want %v and %v",
			annotations[0].X, annotations[1].X, sMax, sMin)
	}

	_, _, err = wrappedShape(s1, s2, 1, -1, Blue, ShapeUTriangle, "W", 0, 100, -1.5)
	var unknown *UnknownShapeError
	if !errors.As(err, &unknown) {
		t.Fatalf("triangles cannot wrap: got %v", err)
	}
}

func layoutClient() *fakeClient {
	f := newFakeClient()
	f.graphs["lat_layout.g"] = &tao.GraphInfo{
		Type:       "lat_layout",
		XMin:       0, XMax: 100,
		YMin:       -2, YMax: 2,
		IxUniverse: -1,
		IxBranch:   0,
	}
	f.regions["lat_layout"] = &tao.RegionInfo{XAxisType: "s"}
	f.layout = []*tao.LatLayoutInfo{
		{Index: 1, SStart: 10, SEnd: 12, Y1: 1, Y2: 1, LineWidth: 2, Color: "blue", Shape: "box", LabelName: "Q1"},
		{Index: 2, SStart: 20, SEnd: 22, Y1: 2, Y2: 2, LineWidth: 1, Color: "red", Shape: "blob", LabelName: "BAD"},
	}
	return f
}

func TestNewLatticeLayoutGraph(t *testing.T) {
	f := layoutClient()
	g, err := NewLatticeLayoutGraph(context.Background(), f, "lat_layout", "g", nil, nil)
	if err != nil {
		t.Fatalf("NewLatticeLayoutGraph: %v", err)
	}
	if g.Kind() != KindLatticeLayout {
		t.Fatalf("kind = %v", g.Kind())
	}
	if g.Universe != 1 {
		t.Fatalf("universe = %d, want -1 resolved to 1", g.Universe)
	}
	// The element with an unknown shape is skipped, not fatal.
	if len(g.Elements) != 1 {
		t.Fatalf("elements = %d, want 1", len(g.Elements))
	}
	// y2_floor is the negated largest reported y2 across all rows,
	// including skipped ones.
	if g.Y2Floor != -2 {
		t.Fatalf("y2 floor = %v, want -2", g.Y2Floor)
	}
	xMax := 100.0
	if g.BorderXLim != [2]float64{0, 1.1 * xMax} {
		t.Fatalf("border xlim = %v", g.BorderXLim)
	}

	el := g.Elements[0]
	// The reported y2 is negated and both offsets scaled.
	rect := el.Patches[0].(*PatchRect)
	if rect.XY.Y != 1 || rect.Height != -2 {
		t.Fatalf("element rect = %+v", rect)
	}

	var rec drawRecorder
	g.Draw(&rec)
	if len(rec.lines) == 0 {
		t.Fatalf("layout drew no lines (zero axis expected)")
	}
	if rec.lines[0].Points[0].Y != 0 || rec.lines[0].Points[1].Y != 0 {
		t.Fatalf("first line should be the zero axis, got %+v", rec.lines[0])
	}
}

func TestNewLatticeLayoutGraphScale(t *testing.T) {
	f := layoutClient()
	f.page.LatLayoutShapeScale = 0.5
	g, err := NewLatticeLayoutGraph(context.Background(), f, "lat_layout", "g", nil, nil)
	if err != nil {
		t.Fatalf("NewLatticeLayoutGraph: %v", err)
	}
	rect := g.Elements[0].Patches[0].(*PatchRect)
	if rect.XY.Y != 0.5 || rect.Height != -1 {
		t.Fatalf("scaled rect = %+v", rect)
	}
}

func TestNewLatticeLayoutGraphEmpty(t *testing.T) {
	f := layoutClient()
	f.layout = []*tao.LatLayoutInfo{}
	_, err := NewLatticeLayoutGraph(context.Background(), f, "lat_layout", "g", nil, nil)
	if !errors.Is(err, ErrNoLayout) {
		t.Fatalf("got %v, want ErrNoLayout", err)
	}
}

func TestLatticeLayoutYMax(t *testing.T) {
	g := &LatticeLayoutGraph{
		Elements: []*LatticeLayoutElement{
			{Info: &tao.LatLayoutInfo{Y1: 1, Y2: 3}},
			{Info: &tao.LatLayoutInfo{Y1: 2, Y2: 1}},
		},
	}
	if got := g.YMax(); got != 3 {
		t.Fatalf("YMax = %v, want 3", got)
	}
}
