package plot

import (
	"math"
	"sort"

	"github.com/openbeamline/beamplot/pkg/geom"
	"github.com/openbeamline/beamplot/pkg/tao"
)

// BuildingWalls are the facility outlines drawn behind a floor plan:
// straight wall segments and arc sections between consecutive vertices.
type BuildingWalls struct {
	Lines   []*CurveLine
	Patches []Patch
}

// Draw emits all wall segments and arcs.
func (w *BuildingWalls) Draw(s Surface) {
	for _, l := range w.Lines {
		s.Line(l)
	}
	for _, p := range w.Patches {
		s.Patch(p)
	}
}

// NewBuildingWalls assembles walls from vertex rows and per-wall styling.
// Vertices of each wall are traversed in reverse point order; a vertex with
// a nonzero radius connects to its predecessor with an arc of that radius,
// otherwise with a straight segment.
func NewBuildingWalls(points []*tao.BuildingWallPoint, walls []*tao.BuildingWallInfo) *BuildingWalls {
	styleByIndex := make(map[int]*tao.BuildingWallInfo, len(walls))
	for _, w := range walls {
		styleByIndex[w.Index] = w
	}

	byWall := make(map[int][]*tao.BuildingWallPoint)
	var wallOrder []int
	for _, p := range points {
		if _, seen := byWall[p.Index]; !seen {
			wallOrder = append(wallOrder, p.Index)
		}
		byWall[p.Index] = append(byWall[p.Index], p)
	}
	sort.Ints(wallOrder)

	out := &BuildingWalls{}
	for _, wallIdx := range wallOrder {
		info := styleByIndex[wallIdx]
		if info == nil {
			continue
		}
		color := NormalizeColor(info.Color)

		vertices := byWall[wallIdx]
		sort.Slice(vertices, func(i, j int) bool { return vertices[i].Point > vertices[j].Point })

		for i := 0; i+1 < len(vertices); i++ {
			p0, p1 := vertices[i], vertices[i+1]
			if geom.IsClose(p0.Radius, 0) {
				out.Lines = append(out.Lines, &CurveLine{
					Points: []geom.Point{
						{X: p0.OffsetX, Y: p0.OffsetY},
						{X: p1.OffsetX, Y: p1.OffsetY},
					},
					Color: color,
					Width: info.LineWidth,
				})
			} else {
				arc := wallArc(p1.OffsetX, p1.OffsetY, p0.OffsetX, p0.OffsetY, p0.Radius, color, info.LineWidth)
				if arc != nil {
					out.Patches = append(out.Patches, arc)
				}
			}
		}
	}
	return out
}

// wallArc builds the arc from (mx,my) to (kx,ky) with the signed radius of
// the k vertex. The chord midpoint admits two candidate centers; the sign
// of the radius picks the bulge side.
func wallArc(mx, my, kx, ky, radius float64, color Color, width float64) Patch {
	c0, c1, err := geom.CircleIntersection(mx, my, kx, ky, math.Abs(radius))
	if err != nil {
		return nil
	}
	center := c0
	if radius < 0 {
		center = c1
	}

	mAngle := 360 + degreesAtan2(my-center.Y, mx-center.X)
	kAngle := 360 + degreesAtan2(ky-center.Y, kx-center.X)
	t1, t2 := math.Min(mAngle, kAngle), math.Max(mAngle, kAngle)
	if math.Abs(kAngle-mAngle) > 180 {
		t1, t2 = t2, t1
	}

	return &PatchArc{
		Center: center,
		Width:  2 * math.Abs(radius),
		Height: 2 * math.Abs(radius),
		Theta1: t1,
		Theta2: t2,
		PatchStyle: PatchStyle{
			Color:     color,
			LineWidth: width,
			Fill:      false,
		},
	}
}
