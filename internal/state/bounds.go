package state

import "seehuhn.de/go/geom/rect"

// boundsOf returns the smallest box holding points, grown by pad on every
// side. Y grows downward in view space, so LLy is the top edge.
func boundsOf(points []Point, pad float64) rect.Rect {
	if len(points) == 0 {
		return rect.Rect{}
	}
	r := rect.Rect{LLx: points[0].X, LLy: points[0].Y, URx: points[0].X, URy: points[0].Y}
	for _, p := range points[1:] {
		r.Add(p.X, p.Y)
	}
	r.LLx -= pad
	r.LLy -= pad
	r.URx += pad
	r.URy += pad
	return r
}

// contains reports whether p lies inside r, edges included.
func contains(r rect.Rect, p Point) bool {
	return r.Covers(rect.Rect{LLx: p.X, LLy: p.Y, URx: p.X, URy: p.Y})
}
