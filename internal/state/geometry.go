package state

// DistanceToSegment returns the distance from p to the closest point of the
// segment ab. A zero-length segment degrades to the distance from p to a.
func DistanceToSegment(p, a, b Point) float64 {
	pv, av := p.vec(), a.vec()
	d := b.vec().Sub(av)
	lenSq := d.Dot(d)
	if lenSq == 0 {
		return pv.Sub(av).Length()
	}
	ap := pv.Sub(av)
	t := ap.Dot(d) / lenSq
	t = max(0, min(1, t))
	return pv.Sub(av.Add(d.Mul(t))).Length()
}

// HitTest reports whether p touches the visible extent of s.
//
// A path is hit when p is within the stroke width of one of its segments; a
// single-point path counts as one zero-length segment. Text is hit inside the
// box spanned by its measured width and font size above the baseline.
func HitTest(s Stroke, p Point) bool {
	switch s := s.(type) {
	case *PathStroke:
		return hitPath(s, p)
	case *TextStroke:
		return contains(s.Bounds(), p)
	}
	return false
}

func hitPath(s *PathStroke, p Point) bool {
	pts := s.points
	r := s.style.Width
	if len(pts) == 0 || !contains(s.Bounds(), p) {
		return false
	}
	if len(pts) == 1 {
		return DistanceToSegment(p, pts[0], pts[0]) <= r
	}
	for i := 1; i < len(pts); i++ {
		if DistanceToSegment(p, pts[i-1], pts[i]) <= r {
			return true
		}
	}
	return false
}
