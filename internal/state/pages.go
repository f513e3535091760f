package state

import "slices"

// Pages buckets strokes by page index. Order within a page is z-order.
type Pages struct {
	byPage map[int][]Stroke
}

func NewPages() *Pages {
	return &Pages{byPage: make(map[int][]Stroke)}
}

// Append puts s on top of page.
func (p *Pages) Append(page int, s Stroke) {
	p.byPage[page] = append(p.byPage[page], s)
}

// Remove takes the stroke with the given id off page.
func (p *Pages) Remove(page int, id StrokeID) bool {
	strokes := p.byPage[page]
	i := slices.IndexFunc(strokes, func(s Stroke) bool { return s.ID() == id })
	if i < 0 {
		return false
	}
	p.byPage[page] = slices.Delete(strokes, i, i+1)
	return true
}

// Contains reports whether the stroke with the given id is on page.
func (p *Pages) Contains(page int, id StrokeID) bool {
	return slices.ContainsFunc(p.byPage[page], func(s Stroke) bool { return s.ID() == id })
}

// Strokes returns a copy of page's strokes, bottom first.
func (p *Pages) Strokes(page int) []Stroke {
	return slices.Clone(p.byPage[page])
}

// Len returns the number of strokes on page.
func (p *Pages) Len(page int) int {
	return len(p.byPage[page])
}

// Indexes returns the pages holding at least one stroke, ascending.
func (p *Pages) Indexes() []int {
	var idx []int
	for page, strokes := range p.byPage {
		if len(strokes) > 0 {
			idx = append(idx, page)
		}
	}
	slices.Sort(idx)
	return idx
}
