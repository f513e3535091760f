// Package export draws the annotation layer of one page as a vector sheet,
// for display on remote devices.
package export

import (
	"fmt"
	"io"

	"ScoreViewer/internal/state"

	"github.com/jung-kurt/gofpdf"
)

// Size is the sheet size in view units; one unit becomes one point.
type Size struct {
	Width, Height float64
}

// WritePage writes strokes, bottom first, as a single-page PDF to w.
func WritePage(w io.Writer, strokes []state.Stroke, size Size) error {
	if size.Width <= 0 || size.Height <= 0 {
		return fmt.Errorf("invalid sheet size %gx%g", size.Width, size.Height)
	}
	p := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: size.Width, Ht: size.Height},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()
	p.SetLineCapStyle("round")
	p.SetLineJoinStyle("round")

	for _, s := range strokes {
		st := s.Style()
		if st.Erase {
			continue
		}
		p.SetAlpha(float64(st.Color.A)/255, "Normal")
		switch s := s.(type) {
		case *state.PathStroke:
			drawPath(p, s, st)
		case *state.TextStroke:
			p.SetTextColor(int(st.Color.R), int(st.Color.G), int(st.Color.B))
			p.SetFont("Helvetica", "", st.FontSize)
			at := s.At()
			p.Text(at.X, at.Y, s.Text())
		}
	}

	if err := p.Output(w); err != nil {
		return fmt.Errorf("write sheet: %w", err)
	}
	return nil
}

func drawPath(p *gofpdf.Fpdf, s *state.PathStroke, st state.Style) {
	pts := s.Points()
	p.SetDrawColor(int(st.Color.R), int(st.Color.G), int(st.Color.B))
	p.SetLineWidth(st.Width)
	if len(pts) == 1 {
		// a tap leaves a dot as wide as the pen
		p.SetFillColor(int(st.Color.R), int(st.Color.G), int(st.Color.B))
		p.Circle(pts[0].X, pts[0].Y, st.Width/2, "F")
		return
	}
	for i := 1; i < len(pts); i++ {
		p.Line(pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y)
	}
}
