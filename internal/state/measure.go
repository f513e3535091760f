package state

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// TextMeasurer reports the horizontal advance of text set at size.
type TextMeasurer interface {
	MeasureText(text string, size float64) float64
}

// MeasureFunc adapts a function to TextMeasurer.
type MeasureFunc func(text string, size float64) float64

func (f MeasureFunc) MeasureText(text string, size float64) float64 { return f(text, size) }

// FontMeasurer measures text with the Go Regular face.
type FontMeasurer struct {
	font  *opentype.Font
	faces map[float64]font.Face
}

// NewFontMeasurer parses the embedded Go Regular font.
func NewFontMeasurer() (*FontMeasurer, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse go regular: %w", err)
	}
	return &FontMeasurer{font: f, faces: make(map[float64]font.Face)}, nil
}

func (m *FontMeasurer) MeasureText(text string, size float64) float64 {
	face, ok := m.faces[size]
	if !ok {
		var err error
		face, err = opentype.NewFace(m.font, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingNone,
		})
		if err != nil {
			return 0
		}
		m.faces[size] = face
	}
	return float64(font.MeasureString(face, text)) / 64
}
