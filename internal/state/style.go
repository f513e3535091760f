package state

import "image/color"

const textFontSize = 48

var (
	opaqueBlack       = color.NRGBA{A: 0xff}
	translucentYellow = color.NRGBA{R: 0xff, G: 0xff, A: 0x33}
)

// StyleFor returns the style that strokes made with tool are drawn in.
// ToolNone has no style and yields the zero value.
func StyleFor(tool Tool) Style {
	switch tool {
	case ToolPen:
		return Style{Width: 5, Color: opaqueBlack}
	case ToolHighlighter:
		return Style{Width: 30, Color: translucentYellow}
	case ToolEraser:
		return Style{Width: 50, Erase: true}
	case ToolText:
		return Style{FontSize: textFontSize, Color: opaqueBlack, Fill: true}
	}
	return Style{}
}
