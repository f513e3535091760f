package ui

import (
	"ScoreViewer/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// ToolPicker is a row of toggle buttons, one per tool. Tapping the active
// tool again deselects it, handing input back to the page viewer.
type ToolPicker struct {
	buttons  map[state.Tool]*widget.Button
	order    []state.Tool
	current  state.Tool
	onChange func(state.Tool)
}

func NewToolPicker(onChange func(state.Tool)) *ToolPicker {
	p := &ToolPicker{
		buttons:  make(map[state.Tool]*widget.Button),
		onChange: onChange,
	}
	add := func(tool state.Tool, label string, icon fyne.Resource) {
		p.buttons[tool] = widget.NewButtonWithIcon(label, icon, func() { p.Toggle(tool) })
		p.order = append(p.order, tool)
	}
	add(state.ToolPen, "Pen", theme.DocumentCreateIcon())
	add(state.ToolHighlighter, "Highlight", theme.ColorPaletteIcon())
	add(state.ToolText, "Text", theme.FileTextIcon())
	add(state.ToolEraser, "Eraser", theme.DeleteIcon())
	return p
}

// Current returns the selected tool.
func (p *ToolPicker) Current() state.Tool { return p.current }

// Toggle selects tool, or deselects it when it is already selected.
func (p *ToolPicker) Toggle(tool state.Tool) {
	if p.current == tool {
		tool = state.ToolNone
	}
	p.Select(tool)
	if p.onChange != nil {
		p.onChange(tool)
	}
}

// Select highlights tool without notifying the listener. It is used when the
// tool was changed elsewhere, such as by a remote device.
func (p *ToolPicker) Select(tool state.Tool) {
	p.current = tool
	for t, b := range p.buttons {
		if t == tool {
			b.Importance = widget.HighImportance
		} else {
			b.Importance = widget.MediumImportance
		}
		b.Refresh()
	}
}

// Object returns the widgets to place in a layout.
func (p *ToolPicker) Object() fyne.CanvasObject {
	row := container.NewHBox()
	for _, t := range p.order {
		row.Add(p.buttons[t])
	}
	return row
}
