package state

// History is the global, chronological undo log for all pages. Undoing
// always reverts the most recent action, whatever page it happened on.
type History struct {
	undo []Action
	redo []Action
}

// Record pushes a committed action. It does not touch the redo stack; the
// caller clears it once per user-initiated mutation.
func (h *History) Record(a Action) {
	h.undo = append(h.undo, a)
}

// ClearRedo drops everything that could be redone.
func (h *History) ClearRedo() {
	clear(h.redo)
	h.redo = h.redo[:0]
}

// Undo applies the inverse of the newest action to pages and moves it onto
// the redo stack.
func (h *History) Undo(pages *Pages) (Action, bool) {
	a, ok := pop(&h.undo)
	if !ok {
		return Action{}, false
	}
	switch a.Op {
	case OpAdd:
		pages.Remove(a.Page, a.Stroke.ID())
	case OpRemove:
		pages.Append(a.Page, a.Stroke)
	}
	h.redo = append(h.redo, a)
	return a, true
}

// Redo reapplies the most recently undone action and moves it back onto the
// undo stack.
func (h *History) Redo(pages *Pages) (Action, bool) {
	a, ok := pop(&h.redo)
	if !ok {
		return Action{}, false
	}
	switch a.Op {
	case OpAdd:
		pages.Append(a.Page, a.Stroke)
	case OpRemove:
		pages.Remove(a.Page, a.Stroke.ID())
	}
	h.undo = append(h.undo, a)
	return a, true
}

func (h *History) PeekUndo() (Action, bool) { return peek(h.undo) }
func (h *History) PeekRedo() (Action, bool) { return peek(h.redo) }

func (h *History) UndoLen() int { return len(h.undo) }
func (h *History) RedoLen() int { return len(h.redo) }

func pop(stack *[]Action) (Action, bool) {
	s := *stack
	if len(s) == 0 {
		return Action{}, false
	}
	a := s[len(s)-1]
	s[len(s)-1] = Action{}
	*stack = s[:len(s)-1]
	return a, true
}

func peek(stack []Action) (Action, bool) {
	if len(stack) == 0 {
		return Action{}, false
	}
	return stack[len(stack)-1], true
}
