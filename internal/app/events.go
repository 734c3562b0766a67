package app

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/inkwell/internal/document"
	"github.com/dshills/inkwell/internal/input/key"
	"github.com/dshills/inkwell/internal/offset"
)

// HandleEvent processes one terminal event. It must run on the scheduler's
// goroutine.
func (app *Application) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		app.handleKey(key.FromTcell(ev))
	case *tcell.EventPaste:
		// The end signal re-arms the debounce after the last pasted key.
		app.pasting = ev.Start()
		app.surface.Emit(document.Signal{Kind: document.SignalPaste})
	case *tcell.EventFocus:
		if ev.Focused {
			app.surface.Focus()
		} else {
			app.surface.Blur()
		}
	case *tcell.EventResize:
		app.mu.Lock()
		screen := app.screen
		app.mu.Unlock()
		if screen != nil {
			screen.Sync()
		}
	}
	app.draw()
}

func (app *Application) handleKey(ev key.Event) {
	if ev.IsRune() && ev.Modifiers.HasPrimary() && unicode.ToLower(ev.Rune) == 'q' {
		app.Quit()
		return
	}

	action := app.engine.Bindings().Match(ev)
	if app.engine.HandleKey(DocumentID, ev) {
		app.mu.Lock()
		app.status = action.String()
		app.mu.Unlock()
		return
	}

	// A paste arrives as a burst of keys after one paste signal.
	if !app.pasting {
		app.surface.Emit(document.KeySignal(ev))
	}
	app.applyKey(ev)
}

// applyKey performs the default editing action of ev on the surface.
func (app *Application) applyKey(ev key.Event) {
	switch {
	case ev.IsRune():
		if !ev.Modifiers.HasPrimary() {
			app.surface.InsertText(string(ev.Rune))
		}
	case ev.Modifiers.HasPrimary():
	case ev.Key == key.KeyEnter:
		app.surface.InsertText("\n")
	case ev.Key == key.KeyTab:
		app.surface.InsertText("\t")
	case ev.Key == key.KeyBackspace:
		app.surface.DeleteBackward()
	case ev.Key == key.KeyDelete:
		pos := app.caret()
		if pos < offset.Length(app.surface.Root()) && app.moveCaret(pos+1) {
			app.surface.DeleteBackward()
		}
	case ev.Key == key.KeyLeft:
		app.moveCaret(app.caret() - 1)
	case ev.Key == key.KeyRight:
		app.moveCaret(app.caret() + 1)
	case ev.Key == key.KeyHome, ev.Key == key.KeyUp, ev.Key == key.KeyPageUp:
		app.moveCaret(0)
	case ev.Key == key.KeyEnd, ev.Key == key.KeyDown, ev.Key == key.KeyPageDown:
		app.moveCaret(offset.Length(app.surface.Root()))
	}
}

// caret returns the head of the selection as a content offset, or the end
// of the document when there is no selection.
func (app *Application) caret() int {
	root := app.surface.Root()
	sel, ok := app.surface.Selection()
	if !ok {
		return offset.Length(root)
	}
	o, err := offset.ToOffsets(root, sel)
	if err != nil {
		return offset.Length(root)
	}
	if o.Backward {
		return o.Start
	}
	return o.End
}

func (app *Application) moveCaret(pos int) bool {
	root := app.surface.Root()
	pos = max(0, min(pos, offset.Length(root)))
	sel, ok := offset.FromOffsets(root, offset.Caret(pos))
	if ok {
		app.surface.SetSelection(sel)
	}
	return ok
}
