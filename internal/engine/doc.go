// Package engine provides the public API of the edit history system.
//
// The engine attaches editing surfaces under string ids and keeps an undo
// history of whole-document snapshots for each one. It decides when an edit
// has happened, makes sure undo/redo never records itself, and keeps the
// user's cursor or selection where it was across a full document
// replacement.
//
// # Architecture
//
// The engine is a thin facade over:
//
//   - history: instances, the change detector, the replay controller and
//     the instance registry
//   - offset: selection <-> linear offset translation
//   - schedule: the cancellable timers everything is sequenced with
//   - document: the surface boundary
//
// # Threading
//
// The engine is not safe for concurrent use. Call it, and let surfaces
// deliver their signals, on the goroutine that runs the scheduler. Work
// arriving on other goroutines (terminal input, config reloads) should be
// handed over with schedule.Loop.Post.
//
// # Basic Usage
//
//	loop := schedule.NewLoop()
//	e := engine.New(loop, engine.WithLogger(log))
//
//	surface := document.NewHTMLSurface("<p>Hello</p>")
//	id, _ := e.Attach("", surface)
//
//	// Typing is recorded automatically from the surface's signals.
//	// A plugin about to restructure the document records first:
//	e.RecordState(id, "Bold")
//
//	e.Undo(id)
//	e.Redo(id)
//
// # Structural Edits
//
// Edit wraps a change made in code so that it undoes in one step:
//
//	e.Edit(id, "Insert table", func(s document.Surface) {
//	    s.SetContent(withTable(s.Content()))
//	})
//
// # Shortcuts
//
// HandleKey maps primary+Z to undo and primary+Shift+Z or Ctrl+Y to redo,
// where primary is Ctrl or Meta. Bindings are replaceable with WithBindings.
package engine
