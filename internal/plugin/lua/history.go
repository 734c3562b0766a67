package lua

import (
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/inkwell/internal/document"
	"github.com/dshills/inkwell/internal/engine"
	"github.com/dshills/inkwell/internal/event"
	"github.com/dshills/inkwell/internal/logging"
	"github.com/dshills/inkwell/internal/offset"
)

// HistoryModule is the require name of the history bindings.
const HistoryModule = "inkwell.history"

// textEditor is implemented by surfaces that support caret-level edits.
type textEditor interface {
	Text() string
	InsertText(text string)
	DeleteBackward() bool
}

type historyModule struct {
	state  *State
	eng    *engine.Engine
	bridge *Bridge
	mod    *lua.LTable
	log    *logging.Logger

	cancels []func()
}

// OpenHistory binds eng into s as the HistoryModule module and the global
// "history". Scripts run on the engine's goroutine.
func OpenHistory(s *State, eng *engine.Engine) error {
	h := &historyModule{state: s, eng: eng, bridge: NewBridge(s.L), log: s.log}
	h.mod = s.L.SetFuncs(s.L.NewTable(), map[string]lua.LGFunction{
		"record":    h.record,
		"undo":      h.undo,
		"redo":      h.redo,
		"clear":     h.clear,
		"cleanup":   h.cleanup,
		"info":      h.info,
		"undo_list": h.undoList,
		"redo_list": h.redoList,
		"ids":       h.ids,
		"limits":    h.limits,
		"configure": h.configure,
		"edit":      h.edit,
		"on":        h.on,
	})
	s.OnClose(h.unsubscribeAll)

	if err := s.Preload(HistoryModule, func(L *lua.LState) int {
		L.Push(h.mod)
		return 1
	}); err != nil {
		return err
	}
	s.SetGlobal("history", h.mod)
	return nil
}

func (h *historyModule) record(L *lua.LState) int {
	id := L.CheckString(1)
	labels := make([]string, 0, L.GetTop()-1)
	for i := 2; i <= L.GetTop(); i++ {
		labels = append(labels, L.CheckString(i))
	}
	L.Push(lua.LBool(h.eng.RecordState(id, labels...)))
	return 1
}

func (h *historyModule) undo(L *lua.LState) int {
	L.Push(lua.LBool(h.eng.Undo(L.CheckString(1))))
	return 1
}

func (h *historyModule) redo(L *lua.LState) int {
	L.Push(lua.LBool(h.eng.Redo(L.CheckString(1))))
	return 1
}

func (h *historyModule) clear(L *lua.LState) int {
	L.Push(lua.LBool(h.eng.ClearHistory(L.CheckString(1))))
	return 1
}

func (h *historyModule) cleanup(L *lua.LState) int {
	L.Push(lua.LBool(h.eng.Cleanup(L.CheckString(1))))
	return 1
}

func (h *historyModule) info(L *lua.LState) int {
	info, ok := h.eng.DebugInfo(L.CheckString(1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(h.bridge.ToLuaValue(map[string]any{
		"id":               info.ID,
		"undo_count":       info.UndoCount,
		"redo_count":       info.RedoCount,
		"mode":             info.Mode,
		"phase":            info.Phase,
		"last_capture":     info.LastCaptureTime,
		"max_depth":        info.MaxDepth,
		"pending_capture":  info.PendingCapture,
		"debounce_pending": info.DebouncePending,
	}))
	return 1
}

func (h *historyModule) undoList(L *lua.LState) int {
	entries, ok := h.eng.UndoInfo(L.CheckString(1))
	return h.pushEntries(L, entries, ok)
}

func (h *historyModule) redoList(L *lua.LState) int {
	entries, ok := h.eng.RedoInfo(L.CheckString(1))
	return h.pushEntries(L, entries, ok)
}

// pushEntries pushes entries newest first.
func (h *historyModule) pushEntries(L *lua.LState, entries []engine.EntryInfo, ok bool) int {
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	list := make([]any, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		list = append(list, map[string]any{
			"label": entries[i].Label,
			"time":  entries[i].Time,
			"size":  entries[i].Size,
		})
	}
	L.Push(h.bridge.ToLuaValue(list))
	return 1
}

func (h *historyModule) ids(L *lua.LState) int {
	L.Push(h.bridge.ToLuaValue(h.eng.IDs()))
	return 1
}

func (h *historyModule) limits(L *lua.LState) int {
	L.Push(h.limitsTable())
	return 1
}

func (h *historyModule) limitsTable() lua.LValue {
	l := h.eng.Limits()
	return h.bridge.ToLuaValue(map[string]any{
		"max_depth":    l.MaxDepth,
		"debounce":     l.Debounce,
		"min_interval": l.MinInterval,
	})
}

// configure takes a table with any of max_depth, debounce and min_interval
// (milliseconds) and applies it over the current limits.
func (h *historyModule) configure(L *lua.LState) int {
	t := L.CheckTable(1)
	l := h.eng.Limits()
	if n, ok := h.bridge.GetTableInt(t, "max_depth"); ok {
		l.MaxDepth = n
	}
	if n, ok := h.bridge.GetTableInt(t, "debounce"); ok {
		l.Debounce = time.Duration(n) * time.Millisecond
	}
	if n, ok := h.bridge.GetTableInt(t, "min_interval"); ok {
		l.MinInterval = time.Duration(n) * time.Millisecond
	}
	h.eng.Configure(l)
	L.Push(h.limitsTable())
	return 1
}

// on subscribes a Lua function to history events matching a topic pattern
// such as "history.captured" or "history.*". The handler receives a table
// with topic, id, label, undo_count and redo_count. A handler fired outside
// a script is bounded by the execution timeout. on returns a function that
// cancels the subscription.
func (h *historyModule) on(L *lua.LState) int {
	pattern := event.Topic(L.CheckString(1))
	fn := L.CheckFunction(2)

	cancel, err := h.eng.Events().Subscribe(pattern, func(ev event.Event) {
		err := h.state.Invoke(func() error {
			_, err := h.bridge.CallFunc(fn, h.eventTable(ev))
			return err
		})
		if err != nil {
			h.log.Warn("handler for %s: %v", ev.Topic, err)
		}
	})
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	h.cancels = append(h.cancels, cancel)

	L.Push(L.NewFunction(func(L *lua.LState) int {
		cancel()
		return 0
	}))
	return 1
}

func (h *historyModule) eventTable(ev event.Event) map[string]any {
	t := map[string]any{
		"topic": ev.Topic.String(),
		"id":    ev.Source,
	}
	if c, ok := ev.Payload.(engine.Change); ok {
		t["label"] = c.Label
		t["undo_count"] = c.Info.UndoCount
		t["redo_count"] = c.Info.RedoCount
	}
	return t
}

func (h *historyModule) unsubscribeAll() {
	for _, cancel := range h.cancels {
		cancel()
	}
	h.cancels = nil
}

// edit runs a Lua function as one undoable change. The function receives a
// document handle; errors it raises are re-raised after the change is
// recorded.
func (h *historyModule) edit(L *lua.LState) int {
	id := L.CheckString(1)
	label := L.OptString(2, "")
	fn := L.CheckFunction(3)

	var callErr error
	changed := h.eng.Edit(id, label, func(surface document.Surface) {
		_, callErr = h.bridge.CallFunc(fn, h.docTable(L, surface))
	})
	if callErr != nil {
		L.RaiseError("edit %q: %s", label, callErr.Error())
		return 0
	}
	L.Push(lua.LBool(changed))
	return 1
}

// docTable exposes surface to a script. Methods use colon syntax.
func (h *historyModule) docTable(L *lua.LState, surface document.Surface) *lua.LTable {
	editor := func(L *lua.LState) textEditor {
		te, ok := surface.(textEditor)
		if !ok {
			L.RaiseError("surface does not support text editing")
		}
		return te
	}

	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"content": func(L *lua.LState) int {
			L.Push(lua.LString(surface.Content()))
			return 1
		},
		"set_content": func(L *lua.LState) int {
			surface.SetContent(L.CheckString(2))
			return 0
		},
		"length": func(L *lua.LState) int {
			L.Push(lua.LNumber(offset.Length(surface.Root())))
			return 1
		},
		"text": func(L *lua.LState) int {
			L.Push(lua.LString(editor(L).Text()))
			return 1
		},
		"insert": func(L *lua.LState) int {
			editor(L).InsertText(L.CheckString(2))
			return 0
		},
		"delete_backward": func(L *lua.LState) int {
			L.Push(lua.LBool(editor(L).DeleteBackward()))
			return 1
		},
		"selection": func(L *lua.LState) int {
			sel, ok := surface.Selection()
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			o, err := offset.ToOffsets(surface.Root(), sel)
			if err != nil {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LNumber(o.Start))
			L.Push(lua.LNumber(o.End))
			L.Push(lua.LBool(o.Backward))
			return 3
		},
		"select": func(L *lua.LState) int {
			start := L.CheckInt(2)
			o := offset.Caret(start)
			if L.GetTop() >= 3 {
				o = offset.Span(start, L.CheckInt(3))
			}
			sel, ok := offset.FromOffsets(surface.Root(), o)
			if ok {
				surface.SetSelection(sel)
			}
			L.Push(lua.LBool(ok))
			return 1
		},
	})
}
