// Package lua embeds a sandboxed gopher-lua runtime for editor scripts.
//
// # State
//
// The State type manages a Lua runtime with sandboxing:
//
//	state, err := lua.NewState(
//	    lua.WithExecutionTimeout(2 * time.Second),
//	    lua.WithLogger(log),
//	)
//	if err != nil {
//	    return err
//	}
//	defer state.Close()
//
// # Sandbox
//
// Only the base, string, table and math libraries are opened. dofile,
// loadfile, load and loadstring are removed, print goes to the state's
// output, and require resolves only the standard libraries and modules
// registered with State.Preload.
//
// # History Module
//
// OpenHistory exposes an engine.Engine as the "inkwell.history" module,
// also bound to the global "history":
//
//	local h = require("inkwell.history")
//	h.edit("main", "wrap in bold", function(doc)
//	    local s, e = doc:selection()
//	    doc:set_content("<b>" .. doc:content() .. "</b>")
//	end)
//	h.undo("main")
//	print(h.info("main").undo_count)
//
// Every function takes the surface id first. Functions report false (or
// nil) for unknown ids rather than raising errors.
package lua
