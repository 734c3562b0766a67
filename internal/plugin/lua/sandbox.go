package lua

import (
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// Sandbox restricts Lua execution to safe operations.
type Sandbox struct {
	L *lua.LState

	print   func(string)
	modules map[string]lua.LGFunction
	loaded  map[string]lua.LValue
}

// builtinModules are the standard libraries require may return.
var builtinModules = []string{"string", "table", "math"}

// NewSandbox creates a new sandbox for the Lua state. print receives each
// line written by the Lua print function.
func NewSandbox(L *lua.LState, print func(string)) *Sandbox {
	return &Sandbox{
		L:       L,
		print:   print,
		modules: make(map[string]lua.LGFunction),
		loaded:  make(map[string]lua.LValue),
	}
}

// Install sets up the sandbox restrictions.
func (s *Sandbox) Install() {
	dangerousFuncs := []string{
		"dofile",     // Load and execute file
		"loadfile",   // Load file as function
		"load",       // Load string as function
		"loadstring", // Load string as function (deprecated but may exist)
	}
	for _, name := range dangerousFuncs {
		s.L.SetGlobal(name, lua.LNil)
	}

	s.installPrint()
	s.installRequire()
}

// installPrint routes print through the sandbox's sink.
func (s *Sandbox) installPrint() {
	if s.print == nil {
		return
	}
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, n)
		for i := 1; i <= n; i++ {
			parts[i-1] = L.ToStringMeta(L.Get(i)).String()
		}
		s.print(strings.Join(parts, "\t"))
		return 0
	}))
}

// installRequire replaces require with one that resolves only the builtin
// libraries and preloaded modules. Nothing is ever loaded from disk.
func (s *Sandbox) installRequire() {
	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)

		for _, builtin := range builtinModules {
			if name == builtin {
				L.Push(L.GetGlobal(name))
				return 1
			}
		}

		if mod, ok := s.loaded[name]; ok {
			L.Push(mod)
			return 1
		}

		loader, ok := s.modules[name]
		if !ok {
			L.RaiseError("module %q is not available", name)
			return 0
		}

		L.Push(L.NewFunction(loader))
		L.Push(lua.LString(name))
		L.Call(1, 1)
		mod := L.Get(-1)
		if mod == lua.LNil {
			mod = lua.LTrue
			L.Pop(1)
			L.Push(mod)
		}
		s.loaded[name] = mod
		return 1
	}))
}

// Preload registers a module loader for require.
func (s *Sandbox) Preload(name string, loader lua.LGFunction) error {
	if _, ok := s.modules[name]; ok {
		return fmt.Errorf("%w: %s", ErrModuleExists, name)
	}
	s.modules[name] = loader
	return nil
}

// Modules returns the preloaded module names.
func (s *Sandbox) Modules() []string {
	names := make([]string, 0, len(s.modules))
	for name := range s.modules {
		names = append(names, name)
	}
	return names
}
