package lua

import (
	"errors"
	"strings"
	"testing"

	glua "github.com/yuin/gopher-lua"
)

func TestSandboxRemovesLoaders(t *testing.T) {
	state := newTestState(t)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		if v := state.GetGlobal(name); v != glua.LNil {
			t.Errorf("%s = %v, want nil", name, v)
		}
	}
	for _, name := range []string{"io", "os", "debug"} {
		if v := state.GetGlobal(name); v != glua.LNil {
			t.Errorf("library %s is open", name)
		}
	}
}

func TestSandboxRequire(t *testing.T) {
	state := newTestState(t)

	if err := state.DoString(`
local s = require("string")
assert(s == string)
assert(require("math").floor(1.5) == 1)
`); err != nil {
		t.Fatalf("require builtin: %v", err)
	}

	for _, mod := range []string{"io", "os", "debug", "socket", "./evil"} {
		err := state.DoString(`require("` + mod + `")`)
		if err == nil || !strings.Contains(err.Error(), "not available") {
			t.Errorf("require(%q) = %v, want not available", mod, err)
		}
	}
}

func TestSandboxPreload(t *testing.T) {
	state := newTestState(t)

	loads := 0
	err := state.Preload("inkwell.test", func(L *glua.LState) int {
		loads++
		mod := L.NewTable()
		mod.RawSetString("answer", glua.LNumber(42))
		L.Push(mod)
		return 1
	})
	if err != nil {
		t.Fatalf("Preload() error = %v", err)
	}
	if err := state.Preload("inkwell.test", nil); !errors.Is(err, ErrModuleExists) {
		t.Errorf("duplicate Preload() = %v, want ErrModuleExists", err)
	}

	if err := state.DoString(`
local a = require("inkwell.test")
local b = require("inkwell.test")
assert(a == b)
answer = a.answer
`); err != nil {
		t.Fatalf("require preloaded: %v", err)
	}
	if loads != 1 {
		t.Errorf("loader ran %d times, want 1", loads)
	}
	if v := state.GetGlobal("answer"); v != glua.LNumber(42) {
		t.Errorf("answer = %v", v)
	}

	mods := state.Sandbox().Modules()
	if len(mods) != 1 || mods[0] != "inkwell.test" {
		t.Errorf("Modules() = %v", mods)
	}
}

func TestSandboxPreloadWithoutValue(t *testing.T) {
	state := newTestState(t)
	if err := state.Preload("side.effect", func(L *glua.LState) int { return 0 }); err != nil {
		t.Fatal(err)
	}

	if err := state.DoString(`ok = require("side.effect")`); err != nil {
		t.Fatal(err)
	}
	if v := state.GetGlobal("ok"); v != glua.LTrue {
		t.Errorf("require of a valueless module = %v, want true", v)
	}
}
