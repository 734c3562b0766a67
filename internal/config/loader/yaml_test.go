package loader

import (
	"errors"
	"strings"
	"testing"
)

func TestYAMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/inkwell.yaml", `
history:
  maxDepth: 40
  debounce: 120ms
keys:
  redo:
    - Ctrl+Y
`)

	config, err := NewYAMLLoaderWithFS(memfs, "/inkwell.yaml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if v, ok := Lookup(config, "history.maxDepth"); !ok || v != 40 {
		t.Errorf("history.maxDepth = %v (%T), want 40", v, v)
	}
	if v, ok := Lookup(config, "history.debounce"); !ok || v != "120ms" {
		t.Errorf("history.debounce = %v, want 120ms", v)
	}
	redo, ok := Lookup(config, "keys.redo")
	if list, isList := redo.([]any); !ok || !isList || len(list) != 1 || list[0] != "Ctrl+Y" {
		t.Errorf("keys.redo = %#v, want [Ctrl+Y]", redo)
	}
}

func TestYAMLLoader_Empty(t *testing.T) {
	config, err := NewYAMLLoader("").LoadFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	if config == nil || len(config) != 0 {
		t.Errorf("config = %v, want empty map", config)
	}
}

func TestYAMLLoader_NonExistent(t *testing.T) {
	config, err := NewYAMLLoaderWithFS(NewMemFS(), "/missing.yml").Load()
	if err != nil || config != nil {
		t.Errorf("Load() = %v, %v; want nil, nil", config, err)
	}
}

func TestYAMLLoader_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		line int
	}{
		{"syntax", "history:\n  maxDepth: [1, 2\n", 0},
		{"scalar root", "\n- just\n- a list\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			memfs := NewMemFS()
			memfs.AddFile("/bad.yaml", tt.body)

			_, err := NewYAMLLoaderWithFS(memfs, "/bad.yaml").Load()
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("err = %v (%T), want *ParseError", err, err)
			}
			if perr.Path != "/bad.yaml" {
				t.Errorf("Path = %q", perr.Path)
			}
			if tt.line > 0 && perr.Line != tt.line {
				t.Errorf("Line = %d, want %d", perr.Line, tt.line)
			}
		})
	}
}
