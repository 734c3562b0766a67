package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

// failFS fails every read with a non-existence-unrelated error.
type failFS struct{}

func (failFS) ReadFile(string) ([]byte, error)  { return nil, fs.ErrPermission }
func (failFS) Stat(string) (fs.FileInfo, error) { return nil, fs.ErrPermission }

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/inkwell.toml", `
[history]
maxDepth = 50
debounce = "150ms"
minInterval = 250

[logging]
level = "debug"

[keys]
undo = ["Ctrl+Z"]
`)

	loader := NewTOMLLoaderWithFS(memfs, "/inkwell.toml")
	config, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	history, ok := config["history"].(map[string]any)
	if !ok {
		t.Fatal("expected history to be a map")
	}
	if history["maxDepth"] != int64(50) {
		t.Errorf("maxDepth = %v (%T), want 50", history["maxDepth"], history["maxDepth"])
	}
	if history["debounce"] != "150ms" {
		t.Errorf("debounce = %v, want '150ms'", history["debounce"])
	}
	if history["minInterval"] != int64(250) {
		t.Errorf("minInterval = %v, want 250", history["minInterval"])
	}

	keys, ok := config["keys"].(map[string]any)
	if !ok {
		t.Fatal("expected keys to be a map")
	}
	undo, ok := keys["undo"].([]any)
	if !ok || len(undo) != 1 || undo[0] != "Ctrl+Z" {
		t.Errorf("undo = %#v, want [Ctrl+Z]", keys["undo"])
	}
}

func TestTOMLLoader_LoadNonExistent(t *testing.T) {
	memfs := NewMemFS()
	loader := NewTOMLLoaderWithFS(memfs, "/nonexistent.toml")

	config, err := loader.Load()
	if err != nil {
		t.Fatalf("expected no error for non-existent file, got: %v", err)
	}
	if config != nil {
		t.Error("expected nil config for non-existent file")
	}
}

func TestTOMLLoader_ReadError(t *testing.T) {
	loader := NewTOMLLoaderWithFS(failFS{}, "/inkwell.toml")

	_, err := loader.Load()
	if !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("err = %v, want wrapped fs.ErrPermission", err)
	}
}

func TestTOMLLoader_LoadInvalid(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/invalid.toml", `
[history
maxDepth = 4
`)

	loader := NewTOMLLoaderWithFS(memfs, "/invalid.toml")
	_, err := loader.Load()
	if err == nil {
		t.Fatal("expected error for invalid TOML")
	}

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %T", err)
	}
	if perr.Path != "/invalid.toml" {
		t.Errorf("Path = %q, want /invalid.toml", perr.Path)
	}
	if perr.Line != 2 {
		t.Errorf("Line = %d, want 2", perr.Line)
	}
	if !strings.Contains(perr.Error(), "line 2") {
		t.Errorf("Error() = %q, want line number", perr.Error())
	}
	if perr.Unwrap() == nil {
		t.Error("Unwrap() = nil, want decode error")
	}
}

func TestTOMLLoader_LoadFromReader(t *testing.T) {
	loader := NewTOMLLoader("")
	config, err := loader.LoadFromReader(strings.NewReader(`
[logging]
level = "warn"
`))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}

	level, ok := Lookup(config, "logging.level")
	if !ok || level != "warn" {
		t.Errorf("logging.level = %v, want warn", level)
	}
}

func TestForFile(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"inkwell.toml", "toml", false},
		{"INKWELL.TOML", "toml", false},
		{"inkwell.yaml", "yaml", false},
		{"inkwell.yml", "yaml", false},
		{"inkwell.json", "", true},
		{"inkwell", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			fl, err := ForFile(NewMemFS(), tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ForFile: %v", err)
			}
			var got string
			switch fl.(type) {
			case *TOMLLoader:
				got = "toml"
			case *YAMLLoader:
				got = "yaml"
			}
			if got != tt.want {
				t.Errorf("loader = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseError_Format(t *testing.T) {
	tests := []struct {
		err  *ParseError
		want string
	}{
		{&ParseError{Path: "a.toml", Line: 3, Column: 7, Message: "bad"}, "parse error in a.toml at line 3, column 7: bad"},
		{&ParseError{Path: "a.toml", Line: 3, Message: "bad"}, "parse error in a.toml at line 3: bad"},
		{&ParseError{Path: "a.toml", Message: "bad"}, "parse error in a.toml: bad"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
