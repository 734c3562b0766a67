package config

import (
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/inkwell/internal/history"
	"github.com/dshills/inkwell/internal/input/key"
	"github.com/dshills/inkwell/internal/logging"
)

// memFS is an in-memory loader.FileSystem.
type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	s, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(s), nil
}

func (m memFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m[path]; ok {
		return nil, nil
	}
	return nil, fs.ErrNotExist
}

func environ(vars ...string) func() []string {
	return func() []string { return vars }
}

func TestDefault(t *testing.T) {
	c := Default()

	if err := c.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	want := history.DefaultLimits()
	if diff := cmp.Diff(want, c.Limits()); diff != "" {
		t.Errorf("Limits() mismatch (-want +got):\n%s", diff)
	}
	if c.LogLevel() != logging.LevelInfo {
		t.Errorf("LogLevel() = %v, want info", c.LogLevel())
	}

	b, err := c.Bindings()
	if err != nil {
		t.Fatalf("Bindings() error = %v", err)
	}
	if len(b.Undo) != len(key.DefaultBindings().Undo) || len(b.Redo) != len(key.DefaultBindings().Redo) {
		t.Errorf("Bindings() = %+v, want defaults", b)
	}
}

func TestFromMap(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]any
		want HistoryConfig
	}{
		{
			name: "empty keeps defaults",
			in:   map[string]any{},
			want: Default().History,
		},
		{
			name: "duration strings",
			in: map[string]any{"history": map[string]any{
				"maxDepth": int64(5), "debounce": "250ms", "minInterval": "1s",
			}},
			want: HistoryConfig{MaxDepth: 5, Debounce: 250 * time.Millisecond, MinInterval: time.Second},
		},
		{
			name: "integer milliseconds",
			in: map[string]any{"history": map[string]any{
				"maxDepth": 7, "debounce": int64(80), "minInterval": float64(0),
			}},
			want: HistoryConfig{MaxDepth: 7, Debounce: 80 * time.Millisecond, MinInterval: 0},
		},
		{
			name: "parsed durations from env",
			in: map[string]any{"history": map[string]any{
				"debounce": 40 * time.Millisecond,
			}},
			want: HistoryConfig{
				MaxDepth:    history.DefaultMaxDepth,
				Debounce:    40 * time.Millisecond,
				MinInterval: history.DefaultMinInterval,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := FromMap(tt.in)
			if err != nil {
				t.Fatalf("FromMap() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, c.History); diff != "" {
				t.Errorf("History mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFromMap_Keys(t *testing.T) {
	c, err := FromMap(map[string]any{
		"keys":    map[string]any{"undo": "Alt+U", "redo": []any{"Alt+R", "Ctrl+Y"}},
		"logging": map[string]any{"level": "debug"},
	})
	if err != nil {
		t.Fatalf("FromMap() error = %v", err)
	}

	if diff := cmp.Diff(KeysConfig{Undo: []string{"Alt+U"}, Redo: []string{"Alt+R", "Ctrl+Y"}}, c.Keys); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}
	if c.LogLevel() != logging.LevelDebug {
		t.Errorf("LogLevel() = %v, want debug", c.LogLevel())
	}

	b, err := c.Bindings()
	if err != nil {
		t.Fatalf("Bindings() error = %v", err)
	}
	if b.Match(key.MustParse("Alt+U")) != key.ActionUndo {
		t.Error("Alt+U should undo")
	}
	if b.Match(key.MustParse("Ctrl+z")) != key.ActionNone {
		t.Error("Ctrl+Z should no longer undo")
	}
}

func TestFromMap_TypeErrors(t *testing.T) {
	c, err := FromMap(map[string]any{
		"history": map[string]any{"maxDepth": "deep", "debounce": "soon"},
		"keys":    map[string]any{"undo": []any{"Ctrl+Z", 3}},
		"logging": map[string]any{"level": 2},
	})

	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("err = %v, want ErrTypeMismatch", err)
	}
	var te *TypeError
	if !errors.As(err, &te) || te.Path != "history.maxDepth" {
		t.Errorf("first TypeError = %+v, want history.maxDepth", te)
	}
	for _, path := range []string{"history.debounce", "keys.undo[1]", "logging.level"} {
		if !containsPath(err, path) {
			t.Errorf("error %q does not mention %s", err, path)
		}
	}
	if diff := cmp.Diff(Default(), c); diff != "" {
		t.Errorf("FromMap should return defaults on error (-want +got):\n%s", diff)
	}
}

func containsPath(err error, path string) bool {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return false
	}
	for _, e := range joined.Unwrap() {
		var te *TypeError
		if errors.As(e, &te) && te.Path == path {
			return true
		}
	}
	return false
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		path   string
		code   ValidationErrorCode
	}{
		{"zero depth", func(c *Config) { c.History.MaxDepth = 0 }, "history.maxDepth", ErrCodeOutOfRange},
		{"huge depth", func(c *Config) { c.History.MaxDepth = MaxHistoryDepth + 1 }, "history.maxDepth", ErrCodeOutOfRange},
		{"negative debounce", func(c *Config) { c.History.Debounce = -time.Millisecond }, "history.debounce", ErrCodeOutOfRange},
		{"long interval", func(c *Config) { c.History.MinInterval = 2 * time.Minute }, "history.minInterval", ErrCodeOutOfRange},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level", ErrCodeInvalidEnum},
		{"bad key", func(c *Config) { c.Keys.Redo = []string{"Hyper+Z"} }, "keys", ErrCodePatternMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.modify(&c)

			err := c.Validate()
			if !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("Validate() = %v, want ErrValidationFailed", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate() = %T, want *ValidationError", err)
			}
			if ve.Path != tt.path || ve.Code != tt.code {
				t.Errorf("ValidationError = %s/%s, want %s/%s", ve.Path, ve.Code, tt.path, tt.code)
			}
		})
	}
}

func TestValidate_ZeroWindowsAllowed(t *testing.T) {
	c := Default()
	c.History.Debounce = 0
	c.History.MinInterval = 0
	c.Logging.Level = "WARNING"

	if err := c.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestLoad_Layers(t *testing.T) {
	fsys := memFS{
		"/etc/inkwell.toml": `
[history]
maxDepth = 12
debounce = "200ms"
`,
	}

	c, err := Load(Options{
		Path:    "/etc/inkwell.toml",
		FS:      fsys,
		Environ: environ("INKWELL_MAX_DEPTH=99", "INKWELL_MIN_INTERVAL=50ms", "INKWELL_LOG_LEVEL=error"),
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := HistoryConfig{MaxDepth: 12, Debounce: 200 * time.Millisecond, MinInterval: 50 * time.Millisecond}
	if diff := cmp.Diff(want, c.History); diff != "" {
		t.Errorf("file should override env (-want +got):\n%s", diff)
	}
	if c.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q, want error", c.Logging.Level)
	}
}

func TestLoad_YAML(t *testing.T) {
	fsys := memFS{"/inkwell.yml": "history:\n  maxDepth: 3\n"}

	c, err := Load(Options{Path: "/inkwell.yml", FS: fsys, NoEnv: true})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.History.MaxDepth != 3 {
		t.Errorf("MaxDepth = %d, want 3", c.History.MaxDepth)
	}
}

func TestLoad_NoEnv(t *testing.T) {
	c, err := Load(Options{NoEnv: true, Environ: environ("INKWELL_MAX_DEPTH=99")})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.History.MaxDepth != history.DefaultMaxDepth {
		t.Errorf("MaxDepth = %d, want default", c.History.MaxDepth)
	}
}

func TestLoad_Errors(t *testing.T) {
	fsys := memFS{
		"/bad.toml":     "[history\n",
		"/invalid.toml": "[history]\nmaxDepth = 0\n",
	}

	tests := []struct {
		name string
		opts Options
		want error
	}{
		{"missing required", Options{Path: "/none.toml", Required: true, FS: fsys, NoEnv: true}, ErrFileNotFound},
		{"validation", Options{Path: "/invalid.toml", FS: fsys, NoEnv: true}, ErrValidationFailed},
		{"bad env type", Options{NoEnv: false, Environ: environ("INKWELL_DEBOUNCE=soon")}, ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Load(tt.opts)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Load() error = %v, want %v", err, tt.want)
			}
			if diff := cmp.Diff(Default(), c); diff != "" {
				t.Errorf("Load() should return defaults on error (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := Load(Options{Path: "/bad.toml", FS: fsys, NoEnv: true}); err == nil {
		t.Error("Load() of malformed TOML should fail")
	}
}

func TestLoad_MissingOptionalFile(t *testing.T) {
	c, err := Load(Options{Path: "/none.toml", FS: memFS{}, NoEnv: true})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(Default(), c); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}
