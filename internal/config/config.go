package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dshills/inkwell/internal/config/loader"
	"github.com/dshills/inkwell/internal/history"
	"github.com/dshills/inkwell/internal/input/key"
	"github.com/dshills/inkwell/internal/logging"
)

// Bounds enforced by Validate.
const (
	MaxHistoryDepth = 10000
	MaxDebounce     = 10 * time.Second
	MaxMinInterval  = time.Minute
)

// Config is inkwell's typed configuration.
type Config struct {
	History HistoryConfig
	Logging LoggingConfig
	Keys    KeysConfig
}

// HistoryConfig bounds undo depth and capture density. Debounce and
// MinInterval trade undo granularity for memory; neither is a precision
// guarantee.
type HistoryConfig struct {
	MaxDepth    int
	Debounce    time.Duration
	MinInterval time.Duration
}

// LoggingConfig selects the log level.
type LoggingConfig struct {
	Level string
}

// KeysConfig overrides the undo/redo shortcuts. Empty lists keep the
// defaults.
type KeysConfig struct {
	Undo []string
	Redo []string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		History: HistoryConfig{
			MaxDepth:    history.DefaultMaxDepth,
			Debounce:    history.DefaultDebounce,
			MinInterval: history.DefaultMinInterval,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Limits converts the history section for the engine.
func (c Config) Limits() history.Limits {
	return history.Limits{
		MaxDepth:    c.History.MaxDepth,
		Debounce:    c.History.Debounce,
		MinInterval: c.History.MinInterval,
	}
}

// LogLevel returns the configured log level.
func (c Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Logging.Level)
}

// Bindings parses the key section.
func (c Config) Bindings() (key.Bindings, error) {
	return key.ParseBindings(c.Keys.Undo, c.Keys.Redo)
}

// Validate checks every setting and returns all failures joined.
func (c Config) Validate() error {
	var errs []error

	if c.History.MaxDepth < 1 || c.History.MaxDepth > MaxHistoryDepth {
		errs = append(errs, outOfRange("history.maxDepth", c.History.MaxDepth,
			fmt.Sprintf("must be between 1 and %d", MaxHistoryDepth)))
	}
	if c.History.Debounce < 0 || c.History.Debounce > MaxDebounce {
		errs = append(errs, outOfRange("history.debounce", c.History.Debounce,
			fmt.Sprintf("must be between 0 and %s", MaxDebounce)))
	}
	if c.History.MinInterval < 0 || c.History.MinInterval > MaxMinInterval {
		errs = append(errs, outOfRange("history.minInterval", c.History.MinInterval,
			fmt.Sprintf("must be between 0 and %s", MaxMinInterval)))
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, &ValidationError{
			Path:    "logging.level",
			Message: "must be one of debug, info, warn, error",
			Value:   c.Logging.Level,
			Code:    ErrCodeInvalidEnum,
		})
	}

	if _, err := c.Bindings(); err != nil {
		errs = append(errs, &ValidationError{
			Path:    "keys",
			Message: err.Error(),
			Value:   append(append([]string{}, c.Keys.Undo...), c.Keys.Redo...),
			Code:    ErrCodePatternMismatch,
		})
	}

	return errors.Join(errs...)
}

func outOfRange(path string, value any, msg string) error {
	return &ValidationError{Path: path, Message: msg, Value: value, Code: ErrCodeOutOfRange}
}

// FromMap decodes a merged configuration map on top of the defaults.
// Unknown keys are ignored.
func FromMap(m map[string]any) (Config, error) {
	c := Default()
	var errs []error

	if v, ok := loader.Lookup(m, "history.maxDepth"); ok {
		n, err := toInt("history.maxDepth", v)
		errs = append(errs, err)
		c.History.MaxDepth = n
	}
	if v, ok := loader.Lookup(m, "history.debounce"); ok {
		d, err := toDuration("history.debounce", v)
		errs = append(errs, err)
		c.History.Debounce = d
	}
	if v, ok := loader.Lookup(m, "history.minInterval"); ok {
		d, err := toDuration("history.minInterval", v)
		errs = append(errs, err)
		c.History.MinInterval = d
	}
	if v, ok := loader.Lookup(m, "logging.level"); ok {
		s, err := toString("logging.level", v)
		errs = append(errs, err)
		c.Logging.Level = s
	}
	if v, ok := loader.Lookup(m, "keys.undo"); ok {
		list, err := toStrings("keys.undo", v)
		errs = append(errs, err)
		c.Keys.Undo = list
	}
	if v, ok := loader.Lookup(m, "keys.redo"); ok {
		list, err := toStrings("keys.redo", v)
		errs = append(errs, err)
		c.Keys.Redo = list
	}

	if err := errors.Join(errs...); err != nil {
		return Default(), err
	}
	return c, nil
}

func toInt(path string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n == math.Trunc(n) {
			return int(n), nil
		}
	}
	return 0, typeError(path, "integer", v)
}

// toDuration accepts Go duration strings ("150ms") or integer milliseconds.
func toDuration(path string, v any) (time.Duration, error) {
	switch d := v.(type) {
	case time.Duration:
		return d, nil
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return 0, typeError(path, "duration", v)
		}
		return parsed, nil
	}
	ms, err := toInt(path, v)
	if err != nil {
		return 0, typeError(path, "duration", v)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func toString(path string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", typeError(path, "string", v)
	}
	return s, nil
}

func toStrings(path string, v any) ([]string, error) {
	switch list := v.(type) {
	case string:
		return []string{list}, nil
	case []string:
		return list, nil
	case []any:
		out := make([]string, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, typeError(fmt.Sprintf("%s[%d]", path, i), "string", item)
			}
			out[i] = s
		}
		return out, nil
	}
	return nil, typeError(path, "list of strings", v)
}

func typeError(path, expected string, v any) error {
	return &TypeError{Path: path, Expected: expected, Actual: fmt.Sprintf("%T", v)}
}
