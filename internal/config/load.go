package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/dshills/inkwell/internal/config/loader"
)

// Options controls Load.
type Options struct {
	// Path is the config file. Empty means defaults and environment only.
	Path string

	// Required makes a missing Path an error instead of falling back.
	Required bool

	// FS reads the file. Nil uses the OS file system.
	FS loader.FileSystem

	// EnvPrefix overrides loader.DefaultEnvPrefix.
	EnvPrefix string

	// NoEnv skips environment variables.
	NoEnv bool

	// Environ replaces os.Environ, mainly for tests.
	Environ func() []string
}

// Load reads, merges, decodes and validates the configuration.
func Load(opts Options) (Config, error) {
	merged, err := LoadMap(opts)
	if err != nil {
		return Default(), err
	}

	cfg, err := FromMap(merged)
	if err != nil {
		return Default(), err
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// LoadMap returns the merged configuration map without decoding it.
func LoadMap(opts Options) (map[string]any, error) {
	merged := make(map[string]any)

	if !opts.NoEnv {
		prefix := opts.EnvPrefix
		if prefix == "" {
			prefix = loader.DefaultEnvPrefix
		}
		env := loader.NewEnvLoader(prefix)
		if opts.Environ != nil {
			env.SetEnviron(opts.Environ)
		}
		values, err := env.Load()
		if err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, values)
	}

	if opts.Path == "" {
		return merged, nil
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = loader.DefaultFS()
	}
	if opts.Required {
		if _, err := fsys.Stat(opts.Path); errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", opts.Path, ErrFileNotFound)
		}
	}

	fl, err := loader.ForFile(fsys, opts.Path)
	if err != nil {
		return nil, err
	}
	values, err := fl.Load()
	if err != nil {
		return nil, err
	}
	return loader.DeepMerge(merged, values), nil
}
