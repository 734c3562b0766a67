// Package config provides inkwell's configuration.
//
// Settings come from three layers, higher overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Config File             │  ← inkwell.toml or inkwell.yaml
//	├─────────────────────────────┤
//	│  2. Environment Variables   │  ← INKWELL_*
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// The loader sub-package turns each source into a generic map; Load merges
// them and decodes the result into a typed Config.
//
// # Configuration Files
//
//	# inkwell.toml
//	[history]
//	maxDepth = 50
//	debounce = "150ms"
//	minInterval = 300   # milliseconds
//
//	[logging]
//	level = "debug"
//
//	[keys]
//	undo = ["Ctrl+Z"]
//	redo = ["Ctrl+Shift+Z", "Ctrl+Y"]
//
// # Environment Variables
//
//	INKWELL_MAX_DEPTH=50
//	INKWELL_DEBOUNCE=150ms
//	INKWELL_LOG_LEVEL=debug
//	INKWELL_KEYS_UNDO=Ctrl+Z,Alt+U
//
// # Live Reload
//
// Watch follows the config file with fsnotify and delivers reloaded
// configurations on a schedule.Scheduler, so the callback runs on the same
// goroutine as the history engine.
package config
