// Package key provides key event types for the editing host.
//
// This package defines the types used to turn raw keyboard input into
// history signals:
//
//   - Key: identifies a keyboard key (editing, navigation, or a rune)
//   - Modifier: Ctrl, Alt, Shift, Meta
//   - Event: a single key press
//   - Bindings: which presses mean undo and redo
//
// # Key Specifications
//
// Specifications can be written as "z", "Ctrl+Z", "Ctrl+Shift+Z" or in
// Vim style as "<C-z>" and "<C-S-z>".
//
// # Mutating keys
//
// Event.IsMutating separates content-changing presses (characters, Enter,
// Backspace, cut/paste) from navigation and modifier-only presses. Only
// mutating presses are forwarded to the history change detector.
package key
