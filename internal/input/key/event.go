package key

import (
	"strings"
	"unicode"
)

// Event represents a single key press.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier
}

// NewRuneEvent creates a key event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecialEvent creates a key event for a non-character key.
func NewSpecialEvent(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// formattingRunes are primary-modifier shortcuts the host maps to
// content-changing commands (cut, paste, bold, italic, underline).
var formattingRunes = map[rune]bool{
	'x': true,
	'v': true,
	'b': true,
	'i': true,
	'u': true,
}

// IsMutating reports whether the key press is expected to change document
// content. Navigation keys, bare modifiers, function keys and primary
// shortcuts other than cut/paste/formatting are not.
func (e Event) IsMutating() bool {
	switch {
	case e.Key == KeyModifier || e.Key == KeyNone:
		return false
	case e.Key.IsEditing():
		return !e.Modifiers.HasPrimary()
	case e.IsRune():
		if !e.Modifiers.HasPrimary() {
			return true
		}
		return formattingRunes[unicode.ToLower(e.Rune)] && !e.Modifiers.Has(ModShift)
	default:
		return false
	}
}

// Normalize returns a canonical form for comparison: with a primary
// modifier held, letters are lowercased and an uppercase letter implies Shift.
func (e Event) Normalize() Event {
	if !e.IsRune() || !e.Modifiers.HasPrimary() {
		return e
	}
	if unicode.IsUpper(e.Rune) {
		e.Modifiers = e.Modifiers.With(ModShift)
	}
	e.Rune = unicode.ToLower(e.Rune)
	return e
}

// Equals reports whether two events describe the same key press.
func (e Event) Equals(other Event) bool {
	a, b := e.Normalize(), other.Normalize()
	return a.Key == b.Key && a.Rune == b.Rune && a.Modifiers == b.Modifiers
}

// String returns a representation like "Ctrl+Shift+z" or "Enter".
func (e Event) String() string {
	var b strings.Builder
	if mods := e.Modifiers.String(); mods != "" {
		b.WriteString(mods)
		b.WriteString("+")
	}
	switch {
	case e.Key == KeyRune && e.Rune == ' ':
		b.WriteString("Space")
	case e.Key == KeyRune:
		b.WriteRune(e.Rune)
	default:
		b.WriteString(e.Key.String())
	}
	return b.String()
}
