package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a key specification into an Event.
//
// Supported formats:
//   - Single character: "a", "Z"
//   - Key names: "Enter", "Backspace", "Space"
//   - With modifiers: "Ctrl+Z", "Ctrl+Shift+Z", "Cmd+Y"
//   - Vim-style: "<C-z>", "<C-S-z>", "<D-z>"
func Parse(spec string) (Event, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Event{}, ErrEmptySpec
	}

	if strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") && len(spec) > 2 {
		return parseParts(strings.Split(spec[1:len(spec)-1], "-"), spec)
	}
	if len(spec) > 1 && strings.Contains(spec, "+") {
		return parseParts(strings.Split(spec, "+"), spec)
	}
	return parseKey(spec, ModNone)
}

// MustParse parses spec and panics on error. Use only for literals.
func MustParse(spec string) Event {
	e, err := Parse(spec)
	if err != nil {
		panic("invalid key specification " + spec + ": " + err.Error())
	}
	return e
}

func parseParts(parts []string, spec string) (Event, error) {
	if len(parts) == 0 {
		return Event{}, fmt.Errorf("%w: %q", ErrInvalidSpec, spec)
	}
	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		mod := ModifierFromName(p)
		if mod == ModNone {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}
	return parseKey(parts[len(parts)-1], mods)
}

func parseKey(part string, mods Modifier) (Event, error) {
	part = strings.TrimSpace(part)
	if part == "" {
		return Event{}, ErrInvalidSpec
	}
	if strings.EqualFold(part, "space") {
		return NewRuneEvent(' ', mods), nil
	}
	if k := FromName(part); k != KeyNone {
		return NewSpecialEvent(k, mods), nil
	}

	runes := []rune(part)
	if len(runes) != 1 {
		return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, part)
	}
	r := runes[0]
	if mods.HasPrimary() {
		// "Ctrl+Z" names the letter key; Shift must be spelled out.
		return NewRuneEvent(unicode.ToLower(r), mods), nil
	}
	if unicode.IsUpper(r) && mods == ModNone {
		mods = ModShift
	}
	return NewRuneEvent(r, mods), nil
}
