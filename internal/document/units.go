package document

import "github.com/rivo/uniseg"

// Content units are user-perceived characters (grapheme clusters). A flag
// emoji or an "e" with a combining accent is one unit, so a caret can never
// land inside a character.

// UnitCount returns the number of content units in s.
func UnitCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// UnitByteIndex returns the byte index in s where unit n begins. n is
// clamped to [0, UnitCount(s)].
func UnitByteIndex(s string, n int) int {
	if n <= 0 {
		return 0
	}
	state := -1
	idx := 0
	rest := s
	for i := 0; i < n && rest != ""; i++ {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		idx += len(cluster)
	}
	return idx
}
