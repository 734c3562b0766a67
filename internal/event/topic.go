package event

import "strings"

// Topic is a hierarchical event type using dot notation, such as
// "history.captured".
type Topic string

// Wildcard constants for pattern matching.
const (
	// WildcardSingle matches exactly one segment.
	WildcardSingle = "*"

	// WildcardMulti matches zero or more segments.
	WildcardMulti = "**"

	// Separator separates topic segments.
	Separator = "."
)

// String returns the topic as a string.
func (t Topic) String() string {
	return string(t)
}

// Segments returns the topic split by the separator.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), Separator)
}

// Base returns the last segment of the topic.
//
// Example: "history.captured" -> "captured"
func (t Topic) Base() string {
	s := string(t)
	if idx := strings.LastIndex(s, Separator); idx >= 0 {
		return s[idx+1:]
	}
	return s
}

// IsWildcard returns true if the topic contains any wildcard characters.
func (t Topic) IsWildcard() bool {
	return strings.Contains(string(t), WildcardSingle)
}

// IsValid reports whether t is non-empty with no empty segments.
func (t Topic) IsValid() bool {
	if t == "" {
		return false
	}
	for _, seg := range t.Segments() {
		if seg == "" {
			return false
		}
	}
	return true
}

// Matches reports whether the concrete topic t matches pattern.
func (t Topic) Matches(pattern Topic) bool {
	return matchSegments(pattern.Segments(), t.Segments())
}

func matchSegments(pattern, segments []string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case WildcardMulti:
			// ** may absorb any number of segments.
			for i := 0; i <= len(segments); i++ {
				if matchSegments(pattern[1:], segments[i:]) {
					return true
				}
			}
			return false
		case WildcardSingle:
			if len(segments) == 0 {
				return false
			}
		default:
			if len(segments) == 0 || pattern[0] != segments[0] {
				return false
			}
		}
		pattern, segments = pattern[1:], segments[1:]
	}
	return len(segments) == 0
}
