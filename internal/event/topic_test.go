package event

import "testing"

func TestTopicMatches(t *testing.T) {
	tests := []struct {
		topic   Topic
		pattern Topic
		want    bool
	}{
		{"history.captured", "history.captured", true},
		{"history.captured", "history.undone", false},
		{"history.captured", "history.*", true},
		{"history.captured", "*.captured", true},
		{"history.captured", "*", false},
		{"history.captured", "history.**", true},
		{"history", "history.**", true},
		{"history.a.b", "history.**", true},
		{"history.a.b", "history.*", false},
		{"history.a.b", "**.b", true},
		{"history.a.b", "history.**.b", true},
		{"history.b", "history.**.b", true},
		{"history.a.c", "history.**.b", false},
		{"config.changed", "history.**", false},
		{"history.captured", "history.captured.more", false},
	}

	for _, tt := range tests {
		if got := tt.topic.Matches(tt.pattern); got != tt.want {
			t.Errorf("%q.Matches(%q) = %v, want %v", tt.topic, tt.pattern, got, tt.want)
		}
	}
}

func TestTopicHelpers(t *testing.T) {
	if got := Topic("history.captured").Base(); got != "captured" {
		t.Errorf("Base() = %q", got)
	}
	if got := Topic("plain").Base(); got != "plain" {
		t.Errorf("Base() = %q", got)
	}
	if !Topic("history.*").IsWildcard() || Topic("history.x").IsWildcard() {
		t.Error("IsWildcard() wrong")
	}
	for _, bad := range []Topic{"", ".x", "x.", "a..b"} {
		if bad.IsValid() {
			t.Errorf("%q.IsValid() = true", bad)
		}
	}
	if !Topic("history.captured").IsValid() {
		t.Error("IsValid() = false for a valid topic")
	}
}
