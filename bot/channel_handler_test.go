package bot

import (
	"strings"
	"testing"
)

func TestValidateChannelName(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantOK bool
	}{
		{"simple", "journal", true},
		{"with spaces", "my journal", true},
		{"mixed case", "My Journal", true},
		{"digits and underscore", "notes_2024", true},
		{"hyphenated", "daily-notes", true},
		{"empty", "", false},
		{"too long", strings.Repeat("a", 101), false},
		{"exactly 100", strings.Repeat("a", 100), true},
		{"invalid characters", "notes!", false},
		{"emoji", "journal📓", false},
		{"leading hyphen", "-notes", false},
		{"trailing underscore", "notes_", false},
		{"leading space becomes hyphen", " notes", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validateChannelName(tt.input)
			if ok := msg == ""; ok != tt.wantOK {
				t.Errorf("validateChannelName(%q) = %q; want ok=%v", tt.input, msg, tt.wantOK)
			}
		})
	}
}

func TestNormalizeChannelName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"My Journal", "my-journal"},
		{"notes", "notes"},
		{"A B C", "a-b-c"},
	}

	for _, tt := range tests {
		if got := normalizeChannelName(tt.input); got != tt.expected {
			t.Errorf("normalizeChannelName(%q) = %q; want %q", tt.input, got, tt.expected)
		}
	}
}
