package common

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestSplitMessage(t *testing.T) {
	tests := []struct {
		name       string
		length     int
		wantChunks int
	}{
		{"Empty", 0, 1},
		{"Short", 100, 1},
		{"At limit", MessageChunkSize, 1},
		{"Just over limit", MessageChunkSize + 1, 2},
		{"Two full chunks", MessageChunkSize * 2, 2},
		{"Long", MessageChunkSize*3 + 50, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := strings.Repeat("a", tt.length)
			chunks := SplitMessage(text)

			if len(chunks) != tt.wantChunks {
				t.Errorf("SplitMessage(len %d) = %d chunks; want %d", tt.length, len(chunks), tt.wantChunks)
			}

			var rejoined string
			for _, chunk := range chunks {
				if len(chunk) > MessageChunkSize {
					t.Errorf("chunk length %d exceeds limit %d", len(chunk), MessageChunkSize)
				}
				rejoined += chunk
			}
			if rejoined != text {
				t.Error("rejoined chunks do not equal original text")
			}
		})
	}
}

func TestSplitMessageMultibyte(t *testing.T) {
	text := "a" + strings.Repeat("é", MessageChunkSize)
	chunks := SplitMessage(text)

	if len(chunks) != 2 {
		t.Fatalf("SplitMessage = %d chunks; want 2", len(chunks))
	}

	var rejoined string
	for i, chunk := range chunks {
		if !utf8.ValidString(chunk) {
			t.Errorf("chunk %d is not valid UTF-8", i)
		}
		if n := utf8.RuneCountInString(chunk); n > MessageChunkSize {
			t.Errorf("chunk %d has %d runes; limit is %d", i, n, MessageChunkSize)
		}
		rejoined += chunk
	}
	if rejoined != text {
		t.Error("rejoined chunks do not equal original text")
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{"Shorter than max", "hello", 10, "hello"},
		{"Exactly max", "hello", 5, "hello"},
		{"Truncated", "hello world", 5, "hello"},
		{"Multibyte boundary", strings.Repeat("é", 10), 4, "éééé"},
		{"Zero max", "hello", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateRunes(tt.input, tt.max)
			if got != tt.expected {
				t.Errorf("TruncateRunes(%q, %d) = %q; want %q", tt.input, tt.max, got, tt.expected)
			}
			if !utf8.ValidString(got) {
				t.Error("result is not valid UTF-8")
			}
		})
	}
}

func TestFormatXP(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{0, "0.0 XP"},
		{7.25, "7.2 XP"},
		{10.0, "10.0 XP"},
		{123.456, "123.5 XP"},
	}

	for _, tt := range tests {
		if got := FormatXP(tt.amount); got != tt.expected {
			t.Errorf("FormatXP(%v) = %s; want %s", tt.amount, got, tt.expected)
		}
	}
}

func TestFormatDiscordTimestamp(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	if got := FormatDiscordTimestamp(ts, "R"); got != "<t:1700000000:R>" {
		t.Errorf("FormatDiscordTimestamp = %s", got)
	}
}
