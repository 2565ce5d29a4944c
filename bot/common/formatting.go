package common

import (
	"fmt"
	"time"
)

// MessageChunkSize is the largest chunk SplitMessage produces, in runes,
// kept under Discord's 2000 character message limit.
const MessageChunkSize = 1990

// SplitMessage splits text into chunks that each fit in one Discord message.
// Chunks are measured in runes, never cutting a UTF-8 sequence. Text at or
// under the limit comes back as a single chunk.
func SplitMessage(text string) []string {
	runes := []rune(text)
	if len(runes) <= MessageChunkSize {
		return []string{text}
	}

	var chunks []string
	for len(runes) > MessageChunkSize {
		chunks = append(chunks, string(runes[:MessageChunkSize]))
		runes = runes[MessageChunkSize:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}

	return chunks
}

// TruncateRunes shortens text to at most max runes, preserving UTF-8
// sequences.
func TruncateRunes(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}

// FormatXP formats an XP amount the way users see it, one decimal place
func FormatXP(amount float64) string {
	return fmt.Sprintf("%.1f XP", amount)
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}
