package service

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidInterval marks an interval string with no valid tokens or a
	// zero total duration.
	ErrInvalidInterval = errors.New("invalid time interval")

	// ErrInvalidMessageLink marks a message link that does not end in three
	// integer segments.
	ErrInvalidMessageLink = errors.New("invalid message link")
)

var intervalTokenRe = regexp.MustCompile(`(\d+)([smhdw])`)

// maxInterval bounds parsed intervals so token multiplication and summing
// cannot overflow time.Duration.
const maxInterval = 10 * 365 * 24 * time.Hour

var intervalUnits = map[string]time.Duration{
	"s": time.Second,
	"m": time.Minute,
	"h": time.Hour,
	"d": 24 * time.Hour,
	"w": 7 * 24 * time.Hour,
}

// ParseInterval parses interval strings like "1h30m" or "2d" into a
// duration. Units are s, m, h, d, w (case-insensitive); tokens are summed,
// and repeating a unit is additive ("1h1h" is two hours). A string with no
// valid tokens, one summing to zero, or one exceeding maxInterval is
// invalid.
func ParseInterval(s string) (time.Duration, error) {
	matches := intervalTokenRe.FindAllStringSubmatch(strings.ToLower(s), -1)
	if len(matches) == 0 {
		return 0, ErrInvalidInterval
	}

	var total time.Duration
	for _, m := range matches {
		value, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, ErrInvalidInterval
		}
		unit := intervalUnits[m[2]]
		if value > int64(maxInterval/unit) {
			return 0, ErrInvalidInterval
		}
		total += time.Duration(value) * unit
		if total > maxInterval {
			return 0, ErrInvalidInterval
		}
	}

	if total == 0 {
		return 0, ErrInvalidInterval
	}

	return total, nil
}

// ParseMessageLink parses a slash-delimited message link into its trailing
// (guild id, channel id, message id) segments. Links with fewer than three
// segments, or whose trailing segments are not integers, are invalid.
func ParseMessageLink(link string) (guildID, channelID, messageID int64, err error) {
	parts := strings.Split(strings.TrimSpace(link), "/")
	if len(parts) < 3 {
		return 0, 0, 0, ErrInvalidMessageLink
	}

	guildID, err = strconv.ParseInt(parts[len(parts)-3], 10, 64)
	if err != nil {
		return 0, 0, 0, ErrInvalidMessageLink
	}
	channelID, err = strconv.ParseInt(parts[len(parts)-2], 10, 64)
	if err != nil {
		return 0, 0, 0, ErrInvalidMessageLink
	}
	messageID, err = strconv.ParseInt(parts[len(parts)-1], 10, 64)
	if err != nil {
		return 0, 0, 0, ErrInvalidMessageLink
	}

	return guildID, channelID, messageID, nil
}
