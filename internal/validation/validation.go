package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// wordPattern accepts a single token: unicode letters, hyphen, apostrophe
// (straight or typographic). No digits, no whitespace.
var wordPattern = regexp.MustCompile(`^[\p{L}'’-]+$`)

// IsSingleWord reports whether input is a valid exchange word after trimming
// surrounding whitespace.
func IsSingleWord(input string) bool {
	t := strings.TrimSpace(input)
	if t == "" {
		return false
	}
	return wordPattern.MatchString(t)
}

// NormalizeWord trims surrounding whitespace from a candidate word.
func NormalizeWord(input string) string {
	return strings.TrimSpace(input)
}

// ValidateClockTime checks an HH:MM wall-clock time string.
func ValidateClockTime(clockTime string) error {
	if _, err := time.Parse("15:04", clockTime); err != nil {
		return fmt.Errorf("invalid time format %q, expected HH:MM: %w", clockTime, err)
	}
	return nil
}

// ValidateTimezone checks that tz is a resolvable IANA zone identifier.
func ValidateTimezone(tz string) error {
	if tz == "" {
		return fmt.Errorf("timezone must not be empty")
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return nil
}

// ValidateDayKey checks a YYYY-MM-DD day key string.
func ValidateDayKey(key string) error {
	if _, err := time.Parse("2006-01-02", key); err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", key, err)
	}
	return nil
}
