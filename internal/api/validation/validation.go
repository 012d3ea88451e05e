package validation

import (
	"net/url"
	"regexp"
	"strings"
	"time"
	_ "time/tzdata" // lets IsValidTimezone work on hosts without zoneinfo
	"unicode"
	"unicode/utf8"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

var (
	// EmailRegex validates email format
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// UUIDRegex validates UUID format
	uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

// IsValidEmail checks if the string is a valid email format
func IsValidEmail(email string) bool {
	if len(email) > 254 {
		return false
	}
	return emailRegex.MatchString(email)
}

// IsValidUUID checks if the string is a valid UUID format
func IsValidUUID(id string) bool {
	return uuidRegex.MatchString(id)
}

// IsValidURL accepts absolute http and https URLs with a host.
func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidTimezone accepts IANA zone names such as "Europe/Paris".
func IsValidTimezone(tz string) bool {
	if tz == "" || strings.EqualFold(tz, "local") {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, s)
	return t, err == nil
}

// ParseClock parses an HH:MM time of day; seconds are accepted and ignored.
func ParseClock(s string) (hour, minute int, ok bool) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		if t, err = time.Parse("15:04:05", s); err != nil {
			return 0, 0, false
		}
	}
	return t.Hour(), t.Minute(), true
}

// MaxLen reports whether s has at most n characters.
func MaxLen(s string, n int) bool {
	return utf8.RuneCountInString(s) <= n
}

// SanitizeString removes potentially dangerous characters for display
func SanitizeString(s string) string {
	// Remove null bytes
	s = strings.ReplaceAll(s, "\x00", "")

	// Remove control characters except newlines and tabs
	var result strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || !unicode.IsControl(r) {
			result.WriteRune(r)
		}
	}

	return result.String()
}
