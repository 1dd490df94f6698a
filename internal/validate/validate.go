package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// ID validates a simple resource identifier (uuid-shaped or shorter).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Q normalizes a free-text search query: trims and caps the length. An empty
// result means "no filter".
func Q(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// SortBy accepts one of the three order sort keys; empty means the default.
func SortBy(s string) (string, bool) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "createdAt", "totalAmount", "customerName":
		return s, true
	}
	return "", false
}

// SortOrder accepts asc or desc; empty means the default (desc).
func SortOrder(s string) (string, bool) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "asc", "desc":
		return s, true
	}
	return "", false
}

// Date accepts a calendar date in YYYY-MM-DD form; empty means "no bound".
func Date(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", false
	}
	return s, true
}

// Page parses a 1-indexed page number, defaulting to 1.
func Page(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Limit parses a page size, defaulting to 10 and clamped to 100.
func Limit(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 10
	}
	if n > 100 {
		return 100
	}
	return n
}

// Stock validates a non-negative integer stock count kept in its string form.
func Stock(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "0", true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return "", false
	}
	return s, true
}
