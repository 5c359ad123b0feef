// Package showing turns the free-text open-house times shown on listings
// ("Idag kl 14:00", "Tis 10 feb kl 17:45") into instants and display buckets.
//
// Nothing here reads the clock; every function takes the reference moment.
package showing

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	todayKeyword    = "idag"
	tomorrowKeyword = "imorgon"

	// StaleAfter is how far in the past a same-year date may lie before it
	// is taken to mean next year.
	StaleAfter = 30 * 24 * time.Hour
)

// Months maps the three-letter Swedish month abbreviations.
var Months = map[string]time.Month{
	"jan": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"maj": time.May,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August,
	"sep": time.September,
	"okt": time.October,
	"nov": time.November,
	"dec": time.December,
}

var (
	timePattern = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
	datePattern = regexp.MustCompile(`(?i)(\d{1,2})\s+(jan|feb|mar|apr|maj|jun|jul|aug|sep|okt|nov|dec)`)
)

// Unparseable returns the sentinel instant, 2099-12-31 in now's location.
func Unparseable(now time.Time) time.Time {
	return time.Date(2099, time.December, 31, 0, 0, 0, 0, now.Location())
}

// IsUnparseable reports whether t is the sentinel.
func IsUnparseable(t time.Time) bool {
	return t.Year() == 2099
}

// Parse resolves raw against now. Text without a recognisable date yields
// the Unparseable sentinel.
func Parse(raw string, now time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Unparseable(now)
	}

	hour, minute := 0, 0
	if m := timePattern.FindStringSubmatch(raw); m != nil {
		hour, _ = strconv.Atoi(m[1])
		minute, _ = strconv.Atoi(m[2])
	}

	lower := strings.ToLower(raw)
	loc := now.Location()
	switch {
	case strings.HasPrefix(lower, todayKeyword):
		return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, loc)
	case strings.HasPrefix(lower, tomorrowKeyword):
		return time.Date(now.Year(), now.Month(), now.Day()+1, hour, minute, 0, 0, loc)
	}

	m := datePattern.FindStringSubmatch(raw)
	if m == nil {
		return Unparseable(now)
	}
	day, _ := strconv.Atoi(m[1])
	month := Months[strings.ToLower(m[2])]

	candidate := time.Date(now.Year(), month, day, hour, minute, 0, 0, loc)
	if now.Sub(candidate) > StaleAfter {
		candidate = time.Date(now.Year()+1, month, day, hour, minute, 0, 0, loc)
	}
	return candidate
}
