package scrape

import (
	"strings"
	"time"
)

// Layouts seen on round pages. Day-of-month is parsed with "2" so both
// "5" and "05" are accepted.
var (
	longDateLayout = "Monday, 2 January 2006 3:04 PM"
	shortLayouts   = []string{
		"Mon 2 Jan 2006 3:04 PM",
		"Mon 2 Jan 2006 15:04",
	}
)

// ParseDate parses a fixture date in loc. The long form carries the time
// after " - " and defaults to midday when it is missing.
func ParseDate(text string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	text = cleanText(text)
	if text == "" {
		return time.Time{}, false
	}

	if date, clock, found := strings.Cut(text, " - "); found {
		clock = strings.TrimSpace(clock)
		if clock == "" {
			clock = "12:00 PM"
		}
		if t, err := time.ParseInLocation(longDateLayout, date+" "+clock, loc); err == nil {
			return t, true
		}
		return time.Time{}, false
	}

	for _, layout := range shortLayouts {
		if t, err := time.ParseInLocation(layout, text, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
