// Package datetime renders timestamps for display the way the datetime
// directive does: explicit patterns, configured defaults, and the relative
// and simplified shorthands.
package datetime

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/riordanpawley/teafoundation/internal/config"
	"github.com/riordanpawley/teafoundation/internal/domain"
)

// Attributes are the display options attached to a timestamp
type Attributes struct {
	// Placeholder is shown when the value is empty
	Placeholder string
	// Local treats a zone-less value as local wall time instead of UTC
	Local bool
	// DisplayUTC renders in UTC instead of the formatter's location
	DisplayUTC bool
	// Format is an explicit pattern; it wins over every shorthand
	Format string
	// DateOnly drops the time part from default and simplified patterns
	DateOnly bool
	// RelativeDate renders today's timestamps as "at HH:mm"
	RelativeDate bool
	// SimplifiedDate omits the parts of the date shared with today
	SimplifiedDate bool
	// Ago renders the distance from now, e.g. "3 hours ago"
	Ago bool
}

// Formatter renders timestamps. The zero value renders in the local zone
// using the configured default patterns.
type Formatter struct {
	Location *time.Location
	// Now is the clock used by the relative shorthands
	Now func() time.Time
	// DateFormat and TimeFormat override the configured defaults
	DateFormat string
	TimeFormat string
}

var fractionalUTC = regexp.MustCompile(`\.\d+Z$`)

// zone-less layouts accepted after normalization
var layouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Format renders value according to attrs
func (f Formatter) Format(value string, attrs Attributes) (string, error) {
	if value == "" {
		return attrs.Placeholder, nil
	}

	t, err := f.Parse(value, attrs.Local)
	if err != nil {
		return "", err
	}
	return f.FormatTime(t, attrs), nil
}

// FormatTime renders an already parsed time according to attrs
func (f Formatter) FormatTime(t time.Time, attrs Attributes) string {
	loc := f.location()
	if attrs.DisplayUTC {
		loc = time.UTC
	}
	t = t.In(loc)
	now := f.now().In(loc)

	if attrs.Ago && attrs.Format == "" {
		return humanize.RelTime(t, now, "ago", "from now")
	}

	pattern := attrs.Format
	var prefix string

	if pattern == "" && attrs.RelativeDate && sameDay(t, now) {
		prefix = "at"
		pattern = "HH:mm"
	}

	if pattern == "" && attrs.SimplifiedDate {
		var parts []string
		switch {
		case t.Year() != now.Year():
			parts = append(parts, "M/d/yy")
		case !sameDay(t, now):
			parts = append(parts, "M/d")
		}
		if !attrs.DateOnly {
			parts = append(parts, f.timeFormat())
		}
		pattern = strings.Join(parts, " ")
	}

	if pattern == "" {
		pattern = f.dateFormat()
		if !attrs.DateOnly {
			pattern += " " + f.timeFormat()
		}
	}

	out := Render(t, pattern)
	if prefix != "" {
		out = prefix + " " + out
	}
	return out
}

// Parse reads an ISO-8601 style timestamp. Space separators and fractional
// seconds are accepted. Values without a zone are UTC unless local is set,
// in which case they are wall time in the formatter's location and any
// trailing Z is ignored.
func (f Formatter) Parse(value string, local bool) (time.Time, error) {
	s := strings.ReplaceAll(strings.TrimSpace(value), " ", "T")
	s = fractionalUTC.ReplaceAllString(s, "Z")

	if local {
		s = strings.TrimSuffix(s, "Z")
		if t, ok := parseZoneless(s, f.location()); ok {
			return t, nil
		}
	} else {
		if strings.HasSuffix(s, "+00:00") {
			s = strings.TrimSuffix(s, "+00:00") + "Z"
		}
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t, nil
		}
		if t, ok := parseZoneless(strings.TrimSuffix(s, "Z"), time.UTC); ok {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", value, domain.ErrUnknownFormat)
}

func parseZoneless(s string, loc *time.Location) (time.Time, bool) {
	// drop fractional seconds the layouts don't carry
	if i := strings.IndexByte(s, '.'); i > 0 {
		s = s[:i]
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (f Formatter) location() *time.Location {
	if f.Location != nil {
		return f.Location
	}
	return time.Local
}

func (f Formatter) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

func (f Formatter) dateFormat() string {
	if f.DateFormat != "" {
		return f.DateFormat
	}
	return config.Current().DefaultDateFormat
}

func (f Formatter) timeFormat() string {
	if f.TimeFormat != "" {
		return f.TimeFormat
	}
	return config.Current().DefaultTimeFormat
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
