package datetime

import (
	"strconv"
	"strings"
	"time"
)

// Render formats t with a Unicode-style date pattern such as "M/d/yy H:mm".
//
// Supported fields: y (year), M (month), d (day), E (weekday), H and h
// (hour), m (minute), s (second), S (fraction), a (AM/PM). Y is read as y.
// Text in single quotes is copied literally and '' is a quote. Any other
// character is copied as is.
func Render(t time.Time, pattern string) string {
	var b strings.Builder
	runes := []rune(pattern)

	for i := 0; i < len(runes); {
		r := runes[i]

		if r == '\'' {
			i = literal(&b, runes, i)
			continue
		}
		if !isField(r) {
			b.WriteRune(r)
			i++
			continue
		}

		n := 1
		for i+n < len(runes) && runes[i+n] == r {
			n++
		}
		b.WriteString(field(t, r, n))
		i += n
	}
	return b.String()
}

// literal copies a quoted run starting at runes[i] and returns the next index
func literal(b *strings.Builder, runes []rune, i int) int {
	if i+1 < len(runes) && runes[i+1] == '\'' {
		b.WriteRune('\'')
		return i + 2
	}
	for j := i + 1; j < len(runes); j++ {
		if runes[j] != '\'' {
			b.WriteRune(runes[j])
			continue
		}
		if j+1 < len(runes) && runes[j+1] == '\'' {
			b.WriteRune('\'')
			j++
			continue
		}
		return j + 1
	}
	return len(runes)
}

func isField(r rune) bool {
	return strings.ContainsRune("yYMdEHhmsSa", r)
}

func field(t time.Time, r rune, n int) string {
	switch r {
	case 'y', 'Y':
		if n == 2 {
			return pad(t.Year()%100, 2)
		}
		return pad(t.Year(), n)
	case 'M':
		switch {
		case n >= 4:
			return t.Month().String()
		case n == 3:
			return t.Month().String()[:3]
		default:
			return pad(int(t.Month()), n)
		}
	case 'd':
		return pad(t.Day(), n)
	case 'E':
		if n >= 4 {
			return t.Weekday().String()
		}
		return t.Weekday().String()[:3]
	case 'H':
		return pad(t.Hour(), n)
	case 'h':
		h := t.Hour() % 12
		if h == 0 {
			h = 12
		}
		return pad(h, n)
	case 'm':
		return pad(t.Minute(), n)
	case 's':
		return pad(t.Second(), n)
	case 'S':
		frac := pad(t.Nanosecond(), 9)
		if n > 9 {
			n = 9
		}
		return frac[:n]
	case 'a':
		if t.Hour() < 12 {
			return "AM"
		}
		return "PM"
	}
	return ""
}

// pad renders v with at least width digits
func pad(v, width int) string {
	s := strconv.Itoa(v)
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return s
}
