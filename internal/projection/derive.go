package projection

import (
	"strings"
	"time"
	"unicode/utf16"
	"unicode/utf8"
)

// Palette is the ordered set of avatar background classes. [ColorClass] indexes it by hash,
// so reordering or resizing it reassigns every existing color.
var Palette = [8]string{
	"bg-blue-500",
	"bg-green-500",
	"bg-yellow-500",
	"bg-red-500",
	"bg-purple-500",
	"bg-pink-500",
	"bg-indigo-500",
	"bg-teal-500",
}

// Initials takes the first character of each whitespace-separated word, uppercased,
// and keeps at most two characters.
func Initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(r)
	}

	initials := []rune(strings.ToUpper(b.String()))
	if len(initials) > 2 {
		initials = initials[:2]
	}
	return string(initials)
}

// ColorClass picks a [Palette] entry from the sum of the UTF-16 code units of s.
func ColorClass(s string) string {
	var hash uint64
	for _, unit := range utf16.Encode([]rune(s)) {
		hash += uint64(unit)
	}
	return Palette[hash%uint64(len(Palette))]
}

var birthdateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateTime,
}

// ParseBirthdate parses a calendar date in any of the accepted layouts.
func ParseBirthdate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range birthdateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Age returns the whole years between birthdate and today, counting a birthday that falls on today.
//
// Absent or unparseable birthdates and birthdates after today yield no value.
func Age(birthdate string, today time.Time) (int, bool) {
	born, ok := ParseBirthdate(birthdate)
	if !ok {
		return 0, false
	}
	return YearsBetween(born, today)
}

// YearsBetween is [Age] for an already parsed birthdate.
func YearsBetween(born, today time.Time) (int, bool) {
	years := today.Year() - born.Year()
	if today.Month() < born.Month() || (today.Month() == born.Month() && today.Day() < born.Day()) {
		years--
	}
	if years < 0 {
		return 0, false
	}
	return years, true
}
