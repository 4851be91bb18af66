package temporal

import (
	"strconv"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/runnerr0/pulse/internal/textnorm"
)

var englishMonths = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may": time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

var spanishMonths = map[string]time.Month{
	"enero": time.January, "ene": time.January,
	"febrero": time.February, "feb": time.February,
	"marzo": time.March, "mar": time.March,
	"abril": time.April, "abr": time.April,
	"mayo": time.May, "may": time.May,
	"junio": time.June, "jun": time.June,
	"julio": time.July, "jul": time.July,
	"agosto": time.August, "ago": time.August,
	"septiembre": time.September, "sep": time.September, "setiembre": time.September,
	"octubre": time.October, "oct": time.October,
	"noviembre": time.November, "nov": time.November,
	"diciembre": time.December, "dic": time.December,
}

// monthTables is consulted in order; the first table that knows a name wins.
var monthTables = []map[string]time.Month{englishMonths, spanishMonths}

// LookupMonth resolves an English or Spanish month name or abbreviation,
// case-insensitively.
func LookupMonth(name string) (time.Month, bool) {
	key := textnorm.Lower(name)
	if key == "" {
		return 0, false
	}
	for _, table := range monthTables {
		if m, ok := table[key]; ok {
			return m, true
		}
	}
	return 0, false
}

// dateGrammar is one surface form of a written date. The capture group
// indexes say where the day, month name and year sit in the pattern.
type dateGrammar struct {
	re               *regexp2.Regexp
	day, month, year int
}

var dateGrammars = []dateGrammar{
	// "... on February 20, 2018 ..."
	{
		re:  regexp2.MustCompile(`\bon\s+([A-Za-zÁÉÍÓÚáéíóú]+)\s+([0-9]{1,2}),\s*([0-9]{4})\b`, regexp2.IgnoreCase),
		day: 2, month: 1, year: 3,
	},
	// "20 de febrero de 2018"
	{
		re:  regexp2.MustCompile(`\b([0-9]{1,2})\s+de\s+([A-Za-zÁÉÍÓÚáéíóú]+)\s+de\s+([0-9]{4})\b`, regexp2.IgnoreCase),
		day: 1, month: 2, year: 3,
	},
}

// ExtractDate finds the first written date in text and returns it as UTC
// midnight. Grammars are tried in order and the first one whose pattern
// matches decides: an unknown month name or an impossible calendar date
// yields no date rather than falling through to the next grammar.
func ExtractDate(text string) (time.Time, bool) {
	t := textnorm.Normalize(text)
	if t == "" {
		return time.Time{}, false
	}

	for _, g := range dateGrammars {
		m, err := g.re.FindStringMatch(t)
		if err != nil || m == nil {
			continue
		}
		return resolveDate(
			m.GroupByNumber(g.day).String(),
			m.GroupByNumber(g.month).String(),
			m.GroupByNumber(g.year).String(),
		)
	}
	return time.Time{}, false
}

func resolveDate(dayStr, monthName, yearStr string) (time.Time, bool) {
	month, ok := LookupMonth(monthName)
	if !ok {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 1 {
		return time.Time{}, false
	}
	return calendarDate(year, month, day)
}

// calendarDate builds a UTC midnight date, rejecting values time.Date would
// silently normalize (April 31 becoming May 1).
func calendarDate(year int, month time.Month, day int) (time.Time, bool) {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}
