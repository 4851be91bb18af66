package temporal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExtractDate(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected time.Time
		ok       bool
	}{
		{"english grammar", "taqueria on Instagram on February 20, 2018: tacos", date(2018, 2, 20), true},
		{"spanish grammar", "20 de febrero de 2018", date(2018, 2, 20), true},
		{"abbreviation", "on Sept 3, 2019", date(2019, 9, 3), true},
		{"no space after comma", "On FEB 5,2020", date(2020, 2, 5), true},
		{"spanish uppercase", "1 DE ENERO DE 2021", date(2021, 1, 1), true},
		{"spanish abbreviation", "7 de dic de 2022", date(2022, 12, 7), true},
		{"setiembre", "5 de setiembre de 2019", date(2019, 9, 5), true},
		{"spanish month in english grammar", "on marzo 3, 2017", date(2017, 3, 3), true},
		{"leap day", "29 de febrero de 2020", date(2020, 2, 29), true},
		{"unknown month", "on Frebuary 5, 2020", time.Time{}, false},
		{"impossible day", "on April 31, 2020", time.Time{}, false},
		{"impossible leap day", "on Feb 29, 2019", time.Time{}, false},
		{"day zero", "0 de mayo de 2020", time.Time{}, false},
		{"unknown spanish month", "3 de brumario de 2020", time.Time{}, false},
		{"no date", "Best tacos in town", time.Time{}, false},
		{"empty", "", time.Time{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractDate(tc.text)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.True(t, tc.expected.Equal(got), "got %s", got)
				assert.Equal(t, time.UTC, got.Location())
			}
		})
	}
}

func TestExtractDate_FirstGrammarDecides(t *testing.T) {
	// The English grammar matches with an unknown month; the valid Spanish
	// date later in the text is not consulted.
	_, ok := ExtractDate("on Frebuary 5, 2020 y 20 de febrero de 2018")
	assert.False(t, ok)

	// An English grammar miss leaves the Spanish grammar free to match.
	got, ok := ExtractDate("publicado el 20 de febrero de 2018")
	assert.True(t, ok)
	assert.True(t, date(2018, 2, 20).Equal(got))
}

func TestExtractDate_FirstOccurrenceWins(t *testing.T) {
	got, ok := ExtractDate("on March 1, 2019 and on March 2, 2019")
	assert.True(t, ok)
	assert.True(t, date(2019, 3, 1).Equal(got))
}

func TestLookupMonth(t *testing.T) {
	tests := []struct {
		name     string
		expected time.Month
		ok       bool
	}{
		{"January", time.January, true},
		{"may", time.May, true},
		{"Mayo", time.May, true},
		{"mar", time.March, true},
		{"ago", time.August, true},
		{"ABR", time.April, true},
		{"", 0, false},
		{"frebuary", 0, false},
	}

	for _, tc := range tests {
		got, ok := LookupMonth(tc.name)
		assert.Equal(t, tc.ok, ok, tc.name)
		assert.Equal(t, tc.expected, got, tc.name)
	}
}
