package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("  \n\t "))
	assert.Equal(t, "Tacos Today", Normalize("  Tacos Today\n"))
}

func TestLower(t *testing.T) {
	assert.Equal(t, "mañana hay tacos", Lower("  Mañana HAY Tacos "))
}

func TestBlob(t *testing.T) {
	tests := []struct {
		name        string
		caption     string
		description string
		expected    string
	}{
		{"both empty", "", "", ""},
		{"caption only", " Order now ", "", "Order now"},
		{"description only", "", " 12 likes ", "12 likes"},
		{"both", "Order now", "12 likes, 3 comments", "Order now\n12 likes, 3 comments"},
		{"whitespace parts", "  ", "\n", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Blob(tc.caption, tc.description))
		})
	}
}
