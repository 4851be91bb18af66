package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePosts_Array(t *testing.T) {
	posts, err := DecodePosts(strings.NewReader(`[
		{"caption": "Order now!", "og_description": "10 likes", "post_url": "https://example.com/p/1"},
		{"caption": "Sunset"}
	]`))
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "Order now!", posts[0].Caption)
	assert.Equal(t, "10 likes", posts[0].Description)
	assert.JSONEq(t, `"https://example.com/p/1"`, string(posts[0].Extra["post_url"]))
}

func TestDecodePosts_ExtractorObject(t *testing.T) {
	posts, err := DecodePosts(strings.NewReader(`{
		"profile_url": "https://www.instagram.com/taqueria/",
		"posts": [{"caption": "Tacos"}],
		"warnings": []
	}`))
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Tacos", posts[0].Caption)
}

func TestDecodePosts_EmptyCollections(t *testing.T) {
	posts, err := DecodePosts(strings.NewReader(`[]`))
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)

	posts, err = DecodePosts(strings.NewReader(`{"posts": []}`))
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestDecodePosts_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", "   "},
		{"scalar", `"tacos"`},
		{"malformed", `[{"caption": }]`},
		{"non-object post", `["just a string"]`},
		{"posts not an array", `{"posts": {"caption": "x"}}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodePosts(strings.NewReader(tc.input))
			assert.Error(t, err)
		})
	}
}

func TestDecodePosts_ObjectWithoutPosts(t *testing.T) {
	_, err := DecodePosts(strings.NewReader(`{"items": []}`))
	assert.True(t, errors.Is(err, ErrNoPosts))

	_, err = DecodePosts(strings.NewReader(`{"posts": null}`))
	assert.True(t, errors.Is(err, ErrNoPosts))
}
