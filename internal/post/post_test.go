package post

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/pulse/internal/lexicon"
)

func intPtr(n int) *int { return &n }

func TestPost_UnmarshalKeepsPassthroughFields(t *testing.T) {
	raw := `{"caption":"Order now!","og_description":"12 likes","post_url":"https://instagram.com/p/abc","image_url":"https://cdn/x.jpg","rank":3}`

	var p Post
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, "Order now!", p.Caption)
	assert.Equal(t, "12 likes", p.Description)
	require.Len(t, p.Extra, 3)
	assert.JSONEq(t, `"https://instagram.com/p/abc"`, string(p.Extra["post_url"]))
	assert.JSONEq(t, `3`, string(p.Extra["rank"]))

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}

func TestPost_MissingFieldsReadAsEmpty(t *testing.T) {
	var p Post
	require.NoError(t, json.Unmarshal([]byte(`{"post_url":"u"}`), &p))
	assert.Equal(t, "", p.Caption)
	assert.Equal(t, "", p.Description)

	require.NoError(t, json.Unmarshal([]byte(`{"caption":null}`), &p))
	assert.Equal(t, "", p.Caption)
	assert.Nil(t, p.Extra)
}

func TestPost_NonStringCaptionIsPreserved(t *testing.T) {
	var p Post
	require.NoError(t, json.Unmarshal([]byte(`{"caption":42,"post_url":"u"}`), &p))
	assert.Equal(t, "", p.Caption)
	assert.JSONEq(t, `42`, string(p.Extra["caption"]))

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"caption":42,"og_description":"","post_url":"u"}`, string(out))

	out, err = json.Marshal(Annotated{Post: p})
	require.NoError(t, err)
	var flat map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &flat))
	assert.JSONEq(t, `42`, string(flat["caption"]))
	assert.JSONEq(t, `"u"`, string(flat["post_url"]))
}

func TestPost_UnmarshalRejectsNonObjects(t *testing.T) {
	var p Post
	assert.Error(t, json.Unmarshal([]byte(`["a"]`), &p))
}

func TestAnnotated_MarshalFlat(t *testing.T) {
	a := Annotated{
		Post:             Post{Caption: "c", Extra: map[string]json.RawMessage{"post_url": json.RawMessage(`"u"`)}},
		Hashtags:         []string{"#tacos"},
		Language:         lexicon.English,
		CTAs:             nil,
		Topics:           []string{"promos"},
		LikesEstimate:    intPtr(10),
		CommentsEstimate: nil,
	}

	out, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"caption":"c","og_description":"","post_url":"u",
		"hashtags":["#tacos"],"language_est":"en","ctas":[],"topics":["promos"],
		"likes_est":10,"comments_est":null
	}`, string(out))

	var back Annotated
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, "c", back.Caption)
	assert.Equal(t, lexicon.English, back.Language)
	assert.Equal(t, []string{"#tacos"}, back.Hashtags)
	assert.Equal(t, []string{}, back.CTAs)
	require.NotNil(t, back.LikesEstimate)
	assert.Equal(t, 10, *back.LikesEstimate)
	assert.Nil(t, back.CommentsEstimate)
	assert.Equal(t, map[string]json.RawMessage{"post_url": json.RawMessage(`"u"`)}, back.Extra)
}

func TestDated_RoundTrip(t *testing.T) {
	ts := time.Date(2018, 2, 20, 0, 0, 0, 0, time.UTC)
	d := Dated{
		Annotated:   Annotated{Post: Post{Caption: "on February 20, 2018"}, Language: lexicon.Unknown},
		PublishedAt: &ts,
		Year:        intPtr(2018),
		Month:       intPtr(2),
		AgeDays:     intPtr(100),
	}
	assert.True(t, d.HasDate())

	out, err := json.Marshal(d)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(out, &fields))
	assert.Equal(t, "2018-02-20T00:00:00Z", fields["published_at"])
	assert.Equal(t, float64(2018), fields["year"])

	var back Dated
	require.NoError(t, json.Unmarshal(out, &back))
	require.NotNil(t, back.PublishedAt)
	assert.True(t, ts.Equal(*back.PublishedAt))
	assert.Equal(t, 2, *back.Month)
	assert.Equal(t, 100, *back.AgeDays)
	assert.Equal(t, "on February 20, 2018", back.Caption)
	assert.Nil(t, back.Extra)
}

func TestDated_UndatedFieldsAreNull(t *testing.T) {
	d := Dated{Annotated: Annotated{Language: lexicon.Unknown}}
	assert.False(t, d.HasDate())

	out, err := json.Marshal(d)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(out, &fields))
	for _, key := range []string{"published_at", "year", "month", "age_days"} {
		v, ok := fields[key]
		assert.True(t, ok, "%s should be present", key)
		assert.Nil(t, v, "%s should be null", key)
	}
}
