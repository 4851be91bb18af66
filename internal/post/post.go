// Package post defines the post records that flow through the analysis
// engines. Each stage wraps the previous record and adds its own fields;
// any JSON fields the engines do not know about are carried through
// untouched.
package post

import (
	"encoding/json"
	"time"

	"github.com/runnerr0/pulse/internal/lexicon"
)

// JSON keys owned by the engines.
const (
	keyCaption     = "caption"
	keyDescription = "og_description"
	keyHashtags    = "hashtags"
	keyLanguage    = "language_est"
	keyCTAs        = "ctas"
	keyTopics      = "topics"
	keyLikes       = "likes_est"
	keyComments    = "comments_est"
	keyPublishedAt = "published_at"
	keyYear        = "year"
	keyMonth       = "month"
	keyAgeDays     = "age_days"
)

// Post is a raw post as delivered by an acquisition tool. Description is the
// platform-supplied snippet (for Instagram, the og:description meta tag),
// which often carries an "N likes, M comments" string.
type Post struct {
	Caption     string
	Description string

	// Extra holds every other field of the source record, verbatim.
	Extra map[string]json.RawMessage
}

// Annotated is a Post plus the caption engine's detections.
type Annotated struct {
	Post

	Hashtags         []string
	Language         lexicon.Language
	CTAs             []string
	Topics           []string
	LikesEstimate    *int
	CommentsEstimate *int
}

// Dated is an Annotated post plus the temporal engine's date inference.
// PublishedAt is non-nil exactly when Year, Month and AgeDays are.
type Dated struct {
	Annotated

	PublishedAt *time.Time
	Year        *int
	Month       *int
	AgeDays     *int
}

// HasDate reports whether a publication date was inferred.
func (d Dated) HasDate() bool {
	return d.PublishedAt != nil
}

func (p Post) fields() map[string]any {
	m := make(map[string]any, len(p.Extra)+2)
	for k, v := range p.Extra {
		m[k] = v
	}
	// A non-string source value stays in Extra and wins over the empty field.
	if _, ok := p.Extra[keyCaption]; !ok {
		m[keyCaption] = p.Caption
	}
	if _, ok := p.Extra[keyDescription]; !ok {
		m[keyDescription] = p.Description
	}
	return m
}

func (a Annotated) fields() map[string]any {
	m := a.Post.fields()
	m[keyHashtags] = nonNil(a.Hashtags)
	m[keyLanguage] = a.Language
	m[keyCTAs] = nonNil(a.CTAs)
	m[keyTopics] = nonNil(a.Topics)
	m[keyLikes] = a.LikesEstimate
	m[keyComments] = a.CommentsEstimate
	return m
}

func (d Dated) fields() map[string]any {
	m := d.Annotated.fields()
	if d.PublishedAt != nil {
		m[keyPublishedAt] = d.PublishedAt.UTC().Format(time.RFC3339)
	} else {
		m[keyPublishedAt] = nil
	}
	m[keyYear] = d.Year
	m[keyMonth] = d.Month
	m[keyAgeDays] = d.AgeDays
	return m
}

// MarshalJSON emits the passthrough fields alongside caption and description.
func (p Post) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.fields())
}

// MarshalJSON emits the post with its detections as one flat object.
func (a Annotated) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.fields())
}

// MarshalJSON emits the post with its detections and date fields as one
// flat object.
func (d Dated) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.fields())
}

// UnmarshalJSON reads caption and og_description; everything else lands in
// Extra. Missing or non-string text fields read as "".
func (p *Post) UnmarshalJSON(data []byte) error {
	m, err := decodeObject(data)
	if err != nil {
		return err
	}
	p.fromMap(m)
	return nil
}

// UnmarshalJSON reads a flat annotated post object.
func (a *Annotated) UnmarshalJSON(data []byte) error {
	m, err := decodeObject(data)
	if err != nil {
		return err
	}
	a.fromMap(m)
	return nil
}

// UnmarshalJSON reads a flat dated post object.
func (d *Dated) UnmarshalJSON(data []byte) error {
	m, err := decodeObject(data)
	if err != nil {
		return err
	}

	var published *string
	take(m, keyPublishedAt, &published)
	if published != nil {
		if ts, err := time.Parse(time.RFC3339, *published); err == nil {
			ts = ts.UTC()
			d.PublishedAt = &ts
		}
	}
	take(m, keyYear, &d.Year)
	take(m, keyMonth, &d.Month)
	take(m, keyAgeDays, &d.AgeDays)

	d.Annotated.fromMap(m)
	return nil
}

func (p *Post) fromMap(m map[string]json.RawMessage) {
	take(m, keyCaption, &p.Caption)
	take(m, keyDescription, &p.Description)
	if len(m) > 0 {
		p.Extra = m
	} else {
		p.Extra = nil
	}
}

func (a *Annotated) fromMap(m map[string]json.RawMessage) {
	take(m, keyHashtags, &a.Hashtags)
	var lang string
	take(m, keyLanguage, &lang)
	a.Language = lexicon.Language(lang)
	take(m, keyCTAs, &a.CTAs)
	take(m, keyTopics, &a.Topics)
	take(m, keyLikes, &a.LikesEstimate)
	take(m, keyComments, &a.CommentsEstimate)
	a.Post.fromMap(m)
}

func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]json.RawMessage{}
	}
	return m, nil
}

// take decodes m[key] into dst and removes the key. A value of the wrong
// type is left in m so it survives as a passthrough field.
func take(m map[string]json.RawMessage, key string, dst any) {
	raw, ok := m[key]
	if !ok {
		return
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return
	}
	delete(m, key)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
