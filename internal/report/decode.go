package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/runnerr0/pulse/internal/post"
)

// ErrNoPosts is returned by DecodePosts for an object without a posts array.
var ErrNoPosts = errors.New("document has no posts array")

// DecodePosts reads a posts document: either a JSON array of post objects
// or an object carrying them under "posts", as extractors emit.
func DecodePosts(r io.Reader) ([]post.Post, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading posts: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("decoding posts: empty document")
	}

	switch data[0] {
	case '[':
		var posts []post.Post
		if err := json.Unmarshal(data, &posts); err != nil {
			return nil, fmt.Errorf("decoding posts: %w", err)
		}
		return nonNilPosts(posts), nil
	case '{':
		var doc struct {
			Posts *[]post.Post `json:"posts"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decoding posts: %w", err)
		}
		if doc.Posts == nil {
			return nil, ErrNoPosts
		}
		return nonNilPosts(*doc.Posts), nil
	default:
		return nil, fmt.Errorf("decoding posts: expected a JSON array or object")
	}
}

func nonNilPosts(p []post.Post) []post.Post {
	if p == nil {
		return []post.Post{}
	}
	return p
}
