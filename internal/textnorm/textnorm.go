// Package textnorm prepares post text for the lexical detectors.
package textnorm

import "strings"

// Normalize trims surrounding whitespace. An empty input yields "".
func Normalize(s string) string {
	return strings.TrimSpace(s)
}

// Lower returns the normalized, lowercased form of s.
func Lower(s string) string {
	return strings.ToLower(Normalize(s))
}

// Blob joins a caption and its supplemental description into the single
// text unit every detector scans. Both parts are normalized first, so a
// post with neither yields "".
func Blob(caption, description string) string {
	return strings.TrimSpace(Normalize(caption) + "\n" + Normalize(description))
}
