// Package validate holds input checks applied before anything reaches
// the vendor API.
package validate

import (
	"errors"
	"regexp"
	"strings"
)

const maxQueryLength = 200

var (
	ErrInvalidTrackID = errors.New("invalid track id")
	ErrEmptyQuery     = errors.New("empty search query")

	// Vendor IDs are exactly 22 base62 characters.
	trackIDPattern = regexp.MustCompile(`^[0-9A-Za-z]{22}$`)

	controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)
	multiSpace   = regexp.MustCompile(`\s+`)
)

// TrackID checks that id is a well-formed vendor track ID.
func TrackID(id string) error {
	if !trackIDPattern.MatchString(id) {
		return ErrInvalidTrackID
	}
	return nil
}

// Query sanitizes a free-text search query: control characters dropped,
// whitespace collapsed, length capped. Returns ErrEmptyQuery when
// nothing usable remains.
func Query(q string) (string, error) {
	q = controlChars.ReplaceAllString(q, "")
	q = multiSpace.ReplaceAllString(q, " ")
	q = strings.TrimSpace(q)
	if q == "" {
		return "", ErrEmptyQuery
	}
	return truncateRunes(q, maxQueryLength), nil
}

// truncateRunes caps s at n characters, never splitting a rune.
func truncateRunes(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}

// PlaylistName sanitizes a playlist name the same way queries are, but
// with the vendor's 100 character cap.
func PlaylistName(name string) (string, error) {
	name = controlChars.ReplaceAllString(name, "")
	name = multiSpace.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("empty playlist name")
	}
	return truncateRunes(name, 100), nil
}
