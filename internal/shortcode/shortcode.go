// Package shortcode locates the media shortcode inside an Instagram post,
// reel, or IGTV URL. Extraction is a pure string match: the input need not be
// a well-formed URL, and no network access is performed.
package shortcode

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrNoShortcode is matched by every *ExtractionError via errors.Is.
var ErrNoShortcode = errors.New("no shortcode in url")

// pattern matches the first instagram.com/{p|reel|tv}/<token> occurrence.
// The token runs until the next '/' or '?' and must be non-empty.
var pattern = regexp.MustCompile(`instagram\.com/(p|reel|tv)/([^/?]+)`)

// ExtractionError reports that URL carries no recognizable shortcode.
type ExtractionError struct {
	URL string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("could not extract shortcode from URL: %s", e.URL)
}

// Is makes errors.Is(err, ErrNoShortcode) true for any *ExtractionError.
func (e *ExtractionError) Is(target error) bool { return target == ErrNoShortcode }

// Extract returns the shortcode of the first post/reel/tv marker found in
// rawURL, e.g. "https://www.instagram.com/reel/C1a2B3/?igsh=x" yields "C1a2B3".
func Extract(rawURL string) (string, error) {
	m := pattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", &ExtractionError{URL: rawURL}
	}
	return m[2], nil
}

// Kind returns the path marker ("p", "reel" or "tv") that Extract would
// match for rawURL, or "" when there is none.
func Kind(rawURL string) string {
	m := pattern.FindStringSubmatch(rawURL)
	if m == nil {
		return ""
	}
	return m[1]
}
