package parser

import (
	"errors"
	"regexp"
	"strings"
)

// Parse failures for track-list posts. The post is dropped when any of these
// is returned; the user's fix is to edit the original message, which re-enters
// the pipeline as a fresh edit event.
var (
	ErrTooFewLines     = errors.New("recommendation needs a header line and a link line")
	ErrMalformedHeader = errors.New("recommendation header has no '-' separator")
	ErrEmptyHeader     = errors.New("recommendation header has an empty genre or tag")
)

// roleMentionPattern matches Discord role mentions, which the controlling user
// uses as genre markers in newer posts.
var roleMentionPattern = regexp.MustCompile(`<@&\d+>`)

// ParseRecommendation parses the header line of a track-list post.
//
// The expected shape is "<genre> [<genre>] - <tag>" on the first line and the
// track link on the second. Genres are role mentions when present, otherwise
// the space-separated words before the last '-'. The result always holds
// exactly two genre slots; a missing second genre is the empty string. A post
// with no genre at all, or nothing after the last '-', is rejected.
func ParseRecommendation(body string) ([2]string, string, error) {
	lines := strings.Split(body, "\n")
	if len(lines) < 2 {
		return [2]string{}, "", ErrTooFewLines
	}

	parts := strings.Split(lines[0], "-")
	if len(parts) < 2 {
		return [2]string{}, "", ErrMalformedHeader
	}

	head := strings.Join(parts[:len(parts)-1], "-")
	tag := strings.TrimSpace(parts[len(parts)-1])

	tokens := roleMentionPattern.FindAllString(head, -1)
	if len(tokens) == 0 {
		for _, tok := range strings.Split(head, " ") {
			if tok != "" {
				tokens = append(tokens, tok)
			}
		}
	}

	var genres [2]string
	for i := 0; i < len(tokens) && i < 2; i++ {
		genres[i] = tokens[i]
	}
	if genres[0] == "" || tag == "" {
		return [2]string{}, "", ErrEmptyHeader
	}
	return genres, tag, nil
}
