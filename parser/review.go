package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ruttadj/discord-dj-bot/types"
)

// Parse failures for review posts. Either one invalidates the whole post:
// reviews are stored all-or-nothing so a half-parsed multi-track post never
// leaves partial rows behind.
var (
	ErrNoRating           = errors.New("no rating found in review body")
	ErrMissingExplanation = errors.New("rating has no explanation")
)

// ratingUnitPattern matches one review unit: an optional "<track> - " prefix,
// a numeric rating (integer or decimal) closing the line, then the
// explanation, which runs until the next unit or the end of the post.
var ratingUnitPattern = regexp.MustCompile(`(?m)^(?:(.+) - )?(\d+(?:\.\d+)?)[ \t]*\n`)

// ParseReview parses the body of a review post into rating records.
//
// ref is the embed info already extracted from the replied-to recommendation;
// the link and any fallback track name always come from there, never from the
// review post itself, which may carry no embed at all.
//
// A post is a multi-track ("album") review when the replied-to title contains
// "album" or "discography" (case-insensitive) or when more than one unit
// matches; either signal alone is enough. Multi-track records are keyed
// "<messageID>-<index>" so one post can yield many rows; a single-track
// review keeps the bare message id.
func ParseReview(body string, ref types.EmbedInfo, messageID string) ([]types.RatingRecord, error) {
	matches := ratingUnitPattern.FindAllStringSubmatchIndex(body, -1)
	if len(matches) == 0 {
		return nil, ErrNoRating
	}

	title := strings.ToLower(ref.Title)
	multi := len(matches) > 1 ||
		strings.Contains(title, "album") ||
		strings.Contains(title, "discography")

	records := make([]types.RatingRecord, 0, len(matches))
	for i, m := range matches {
		track := ref.Title
		if m[2] >= 0 {
			track = strings.TrimSpace(body[m[2]:m[3]])
		}
		rating := body[m[4]:m[5]]

		end := len(body)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		explanation := strings.TrimSpace(body[m[1]:end])
		if explanation == "" {
			return nil, ErrMissingExplanation
		}

		id := messageID
		if multi {
			id = fmt.Sprintf("%s-%d", messageID, i)
		}

		records = append(records, types.RatingRecord{
			RecordID:    id,
			TrackName:   track,
			Link:        ref.Link,
			Rating:      rating,
			Explanation: explanation,
		})
	}
	return records, nil
}
