package parser

import (
	"testing"

	"github.com/ruttadj/discord-dj-bot/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trackRef() types.EmbedInfo {
	return types.EmbedInfo{
		Title:  "Everlong",
		Author: "Foo Fighters",
		Link:   "https://www.youtube.com/watch?v=eBG7P-K-r1Y",
	}
}

func albumRef() types.EmbedInfo {
	return types.EmbedInfo{
		Title:  "OK Computer (Full Album)",
		Author: "Radiohead",
		Link:   "https://www.youtube.com/watch?v=NUjBdYtb5DM",
	}
}

func TestParseReview_SingleTrack(t *testing.T) {
	records, err := ParseReview("5\nGreat track!", trackRef(), "111")
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "111", records[0].RecordID)
	assert.Equal(t, "Everlong", records[0].TrackName)
	assert.Equal(t, "https://www.youtube.com/watch?v=eBG7P-K-r1Y", records[0].Link)
	assert.Equal(t, "5", records[0].Rating)
	assert.Equal(t, "Great track!", records[0].Explanation)
}

func TestParseReview_SingleTrackOwnName(t *testing.T) {
	records, err := ParseReview("My Hero - 7\nSolid opener", trackRef(), "112")
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "112", records[0].RecordID)
	assert.Equal(t, "My Hero", records[0].TrackName)
	assert.Equal(t, "7", records[0].Rating)
	assert.Equal(t, "Solid opener", records[0].Explanation)
}

func TestParseReview_DecimalRating(t *testing.T) {
	records, err := ParseReview("7.5\nAlmost an 8", trackRef(), "113")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "7.5", records[0].Rating)
}

func TestParseReview_MultiTrackByCount(t *testing.T) {
	body := "TrackA - 8\nGood\nTrackB - 3\nMeh"
	records, err := ParseReview(body, trackRef(), "200")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "200-0", records[0].RecordID)
	assert.Equal(t, "TrackA", records[0].TrackName)
	assert.Equal(t, "8", records[0].Rating)
	assert.Equal(t, "Good", records[0].Explanation)

	assert.Equal(t, "200-1", records[1].RecordID)
	assert.Equal(t, "TrackB", records[1].TrackName)
	assert.Equal(t, "3", records[1].Rating)
	assert.Equal(t, "Meh", records[1].Explanation)
}

func TestParseReview_AlbumTitleForcesMultiTrack(t *testing.T) {
	// One unit, but the replied-to title says "Album": the indexed key is
	// used so later units from an edit never collide with this row.
	records, err := ParseReview("9\nFront to back classic", albumRef(), "201")
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "201-0", records[0].RecordID)
	assert.Equal(t, "OK Computer (Full Album)", records[0].TrackName)
}

func TestParseReview_DiscographyTitleForcesMultiTrack(t *testing.T) {
	ref := trackRef()
	ref.Title = "Radiohead Discography"
	records, err := ParseReview("6\nUneven but worth it", ref, "202")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "202-0", records[0].RecordID)
}

func TestParseReview_MissingNameInheritsTitle(t *testing.T) {
	body := "8\nHighlight\nFiller Song - 2\nSkip it"
	records, err := ParseReview(body, albumRef(), "203")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "OK Computer (Full Album)", records[0].TrackName)
	assert.Equal(t, "Filler Song", records[1].TrackName)
}

func TestParseReview_MultilineExplanation(t *testing.T) {
	body := "10\nBest thing I heard all year.\nStill thinking about it."
	records, err := ParseReview(body, trackRef(), "204")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Best thing I heard all year.\nStill thinking about it.", records[0].Explanation)
}

func TestParseReview_NoRating(t *testing.T) {
	_, err := ParseReview("this is just chatter", trackRef(), "300")
	assert.ErrorIs(t, err, ErrNoRating)
}

func TestParseReview_RatingWithoutNewlineRejected(t *testing.T) {
	// A bare number with nothing after it has no explanation to capture.
	_, err := ParseReview("8", trackRef(), "301")
	assert.ErrorIs(t, err, ErrNoRating)
}

func TestParseReview_MissingExplanationInvalidatesPost(t *testing.T) {
	// The second unit has no explanation; nothing from the post is kept.
	body := "TrackA - 8\nGood\nTrackB - 3\n"
	_, err := ParseReview(body, trackRef(), "302")
	assert.ErrorIs(t, err, ErrMissingExplanation)
}
