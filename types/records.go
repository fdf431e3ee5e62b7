package types

import "time"

// RecommendationRecord is a persisted track recommendation. MessageID is the
// unique key; re-ingesting the same message must not create a second row.
type RecommendationRecord struct {
	MessageID string    `db:"message_id"`
	Author    string    `db:"author"` // artist from the embed, not the poster
	Title     string    `db:"title"`
	Link      string    `db:"link"`
	Genre1    string    `db:"genre1"`
	Genre2    string    `db:"genre2"` // empty when the header named one genre
	Tag       string    `db:"tag"`
	CreatedAt time.Time `db:"created_at"`
}

// RatingRecord is a persisted track rating. RecordID is the source message id,
// suffixed with a zero-based track index when one review post rates several
// tracks, so a single post can yield many rows without key collisions.
type RatingRecord struct {
	RecordID      string    `db:"record_id"`
	RecommendedBy string    `db:"recommended_by"` // author of the replied-to post
	TrackName     string    `db:"track_name"`
	Link          string    `db:"link"` // always from the replied-to post's embed
	Rating        string    `db:"rating"` // text, tolerates "7.5"
	Explanation   string    `db:"review"`
	CreatedAt     time.Time `db:"created_at"`
}
