package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/ruttadj/discord-dj-bot/types"
)

// ErrDuplicateRecord is returned when a record for the same source message is
// already stored. Replays and re-edits hit this constantly; callers treat it
// as benign.
var ErrDuplicateRecord = errors.New("record already stored for this message")

// RecordWriter is the write side of the store, consumed by the ingestion
// pipeline.
type RecordWriter interface {
	RecommendationWriter
	RatingWriter
}

// RecommendationWriter is an interface for persisting track recommendations.
type RecommendationWriter interface {
	InsertRecommendation(ctx context.Context, rec types.RecommendationRecord) error
}

// RatingWriter is an interface for persisting track ratings.
type RatingWriter interface {
	InsertRating(ctx context.Context, rating types.RatingRecord) error
}

// InsertRecommendation inserts a recommendation keyed by its source message
// id. Inserting the same message id twice returns ErrDuplicateRecord instead
// of a second row.
func (p *Postgres) InsertRecommendation(ctx context.Context, rec types.RecommendationRecord) error {
	query := `INSERT INTO recommendations (message_id, author, title, link, genre1, genre2, tag)
		VALUES (:message_id, :author, :title, :link, :genre1, :genre2, :tag)
		ON CONFLICT (message_id) DO NOTHING`
	p.logger.Debug("inserting recommendation", "messageID", rec.MessageID, "title", rec.Title)

	res, err := p.connections.NamedExecContext(ctx, query, rec)
	if err != nil {
		p.logger.Error("error inserting recommendation", "error", err.Error(), "messageID", rec.MessageID)
		return fmt.Errorf("error inserting recommendation: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking recommendation insert: %w", err)
	}
	if inserted == 0 {
		return ErrDuplicateRecord
	}
	return nil
}

// InsertRating inserts a rating keyed by its record id (message id, or
// message id plus track index for multi-track reviews). Duplicate keys return
// ErrDuplicateRecord.
func (p *Postgres) InsertRating(ctx context.Context, rating types.RatingRecord) error {
	query := `INSERT INTO ratings (record_id, recommended_by, track_name, link, rating, review)
		VALUES (:record_id, :recommended_by, :track_name, :link, :rating, :review)
		ON CONFLICT (record_id) DO NOTHING`
	p.logger.Debug("inserting rating", "recordID", rating.RecordID, "track", rating.TrackName)

	res, err := p.connections.NamedExecContext(ctx, query, rating)
	if err != nil {
		p.logger.Error("error inserting rating", "error", err.Error(), "recordID", rating.RecordID)
		return fmt.Errorf("error inserting rating: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rating insert: %w", err)
	}
	if inserted == 0 {
		return ErrDuplicateRecord
	}
	return nil
}
