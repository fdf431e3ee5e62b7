package database

import (
	"context"
	"fmt"

	"github.com/ruttadj/discord-dj-bot/types"
)

// RecordBrowser is the read side of the store, consumed only by the
// presentation layer. The ingestion pipeline never reads.
type RecordBrowser interface {
	ListRecommenders(ctx context.Context) ([]string, error)
	ListTracksByRating(ctx context.Context, rating string) ([]types.RatingRecord, error)
	ListTracksByRecommender(ctx context.Context, name string) ([]types.RatingRecord, error)
	ListRecommendationsByGenre(ctx context.Context, genre string) ([]types.RecommendationRecord, error)
	ListRecommendationsByTag(ctx context.Context, tag string) ([]types.RecommendationRecord, error)
	ListGenres(ctx context.Context) ([]string, error)
	ListTags(ctx context.Context) ([]string, error)
}

// ListRecommenders returns the distinct names that have recommended rated
// tracks.
func (p *Postgres) ListRecommenders(ctx context.Context) ([]string, error) {
	return p.listStrings(ctx, "SELECT DISTINCT recommended_by FROM ratings ORDER BY recommended_by")
}

// ListTracksByRating returns every rating with the given score.
func (p *Postgres) ListTracksByRating(ctx context.Context, rating string) ([]types.RatingRecord, error) {
	query := `SELECT record_id, recommended_by, track_name, link, rating, review, created_at
		FROM ratings WHERE rating = $1 ORDER BY created_at`
	return p.listRatings(ctx, query, rating)
}

// ListTracksByRecommender returns every rating of tracks the given user
// recommended.
func (p *Postgres) ListTracksByRecommender(ctx context.Context, name string) ([]types.RatingRecord, error) {
	query := `SELECT record_id, recommended_by, track_name, link, rating, review, created_at
		FROM ratings WHERE recommended_by = $1 ORDER BY created_at`
	return p.listRatings(ctx, query, name)
}

// ListRecommendationsByGenre matches either genre slot.
func (p *Postgres) ListRecommendationsByGenre(ctx context.Context, genre string) ([]types.RecommendationRecord, error) {
	query := `SELECT message_id, author, title, link, genre1, genre2, tag, created_at
		FROM recommendations WHERE genre1 = $1 OR genre2 = $1 ORDER BY created_at`
	return p.listRecommendations(ctx, query, genre)
}

// ListRecommendationsByTag returns every recommendation carrying the tag.
func (p *Postgres) ListRecommendationsByTag(ctx context.Context, tag string) ([]types.RecommendationRecord, error) {
	query := `SELECT message_id, author, title, link, genre1, genre2, tag, created_at
		FROM recommendations WHERE tag = $1 ORDER BY created_at`
	return p.listRecommendations(ctx, query, tag)
}

// ListGenres returns the distinct non-empty genres across both slots.
func (p *Postgres) ListGenres(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT genre FROM (
			SELECT genre1 AS genre FROM recommendations
			UNION SELECT genre2 FROM recommendations
		) g WHERE genre <> '' ORDER BY genre`
	return p.listStrings(ctx, query)
}

// ListTags returns the distinct tags in use.
func (p *Postgres) ListTags(ctx context.Context) ([]string, error) {
	return p.listStrings(ctx, "SELECT DISTINCT tag FROM recommendations WHERE tag <> '' ORDER BY tag")
}

func (p *Postgres) listStrings(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := p.connections.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing values: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("error scanning value: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error scanning values: %w", err)
	}
	return values, nil
}

func (p *Postgres) listRatings(ctx context.Context, query string, args ...interface{}) ([]types.RatingRecord, error) {
	rows, err := p.connections.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing ratings: %w", err)
	}
	defer rows.Close()

	var records []types.RatingRecord
	for rows.Next() {
		var r types.RatingRecord
		if err := rows.StructScan(&r); err != nil {
			return nil, fmt.Errorf("error scanning rating: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error scanning ratings: %w", err)
	}
	return records, nil
}

func (p *Postgres) listRecommendations(ctx context.Context, query string, args ...interface{}) ([]types.RecommendationRecord, error) {
	rows, err := p.connections.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing recommendations: %w", err)
	}
	defer rows.Close()

	var records []types.RecommendationRecord
	for rows.Next() {
		var r types.RecommendationRecord
		if err := rows.StructScan(&r); err != nil {
			return nil, fmt.Errorf("error scanning recommendation: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error scanning recommendations: %w", err)
	}
	return records, nil
}
