package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/ruttadj/discord-dj-bot/logging"
	"github.com/ruttadj/discord-dj-bot/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return &Postgres{connections: sqlxDB, logger: logging.Default()}, mock
}

func TestInsertRecommendation(t *testing.T) {
	store, mock := newMockStore(t)

	rec := types.RecommendationRecord{
		MessageID: "123456789",
		Author:    "Radiohead",
		Title:     "Paranoid Android",
		Link:      "https://www.youtube.com/watch?v=fHiGbolFFGw",
		Genre1:    "Rock",
		Genre2:    "",
		Tag:       "late night",
	}

	mock.ExpectExec("INSERT INTO recommendations").
		WithArgs(rec.MessageID, rec.Author, rec.Title, rec.Link, rec.Genre1, rec.Genre2, rec.Tag).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.InsertRecommendation(context.Background(), rec)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertRecommendation_Duplicate(t *testing.T) {
	store, mock := newMockStore(t)

	rec := types.RecommendationRecord{MessageID: "123456789", Title: "Paranoid Android"}

	// ON CONFLICT DO NOTHING swallows the conflict; zero rows means the
	// message was already stored.
	mock.ExpectExec("INSERT INTO recommendations").
		WithArgs(rec.MessageID, rec.Author, rec.Title, rec.Link, rec.Genre1, rec.Genre2, rec.Tag).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.InsertRecommendation(context.Background(), rec)

	assert.ErrorIs(t, err, ErrDuplicateRecord)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertRating(t *testing.T) {
	store, mock := newMockStore(t)

	rating := types.RatingRecord{
		RecordID:      "987654321-0",
		RecommendedBy: "longliveHIM",
		TrackName:     "Airbag",
		Link:          "https://www.youtube.com/watch?v=NUjBdYtb5DM",
		Rating:        "7.5",
		Explanation:   "Strong opener",
	}

	mock.ExpectExec("INSERT INTO ratings").
		WithArgs(rating.RecordID, rating.RecommendedBy, rating.TrackName, rating.Link, rating.Rating, rating.Explanation).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.InsertRating(context.Background(), rating)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertRating_Duplicate(t *testing.T) {
	store, mock := newMockStore(t)

	rating := types.RatingRecord{RecordID: "987654321"}

	mock.ExpectExec("INSERT INTO ratings").
		WithArgs(rating.RecordID, rating.RecommendedBy, rating.TrackName, rating.Link, rating.Rating, rating.Explanation).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.InsertRating(context.Background(), rating)

	assert.ErrorIs(t, err, ErrDuplicateRecord)
	assert.NoError(t, mock.ExpectationsWereMet())
}
