package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ruttadj/discord-dj-bot/database"
	"github.com/ruttadj/discord-dj-bot/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	recommendations []types.RecommendationRecord
	ratings         []types.RatingRecord
	insertErr       error
}

func (f *fakeStore) InsertRecommendation(_ context.Context, rec types.RecommendationRecord) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	for _, existing := range f.recommendations {
		if existing.MessageID == rec.MessageID {
			return database.ErrDuplicateRecord
		}
	}
	f.recommendations = append(f.recommendations, rec)
	return nil
}

func (f *fakeStore) InsertRating(_ context.Context, rating types.RatingRecord) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	for _, existing := range f.ratings {
		if existing.RecordID == rating.RecordID {
			return database.ErrDuplicateRecord
		}
	}
	f.ratings = append(f.ratings, rating)
	return nil
}

type fakePlatform struct {
	messages map[string]*types.SourcePost
	fetchErr error

	recommendationAcks int
	ratingAcks         int
	lastAckRecords     []types.RatingRecord
}

func (f *fakePlatform) FetchMessage(_ context.Context, _, messageID string) (*types.SourcePost, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	post, ok := f.messages[messageID]
	if !ok {
		return nil, errors.New("message not found")
	}
	return post, nil
}

func (f *fakePlatform) SendRecommendationAck(_ context.Context, _ string, _ types.EmbedInfo, _ types.RecommendationRecord) error {
	f.recommendationAcks++
	return nil
}

func (f *fakePlatform) SendRatingAck(_ context.Context, _ string, _ types.EmbedInfo, records []types.RatingRecord) error {
	f.ratingAcks++
	f.lastAckRecords = records
	return nil
}

func newTestRouter(store *fakeStore, platform *fakePlatform) *Router {
	cfg := Config{
		TrackListChannel: "test-track-list",
		ReviewChannel:    "test-music-review",
		ControllingUser:  "longliveHIM",
		AckWindow:        360 * time.Second,
		EmbedSettleDelay: 0, // no pragmatic wait in tests
	}
	return NewRouter(cfg, store, platform, nil, nil)
}

func trackListPost(id, body string) *types.SourcePost {
	return &types.SourcePost{
		MessageID:   id,
		ChannelID:   "chan-1",
		ChannelName: "test-track-list",
		Author:      "longliveHIM",
		Body:        body,
		CreatedAt:   time.Now(),
		Embed: &types.Embed{
			Title:  "Everlong",
			Author: &types.EmbedAuthor{Name: "Foo Fighters - Topic"},
			URL:    "https://www.youtube.com/watch?v=eBG7P-K-r1Y",
		},
	}
}

func reviewPost(id, replyTo, body string) *types.SourcePost {
	return &types.SourcePost{
		MessageID:   id,
		ChannelID:   "chan-2",
		ChannelName: "test-music-review",
		Author:      "longliveHIM",
		Body:        body,
		CreatedAt:   time.Now(),
		ReplyToID:   replyTo,
	}
}

func TestHandleEvent_RecommendationPersisted(t *testing.T) {
	store := &fakeStore{}
	platform := &fakePlatform{}
	router := newTestRouter(store, platform)

	outcome := router.HandleEvent(context.Background(), trackListPost("100", "Rock - chill\nhttps://www.youtube.com/watch?v=eBG7P-K-r1Y"))

	assert.Equal(t, OutcomePersisted, outcome)
	require.Len(t, store.recommendations, 1)

	rec := store.recommendations[0]
	assert.Equal(t, "100", rec.MessageID)
	assert.Equal(t, "Foo Fighters", rec.Author) // " - Topic" stripped
	assert.Equal(t, "Everlong", rec.Title)
	assert.Equal(t, "Rock", rec.Genre1)
	assert.Equal(t, "", rec.Genre2)
	assert.Equal(t, "chill", rec.Tag)
	assert.Equal(t, 1, platform.recommendationAcks)
}

func TestHandleEvent_RejectsOtherAuthors(t *testing.T) {
	store := &fakeStore{}
	router := newTestRouter(store, &fakePlatform{})

	post := trackListPost("101", "Rock - chill\nhttps://example.com")
	post.Author = "random_user"

	assert.Equal(t, OutcomeRejected, router.HandleEvent(context.Background(), post))
	assert.Empty(t, store.recommendations)
}

func TestHandleEvent_ControllingUserCaseInsensitive(t *testing.T) {
	store := &fakeStore{}
	router := newTestRouter(store, &fakePlatform{})

	post := trackListPost("102", "Rock - chill\nhttps://example.com")
	post.Author = "LONGLIVEHIM"

	assert.Equal(t, OutcomePersisted, router.HandleEvent(context.Background(), post))
	assert.Len(t, store.recommendations, 1)
}

func TestHandleEvent_RejectsUnwatchedChannel(t *testing.T) {
	router := newTestRouter(&fakeStore{}, &fakePlatform{})

	post := trackListPost("103", "Rock - chill\nhttps://example.com")
	post.ChannelName = "general"

	assert.Equal(t, OutcomeRejected, router.HandleEvent(context.Background(), post))
}

func TestHandleEvent_AwaitsEmbed(t *testing.T) {
	store := &fakeStore{}
	router := newTestRouter(store, &fakePlatform{})

	post := trackListPost("104", "Rock - chill\nhttps://example.com")
	post.Embed = nil

	assert.Equal(t, OutcomeAwaitingEmbed, router.HandleEvent(context.Background(), post))
	assert.Empty(t, store.recommendations)
}

func TestHandleEvent_EmbedArrivesByRefetch(t *testing.T) {
	store := &fakeStore{}
	settled := trackListPost("105", "Rock - chill\nhttps://example.com")
	platform := &fakePlatform{messages: map[string]*types.SourcePost{"105": settled}}

	router := newTestRouter(store, platform)
	router.cfg.EmbedSettleDelay = time.Millisecond

	bare := trackListPost("105", "Rock - chill\nhttps://example.com")
	bare.Embed = nil

	assert.Equal(t, OutcomePersisted, router.HandleEvent(context.Background(), bare))
	assert.Len(t, store.recommendations, 1)
}

func TestHandleEvent_MalformedHeaderDropped(t *testing.T) {
	store := &fakeStore{}
	router := newTestRouter(store, &fakePlatform{})

	// One line only: no link line, rejected before any persistence attempt.
	post := trackListPost("106", "Rock - chill")

	assert.Equal(t, OutcomeDropped, router.HandleEvent(context.Background(), post))
	assert.Empty(t, store.recommendations)
}

func TestHandleEvent_DuplicateRecommendationIsBenign(t *testing.T) {
	store := &fakeStore{}
	platform := &fakePlatform{}
	router := newTestRouter(store, platform)

	post := trackListPost("107", "Rock - chill\nhttps://example.com")
	require.Equal(t, OutcomePersisted, router.HandleEvent(context.Background(), post))
	assert.Equal(t, OutcomeDuplicate, router.HandleEvent(context.Background(), post))
	assert.Len(t, store.recommendations, 1)
	assert.Equal(t, 1, platform.recommendationAcks)
}

func TestHandleEvent_StaleRecommendationPersistedWithoutAck(t *testing.T) {
	store := &fakeStore{}
	platform := &fakePlatform{}
	router := newTestRouter(store, platform)

	post := trackListPost("108", "Rock - chill\nhttps://example.com")
	router.now = func() time.Time { return post.CreatedAt.Add(361 * time.Second) }

	assert.Equal(t, OutcomePersisted, router.HandleEvent(context.Background(), post))
	assert.Len(t, store.recommendations, 1)
	assert.Equal(t, 0, platform.recommendationAcks)
}

func TestHandleEvent_SingleTrackReview(t *testing.T) {
	store := &fakeStore{}
	referenced := trackListPost("200", "Rock - chill\nhttps://example.com")
	platform := &fakePlatform{messages: map[string]*types.SourcePost{"200": referenced}}
	router := newTestRouter(store, platform)

	outcome := router.HandleEvent(context.Background(), reviewPost("201", "200", "5\nGreat track!"))

	assert.Equal(t, OutcomePersisted, outcome)
	require.Len(t, store.ratings, 1)

	rating := store.ratings[0]
	assert.Equal(t, "201", rating.RecordID)
	assert.Equal(t, "longliveHIM", rating.RecommendedBy) // the replied-to author
	assert.Equal(t, "Everlong", rating.TrackName)
	assert.Equal(t, "https://www.youtube.com/watch?v=eBG7P-K-r1Y", rating.Link)
	assert.Equal(t, "5", rating.Rating)
	assert.Equal(t, "Great track!", rating.Explanation)
	assert.Equal(t, 1, platform.ratingAcks)
}

func TestHandleEvent_MultiTrackReview(t *testing.T) {
	store := &fakeStore{}
	referenced := trackListPost("210", "Rock - chill\nhttps://example.com")
	referenced.Embed.Title = "The Colour and the Shape (Full Album)"
	platform := &fakePlatform{messages: map[string]*types.SourcePost{"210": referenced}}
	router := newTestRouter(store, platform)

	outcome := router.HandleEvent(context.Background(), reviewPost("211", "210", "TrackA - 8\nGood\nTrackB - 3\nMeh"))

	assert.Equal(t, OutcomePersisted, outcome)
	require.Len(t, store.ratings, 2)
	assert.Equal(t, "211-0", store.ratings[0].RecordID)
	assert.Equal(t, "211-1", store.ratings[1].RecordID)
	assert.Equal(t, "TrackA", store.ratings[0].TrackName)
	assert.Equal(t, "TrackB", store.ratings[1].TrackName)
}

func TestHandleEvent_ReviewMustBeReply(t *testing.T) {
	store := &fakeStore{}
	router := newTestRouter(store, &fakePlatform{})

	post := reviewPost("220", "", "5\nGreat track!")

	assert.Equal(t, OutcomeRejected, router.HandleEvent(context.Background(), post))
	assert.Empty(t, store.ratings)
}

func TestHandleEvent_ReviewFetchFailureDropped(t *testing.T) {
	store := &fakeStore{}
	platform := &fakePlatform{fetchErr: errors.New("message deleted")}
	router := newTestRouter(store, platform)

	outcome := router.HandleEvent(context.Background(), reviewPost("221", "999", "5\nGreat track!"))

	assert.Equal(t, OutcomeDropped, outcome)
	assert.Empty(t, store.ratings)
}

func TestHandleEvent_ReviewTargetWithoutEmbedDropped(t *testing.T) {
	store := &fakeStore{}
	referenced := trackListPost("230", "Rock - chill\nhttps://example.com")
	referenced.Embed = nil
	platform := &fakePlatform{messages: map[string]*types.SourcePost{"230": referenced}}
	router := newTestRouter(store, platform)

	outcome := router.HandleEvent(context.Background(), reviewPost("231", "230", "5\nGreat track!"))

	assert.Equal(t, OutcomeDropped, outcome)
	assert.Empty(t, store.ratings)
}

func TestHandleEvent_ReviewTargetEmbedMissingFieldsDropped(t *testing.T) {
	store := &fakeStore{}
	referenced := trackListPost("235", "Rock - chill\nhttps://example.com")
	// Embed exists but the platform has not filled it in yet; nothing to
	// resolve a track name or link from.
	referenced.Embed = &types.Embed{}
	platform := &fakePlatform{messages: map[string]*types.SourcePost{"235": referenced}}
	router := newTestRouter(store, platform)

	outcome := router.HandleEvent(context.Background(), reviewPost("236", "235", "5\nGreat track!"))

	assert.Equal(t, OutcomeDropped, outcome)
	assert.Empty(t, store.ratings)
	assert.Equal(t, 0, platform.ratingAcks)
}

func TestHandleEvent_EmptyTagDropped(t *testing.T) {
	store := &fakeStore{}
	router := newTestRouter(store, &fakePlatform{})

	post := trackListPost("109", "Rock -\nhttps://example.com")

	assert.Equal(t, OutcomeDropped, router.HandleEvent(context.Background(), post))
	assert.Empty(t, store.recommendations)
}

func TestHandleEvent_ReviewReplayIsDuplicate(t *testing.T) {
	store := &fakeStore{}
	referenced := trackListPost("240", "Rock - chill\nhttps://example.com")
	platform := &fakePlatform{messages: map[string]*types.SourcePost{"240": referenced}}
	router := newTestRouter(store, platform)

	post := reviewPost("241", "240", "5\nGreat track!")
	require.Equal(t, OutcomePersisted, router.HandleEvent(context.Background(), post))
	assert.Equal(t, OutcomeDuplicate, router.HandleEvent(context.Background(), post))
	assert.Len(t, store.ratings, 1)
	assert.Equal(t, 1, platform.ratingAcks)
}

type fakeArtists struct {
	name string
	err  error
}

func (f *fakeArtists) ArtistFromLink(_ context.Context, _ string) (string, error) {
	return f.name, f.err
}

func TestHandleEvent_ArtistFallbackFillsEmptyAuthor(t *testing.T) {
	store := &fakeStore{}
	router := newTestRouter(store, &fakePlatform{})
	router.artists = &fakeArtists{name: "Foo Fighters"}

	post := trackListPost("250", "Rock - chill\nhttps://open.spotify.com/track/abc")
	post.Embed.Author = nil
	post.Embed.URL = "https://open.spotify.com/track/abc"

	assert.Equal(t, OutcomePersisted, router.HandleEvent(context.Background(), post))
	require.Len(t, store.recommendations, 1)
	assert.Equal(t, "Foo Fighters", store.recommendations[0].Author)
}

func TestHandleEvent_EmptyAuthorWithoutFallbackDropped(t *testing.T) {
	store := &fakeStore{}
	router := newTestRouter(store, &fakePlatform{})

	post := trackListPost("251", "Rock - chill\nhttps://example.com")
	post.Embed.Author = nil

	assert.Equal(t, OutcomeDropped, router.HandleEvent(context.Background(), post))
	assert.Empty(t, store.recommendations)
}

func TestHandleEvent_StoreErrorDropped(t *testing.T) {
	store := &fakeStore{insertErr: errors.New("connection refused")}
	router := newTestRouter(store, &fakePlatform{})

	post := trackListPost("252", "Rock - chill\nhttps://example.com")

	assert.Equal(t, OutcomeDropped, router.HandleEvent(context.Background(), post))
}
