package ingest

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ruttadj/discord-dj-bot/database"
	"github.com/ruttadj/discord-dj-bot/logging"
	"github.com/ruttadj/discord-dj-bot/metrics"
	"github.com/ruttadj/discord-dj-bot/parser"
	"github.com/ruttadj/discord-dj-bot/types"
)

// Outcome summarizes what the router did with one event. Replay uses it to
// count processed versus skipped posts; live handling ignores it.
type Outcome int

const (
	// OutcomeRejected means the event was not eligible: wrong author,
	// wrong channel, or a review that was not a reply.
	OutcomeRejected Outcome = iota
	// OutcomeAwaitingEmbed means a track-list post had no embed yet; a
	// later edit event carrying the preview resumes processing.
	OutcomeAwaitingEmbed
	// OutcomeDropped means parsing or persistence failed; the failure was
	// logged and the post discarded.
	OutcomeDropped
	// OutcomeDuplicate means every row from this post was already stored.
	OutcomeDuplicate
	// OutcomePersisted means at least one new record was stored.
	OutcomePersisted
)

// Platform is the messaging-platform adapter the router drives. The only
// fetch the pipeline ever performs is resolving a review's reply target;
// both sends are fire-and-await with no retry.
type Platform interface {
	FetchMessage(ctx context.Context, channelID, messageID string) (*types.SourcePost, error)
	SendRecommendationAck(ctx context.Context, channelID string, info types.EmbedInfo, rec types.RecommendationRecord) error
	SendRatingAck(ctx context.Context, channelID string, info types.EmbedInfo, records []types.RatingRecord) error
}

// ArtistResolver fills in an artist name for a link when the embed carries
// none. Optional; a nil resolver disables the fallback.
type ArtistResolver interface {
	ArtistFromLink(ctx context.Context, link string) (string, error)
}

// Config are the immutable inputs the router is constructed with.
type Config struct {
	TrackListChannel string
	ReviewChannel    string
	ControllingUser  string

	// AckWindow bounds the age beyond which a persisted post no longer
	// triggers a visible confirmation.
	AckWindow time.Duration

	// EmbedSettleDelay is waited before re-fetching a fresh track-list
	// post that arrived without an embed. The platform offers no signal
	// for embed attachment, so this is a pragmatic pause, not a poll.
	EmbedSettleDelay time.Duration
}

// Router decides per inbound event which parser applies and orchestrates
// extraction, persistence, and acknowledgement. It processes one event at a
// time to completion; idempotent insert keys exist to tolerate replay, not
// concurrent writers.
type Router struct {
	cfg      Config
	store    database.RecordWriter
	platform Platform
	artists  ArtistResolver
	logger   *logging.Logger

	now func() time.Time
}

// NewRouter wires the router to its store and platform adapter. artists may
// be nil.
func NewRouter(cfg Config, store database.RecordWriter, platform Platform, artists ArtistResolver, logger *logging.Logger) *Router {
	if logger == nil {
		logger = logging.Default()
	}
	return &Router{
		cfg:      cfg,
		store:    store,
		platform: platform,
		artists:  artists,
		logger:   logger,
		now:      time.Now,
	}
}

// HandleEvent runs one inbound message or edit event through the state
// machine. All failures are local to the event: they are logged and the post
// is dropped, never propagated.
func (r *Router) HandleEvent(ctx context.Context, post *types.SourcePost) Outcome {
	metrics.IngestEventReceived.Add(1)
	log := r.logger.WithFields(map[string]interface{}{
		"traceID":   uuid.NewString(),
		"messageID": post.MessageID,
		"channel":   post.ChannelName,
	})

	if !strings.EqualFold(post.Author, r.cfg.ControllingUser) {
		return OutcomeRejected
	}

	switch post.ChannelName {
	case r.cfg.TrackListChannel:
		outcome := r.handleRecommendation(ctx, post, log)
		metrics.IngestOutcomeTotal.WithLabelValues("recommendation", outcome.String()).Inc()
		return outcome
	case r.cfg.ReviewChannel:
		outcome := r.handleReview(ctx, post, log)
		metrics.IngestOutcomeTotal.WithLabelValues("rating", outcome.String()).Inc()
		return outcome
	default:
		return OutcomeRejected
	}
}

func (r *Router) handleRecommendation(ctx context.Context, post *types.SourcePost, log *logging.Logger) Outcome {
	if post.Embed == nil {
		post = r.waitForEmbed(ctx, post, log)
		if post.Embed == nil {
			log.Info("no embed on track-list post yet, waiting for edit")
			metrics.IngestAwaitingEmbed.Add(1)
			return OutcomeAwaitingEmbed
		}
	}

	genres, tag, err := parser.ParseRecommendation(post.Body)
	if err != nil {
		log.Error("error parsing recommendation", "error", err.Error())
		metrics.IngestPostDropped.Add(1)
		return OutcomeDropped
	}

	info := parser.ExtractEmbedInfo(post.Embed)
	if info.Author == "" && r.artists != nil && info.Link != "" {
		name, err := r.artists.ArtistFromLink(ctx, info.Link)
		if err != nil {
			log.Warn("artist lookup failed", "error", err.Error(), "link", info.Link)
		} else {
			info.Author = name
		}
	}
	if info.Title == "" || info.Author == "" {
		log.Error("embed missing title or author, dropping recommendation", "title", info.Title, "author", info.Author)
		metrics.IngestPostDropped.Add(1)
		return OutcomeDropped
	}

	rec := types.RecommendationRecord{
		MessageID: post.MessageID,
		Author:    info.Author,
		Title:     info.Title,
		Link:      info.Link,
		Genre1:    genres[0],
		Genre2:    genres[1],
		Tag:       tag,
	}

	err = r.store.InsertRecommendation(ctx, rec)
	switch {
	case errors.Is(err, database.ErrDuplicateRecord):
		log.Debug("recommendation already stored")
		metrics.IngestDuplicateSkip.Add(1)
		return OutcomeDuplicate
	case err != nil:
		log.Error("error persisting recommendation", "error", err.Error())
		metrics.IngestPostDropped.Add(1)
		return OutcomeDropped
	}
	metrics.IngestRecordInserted.Add(1)
	log.Info("recommendation inserted", "title", rec.Title, "author", rec.Author, "genre1", rec.Genre1, "tag", rec.Tag)

	if r.isFresh(post) {
		if err := r.platform.SendRecommendationAck(ctx, post.ChannelID, info, rec); err != nil {
			log.Error("error sending recommendation ack", "error", err.Error())
		} else {
			metrics.AckSent.Add(1)
		}
	} else {
		metrics.AckSuppressedStale.Add(1)
	}
	return OutcomePersisted
}

func (r *Router) handleReview(ctx context.Context, post *types.SourcePost, log *logging.Logger) Outcome {
	// A review must be a reply; the rated track lives in the replied-to
	// post's embed.
	if post.ReplyToID == "" {
		return OutcomeRejected
	}

	ref, err := r.platform.FetchMessage(ctx, post.ChannelID, post.ReplyToID)
	if err != nil {
		log.Warn("could not fetch replied-to message", "error", err.Error(), "replyToID", post.ReplyToID)
		metrics.IngestPostDropped.Add(1)
		return OutcomeDropped
	}
	if ref.Embed == nil {
		log.Warn("replied-to message has no embed", "replyToID", post.ReplyToID)
		metrics.IngestPostDropped.Add(1)
		return OutcomeDropped
	}

	info := parser.ExtractEmbedInfo(ref.Embed)
	if info.Title == "" || info.Link == "" {
		log.Warn("replied-to embed missing title or link, dropping review", "replyToID", post.ReplyToID)
		metrics.IngestPostDropped.Add(1)
		return OutcomeDropped
	}
	records, err := parser.ParseReview(post.Body, info, post.MessageID)
	if err != nil {
		log.Error("error parsing review", "error", err.Error())
		metrics.IngestPostDropped.Add(1)
		return OutcomeDropped
	}

	recommender := ref.Author
	if recommender == "" {
		recommender = "Unknown"
	}

	inserted := 0
	for i := range records {
		records[i].RecommendedBy = recommender
		err := r.store.InsertRating(ctx, records[i])
		switch {
		case errors.Is(err, database.ErrDuplicateRecord):
			log.Debug("rating already stored", "recordID", records[i].RecordID)
			metrics.IngestDuplicateSkip.Add(1)
		case err != nil:
			log.Error("error persisting rating", "error", err.Error(), "recordID", records[i].RecordID)
			metrics.IngestPostDropped.Add(1)
			return OutcomeDropped
		default:
			inserted++
			metrics.IngestRecordInserted.Add(1)
		}
	}
	if inserted == 0 {
		return OutcomeDuplicate
	}
	log.Info("ratings inserted", "count", inserted, "title", info.Title, "recommendedBy", recommender)

	if r.isFresh(post) {
		if err := r.platform.SendRatingAck(ctx, post.ChannelID, info, records); err != nil {
			log.Error("error sending rating ack", "error", err.Error())
		} else {
			metrics.AckSent.Add(1)
		}
	} else {
		metrics.AckSuppressedStale.Add(1)
	}
	return OutcomePersisted
}

// waitForEmbed pauses briefly on a freshly created post and re-fetches it,
// giving the platform's asynchronous preview generation time to attach the
// embed. Edits and old posts are not worth waiting on; the edit event is the
// real resume signal.
func (r *Router) waitForEmbed(ctx context.Context, post *types.SourcePost, log *logging.Logger) *types.SourcePost {
	if post.IsEdit || r.cfg.EmbedSettleDelay <= 0 || !r.isFresh(post) {
		return post
	}

	select {
	case <-ctx.Done():
		return post
	case <-time.After(r.cfg.EmbedSettleDelay):
	}

	refetched, err := r.platform.FetchMessage(ctx, post.ChannelID, post.MessageID)
	if err != nil {
		log.Warn("could not re-fetch post after embed delay", "error", err.Error())
		return post
	}
	return refetched
}

func (r *Router) isFresh(post *types.SourcePost) bool {
	return r.now().Sub(post.CreatedAt) < r.cfg.AckWindow
}

func (o Outcome) String() string {
	switch o {
	case OutcomeRejected:
		return "rejected"
	case OutcomeAwaitingEmbed:
		return "awaiting_embed"
	case OutcomeDropped:
		return "dropped"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomePersisted:
		return "persisted"
	default:
		return "unknown"
	}
}
