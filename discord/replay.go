package discord

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/ruttadj/discord-dj-bot/ingest"
	"github.com/ruttadj/discord-dj-bot/metrics"
)

// replay re-runs the full history of both watched channels through the
// ingestion pipeline. Records already stored are skipped by the store's
// idempotent keys, so replaying is always safe. Posts older than the ack
// window persist silently, which keeps a replay from flooding the channels.
func (c *Client) replay(s *discordgo.Session, i *discordgo.InteractionCreate) {
	start := time.Now()
	metrics.DiscordCommandTotal.WithLabelValues("replay").Inc()
	c.logger.Info("received request to process history")

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		c.logger.Error("error responding to replay command", "error", err.Error())
		metrics.DiscordCommandErrors.WithLabelValues("replay").Inc()
		return
	}

	go func() {
		processed, skipped := c.replayChannels(context.Background())
		metrics.ReplayDuration.Observe(time.Since(start).Seconds())

		content := fmt.Sprintf("Historical processing complete!\n"+
			"Processed: %d new messages\n"+
			"Skipped: %d messages (already processed or not target user)",
			processed, skipped)
		if _, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{Content: content}); err != nil {
			c.logger.Error("error sending replay summary", "error", err.Error())
			return
		}
		metrics.DiscordMessageSent.Add(1)
		c.logger.Info("historical processing complete", "processed", processed, "skipped", skipped)
	}()
}

func (c *Client) replayChannels(ctx context.Context) (processed, skipped int) {
	for _, ch := range c.watchedChannels() {
		c.logger.Info("starting historical processing", "channel", ch.Name)
		messages, err := c.channelHistory(ctx, ch.ID)
		if err != nil {
			c.logger.Warn("error fetching channel history", "error", err.Error(), "channel", ch.Name)
			continue
		}
		for _, m := range messages {
			if m.Author == nil || m.Author.ID == c.Session.State.User.ID {
				skipped++
				continue
			}
			post := c.sourcePostFromMessage(c.Session, m, false)
			if post == nil {
				skipped++
				continue
			}
			if c.router.HandleEvent(ctx, post) == ingest.OutcomePersisted {
				processed++
			} else {
				skipped++
			}
		}
		c.logger.Info("channel history processed", "channel", ch.Name, "processed", processed, "skipped", skipped)
	}
	return processed, skipped
}

// watchedChannels resolves the configured channel names across every guild
// the bot is in.
func (c *Client) watchedChannels() []*discordgo.Channel {
	var channels []*discordgo.Channel
	for _, guild := range c.Session.State.Guilds {
		guildChannels, err := c.Session.GuildChannels(guild.ID)
		if err != nil {
			c.logger.Warn("error listing guild channels", "error", err.Error(), "guildID", guild.ID)
			continue
		}
		for _, ch := range guildChannels {
			if ch.Type != discordgo.ChannelTypeGuildText {
				continue
			}
			if ch.Name == c.cfg.TrackListChannel || ch.Name == c.cfg.MusicReviewChannel {
				channels = append(channels, ch)
			}
		}
	}
	return channels
}

// channelHistory pages through a channel's full message history and returns
// it oldest first. The API hands batches back newest first, 100 at a time.
func (c *Client) channelHistory(ctx context.Context, channelID string) ([]*discordgo.Message, error) {
	var all []*discordgo.Message
	beforeID := ""
	for {
		batch, err := c.Session.ChannelMessages(channelID, 100, beforeID, "", "", discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("error fetching channel messages: %w", err)
		}
		if len(batch) == 0 {
			break
		}
		all = append(all, batch...)
		beforeID = batch[len(batch)-1].ID
		if len(batch) < 100 {
			break
		}
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].Timestamp.Before(all[j].Timestamp)
	})
	return all, nil
}
