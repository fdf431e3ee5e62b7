package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/ruttadj/discord-dj-bot/metrics"
	"github.com/ruttadj/discord-dj-bot/types"
)

// FetchMessage resolves a message by id. The router uses it to load the
// replied-to recommendation for a review and to re-check a fresh post for a
// late-arriving embed.
func (c *Client) FetchMessage(ctx context.Context, channelID, messageID string) (*types.SourcePost, error) {
	m, err := c.Session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("error fetching message %s: %w", messageID, err)
	}
	post := c.sourcePostFromMessage(c.Session, m, false)
	if post == nil {
		return nil, fmt.Errorf("could not resolve channel for message %s", messageID)
	}
	return post, nil
}

// SendRecommendationAck posts the confirmation embed for a stored
// recommendation back to the originating channel.
func (c *Client) SendRecommendationAck(ctx context.Context, channelID string, info types.EmbedInfo, rec types.RecommendationRecord) error {
	_, err := c.Session.ChannelMessageSendEmbed(channelID, newRecommendationEmbed(info, rec), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("error sending recommendation ack: %w", err)
	}
	metrics.DiscordMessageSent.Add(1)
	return nil
}

// SendRatingAck posts the confirmation embed for one or more stored ratings
// back to the originating channel.
func (c *Client) SendRatingAck(ctx context.Context, channelID string, info types.EmbedInfo, records []types.RatingRecord) error {
	_, err := c.Session.ChannelMessageSendEmbed(channelID, newRatingEmbed(info, records), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("error sending rating ack: %w", err)
	}
	metrics.DiscordMessageSent.Add(1)
	return nil
}
