package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/ruttadj/discord-dj-bot/types"
)

// onMessageCreate feeds every new message in a watched guild through the
// ingestion router. The router does all filtering; this handler only
// normalizes the platform object.
func (c *Client) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID {
		return
	}

	post := c.sourcePostFromMessage(s, m.Message, false)
	if post == nil {
		return
	}
	c.router.HandleEvent(context.Background(), post)
}

// onMessageUpdate handles content edits and, more importantly, the edit
// events discord emits when it attaches a link preview to an earlier post.
// Those embed-only updates arrive with partial message data, so the full
// message is re-fetched when fields are missing.
func (c *Client) onMessageUpdate(s *discordgo.Session, m *discordgo.MessageUpdate) {
	msg := m.Message
	if msg.Author == nil || msg.Content == "" {
		full, err := s.ChannelMessage(m.ChannelID, m.ID)
		if err != nil {
			c.logger.Warn("could not fetch edited message", "error", err.Error(), "messageID", m.ID)
			return
		}
		msg = full
	}
	if msg.Author == nil || msg.Author.ID == s.State.User.ID {
		return
	}

	post := c.sourcePostFromMessage(s, msg, true)
	if post == nil {
		return
	}
	c.router.HandleEvent(context.Background(), post)
}

// sourcePostFromMessage normalizes a discordgo message into the shape the
// router consumes. Returns nil when the channel cannot be resolved.
func (c *Client) sourcePostFromMessage(s *discordgo.Session, m *discordgo.Message, isEdit bool) *types.SourcePost {
	name, err := c.channelName(s, m.ChannelID)
	if err != nil {
		c.logger.Warn("could not resolve channel", "error", err.Error(), "channelID", m.ChannelID)
		return nil
	}

	created := m.Timestamp
	if created.IsZero() {
		// edit payloads omit the original creation time; the snowflake
		// id encodes it
		if ts, err := discordgo.SnowflakeTimestamp(m.ID); err == nil {
			created = ts
		}
	}

	post := &types.SourcePost{
		MessageID:   m.ID,
		ChannelID:   m.ChannelID,
		ChannelName: name,
		Author:      displayName(m.Author),
		Body:        m.Content,
		CreatedAt:   created,
		IsEdit:      isEdit,
	}
	if m.MessageReference != nil {
		post.ReplyToID = m.MessageReference.MessageID
	}
	if len(m.Embeds) > 0 {
		post.Embed = embedFromMessage(m.Embeds[0])
	}
	return post
}

func (c *Client) channelName(s *discordgo.Session, channelID string) (string, error) {
	if ch, err := s.State.Channel(channelID); err == nil {
		return ch.Name, nil
	}
	ch, err := s.Channel(channelID)
	if err != nil {
		return "", err
	}
	return ch.Name, nil
}

func displayName(u *discordgo.User) string {
	if u == nil {
		return ""
	}
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

func embedFromMessage(e *discordgo.MessageEmbed) *types.Embed {
	emb := &types.Embed{Title: e.Title, URL: e.URL}
	if e.Author != nil {
		emb.Author = &types.EmbedAuthor{Name: e.Author.Name}
	}
	return emb
}
