package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/ruttadj/discord-dj-bot/metrics"
)

func (c *Client) help(s *discordgo.Session, i *discordgo.InteractionCreate) {
	// Track command metrics
	start := time.Now()
	metrics.DiscordCommandTotal.WithLabelValues("help").Inc()
	defer func() {
		duration := time.Since(start).Seconds()
		metrics.DiscordCommandDuration.WithLabelValues("help").Observe(duration)
	}()

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "Post a track in the track-list channel as `Genre - Tag` on the first line and the link on the second. " +
				"Rate a track by replying to it in the review channel with a score and an explanation. " +
				"Use /ratings and /recommendations to browse what has been stored.",
		},
	})
	if err != nil {
		c.logger.Error("error responding to help command", "error", err.Error())
		metrics.DiscordCommandErrors.WithLabelValues("help").Inc()
		return
	}
	c.logger.Debug("help command handled successfully")
	metrics.DiscordMessageSent.Add(1)
}
