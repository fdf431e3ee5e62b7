package discord

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/ruttadj/discord-dj-bot/metrics"
)

// Component custom id prefixes for the browse menus. Parametrized buttons
// carry their value after the prefix.
const (
	idRatingsByScore       = "ratings_by_score"
	idRatingsByRecommender = "ratings_by_recommender"
	idScorePrefix          = "score_"
	idRecommenderPrefix    = "recommender_"
	idBackRatings          = "back_ratings"
	idRecsByGenre          = "recs_by_genre"
	idRecsByTag            = "recs_by_tag"
	idGenrePrefix          = "genre_"
	idTagPrefix            = "tag_"
	idBackRecs             = "back_recs"
	idClose                = "close"
)

// maxMenuButtons caps parametrized menus at discord's component limit: five
// rows of five, minus one row reserved for navigation.
const maxMenuButtons = 20

func (c *Client) ratings(s *discordgo.Session, i *discordgo.InteractionCreate) {
	metrics.DiscordCommandTotal.WithLabelValues("ratings").Inc()
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    "View Reviews By:",
			Components: ratingsStartView(),
		},
	})
	if err != nil {
		c.logger.Error("error sending ratings view", "error", err.Error())
		metrics.DiscordCommandErrors.WithLabelValues("ratings").Inc()
		return
	}
	metrics.DiscordMessageSent.Add(1)
}

func (c *Client) recommendations(s *discordgo.Session, i *discordgo.InteractionCreate) {
	metrics.DiscordCommandTotal.WithLabelValues("recommendations").Inc()
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    "View Recommendations By:",
			Components: recommendationsStartView(),
		},
	})
	if err != nil {
		c.logger.Error("error sending recommendations view", "error", err.Error())
		metrics.DiscordCommandErrors.WithLabelValues("recommendations").Inc()
		return
	}
	metrics.DiscordMessageSent.Add(1)
}

// handleComponent dispatches button presses from the browse menus.
func (c *Client) handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	customID := i.MessageComponentData().CustomID
	switch {
	case customID == idRatingsByScore:
		c.updateView(s, i, "Select a rating:", scoreView())
	case customID == idRatingsByRecommender:
		names, err := c.db.ListRecommenders(ctx)
		if err != nil {
			c.componentError(s, i, "Could not load recommenders.", err)
			return
		}
		c.updateView(s, i, "View Songs Recommended By:", buttonMenu(idRecommenderPrefix, names, idBackRatings))
	case customID == idBackRatings:
		c.updateView(s, i, "View Reviews By:", ratingsStartView())
	case strings.HasPrefix(customID, idScorePrefix):
		score := strings.TrimPrefix(customID, idScorePrefix)
		records, err := c.db.ListTracksByRating(ctx, score)
		if err != nil {
			c.componentError(s, i, "Could not load ratings.", err)
			return
		}
		if len(records) == 0 {
			c.ephemeralReply(s, i, fmt.Sprintf("No tracks found with rating %s.", score))
			return
		}
		c.updateResults(s, i, newRatingsTableEmbed(records))
	case strings.HasPrefix(customID, idRecommenderPrefix):
		name := strings.TrimPrefix(customID, idRecommenderPrefix)
		records, err := c.db.ListTracksByRecommender(ctx, name)
		if err != nil {
			c.componentError(s, i, "Could not load ratings.", err)
			return
		}
		if len(records) == 0 {
			c.ephemeralReply(s, i, fmt.Sprintf("No tracks found recommended by %s.", name))
			return
		}
		c.updateResults(s, i, newRatingsTableEmbed(records))
	case customID == idRecsByGenre:
		genres, err := c.db.ListGenres(ctx)
		if err != nil {
			c.componentError(s, i, "Could not load genres.", err)
			return
		}
		c.updateView(s, i, "Select a genre:", buttonMenu(idGenrePrefix, genres, idBackRecs))
	case customID == idRecsByTag:
		tags, err := c.db.ListTags(ctx)
		if err != nil {
			c.componentError(s, i, "Could not load tags.", err)
			return
		}
		c.updateView(s, i, "Select a tag:", buttonMenu(idTagPrefix, tags, idBackRecs))
	case customID == idBackRecs:
		c.updateView(s, i, "View Recommendations By:", recommendationsStartView())
	case strings.HasPrefix(customID, idGenrePrefix):
		genre := strings.TrimPrefix(customID, idGenrePrefix)
		records, err := c.db.ListRecommendationsByGenre(ctx, genre)
		if err != nil {
			c.componentError(s, i, "Could not load recommendations.", err)
			return
		}
		if len(records) == 0 {
			c.ephemeralReply(s, i, fmt.Sprintf("No recommendations found for %s.", genre))
			return
		}
		c.updateResults(s, i, newRecommendationsTableEmbed(records))
	case strings.HasPrefix(customID, idTagPrefix):
		tag := strings.TrimPrefix(customID, idTagPrefix)
		records, err := c.db.ListRecommendationsByTag(ctx, tag)
		if err != nil {
			c.componentError(s, i, "Could not load recommendations.", err)
			return
		}
		if len(records) == 0 {
			c.ephemeralReply(s, i, fmt.Sprintf("No recommendations found for %s.", tag))
			return
		}
		c.updateResults(s, i, newRecommendationsTableEmbed(records))
	case customID == idClose:
		err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredMessageUpdate,
		})
		if err != nil {
			c.logger.Error("error acknowledging close", "error", err.Error())
			return
		}
		if err := s.ChannelMessageDelete(i.ChannelID, i.Message.ID); err != nil {
			c.logger.Error("error deleting results message", "error", err.Error())
		}
	default:
		c.logger.Warn("unknown component id", "customID", customID)
	}
}

func ratingsStartView() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "Rating", Style: discordgo.PrimaryButton, CustomID: idRatingsByScore},
			discordgo.Button{Label: "Recommended By", Style: discordgo.PrimaryButton, CustomID: idRatingsByRecommender},
		}},
	}
}

func recommendationsStartView() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "Genre", Style: discordgo.PrimaryButton, CustomID: idRecsByGenre},
			discordgo.Button{Label: "Tag", Style: discordgo.PrimaryButton, CustomID: idRecsByTag},
		}},
	}
}

// scoreView is the 1..10 rating picker plus a back row.
func scoreView() []discordgo.MessageComponent {
	var buttons []discordgo.MessageComponent
	for score := 1; score <= 10; score++ {
		buttons = append(buttons, discordgo.Button{
			Label:    strconv.Itoa(score),
			Style:    discordgo.SecondaryButton,
			CustomID: idScorePrefix + strconv.Itoa(score),
		})
	}
	rows := buttonRows(buttons)
	rows = append(rows, discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{Label: "Back", Style: discordgo.DangerButton, CustomID: idBackRatings},
	}})
	return rows
}

// buttonMenu builds one button per value, capped at discord's component
// limits, plus a back row.
func buttonMenu(prefix string, values []string, backID string) []discordgo.MessageComponent {
	var buttons []discordgo.MessageComponent
	for _, v := range values {
		if len(buttons) == maxMenuButtons {
			break
		}
		buttons = append(buttons, discordgo.Button{
			Label:    truncate(v, 80),
			Style:    discordgo.SecondaryButton,
			CustomID: prefix + v,
		})
	}
	rows := buttonRows(buttons)
	rows = append(rows, discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{Label: "Back", Style: discordgo.DangerButton, CustomID: backID},
	}})
	return rows
}

// buttonRows chunks buttons into action rows of five.
func buttonRows(buttons []discordgo.MessageComponent) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	for len(buttons) > 0 {
		n := 5
		if len(buttons) < n {
			n = len(buttons)
		}
		rows = append(rows, discordgo.ActionsRow{Components: buttons[:n]})
		buttons = buttons[n:]
	}
	return rows
}

func (c *Client) updateView(s *discordgo.Session, i *discordgo.InteractionCreate, content string, components []discordgo.MessageComponent) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: components,
		},
	})
	if err != nil {
		c.logger.Error("error updating menu view", "error", err.Error())
	}
}

func (c *Client) updateResults(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content: "Results:",
			Embeds:  []*discordgo.MessageEmbed{embed},
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.Button{Label: "Close", Style: discordgo.DangerButton, CustomID: idClose},
				}},
			},
		},
	})
	if err != nil {
		c.logger.Error("error showing results", "error", err.Error())
	}
}

func (c *Client) ephemeralReply(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		c.logger.Error("error sending ephemeral reply", "error", err.Error())
	}
}

func (c *Client) componentError(s *discordgo.Session, i *discordgo.InteractionCreate, content string, err error) {
	c.logger.Error("error handling browse component", "error", err.Error())
	c.ephemeralReply(s, i, content)
}
