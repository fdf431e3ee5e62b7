package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/ruttadj/discord-dj-bot/types"
)

const embedFooter = "Rutta DJ Bot"

// maxEmbedFields is discord's hard cap on fields per embed.
const maxEmbedFields = 25

func newRecommendationEmbed(info types.EmbedInfo, rec types.RecommendationRecord) *discordgo.MessageEmbed {
	genre := rec.Genre1
	if rec.Genre2 != "" {
		genre = genre + " " + rec.Genre2
	}
	return &discordgo.MessageEmbed{
		Title:       "Recommendation: " + info.Title,
		Description: fmt.Sprintf("Genre: %s\nTag: %s", genre, rec.Tag),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Author", Value: info.Author, Inline: true},
			{Name: "Link", Value: info.Link, Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: embedFooter},
	}
}

func newRatingEmbed(info types.EmbedInfo, records []types.RatingRecord) *discordgo.MessageEmbed {
	if len(records) == 1 {
		r := records[0]
		return &discordgo.MessageEmbed{
			Title:       "Rating for " + r.TrackName,
			Description: r.Explanation,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Author", Value: info.Author, Inline: true},
				{Name: "Link", Value: info.Link, Inline: true},
				{Name: "Rating", Value: r.Rating, Inline: true},
			},
			Footer: &discordgo.MessageEmbedFooter{Text: embedFooter},
		}
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Rating for " + info.Title,
		Description: fmt.Sprintf("Author: %s\nLink: %s", info.Author, info.Link),
		Footer:      &discordgo.MessageEmbedFooter{Text: embedFooter},
	}
	for _, r := range records {
		if len(embed.Fields) == maxEmbedFields {
			break
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  r.TrackName,
			Value: fmt.Sprintf("Rating: %s\n%s", r.Rating, truncate(r.Explanation, 900)),
		})
	}
	return embed
}

func newRatingsTableEmbed(records []types.RatingRecord) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:  "Results",
		Footer: &discordgo.MessageEmbedFooter{Text: "Click 'Close' to dismiss this message."},
	}
	for _, r := range records {
		if len(embed.Fields) == maxEmbedFields {
			break
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  r.TrackName,
			Value: fmt.Sprintf("Rating: %s\nReview: %s\nRecommended By: %s", r.Rating, truncate(r.Explanation, 800), r.RecommendedBy),
		})
	}
	return embed
}

func newRecommendationsTableEmbed(records []types.RecommendationRecord) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:  "Results",
		Footer: &discordgo.MessageEmbedFooter{Text: "Click 'Close' to dismiss this message."},
	}
	for _, r := range records {
		if len(embed.Fields) == maxEmbedFields {
			break
		}
		genre := strings.TrimSpace(r.Genre1 + " " + r.Genre2)
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  r.Title,
			Value: fmt.Sprintf("Author: %s\nLink: %s\nGenre: %s\nTag: %s", r.Author, r.Link, genre, r.Tag),
		})
	}
	return embed
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
