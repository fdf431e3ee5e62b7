package discord

import (
	"github.com/bwmarrin/discordgo"
)

// SlashCommands the bot registers on startup
func AddCommands() []*discordgo.ApplicationCommand {
	adminOnly := int64(discordgo.PermissionAdministrator)
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "help",
			Description: "How to post recommendations and reviews",
		},
		{
			Name:        "ratings",
			Description: "Browse stored track ratings",
		},
		{
			Name:        "recommendations",
			Description: "Browse stored track recommendations",
		},
		{
			Name:                     "replay",
			Description:              "Re-process the full history of the watched channels",
			DefaultMemberPermissions: &adminOnly,
		},
	}
	return commands
}

// MakeCommandHandlers returns a map of command names to their respective functions
func (c *Client) MakeCommandHandlers() map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		"help":            c.help,
		"ratings":         c.ratings,
		"recommendations": c.recommendations,
		"replay":          c.replay,
	}
}
