package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/ruttadj/discord-dj-bot/config"
	"github.com/ruttadj/discord-dj-bot/database"
	"github.com/ruttadj/discord-dj-bot/ingest"
	"github.com/ruttadj/discord-dj-bot/logging"
)

// Client owns the discord session, the ingestion router, and the read-only
// store handle the browse menus use. It is also the router's Platform
// adapter: the router sees SourcePost/EmbedInfo shapes, never raw discordgo
// objects.
type Client struct {
	Session *discordgo.Session
	router  *ingest.Router
	db      database.RecordBrowser
	cfg     *config.Config
	logger  *logging.Logger
}

// Setup connects to discord, wires the ingestion router, and registers the
// event handlers and slash commands.
func Setup(cfg *config.Config, writer database.RecordWriter, browser database.RecordBrowser,
	artists ingest.ArtistResolver, logger *logging.Logger) (*Client, error) {
	if logger == nil {
		logger = logging.Default()
	}

	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	c := &Client{
		Session: session,
		db:      browser,
		cfg:     cfg,
		logger:  logger,
	}
	c.router = ingest.NewRouter(ingest.Config{
		TrackListChannel: cfg.TrackListChannel,
		ReviewChannel:    cfg.MusicReviewChannel,
		ControllingUser:  cfg.ControllingUser,
		AckWindow:        cfg.AckWindow,
		EmbedSettleDelay: cfg.EmbedSettleDelay,
	}, writer, c, artists, logger)

	session.AddHandler(c.onMessageCreate)
	session.AddHandler(c.onMessageUpdate)

	commandHandlers := c.MakeCommandHandlers()
	session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			if h, ok := commandHandlers[i.ApplicationCommandData().Name]; ok {
				h(s, i)
			}
		case discordgo.InteractionMessageComponent:
			c.handleComponent(s, i)
		}
	})

	// opens websocket connection
	err = session.Open()
	if err != nil {
		return nil, fmt.Errorf("error opening connection to discord: %w", err)
	}
	for _, v := range AddCommands() {
		_, err := session.ApplicationCommandCreate(session.State.User.ID, "", v)
		if err != nil {
			return nil, fmt.Errorf("error creating command: %w", err)
		}
	}

	logger.Info("discord session established", "user", session.State.User.Username)
	return c, nil
}

// Close shuts the websocket connection down.
func (c *Client) Close() error {
	return c.Session.Close()
}
