package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every process-wide setting. It is loaded once in main and
// passed into constructors; nothing reads configuration after startup.
type Config struct {
	DiscordToken string

	// Channel names the ingestion pipeline watches.
	TrackListChannel   string
	MusicReviewChannel string

	// Display name of the single user whose posts are ingested.
	ControllingUser string

	PostgresURL string
	MetricsAddr string

	// AckWindow bounds how old a post may be and still get a visible
	// confirmation message after persistence.
	AckWindow time.Duration

	// EmbedSettleDelay is the wait applied to a freshly created track-list
	// post with no embed yet, giving the platform's preview generation a
	// chance to catch up before the post is re-fetched.
	EmbedSettleDelay time.Duration

	// Optional Spotify app credentials. When unset the artist-lookup
	// fallback is disabled.
	SpotifyClientID     string
	SpotifyClientSecret string
}

// Load reads configuration from a .env file (if present), config.yaml in the
// working directory, and the environment. Environment variables override file
// settings.
func Load() (*Config, error) {
	// Missing .env is fine in production, the env is set directly there.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("channels.track_list", "test-track-list")
	viper.SetDefault("channels.music_review", "test-music-review")
	viper.SetDefault("controlling_user", "longliveHIM")
	viper.SetDefault("metrics.addr", ":6060")
	viper.SetDefault("ack.window_seconds", 360)
	viper.SetDefault("embed.settle_delay_seconds", 2)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		DiscordToken:        viper.GetString("discord.token"),
		TrackListChannel:    viper.GetString("channels.track_list"),
		MusicReviewChannel:  viper.GetString("channels.music_review"),
		ControllingUser:     viper.GetString("controlling_user"),
		PostgresURL:         viper.GetString("postgres.url"),
		MetricsAddr:         viper.GetString("metrics.addr"),
		AckWindow:           time.Duration(viper.GetInt("ack.window_seconds")) * time.Second,
		EmbedSettleDelay:    time.Duration(viper.GetInt("embed.settle_delay_seconds")) * time.Second,
		SpotifyClientID:     viper.GetString("spotify.client_id"),
		SpotifyClientSecret: viper.GetString("spotify.client_secret"),
	}

	if cfg.DiscordToken == "" {
		return nil, fmt.Errorf("no discord token provided: set DISCORD_TOKEN")
	}
	if cfg.PostgresURL == "" {
		return nil, fmt.Errorf("no postgres url provided: set POSTGRES_URL")
	}

	return cfg, nil
}
