package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ruttadj/discord-dj-bot/config"
	"github.com/ruttadj/discord-dj-bot/database"
	"github.com/ruttadj/discord-dj-bot/discord"
	"github.com/ruttadj/discord-dj-bot/ingest"
	"github.com/ruttadj/discord-dj-bot/logging"
	"github.com/ruttadj/discord-dj-bot/metrics"
	"github.com/ruttadj/discord-dj-bot/spotify"
)

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "logLevel", "info", "log level: debug, info, warn, error")
	flag.Parse()

	logger := logging.NewLogger(logging.LogLevel(logLevel), os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalln(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := metrics.SetupServer(cfg.MetricsAddr)
	group, ctx := errgroup.WithContext(ctx)
	group.Go(server.Run)
	logger.Info("metrics server listening", "addr", cfg.MetricsAddr)

	db, err := database.NewPostgres(cfg.PostgresURL, logger)
	if err != nil {
		log.Fatalln(err)
	}

	// The artist lookup is optional. Without credentials the pipeline still
	// runs, it just cannot fill in a missing embed author.
	var artists ingest.ArtistResolver
	if cfg.SpotifyClientID != "" && cfg.SpotifyClientSecret != "" {
		client, err := spotify.NewClient(ctx, cfg.SpotifyClientID, cfg.SpotifyClientSecret)
		if err != nil {
			log.Fatalln(err)
		}
		artists = client
		logger.Info("spotify artist lookup enabled")
	}

	session, err := discord.Setup(cfg, db, db, artists, logger)
	if err != nil {
		log.Fatalln(err)
	}

	logger.Info("bot running, press Ctrl+C to exit")
	<-ctx.Done()

	logger.Info("shutting down")
	if err := session.Close(); err != nil {
		logger.Error("error closing discord session", "error", err.Error())
	}
	db.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("error shutting down metrics server", "error", err.Error())
	}
	if err := group.Wait(); err != nil {
		logger.Error("metrics server error", "error", err.Error())
	}
}
