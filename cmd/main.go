package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/musicmuse/internal/repositories"
	"github.com/desertthunder/musicmuse/internal/services"
	"github.com/desertthunder/musicmuse/internal/session"
	"github.com/desertthunder/musicmuse/internal/shared"
	"github.com/desertthunder/musicmuse/internal/tasks"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if path, err := shared.DefaultConfigPath(); err == nil {
		if _, err := os.Stat(path); err == nil {
			if loadedConfig, err := shared.LoadConfig(path); err == nil {
				config = loadedConfig
			}
		}
	}
	shared.LoadEnv(config)

	client := services.NewSpotifyClient(
		config.Credentials.Spotify.ClientID,
		config.Credentials.Spotify.RedirectURI,
	)
	state := session.NewState()

	var journal *repositories.PlaylistRepository
	dbPath := config.Database.Path
	if dbPath == "" {
		dbPath, _ = shared.DefaultDatabasePath()
	}
	if dbPath != "" {
		if db, err := shared.NewDatabase(dbPath); err == nil {
			shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
			journal = repositories.NewPlaylistRepository(db)
		} else {
			logger.Debug("playlist journal unavailable", "path", dbPath, "error", err)
		}
	}

	opts := tasks.EngineOpts{
		RecentLimit:  config.History.RecentLimit,
		SampleLimit:  config.History.SampleLimit,
		TopN:         config.History.TopN,
		PlaylistName: config.History.PlaylistName,
		RateLimit:    config.History.RateLimit,
		Logger:       logger,
	}
	if journal != nil {
		opts.Journal = journal
	}
	engine := tasks.NewHistoryEngine(client, state, opts)

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Client:  client,
		State:   state,
		Engine:  engine,
		Journal: journal,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "musicmuse",
		Usage:    "Your Spotify listening history, ranked and enriched",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			logger.Fatal("not logged in; run 'musicmuse login' first")
		}
		logger.Fatalf("application error: %v", err)
	}
}
