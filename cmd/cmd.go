// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func tokenFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "token",
		Usage: "Spotify access token (defaults to SPOTIFY_ACCESS_TOKEN)",
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

func exportFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "export",
		Aliases: []string{"o"},
		Usage:   "Write results to a file (.csv for CSV, otherwise Markdown)",
	}
}

// loginCommand runs the browser authorization flow.
func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Authorize with Spotify in the browser",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "Open the dashboard after logging in",
			},
		},
		Action: r.Login,
	}
}

// nowPlayingCommand shows the current playback snapshot.
func nowPlayingCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "now-playing",
		Aliases: []string{"now"},
		Usage:   "Show what is playing right now",
		Flags:   append([]cli.Flag{tokenFlag()}, outputFlags()...),
		Action:  r.NowPlaying,
	}
}

// recentCommand lists recent distinct tracks.
func recentCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "recent",
		Usage:  "List recently played tracks",
		Flags:  append([]cli.Flag{tokenFlag(), exportFlag()}, outputFlags()...),
		Action: r.Recent,
	}
}

// topCommand ranks the sampled listening history.
func topCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "top",
		Usage: "Most played tracks and artists from recent history",
		Commands: []*cli.Command{
			{
				Name:   "tracks",
				Usage:  "Most played tracks",
				Flags:  append([]cli.Flag{tokenFlag(), exportFlag()}, outputFlags()...),
				Action: r.TopTracks,
			},
			{
				Name:   "artists",
				Usage:  "Most played artists",
				Flags:  append([]cli.Flag{tokenFlag(), exportFlag()}, outputFlags()...),
				Action: r.TopArtists,
			},
		},
	}
}

// playlistCommand creates and lists playlists made by the app.
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlist",
		Usage: "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:   "create",
				Usage:  "Create a playlist seeded with the current track",
				Flags:  append([]cli.Flag{tokenFlag()}, outputFlags()...),
				Action: r.PlaylistCreate,
			},
			{
				Name:   "history",
				Usage:  "List playlists created by musicmuse",
				Flags:  append([]cli.Flag{tokenFlag()}, outputFlags()...),
				Action: r.PlaylistHistory,
			},
		},
	}
}

// setupCommand initializes configuration and the local journal database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the config file and initialize the playlist journal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
		},
		Action: r.Setup,
	}
}

// tuiCommand returns the top-level command for the interactive dashboard.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"dashboard"},
		Usage:   "Launch the interactive listening dashboard",
		Flags:   []cli.Flag{tokenFlag()},
		Action:  r.TUI,
	}
}
