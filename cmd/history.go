package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/musicmuse/internal/formatter"
	"github.com/desertthunder/musicmuse/internal/models"
	"github.com/desertthunder/musicmuse/internal/shared"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

// NowPlaying refreshes and prints the current playback snapshot.
func (r *Runner) NowPlaying(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureAuth(ctx, cmd); err != nil {
		return err
	}

	snap := r.engine.RefreshNowPlaying(ctx)

	if cmd.Bool("json") {
		return r.writeJSON(snap, cmd.Bool("pretty"))
	}

	if !snap.Playing() {
		return r.writePlain("%s\n", snap.Name)
	}

	r.writePlain("%s\n", snap.Name)
	r.writePlain("  Artist: %s\n", snap.PrimaryArtistName)
	r.writePlain("  Album: %s\n", snap.AlbumName)
	r.writePlain("  Duration: %s\n", formatDuration(snap.DurationMS))
	r.writePlain("  Popularity: %d\n", snap.Popularity)
	if snap.TrackURL != "" {
		r.writePlain("  Link: %s\n", snap.TrackURL)
	}

	return nil
}

// Recent refreshes and prints the recent distinct tracks list.
func (r *Runner) Recent(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureAuth(ctx, cmd); err != nil {
		return err
	}

	entries := r.engine.RefreshRecentTracks(ctx)

	if path := cmd.String("export"); path != "" {
		if err := formatter.WriteRecentExport(entries, path); err != nil {
			return err
		}
		return r.writePlain("✓ Exported %d tracks to %s\n", len(entries), path)
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, cmd.Bool("pretty"))
	}

	if len(entries) == 0 {
		return r.writePlain("No recently played tracks.\n")
	}

	r.writePlain("Recently played:\n\n")
	for i, entry := range entries {
		r.writePlain("%d. %s - %s\n", i+1, entry.ArtistNames, entry.Name)
		r.writePlain("   Album: %s\n", entry.AlbumName)
		r.writePlain("   Played: %s\n", humanize.Time(entry.PlayedAt))
		if entry.CanonicalURL != "" {
			r.writePlain("   Link: %s\n", entry.CanonicalURL)
		}
		r.writePlain("\n")
	}

	return nil
}

// TopTracks refreshes and prints the most played tracks.
func (r *Runner) TopTracks(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureAuth(ctx, cmd); err != nil {
		return err
	}

	return r.printRanked(cmd, "Top tracks", r.engine.RefreshTopTracks(ctx))
}

// TopArtists refreshes and prints the most played artists.
func (r *Runner) TopArtists(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureAuth(ctx, cmd); err != nil {
		return err
	}

	return r.printRanked(cmd, "Top artists", r.engine.RefreshTopArtists(ctx))
}

func (r *Runner) printRanked(cmd *cli.Command, title string, entities []models.EnrichedEntity) error {
	if path := cmd.String("export"); path != "" {
		if err := formatter.WriteRankedExport(title, entities, path); err != nil {
			return err
		}
		return r.writePlain("✓ Exported %d entries to %s\n", len(entities), path)
	}

	if cmd.Bool("json") {
		return r.writeJSON(entities, cmd.Bool("pretty"))
	}

	if len(entities) == 0 {
		return r.writePlain("No listening history to rank.\n")
	}

	r.writePlain("%s:\n\n", title)
	for i, entity := range entities {
		r.writePlain("%d. %s (%d plays)\n", i+1, entity.Name, entity.Count)
		if entity.CanonicalURL != "" {
			r.writePlain("   Link: %s\n", entity.CanonicalURL)
		}
	}

	return nil
}

// PlaylistCreate creates the fixed-name playlist seeded with the current
// track and prints its link.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureAuth(ctx, cmd); err != nil {
		return err
	}

	// Resolve the seed before creating, one-shot invocations have no
	// snapshot yet.
	snap := r.engine.RefreshNowPlaying(ctx)

	playlist, err := r.engine.CreatePlaylist(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlist, cmd.Bool("pretty"))
	}

	r.writePlain("✓ Created playlist %q\n", playlist.Name)
	if snap.Playing() {
		r.writePlain("  Seeded with: %s - %s\n", snap.PrimaryArtistName, snap.Name)
	} else {
		r.writePlain("  Nothing playing, the playlist is empty.\n")
	}
	if playlist.CanonicalURL != "" {
		r.writePlain("  Link: %s\n", playlist.CanonicalURL)
	}

	return nil
}

// PlaylistHistory lists playlists previously created by the app, from the
// local journal.
func (r *Runner) PlaylistHistory(ctx context.Context, cmd *cli.Command) error {
	if r.journal == nil {
		return fmt.Errorf("%w: playlist journal not initialized, run 'musicmuse setup'", shared.ErrServiceUnavailable)
	}

	if err := r.ensureAuth(ctx, cmd); err != nil {
		return err
	}

	user := r.state.User()
	if user == nil {
		return shared.ErrUserNotSet
	}

	entries, err := r.journal.ListByUser(user.ID)
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, cmd.Bool("pretty"))
	}

	if len(entries) == 0 {
		return r.writePlain("No playlists created yet.\n")
	}

	r.writePlain("Playlists created by musicmuse:\n\n")
	for i, entry := range entries {
		r.writePlain("%d. %s (%s)\n", i+1, entry.Name, humanize.Time(entry.CreatedAt))
		if entry.CanonicalURL != "" {
			r.writePlain("   Link: %s\n", entry.CanonicalURL)
		}
	}

	return nil
}

func formatDuration(ms int) string {
	total := ms / 1000
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
