package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/musicmuse/internal/models"
	"github.com/desertthunder/musicmuse/internal/repositories"
	"github.com/desertthunder/musicmuse/internal/shared"
)

// CreatePlaylist creates a private playlist with the engine's fixed name and
// seeds it with the track playing right now, when there is one. The two API
// calls run strictly in sequence and there is no rollback: a playlist whose
// insertion fails survives empty, with the failure logged. The session's
// playlist link is updated whenever creation itself succeeds.
//
// Requires a resolved user; returns [shared.ErrUserNotSet] otherwise.
func (e *HistoryEngine) CreatePlaylist(ctx context.Context) (*models.Playlist, error) {
	user := e.state.User()
	if user == nil {
		return nil, shared.ErrUserNotSet
	}

	snap := e.state.NowPlaying()
	if !snap.Playing() {
		e.logger.Warn("nothing playing; creating empty playlist")
	}

	created, err := e.client.CreatePlaylist(ctx, user.ID, e.opts.PlaylistName)
	if err != nil {
		e.logger.Error("failed to create playlist", "name", e.opts.PlaylistName, "error", err)
		return nil, fmt.Errorf("creating playlist: %w", err)
	}

	playlist := &models.Playlist{
		ID:           created.ID,
		Name:         created.Name,
		CanonicalURL: created.ExternalURLs.Spotify,
	}

	if snap.Playing() && snap.URI != "" {
		if err := e.client.AddTrackToPlaylist(ctx, created.ID, snap.URI); err != nil {
			e.logger.Error("failed to add current track to playlist",
				"playlist", created.ID, "track", snap.URI, "error", err)
		}
	}

	e.state.SetPlaylistLink(playlist.CanonicalURL)
	e.recordPlaylist(user.ID, playlist, snap)

	return playlist, nil
}

// recordPlaylist journals a created playlist locally. Journal failures are
// logged and never surface; the API-side playlist already exists.
func (e *HistoryEngine) recordPlaylist(userID string, playlist *models.Playlist, snap models.PlaybackSnapshot) {
	if e.journal == nil {
		return
	}

	entry := &repositories.PlaylistEntry{
		SpotifyID:    playlist.ID,
		UserID:       userID,
		Name:         playlist.Name,
		CanonicalURL: playlist.CanonicalURL,
	}
	if snap.Playing() {
		entry.SeededTrackURI = snap.URI
	}

	if err := e.journal.Create(entry); err != nil {
		e.logger.Warn("failed to journal playlist", "playlist", playlist.ID, "error", err)
	}
}
