// package services defines interface Client for the external music-service
// HTTP API.
package services

import (
	"context"
)

// Client is the typed façade over the playback, track, artist, and playlist
// endpoints the pipeline consumes. Every call is a single network round
// trip; there is no built-in retry, caching, or pagination. Callers decide
// recovery policy for failed calls.
type Client interface {
	// AuthURL builds the implicit-grant authorize URL for the given opaque
	// state token.
	AuthURL(state string) string

	// SetAccessToken installs the externally issued bearer credential.
	// The credential is held in memory only and never refreshed.
	SetAccessToken(ctx context.Context, accessToken string) error

	// UserProfile retrieves the authenticated user's profile ("who am I").
	UserProfile(ctx context.Context) (*SpotifyUser, error)

	// CurrentPlayback retrieves the current playback state.
	// Returns (nil, nil) when nothing is playing.
	CurrentPlayback(ctx context.Context) (*SpotifyPlaybackState, error)

	// RecentlyPlayed retrieves up to limit recently played tracks,
	// most recent first.
	RecentlyPlayed(ctx context.Context, limit int) ([]SpotifyPlayHistory, error)

	// Track retrieves a single track by ID.
	Track(ctx context.Context, id string) (*SpotifyTrack, error)

	// Artist retrieves a single artist by ID.
	Artist(ctx context.Context, id string) (*SpotifyArtist, error)

	// CreatePlaylist creates a new private playlist owned by the user.
	CreatePlaylist(ctx context.Context, userID, name string) (*SpotifyPlaylist, error)

	// AddTrackToPlaylist appends a single track URI to a playlist.
	AddTrackToPlaylist(ctx context.Context, playlistID, trackURI string) error
}
