package tasks

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/desertthunder/musicmuse/internal/models"
	"github.com/desertthunder/musicmuse/internal/repositories"
	"github.com/desertthunder/musicmuse/internal/services"
	"github.com/desertthunder/musicmuse/internal/session"
	"github.com/desertthunder/musicmuse/internal/shared"
	th "github.com/desertthunder/musicmuse/internal/testing"
)

type memoryJournal struct {
	mu      sync.Mutex
	entries []*repositories.PlaylistEntry
	fail    bool
}

func (j *memoryJournal) Create(entry *repositories.PlaylistEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.fail {
		return errors.New("journal closed")
	}
	j.entries = append(j.entries, entry)
	return nil
}

func loggedInEngine(client services.Client, journal Journal) *HistoryEngine {
	state := session.NewState()
	state.SetLoggedIn(true)
	state.SetUser(&models.User{ID: "u1", DisplayName: "Listener"})
	return NewHistoryEngine(client, state, EngineOpts{RateLimit: 1000, Journal: journal})
}

func playingState() *services.SpotifyPlaybackState {
	return &services.SpotifyPlaybackState{
		IsPlaying: true,
		Item: &services.SpotifyTrack{
			ID:      "t1",
			Name:    "Song",
			Artists: []services.SpotifyArtist{{ID: "a1", Name: "Lead"}},
			URI:     "spotify:track:t1",
		},
	}
}

func TestCreatePlaylist(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a resolved user", func(t *testing.T) {
		mock := th.NewMockClient()
		engine := newTestEngine(mock)
		engine.State().SetLoggedIn(true)

		_, err := engine.CreatePlaylist(ctx)
		if !errors.Is(err, shared.ErrUserNotSet) {
			t.Fatalf("expected ErrUserNotSet, got %v", err)
		}
		if mock.Calls("CreatePlaylist") != 0 {
			t.Error("no API call should happen without a user")
		}
	})

	t.Run("seeds the current track exactly once", func(t *testing.T) {
		mock := th.NewMockClient()
		mock.CurrentPlaybackFunc = func(ctx context.Context) (*services.SpotifyPlaybackState, error) {
			return playingState(), nil
		}
		var gotURI, gotName string
		mock.CreatePlaylistFunc = func(ctx context.Context, userID, name string) (*services.SpotifyPlaylist, error) {
			gotName = name
			return &services.SpotifyPlaylist{
				ID:           "pl1",
				Name:         name,
				ExternalURLs: services.ExternalURLs{Spotify: "https://open/playlist/pl1"},
			}, nil
		}
		mock.AddTrackToPlaylistFunc = func(ctx context.Context, playlistID, trackURI string) error {
			gotURI = trackURI
			return nil
		}

		journal := &memoryJournal{}
		engine := loggedInEngine(mock, journal)
		engine.RefreshNowPlaying(ctx)

		playlist, err := engine.CreatePlaylist(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if gotName != "Recently Played Playlist" {
			t.Errorf("expected fixed playlist name, got %q", gotName)
		}
		if mock.Calls("AddTrackToPlaylist") != 1 {
			t.Fatalf("expected exactly one insertion, got %d", mock.Calls("AddTrackToPlaylist"))
		}
		if gotURI != "spotify:track:t1" {
			t.Errorf("expected current track URI, got %q", gotURI)
		}
		if engine.State().PlaylistLink() != "https://open/playlist/pl1" {
			t.Errorf("playlist link not stored: %q", engine.State().PlaylistLink())
		}
		if playlist.CanonicalURL != "https://open/playlist/pl1" {
			t.Errorf("unexpected playlist: %+v", playlist)
		}

		if len(journal.entries) != 1 {
			t.Fatalf("expected one journal entry, got %d", len(journal.entries))
		}
		if journal.entries[0].SeededTrackURI != "spotify:track:t1" {
			t.Errorf("journal missing seed: %+v", journal.entries[0])
		}
	})

	t.Run("creates empty playlist when nothing playing", func(t *testing.T) {
		mock := th.NewMockClient()
		engine := loggedInEngine(mock, nil)
		engine.RefreshNowPlaying(ctx)

		playlist, err := engine.CreatePlaylist(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if playlist == nil {
			t.Fatal("expected a playlist")
		}
		if mock.Calls("AddTrackToPlaylist") != 0 {
			t.Error("no insertion should happen without a playing track")
		}
	})

	t.Run("creation failure surfaces and stores no link", func(t *testing.T) {
		mock := th.NewMockClient()
		mock.CreatePlaylistFunc = func(ctx context.Context, userID, name string) (*services.SpotifyPlaylist, error) {
			return nil, errors.New("boom")
		}
		engine := loggedInEngine(mock, nil)

		if _, err := engine.CreatePlaylist(ctx); err == nil {
			t.Fatal("expected an error")
		}
		if engine.State().PlaylistLink() != "" {
			t.Error("no link should be stored when creation fails")
		}
	})

	t.Run("insertion failure leaves playlist standing", func(t *testing.T) {
		mock := th.NewMockClient()
		mock.CurrentPlaybackFunc = func(ctx context.Context) (*services.SpotifyPlaybackState, error) {
			return playingState(), nil
		}
		mock.CreatePlaylistFunc = func(ctx context.Context, userID, name string) (*services.SpotifyPlaylist, error) {
			return &services.SpotifyPlaylist{
				ID:           "pl1",
				Name:         name,
				ExternalURLs: services.ExternalURLs{Spotify: "https://open/playlist/pl1"},
			}, nil
		}
		mock.AddTrackToPlaylistFunc = func(ctx context.Context, playlistID, trackURI string) error {
			return errors.New("boom")
		}
		engine := loggedInEngine(mock, nil)
		engine.RefreshNowPlaying(ctx)

		playlist, err := engine.CreatePlaylist(ctx)
		if err != nil {
			t.Fatalf("insertion failure must not fail the workflow: %v", err)
		}
		if playlist.ID != "pl1" {
			t.Errorf("unexpected playlist: %+v", playlist)
		}
		if engine.State().PlaylistLink() != "https://open/playlist/pl1" {
			t.Error("link should be stored even when the seed insertion fails")
		}
	})

	t.Run("journal failure never surfaces", func(t *testing.T) {
		mock := th.NewMockClient()
		journal := &memoryJournal{fail: true}
		engine := loggedInEngine(mock, journal)
		engine.RefreshNowPlaying(ctx)

		if _, err := engine.CreatePlaylist(ctx); err != nil {
			t.Fatalf("journal failure must not fail the workflow: %v", err)
		}
	})
}
