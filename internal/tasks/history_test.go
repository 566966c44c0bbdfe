package tasks

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/desertthunder/musicmuse/internal/services"
	"github.com/desertthunder/musicmuse/internal/session"
	"github.com/desertthunder/musicmuse/internal/shared"
	th "github.com/desertthunder/musicmuse/internal/testing"
)

func newTestEngine(client services.Client) *HistoryEngine {
	// High rate limit so fan-out pacing doesn't slow tests down.
	return NewHistoryEngine(client, session.NewState(), EngineOpts{RateLimit: 1000})
}

func playHistory(ids ...string) []services.SpotifyPlayHistory {
	items := make([]services.SpotifyPlayHistory, len(ids))
	for i, id := range ids {
		items[i] = services.SpotifyPlayHistory{
			Track: services.SpotifyTrack{
				ID:      id,
				Name:    "Track " + id,
				Artists: []services.SpotifyArtist{{ID: "artist_" + id, Name: "Artist " + id}},
				Album:   services.SpotifyAlbum{Name: "Album " + id},
			},
			PlayedAt: time.Now().Add(-time.Duration(i) * time.Minute),
		}
	}
	return items
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("bootstraps session from fragment", func(t *testing.T) {
		mock := th.NewMockClient()
		engine := newTestEngine(mock)

		err := engine.Login(ctx, "access_token=ABC123&token_type=Bearer&expires_in=3600")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !engine.State().LoggedIn() {
			t.Error("expected session to be logged in")
		}
		user := engine.State().User()
		if user == nil || user.ID != "mock_user" {
			t.Errorf("expected mock user, got %+v", user)
		}
		if mock.Calls("SetAccessToken") != 1 {
			t.Errorf("expected one SetAccessToken call, got %d", mock.Calls("SetAccessToken"))
		}
	})

	t.Run("missing token leaves session logged out", func(t *testing.T) {
		mock := th.NewMockClient()
		engine := newTestEngine(mock)

		err := engine.Login(ctx, "token_type=Bearer")
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Fatalf("expected ErrMissingCredentials, got %v", err)
		}

		if engine.State().LoggedIn() {
			t.Error("expected session to stay logged out")
		}
		if mock.Calls("SetAccessToken") != 0 {
			t.Error("client should not be touched without a token")
		}
	})

	t.Run("profile failure keeps logged-in flag", func(t *testing.T) {
		mock := th.NewMockClient()
		mock.UserProfileFunc = func(ctx context.Context) (*services.SpotifyUser, error) {
			return nil, errors.New("boom")
		}
		engine := newTestEngine(mock)

		if err := engine.Login(ctx, "access_token=ABC123"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !engine.State().LoggedIn() {
			t.Error("expected session to remain logged in")
		}
		if engine.State().User() != nil {
			t.Error("expected user to stay unset")
		}
	})
}

func TestRefreshNowPlaying(t *testing.T) {
	ctx := context.Background()

	t.Run("maps idle player to nothing-playing sentinel", func(t *testing.T) {
		engine := newTestEngine(th.NewMockClient())

		snap := engine.RefreshNowPlaying(ctx)

		if snap.Playing() {
			t.Error("sentinel should not report as playing")
		}
		if snap.Name != "None" || snap.AlbumName != "None" {
			t.Errorf("unexpected sentinel: %+v", snap)
		}
		if got := engine.State().NowPlaying(); got != snap {
			t.Errorf("store holds %+v, returned %+v", got, snap)
		}
	})

	t.Run("maps fetch failure to error sentinel", func(t *testing.T) {
		mock := th.NewMockClient()
		mock.CurrentPlaybackFunc = func(ctx context.Context) (*services.SpotifyPlaybackState, error) {
			return nil, errors.New("boom")
		}
		engine := newTestEngine(mock)

		snap := engine.RefreshNowPlaying(ctx)

		if snap.Name != "Error fetching song name" || snap.AlbumName != "Error fetching album" {
			t.Errorf("unexpected sentinel: %+v", snap)
		}
	})

	t.Run("builds full snapshot from playback state", func(t *testing.T) {
		mock := th.NewMockClient()
		mock.CurrentPlaybackFunc = func(ctx context.Context) (*services.SpotifyPlaybackState, error) {
			return &services.SpotifyPlaybackState{
				IsPlaying: true,
				Item: &services.SpotifyTrack{
					ID:   "t1",
					Name: "Song",
					Artists: []services.SpotifyArtist{
						{ID: "a1", Name: "Lead"},
						{ID: "a2", Name: "Feature"},
					},
					Album: services.SpotifyAlbum{
						Name:   "Record",
						Images: []services.SpotifyImage{{URL: "https://img/640"}},
					},
					DurationMS:   181000,
					Popularity:   64,
					URI:          "spotify:track:t1",
					ExternalURLs: services.ExternalURLs{Spotify: "https://open/track/t1"},
				},
			}, nil
		}
		mock.ArtistFunc = func(ctx context.Context, id string) (*services.SpotifyArtist, error) {
			if id != "a1" {
				t.Errorf("expected primary artist lookup for a1, got %s", id)
			}
			return &services.SpotifyArtist{
				ID:           id,
				ExternalURLs: services.ExternalURLs{Spotify: "https://open/artist/a1"},
			}, nil
		}
		engine := newTestEngine(mock)

		snap := engine.RefreshNowPlaying(ctx)

		if !snap.Playing() {
			t.Fatal("expected a playing snapshot")
		}
		if snap.Name != "Song" || snap.PrimaryArtistName != "Lead" {
			t.Errorf("unexpected snapshot: %+v", snap)
		}
		if snap.AlbumArtURL != "https://img/640" {
			t.Errorf("expected first album image, got %q", snap.AlbumArtURL)
		}
		if snap.PrimaryArtistURL != "https://open/artist/a1" {
			t.Errorf("expected enriched artist link, got %q", snap.PrimaryArtistURL)
		}
		if mock.Calls("Artist") != 1 {
			t.Errorf("expected one artist lookup, got %d", mock.Calls("Artist"))
		}
	})

	t.Run("artist lookup failure degrades whole snapshot", func(t *testing.T) {
		mock := th.NewMockClient()
		mock.CurrentPlaybackFunc = func(ctx context.Context) (*services.SpotifyPlaybackState, error) {
			return &services.SpotifyPlaybackState{
				Item: &services.SpotifyTrack{
					ID:      "t1",
					Name:    "Song",
					Artists: []services.SpotifyArtist{{ID: "a1", Name: "Lead"}},
				},
			}, nil
		}
		mock.ArtistFunc = func(ctx context.Context, id string) (*services.SpotifyArtist, error) {
			return nil, errors.New("boom")
		}
		engine := newTestEngine(mock)

		snap := engine.RefreshNowPlaying(ctx)

		if snap.Playing() {
			t.Error("degraded snapshot should be a sentinel")
		}
		if snap.Name != "Error fetching song name" {
			t.Errorf("unexpected sentinel: %+v", snap)
		}
	})
}

func TestRefreshRecentTracks(t *testing.T) {
	ctx := context.Background()

	t.Run("dedupes by track keeping feed order", func(t *testing.T) {
		mock := th.NewMockClient()
		mock.RecentlyPlayedFunc = func(ctx context.Context, limit int) ([]services.SpotifyPlayHistory, error) {
			return playHistory("t1", "t2", "t1", "t3", "t2"), nil
		}
		mock.TrackFunc = func(ctx context.Context, id string) (*services.SpotifyTrack, error) {
			return &services.SpotifyTrack{
				ID:           id,
				ExternalURLs: services.ExternalURLs{Spotify: "https://open/track/" + id},
			}, nil
		}
		engine := newTestEngine(mock)

		entries := engine.RefreshRecentTracks(ctx)

		if len(entries) != 3 {
			t.Fatalf("expected 3 distinct tracks, got %d", len(entries))
		}
		for i, id := range []string{"t1", "t2", "t3"} {
			if entries[i].TrackID != id {
				t.Errorf("position %d: expected %s, got %s", i, id, entries[i].TrackID)
			}
			if entries[i].CanonicalURL != "https://open/track/"+id {
				t.Errorf("position %d: missing canonical link: %+v", i, entries[i])
			}
		}
	})

	t.Run("link lookup failure degrades only that entry", func(t *testing.T) {
		mock := th.NewMockClient()
		mock.RecentlyPlayedFunc = func(ctx context.Context, limit int) ([]services.SpotifyPlayHistory, error) {
			return playHistory("t1", "t2", "t3"), nil
		}
		mock.TrackFunc = func(ctx context.Context, id string) (*services.SpotifyTrack, error) {
			if id == "t2" {
				return nil, errors.New("boom")
			}
			return &services.SpotifyTrack{
				ID:           id,
				ExternalURLs: services.ExternalURLs{Spotify: "https://open/track/" + id},
			}, nil
		}
		engine := newTestEngine(mock)

		entries := engine.RefreshRecentTracks(ctx)

		if len(entries) != 3 {
			t.Fatalf("expected 3 entries, got %d", len(entries))
		}
		if entries[1].CanonicalURL != "" {
			t.Errorf("expected degraded link for t2, got %q", entries[1].CanonicalURL)
		}
		if entries[0].CanonicalURL == "" || entries[2].CanonicalURL == "" {
			t.Error("neighbors should keep their links")
		}
	})

	t.Run("fetch failure keeps previous list", func(t *testing.T) {
		mock := th.NewMockClient()
		mock.RecentlyPlayedFunc = func(ctx context.Context, limit int) ([]services.SpotifyPlayHistory, error) {
			return playHistory("t1"), nil
		}
		engine := newTestEngine(mock)

		engine.RefreshRecentTracks(ctx)

		mock.RecentlyPlayedFunc = func(ctx context.Context, limit int) ([]services.SpotifyPlayHistory, error) {
			return nil, errors.New("boom")
		}
		if got := engine.RefreshRecentTracks(ctx); got != nil {
			t.Errorf("expected nil on failure, got %+v", got)
		}

		if prior := engine.State().Snapshot().RecentTracks; len(prior) != 1 {
			t.Errorf("previous list should survive, got %+v", prior)
		}
	})
}

func TestRefreshTopEntities(t *testing.T) {
	ctx := context.Background()

	t.Run("ranks and enriches tracks", func(t *testing.T) {
		mock := th.NewMockClient()
		mock.RecentlyPlayedFunc = func(ctx context.Context, limit int) ([]services.SpotifyPlayHistory, error) {
			return playHistory("t1", "t1", "t1", "t2", "t2", "t3"), nil
		}
		mock.TrackFunc = func(ctx context.Context, id string) (*services.SpotifyTrack, error) {
			return &services.SpotifyTrack{
				ID:           id,
				Album:        services.SpotifyAlbum{Images: []services.SpotifyImage{{URL: "https://img/" + id}}},
				ExternalURLs: services.ExternalURLs{Spotify: "https://open/track/" + id},
			}, nil
		}
		engine := newTestEngine(mock)

		top := engine.RefreshTopTracks(ctx)

		if len(top) != 3 {
			t.Fatalf("expected 3 ranked tracks, got %d", len(top))
		}
		if top[0].ID != "t1" || top[0].Count != 3 {
			t.Errorf("unexpected leader: %+v", top[0])
		}
		if top[0].ImageURL != "https://img/t1" || top[0].CanonicalURL != "https://open/track/t1" {
			t.Errorf("missing enrichment: %+v", top[0])
		}
	})

	t.Run("enrichment preserves rank order under concurrency", func(t *testing.T) {
		mock := th.NewMockClient()
		mock.RecentlyPlayedFunc = func(ctx context.Context, limit int) ([]services.SpotifyPlayHistory, error) {
			return playHistory("t1", "t1", "t2"), nil
		}
		mock.TrackFunc = func(ctx context.Context, id string) (*services.SpotifyTrack, error) {
			// Finish the leader last.
			if id == "t1" {
				time.Sleep(20 * time.Millisecond)
			}
			return &services.SpotifyTrack{
				ID:           id,
				ExternalURLs: services.ExternalURLs{Spotify: "https://open/track/" + id},
			}, nil
		}
		engine := newTestEngine(mock)

		top := engine.RefreshTopTracks(ctx)

		if top[0].ID != "t1" || top[1].ID != "t2" {
			t.Errorf("rank order broken: %+v", top)
		}
		if top[0].CanonicalURL != "https://open/track/t1" {
			t.Errorf("leader enrichment misplaced: %+v", top[0])
		}
	})

	t.Run("ranks artists across credits", func(t *testing.T) {
		mock := th.NewMockClient()
		mock.RecentlyPlayedFunc = func(ctx context.Context, limit int) ([]services.SpotifyPlayHistory, error) {
			items := playHistory("t1", "t2")
			items[0].Track.Artists = append(items[0].Track.Artists, services.SpotifyArtist{ID: "artist_t2", Name: "Artist t2"})
			return items, nil
		}
		mock.ArtistFunc = func(ctx context.Context, id string) (*services.SpotifyArtist, error) {
			return &services.SpotifyArtist{
				ID:           id,
				Images:       []services.SpotifyImage{{URL: "https://img/" + id}},
				ExternalURLs: services.ExternalURLs{Spotify: "https://open/artist/" + id},
			}, nil
		}
		engine := newTestEngine(mock)

		top := engine.RefreshTopArtists(ctx)

		if len(top) != 2 {
			t.Fatalf("expected 2 artists, got %d", len(top))
		}
		if top[0].ID != "artist_t2" || top[0].Count != 2 {
			t.Errorf("expected artist_t2 leading with 2 plays, got %+v", top[0])
		}
		if top[0].ImageURL != "https://img/artist_t2" {
			t.Errorf("missing artist enrichment: %+v", top[0])
		}
	})
}

func TestRefreshAll(t *testing.T) {
	mock := th.NewMockClient()
	mock.RecentlyPlayedFunc = func(ctx context.Context, limit int) ([]services.SpotifyPlayHistory, error) {
		return playHistory("t1", "t2"), nil
	}
	mock.TrackFunc = func(ctx context.Context, id string) (*services.SpotifyTrack, error) {
		return &services.SpotifyTrack{
			ID:           id,
			ExternalURLs: services.ExternalURLs{Spotify: fmt.Sprintf("https://open/track/%s", id)},
		}, nil
	}
	engine := newTestEngine(mock)

	engine.RefreshAll(context.Background())

	snap := engine.State().Snapshot()
	if snap.NowPlaying.Name != "None" {
		t.Errorf("expected nothing-playing sentinel, got %+v", snap.NowPlaying)
	}
	if len(snap.RecentTracks) != 2 {
		t.Errorf("expected 2 recent tracks, got %d", len(snap.RecentTracks))
	}
	if len(snap.TopTracks) != 2 || len(snap.TopArtists) != 2 {
		t.Errorf("expected rankings populated, got %d tracks / %d artists", len(snap.TopTracks), len(snap.TopArtists))
	}
}
