// package testing contains shared testing utilities
package testing

import (
	"context"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/musicmuse/internal/services"
)

// MockClient is a configurable test double for [services.Client]. Each
// endpoint is a function field; nil fields return zero values. Call counts
// are tracked per endpoint and safe for concurrent use, since the pipeline
// fans lookups out on goroutines.
type MockClient struct {
	mu    sync.Mutex
	calls map[string]int

	AuthURLFunc            func(state string) string
	SetAccessTokenFunc     func(ctx context.Context, accessToken string) error
	UserProfileFunc        func(ctx context.Context) (*services.SpotifyUser, error)
	CurrentPlaybackFunc    func(ctx context.Context) (*services.SpotifyPlaybackState, error)
	RecentlyPlayedFunc     func(ctx context.Context, limit int) ([]services.SpotifyPlayHistory, error)
	TrackFunc              func(ctx context.Context, id string) (*services.SpotifyTrack, error)
	ArtistFunc             func(ctx context.Context, id string) (*services.SpotifyArtist, error)
	CreatePlaylistFunc     func(ctx context.Context, userID, name string) (*services.SpotifyPlaylist, error)
	AddTrackToPlaylistFunc func(ctx context.Context, playlistID, trackURI string) error
}

var _ services.Client = (*MockClient)(nil)

func NewMockClient() *MockClient {
	return &MockClient{calls: make(map[string]int)}
}

// Calls returns how many times the named endpoint was invoked.
func (m *MockClient) Calls(endpoint string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[endpoint]
}

func (m *MockClient) record(endpoint string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[endpoint]++
}

func (m *MockClient) AuthURL(state string) string {
	m.record("AuthURL")
	if m.AuthURLFunc != nil {
		return m.AuthURLFunc(state)
	}
	return "https://accounts.example.com/authorize?state=" + state
}

func (m *MockClient) SetAccessToken(ctx context.Context, accessToken string) error {
	m.record("SetAccessToken")
	if m.SetAccessTokenFunc != nil {
		return m.SetAccessTokenFunc(ctx, accessToken)
	}
	return nil
}

func (m *MockClient) UserProfile(ctx context.Context) (*services.SpotifyUser, error) {
	m.record("UserProfile")
	if m.UserProfileFunc != nil {
		return m.UserProfileFunc(ctx)
	}
	return &services.SpotifyUser{ID: "mock_user", DisplayName: "Mock User"}, nil
}

func (m *MockClient) CurrentPlayback(ctx context.Context) (*services.SpotifyPlaybackState, error) {
	m.record("CurrentPlayback")
	if m.CurrentPlaybackFunc != nil {
		return m.CurrentPlaybackFunc(ctx)
	}
	return nil, nil
}

func (m *MockClient) RecentlyPlayed(ctx context.Context, limit int) ([]services.SpotifyPlayHistory, error) {
	m.record("RecentlyPlayed")
	if m.RecentlyPlayedFunc != nil {
		return m.RecentlyPlayedFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockClient) Track(ctx context.Context, id string) (*services.SpotifyTrack, error) {
	m.record("Track")
	if m.TrackFunc != nil {
		return m.TrackFunc(ctx, id)
	}
	return &services.SpotifyTrack{ID: id}, nil
}

func (m *MockClient) Artist(ctx context.Context, id string) (*services.SpotifyArtist, error) {
	m.record("Artist")
	if m.ArtistFunc != nil {
		return m.ArtistFunc(ctx, id)
	}
	return &services.SpotifyArtist{ID: id}, nil
}

func (m *MockClient) CreatePlaylist(ctx context.Context, userID, name string) (*services.SpotifyPlaylist, error) {
	m.record("CreatePlaylist")
	if m.CreatePlaylistFunc != nil {
		return m.CreatePlaylistFunc(ctx, userID, name)
	}
	return &services.SpotifyPlaylist{ID: "mock_playlist", Name: name}, nil
}

func (m *MockClient) AddTrackToPlaylist(ctx context.Context, playlistID, trackURI string) error {
	m.record("AddTrackToPlaylist")
	if m.AddTrackToPlaylistFunc != nil {
		return m.AddTrackToPlaylistFunc(ctx, playlistID, trackURI)
	}
	return nil
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
