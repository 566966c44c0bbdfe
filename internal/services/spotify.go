// Spotify Web API implementation of [Client]
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/musicmuse/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL = "https://accounts.spotify.com/authorize"
	spotifyBaseURL = "https://api.spotify.com/v1"
)

// Scopes requested for the implicit grant. Playback and history reads plus
// playlist writes; nothing else.
var spotifyScopes = []string{
	"user-read-private",
	"user-read-playback-state",
	"user-read-currently-playing",
	"user-read-recently-played",
	"playlist-modify-public",
	"playlist-modify-private",
}

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// ExternalURLs holds the canonical open.spotify.com link for a resource.
type ExternalURLs struct {
	Spotify string `json:"spotify"`
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID           string         `json:"id"`
	DisplayName  string         `json:"display_name"`
	ExternalURLs ExternalURLs   `json:"external_urls"`
	Images       []SpotifyImage `json:"images"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Images       []SpotifyImage `json:"images"`
	ExternalURLs ExternalURLs   `json:"external_urls"`
	URI          string         `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Images       []SpotifyImage `json:"images"`
	ExternalURLs ExternalURLs   `json:"external_urls"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Artists      []SpotifyArtist `json:"artists"`
	Album        SpotifyAlbum    `json:"album"`
	DurationMS   int             `json:"duration_ms"`
	Popularity   int             `json:"popularity"`
	ExternalURLs ExternalURLs    `json:"external_urls"`
	URI          string          `json:"uri"`
}

// SpotifyPlaybackState represents the player state. Item is nil when no
// track is loaded.
type SpotifyPlaybackState struct {
	IsPlaying  bool          `json:"is_playing"`
	ProgressMS int           `json:"progress_ms"`
	Item       *SpotifyTrack `json:"item"`
}

// SpotifyPlayHistory is one entry of the recently-played feed.
type SpotifyPlayHistory struct {
	Track    SpotifyTrack `json:"track"`
	PlayedAt time.Time    `json:"played_at"`
}

// SpotifyPlaylist represents a playlist, as returned by creation.
type SpotifyPlaylist struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	ExternalURLs ExternalURLs `json:"external_urls"`
	URI          string       `json:"uri"`
}

// SpotifyClient implements [Client] against the Spotify Web API using a
// bearer token obtained from the implicit-grant redirect. The token is held
// in memory only and never refreshed; an expired token surfaces as a 401 on
// the next call.
type SpotifyClient struct {
	clientID    string
	redirectURI string
	baseURL     string
	token       *oauth2.Token
	httpClient  *http.Client
}

var _ Client = (*SpotifyClient)(nil)

// NewSpotifyClient creates an unauthenticated client for the given Spotify
// application identity.
func NewSpotifyClient(clientID, redirectURI string) *SpotifyClient {
	return &SpotifyClient{
		clientID:    clientID,
		redirectURI: redirectURI,
		baseURL:     spotifyBaseURL,
		httpClient:  http.DefaultClient,
	}
}

// SetBaseURL overrides the API base URL. Used by tests to point the client
// at an httptest server.
func (s *SpotifyClient) SetBaseURL(u string) {
	s.baseURL = u
}

// SetAccessToken installs the bearer credential and builds the
// authenticated HTTP client.
func (s *SpotifyClient) SetAccessToken(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return fmt.Errorf("%w: empty access token", shared.ErrMissingCredentials)
	}

	s.token = &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}
	s.httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(s.token))
	return nil
}

// AuthURL builds the implicit-grant authorize URL. The redirect back to the
// local callback server carries the token in the location fragment.
func (s *SpotifyClient) AuthURL(state string) string {
	q := url.Values{}
	q.Set("client_id", s.clientID)
	q.Set("response_type", "token")
	q.Set("redirect_uri", s.redirectURI)
	q.Set("state", state)
	q.Set("scope", strings.Join(spotifyScopes, " "))

	return spotifyAuthURL + "?" + q.Encode()
}

// doRequest performs a single authenticated round trip and decodes the JSON
// response into result. The response status is returned so callers can
// distinguish 204 (no content) from a populated 200.
func (s *SpotifyClient) doRequest(ctx context.Context, method, endpoint string, body, result any) (int, error) {
	if s.token == nil {
		return 0, fmt.Errorf("%w: call SetAccessToken first", shared.ErrNotAuthenticated)
	}

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, reqBody)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp.StatusCode, nil
}

// UserProfile retrieves the current authenticated user's profile.
func (s *SpotifyClient) UserProfile(ctx context.Context) (*SpotifyUser, error) {
	var user SpotifyUser
	if _, err := s.doRequest(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CurrentPlayback retrieves the player state. The API answers 204 with an
// empty body when no playback session exists; that case is returned as
// (nil, nil) and mapped to the "nothing playing" sentinel upstream.
func (s *SpotifyClient) CurrentPlayback(ctx context.Context) (*SpotifyPlaybackState, error) {
	var state SpotifyPlaybackState
	status, err := s.doRequest(ctx, http.MethodGet, "/me/player", nil, &state)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNoContent {
		return nil, nil
	}
	return &state, nil
}

// RecentlyPlayed retrieves up to limit recently played tracks. The API caps
// the page size at 50; there is deliberately no pagination beyond the
// single fetch.
func (s *SpotifyClient) RecentlyPlayed(ctx context.Context, limit int) ([]SpotifyPlayHistory, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}

	var page struct {
		Items []SpotifyPlayHistory `json:"items"`
	}

	endpoint := fmt.Sprintf("/me/player/recently-played?limit=%d", limit)
	if _, err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
		return nil, err
	}

	return page.Items, nil
}

// Track retrieves a single track by ID.
func (s *SpotifyClient) Track(ctx context.Context, id string) (*SpotifyTrack, error) {
	var track SpotifyTrack
	endpoint := fmt.Sprintf("/tracks/%s", url.PathEscape(id))
	if _, err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// Artist retrieves a single artist by ID.
func (s *SpotifyClient) Artist(ctx context.Context, id string) (*SpotifyArtist, error) {
	var artist SpotifyArtist
	endpoint := fmt.Sprintf("/artists/%s", url.PathEscape(id))
	if _, err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

// CreatePlaylist creates a new private playlist owned by userID.
func (s *SpotifyClient) CreatePlaylist(ctx context.Context, userID, name string) (*SpotifyPlaylist, error) {
	body := map[string]any{
		"name":   name,
		"public": false,
	}

	var playlist SpotifyPlaylist
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID))
	if _, err := s.doRequest(ctx, http.MethodPost, endpoint, body, &playlist); err != nil {
		return nil, err
	}

	return &playlist, nil
}

// AddTrackToPlaylist appends a single track URI to the playlist. The API
// takes a list; exactly one URI is ever sent.
func (s *SpotifyClient) AddTrackToPlaylist(ctx context.Context, playlistID, trackURI string) error {
	body := map[string]any{
		"uris": []string{trackURI},
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	_, err := s.doRequest(ctx, http.MethodPost, endpoint, body, nil)
	return err
}
