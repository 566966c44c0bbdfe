package session

import (
	"sync"

	"github.com/desertthunder/musicmuse/internal/models"
)

// Field identifies a refreshed SessionState field with its own generation
// counter. The four refreshes write disjoint fields and need no
// coordination between each other.
type Field int

const (
	FieldNowPlaying Field = iota
	FieldRecentTracks
	FieldTopTracks
	FieldTopArtists
	numFields
)

// State is the process-wide single-session store. All methods are safe for
// concurrent use; refreshes run on goroutines in this rendition.
type State struct {
	mu sync.RWMutex

	loggedIn     bool
	user         *models.User
	nowPlaying   models.PlaybackSnapshot
	recentTracks []models.RecentTrack
	topTracks    []models.EnrichedEntity
	topArtists   []models.EnrichedEntity
	playlistLink string

	started [numFields]uint64
	applied [numFields]uint64
}

// NewState creates an empty, logged-out session.
func NewState() *State {
	return &State{}
}

// Begin registers the start of a refresh for the given field and returns
// its generation. The matching Set* call passes the generation back; a
// result loses to any result from a later-started refresh that has already
// been applied.
func (s *State) Begin(f Field) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started[f]++
	return s.started[f]
}

// apply reports whether gen is fresh enough to store for f, recording it
// when so. Caller holds the write lock.
func (s *State) apply(f Field, gen uint64) bool {
	if gen <= s.applied[f] {
		return false
	}
	s.applied[f] = gen
	return true
}

// SetLoggedIn marks the session as authenticated.
func (s *State) SetLoggedIn(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggedIn = v
}

// LoggedIn reports whether a credential was captured.
func (s *State) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loggedIn
}

// SetUser stores the authenticated user. Called once after the "who am I"
// call succeeds; the user is immutable thereafter.
func (s *State) SetUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

// User returns the authenticated user, or nil before the profile call
// completes (or when it failed).
func (s *State) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// SetNowPlaying replaces the playback snapshot (no merge) when gen is still
// current. Returns whether the write was applied.
func (s *State) SetNowPlaying(gen uint64, snap models.PlaybackSnapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.apply(FieldNowPlaying, gen) {
		return false
	}
	s.nowPlaying = snap
	return true
}

// NowPlaying returns the current snapshot (zero value before any refresh).
func (s *State) NowPlaying() models.PlaybackSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nowPlaying
}

// SetRecentTracks replaces the recent distinct tracks list when gen is
// still current.
func (s *State) SetRecentTracks(gen uint64, tracks []models.RecentTrack) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.apply(FieldRecentTracks, gen) {
		return false
	}
	s.recentTracks = tracks
	return true
}

// SetTopTracks replaces the ranked tracks list when gen is still current.
func (s *State) SetTopTracks(gen uint64, entities []models.EnrichedEntity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.apply(FieldTopTracks, gen) {
		return false
	}
	s.topTracks = entities
	return true
}

// SetTopArtists replaces the ranked artists list when gen is still current.
func (s *State) SetTopArtists(gen uint64, entities []models.EnrichedEntity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.apply(FieldTopArtists, gen) {
		return false
	}
	s.topArtists = entities
	return true
}

// SetPlaylistLink stores the shareable URL of the created playlist.
func (s *State) SetPlaylistLink(link string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playlistLink = link
}

// PlaylistLink returns the shareable URL, empty until a playlist is
// created.
func (s *State) PlaylistLink() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playlistLink
}

// Snapshot is a point-in-time copy of the whole store for rendering.
type Snapshot struct {
	LoggedIn     bool
	User         *models.User
	NowPlaying   models.PlaybackSnapshot
	RecentTracks []models.RecentTrack
	TopTracks    []models.EnrichedEntity
	TopArtists   []models.EnrichedEntity
	PlaylistLink string
}

// Snapshot copies the store under one lock acquisition so the presentation
// layer renders a consistent view.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		LoggedIn:     s.loggedIn,
		NowPlaying:   s.nowPlaying,
		RecentTracks: append([]models.RecentTrack(nil), s.recentTracks...),
		TopTracks:    append([]models.EnrichedEntity(nil), s.topTracks...),
		TopArtists:   append([]models.EnrichedEntity(nil), s.topArtists...),
		PlaylistLink: s.playlistLink,
	}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}
