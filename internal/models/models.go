package models

import "time"

// User is the authenticated listener, populated once after credential
// validation and immutable thereafter.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// PlaybackSnapshot describes the current playback state. A snapshot fully
// replaces its predecessor on every refresh; there is no field-level merge.
//
// The same shape doubles as the "nothing playing" and "fetch error"
// sentinels, with empty strings and zero numerics.
type PlaybackSnapshot struct {
	TrackID           string `json:"track_id"`
	Name              string `json:"name"`
	AlbumArtURL       string `json:"album_art_url,omitempty"`
	PrimaryArtistName string `json:"primary_artist_name"`
	PrimaryArtistURL  string `json:"primary_artist_url,omitempty"`
	AlbumName         string `json:"album_name"`
	DurationMS        int    `json:"duration_ms"`
	Popularity        int    `json:"popularity"`
	URI               string `json:"uri"`
	TrackURL          string `json:"track_url"`
}

// Playing reports whether the snapshot describes an actual track rather
// than a sentinel.
func (p PlaybackSnapshot) Playing() bool {
	return p.TrackID != ""
}

// NothingPlayingSnapshot returns the sentinel for an idle player. The
// strings mirror the original musicMuse placeholders.
func NothingPlayingSnapshot() PlaybackSnapshot {
	return PlaybackSnapshot{Name: "None", AlbumName: "None"}
}

// ErrorSnapshot returns the sentinel substituted when the playback fetch or
// its enrichment fails, so the presentation layer always has a renderable
// value.
func ErrorSnapshot() PlaybackSnapshot {
	return PlaybackSnapshot{Name: "Error fetching song name", AlbumName: "Error fetching album"}
}

// ArtistRef is an artist credit attached to a track.
type ArtistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// HistoryRecord is one raw unit of the recently-played feed. Records are
// handed to the ranking engine and discarded.
type HistoryRecord struct {
	TrackID     string
	TrackName   string
	Artists     []ArtistRef
	AlbumName   string
	AlbumArtURL string
	PlayedAt    time.Time
}

// RecentTrack is one entry of the recent distinct tracks surface, enriched
// with a canonical link where the secondary lookup succeeded.
type RecentTrack struct {
	TrackID      string    `json:"track_id"`
	Name         string    `json:"name"`
	ArtistNames  string    `json:"artist_names"`
	AlbumName    string    `json:"album_name"`
	AlbumArtURL  string    `json:"album_art_url,omitempty"`
	CanonicalURL string    `json:"canonical_url,omitempty"`
	PlayedAt     time.Time `json:"played_at"`
}

// RankedEntity is an artist or track plus its occurrence count within the
// sampled play-history window.
type RankedEntity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// EnrichedEntity is a RankedEntity with display metadata attached. Empty
// ImageURL/CanonicalURL mean the secondary lookup failed; that is a valid
// terminal state, not an error.
type EnrichedEntity struct {
	RankedEntity
	ImageURL     string `json:"image_url,omitempty"`
	CanonicalURL string `json:"canonical_url,omitempty"`
}

// Playlist is a playlist created through the app, identified by the
// service id and the shareable canonical URL.
type Playlist struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CanonicalURL string `json:"canonical_url"`
}
