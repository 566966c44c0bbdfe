package tasks

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/musicmuse/internal/models"
	"github.com/desertthunder/musicmuse/internal/repositories"
	"github.com/desertthunder/musicmuse/internal/services"
	"github.com/desertthunder/musicmuse/internal/session"
	"github.com/desertthunder/musicmuse/internal/shared"
	"golang.org/x/time/rate"
)

// Journal records playlists created through the app. Implemented by
// [repositories.PlaylistRepository]; optional.
type Journal interface {
	Create(entry *repositories.PlaylistEntry) error
}

// EngineOpts contains configuration for a HistoryEngine.
type EngineOpts struct {
	RecentLimit  int     // Entries on the recent-tracks surface (default 9)
	SampleLimit  int     // Plays sampled for ranking (default 50)
	TopN         int     // Ranked list length (default 5)
	PlaylistName string  // Fixed name for created playlists
	RateLimit    float64 // Enrichment lookups per second (default 5)

	Journal Journal
	Logger  *log.Logger
}

// HistoryEngine orchestrates the pipeline: it pulls raw playback history
// through the API client, ranks and enriches it, and writes the results
// into the session store.
type HistoryEngine struct {
	client  services.Client
	state   *session.State
	journal Journal
	logger  *log.Logger
	limiter *rate.Limiter
	opts    EngineOpts
}

// NewHistoryEngine creates an engine bound to the given client and session
// store.
func NewHistoryEngine(client services.Client, state *session.State, opts EngineOpts) *HistoryEngine {
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = 9
	}
	if opts.SampleLimit <= 0 {
		opts.SampleLimit = 50
	}
	if opts.TopN <= 0 {
		opts.TopN = 5
	}
	if opts.PlaylistName == "" {
		opts.PlaylistName = "Recently Played Playlist"
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &HistoryEngine{
		client:  client,
		state:   state,
		journal: opts.Journal,
		logger:  opts.Logger,
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		opts:    opts,
	}
}

// SetLogger replaces the engine's logger, used when the TUI redirects logs
// to a file.
func (e *HistoryEngine) SetLogger(l *log.Logger) {
	e.logger = l
}

// State returns the session store the engine writes to.
func (e *HistoryEngine) State() *session.State {
	return e.state
}

// Login extracts the access credential from the redirect fragment and
// bootstraps the session: configure the client, mark logged-in, populate
// the user via the who-am-I call. An absent credential leaves the session
// logged out and nothing else runs. A failed who-am-I call leaves the user
// unset but does not revert the logged-in flag (source behavior).
func (e *HistoryEngine) Login(ctx context.Context, fragment string) error {
	token := session.TokenFromFragment(fragment)
	if token == "" {
		e.logger.Debug("no access token in redirect fragment")
		return shared.ErrMissingCredentials
	}

	if err := e.client.SetAccessToken(ctx, token); err != nil {
		return err
	}
	e.state.SetLoggedIn(true)

	user, err := e.client.UserProfile(ctx)
	if err != nil {
		e.logger.Warn("who-am-I call failed; user stays unset", "error", err)
		return nil
	}

	e.state.SetUser(&models.User{ID: user.ID, DisplayName: user.DisplayName})
	e.logger.Info("logged in", "user", user.DisplayName)
	return nil
}

// RefreshNowPlaying recomputes the playback snapshot and stores it. Any
// failure, on the primary fetch or on the primary-artist enrichment, is
// converted to the error sentinel; an idle player yields the
// nothing-playing sentinel. The returned snapshot is whatever was stored.
func (e *HistoryEngine) RefreshNowPlaying(ctx context.Context) models.PlaybackSnapshot {
	gen := e.state.Begin(session.FieldNowPlaying)

	snap := e.buildSnapshot(ctx)
	if !e.state.SetNowPlaying(gen, snap) {
		e.logger.Debug("stale now-playing refresh discarded", "generation", gen)
	}
	return snap
}

func (e *HistoryEngine) buildSnapshot(ctx context.Context) models.PlaybackSnapshot {
	playback, err := e.client.CurrentPlayback(ctx)
	if err != nil {
		e.logger.Error("failed to fetch current playback", "error", err)
		return models.ErrorSnapshot()
	}
	if playback == nil || playback.Item == nil {
		return models.NothingPlayingSnapshot()
	}

	track := playback.Item
	snap := models.PlaybackSnapshot{
		TrackID:    track.ID,
		Name:       track.Name,
		AlbumName:  track.Album.Name,
		DurationMS: track.DurationMS,
		Popularity: track.Popularity,
		URI:        track.URI,
		TrackURL:   track.ExternalURLs.Spotify,
	}
	if len(track.Album.Images) > 0 {
		snap.AlbumArtURL = track.Album.Images[0].URL
	}

	if len(track.Artists) == 0 {
		return snap
	}
	snap.PrimaryArtistName = track.Artists[0].Name

	// There is only one item here, so a failed enrichment degrades the
	// whole snapshot to the sentinel instead of a partial value.
	artist, err := e.client.Artist(ctx, track.Artists[0].ID)
	if err != nil {
		e.logger.Error("failed to enrich current playback", "artist", track.Artists[0].ID, "error", err)
		return models.ErrorSnapshot()
	}
	snap.PrimaryArtistURL = artist.ExternalURLs.Spotify

	return snap
}

// RefreshRecentTracks recomputes the recent distinct tracks surface. A
// primary fetch failure keeps the previous list (logged, per source); a
// failed per-item link lookup degrades only that entry.
func (e *HistoryEngine) RefreshRecentTracks(ctx context.Context) []models.RecentTrack {
	gen := e.state.Begin(session.FieldRecentTracks)

	items, err := e.client.RecentlyPlayed(ctx, e.opts.RecentLimit)
	if err != nil {
		e.logger.Error("failed to fetch recently played tracks", "error", err)
		return nil
	}

	entries := distinctRecent(historyRecords(items), e.opts.RecentLimit)

	ids := make([]string, len(entries))
	for i, entry := range entries {
		ids[i] = entry.TrackID
	}
	details := e.fanOut(ctx, ids, e.fetchTrackDetail)
	for i := range entries {
		entries[i].CanonicalURL = details[i].canonicalURL
	}

	if !e.state.SetRecentTracks(gen, entries) {
		e.logger.Debug("stale recent-tracks refresh discarded", "generation", gen)
	}
	return entries
}

// RefreshTopTracks recomputes the most-played tracks over the sampled
// window and stores the enriched ranking.
func (e *HistoryEngine) RefreshTopTracks(ctx context.Context) []models.EnrichedEntity {
	gen := e.state.Begin(session.FieldTopTracks)

	enriched := e.topEntities(ctx, KindTrack)
	if enriched == nil {
		return nil
	}

	if !e.state.SetTopTracks(gen, enriched) {
		e.logger.Debug("stale top-tracks refresh discarded", "generation", gen)
	}
	return enriched
}

// RefreshTopArtists recomputes the most-played artists over the sampled
// window and stores the enriched ranking.
func (e *HistoryEngine) RefreshTopArtists(ctx context.Context) []models.EnrichedEntity {
	gen := e.state.Begin(session.FieldTopArtists)

	enriched := e.topEntities(ctx, KindArtist)
	if enriched == nil {
		return nil
	}

	if !e.state.SetTopArtists(gen, enriched) {
		e.logger.Debug("stale top-artists refresh discarded", "generation", gen)
	}
	return enriched
}

// topEntities runs the fetch → rank → enrich pipeline for one entity kind.
// A primary fetch failure returns nil and the previous ranking stands.
func (e *HistoryEngine) topEntities(ctx context.Context, kind EntityKind) []models.EnrichedEntity {
	items, err := e.client.RecentlyPlayed(ctx, e.opts.SampleLimit)
	if err != nil {
		e.logger.Error("failed to fetch play history", "kind", kind.String(), "error", err)
		return nil
	}

	ranked := TopEntities(historyRecords(items), kind, e.opts.TopN)
	return e.enrich(ctx, ranked, kind)
}

// RefreshAll launches the four independent refreshes together and waits for
// all of them to settle. They write disjoint session fields, so no
// coordination is needed beyond the join.
func (e *HistoryEngine) RefreshAll(ctx context.Context) {
	var wg sync.WaitGroup
	for _, refresh := range []func(context.Context){
		func(ctx context.Context) { e.RefreshNowPlaying(ctx) },
		func(ctx context.Context) { e.RefreshRecentTracks(ctx) },
		func(ctx context.Context) { e.RefreshTopTracks(ctx) },
		func(ctx context.Context) { e.RefreshTopArtists(ctx) },
	} {
		wg.Add(1)
		go func(fn func(context.Context)) {
			defer wg.Done()
			fn(ctx)
		}(refresh)
	}
	wg.Wait()
}

// historyRecords maps the wire feed to transient history records.
func historyRecords(items []services.SpotifyPlayHistory) []models.HistoryRecord {
	records := make([]models.HistoryRecord, 0, len(items))
	for _, item := range items {
		rec := models.HistoryRecord{
			TrackID:   item.Track.ID,
			TrackName: item.Track.Name,
			AlbumName: item.Track.Album.Name,
			PlayedAt:  item.PlayedAt,
		}
		if len(item.Track.Album.Images) > 0 {
			rec.AlbumArtURL = item.Track.Album.Images[0].URL
		}
		for _, artist := range item.Track.Artists {
			rec.Artists = append(rec.Artists, models.ArtistRef{ID: artist.ID, Name: artist.Name})
		}
		records = append(records, rec)
	}
	return records
}

// distinctRecent keeps the first occurrence of each track, preserving feed
// order (most recent first), capped at limit.
func distinctRecent(records []models.HistoryRecord, limit int) []models.RecentTrack {
	seen := make(map[string]struct{})
	var entries []models.RecentTrack

	for _, rec := range records {
		if rec.TrackID == "" {
			continue
		}
		if _, ok := seen[rec.TrackID]; ok {
			continue
		}
		seen[rec.TrackID] = struct{}{}

		names := make([]string, len(rec.Artists))
		for i, artist := range rec.Artists {
			names[i] = artist.Name
		}

		entries = append(entries, models.RecentTrack{
			TrackID:     rec.TrackID,
			Name:        rec.TrackName,
			ArtistNames: strings.Join(names, ", "),
			AlbumName:   rec.AlbumName,
			AlbumArtURL: rec.AlbumArtURL,
			PlayedAt:    rec.PlayedAt,
		})

		if limit > 0 && len(entries) == limit {
			break
		}
	}

	return entries
}
