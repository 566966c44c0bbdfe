package tasks

import (
	"context"
	"sync"

	"github.com/desertthunder/musicmuse/internal/models"
)

// enrichment holds the display metadata a secondary lookup attaches to one
// entity. The zero value is the degraded form substituted when the lookup
// fails.
type enrichment struct {
	imageURL     string
	canonicalURL string
}

// fanOut issues one lookup per id concurrently and waits for all of them to
// settle. The returned slice matches ids in length and order regardless of
// completion order; a failed lookup leaves the zero enrichment at its
// position and never affects the others. Lookups are paced by the engine's
// rate limiter, a single attempt each.
func (e *HistoryEngine) fanOut(ctx context.Context, ids []string, fetch func(context.Context, string) (enrichment, error)) []enrichment {
	results := make([]enrichment, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()

			if err := e.limiter.Wait(ctx); err != nil {
				e.logger.Warn("enrichment lookup skipped", "id", id, "error", err)
				return
			}

			res, err := fetch(ctx, id)
			if err != nil {
				e.logger.Warn("enrichment lookup degraded", "id", id, "error", err)
				return
			}
			results[i] = res
		}(i, id)
	}
	wg.Wait()

	return results
}

// enrich attaches images and canonical links to a ranked list, preserving
// its order and degrading entries whose lookup failed.
func (e *HistoryEngine) enrich(ctx context.Context, ranked []models.RankedEntity, kind EntityKind) []models.EnrichedEntity {
	ids := make([]string, len(ranked))
	for i, entity := range ranked {
		ids[i] = entity.ID
	}

	var fetch func(context.Context, string) (enrichment, error)
	switch kind {
	case KindArtist:
		fetch = e.fetchArtistDetail
	default:
		fetch = e.fetchTrackDetail
	}

	details := e.fanOut(ctx, ids, fetch)

	enriched := make([]models.EnrichedEntity, len(ranked))
	for i, entity := range ranked {
		enriched[i] = models.EnrichedEntity{
			RankedEntity: entity,
			ImageURL:     details[i].imageURL,
			CanonicalURL: details[i].canonicalURL,
		}
	}

	return enriched
}

// fetchTrackDetail resolves a track's album art and canonical link.
func (e *HistoryEngine) fetchTrackDetail(ctx context.Context, id string) (enrichment, error) {
	track, err := e.client.Track(ctx, id)
	if err != nil {
		return enrichment{}, err
	}

	res := enrichment{canonicalURL: track.ExternalURLs.Spotify}
	if len(track.Album.Images) > 0 {
		res.imageURL = track.Album.Images[0].URL
	}
	return res, nil
}

// fetchArtistDetail resolves an artist's portrait and canonical link.
func (e *HistoryEngine) fetchArtistDetail(ctx context.Context, id string) (enrichment, error) {
	artist, err := e.client.Artist(ctx, id)
	if err != nil {
		return enrichment{}, err
	}

	res := enrichment{canonicalURL: artist.ExternalURLs.Spotify}
	if len(artist.Images) > 0 {
		res.imageURL = artist.Images[0].URL
	}
	return res, nil
}
