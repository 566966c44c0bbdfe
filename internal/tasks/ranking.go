package tasks

import (
	"sort"

	"github.com/desertthunder/musicmuse/internal/models"
)

// EntityKind selects what a history record is counted as: the track itself
// or each artist credited on it.
type EntityKind int

const (
	KindTrack EntityKind = iota
	KindArtist
)

func (k EntityKind) String() string {
	switch k {
	case KindArtist:
		return "artist"
	default:
		return "track"
	}
}

// TopEntities counts occurrences of the selected entity across the sampled
// play records and returns the top n by descending count. Pure and
// deterministic: counting preserves first-occurrence order and the sort is
// stable, so equal counts keep the order the entities first appeared in the
// window. Fewer than n distinct entities returns all of them, still sorted.
func TopEntities(records []models.HistoryRecord, kind EntityKind, n int) []models.RankedEntity {
	counts := make(map[string]int)
	names := make(map[string]string)
	var order []string

	bump := func(id, name string) {
		if id == "" {
			return
		}
		if _, seen := counts[id]; !seen {
			order = append(order, id)
			names[id] = name
		}
		counts[id]++
	}

	for _, rec := range records {
		switch kind {
		case KindArtist:
			for _, artist := range rec.Artists {
				bump(artist.ID, artist.Name)
			}
		default:
			bump(rec.TrackID, rec.TrackName)
		}
	}

	ranked := make([]models.RankedEntity, 0, len(order))
	for _, id := range order {
		ranked = append(ranked, models.RankedEntity{ID: id, Name: names[id], Count: counts[id]})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}

	return ranked
}
