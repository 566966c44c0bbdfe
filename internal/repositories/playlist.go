// package repositories provides the local journal of playlists created
// through the app. The journal is append-mostly bookkeeping; the playlists
// themselves live on the service side and are never synced back.
package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/musicmuse/internal/shared"
)

// PlaylistEntry is a journaled record of one created playlist.
type PlaylistEntry struct {
	ID             string
	SpotifyID      string
	UserID         string
	Name           string
	CanonicalURL   string
	SeededTrackURI string
	CreatedAt      time.Time
}

// PlaylistRepository persists playlist entries in the local database.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create inserts a new entry with a generated ID and timestamp.
func (r *PlaylistRepository) Create(entry *PlaylistEntry) error {
	if entry.SpotifyID == "" {
		return fmt.Errorf("%w: spotify id is required", shared.ErrInvalidArgument)
	}

	entry.ID = shared.GenerateID()
	entry.CreatedAt = time.Now()

	query := `
		INSERT INTO playlists (id, spotify_id, user_id, name, canonical_url, seeded_track_uri, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		entry.ID,
		entry.SpotifyID,
		entry.UserID,
		entry.Name,
		entry.CanonicalURL,
		entry.SeededTrackURI,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}

	return nil
}

// Get retrieves an entry by its journal ID.
func (r *PlaylistRepository) Get(id string) (*PlaylistEntry, error) {
	query := `
		SELECT id, spotify_id, user_id, name, canonical_url, seeded_track_uri, created_at
		FROM playlists
		WHERE id = ?
	`

	entry, err := scanEntry(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("playlist not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}
	return entry, nil
}

// ListByUser retrieves every entry created for a user, newest first.
func (r *PlaylistRepository) ListByUser(userID string) ([]*PlaylistEntry, error) {
	query := `
		SELECT id, spotify_id, user_id, name, canonical_url, seeded_track_uri, created_at
		FROM playlists
		WHERE user_id = ?
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	var entries []*PlaylistEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanEntry(row scannable) (*PlaylistEntry, error) {
	var entry PlaylistEntry
	err := row.Scan(
		&entry.ID,
		&entry.SpotifyID,
		&entry.UserID,
		&entry.Name,
		&entry.CanonicalURL,
		&entry.SeededTrackURI,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
