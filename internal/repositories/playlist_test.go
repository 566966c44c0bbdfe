package repositories

import (
	"database/sql"
	"testing"

	"github.com/desertthunder/musicmuse/internal/shared"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestPlaylistRepository(t *testing.T) {
	t.Run("Create assigns id and timestamp", func(t *testing.T) {
		repo := NewPlaylistRepository(newTestDB(t))

		entry := &PlaylistEntry{
			SpotifyID:      "pl1",
			UserID:         "u1",
			Name:           "Recently Played Playlist",
			CanonicalURL:   "https://open/playlist/pl1",
			SeededTrackURI: "spotify:track:t1",
		}
		if err := repo.Create(entry); err != nil {
			t.Fatalf("create failed: %v", err)
		}

		if entry.ID == "" {
			t.Error("expected a generated id")
		}
		if entry.CreatedAt.IsZero() {
			t.Error("expected a creation timestamp")
		}
	})

	t.Run("Create rejects missing spotify id", func(t *testing.T) {
		repo := NewPlaylistRepository(newTestDB(t))

		err := repo.Create(&PlaylistEntry{UserID: "u1", Name: "Nameless"})
		if err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("Get round-trips an entry", func(t *testing.T) {
		repo := NewPlaylistRepository(newTestDB(t))

		entry := &PlaylistEntry{
			SpotifyID:    "pl1",
			UserID:       "u1",
			Name:         "Recently Played Playlist",
			CanonicalURL: "https://open/playlist/pl1",
		}
		if err := repo.Create(entry); err != nil {
			t.Fatalf("create failed: %v", err)
		}

		got, err := repo.Get(entry.ID)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.SpotifyID != "pl1" || got.Name != entry.Name || got.CanonicalURL != entry.CanonicalURL {
			t.Errorf("round trip mismatch: %+v", got)
		}
	})

	t.Run("Get unknown id fails", func(t *testing.T) {
		repo := NewPlaylistRepository(newTestDB(t))

		if _, err := repo.Get("nope"); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("ListByUser filters by user", func(t *testing.T) {
		repo := NewPlaylistRepository(newTestDB(t))

		for _, spotifyID := range []string{"pl1", "pl2"} {
			if err := repo.Create(&PlaylistEntry{SpotifyID: spotifyID, UserID: "u1", Name: spotifyID}); err != nil {
				t.Fatalf("create failed: %v", err)
			}
		}
		if err := repo.Create(&PlaylistEntry{SpotifyID: "other", UserID: "u2", Name: "other"}); err != nil {
			t.Fatalf("create failed: %v", err)
		}

		entries, err := repo.ListByUser("u1")
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries for u1, got %d", len(entries))
		}
		for _, entry := range entries {
			if entry.UserID != "u1" {
				t.Errorf("foreign entry leaked: %+v", entry)
			}
		}

		empty, err := repo.ListByUser("nobody")
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(empty) != 0 {
			t.Errorf("expected no entries, got %d", len(empty))
		}
	})
}
