package ui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/musicmuse/internal/models"
	"github.com/desertthunder/musicmuse/internal/session"
	"github.com/desertthunder/musicmuse/internal/tasks"
	th "github.com/desertthunder/musicmuse/internal/testing"
)

func newTestModel() *Model {
	state := session.NewState()
	engine := tasks.NewHistoryEngine(th.NewMockClient(), state, tasks.EngineOpts{RateLimit: 1000})
	return NewModel(context.Background(), engine)
}

func TestModel(t *testing.T) {
	t.Run("renders all dashboard sections", func(t *testing.T) {
		m := newTestModel()

		view := m.View()
		for _, section := range []string{"Now Playing", "Recent Tracks", "Top Tracks", "Top Artists", "Playlist"} {
			if !strings.Contains(view, section) {
				t.Errorf("view missing section %q", section)
			}
		}
	})

	t.Run("snapshot message updates the view", func(t *testing.T) {
		m := newTestModel()

		snap := m.engine.State().Snapshot()
		snap.NowPlaying = models.PlaybackSnapshot{
			TrackID:           "t1",
			Name:              "Song",
			PrimaryArtistName: "Lead",
			AlbumName:         "Record",
			DurationMS:        181000,
		}
		m.Update(snapshotMsg(snap))

		if !strings.Contains(m.View(), "Song") {
			t.Error("view missing the updated track")
		}
	})

	t.Run("quit key quits", func(t *testing.T) {
		m := newTestModel()

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
		if cmd == nil {
			t.Fatal("expected a command")
		}
		if msg := cmd(); msg != tea.Quit() {
			t.Errorf("expected quit, got %#v", msg)
		}
	})

	t.Run("playlist error is rendered", func(t *testing.T) {
		m := newTestModel()

		m.Update(playlistCreatedMsg{err: context.DeadlineExceeded})

		if !strings.Contains(m.View(), "creation failed") {
			t.Error("view missing playlist failure")
		}
	})
}
