// package ui implements the terminal dashboard over the session store.
//
// The model never talks to the API directly: key presses dispatch the
// pipeline's entry points on [tea.Cmd] goroutines and every completion
// message carries a fresh [session.Snapshot] to render. Refresh failures
// surface as sentinel data inside the snapshot, so the dashboard has no
// error view for them.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/musicmuse/internal/models"
	"github.com/desertthunder/musicmuse/internal/session"
	"github.com/desertthunder/musicmuse/internal/tasks"
	"github.com/dustin/go-humanize"
)

// Model represents the dashboard state.
type Model struct {
	ctx        context.Context
	engine     *tasks.HistoryEngine
	snapshot   session.Snapshot
	width      int
	height     int
	refreshing int
	playlist   playlistCreatedMsg
	help       help.Model
	keys       keyMap
}

type snapshotMsg session.Snapshot

type playlistCreatedMsg struct {
	link string
	err  error
}

// NewModel creates a dashboard bound to the engine's session store.
func NewModel(ctx context.Context, engine *tasks.HistoryEngine) *Model {
	return &Model{
		ctx:      ctx,
		engine:   engine,
		snapshot: engine.State().Snapshot(),
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init kicks off a full refresh so the dashboard opens populated.
func (m *Model) Init() tea.Cmd {
	return m.refreshAll()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "n":
			return m.dispatch(func(ctx context.Context) { m.engine.RefreshNowPlaying(ctx) })
		case "r":
			return m.dispatch(func(ctx context.Context) { m.engine.RefreshRecentTracks(ctx) })
		case "t":
			return m.dispatch(func(ctx context.Context) { m.engine.RefreshTopTracks(ctx) })
		case "a":
			return m.dispatch(func(ctx context.Context) { m.engine.RefreshTopArtists(ctx) })
		case "g":
			m.refreshing++
			return m, m.refreshAll()
		case "p":
			return m, m.createPlaylist()
		}

	case snapshotMsg:
		if m.refreshing > 0 {
			m.refreshing--
		}
		m.snapshot = session.Snapshot(msg)
		return m, nil

	case playlistCreatedMsg:
		m.playlist = msg
		m.snapshot = m.engine.State().Snapshot()
		return m, nil
	}

	return m, nil
}

// dispatch runs one refresh entry point off the update loop and reports
// back with the resulting snapshot.
func (m *Model) dispatch(refresh func(context.Context)) (tea.Model, tea.Cmd) {
	m.refreshing++
	return m, func() tea.Msg {
		refresh(m.ctx)
		return snapshotMsg(m.engine.State().Snapshot())
	}
}

func (m *Model) refreshAll() tea.Cmd {
	return func() tea.Msg {
		m.engine.RefreshAll(m.ctx)
		return snapshotMsg(m.engine.State().Snapshot())
	}
}

func (m *Model) createPlaylist() tea.Cmd {
	return func() tea.Msg {
		playlist, err := m.engine.CreatePlaylist(m.ctx)
		if err != nil {
			return playlistCreatedMsg{err: err}
		}
		return playlistCreatedMsg{link: playlist.CanonicalURL}
	}
}

// View renders the whole dashboard from the last snapshot.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(styles.title.Render(m.headline()))
	b.WriteString("\n\n")

	b.WriteString(m.renderNowPlaying())
	b.WriteString("\n")
	b.WriteString(m.renderRecent())
	b.WriteString("\n")
	b.WriteString(m.renderRanked("Top Tracks", m.snapshot.TopTracks))
	b.WriteString("\n")
	b.WriteString(m.renderRanked("Top Artists", m.snapshot.TopArtists))
	b.WriteString("\n")
	b.WriteString(m.renderPlaylist())
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))

	return b.String()
}

func (m *Model) headline() string {
	name := "listener"
	if m.snapshot.User != nil && m.snapshot.User.DisplayName != "" {
		name = m.snapshot.User.DisplayName
	}
	head := fmt.Sprintf("musicmuse • %s", name)
	if m.refreshing > 0 {
		head += " (refreshing)"
	}
	return head
}

func (m *Model) renderNowPlaying() string {
	snap := m.snapshot.NowPlaying
	header := styles.section.Render("Now Playing")

	if !snap.Playing() {
		return fmt.Sprintf("%s\n  %s\n", header, styles.dim.Render(snap.Name))
	}

	line := fmt.Sprintf("  %s — %s (%s)", snap.Name, snap.PrimaryArtistName, snap.AlbumName)
	detail := styles.dim.Render(fmt.Sprintf("  %s • popularity %d",
		formatDuration(snap.DurationMS), snap.Popularity))
	return fmt.Sprintf("%s\n%s\n%s\n", header, line, detail)
}

func (m *Model) renderRecent() string {
	header := styles.section.Render("Recent Tracks")
	if len(m.snapshot.RecentTracks) == 0 {
		return fmt.Sprintf("%s\n  %s\n", header, styles.dim.Render("nothing yet"))
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	for _, track := range m.snapshot.RecentTracks {
		b.WriteString(fmt.Sprintf("  %s — %s %s\n",
			track.Name, track.ArtistNames,
			styles.dim.Render(humanize.Time(track.PlayedAt))))
	}
	return b.String()
}

func (m *Model) renderRanked(title string, entities []models.EnrichedEntity) string {
	header := styles.section.Render(title)
	if len(entities) == 0 {
		return fmt.Sprintf("%s\n  %s\n", header, styles.dim.Render("nothing yet"))
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	for i, entity := range entities {
		plays := "play"
		if entity.Count != 1 {
			plays = "plays"
		}
		b.WriteString(fmt.Sprintf("  %d. %s %s\n",
			i+1, entity.Name,
			styles.dim.Render(fmt.Sprintf("(%d %s)", entity.Count, plays))))
	}
	return b.String()
}

func (m *Model) renderPlaylist() string {
	header := styles.section.Render("Playlist")

	if m.playlist.err != nil {
		return fmt.Sprintf("%s\n  %s\n", header,
			styles.err.Render(fmt.Sprintf("creation failed: %v", m.playlist.err)))
	}
	if m.snapshot.PlaylistLink != "" {
		return fmt.Sprintf("%s\n  %s\n", header, styles.ok.Render(m.snapshot.PlaylistLink))
	}
	return fmt.Sprintf("%s\n  %s\n", header, styles.dim.Render("press p to create one from the current track"))
}

func formatDuration(ms int) string {
	total := ms / 1000
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
