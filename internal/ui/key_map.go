package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the dashboard.
type keyMap struct {
	nowPlaying key.Binding
	recent     key.Binding
	topTracks  key.Binding
	topArtists key.Binding
	playlist   key.Binding
	refresh    key.Binding
	quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		nowPlaying: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "now playing")),
		recent:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recent tracks")),
		topTracks:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "top tracks")),
		topArtists: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "top artists")),
		playlist:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "create playlist")),
		refresh:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "refresh all")),
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.refresh, k.playlist, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.nowPlaying, k.recent, k.topTracks},
		{k.topArtists, k.playlist},
		{k.refresh, k.quit},
	}
}
