// Package ui implements the Bubbletea TUI for the TRIAMP terminal music
// player: playlist pane, seek and volume bars, a 32-bar spectrum display,
// and a three-band equalizer panel.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"triamp/player"
	"triamp/playlist"
)

type focusArea int

const (
	focusPlaylist focusArea = iota
	focusEQ
)

type tickMsg time.Time

// Model is the Bubbletea model for the TRIAMP TUI.
type Model struct {
	player    *player.Player
	playlist  *playlist.Playlist
	focus     focusArea
	eqBand    player.Band // selected EQ band when focusEQ
	plCursor  int         // selected playlist item
	plScroll  int         // scroll offset for playlist view
	plVisible int         // max visible playlist items
	titleOff  int         // scroll offset for long track titles
	err       error
	quitting  bool
	width     int
	height    int
}

// NewModel creates a Model wired to the given player and playlist.
func NewModel(p *player.Player, pl *playlist.Playlist) Model {
	return Model{
		player:    p,
		playlist:  pl,
		plVisible: 6,
	}
}

// Init starts the tick timer and requests the terminal size.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), tea.WindowSize())
}

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages: key presses, ticks, and window resizes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.handleKey(msg)
		if m.quitting {
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		// Advance when the current track finished naturally.
		if m.player.IsPlaying() && !m.player.IsPaused() && m.player.TrackDone() {
			m.autoAdvance()
		}
		m.titleOff++
		return m, tickCmd()
	}

	return m, nil
}

// autoAdvance plays the next track per the repeat mode when one ends.
func (m *Model) autoAdvance() {
	if m.playlist.Repeat() == playlist.RepeatOne {
		track, _ := m.playlist.Current()
		m.playTrack(track)
		return
	}
	m.nextTrack()
}

// nextTrack advances to the next playlist track and starts playing it.
func (m *Model) nextTrack() {
	track, ok := m.playlist.Next()
	if !ok {
		m.player.Stop()
		return
	}
	m.plCursor = m.playlist.Index()
	m.adjustScroll()
	m.playTrack(track)
}

// prevTrack goes to the previous track, or restarts if >3s into the
// current one.
func (m *Model) prevTrack() {
	if m.player.Position() > 3*time.Second {
		if err := m.player.Seek(-m.player.Position()); err != nil {
			m.err = err
		}
		return
	}
	track, ok := m.playlist.Prev()
	if !ok {
		return
	}
	m.plCursor = m.playlist.Index()
	m.adjustScroll()
	m.playTrack(track)
}

// playCursor starts playing whatever track the playlist cursor points to.
func (m *Model) playCursor() {
	if m.plCursor < 0 || m.plCursor >= m.playlist.Len() {
		return
	}
	m.playlist.SetIndex(m.plCursor)
	track, idx := m.playlist.Current()
	if idx < 0 {
		return
	}
	m.playTrack(track)
}

func (m *Model) playTrack(track playlist.Track) {
	m.titleOff = 0
	if err := m.player.Play(track.Path); err != nil {
		m.err = err
		return
	}
	m.err = nil
}

// adjustScroll ensures plCursor is visible in the playlist view.
func (m *Model) adjustScroll() {
	if m.plCursor < m.plScroll {
		m.plScroll = m.plCursor
	}
	if m.plCursor >= m.plScroll+m.plVisible {
		m.plScroll = m.plCursor - m.plVisible + 1
	}
}
