package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"triamp/player"
)

const (
	seekStep   = 5 * time.Second
	gainStep   = 1.0 // dB per keypress on an EQ band
	volumeStep = 2.0 // dB per keypress
)

// handleKey dispatches a key press. Arrow keys steer the focused panel:
// the playlist (navigate/seek) or the equalizer (band select/gain).
func (m *Model) handleKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true

	case " ":
		m.player.TogglePause()

	case "enter":
		m.playCursor()

	case "n":
		m.nextTrack()

	case "p":
		m.prevTrack()

	case "tab":
		if m.focus == focusPlaylist {
			m.focus = focusEQ
		} else {
			m.focus = focusPlaylist
		}

	case "left":
		if m.focus == focusEQ {
			if m.eqBand > player.Bass {
				m.eqBand--
			}
			return
		}
		if err := m.player.Seek(-seekStep); err != nil {
			m.err = err
		}

	case "right":
		if m.focus == focusEQ {
			if m.eqBand < player.Treble {
				m.eqBand++
			}
			return
		}
		if err := m.player.Seek(seekStep); err != nil {
			m.err = err
		}

	case "up", "k":
		if m.focus == focusEQ {
			m.player.SetBandGain(m.eqBand, m.player.BandGain(m.eqBand)+gainStep)
			return
		}
		if m.plCursor > 0 {
			m.plCursor--
			m.adjustScroll()
		}

	case "down", "j":
		if m.focus == focusEQ {
			m.player.SetBandGain(m.eqBand, m.player.BandGain(m.eqBand)-gainStep)
			return
		}
		if m.plCursor < m.playlist.Len()-1 {
			m.plCursor++
			m.adjustScroll()
		}

	case "0":
		if m.focus == focusEQ {
			m.player.SetBandGain(m.eqBand, 0)
		}

	case "+", "=":
		m.player.SetVolume(m.player.Volume() + volumeStep)

	case "-":
		m.player.SetVolume(m.player.Volume() - volumeStep)

	case "s":
		m.playlist.ToggleShuffle()

	case "r":
		m.playlist.CycleRepeat()
	}
}
