package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"triamp/player"
)

const (
	panelWidth = 64 // usable inner width (70 frame - 2 border - 4 padding)
	barWidth   = 2  // character width of each spectrum bar
)

// Unicode block elements for bar height (9 levels including space)
var barBlocks = []string{" ", "▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

// View renders the full TUI frame.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.renderTitle(),
		m.renderTrackInfo(),
		m.renderTimeStatus(),
		"",
		m.renderSpectrum(),
		m.renderSeekBar(),
		"",
		m.renderVolume(),
		m.renderEQ(),
		"",
		m.renderPlaylistHeader(),
		m.renderPlaylist(),
		"",
		m.renderHelp(),
	}

	if m.err != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("ERR: %s", m.err)))
	}

	return frameStyle.Render(strings.Join(sections, "\n"))
}

func (m Model) renderTitle() string {
	return titleStyle.Render("T R I A M P")
}

func (m Model) renderTrackInfo() string {
	track, _ := m.playlist.Current()
	name := track.DisplayName()
	if name == "" {
		name = "No track loaded"
	}

	prefix := "♫ "
	maxW := panelWidth - len([]rune(prefix))
	runes := []rune(name)

	if len(runes) <= maxW {
		return trackStyle.Render(prefix + name)
	}

	// Cyclic scrolling for long titles
	padded := append(runes, []rune("  ♫  ")...)
	total := len(padded)
	off := m.titleOff % total

	display := make([]rune, maxW)
	for i := range maxW {
		display[i] = padded[(off+i)%total]
	}
	return trackStyle.Render(prefix + string(display))
}

func (m Model) renderTimeStatus() string {
	pos := m.player.Position()
	dur := m.player.Duration()

	timeStr := fmt.Sprintf("%02d:%02d / %02d:%02d",
		int(pos.Minutes()), int(pos.Seconds())%60,
		int(dur.Minutes()), int(dur.Seconds())%60)

	var status string
	switch {
	case m.player.IsPlaying() && m.player.IsPaused():
		status = statusStyle.Render("⏸ Paused")
	case m.player.IsPlaying():
		status = statusStyle.Render("▶ Playing")
	default:
		status = dimStyle.Render("■ Stopped")
	}

	left := timeStyle.Render(timeStr)
	gap := panelWidth - lipgloss.Width(left) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}

	return left + strings.Repeat(" ", gap) + status
}

// renderSpectrum draws the analyzer's 32-bar snapshot as block runes with a
// green/yellow/red gradient by level.
func (m Model) renderSpectrum() string {
	bars := m.player.Spectrum()

	var sb strings.Builder
	for _, level := range bars {
		idx := int(level / 100 * float64(len(barBlocks)-1))
		idx = max(0, min(idx, len(barBlocks)-1))
		block := barBlocks[idx]

		var style lipgloss.Style
		switch {
		case level > 75:
			style = specHighStyle
		case level > 45:
			style = specMidStyle
		default:
			style = specLowStyle
		}

		sb.WriteString(style.Render(strings.Repeat(block, barWidth)))
	}
	return sb.String()
}

func (m Model) renderSeekBar() string {
	pos := m.player.Position()
	dur := m.player.Duration()

	var progress float64
	if dur > 0 {
		progress = float64(pos) / float64(dur)
	}
	progress = max(0, min(1, progress))

	filled := int(progress * float64(panelWidth-1))

	return seekFillStyle.Render(strings.Repeat("━", filled)) +
		seekFillStyle.Render("●") +
		seekDimStyle.Render(strings.Repeat("━", max(0, panelWidth-filled-1)))
}

func (m Model) renderVolume() string {
	vol := m.player.Volume()
	frac := max(0, min(1, (vol+30)/36))

	barW := 22
	filled := int(frac * float64(barW))
	bar := volBarStyle.Render(strings.Repeat("█", filled)) +
		dimStyle.Render(strings.Repeat("░", barW-filled))
	return labelStyle.Render("VOL ") + bar + dimStyle.Render(fmt.Sprintf(" %+.1fdB", vol))
}

// renderEQ shows the three bands with their gains; the selected band is
// highlighted while the EQ panel has focus.
func (m Model) renderEQ() string {
	bands := [3]player.Band{player.Bass, player.Mid, player.Treble}

	parts := make([]string, len(bands))
	for i, b := range bands {
		label := b.String()
		value := fmt.Sprintf("%+.1f", m.player.BandGain(b))

		labelSt, valueSt := eqInactiveStyle, eqInactiveStyle
		if m.focus == focusEQ {
			labelSt, valueSt = labelStyle, eqValueStyle
			if b == m.eqBand {
				labelSt, valueSt = eqActiveStyle, eqActiveStyle
			}
		}
		parts[i] = labelSt.Render(label) + " " + valueSt.Render(value)
	}

	return labelStyle.Render("EQ  ") + strings.Join(parts, "   ")
}

func (m Model) renderPlaylistHeader() string {
	var shuffle string
	if m.playlist.Shuffled() {
		shuffle = activeToggle.Render("[Shuffle]")
	} else {
		shuffle = dimStyle.Render("[Shuffle]")
	}

	repeatStr := fmt.Sprintf("[Repeat: %s]", m.playlist.Repeat())
	if m.playlist.Repeat() != 0 {
		repeatStr = activeToggle.Render(repeatStr)
	} else {
		repeatStr = dimStyle.Render(repeatStr)
	}

	return dimStyle.Render("── Playlist ── ") + shuffle + " " + repeatStr + " " + dimStyle.Render("──")
}

func (m Model) renderPlaylist() string {
	tracks := m.playlist.Tracks()
	if len(tracks) == 0 {
		return dimStyle.Render("  No tracks found")
	}

	currentIdx := m.playlist.Index()
	visible := min(m.plVisible, len(tracks))

	scroll := m.plScroll
	if scroll+visible > len(tracks) {
		scroll = len(tracks) - visible
	}
	scroll = max(0, scroll)

	lines := make([]string, 0, visible)
	for i := scroll; i < scroll+visible && i < len(tracks); i++ {
		prefix := "  "
		style := playlistItemStyle

		if i == currentIdx && m.player.IsPlaying() {
			prefix = "▶ "
			style = playlistActiveStyle
		}

		if m.focus == focusPlaylist && i == m.plCursor {
			style = playlistSelectedStyle
		}

		name := tracks[i].DisplayName()
		if d := tracks[i].Duration; d > 0 {
			name = fmt.Sprintf("%s (%02d:%02d)", name, int(d.Minutes()), int(d.Seconds())%60)
		}
		maxW := panelWidth - 6
		nameRunes := []rune(name)
		if len(nameRunes) > maxW {
			name = string(nameRunes[:maxW-1]) + "…"
		}

		lines = append(lines, style.Render(fmt.Sprintf("%s%d. %s", prefix, i+1, name)))
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderHelp() string {
	return helpStyle.Render("[Spc]Play [n/p]Trk [←→]Seek [+-]Vol [Tab]EQ [s]Shuf [r]Rep [q]Quit")
}
