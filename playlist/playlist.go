// Package playlist manages an ordered track list with shuffle and repeat
// support, and scans directories for playable audio files.
package playlist

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// RepeatMode controls playlist repeat behavior.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatAll
	RepeatOne
)

func (r RepeatMode) String() string {
	switch r {
	case RepeatAll:
		return "All"
	case RepeatOne:
		return "One"
	default:
		return "Off"
	}
}

// supportedExts are the extensions the scanner accepts, matching the
// decoders the player wires up.
var supportedExts = []string{".mp3", ".wav", ".ogg", ".oga", ".flac"}

// Track represents a single audio file.
type Track struct {
	Path     string
	Title    string
	Artist   string
	Duration time.Duration
}

// TrackFromPath creates a Track by parsing the filename. "Artist - Title"
// names are split; anything else becomes the title.
func TrackFromPath(path string) Track {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if artist, title, ok := strings.Cut(name, " - "); ok {
		return Track{Path: path, Artist: strings.TrimSpace(artist), Title: strings.TrimSpace(title)}
	}
	return Track{Path: path, Title: name}
}

// DisplayName returns a formatted display string for the track.
func (t Track) DisplayName() string {
	if t.Artist != "" {
		return t.Artist + " - " + t.Title
	}
	return t.Title
}

// Scan returns tracks for every supported audio file directly inside dir,
// sorted by filename. When probe is non-nil it supplies each track's
// duration; files it rejects are still listed with a zero duration.
func Scan(dir string, probe func(path string) (time.Duration, error)) ([]Track, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	var tracks []Track
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !slices.Contains(supportedExts, ext) {
			continue
		}
		t := TrackFromPath(filepath.Join(dir, e.Name()))
		if probe != nil {
			if d, err := probe(t.Path); err == nil {
				t.Duration = d
			}
		}
		tracks = append(tracks, t)
	}

	slices.SortFunc(tracks, func(a, b Track) int {
		return strings.Compare(filepath.Base(a.Path), filepath.Base(b.Path))
	})
	return tracks, nil
}

// Playlist is an ordered list of tracks with shuffle and repeat support.
// The play order is kept as a permutation of track indices; shuffle
// re-permutes it while pinning the current track first.
type Playlist struct {
	tracks  []Track
	order   []int
	pos     int
	shuffle bool
	repeat  RepeatMode
}

// New creates an empty Playlist.
func New() *Playlist {
	return &Playlist{}
}

// Add appends tracks to the playlist at the end of the play order.
func (p *Playlist) Add(tracks ...Track) {
	start := len(p.tracks)
	p.tracks = append(p.tracks, tracks...)
	for i := start; i < len(p.tracks); i++ {
		p.order = append(p.order, i)
	}
}

// Len returns the number of tracks.
func (p *Playlist) Len() int { return len(p.tracks) }

// Tracks returns all tracks in insertion order.
func (p *Playlist) Tracks() []Track { return p.tracks }

// Current returns the currently selected track and its index, or -1 when
// the playlist is empty.
func (p *Playlist) Current() (Track, int) {
	if len(p.tracks) == 0 {
		return Track{}, -1
	}
	idx := p.order[p.pos]
	return p.tracks[idx], idx
}

// Index returns the track index at the current play position.
func (p *Playlist) Index() int {
	if len(p.order) == 0 {
		return -1
	}
	return p.order[p.pos]
}

// SetIndex moves the play position to the given track index.
func (p *Playlist) SetIndex(i int) {
	if at := slices.Index(p.order, i); at >= 0 {
		p.pos = at
	}
}

// Next advances to the next track. Returns false at the end of the list
// with repeat off; RepeatOne repeats the current track, RepeatAll wraps
// (reshuffling when shuffle is on).
func (p *Playlist) Next() (Track, bool) {
	if len(p.tracks) == 0 {
		return Track{}, false
	}
	switch {
	case p.repeat == RepeatOne:
	case p.pos+1 < len(p.order):
		p.pos++
	case p.repeat == RepeatAll:
		p.pos = 0
		if p.shuffle {
			p.reshuffle()
		}
	default:
		return Track{}, false
	}
	return p.tracks[p.order[p.pos]], true
}

// Prev moves to the previous track, wrapping to the end with RepeatAll.
func (p *Playlist) Prev() (Track, bool) {
	if len(p.tracks) == 0 {
		return Track{}, false
	}
	switch {
	case p.pos > 0:
		p.pos--
	case p.repeat == RepeatAll:
		p.pos = len(p.order) - 1
	}
	return p.tracks[p.order[p.pos]], true
}

// ToggleShuffle enables or disables shuffle. Enabling reshuffles with the
// current track first; disabling restores insertion order at the current
// track.
func (p *Playlist) ToggleShuffle() {
	p.shuffle = !p.shuffle
	if len(p.tracks) == 0 {
		return
	}
	if p.shuffle {
		p.reshuffle()
		return
	}
	cur := p.order[p.pos]
	p.order = make([]int, len(p.tracks))
	for i := range p.order {
		p.order[i] = i
	}
	p.pos = cur
}

// reshuffle permutes the play order with Fisher-Yates, keeping the current
// track at position 0.
func (p *Playlist) reshuffle() {
	cur := p.order[p.pos]
	rest := make([]int, 0, len(p.tracks)-1)
	for i := range p.tracks {
		if i != cur {
			rest = append(rest, i)
		}
	}
	rand.Shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})
	p.order = append([]int{cur}, rest...)
	p.pos = 0
}

// CycleRepeat cycles Off -> All -> One.
func (p *Playlist) CycleRepeat() {
	p.repeat = (p.repeat + 1) % 3
}

// Shuffled reports whether shuffle is enabled.
func (p *Playlist) Shuffled() bool { return p.shuffle }

// Repeat returns the current repeat mode.
func (p *Playlist) Repeat() RepeatMode { return p.repeat }
