package player

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// Player is the audio engine managing the playback pipeline:
//
//	[Decode] -> [Resample] -> [3-band EQ] -> [Volume] -> [Tap] -> [Ctrl] -> [Speaker]
//
// The spectrum analyzer runs beside the pipeline for the lifetime of the
// player, reading the tap's capture buffer.
type Player struct {
	mu        sync.Mutex
	sr        beep.SampleRate
	streamer  beep.StreamSeekCloser
	format    beep.Format
	ctrl      *beep.Ctrl
	volume    float64 // dB, range [-30, +6]
	gains     *Gains
	eq        *Equalizer
	tap       *Tap
	analyzer  *Analyzer
	trackDone atomic.Bool
	playing   bool
	paused    bool
	file      *os.File
}

// New creates a Player, initializes the speaker at the given sample rate,
// and starts the spectrum analyzer.
func New(sr beep.SampleRate) (*Player, error) {
	if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("speaker: %w", err)
	}
	return &Player{sr: sr, gains: NewGains(), analyzer: NewAnalyzer()}, nil
}

// decode opens the right decoder for the file's extension.
func decode(path string, f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return mp3.Decode(f)
	case ".wav":
		return wav.Decode(f)
	case ".ogg", ".oga":
		return vorbis.Decode(f)
	case ".flac":
		return flac.Decode(f)
	default:
		return nil, beep.Format{}, fmt.Errorf("unsupported format %q", filepath.Ext(path))
	}
}

// Play opens an audio file and starts playing it, building the full
// pipeline. On open or decode failure the previous playback state is left
// untouched.
func (p *Player) Play(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	streamer, format, err := decode(path, f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode: %w", err)
	}

	p.Stop()

	p.mu.Lock()
	p.file = f
	p.streamer = streamer
	p.format = format
	p.trackDone.Store(false)

	p.analyzer.Clear()
	p.analyzer.SetChannels(format.NumChannels)

	var s beep.Streamer = streamer
	if format.SampleRate != p.sr {
		s = beep.Resample(4, format.SampleRate, p.sr, s)
	}

	p.eq = NewEqualizer(s, p.sr, p.gains)
	s = &volumeStreamer{s: p.eq, vol: &p.volume, mu: &p.mu}
	p.tap = NewTap(s, p.analyzer.buffer(), format.NumChannels)
	p.ctrl = &beep.Ctrl{Streamer: p.tap}

	p.playing = true
	p.paused = false
	p.mu.Unlock()

	speaker.Play(beep.Seq(p.ctrl, beep.Callback(func() {
		p.trackDone.Store(true)
	})))

	return nil
}

// TogglePause toggles between paused and playing states.
func (p *Player) TogglePause() {
	speaker.Lock()
	defer speaker.Unlock()
	if p.ctrl != nil {
		p.ctrl.Paused = !p.ctrl.Paused
		p.paused = p.ctrl.Paused
	}
}

// Stop halts playback and releases the current track's resources. The
// analyzer keeps running; its display is cleared.
func (p *Player) Stop() {
	speaker.Clear()
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer != nil {
		p.streamer.Close()
		p.streamer = nil
	}
	if p.file != nil {
		p.file.Close()
		p.file = nil
	}
	p.ctrl = nil
	p.eq = nil
	p.tap = nil
	p.playing = false
	p.paused = false
	p.trackDone.Store(false)
	p.analyzer.Clear()
}

// Seek moves the playback position by d (positive or negative), clamped to
// the track bounds. The equalizer's delay state is reset and the capture
// buffer cleared before playback resumes, so neither stale filter memory
// nor pre-seek samples survive the jump.
func (p *Player) Seek(d time.Duration) error {
	speaker.Lock()
	defer speaker.Unlock()
	if p.streamer == nil {
		return nil
	}
	cur := p.format.SampleRate.D(p.streamer.Position())
	n := p.format.SampleRate.N(cur + d)
	n = max(0, min(n, p.streamer.Len()-1))
	if err := p.streamer.Seek(n); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	p.eq.Reset()
	p.tap.Clear()
	return nil
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	speaker.Lock()
	defer speaker.Unlock()
	if p.streamer == nil {
		return 0
	}
	return p.format.SampleRate.D(p.streamer.Position())
}

// Duration returns the total duration of the current track.
func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return 0
	}
	return p.format.SampleRate.D(p.streamer.Len())
}

// SetVolume sets the volume in dB, clamped to [-30, +6].
func (p *Player) SetVolume(dB float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = max(min(dB, 6), -30)
}

// Volume returns the current volume in dB.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetBandGain sets one EQ band's gain in dB, clamped to [-12, +12]. Safe to
// call from the UI at any time; the render path picks it up within the
// equalizer's refresh window.
func (p *Player) SetBandGain(b Band, dB float64) { p.gains.SetBandGain(b, dB) }

// BandGain returns one EQ band's gain in dB.
func (p *Player) BandGain(b Band) float64 { return p.gains.BandGain(b) }

// Spectrum returns the latest 32-bar spectrum snapshot, each value 0..100.
func (p *Player) Spectrum() [NumBars]float64 { return p.analyzer.Spectrum() }

// IsPlaying returns true if a track is loaded (possibly paused).
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// IsPaused returns true if playback is paused.
func (p *Player) IsPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// TrackDone returns true if the current track has finished playing.
func (p *Player) TrackDone() bool {
	return p.trackDone.Load()
}

// Close stops playback and shuts down the analyzer, waiting for its worker
// to exit.
func (p *Player) Close() {
	p.Stop()
	p.analyzer.Close()
}

// TrackDuration probes a file's total playing time without touching the
// speaker.
func TrackDuration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open: %w", err)
	}
	defer f.Close()
	s, format, err := decode(path, f)
	if err != nil {
		return 0, fmt.Errorf("decode: %w", err)
	}
	defer s.Close()
	return format.SampleRate.D(s.Len()), nil
}

// volumeStreamer applies dB gain to an audio stream.
type volumeStreamer struct {
	s   beep.Streamer
	vol *float64
	mu  *sync.Mutex
}

func (v *volumeStreamer) Stream(samples [][2]float64) (int, bool) {
	n, ok := v.s.Stream(samples)
	v.mu.Lock()
	gain := math.Pow(10, *v.vol/20)
	v.mu.Unlock()
	for i := range n {
		samples[i][0] *= gain
		samples[i][1] *= gain
	}
	return n, ok
}

func (v *volumeStreamer) Err() error { return v.s.Err() }
