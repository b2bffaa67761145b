// Package player provides the audio engine: decoding, a three-band peaking
// equalizer, volume control, a sample capture tap, and a background
// spectrum analyzer feeding the UI.
package player

import "github.com/gopxl/beep/v2"

// Tap forwards frames from the wrapped streamer unchanged while mirroring
// their interleaved channel values into the shared capture buffer. The copy
// is best-effort: on lock contention the whole chunk is dropped and playback
// continues undisturbed.
type Tap struct {
	s        beep.Streamer
	buf      *sampleBuffer
	channels int
	scratch  []float64
}

// NewTap wraps s, pushing channels values per frame into buf: one for mono
// sources (both speaker channels carry the same value) and two, interleaved
// L then R, for stereo.
func NewTap(s beep.Streamer, buf *sampleBuffer, channels int) *Tap {
	return &Tap{s: s, buf: buf, channels: max(1, min(channels, 2))}
}

// Stream passes audio through untouched and opportunistically captures it.
func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.s.Stream(samples)
	if n > 0 {
		t.scratch = t.scratch[:0]
		for i := range n {
			if t.channels == 1 {
				t.scratch = append(t.scratch, samples[i][0])
			} else {
				t.scratch = append(t.scratch, samples[i][0], samples[i][1])
			}
		}
		t.buf.TryAppend(t.scratch)
	}
	return n, ok
}

// Err returns the underlying streamer's error.
func (t *Tap) Err() error { return t.s.Err() }

// Clear empties the capture buffer. Blocking; called on seek and track
// change so pre-seek samples are never analyzed as current.
func (t *Tap) Clear() { t.buf.Clear() }
