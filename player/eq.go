package player

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/gopxl/beep/v2"
)

// Band identifies one of the three fixed equalizer bands.
type Band int

const (
	Bass Band = iota
	Mid
	Treble
	numBands
)

func (b Band) String() string {
	switch b {
	case Bass:
		return "Bass"
	case Mid:
		return "Mid"
	case Treble:
		return "Treble"
	default:
		return "?"
	}
}

// bandFreqs holds the fixed center frequency of each peaking band in Hz.
var bandFreqs = [numBands]float64{120, 1000, 8000}

const (
	eqQ = 1.0

	minCentiDB = -1200
	maxCentiDB = 1200

	// coeffInterval is the number of samples between coefficient refresh
	// checks. Coefficient derivation is trigonometric and must not run per
	// sample; gain changes become audible within this many samples.
	coeffInterval = 256
)

// Gains stores the three band gains as centi-dB integers so the render path
// can read them lock-free while the UI writes them.
type Gains struct {
	bands [numBands]atomic.Int32
}

func NewGains() *Gains { return &Gains{} }

// BandGain returns the gain for band b in dB.
func (g *Gains) BandGain(b Band) float64 {
	return float64(g.bands[b].Load()) * 0.01
}

// SetBandGain clamps dB to [-12, +12] and stores it at 0.01 dB resolution.
func (g *Gains) SetBandGain(b Band, dB float64) {
	c := int32(math.Round(max(min(dB, 12), -12) * 100))
	g.bands[b].Store(max(min(c, maxCentiDB), minCentiDB))
}

func (g *Gains) load() [numBands]int32 {
	var out [numBands]int32
	for i := range out {
		out[i] = g.bands[i].Load()
	}
	return out
}

// coeffs is one normalized biquad coefficient set.
type coeffs struct {
	b0, b1, b2, a1, a2 float64
}

// peakingCoeffs derives peaking-EQ coefficients per the Audio EQ Cookbook.
func peakingCoeffs(sr, freq, dB, q float64) (coeffs, error) {
	if sr <= 0 || freq <= 0 || freq >= sr/2 || q <= 0 {
		return coeffs{}, fmt.Errorf("peaking eq: degenerate params sr=%g freq=%g q=%g", sr, freq, q)
	}
	a := math.Pow(10, dB/40)
	w0 := 2 * math.Pi * freq / sr
	sinW0 := math.Sin(w0)
	cosW0 := math.Cos(w0)
	alpha := sinW0 / (2 * q)
	a0 := 1 + alpha/a

	c := coeffs{
		b0: (1 + alpha*a) / a0,
		b1: -2 * cosW0 / a0,
		b2: (1 - alpha*a) / a0,
		a1: -2 * cosW0 / a0,
		a2: (1 - alpha/a) / a0,
	}
	if math.IsNaN(c.b0) || math.IsInf(c.b0, 0) {
		return coeffs{}, fmt.Errorf("peaking eq: non-finite coefficients for gain %g dB", dB)
	}
	return c, nil
}

// biquad is one direct-form-I filter section with per-channel delay state.
type biquad struct {
	coeffs
	x1, x2 [2]float64
	y1, y2 [2]float64
}

func (f *biquad) run(ch int, x float64) float64 {
	y := f.b0*x + f.b1*f.x1[ch] + f.b2*f.x2[ch] - f.a1*f.y1[ch] - f.a2*f.y2[ch]
	f.x2[ch], f.x1[ch] = f.x1[ch], x
	f.y2[ch], f.y1[ch] = f.y1[ch], y
	return y
}

func (f *biquad) reset() {
	f.x1, f.x2 = [2]float64{}, [2]float64{}
	f.y1, f.y2 = [2]float64{}, [2]float64{}
}

// Equalizer applies the bass → mid → treble peaking cascade to every frame
// of the wrapped streamer. Gains come from the shared Gains store, checked
// at most once per coeffInterval samples.
type Equalizer struct {
	s          beep.Streamer
	gains      *Gains
	sr         float64
	filters    [numBands]biquad
	last       [numBands]int32
	n          int
	recomputes atomic.Uint64
}

// NewEqualizer builds the cascade at the given output sample rate from the
// gains in effect right now.
func NewEqualizer(s beep.Streamer, sr beep.SampleRate, gains *Gains) *Equalizer {
	eq := &Equalizer{s: s, gains: gains, sr: float64(sr)}
	for i := range eq.filters {
		// Identity response is the fallback when derivation fails.
		eq.filters[i].coeffs = coeffs{b0: 1}
	}
	eq.last = gains.load()
	eq.update(eq.last)
	return eq
}

// update recomputes all three bands from a centi-dB triple. A band whose
// derivation fails keeps its previous coefficients; the filter must never
// go silent or emit NaNs because of a bad update.
func (eq *Equalizer) update(centi [numBands]int32) {
	for i := range eq.filters {
		c, err := peakingCoeffs(eq.sr, bandFreqs[i], float64(centi[i])*0.01, eqQ)
		if err != nil {
			continue
		}
		eq.filters[i].coeffs = c
	}
	eq.recomputes.Add(1)
}

// maybeUpdate runs once per frame; at every coeffInterval boundary it reads
// the gain triple and recomputes coefficients only when it changed.
func (eq *Equalizer) maybeUpdate() {
	eq.n++
	if eq.n < coeffInterval {
		return
	}
	eq.n = 0
	cur := eq.gains.load()
	if cur == eq.last {
		return
	}
	eq.last = cur
	eq.update(cur)
}

// Stream pulls from the wrapped streamer and runs every channel of every
// frame through the three filter stages in fixed order.
func (eq *Equalizer) Stream(samples [][2]float64) (int, bool) {
	n, ok := eq.s.Stream(samples)
	for i := range n {
		eq.maybeUpdate()
		for ch := range 2 {
			x := samples[i][ch]
			x = eq.filters[Bass].run(ch, x)
			x = eq.filters[Mid].run(ch, x)
			x = eq.filters[Treble].run(ch, x)
			samples[i][ch] = x
		}
	}
	return n, ok
}

// Err returns the underlying streamer's error.
func (eq *Equalizer) Err() error { return eq.s.Err() }

// Reset zeroes the delay registers of all bands. Must be called after the
// underlying source is repositioned, so stale filter memory never meets
// unrelated samples.
func (eq *Equalizer) Reset() {
	for i := range eq.filters {
		eq.filters[i].reset()
	}
}

// Recomputes reports how many times the coefficient set has been derived,
// including the initial derivation at construction.
func (eq *Equalizer) Recomputes() uint64 { return eq.recomputes.Load() }
