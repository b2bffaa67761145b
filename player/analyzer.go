package player

import (
	"math"
	"math/cmplx"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mjibson/go-dsp/fft"
)

const (
	// fftSize is the analysis window length; must be a power of two.
	fftSize = 2048
	// NumBars is the number of spectrum buckets published to the UI.
	NumBars = 32
	// bufferCap keeps roughly four windows of interleaved samples.
	bufferCap = fftSize * 4
	// analyzeEvery is the worker wake interval.
	analyzeEvery = 30 * time.Millisecond

	// Empirical display tuning. Changing these changes the feel of the
	// visualization, not its correctness.
	attackBlend = 0.8
	decayBlend  = 0.55
	magFloor    = 1e-10
)

// hannWindow is the precomputed tapering window applied before the FFT.
var hannWindow = func() [fftSize]float64 {
	var w [fftSize]float64
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(fftSize-1)))
	}
	return w
}()

// barEdges holds the FFT bin edges of the log-spaced bars: bar i covers
// bins [barEdges[i], barEdges[i+1]). Edges are forced monotonic so the bars
// are contiguous, each at least one bin wide, and jointly cover bins
// 1..fftSize/2-1 exactly once.
var barEdges = func() [NumBars + 1]int {
	const half = fftSize / 2
	var edges [NumBars + 1]int
	edges[0] = 1
	for i := 1; i <= NumBars; i++ {
		e := int(math.Pow(half, float64(i)/NumBars))
		edges[i] = max(edges[i-1]+1, min(e, half))
	}
	return edges
}()

// Analyzer owns the shared capture buffer and periodically turns its most
// recent window into a 32-bar spectrum snapshot. A single background
// goroutine runs for the lifetime of the player; the UI polls Spectrum on
// its own tick and always sees a complete, previously published array.
type Analyzer struct {
	buf      *sampleBuffer
	channels atomic.Int32

	mu   sync.Mutex
	bars [NumBars]float64

	done   chan struct{}
	exited chan struct{}
}

// NewAnalyzer creates the analyzer and starts its worker goroutine.
func NewAnalyzer() *Analyzer {
	a := &Analyzer{
		buf:    newSampleBuffer(bufferCap),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	a.channels.Store(2)
	go a.loop()
	return a
}

// buffer returns the shared capture buffer for wiring into a Tap.
func (a *Analyzer) buffer() *sampleBuffer { return a.buf }

// SetChannels tells the analyzer how many interleaved channel values per
// frame the tap is pushing. Set once per track start.
func (a *Analyzer) SetChannels(n int) { a.channels.Store(int32(n)) }

// Spectrum returns a copy of the latest published snapshot. Every value is
// in [0, 100].
func (a *Analyzer) Spectrum() [NumBars]float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.bars
}

// Clear empties the capture buffer and zeroes the published snapshot, e.g.
// on track change.
func (a *Analyzer) Clear() {
	a.buf.Clear()
	a.mu.Lock()
	a.bars = [NumBars]float64{}
	a.mu.Unlock()
}

// Close signals the worker to stop and waits for it to exit. At most one
// in-flight wake interval elapses before the loop observes the signal.
func (a *Analyzer) Close() {
	close(a.done)
	<-a.exited
}

func (a *Analyzer) loop() {
	defer close(a.exited)
	ticker := time.NewTicker(analyzeEvery)
	defer ticker.Stop()

	var prev [NumBars]float64
	for {
		select {
		case <-a.done:
			return
		case <-ticker.C:
		}
		bars, ok := a.analyzeOnce(prev)
		if !ok {
			continue
		}
		prev = bars
		a.mu.Lock()
		a.bars = bars
		a.mu.Unlock()
	}
}

// analyzeOnce runs a single analysis pass against the buffer, smoothing the
// result against prev. It reports false when a full window is not yet
// buffered; that is never an error, just nothing to do this cycle.
func (a *Analyzer) analyzeOnce(prev [NumBars]float64) ([NumBars]float64, bool) {
	channels := int(a.channels.Load())
	if channels < 1 {
		channels = 1
	}

	raw := a.buf.Latest(fftSize * channels)
	if raw == nil {
		return prev, false
	}

	// Downmix interleaved channels to mono and apply the Hann window in
	// one pass.
	windowed := make([]float64, fftSize)
	for i := range windowed {
		var sum float64
		for ch := range channels {
			sum += raw[i*channels+ch]
		}
		windowed[i] = sum / float64(channels) * hannWindow[i]
	}

	spectrum := fft.FFTReal(windowed)

	const half = fftSize / 2
	mags := make([]float64, half)
	for i := range mags {
		mags[i] = cmplx.Abs(spectrum[i])
	}

	var bars [NumBars]float64
	for i := range bars {
		lo, hi := barEdges[i], barEdges[i+1]
		var sum float64
		for bin := lo; bin < hi; bin++ {
			sum += mags[bin]
		}
		avg := sum / float64(hi-lo)

		// Convert to dB then normalize into 0..100. The floor keeps
		// silence finite instead of -Inf.
		db := 20 * math.Log10(math.Max(avg, magFloor))
		norm := max(0, min((db+20)/55*100, 100))

		// Rise fast, decay slowly.
		if norm > prev[i] {
			bars[i] = prev[i]*(1-attackBlend) + norm*attackBlend
		} else {
			bars[i] = prev[i]*decayBlend + norm*(1-decayBlend)
		}
	}
	return bars, true
}
