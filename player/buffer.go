package player

import "sync"

// sampleBuffer is a bounded FIFO of interleaved float64 samples shared
// between the audio path (writer) and the spectrum analyzer (reader).
// The writer side must never stall playback, so appends go through a
// try-lock: on contention the chunk is simply dropped.
type sampleBuffer struct {
	mu   sync.Mutex
	data []float64 // ring storage, len(data) == capacity
	head int       // index of the oldest sample
	size int
}

func newSampleBuffer(capacity int) *sampleBuffer {
	return &sampleBuffer{data: make([]float64, capacity)}
}

// TryAppend pushes vals at the tail, evicting the oldest samples once the
// buffer is full. Returns false without copying anything when the lock is
// held by another goroutine.
func (b *sampleBuffer) TryAppend(vals []float64) bool {
	if !b.mu.TryLock() {
		return false
	}
	for _, v := range vals {
		b.data[(b.head+b.size)%len(b.data)] = v
		if b.size < len(b.data) {
			b.size++
		} else {
			b.head = (b.head + 1) % len(b.data)
		}
	}
	b.mu.Unlock()
	return true
}

// Latest copies the most recent n samples in push order. Returns nil when
// fewer than n samples are buffered.
func (b *sampleBuffer) Latest(n int) []float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n <= 0 || b.size < n {
		return nil
	}
	out := make([]float64, n)
	start := b.head + b.size - n
	for i := range out {
		out[i] = b.data[(start+i)%len(b.data)]
	}
	return out
}

// Clear discards all buffered samples. Blocking; callers use it on seek and
// track change, never on the per-sample path.
func (b *sampleBuffer) Clear() {
	b.mu.Lock()
	b.head, b.size = 0, 0
	b.mu.Unlock()
}

// Len returns the number of buffered samples.
func (b *sampleBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}
