package player

import (
	"slices"
	"testing"
)

func seq(start, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(start + i)
	}
	return out
}

func TestBufferKeepsMostRecentUpToCapacity(t *testing.T) {
	b := newSampleBuffer(8)

	if !b.TryAppend(seq(0, 5)) {
		t.Fatal("TryAppend failed on uncontended buffer")
	}
	if got := b.Len(); got != 5 {
		t.Fatalf("Len = %d, want 5", got)
	}

	// Overflow evicts the oldest samples.
	b.TryAppend(seq(5, 5))
	if got := b.Len(); got != 8 {
		t.Fatalf("Len after overflow = %d, want 8", got)
	}
	if got := b.Latest(8); !slices.Equal(got, seq(2, 8)) {
		t.Errorf("Latest(8) = %v, want %v", got, seq(2, 8))
	}
}

func TestBufferLengthNeverExceedsCapacity(t *testing.T) {
	// Scenario from the capture design: 10000 pushes into an 8192-sample
	// buffer leave exactly the newest 8192.
	b := newSampleBuffer(bufferCap)
	for i := 0; i < 10000; i += 250 {
		b.TryAppend(seq(i, 250))
		if b.Len() > bufferCap {
			t.Fatalf("Len = %d exceeds capacity %d", b.Len(), bufferCap)
		}
	}
	if got := b.Len(); got != bufferCap {
		t.Fatalf("Len = %d, want %d", got, bufferCap)
	}
	got := b.Latest(bufferCap)
	if got[0] != float64(10000-bufferCap) || got[bufferCap-1] != 9999 {
		t.Errorf("Latest range [%v, %v], want [%v, 9999]", got[0], got[bufferCap-1], 10000-bufferCap)
	}
}

func TestBufferLatestRequiresFullCount(t *testing.T) {
	b := newSampleBuffer(16)
	b.TryAppend(seq(0, 10))

	if got := b.Latest(11); got != nil {
		t.Errorf("Latest(11) with 10 buffered = %v, want nil", got)
	}
	if got := b.Latest(10); !slices.Equal(got, seq(0, 10)) {
		t.Errorf("Latest(10) = %v, want %v", got, seq(0, 10))
	}
	if got := b.Latest(4); !slices.Equal(got, seq(6, 4)) {
		t.Errorf("Latest(4) = %v, want %v", got, seq(6, 4))
	}
}

func TestBufferTryAppendDropsOnContention(t *testing.T) {
	b := newSampleBuffer(16)

	b.mu.Lock()
	ok := b.TryAppend(seq(0, 4))
	b.mu.Unlock()

	if ok {
		t.Error("TryAppend succeeded while the lock was held")
	}
	if got := b.Len(); got != 0 {
		t.Errorf("Len after dropped append = %d, want 0", got)
	}
}

func TestBufferClear(t *testing.T) {
	b := newSampleBuffer(16)
	b.TryAppend(seq(0, 12))
	b.Clear()

	if got := b.Len(); got != 0 {
		t.Fatalf("Len after Clear = %d, want 0", got)
	}
	// Post-clear pushes start fresh, no pre-clear samples linger.
	b.TryAppend(seq(100, 3))
	if got := b.Latest(3); !slices.Equal(got, seq(100, 3)) {
		t.Errorf("Latest after Clear = %v, want %v", got, seq(100, 3))
	}
}
