package player

import (
	"slices"
	"testing"

	"github.com/gopxl/beep/v2"
)

// counter streams frames whose left channel counts up and whose right
// channel mirrors it negated, so capture order is checkable.
func counter() beep.Streamer {
	var n float64
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i][0], samples[i][1] = n, -n
			n++
		}
		return len(samples), true
	})
}

func TestTapPassesAudioThroughUnchanged(t *testing.T) {
	buf := newSampleBuffer(64)
	tap := NewTap(counter(), buf, 2)

	out := stream(t, tap, 16)
	for i, f := range out {
		want := [2]float64{float64(i), -float64(i)}
		if f != want {
			t.Fatalf("frame %d = %v, want %v", i, f, want)
		}
	}
}

func TestTapCapturesInterleavedStereo(t *testing.T) {
	buf := newSampleBuffer(64)
	tap := NewTap(counter(), buf, 2)
	stream(t, tap, 8)

	want := make([]float64, 0, 16)
	for i := 0; i < 8; i++ {
		want = append(want, float64(i), -float64(i))
	}
	if got := buf.Latest(16); !slices.Equal(got, want) {
		t.Errorf("captured = %v, want %v", got, want)
	}
}

func TestTapCapturesMonoSingleChannel(t *testing.T) {
	buf := newSampleBuffer(64)
	tap := NewTap(counter(), buf, 1)
	stream(t, tap, 8)

	if got := buf.Len(); got != 8 {
		t.Fatalf("captured %d samples for 8 mono frames, want 8", got)
	}
	got := buf.Latest(8)
	for i, v := range got {
		if v != float64(i) {
			t.Errorf("sample %d = %v, want %v", i, v, float64(i))
		}
	}
}

func TestTapDropsCaptureOnContentionButStillForwards(t *testing.T) {
	buf := newSampleBuffer(64)
	tap := NewTap(counter(), buf, 2)

	buf.mu.Lock()
	out := stream(t, tap, 8)
	buf.mu.Unlock()

	// Forwarding is unaffected by the held lock.
	for i, f := range out {
		if f[0] != float64(i) {
			t.Fatalf("frame %d = %v, forwarding was disturbed", i, f)
		}
	}
	if got := buf.Len(); got != 0 {
		t.Errorf("captured %d samples under contention, want 0", got)
	}
}

func TestTapClearEmptiesBuffer(t *testing.T) {
	buf := newSampleBuffer(64)
	tap := NewTap(counter(), buf, 2)
	stream(t, tap, 8)

	tap.Clear()
	if got := buf.Len(); got != 0 {
		t.Errorf("Len after Clear = %d, want 0", got)
	}
}
