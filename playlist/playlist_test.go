package playlist

import (
	"os"
	"path/filepath"
	"testing"
)

func trackNames(tracks []Track) []string {
	names := make([]string, len(tracks))
	for i, t := range tracks {
		names[i] = filepath.Base(t.Path)
	}
	return names
}

func TestTrackFromPath(t *testing.T) {
	tests := []struct {
		path    string
		artist  string
		title   string
		display string
	}{
		{"/m/Miles Davis - So What.mp3", "Miles Davis", "So What", "Miles Davis - So What"},
		{"/m/track01.flac", "", "track01", "track01"},
		{"/m/a - b - c.ogg", "a", "b - c", "a - b - c"},
	}
	for _, tt := range tests {
		got := TrackFromPath(tt.path)
		if got.Artist != tt.artist || got.Title != tt.title {
			t.Errorf("TrackFromPath(%q) = %q/%q, want %q/%q",
				tt.path, got.Artist, got.Title, tt.artist, tt.title)
		}
		if got.DisplayName() != tt.display {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.path, got.DisplayName(), tt.display)
		}
	}
}

func newList(n int) *Playlist {
	p := New()
	for i := 0; i < n; i++ {
		p.Add(Track{Path: filepath.Join("m", string(rune('a'+i))+".mp3")})
	}
	return p
}

func TestNextStopsAtEndWithRepeatOff(t *testing.T) {
	p := newList(3)
	if _, ok := p.Next(); !ok {
		t.Fatal("Next from first track failed")
	}
	if _, ok := p.Next(); !ok {
		t.Fatal("Next to last track failed")
	}
	if _, ok := p.Next(); ok {
		t.Error("Next past the end succeeded with repeat off")
	}
	if got := p.Index(); got != 2 {
		t.Errorf("Index = %d, want 2", got)
	}
}

func TestRepeatAllWrapsBothDirections(t *testing.T) {
	p := newList(3)
	p.CycleRepeat() // All

	p.SetIndex(2)
	track, ok := p.Next()
	if !ok || track.Path != p.Tracks()[0].Path {
		t.Errorf("Next at end with RepeatAll = %v, want wrap to first", track.Path)
	}

	track, ok = p.Prev()
	if !ok || track.Path != p.Tracks()[2].Path {
		t.Errorf("Prev at start with RepeatAll = %v, want wrap to last", track.Path)
	}
}

func TestRepeatOneStaysPut(t *testing.T) {
	p := newList(3)
	p.CycleRepeat()
	p.CycleRepeat() // One
	p.SetIndex(1)

	for i := 0; i < 3; i++ {
		track, ok := p.Next()
		if !ok || track.Path != p.Tracks()[1].Path {
			t.Fatalf("Next with RepeatOne = %v, want current track", track.Path)
		}
	}
}

func TestCycleRepeat(t *testing.T) {
	p := New()
	want := []RepeatMode{RepeatOff, RepeatAll, RepeatOne, RepeatOff}
	for i, w := range want {
		if got := p.Repeat(); got != w {
			t.Fatalf("step %d: Repeat = %v, want %v", i, got, w)
		}
		p.CycleRepeat()
	}
}

func TestShuffleKeepsCurrentAndIsPermutation(t *testing.T) {
	p := newList(10)
	p.SetIndex(4)
	p.ToggleShuffle()

	if _, idx := p.Current(); idx != 4 {
		t.Errorf("current after shuffle = %d, want 4", idx)
	}

	// Walking the whole order must visit every track exactly once.
	seen := map[int]bool{p.Index(): true}
	for {
		_, ok := p.Next()
		if !ok {
			break
		}
		idx := p.Index()
		if seen[idx] {
			t.Fatalf("track %d visited twice", idx)
		}
		seen[idx] = true
	}
	if len(seen) != 10 {
		t.Errorf("visited %d tracks, want 10", len(seen))
	}

	// Disabling shuffle restores insertion order at the current track.
	cur := p.Index()
	p.ToggleShuffle()
	if got := p.Index(); got != cur {
		t.Errorf("current changed on unshuffle: %d, want %d", got, cur)
	}
}

func TestScanFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.mp3", "a.wav", "notes.txt", "d.FLAC", "c.ogg"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.mp3"), 0o755); err != nil {
		t.Fatal(err)
	}

	tracks, err := Scan(dir, nil)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"a.wav", "b.mp3", "c.ogg", "d.FLAC"}
	got := trackNames(tracks)
	if len(got) != len(want) {
		t.Fatalf("Scan returned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("track %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestScanMissingDir(t *testing.T) {
	if _, err := Scan(filepath.Join(t.TempDir(), "nope"), nil); err == nil {
		t.Error("Scan of a missing directory succeeded")
	}
}
