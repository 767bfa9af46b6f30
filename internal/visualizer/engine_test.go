package visualizer

import (
	"errors"
	"testing"
	"time"

	"github.com/Faultbox/hallucination/internal/audio"
	"github.com/Faultbox/hallucination/internal/fur"
)

// fakeSource hands out queued events once each and counts polls.
type fakeSource struct {
	onset *audio.Onset
	beat  *audio.Beat
	polls int
}

func (s *fakeSource) TakeOnset() (audio.Onset, bool) {
	s.polls++
	if s.onset == nil {
		return audio.Onset{}, false
	}
	o := *s.onset
	s.onset = nil
	return o, true
}

func (s *fakeSource) TakeBeat() (audio.Beat, bool) {
	if s.beat == nil {
		return audio.Beat{}, false
	}
	b := *s.beat
	s.beat = nil
	return b, true
}

func testEngine(src EventSource) *Engine {
	opts := DefaultOptions()
	opts.Rand = fur.NewRand(11)
	return NewEngine(src, opts)
}

func TestEnginePollsOncePerFrame(t *testing.T) {
	src := &fakeSource{}
	e := testEngine(src)
	f := newFur(20)

	modes := []Mode{Ambient, SequentialScan, BeatReactive, Ambient}
	for i, m := range modes {
		if err := e.Draw(f, m, time.Duration(i)*time.Second); err != nil {
			t.Fatalf("Draw(%s) error = %v", m, err)
		}
	}
	if src.polls != len(modes) {
		t.Errorf("source polled %d times over %d frames", src.polls, len(modes))
	}
}

func TestEngineDropsEventsOutsideBeatMode(t *testing.T) {
	src := &fakeSource{beat: &audio.Beat{Confidence: 1}}
	e := testEngine(src)
	f := newFur(200)

	if err := e.Draw(f, Ambient, 0); err != nil {
		t.Fatal(err)
	}
	if err := e.Draw(f, BeatReactive, time.Second); err != nil {
		t.Fatal(err)
	}
	for i, h := range f.Hairs {
		if h.Illumination != 0 {
			t.Fatalf("hair %d flashed from an event taken in ambient mode", i)
		}
	}
}

func TestEngineKeepsIlluminationAcrossModes(t *testing.T) {
	src := &fakeSource{beat: &audio.Beat{Confidence: 1}}
	e := testEngine(src)
	f := newFur(200)

	if err := e.Draw(f, BeatReactive, 0); err != nil {
		t.Fatal(err)
	}
	before := make([]float32, f.Len())
	for i, h := range f.Hairs {
		before[i] = h.Illumination
	}

	if err := e.Draw(f, SequentialScan, time.Second); err != nil {
		t.Fatal(err)
	}
	for i, h := range f.Hairs {
		if h.Illumination != before[i] {
			t.Fatalf("hair %d illumination changed in scan mode", i)
		}
	}
}

func TestEngineErrors(t *testing.T) {
	e := testEngine(nil)

	if err := e.Draw(fur.New(nil), Ambient, 0); !errors.Is(err, ErrEmptyFur) {
		t.Errorf("Draw(empty) error = %v, want ErrEmptyFur", err)
	}
	if err := e.Draw(newFur(3), Mode(42), 0); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("Draw(bad mode) error = %v, want ErrUnknownMode", err)
	}
}

func TestEngineReposition(t *testing.T) {
	e := testEngine(nil)
	f := newFur(4)

	if err := e.Draw(f, SequentialScan, time.Second); err != nil {
		t.Fatal(err)
	}
	scan := e.Visualizer(SequentialScan).(*ScanVisualizer)
	if scan.LitHair() != 0 {
		t.Fatalf("LitHair() = %d, want 0", scan.LitHair())
	}

	e.Reposition(f)
	if scan.LitHair() != -1 {
		t.Errorf("LitHair() = %d after Reposition, want -1", scan.LitHair())
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"ambient", Ambient, false},
		{"sine", Ambient, false},
		{" Beat ", BeatReactive, false},
		{"scan", SequentialScan, false},
		{"photogrammetry", SequentialScan, false},
		{"disco", Ambient, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseMode(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	for m := Ambient; m < numModes; m++ {
		back, err := ParseMode(m.String())
		if err != nil || back != m {
			t.Errorf("ParseMode(%q) = %s, %v", m.String(), back, err)
		}
	}
	if s := Mode(9).String(); s != "Mode(9)" {
		t.Errorf("Mode(9).String() = %q", s)
	}
}

func TestPalette(t *testing.T) {
	grey, err := NewPalette(DefaultTint)
	if err != nil {
		t.Fatal(err)
	}
	red, err := NewPalette("#ff0000")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		p       Palette
		display float32
		want    [3]float32
	}{
		{"off", grey, -1, [3]float32{0, 0, 0}},
		{"zero", grey, 0, [3]float32{0, 0, 0}},
		{"half", grey, 0.5, [3]float32{0.5, 0.5, 0.5}},
		{"full", grey, 1, [3]float32{1, 1, 1}},
		{"over", grey, 3, [3]float32{1, 1, 1}},
		{"red half", red, 0.5, [3]float32{0.5, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.p.Shade(tt.display)
			for c := range got {
				if d := got[c] - tt.want[c]; d > 1e-6 || d < -1e-6 {
					t.Fatalf("Shade(%f) = %v, want %v", tt.display, got, tt.want)
				}
			}
		})
	}

	if red.Tint() != "#ff0000" {
		t.Errorf("Tint() = %q", red.Tint())
	}
	if _, err := NewPalette("green"); err == nil {
		t.Error("NewPalette(green) succeeded")
	}
}
