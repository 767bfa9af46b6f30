package audio

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/gopxl/beep/v2"
)

// clickTrack builds seconds of silence with a short decaying noise burst
// every periodHops hops.
func clickTrack(opts Options, seconds float64, periodHops int) []float64 {
	n := int(seconds * float64(opts.SampleRate))
	out := make([]float64, n)
	period := periodHops * opts.HopSize
	burst := opts.SampleRate / 100
	rng := rand.New(rand.NewPCG(1, 2))
	for start := 0; start < n; start += period {
		for i := 0; i < burst && start+i < n; i++ {
			env := math.Exp(-5 * float64(i) / float64(burst))
			out[start+i] = 0.8 * env * (2*rng.Float64() - 1)
		}
	}
	return out
}

func feed(p *Processor, samples []float64, hop int) (onsets, beats []float64, lastBeat Beat) {
	for i := 0; i < len(samples); i += hop {
		end := min(i+hop, len(samples))
		p.Process(samples[i:end])
		if o, ok := p.TakeOnset(); ok {
			onsets = append(onsets, o.Time)
		}
		if b, ok := p.TakeBeat(); ok {
			beats = append(beats, b.Time)
			lastBeat = b
		}
	}
	return onsets, beats, lastBeat
}

func TestNewProcessorValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{"zero sample rate", func(o *Options) { o.SampleRate = 0 }},
		{"zero hop", func(o *Options) { o.HopSize = 0 }},
		{"hop larger than window", func(o *Options) { o.HopSize = o.WinSize * 2 }},
		{"tiny window", func(o *Options) { o.WinSize = 1 }},
		{"inverted bpm range", func(o *Options) { o.MinBPM, o.MaxBPM = 200, 60 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)
			if _, err := NewProcessor(opts); !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("NewProcessor() error = %v, want ErrInvalidOptions", err)
			}
		})
	}

	if _, err := NewProcessor(DefaultOptions()); err != nil {
		t.Fatalf("NewProcessor(DefaultOptions()) error = %v", err)
	}
}

func TestProcessorSilence(t *testing.T) {
	p, err := NewProcessor(DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	onsets, beats, _ := feed(p, make([]float64, 5*44100), 512)
	if len(onsets) != 0 || len(beats) != 0 {
		t.Errorf("silence produced %d onsets and %d beats", len(onsets), len(beats))
	}
	if bpm, _ := p.Tempo(); bpm != 0 {
		t.Errorf("Tempo() = %f on silence, want 0", bpm)
	}
}

func TestProcessorClickTrack(t *testing.T) {
	opts := DefaultOptions()
	p, err := NewProcessor(opts)
	if err != nil {
		t.Fatal(err)
	}

	// 88 hops at 44.1 kHz / 256 is about 117 bpm.
	const periodHops = 88
	track := clickTrack(opts, 8, periodHops)
	onsets, beats, last := feed(p, track, opts.HopSize)

	clicks := int(math.Ceil(float64(len(track)) / float64(periodHops*opts.HopSize)))
	if len(onsets) < clicks-1 || len(onsets) > clicks {
		t.Errorf("got %d onsets, want about %d", len(onsets), clicks)
	}
	for i := 1; i < len(onsets); i++ {
		if gap := onsets[i] - onsets[i-1]; gap < 0.4 || gap > 0.6 {
			t.Errorf("onset gap %d = %.3fs, want ~0.51s", i, gap)
		}
	}

	bpm, conf := p.Tempo()
	if bpm < 110 || bpm > 125 {
		t.Errorf("Tempo() bpm = %.1f, want 110-125", bpm)
	}
	if conf <= 0 || conf > 1 {
		t.Errorf("Tempo() confidence = %f, want (0, 1]", conf)
	}

	if len(beats) < 3 {
		t.Fatalf("got %d beats, want at least 3", len(beats))
	}
	if last.Confidence < 0.2 {
		t.Errorf("beat confidence = %f, want >= 0.2 for a steady click", last.Confidence)
	}
}

func TestProcessorReset(t *testing.T) {
	opts := DefaultOptions()
	p, err := NewProcessor(opts)
	if err != nil {
		t.Fatal(err)
	}
	p.Process(clickTrack(opts, 5, 88))
	p.Reset()

	if _, ok := p.TakeOnset(); ok {
		t.Error("onset still pending after Reset")
	}
	if bpm, conf := p.Tempo(); bpm != 0 || conf != 0 {
		t.Errorf("Tempo() = %f, %f after Reset", bpm, conf)
	}
}

func TestTapPassesSamplesThrough(t *testing.T) {
	opts := DefaultOptions()
	p, err := NewProcessor(opts)
	if err != nil {
		t.Fatal(err)
	}
	track := clickTrack(opts, 1, 88)
	pos := 0
	src := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= len(track) {
			return 0, false
		}
		n := 0
		for n < len(samples) && pos < len(track) {
			samples[n] = [2]float64{track[pos], track[pos]}
			n++
			pos++
		}
		return n, true
	})

	tap := p.Tap(src)
	buf := make([][2]float64, 1000)
	var got []float64
	for {
		n, ok := tap.Stream(buf)
		for _, s := range buf[:n] {
			got = append(got, s[0])
		}
		if !ok {
			break
		}
	}

	if len(got) != len(track) {
		t.Fatalf("tap produced %d samples, want %d", len(got), len(track))
	}
	for i := range got {
		if got[i] != track[i] {
			t.Fatalf("sample %d changed: %f != %f", i, got[i], track[i])
		}
	}
	if _, ok := p.TakeOnset(); !ok {
		t.Error("tap did not feed the processor")
	}
}
