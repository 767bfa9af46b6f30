package audio

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gopxl/beep/v2"
)

// Options configures the analysis engine.
type Options struct {
	SampleRate     int
	WinSize        int
	HopSize        int
	OnsetThreshold float64
	SilenceDB      float64
	MinBPM         float64
	MaxBPM         float64
}

// DefaultOptions returns a 1024-sample window advanced 256 samples at a
// time at 44.1 kHz.
func DefaultOptions() Options {
	return Options{
		SampleRate:     44100,
		WinSize:        1024,
		HopSize:        256,
		OnsetThreshold: 0,
		SilenceDB:      -90,
		MinBPM:         DefaultMinBPM,
		MaxBPM:         DefaultMaxBPM,
	}
}

// ErrInvalidOptions is returned for unusable analysis settings.
var ErrInvalidOptions = errors.New("invalid audio analysis options")

func (o Options) validate() error {
	switch {
	case o.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrInvalidOptions, o.SampleRate)
	case o.WinSize < 2 || o.HopSize <= 0:
		return fmt.Errorf("%w: window %d, hop %d", ErrInvalidOptions, o.WinSize, o.HopSize)
	case o.HopSize > o.WinSize:
		return fmt.Errorf("%w: hop %d larger than window %d", ErrInvalidOptions, o.HopSize, o.WinSize)
	case o.MinBPM <= 0 || o.MaxBPM <= o.MinBPM:
		return fmt.Errorf("%w: bpm range %.0f-%.0f", ErrInvalidOptions, o.MinBPM, o.MaxBPM)
	}
	return nil
}

// Processor turns a stream of samples into onset and beat events. Samples
// arrive on the audio goroutine; events are read by the frame loop through
// TakeOnset and TakeBeat, each of which reports an event at most once.
type Processor struct {
	opts Options

	// Audio goroutine state.
	onsets  *OnsetDetector
	tempo   *TempoTracker
	window  []float64
	hop     []float64
	samples int64

	onsetLatch Latch[Onset]
	beatLatch  Latch[Beat]

	mu         sync.Mutex
	bpm        float64
	confidence float64
}

// NewProcessor creates an analysis engine.
func NewProcessor(opts Options) (*Processor, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	p := &Processor{opts: opts}
	p.reset()
	return p, nil
}

func (p *Processor) reset() {
	o := p.opts
	p.onsets = NewOnsetDetector(o.WinSize, o.HopSize, o.SampleRate, o.OnsetThreshold, o.SilenceDB)
	p.tempo = NewTempoTracker(o.SampleRate, o.HopSize, o.MinBPM, o.MaxBPM)
	p.window = make([]float64, o.WinSize)
	p.hop = p.hop[:0]
	p.samples = 0
}

// Reset discards all analysis state and pending events, for a new stream.
// It must not run concurrently with Process.
func (p *Processor) Reset() {
	p.reset()
	p.onsetLatch.Take()
	p.beatLatch.Take()
	p.mu.Lock()
	p.bpm, p.confidence = 0, 0
	p.mu.Unlock()
}

// SampleRate returns the rate Process expects.
func (p *Processor) SampleRate() int {
	return p.opts.SampleRate
}

// Process analyses mono samples. Analysis runs once per full hop; leftover
// samples are kept for the next call.
func (p *Processor) Process(mono []float64) {
	for _, s := range mono {
		p.hop = append(p.hop, s)
		if len(p.hop) == p.opts.HopSize {
			p.step()
			p.hop = p.hop[:0]
		}
	}
}

func (p *Processor) step() {
	// Slide the analysis window by one hop.
	n := len(p.hop)
	copy(p.window, p.window[n:])
	copy(p.window[len(p.window)-n:], p.hop)
	p.samples += int64(n)

	flux, isOnset := p.onsets.Detect(p.window)
	if isOnset {
		p.onsetLatch.Set(Onset{Time: float64(p.samples) / float64(p.opts.SampleRate)})
	}

	silent := levelDB(p.window) <= p.opts.SilenceDB
	if beat, ok := p.tempo.Push(flux, isOnset, silent); ok {
		p.beatLatch.Set(beat)
	}

	bpm, conf := p.tempo.Tempo()
	p.mu.Lock()
	p.bpm, p.confidence = bpm, conf
	p.mu.Unlock()
}

// TakeOnset returns the latest onset since the previous call.
func (p *Processor) TakeOnset() (Onset, bool) {
	return p.onsetLatch.Take()
}

// TakeBeat returns the latest beat since the previous call.
func (p *Processor) TakeBeat() (Beat, bool) {
	return p.beatLatch.Take()
}

// Tempo returns the current tempo estimate and its confidence.
func (p *Processor) Tempo() (bpm, confidence float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bpm, p.confidence
}

// Tap wraps s so every sample it produces is also analysed. The stereo
// channels are averaged to mono.
func (p *Processor) Tap(s beep.Streamer) beep.Streamer {
	return &analysisTap{source: s, proc: p}
}

// analysisTap passes samples through unchanged while feeding the processor.
type analysisTap struct {
	source beep.Streamer
	proc   *Processor
	mono   []float64
}

func (t *analysisTap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.source.Stream(samples)
	if n > 0 {
		if cap(t.mono) < n {
			t.mono = make([]float64, n)
		}
		mono := t.mono[:n]
		for i := 0; i < n; i++ {
			mono[i] = (samples[i][0] + samples[i][1]) / 2
		}
		t.proc.Process(mono)
	}
	return n, ok
}

func (t *analysisTap) Err() error { return t.source.Err() }
