package audio

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"

	"github.com/Faultbox/hallucination/internal/logger"
	"go.uber.org/zap"
)

// ErrNotInitialized is returned when playback is requested before Init.
var ErrNotInitialized = errors.New("audio not initialized")

// ErrUnsupportedFormat is returned for files that are neither WAV nor MP3.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Player plays one music file through the speaker and feeds it to a
// Processor on the way out. Analysis sees the signal before the volume
// stage, so muting playback does not stop the visuals.
type Player struct {
	mu sync.RWMutex

	proc        *Processor
	initialized bool
	sampleRate  beep.SampleRate

	source  beep.StreamSeekCloser
	ctrl    *beep.Ctrl
	volume  *effects.Volume
	playing bool
	path    string

	masterVolume float64
}

// NewPlayer creates a player feeding proc.
func NewPlayer(proc *Processor) *Player {
	return &Player{
		proc:         proc,
		masterVolume: 1.0,
	}
}

// Init opens the speaker at the processor's sample rate.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	p.sampleRate = beep.SampleRate(p.proc.SampleRate())
	if err := speaker.Init(p.sampleRate, p.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	p.initialized = true
	return nil
}

// Close stops playback and releases the current file.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopInternal()
	if p.initialized {
		speaker.Close()
	}
	p.initialized = false
}

// SetVolume sets the playback volume (0.0 to 1.0).
func (p *Player) SetVolume(vol float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.masterVolume = clamp(vol, 0, 1)
	p.updateVolume()
}

// Volume returns the playback volume.
func (p *Player) Volume() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.masterVolume
}

func (p *Player) updateVolume() {
	if p.volume == nil {
		return
	}
	speaker.Lock()
	defer speaker.Unlock()
	if p.masterVolume <= 0 {
		p.volume.Silent = true
		return
	}
	p.volume.Silent = false
	p.volume.Volume = volumeExponent(p.masterVolume)
}

// volumeExponent converts a 0-1 linear volume to the exponent
// effects.Volume raises its base 2 to, so the resulting gain equals vol.
func volumeExponent(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return math.Log2(vol)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Play starts the file at path, replacing whatever was playing. The
// processor is reset so tempo tracking starts fresh.
func (p *Player) Play(path string, loop bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return ErrNotInitialized
	}

	streamer, format, err := decodeFile(path)
	if err != nil {
		return err
	}

	p.stopInternal()
	p.proc.Reset()

	var resampled beep.Streamer = streamer
	if format.SampleRate != p.sampleRate {
		resampled = beep.Resample(4, format.SampleRate, p.sampleRate, streamer)
	}

	var final beep.Streamer = resampled
	if loop {
		final = &loopStreamer{seeker: streamer, resampled: resampled}
	}

	p.ctrl = &beep.Ctrl{Streamer: p.proc.Tap(final)}
	p.volume = &effects.Volume{
		Streamer: p.ctrl,
		Base:     2,
	}
	p.source = streamer
	p.path = path
	p.playing = true
	p.updateVolume()

	logger.Info("playing audio",
		zap.String("path", path),
		zap.Int("sample_rate", int(format.SampleRate)),
		zap.Bool("loop", loop))

	// The callback runs with the speaker locked, so state is updated
	// off the audio goroutine.
	speaker.Play(beep.Seq(p.volume, beep.Callback(func() {
		go p.finished(path)
	})))
	return nil
}

func (p *Player) finished(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.path == path {
		p.playing = false
	}
	logger.Debug("audio finished", zap.String("path", path))
}

// Stop stops playback.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopInternal()
}

func (p *Player) stopInternal() {
	if p.initialized {
		speaker.Clear()
	}
	p.playing = false
	if p.source != nil {
		p.source.Close()
		p.source = nil
	}
	p.ctrl = nil
	p.volume = nil
	p.path = ""
}

// SetPaused pauses or resumes playback.
func (p *Player) SetPaused(paused bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = paused
	speaker.Unlock()
	p.playing = !paused
}

// IsPlaying reports whether audio is currently playing.
func (p *Player) IsPlaying() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.playing
}

// Path returns the file currently loaded.
func (p *Player) Path() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.path
}

// decodeFile picks a decoder by file extension.
func decodeFile(path string) (beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".wav" && ext != ".mp3" {
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("open audio: %w", err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", ext, err)
	}
	return streamer, format, nil
}

// loopStreamer rewinds its source whenever it runs dry.
type loopStreamer struct {
	seeker    beep.StreamSeeker
	resampled beep.Streamer
}

func (l *loopStreamer) Stream(samples [][2]float64) (int, bool) {
	filled := 0
	rewound := false
	for filled < len(samples) {
		n, ok := l.resampled.Stream(samples[filled:])
		filled += n
		if n > 0 {
			rewound = false
		}
		if !ok {
			// An empty source would otherwise spin forever.
			if rewound {
				return filled, filled > 0
			}
			if err := l.seeker.Seek(0); err != nil {
				return filled, filled > 0
			}
			rewound = true
		}
	}
	return filled, true
}

func (l *loopStreamer) Err() error { return l.seeker.Err() }
