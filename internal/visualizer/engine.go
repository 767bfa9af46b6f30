package visualizer

import (
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/hallucination/internal/fur"
	"github.com/Faultbox/hallucination/internal/logger"
)

// Options configures the three visualizers.
type Options struct {
	ScanInterval     time.Duration
	DecayRatio       float32
	FlashProbability float64
	Rand             *rand.Rand
}

// DefaultOptions returns the stock tuning.
func DefaultOptions() Options {
	return Options{
		ScanInterval:     DefaultScanInterval,
		DecayRatio:       DefaultDecayRatio,
		FlashProbability: DefaultFlashProbability,
	}
}

// Engine owns one visualizer per mode and drives the active one.
type Engine struct {
	source      EventSource
	visualizers [numModes]Visualizer
	mode        Mode
	log         *zap.Logger
}

// NewEngine creates an engine reading events from source, which may be
// nil when there is no audio.
func NewEngine(source EventSource, opts Options) *Engine {
	return &Engine{
		source: source,
		visualizers: [numModes]Visualizer{
			Ambient:        WaveVisualizer{},
			BeatReactive:   NewBeatVisualizer(opts.Rand, opts.DecayRatio, opts.FlashProbability),
			SequentialScan: NewScanVisualizer(opts.ScanInterval),
		},
		mode: -1,
		log:  logger.Named("visualizer"),
	}
}

// Visualizer returns the implementation behind mode, or nil.
func (e *Engine) Visualizer(mode Mode) Visualizer {
	if mode < 0 || mode >= numModes {
		return nil
	}
	return e.visualizers[mode]
}

// Draw lights the hairs for one frame. The event source is polled once
// per call whatever the mode, so events that arrive while another mode is
// showing are dropped rather than replayed later.
func (e *Engine) Draw(f *fur.Fur, mode Mode, t time.Duration) error {
	ev := Poll(e.source)

	v := e.Visualizer(mode)
	if v == nil {
		return fmt.Errorf("%w: %d", ErrUnknownMode, int(mode))
	}
	if mode != e.mode {
		e.log.Debug("mode changed", zap.Stringer("mode", mode))
		e.mode = mode
	}
	if err := v.Illuminate(f, t, ev); err != nil {
		return fmt.Errorf("illuminate %s: %w", mode, err)
	}
	return nil
}

// Reposition tells every visualizer the hairs were regenerated.
func (e *Engine) Reposition(f *fur.Fur) {
	for _, v := range e.visualizers {
		v.Reposition(f)
	}
}
