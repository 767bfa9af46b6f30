package visualizer

import (
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/hallucination/internal/fur"
	"github.com/Faultbox/hallucination/internal/logger"
)

// Beat mode tuning.
const (
	DefaultDecayRatio       = 63.0 / 64.0
	DefaultFlashProbability = 0.2

	// BeatConfidenceThreshold is the lowest tracker confidence that
	// counts as a beat.
	BeatConfidenceThreshold = 0.2

	onsetConfidence = 0.5
	beatConfidence  = 1.0
)

// BeatVisualizer flashes a random subset of hairs on every audio event and
// lets all hairs fade between events. Brightness is kept on the hair, so
// it survives switching modes.
type BeatVisualizer struct {
	DecayRatio       float32
	FlashProbability float64

	rng *rand.Rand
	log *zap.Logger

	numOnsets int
	numBeats  int
}

// NewBeatVisualizer creates a beat visualizer drawing flashes from rng.
func NewBeatVisualizer(rng *rand.Rand, decayRatio float32, flashProbability float64) *BeatVisualizer {
	if rng == nil {
		rng = fur.NewRand(0)
	}
	return &BeatVisualizer{
		DecayRatio:       decayRatio,
		FlashProbability: flashProbability,
		rng:              rng,
		log:              logger.Named("beat"),
	}
}

// Fuse turns a frame's events into one confidence value. An onset counts
// 0.5; a confident beat counts 1.0 and overrides the onset.
func Fuse(ev Events) float32 {
	var confidence float32
	if ev.HasOnset {
		confidence = onsetConfidence
	}
	if ev.HasBeat && ev.Beat.Confidence >= BeatConfidenceThreshold {
		confidence = beatConfidence
	}
	return confidence
}

// Illuminate implements Visualizer.
func (b *BeatVisualizer) Illuminate(f *fur.Fur, _ time.Duration, ev Events) error {
	if f.Len() == 0 {
		return ErrEmptyFur
	}

	confidence := Fuse(ev)
	b.logEvents(ev)

	gate := 1 - b.FlashProbability
	for i := range f.Hairs {
		h := &f.Hairs[i]
		if ev.Any() {
			if b.rng.Float64() > gate {
				h.Illumination = min(h.Illumination+confidence, 1)
			}
		} else {
			h.Illumination *= b.DecayRatio
		}
		h.SetGrey(2*h.Illumination - 1)
	}
	return nil
}

func (b *BeatVisualizer) logEvents(ev Events) {
	if ev.HasOnset {
		b.log.Debug("onset",
			zap.Int("n", b.numOnsets),
			zap.Float64("time", ev.Onset.Time))
		b.numOnsets++
	}
	if ev.HasBeat && ev.Beat.Confidence >= BeatConfidenceThreshold {
		b.log.Debug("beat",
			zap.Int("n", b.numBeats),
			zap.Float64("time", ev.Beat.Time),
			zap.Float64("bpm", ev.Beat.TempoBPM),
			zap.Float64("confidence", ev.Beat.Confidence))
		b.numBeats++
	}
}

// Counts returns how many onsets and confident beats have been seen.
func (b *BeatVisualizer) Counts() (onsets, beats int) {
	return b.numOnsets, b.numBeats
}

// Reposition implements Visualizer. New hairs start dark.
func (b *BeatVisualizer) Reposition(*fur.Fur) {}
