package audio

import "math"

// Tempo search range and analysis cadence.
const (
	DefaultMinBPM = 60.0
	DefaultMaxBPM = 200.0

	tempoWindow   = 6.0  // seconds of onset envelope kept
	tempoWarmup   = 3.0  // seconds of envelope needed before estimating
	tempoInterval = 0.25 // seconds between estimates
	beatTolerance = 0.15 // fraction of a period an onset may miss a beat by
	maxMissed     = 4    // predicted beats without an onset before re-phasing
)

// TempoTracker estimates tempo by autocorrelating the onset-strength
// envelope and predicts beats from it, snapping the phase to onsets that
// land close to a prediction.
type TempoTracker struct {
	hopRate float64 // envelope frames per second
	minLag  int
	maxLag  int

	envelope []float64
	pos      int
	filled   int
	frame    int64

	untilEstimate int
	interval      int

	period     float64 // frames per beat, 0 when unknown
	bpm        float64
	confidence float64

	nextBeat float64 // frame index of the next predicted beat, <0 when unphased
	missed   int
}

// NewTempoTracker creates a tracker fed one envelope value per hop.
func NewTempoTracker(sampleRate, hopSize int, minBPM, maxBPM float64) *TempoTracker {
	hopRate := float64(sampleRate) / float64(hopSize)
	interval := int(math.Round(tempoInterval * hopRate))
	return &TempoTracker{
		hopRate:       hopRate,
		minLag:        int(math.Floor(60 * hopRate / maxBPM)),
		maxLag:        int(math.Ceil(60 * hopRate / minBPM)),
		envelope:      make([]float64, int(math.Ceil(tempoWindow*hopRate))),
		interval:      max(interval, 1),
		untilEstimate: max(interval, 1),
		nextBeat:      -1,
	}
}

// Tempo returns the current estimate; bpm is 0 until enough audio has been
// seen.
func (t *TempoTracker) Tempo() (bpm, confidence float64) {
	return t.bpm, t.confidence
}

// Push adds one envelope frame. onset marks frames the onset detector
// fired on and silent frames suppress free-running beats. It returns a
// beat when one falls on this frame.
func (t *TempoTracker) Push(strength float64, onset, silent bool) (Beat, bool) {
	frame := t.frame
	t.frame++

	t.envelope[t.pos] = strength
	t.pos = (t.pos + 1) % len(t.envelope)
	if t.filled < len(t.envelope) {
		t.filled++
	}

	t.untilEstimate--
	if t.untilEstimate <= 0 {
		t.untilEstimate = t.interval
		t.estimate()
	}

	if t.period == 0 {
		return Beat{}, false
	}

	f := float64(frame)
	tol := beatTolerance * t.period

	if onset {
		if t.nextBeat < 0 || t.missed >= maxMissed {
			return t.emit(f), true
		}
		if math.Abs(f-t.nextBeat) <= tol {
			return t.emit(f), true
		}
	}

	if t.nextBeat >= 0 && f > t.nextBeat+tol {
		predicted := t.nextBeat
		t.nextBeat += t.period
		t.missed++
		if !silent {
			return t.beat(predicted), true
		}
	}
	return Beat{}, false
}

// emit re-phases the beat grid on frame f.
func (t *TempoTracker) emit(f float64) Beat {
	t.nextBeat = f + t.period
	t.missed = 0
	return t.beat(f)
}

func (t *TempoTracker) beat(f float64) Beat {
	return Beat{
		Time:       f / t.hopRate,
		TempoBPM:   t.bpm,
		Confidence: t.confidence,
	}
}

// estimate picks the lag with the strongest autocorrelation in the tempo
// range. Confidence is that peak relative to the zero-lag energy.
func (t *TempoTracker) estimate() {
	if float64(t.filled) < tempoWarmup*t.hopRate || t.filled <= t.maxLag {
		return
	}

	env := t.ordered()
	var energy float64
	for _, v := range env {
		energy += v * v
	}
	if energy == 0 {
		return
	}

	bestLag, bestScore := 0, 0.0
	for lag := t.minLag; lag <= t.maxLag && lag < len(env); lag++ {
		var score float64
		for i := lag; i < len(env); i++ {
			score += env[i] * env[i-lag]
		}
		if score > bestScore {
			bestLag, bestScore = lag, score
		}
	}
	if bestLag == 0 {
		return
	}

	t.period = float64(bestLag)
	t.bpm = 60 * t.hopRate / t.period
	t.confidence = math.Min(bestScore/energy, 1)
}

// ordered returns the filled part of the envelope, oldest first.
func (t *TempoTracker) ordered() []float64 {
	out := make([]float64, 0, t.filled)
	start := (t.pos - t.filled + len(t.envelope)) % len(t.envelope)
	for i := 0; i < t.filled; i++ {
		out = append(out, t.envelope[(start+i)%len(t.envelope)])
	}
	return out
}
