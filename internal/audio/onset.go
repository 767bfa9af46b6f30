package audio

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// minOnsetGap suppresses repeated detections of one attack.
const minOnsetGap = 0.05 // seconds

// fluxHistory is the number of past flux values the adaptive threshold
// averages over.
const fluxHistory = 16

// fluxMultiplier scales the local flux mean in the adaptive threshold.
const fluxMultiplier = 1.5

// OnsetDetector finds onsets with half-wave rectified spectral flux over a
// Hann-windowed frame, an adaptive threshold and a silence gate.
type OnsetDetector struct {
	fft    *fourier.FFT
	window []float64
	frame  []float64
	coeffs []complex128
	mags   []float64
	prev   []float64

	threshold float64
	silenceDB float64
	minGap    int

	history    []float64
	historyPos int
	sinceLast  int
}

// NewOnsetDetector creates a detector for frames of winSize samples
// advanced hopSize samples at a time.
func NewOnsetDetector(winSize, hopSize, sampleRate int, threshold, silenceDB float64) *OnsetDetector {
	window := make([]float64, winSize)
	for i := range window {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(winSize-1)))
	}
	bins := winSize/2 + 1
	gap := int(math.Ceil(minOnsetGap * float64(sampleRate) / float64(hopSize)))

	return &OnsetDetector{
		fft:       fourier.NewFFT(winSize),
		window:    window,
		frame:     make([]float64, winSize),
		coeffs:    make([]complex128, bins),
		mags:      make([]float64, bins),
		prev:      make([]float64, bins),
		threshold: threshold,
		silenceDB: silenceDB,
		minGap:    gap,
		history:   make([]float64, fluxHistory),
		sinceLast: gap,
	}
}

// Detect analyses one full window of samples (oldest first) and returns
// the spectral flux and whether it marks an onset. Silent frames report
// zero flux.
func (d *OnsetDetector) Detect(samples []float64) (flux float64, onset bool) {
	d.sinceLast++

	if levelDB(samples) <= d.silenceDB {
		clear(d.prev)
		d.push(0)
		return 0, false
	}

	for i, s := range samples {
		d.frame[i] = s * d.window[i]
	}
	d.coeffs = d.fft.Coefficients(d.coeffs, d.frame)

	for i, c := range d.coeffs {
		m := math.Hypot(real(c), imag(c))
		if diff := m - d.prev[i]; diff > 0 {
			flux += diff
		}
		d.mags[i] = m
	}
	flux /= float64(len(d.coeffs))
	d.prev, d.mags = d.mags, d.prev

	limit := d.threshold + fluxMultiplier*d.mean()
	d.push(flux)

	if flux > limit && flux > 0 && d.sinceLast >= d.minGap {
		d.sinceLast = 0
		return flux, true
	}
	return flux, false
}

func (d *OnsetDetector) push(v float64) {
	d.history[d.historyPos] = v
	d.historyPos = (d.historyPos + 1) % len(d.history)
}

func (d *OnsetDetector) mean() float64 {
	var sum float64
	for _, v := range d.history {
		sum += v
	}
	return sum / float64(len(d.history))
}

// levelDB returns the RMS level of samples in dBFS.
func levelDB(samples []float64) float64 {
	if len(samples) == 0 {
		return math.Inf(-1)
	}
	var sum float64
	for _, s := range samples {
		sum += s * s
	}
	rms := math.Sqrt(sum / float64(len(samples)))
	if rms == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(rms)
}
