package visualizer

import (
	"time"

	"github.com/Faultbox/hallucination/internal/fur"
)

// DefaultScanInterval is how long each hair stays lit.
const DefaultScanInterval = 100 * time.Millisecond

// ScanVisualizer lights one hair at a time in index order, stepping at a
// fixed rate independent of the frame rate.
type ScanVisualizer struct {
	Interval time.Duration

	litHair    int
	lastChange time.Duration
}

// NewScanVisualizer creates a scan with nothing lit yet.
func NewScanVisualizer(interval time.Duration) *ScanVisualizer {
	if interval <= 0 {
		interval = DefaultScanInterval
	}
	return &ScanVisualizer{Interval: interval, litHair: -1}
}

// LitHair returns the index of the lit hair, or -1 before the first step.
func (s *ScanVisualizer) LitHair() int {
	return s.litHair
}

// Illuminate implements Visualizer.
func (s *ScanVisualizer) Illuminate(f *fur.Fur, t time.Duration, _ Events) error {
	n := f.Len()
	if n == 0 {
		return ErrEmptyFur
	}

	if t-s.lastChange >= s.Interval {
		s.litHair = (s.litHair + 1) % n
		s.lastChange = t
	}

	for i := range f.Hairs {
		if i == s.litHair {
			f.Hairs[i].SetGrey(1)
		} else {
			f.Hairs[i].SetGrey(-1)
		}
	}
	return nil
}

// Reposition restarts the scan from the first hair.
func (s *ScanVisualizer) Reposition(*fur.Fur) {
	s.litHair = -1
}
