package visualizer

import (
	"math"
	"time"

	"github.com/Faultbox/hallucination/internal/fur"
)

// WaveVisualizer pulses each hair on sin(frequency*t + phase). The result
// depends only on t, so redrawing a frame is idempotent.
type WaveVisualizer struct{}

// Illuminate implements Visualizer.
func (WaveVisualizer) Illuminate(f *fur.Fur, t time.Duration, _ Events) error {
	if f.Len() == 0 {
		return ErrEmptyFur
	}
	secs := t.Seconds()
	for i := range f.Hairs {
		h := &f.Hairs[i]
		h.SetGrey(float32(math.Sin(float64(h.Frequency)*secs + float64(h.Phase))))
	}
	return nil
}

// Reposition implements Visualizer.
func (WaveVisualizer) Reposition(*fur.Fur) {}
