// Package visualizer computes the per-frame color of every hair from
// time and audio events.
package visualizer

import (
	"errors"
	"time"

	"github.com/Faultbox/hallucination/internal/audio"
	"github.com/Faultbox/hallucination/internal/fur"
)

// ErrEmptyFur is returned when asked to light a collection with no hairs.
var ErrEmptyFur = errors.New("fur has no hairs")

// EventSource provides audio events, each reported at most once.
type EventSource interface {
	TakeOnset() (audio.Onset, bool)
	TakeBeat() (audio.Beat, bool)
}

// Events holds what was taken from an EventSource for one frame.
type Events struct {
	Onset    audio.Onset
	HasOnset bool
	Beat     audio.Beat
	HasBeat  bool
}

// Any reports whether an onset or a beat arrived.
func (e Events) Any() bool {
	return e.HasOnset || e.HasBeat
}

// Poll takes the pending events from src. A nil source yields no events.
func Poll(src EventSource) Events {
	var ev Events
	if src == nil {
		return ev
	}
	ev.Onset, ev.HasOnset = src.TakeOnset()
	ev.Beat, ev.HasBeat = src.TakeBeat()
	return ev
}

// Visualizer writes a display value into every hair's Color. Display
// values range over [-1,1]; the renderer shows anything <= 0 as black.
type Visualizer interface {
	// Illuminate updates every hair for time t since start.
	Illuminate(f *fur.Fur, t time.Duration, ev Events) error
	// Reposition resets per-collection state after the hairs were
	// regenerated.
	Reposition(f *fur.Fur)
}
