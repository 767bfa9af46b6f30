package fur

import (
	"github.com/Faultbox/hallucination/pkg/math"
)

// Fur is a collection of hairs.
type Fur struct {
	Hairs []Hair

	sampler *Sampler
	stats   Stats
}

// New creates an empty collection that places hairs with sampler.
func New(sampler *Sampler) *Fur {
	if sampler == nil {
		sampler = NewSampler(nil, DefaultOptions())
	}
	return &Fur{sampler: sampler}
}

// Len returns the number of hairs.
func (f *Fur) Len() int {
	return len(f.Hairs)
}

// LastStats returns the statistics of the most recent placement run.
func (f *Fur) LastStats() Stats {
	return f.stats
}

// GenerateRandomHairs scatters hairs over surface until the collection
// holds n of them. On ErrPlacementExhausted the hairs placed so far are
// kept.
func (f *Fur) GenerateRandomHairs(surface Surface, n int) error {
	hairs, stats, err := f.sampler.Fill(surface, f.Hairs, n)
	f.Hairs = hairs
	f.stats = stats
	return err
}

// Reposition regenerates the whole collection when its size differs from
// n. It reports whether the hairs were replaced.
func (f *Fur) Reposition(surface Surface, n int) (bool, error) {
	if len(f.Hairs) == n {
		return false, nil
	}
	f.Hairs = nil
	return true, f.GenerateRandomHairs(surface, n)
}

// FindClosestHair returns the distance from p to the nearest hair's top
// center, or +Inf for an empty collection.
func (f *Fur) FindClosestHair(p math.Vec3) float32 {
	return closestHair(f.Hairs, p)
}
