package fur

import (
	"errors"
	"fmt"
	gomath "math"
	"math/rand/v2"
	"time"

	"github.com/Faultbox/hallucination/pkg/math"
)

// DefaultMaxAttempts bounds consecutive rejected placements before giving up.
const DefaultMaxAttempts = 100000

// Wave parameter ranges.
const (
	MaxFrequency = 5.0
	MaxPhase     = gomath.Pi
)

// Sampling errors.
var (
	ErrEmptySurface       = errors.New("surface has no triangles")
	ErrInvalidCount       = errors.New("hair count must not be negative")
	ErrPlacementExhausted = errors.New("no room for more hairs")
)

// Surface is a triangulated mesh hairs can be placed on.
type Surface interface {
	TriangleCount() int
	Triangle(i int) (a, b, c math.Vec3)
}

// Options controls hair placement.
type Options struct {
	Width         float32
	Height        float32
	MinSeparation float32
	MaxAttempts   int
}

// DefaultOptions returns the standard strip size with a separation equal to
// the strip width.
func DefaultOptions() Options {
	return Options{
		Width:         HairWidth,
		Height:        HairHeight,
		MinSeparation: HairWidth,
		MaxAttempts:   DefaultMaxAttempts,
	}
}

// Stats reports the work done by one placement run.
type Stats struct {
	Placed     int
	Attempts   int
	Rejections int
}

// NewRand returns a PCG random source. A zero seed seeds from the clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Sampler places well-separated hairs on a surface by rejection sampling.
type Sampler struct {
	rng  *rand.Rand
	opts Options
}

// NewSampler creates a sampler drawing from rng. A nil rng is seeded from
// the clock.
func NewSampler(rng *rand.Rand, opts Options) *Sampler {
	if rng == nil {
		rng = NewRand(0)
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	return &Sampler{rng: rng, opts: opts}
}

// Options returns the sampler's placement options.
func (s *Sampler) Options() Options {
	return s.opts
}

// Fill appends hairs to hairs until it holds n of them.
//
// Each candidate is drawn as A + r1(B-A) + r2(C-A) on a uniformly chosen
// triangle. This covers the parallelogram spanned by the two edges, so a
// candidate may fall outside its triangle; such points are kept. A candidate
// closer than MinSeparation to an existing hair is rejected. After
// MaxAttempts consecutive rejections Fill returns the hairs placed so far
// with ErrPlacementExhausted.
func (s *Sampler) Fill(surface Surface, hairs []Hair, n int) ([]Hair, Stats, error) {
	var stats Stats
	if n < 0 {
		return hairs, stats, ErrInvalidCount
	}
	total := surface.TriangleCount()
	if total == 0 {
		return hairs, stats, ErrEmptySurface
	}

	misses := 0
	for len(hairs) < n {
		if misses >= s.opts.MaxAttempts {
			return hairs, stats, fmt.Errorf("%w: placed %d of %d after %d consecutive rejections",
				ErrPlacementExhausted, len(hairs), n, misses)
		}
		stats.Attempts++

		a, b, c := surface.Triangle(s.rng.IntN(total))

		r1 := s.rng.Float32()
		r2 := s.rng.Float32()
		topCenter := a.Add(b.Sub(a).Scale(r1)).Add(c.Sub(a).Scale(r2))

		if closestHair(hairs, topCenter) < s.opts.MinSeparation {
			stats.Rejections++
			misses++
			continue
		}
		misses = 0

		// The stored mesh normals are ignored; the face normal is
		// recomputed from the triangle itself.
		normal := b.Sub(a).Cross(c.Sub(a)).Normalize()

		hairs = append(hairs, Hair{
			TopCenter: topCenter,
			Vertices:  buildStrip(topCenter, normal, s.opts.Width, s.opts.Height),
			Frequency: MaxFrequency * s.rng.Float32(),
			Phase:     MaxPhase * s.rng.Float32(),
		})
		stats.Placed++
	}
	return hairs, stats, nil
}

// closestHair returns the distance from p to the nearest hair's top center,
// or +Inf when there are none.
func closestHair(hairs []Hair, p math.Vec3) float32 {
	closest := float32(gomath.Inf(1))
	for i := range hairs {
		if d := p.Distance(hairs[i].TopCenter); d < closest {
			closest = d
		}
	}
	return closest
}
