package ribbon

import (
	"github.com/chewxy/math32"
)

// Sampling defaults.
const (
	DefaultDensity    = 0.5
	DefaultMinSamples = 64
	MaxSamples        = 1 << 16
)

// SampleOptions controls arc-length resampling.
type SampleOptions struct {
	Density    float32 // samples per world unit
	MinSamples int     // lower bound on the sample count
}

// DefaultSampleOptions returns the default resampling settings.
func DefaultSampleOptions() SampleOptions {
	return SampleOptions{
		Density:    DefaultDensity,
		MinSamples: DefaultMinSamples,
	}
}

// Sample resamples a rounded path at approximately uniform arc-length steps.
//
// The step count is max(MinSamples, length*Density). Steps are distributed
// per piece so piece boundaries, and with them sharp corners, land exactly
// on a sample. The result always holds at least two points.
func Sample(rp *RoundedPath, opts SampleOptions) []SamplePoint {
	if len(rp.Pieces) == 0 {
		return []SamplePoint{{}, {}}
	}
	start := rp.Pieces[0].From
	total := rp.Length()
	if total <= 0 {
		return []SamplePoint{{Position: start}, {Position: start}}
	}

	minSamples := max(opts.MinSamples, 2)
	// Clamp before converting: huge lengths overflow int.
	want := min(math32.Ceil(total*max(opts.Density, 0)), MaxSamples-1)
	steps := min(max(minSamples-1, int(want)), MaxSamples-1)
	step := total / float32(steps)

	samples := make([]SamplePoint, 1, steps+len(rp.Pieces)+1)
	samples[0] = SamplePoint{Position: start}
	for i := range rp.Pieces {
		p := &rp.Pieces[i]
		if p.Length <= 0 {
			continue
		}
		k := max(1, int(math32.Round(p.Length/step)))
		for j := 1; j <= k; j++ {
			pos := p.At(p.Length * float32(j) / float32(k))
			prev := samples[len(samples)-1]
			samples = append(samples, SamplePoint{
				Position: pos,
				Distance: prev.Distance + pos.Distance(prev.Position),
			})
		}
	}

	if len(samples) < 2 {
		samples = append(samples, samples[0])
	}
	return samples
}
