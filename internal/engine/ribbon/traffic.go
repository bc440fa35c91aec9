package ribbon

// TrafficSegment colors the progress range [Start, End] of a path.
// Segments are expected to partition [0, 1]; this is not enforced.
type TrafficSegment struct {
	Start float32
	End   float32
	Color Color
}

// ColorAt returns the color for progress p in [0, 1].
// The first segment containing p wins; otherwise the last segment's color is
// used, and DefaultColor when there are no segments.
func ColorAt(segments []TrafficSegment, p float32) Color {
	for _, s := range segments {
		if s.Start <= p && p <= s.End {
			return s.Color
		}
	}
	if len(segments) > 0 {
		return segments[len(segments)-1].Color
	}
	return DefaultColor
}
