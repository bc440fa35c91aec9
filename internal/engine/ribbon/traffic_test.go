package ribbon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	green = Color{0, 1, 0, 1}
	red   = Color{1, 0, 0, 1}
	amber = Color{1, 0.75, 0, 1}
)

func TestColorAt(t *testing.T) {
	segments := []TrafficSegment{
		{Start: 0, End: 0.5, Color: green},
		{Start: 0.5, End: 1.0, Color: red},
	}

	tests := []struct {
		name string
		p    float32
		want Color
	}{
		{"start", 0, green},
		{"inside first", 0.25, green},
		{"shared boundary goes to first match", 0.5, green},
		{"inside second", 0.75, red},
		{"end", 1, red},
		{"past the end falls back to last", 1.5, red},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ColorAt(segments, tt.p))
		})
	}
}

func TestColorAtGap(t *testing.T) {
	segments := []TrafficSegment{
		{Start: 0, End: 0.2, Color: green},
		{Start: 0.6, End: 0.8, Color: amber},
	}

	assert.Equal(t, amber, ColorAt(segments, 0.4))
}

func TestColorAtDefault(t *testing.T) {
	assert.Equal(t, DefaultColor, ColorAt(nil, 0.3))
}
