package heatmap

import (
	"fmt"
	"math"
)

// Palette is an ordered sequence of CSS color strings indexed by rank.
type Palette []string

// Gradient builds a two-segment linear gradient of steps+1 colors: start to
// middle for the lower half, middle to stop for the upper half. The
// interpolation fraction is step/steps in both halves and the exact midpoint
// is middle itself.
func Gradient(steps int, start, middle, stop Color) (Palette, error) {
	if steps < 0 {
		return nil, fmt.Errorf("%w: gradient steps must be >= 0, got %d", ErrInvalidArgument, steps)
	}
	if steps == 0 {
		return Palette{middle.String()}, nil
	}

	palette := make(Palette, 0, steps+1)
	threshold := float64(steps) / 2

	for step := 0; step <= steps; step++ {
		fraction := float64(step) / float64(steps)

		var from, to Color
		switch s := float64(step); {
		case s < threshold:
			from, to = start, middle
		case s > threshold:
			from, to = middle, stop
		default:
			from, to = middle, middle
		}

		palette = append(palette, RGB(
			lerp(from.Red, to.Red, fraction),
			lerp(from.Green, to.Green, fraction),
			lerp(from.Blue, to.Blue, fraction),
		).String())
	}

	return palette, nil
}

func lerp(from, to int, fraction float64) int {
	return int(math.Floor(float64(from) + float64(to-from)*fraction))
}

// Steps returns the step count the palette was built with.
func (p Palette) Steps() int {
	return len(p) - 1
}

// At returns the color for rank i.
func (p Palette) At(i int) (string, error) {
	if i < 0 || i >= len(p) {
		return "", fmt.Errorf("%w: rank %d outside palette of %d colors", ErrInvalidArgument, i, len(p))
	}
	return p[i], nil
}
