package heatmap

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
)

// RankMode selects how tied values are ranked.
type RankMode int

const (
	// RankStable gives every element its own position in a stable ascending
	// sort, so ties are ordered by their original index.
	RankStable RankMode = iota
	// RankFirstOccurrence gives every tied value the position of the first
	// occurrence in the sorted row.
	RankFirstOccurrence
)

func (m RankMode) String() string {
	switch m {
	case RankFirstOccurrence:
		return "first"
	default:
		return "stable"
	}
}

// ParseRankMode accepts "stable" (or empty) and "first".
func ParseRankMode(s string) (RankMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "stable":
		return RankStable, nil
	case "first", "first-occurrence":
		return RankFirstOccurrence, nil
	default:
		return RankStable, fmt.Errorf("%w: unknown rank mode %q", ErrInvalidArgument, s)
	}
}

// Ranks returns the 0-based ascending rank of each value.
func Ranks(values []float64, mode RankMode) ([]int, error) {
	for i, v := range values {
		if math.IsNaN(v) {
			return nil, fmt.Errorf("%w: value %d is NaN", ErrInvalidArgument, i)
		}
	}

	ranks := make([]int, len(values))

	if mode == RankFirstOccurrence {
		sorted := slices.Clone(values)
		slices.Sort(sorted)
		for i, v := range values {
			ranks[i] = sort.SearchFloat64s(sorted, v)
		}
		return ranks, nil
	}

	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(values[a], values[b])
	})
	for pos, i := range order {
		ranks[i] = pos
	}
	return ranks, nil
}

// ColorRow maps each value to the palette entry at its rank.
func (p Palette) ColorRow(values []float64, mode RankMode) ([]string, error) {
	ranks, err := Ranks(values, mode)
	if err != nil {
		return nil, err
	}

	colors := make([]string, len(values))
	for i, r := range ranks {
		c, err := p.At(r)
		if err != nil {
			return nil, fmt.Errorf("coloring value %d: %w", i, err)
		}
		colors[i] = c
	}
	return colors, nil
}
