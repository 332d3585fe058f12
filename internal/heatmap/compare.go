package heatmap

import "fmt"

// Change is the direction of a current-versus-previous comparison.
type Change int

const (
	Unchanged Change = iota
	Increase
	Decrease
)

func (c Change) String() string {
	switch c {
	case Increase:
		return "increase"
	case Decrease:
		return "decrease"
	default:
		return "unchanged"
	}
}

// Color returns the background for the change, or false when the cell
// should have no background at all.
func (c Change) Color() (string, bool) {
	switch c {
	case Increase:
		return IncreaseColor(), true
	case Decrease:
		return DecreaseColor(), true
	default:
		return "", false
	}
}

// Diff classifies current against previous.
func Diff(current, previous float64) Change {
	switch {
	case current > previous:
		return Increase
	case current < previous:
		return Decrease
	default:
		return Unchanged
	}
}

// Compare returns the increase or decrease color, or false when the values
// are equal.
func Compare(current, previous float64) (string, bool) {
	return Diff(current, previous).Color()
}

// CompareColumns compares two rows column by column, e.g. this month's
// totals against last month's.
func CompareColumns(current, previous []float64) ([]Change, error) {
	if len(current) != len(previous) {
		return nil, fmt.Errorf("%w: %d current values but %d previous values",
			ErrInvalidArgument, len(current), len(previous))
	}

	changes := make([]Change, len(current))
	for i := range current {
		changes[i] = Diff(current[i], previous[i])
	}
	return changes, nil
}

// ComparePairs compares consecutive pairs within one row: values[0] against
// values[1], values[2] against values[3], and so on.
func ComparePairs(values []float64) ([]Change, error) {
	if len(values)%2 != 0 {
		return nil, fmt.Errorf("%w: paired row has odd length %d", ErrInvalidArgument, len(values))
	}

	changes := make([]Change, 0, len(values)/2)
	for i := 0; i+1 < len(values); i += 2 {
		changes = append(changes, Diff(values[i], values[i+1]))
	}
	return changes, nil
}
