package heatmap

import (
	"errors"
	"slices"
	"testing"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name      string
		current   float64
		previous  float64
		wantColor string
		wantOK    bool
	}{
		{"increase", 5, 3, IncreaseColor(), true},
		{"decrease", 3, 5, DecreaseColor(), true},
		{"equal", 4, 4, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Compare(tt.current, tt.previous)
			if got != tt.wantColor || ok != tt.wantOK {
				t.Errorf("Compare(%v, %v) = (%q, %v), want (%q, %v)",
					tt.current, tt.previous, got, ok, tt.wantColor, tt.wantOK)
			}
		})
	}
}

func TestCompareColumns(t *testing.T) {
	got, err := CompareColumns([]float64{10, 20, 30}, []float64{5, 20, 40})
	if err != nil {
		t.Fatalf("CompareColumns failed: %v", err)
	}
	want := []Change{Increase, Unchanged, Decrease}
	if !slices.Equal(got, want) {
		t.Errorf("CompareColumns = %v, want %v", got, want)
	}

	if _, err := CompareColumns([]float64{1}, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for mismatched rows, got %v", err)
	}
}

func TestComparePairs(t *testing.T) {
	got, err := ComparePairs([]float64{12.5, 10, 8, 8, 1, 2})
	if err != nil {
		t.Fatalf("ComparePairs failed: %v", err)
	}
	want := []Change{Increase, Unchanged, Decrease}
	if !slices.Equal(got, want) {
		t.Errorf("ComparePairs = %v, want %v", got, want)
	}

	if _, err := ComparePairs([]float64{1, 2, 3}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for odd row, got %v", err)
	}
}

func TestChangeString(t *testing.T) {
	if Increase.String() != "increase" || Decrease.String() != "decrease" || Unchanged.String() != "unchanged" {
		t.Error("unexpected Change names")
	}
}
