package domain

import (
	"testing"
	"time"
)

func sampleBills() (*Bill, *Bill) {
	current := &Bill{
		Month: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Subscribers: []Subscriber{
			{Name: "Ann Smith", Number: "555-000-0001", Phone: d("20"), Minutes: 120, Messages: 40, Data: d("2.5"), Total: d("55")},
			{Name: "Bob Jones", Number: "555-000-0002", Phone: d("0"), Minutes: 30, Messages: 400, Data: d("10.1"), Total: d("35")},
		},
		Charges: []Charge{
			{Name: "Taxes", Total: d("12")},
			{Name: "Fees", Total: d("3")},
		},
	}
	previous := &Bill{
		Month: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Subscribers: []Subscriber{
			{Name: "Ann Smith", Number: "5550000001", Total: d("50")},
		},
		Charges: []Charge{
			{Name: "Taxes", Total: d("11")},
		},
	}
	return current, previous
}

func TestNewBillView(t *testing.T) {
	current, previous := sampleBills()
	view := NewBillView(current, previous, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))

	if len(view.Names) != 2 || view.Names[0] != "Ann" || view.Names[1] != "Bob" {
		t.Errorf("Names = %v", view.Names)
	}
	if !view.Previous.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Previous = %v", view.Previous)
	}
	if view.Next == nil || !view.Next.Equal(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Next = %v", view.Next)
	}
	if !view.Total.Equal(d("90")) {
		t.Errorf("Total = %s", view.Total)
	}

	usage := view.Section(SectionUsage)
	if len(usage) != 3 || usage[0].ID != "minutes" || !usage[0].Values[1].Equal(d("30")) {
		t.Errorf("usage rows = %+v", usage)
	}

	recap := view.Section(SectionRecap)
	if len(recap) != 1 {
		t.Fatalf("expected one recap row, got %d", len(recap))
	}
	if !recap[0].Values[0].Equal(d("50")) || !recap[0].Values[1].IsZero() {
		t.Errorf("recap = %v", recap[0].Values)
	}

	if len(view.Shared) != 2 {
		t.Fatalf("expected 2 shared charges, got %d", len(view.Shared))
	}
	if view.Shared[0].Name != "Fees" || !view.Shared[0].Previous.IsZero() {
		t.Errorf("Shared[0] = %+v", view.Shared[0])
	}
	if view.Shared[1].Name != "Taxes" || !view.Shared[1].Previous.Equal(d("11")) {
		t.Errorf("Shared[1] = %+v", view.Shared[1])
	}
}

func TestNewBillViewWithoutPrevious(t *testing.T) {
	current, _ := sampleBills()
	view := NewBillView(current, nil, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))

	if view.Next != nil {
		t.Errorf("expected no next month link, got %v", view.Next)
	}
	for _, v := range view.Section(SectionRecap)[0].Values {
		if !v.IsZero() {
			t.Errorf("expected zero recap without previous bill, got %s", v)
		}
	}
	for _, s := range view.Shared {
		if !s.Previous.IsZero() {
			t.Errorf("expected zero previous charge, got %+v", s)
		}
	}
}

func TestCurrencyClass(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"-1.50", "is-currency-negative"},
		{"0", "is-currency-zero"},
		{"0.00", "is-currency-zero"},
		{"12.00", ""},
	}
	for _, tt := range tests {
		if got := CurrencyClass(d(tt.in)); got != tt.want {
			t.Errorf("CurrencyClass(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
