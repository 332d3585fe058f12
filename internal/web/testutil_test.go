package web

import (
	"context"
	"errors"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/emiliopalmerini/billheat/internal/adapters/otel"
	"github.com/emiliopalmerini/billheat/internal/domain"
	"github.com/emiliopalmerini/billheat/internal/infrastructure/config"
)

type fakeBills struct {
	bills map[string]*domain.Bill
	err   error
}

func newFakeBills(bills ...*domain.Bill) *fakeBills {
	f := &fakeBills{bills: map[string]*domain.Bill{}}
	for _, b := range bills {
		f.bills[domain.FormatMonth(b.Month)] = b
	}
	return f
}

func (f *fakeBills) Save(ctx context.Context, bill *domain.Bill) error {
	if f.err != nil {
		return f.err
	}
	f.bills[domain.FormatMonth(bill.Month)] = bill
	return nil
}

func (f *fakeBills) Get(ctx context.Context, month time.Time) (*domain.Bill, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.bills[domain.FormatMonth(month)], nil
}

func (f *fakeBills) Latest(ctx context.Context) (*domain.Bill, error) {
	if f.err != nil {
		return nil, f.err
	}
	months, _ := f.ListMonths(ctx)
	if len(months) == 0 {
		return nil, nil
	}
	return f.bills[domain.FormatMonth(months[0])], nil
}

func (f *fakeBills) ListMonths(ctx context.Context) ([]time.Time, error) {
	if f.err != nil {
		return nil, f.err
	}
	var months []time.Time
	for _, b := range f.bills {
		months = append(months, b.Month)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].After(months[j]) })
	return months, nil
}

func (f *fakeBills) Delete(ctx context.Context, month time.Time) error {
	delete(f.bills, domain.FormatMonth(month))
	return nil
}

type fakePrefs struct {
	values map[string]*domain.Preference
	err    error
}

func newFakePrefs() *fakePrefs {
	return &fakePrefs{values: map[string]*domain.Preference{}}
}

func (f *fakePrefs) Get(ctx context.Context, clientID, key string) (*domain.Preference, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.values[clientID+"/"+key], nil
}

func (f *fakePrefs) Set(ctx context.Context, pref *domain.Preference) error {
	if f.err != nil {
		return f.err
	}
	f.values[pref.ClientID+"/"+pref.Key] = pref
	return nil
}

func (f *fakePrefs) Delete(ctx context.Context, clientID, key string) error {
	delete(f.values, clientID+"/"+key)
	return nil
}

var errStorage = errors.New("storage down")

func testConfig() *config.Server {
	return &config.Server{
		Port:     8080,
		LogLevel: "info",
		Gradient: config.Gradient{
			Start:    "#FF3F3F",
			Middle:   "#FCEF64",
			Stop:     "#4AE27A",
			RankMode: "stable",
		},
	}
}

func newTestServer(t *testing.T, bills *fakeBills, prefs *fakePrefs) *Server {
	t.Helper()
	s, err := NewServer(testConfig(), log.New(io.Discard), bills, prefs, otel.NewNoOpExporter())
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	s.now = func() time.Time { return time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC) }
	return s
}

func bill(t *testing.T, month string, totals ...string) *domain.Bill {
	t.Helper()
	m, err := domain.ParseMonth(month)
	if err != nil {
		t.Fatalf("ParseMonth() error = %v", err)
	}
	names := []string{"Ada Lovelace", "Alan Turing", "Grace Hopper"}
	b := &domain.Bill{
		Month:   m,
		Charges: []domain.Charge{{Name: "Taxes", Total: decimal.RequireFromString(totals[0]), Split: true}},
	}
	for i, total := range totals {
		b.Subscribers = append(b.Subscribers, domain.Subscriber{
			Name:     names[i],
			Number:   "555-010" + string(rune('0'+i)),
			Minutes:  int64(100 * (3 - i)),
			Messages: int64(10 * (i + 1)),
			Data:     decimal.NewFromInt(int64(i + 1)),
			Total:    decimal.RequireFromString(total),
		})
	}
	return b
}
