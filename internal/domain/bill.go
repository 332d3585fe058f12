package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const monthLayout = "2006-01"

// Bill is one monthly statement for the whole account.
type Bill struct {
	ID          string
	Month       time.Time // first day of the month, UTC
	Subscribers []Subscriber
	Charges     []Charge
	CreatedAt   time.Time
}

// Subscriber is one line on the account and its charges for the month.
type Subscriber struct {
	Name      string
	Number    string
	Phone     decimal.Decimal
	Line      decimal.Decimal
	Insurance decimal.Decimal
	Usage     decimal.Decimal
	Minutes   int64
	Messages  int64
	Data      decimal.Decimal // GB
	Total     decimal.Decimal
}

// Charge is an account-level charge, e.g. taxes or a plan discount. Split
// charges are shared evenly between subscribers.
type Charge struct {
	Name  string
	Total decimal.Decimal
	Split bool
}

// Total is the sum of every subscriber's total.
func (b *Bill) Total() decimal.Decimal {
	total := decimal.Zero
	for _, s := range b.Subscribers {
		total = total.Add(s.Total)
	}
	return total
}

// SubscriberByNumber finds a subscriber ignoring dashes in the number.
func (b *Bill) SubscriberByNumber(number string) (*Subscriber, bool) {
	want := NormalizeNumber(number)
	for i := range b.Subscribers {
		if NormalizeNumber(b.Subscribers[i].Number) == want {
			return &b.Subscribers[i], true
		}
	}
	return nil, false
}

// ChargeTotal returns the total of the named charge, or zero.
func (b *Bill) ChargeTotal(name string) decimal.Decimal {
	for _, c := range b.Charges {
		if c.Name == name {
			return c.Total
		}
	}
	return decimal.Zero
}

// SplitCharges is the per-subscriber share of all split charges.
func (b *Bill) SplitCharges() decimal.Decimal {
	if len(b.Subscribers) == 0 {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, c := range b.Charges {
		if c.Split {
			total = total.Add(c.Total)
		}
	}
	return total.Div(decimal.NewFromInt(int64(len(b.Subscribers))))
}

// FillTotals computes the total of every subscriber whose total is zero
// from their own charges plus their share of the split charges.
func (b *Bill) FillTotals() {
	share := b.SplitCharges()
	for i := range b.Subscribers {
		s := &b.Subscribers[i]
		if !s.Total.IsZero() {
			continue
		}
		s.Total = s.Phone.Add(s.Line).Add(s.Insurance).Add(s.Usage).Add(share)
	}
}

// FirstName is the first word of the subscriber name, used as column header.
func (s Subscriber) FirstName() string {
	name, _, _ := strings.Cut(strings.TrimSpace(s.Name), " ")
	return name
}

// NormalizeNumber strips dashes and spaces from a phone number.
func NormalizeNumber(n string) string {
	return strings.NewReplacer("-", "", " ", "").Replace(n)
}

// MonthStart truncates t to the first day of its month in UTC.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ParseMonth parses "YYYY-MM".
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse(monthLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM: %w", s, err)
	}
	return MonthStart(t), nil
}

// FormatMonth renders a month as "YYYY-MM".
func FormatMonth(t time.Time) string {
	return t.UTC().Format(monthLayout)
}
