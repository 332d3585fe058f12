package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Sections of the bill page, in render order.
const (
	SectionCharges = "charges"
	SectionUsage   = "usage"
	SectionSummary = "summary"
	SectionRecap   = "recap"
)

// Field describes one transposed row of the bill table.
type Field struct {
	ID       string
	Title    string
	Section  string
	Currency bool
	value    func(Subscriber) decimal.Decimal
}

// Fields lists the per-subscriber rows. The row ids are the selectors the
// page coloring relies on.
var Fields = []Field{
	{ID: "phone", Title: "Phone Cost", Section: SectionCharges, Currency: true, value: func(s Subscriber) decimal.Decimal { return s.Phone }},
	{ID: "line", Title: "Line Cost", Section: SectionCharges, Currency: true, value: func(s Subscriber) decimal.Decimal { return s.Line }},
	{ID: "insurance", Title: "Insurance", Section: SectionCharges, Currency: true, value: func(s Subscriber) decimal.Decimal { return s.Insurance }},
	{ID: "usage", Title: "Usage Charges", Section: SectionCharges, Currency: true, value: func(s Subscriber) decimal.Decimal { return s.Usage }},
	{ID: "minutes", Title: "Minutes (min)", Section: SectionUsage, value: func(s Subscriber) decimal.Decimal { return decimal.NewFromInt(s.Minutes) }},
	{ID: "messages", Title: "Messages (#)", Section: SectionUsage, value: func(s Subscriber) decimal.Decimal { return decimal.NewFromInt(s.Messages) }},
	{ID: "data", Title: "Data (GB)", Section: SectionUsage, value: func(s Subscriber) decimal.Decimal { return s.Data }},
	{ID: "total", Title: "Total Charges", Section: SectionSummary, Currency: true, value: func(s Subscriber) decimal.Decimal { return s.Total }},
}

// RecapField is the previous month's total, aligned with the current subscribers.
var RecapField = Field{ID: "recap", Title: "(Last Month)", Section: SectionRecap, Currency: true}

// Row is a Field with one value per subscriber.
type Row struct {
	Field
	Values []decimal.Decimal
}

// SharedCharge pairs an account charge with the same charge last month.
type SharedCharge struct {
	Name     string
	Present  decimal.Decimal
	Previous decimal.Decimal
}

// BillView is the render model of a bill page.
type BillView struct {
	Month    time.Time
	Previous time.Time
	Next     *time.Time
	Names    []string
	Rows     []Row
	Shared   []SharedCharge
	Total    decimal.Decimal
}

// NewBillView transposes current into per-field rows and pairs it with
// previous, which may be nil.
func NewBillView(current, previous *Bill, now time.Time) BillView {
	month := MonthStart(current.Month)
	view := BillView{
		Month:    month,
		Previous: month.AddDate(0, -1, 0),
		Total:    current.Total(),
	}

	if next := month.AddDate(0, 1, 0); !next.After(now.UTC()) {
		view.Next = &next
	}

	for _, s := range current.Subscribers {
		view.Names = append(view.Names, s.FirstName())
	}

	for _, f := range Fields {
		row := Row{Field: f, Values: make([]decimal.Decimal, len(current.Subscribers))}
		for i, s := range current.Subscribers {
			row.Values[i] = f.value(s)
		}
		view.Rows = append(view.Rows, row)
	}

	recap := Row{Field: RecapField, Values: make([]decimal.Decimal, len(current.Subscribers))}
	for i, s := range current.Subscribers {
		recap.Values[i] = decimal.Zero
		if previous == nil {
			continue
		}
		if prev, ok := previous.SubscriberByNumber(s.Number); ok {
			recap.Values[i] = prev.Total
		}
	}
	view.Rows = append(view.Rows, recap)

	charges := make([]Charge, len(current.Charges))
	copy(charges, current.Charges)
	sort.SliceStable(charges, func(i, j int) bool { return charges[i].Name < charges[j].Name })
	for _, c := range charges {
		shared := SharedCharge{Name: c.Name, Present: c.Total, Previous: decimal.Zero}
		if previous != nil {
			shared.Previous = previous.ChargeTotal(c.Name)
		}
		view.Shared = append(view.Shared, shared)
	}

	return view
}

// Section returns the rows of one section in order.
func (v BillView) Section(section string) []Row {
	var rows []Row
	for _, r := range v.Rows {
		if r.Section == section {
			rows = append(rows, r)
		}
	}
	return rows
}

// CurrencyClass marks negative and zero amounts for styling.
func CurrencyClass(v decimal.Decimal) string {
	switch {
	case v.IsNegative():
		return "is-currency-negative"
	case v.IsZero():
		return "is-currency-zero"
	default:
		return ""
	}
}
