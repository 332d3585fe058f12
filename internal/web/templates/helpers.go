package templates

import (
	"time"

	"github.com/a-h/templ"
	"github.com/shopspring/decimal"

	"github.com/emiliopalmerini/billheat/internal/domain"
)

func monthURL(m time.Time) templ.SafeURL {
	return templ.SafeURL("/bills/" + domain.FormatMonth(m))
}

func monthTitle(m time.Time) string {
	return m.Format("January 2006")
}

func formatMoney(v decimal.Decimal) string {
	return v.StringFixed(2)
}

func formatValue(f domain.Field, v decimal.Decimal) string {
	if f.Currency {
		return formatMoney(v)
	}
	return v.String()
}

func pageTitle(page BillPage) string {
	if page.View == nil {
		return "No bills"
	}
	return monthTitle(page.View.Month)
}

// currencyClasses are the classes of a currency cell: "currency" plus the
// sign marker when there is one.
func currencyClasses(v decimal.Decimal) []string {
	classes := []string{"currency"}
	if c := domain.CurrencyClass(v); c != "" {
		classes = append(classes, c)
	}
	return classes
}

// summaryRows is the summary section followed by the recap against the
// previous month.
func summaryRows(v domain.BillView) []domain.Row {
	return append(v.Section(domain.SectionSummary), v.Section(domain.SectionRecap)...)
}
