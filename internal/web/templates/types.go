package templates

import (
	"time"

	"github.com/emiliopalmerini/billheat/internal/domain"
)

// Panel is one tab of the bill page.
type Panel struct {
	ID    string
	Title string
}

// Panels are the tabs in display order. The first one is active by default.
var Panels = []Panel{
	{ID: domain.SectionCharges, Title: "Charges"},
	{ID: domain.SectionUsage, Title: "Usage"},
	{ID: domain.SectionSummary, Title: "Summary"},
}

// BillPage is the data of the bill page. View is nil when no bill has been
// imported yet.
type BillPage struct {
	View   *domain.BillView
	Months []time.Time
}
