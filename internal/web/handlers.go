package web

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/emiliopalmerini/billheat/internal/domain"
	"github.com/emiliopalmerini/billheat/internal/heatmap"
	"github.com/emiliopalmerini/billheat/internal/shared/middleware"
	"github.com/emiliopalmerini/billheat/internal/theme"
	"github.com/emiliopalmerini/billheat/internal/web/dom"
	"github.com/emiliopalmerini/billheat/internal/web/templates"
)

// Selectors of the rendered bill page.
const (
	referenceRow  = "#minutes"
	totalValues   = "#total td div.currency span.currency-value"
	recapValues   = "#recap td div.currency span.currency-value"
	sharedRows    = "tr.shared"
	sharedValues  = "td div.currency span.currency-value"
	valueCell     = "td"
	themeIcon     = "#dark_toggle i"
	panelTabs     = "#panel ul li"
	panelsBox     = "#panels"
	panelQueryKey = "panel"
)

var heatRows = []string{"#minutes", "#messages", "#data"}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	latest, err := s.bills.Latest(ctx)
	if err != nil {
		s.metrics.RecordPageRender(ctx, "index", time.Since(start), err)
		s.httpError(w, r, err)
		return
	}
	if latest != nil {
		http.Redirect(w, r, "/bills/"+domain.FormatMonth(latest.Month), http.StatusFound)
		return
	}

	err = s.renderBill(w, r, templates.BillPage{}, "")
	s.metrics.RecordPageRender(ctx, "index", time.Since(start), err)
	if err != nil {
		s.httpError(w, r, err)
	}
}

func (s *Server) handleBill(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	page, panel, err := s.loadBill(r)
	if err == nil {
		err = s.renderBill(w, r, page, panel)
	}
	s.metrics.RecordPageRender(ctx, "bill", time.Since(start), err)
	if err != nil {
		s.httpError(w, r, err)
	}
}

func (s *Server) loadBill(r *http.Request) (templates.BillPage, string, error) {
	ctx := r.Context()

	month, err := domain.ParseMonth(chi.URLParam(r, "month"))
	if err != nil {
		return templates.BillPage{}, "", fmt.Errorf("%w: %v", heatmap.ErrInvalidArgument, err)
	}

	panel := r.URL.Query().Get(panelQueryKey)
	if panel == "" {
		panel = templates.Panels[0].ID
	}
	if !validPanel(panel) {
		return templates.BillPage{}, "", fmt.Errorf("%w: unknown panel %q", heatmap.ErrInvalidArgument, panel)
	}

	current, err := s.bills.Get(ctx, month)
	if err != nil {
		return templates.BillPage{}, "", err
	}
	if current == nil {
		return templates.BillPage{}, "", fmt.Errorf("%w: no bill for %s", heatmap.ErrNotFound, domain.FormatMonth(month))
	}

	previous, err := s.bills.Get(ctx, month.AddDate(0, -1, 0))
	if err != nil {
		return templates.BillPage{}, "", err
	}

	months, err := s.bills.ListMonths(ctx)
	if err != nil {
		return templates.BillPage{}, "", err
	}

	view := domain.NewBillView(current, previous, s.now())
	return templates.BillPage{View: &view, Months: months}, panel, nil
}

// renderBill renders the page, then colors it and applies the client's theme
// and active panel.
func (s *Server) renderBill(w http.ResponseWriter, r *http.Request, page templates.BillPage, panel string) error {
	ctx := r.Context()

	var buf bytes.Buffer
	if err := templates.Bill(page).Render(ctx, &buf); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}

	doc, err := dom.Parse(&buf)
	if err != nil {
		return fmt.Errorf("failed to parse page: %v", err)
	}

	if err := s.decoratePage(doc, page, panel, s.resolveTheme(r)); err != nil {
		return err
	}

	var out bytes.Buffer
	if err := doc.Render(&out); err != nil {
		return fmt.Errorf("failed to write page: %w", err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = out.WriteTo(w)
	return err
}

// decoratePage runs the adapter over a page this server rendered. Its
// failures mean the markup and the selectors disagree, so they are reported
// without the adapter's sentinel errors and surface as 500s.
func (s *Server) decoratePage(doc *dom.Document, page templates.BillPage, panel string, mode theme.Mode) error {
	if page.View != nil && len(page.View.Names) > 0 {
		if err := s.decorate(doc, page.View); err != nil {
			return fmt.Errorf("failed to decorate page: %v", err)
		}
	}
	if page.View != nil && panel != "" {
		if err := doc.ActivatePanel(panelTabs, panelsBox, panel); err != nil {
			return fmt.Errorf("failed to activate panel: %v", err)
		}
	}
	if err := doc.ApplyTheme(mode, themeIcon); err != nil {
		return fmt.Errorf("failed to apply theme: %v", err)
	}
	return nil
}

// decorate colors the usage rows and the comparisons. The configured step
// count is a floor: a row with more cells than that widens the gradient.
func (s *Server) decorate(doc *dom.Document, view *domain.BillView) error {
	cells, err := doc.CellCount(referenceRow)
	if err != nil {
		return err
	}
	palette, err := s.palette(max(s.gradient.Steps, cells))
	if err != nil {
		return err
	}

	for _, row := range heatRows {
		if err := doc.ColorRow(row, palette, s.rankMode); err != nil {
			return err
		}
	}
	if err := doc.ColorComparison(totalValues, recapValues, valueCell); err != nil {
		return err
	}
	if len(view.Shared) > 0 {
		if err := doc.ColorShared(sharedRows, sharedValues, valueCell); err != nil {
			return err
		}
	}
	return nil
}

// resolveTheme falls back to the ambient signal when the preference cannot
// be read.
func (s *Server) resolveTheme(r *http.Request) theme.Mode {
	mode, err := s.theme.Resolve(r.Context(), middleware.Client(r), middleware.PrefersDark(r))
	if err != nil {
		s.logger.Warn("Theme preference unavailable", "err", err)
	}
	return mode
}

func validPanel(id string) bool {
	for _, p := range templates.Panels {
		if p.ID == id {
			return true
		}
	}
	return false
}
