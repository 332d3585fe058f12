package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/emiliopalmerini/billheat/internal/domain"
	"github.com/emiliopalmerini/billheat/internal/heatmap"
	"github.com/emiliopalmerini/billheat/internal/shared/middleware"
	"github.com/emiliopalmerini/billheat/internal/theme"
	"github.com/emiliopalmerini/billheat/internal/web/dom"
	"github.com/emiliopalmerini/billheat/internal/web/templates"
)

func do(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func withClient(req *http.Request, id string) *http.Request {
	req.AddCookie(&http.Cookie{Name: middleware.ClientCookie, Value: id})
	return req
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	if err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return doc
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, newFakeBills(), newFakePrefs())

	rec := do(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("GET /health = %d %q", rec.Code, rec.Body.String())
	}
}

func TestIndex_RedirectsToLatest(t *testing.T) {
	s := newTestServer(t, newFakeBills(bill(t, "2024-02", "10"), bill(t, "2024-03", "12")), newFakePrefs())

	rec := do(s, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/bills/2024-03" {
		t.Errorf("Location = %q, want /bills/2024-03", loc)
	}
}

func TestIndex_EmptyState(t *testing.T) {
	s := newTestServer(t, newFakeBills(), newFakePrefs())

	rec := do(s, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No bills imported yet") {
		t.Error("empty state missing")
	}
}

func TestBill_ColorsRows(t *testing.T) {
	s := newTestServer(t, newFakeBills(
		bill(t, "2024-02", "40", "25", "10"),
		bill(t, "2024-03", "50", "20", "10"),
	), newFakePrefs())

	rec := do(s, httptest.NewRequest(http.MethodGet, "/bills/2024-03", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	doc := parseBody(t, rec)

	// 3 cells -> 3 steps -> 4 colors; minutes are 300, 200, 100.
	palette, _ := heatmap.Gradient(3, heatmap.Red, heatmap.Yellow, heatmap.Green)
	wantMinutes := []string{palette[2], palette[1], palette[0]}
	doc.Find("#minutes td").Each(func(i int, td *goquery.Selection) {
		style, _ := td.Attr("style")
		if !strings.Contains(style, wantMinutes[i]) {
			t.Errorf("minutes cell %d style = %q, want %s", i, style, wantMinutes[i])
		}
	})

	wantTotals := []string{heatmap.IncreaseColor(), heatmap.DecreaseColor(), ""}
	doc.Find("#total td").Each(func(i int, td *goquery.Selection) {
		style, _ := td.Attr("style")
		if wantTotals[i] == "" {
			if style != "" {
				t.Errorf("unchanged total %d has style %q", i, style)
			}
			return
		}
		if !strings.Contains(style, wantTotals[i]) {
			t.Errorf("total cell %d style = %q, want %s", i, style, wantTotals[i])
		}
	})

	// Taxes: 50 this month against 40 last month.
	style, _ := doc.Find("tr.shared td").First().Attr("style")
	if !strings.Contains(style, heatmap.IncreaseColor()) {
		t.Errorf("shared charge style = %q, want increase", style)
	}
}

func TestBill_ConfiguredStepsAreAFloor(t *testing.T) {
	s := newTestServer(t, newFakeBills(bill(t, "2024-03", "50", "20", "10")), newFakePrefs())
	s.gradient.Steps = 1

	rec := do(s, httptest.NewRequest(http.MethodGet, "/bills/2024-03", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	palette, _ := heatmap.Gradient(3, heatmap.Red, heatmap.Yellow, heatmap.Green)
	style, _ := parseBody(t, rec).Find("#minutes td").First().Attr("style")
	if !strings.Contains(style, palette[2]) {
		t.Errorf("minutes cell style = %q, want %s", style, palette[2])
	}
}

func TestBill_WiderConfiguredSteps(t *testing.T) {
	s := newTestServer(t, newFakeBills(bill(t, "2024-03", "50", "20", "10")), newFakePrefs())
	s.gradient.Steps = 8

	rec := do(s, httptest.NewRequest(http.MethodGet, "/bills/2024-03", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	palette, _ := heatmap.Gradient(8, heatmap.Red, heatmap.Yellow, heatmap.Green)
	style, _ := parseBody(t, rec).Find("#minutes td").First().Attr("style")
	if !strings.Contains(style, palette[2]) {
		t.Errorf("minutes cell style = %q, want %s", style, palette[2])
	}
}

func TestDecoratePage_MarkupMismatchIsInternal(t *testing.T) {
	s := newTestServer(t, newFakeBills(), newFakePrefs())
	b := bill(t, "2024-03", "50")
	view := domain.NewBillView(b, nil, s.now())

	doc, err := dom.Parse(strings.NewReader(`<html><body><table id="other"></table></body></html>`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	err = s.decoratePage(doc, templates.BillPage{View: &view}, "charges", theme.Light)
	if err == nil {
		t.Fatal("decoratePage() error = nil, want error")
	}
	if errors.Is(err, heatmap.ErrNotFound) || errors.Is(err, heatmap.ErrInvalidArgument) {
		t.Errorf("decoratePage() error = %v, want an internal error", err)
	}

	rec := httptest.NewRecorder()
	s.httpError(rec, httptest.NewRequest(http.MethodGet, "/bills/2024-03", nil), err)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestBill_Panel(t *testing.T) {
	s := newTestServer(t, newFakeBills(bill(t, "2024-03", "50")), newFakePrefs())

	rec := do(s, httptest.NewRequest(http.MethodGet, "/bills/2024-03?panel=usage", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	doc := parseBody(t, rec)

	if !doc.Find(`#panel li[data-target="usage"]`).HasClass("is-active") {
		t.Error("usage tab not active")
	}
	if style, _ := doc.Find("#charges").Attr("style"); !strings.Contains(style, "display: none") {
		t.Errorf("charges panel style = %q, want hidden", style)
	}
	if _, ok := doc.Find("#usage").Attr("style"); ok {
		t.Error("usage panel hidden")
	}
}

func TestBill_Errors(t *testing.T) {
	bills := newFakeBills(bill(t, "2024-03", "50"))
	s := newTestServer(t, bills, newFakePrefs())

	tests := []struct {
		path string
		want int
	}{
		{"/bills/2024-13", http.StatusBadRequest},
		{"/bills/march", http.StatusBadRequest},
		{"/bills/2024-03?panel=nope", http.StatusBadRequest},
		{"/bills/2023-01", http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := do(s, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.want)
		}
	}

	bills.err = errStorage
	rec := do(s, httptest.NewRequest(http.MethodGet, "/bills/2024-03", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("storage failure = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), errStorage.Error()) {
		t.Error("internal error leaked to the client")
	}
}

func TestBill_Theme(t *testing.T) {
	client := uuid.NewString()
	prefs := newFakePrefs()
	prefs.values[client+"/dark_mode"] = &domain.Preference{ClientID: client, Key: "dark_mode", Value: "true"}
	s := newTestServer(t, newFakeBills(bill(t, "2024-03", "50")), prefs)

	rec := do(s, withClient(httptest.NewRequest(http.MethodGet, "/bills/2024-03", nil), client))
	doc := parseBody(t, rec)

	if attr, _ := doc.Find("html").Attr("data-theme"); attr != "dark" {
		t.Errorf("data-theme = %q, want dark", attr)
	}
	if !doc.Find("#dark_toggle i").HasClass("fa-sun") {
		t.Error("toggle icon is not fa-sun")
	}
}

func TestBill_AmbientTheme(t *testing.T) {
	s := newTestServer(t, newFakeBills(bill(t, "2024-03", "50")), newFakePrefs())

	req := httptest.NewRequest(http.MethodGet, "/bills/2024-03", nil)
	req.Header.Set(middleware.ColorSchemeHeader, "dark")
	doc := parseBody(t, do(s, req))

	if attr, _ := doc.Find("html").Attr("data-theme"); attr != "dark" {
		t.Errorf("data-theme = %q, want dark", attr)
	}
}

func TestBill_ThemeStorageFailureFallsBack(t *testing.T) {
	prefs := newFakePrefs()
	prefs.err = errStorage
	s := newTestServer(t, newFakeBills(bill(t, "2024-03", "50")), prefs)

	rec := do(s, httptest.NewRequest(http.MethodGet, "/bills/2024-03", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if attr, _ := parseBody(t, rec).Find("html").Attr("data-theme"); attr != "" {
		t.Errorf("data-theme = %q, want light", attr)
	}
}

func TestAPITheme(t *testing.T) {
	s := newTestServer(t, newFakeBills(), newFakePrefs())

	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/theme", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got themeResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	want := themeResponse{Dark: false, Attribute: "", Icon: "fa-moon"}
	if got != want {
		t.Errorf("GET /api/theme = %+v, want %+v", got, want)
	}
}

func TestAPIToggleTheme(t *testing.T) {
	client := uuid.NewString()
	prefs := newFakePrefs()
	s := newTestServer(t, newFakeBills(), prefs)

	req := withClient(httptest.NewRequest(http.MethodPost, "/api/theme/toggle", nil), client)
	req.Header.Set("HX-Request", "true")
	rec := do(s, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("HX-Refresh") != "true" {
		t.Error("HX-Refresh header missing")
	}
	var got themeResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if !got.Dark || got.Icon != "fa-sun" || got.Attribute != "dark" {
		t.Errorf("toggle response = %+v, want dark", got)
	}
	if p := prefs.values[client+"/dark_mode"]; p == nil || p.Value != "true" {
		t.Errorf("stored preference = %+v, want true", p)
	}

	req = withClient(httptest.NewRequest(http.MethodPost, "/api/theme/toggle", nil), client)
	req.Header.Set("Referer", "/bills/2024-03?panel=usage")
	rec = do(s, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/bills/2024-03?panel=usage" {
		t.Errorf("Location = %q", loc)
	}
	if p := prefs.values[client+"/dark_mode"]; p.Value != "false" {
		t.Errorf("stored preference = %q, want false", p.Value)
	}
}

func TestAPIToggleTheme_Redirect(t *testing.T) {
	s := newTestServer(t, newFakeBills(), newFakePrefs())

	tests := []struct {
		referer string
		want    string
	}{
		{"", "/"},
		{"/bills/2024-03", "/bills/2024-03"},
		{"http://example.com/bills/2024-03?panel=usage", "/bills/2024-03?panel=usage"},
		{"https://evil.test/phish", "/"},
		{"//evil.test/phish", "/"},
		{"javascript:alert(1)", "/"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/api/theme/toggle", nil)
		if tt.referer != "" {
			req.Header.Set("Referer", tt.referer)
		}
		rec := do(s, req)

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want 303", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != tt.want {
			t.Errorf("Referer %q: Location = %q, want %q", tt.referer, loc, tt.want)
		}
	}
}

func TestAPIToggleTheme_StorageFailure(t *testing.T) {
	prefs := newFakePrefs()
	prefs.err = errStorage
	s := newTestServer(t, newFakeBills(), prefs)

	rec := do(s, httptest.NewRequest(http.MethodPost, "/api/theme/toggle", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestAPIPalette(t *testing.T) {
	s := newTestServer(t, newFakeBills(), newFakePrefs())

	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/palette?steps=4", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got paletteResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	want := []string{"rgb(255,63,63)", "rgb(254,107,72)", "rgb(252,239,100)", "rgb(118,229,116)", "rgb(74,226,122)"}
	if got.Steps != 4 || len(got.Colors) != len(want) {
		t.Fatalf("palette = %+v", got)
	}
	for i := range want {
		if got.Colors[i] != want[i] {
			t.Errorf("colors[%d] = %s, want %s", i, got.Colors[i], want[i])
		}
	}
}

func TestAPIPalette_BadRequests(t *testing.T) {
	s := newTestServer(t, newFakeBills(), newFakePrefs())

	for _, path := range []string{
		"/api/palette",
		"/api/palette?steps=abc",
		"/api/palette?steps=-1",
		"/api/palette?steps=100000",
	} {
		rec := do(s, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("GET %s = %d, want 400", path, rec.Code)
		}
	}
}

func TestStatic(t *testing.T) {
	s := newTestServer(t, newFakeBills(), newFakePrefs())

	rec := do(s, httptest.NewRequest(http.MethodGet, "/static/billheat.css", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET /static/billheat.css = %d, want 200", rec.Code)
	}
}
