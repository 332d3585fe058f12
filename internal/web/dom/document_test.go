package dom

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/emiliopalmerini/billheat/internal/heatmap"
	"github.com/emiliopalmerini/billheat/internal/theme"
)

const page = `<!DOCTYPE html>
<html>
<body>
<button id="dark_toggle"><i class="fa fa-moon"></i></button>
<div id="panel"><ul>
  <li class="is-active" data-target="charges">Charges</li>
  <li data-target="usage">Usage</li>
</ul></div>
<div id="panels">
  <div id="charges"><table>
    <tr id="total">
      <td><div class="currency"><span class="currency-symbol">$</span><span class="currency-value">50.00</span></div></td>
      <td><div class="currency"><span class="currency-symbol">$</span><span class="currency-value">20.00</span></div></td>
      <td style="background-color: rgb(1,2,3);"><div class="currency"><span class="currency-symbol">$</span><span class="currency-value">10.00</span></div></td>
    </tr>
    <tr id="recap">
      <td><div class="currency"><span class="currency-symbol">$</span><span class="currency-value">40.00</span></div></td>
      <td><div class="currency"><span class="currency-symbol">$</span><span class="currency-value">25.00</span></div></td>
      <td><div class="currency"><span class="currency-symbol">$</span><span class="currency-value">10.00</span></div></td>
    </tr>
    <tr class="shared">
      <th>Taxes</th>
      <td><div class="currency"><span class="currency-value">6.10</span></div></td>
      <td><div class="currency"><span class="currency-value">5.90</span></div></td>
    </tr>
    <tr class="shared">
      <th>Discount</th>
      <td><div class="currency"><span class="currency-value">-10.00</span></div></td>
      <td><div class="currency"><span class="currency-value">-10.00</span></div></td>
    </tr>
  </table></div>
  <div id="usage" style="display: none;"><table>
    <tr id="minutes"><td><span>30</span></td><td><span>10</span></td><td><span>20</span></td></tr>
    <tr id="messages"><td><span>5</span></td><td><span>1</span></td><td><span>5</span></td></tr>
    <tr id="broken"><td><span>n/a</span></td></tr>
  </table></div>
</div>
</body>
</html>`

const totalValues = "#total td div.currency span.currency-value"
const recapValues = "#recap td div.currency span.currency-value"

func parsePage(t *testing.T) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(page))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return doc
}

func backgrounds(doc *Document, selector string) []string {
	var out []string
	doc.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		v, _ := styleOf(s, backgroundColor)
		out = append(out, v)
	})
	return out
}

func testPalette(t *testing.T, steps int) heatmap.Palette {
	t.Helper()
	p, err := heatmap.Gradient(steps, heatmap.Red, heatmap.Yellow, heatmap.Green)
	if err != nil {
		t.Fatalf("Gradient(%d) error = %v", steps, err)
	}
	return p
}

func assertBackgrounds(t *testing.T, doc *Document, selector string, want []string) {
	t.Helper()
	if got := backgrounds(doc, selector); !slices.Equal(got, want) {
		t.Errorf("%s backgrounds = %v, want %v", selector, got, want)
	}
}

func TestCellCount(t *testing.T) {
	doc := parsePage(t)

	n, err := doc.CellCount("#minutes")
	if err != nil {
		t.Fatalf("CellCount() error = %v", err)
	}
	if n != 3 {
		t.Errorf("CellCount() = %d, want 3", n)
	}

	if _, err := doc.CellCount("#nope"); !errors.Is(err, heatmap.ErrNotFound) {
		t.Errorf("CellCount(#nope) error = %v, want ErrNotFound", err)
	}
}

func TestColorRow(t *testing.T) {
	doc := parsePage(t)
	palette := testPalette(t, 3)

	if err := doc.ColorRow("#minutes", palette, heatmap.RankStable); err != nil {
		t.Fatalf("ColorRow() error = %v", err)
	}
	assertBackgrounds(t, doc, "#minutes td", []string{palette[2], palette[0], palette[1]})
}

func TestColorRow_Ties(t *testing.T) {
	palette := testPalette(t, 3)

	doc := parsePage(t)
	if err := doc.ColorRow("#messages", palette, heatmap.RankFirstOccurrence); err != nil {
		t.Fatalf("ColorRow() error = %v", err)
	}
	assertBackgrounds(t, doc, "#messages td", []string{palette[1], palette[0], palette[1]})

	doc = parsePage(t)
	if err := doc.ColorRow("#messages", palette, heatmap.RankStable); err != nil {
		t.Fatalf("ColorRow() error = %v", err)
	}
	assertBackgrounds(t, doc, "#messages td", []string{palette[1], palette[0], palette[2]})
}

func TestColorRow_CurrencyCells(t *testing.T) {
	doc := parsePage(t)
	palette := testPalette(t, 3)

	if err := doc.ColorRow("#total", palette, heatmap.RankStable); err != nil {
		t.Fatalf("ColorRow() error = %v", err)
	}
	assertBackgrounds(t, doc, "#total td", []string{palette[2], palette[1], palette[0]})
}

func TestColorRow_Errors(t *testing.T) {
	tests := []struct {
		name     string
		selector string
		steps    int
		want     error
	}{
		{"missing row", "#missing", 3, heatmap.ErrNotFound},
		{"not a number", "#broken", 3, heatmap.ErrInvalidArgument},
		{"palette too short", "#minutes", 1, heatmap.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parsePage(t)
			err := doc.ColorRow(tt.selector, testPalette(t, tt.steps), heatmap.RankStable)
			if !errors.Is(err, tt.want) {
				t.Errorf("ColorRow(%s) error = %v, want %v", tt.selector, err, tt.want)
			}
		})
	}
}

func TestColorComparison(t *testing.T) {
	doc := parsePage(t)

	if err := doc.ColorComparison(totalValues, recapValues, "td"); err != nil {
		t.Fatalf("ColorComparison() error = %v", err)
	}
	assertBackgrounds(t, doc, "#total td", []string{heatmap.IncreaseColor(), heatmap.DecreaseColor(), ""})
}

func TestColorComparison_LengthMismatch(t *testing.T) {
	tests := []struct {
		previous string
		want     error
	}{
		{"tr.shared span.currency-value", heatmap.ErrInvalidArgument},
		{"#broken td span", heatmap.ErrInvalidArgument},
		{"#nope span", heatmap.ErrNotFound},
	}
	for _, tt := range tests {
		doc := parsePage(t)
		if err := doc.ColorComparison(totalValues, tt.previous, "td"); !errors.Is(err, tt.want) {
			t.Errorf("ColorComparison(%s) error = %v, want %v", tt.previous, err, tt.want)
		}
	}
}

func TestColorShared(t *testing.T) {
	doc := parsePage(t)

	if err := doc.ColorShared("tr.shared", "span.currency-value", "td"); err != nil {
		t.Fatalf("ColorShared() error = %v", err)
	}
	assertBackgrounds(t, doc, "tr.shared td", []string{heatmap.IncreaseColor(), "", "", ""})
}

func TestColorShared_OddRow(t *testing.T) {
	doc := parsePage(t)

	if err := doc.ColorShared("#minutes", "span", "td"); !errors.Is(err, heatmap.ErrInvalidArgument) {
		t.Errorf("ColorShared() error = %v, want ErrInvalidArgument", err)
	}
}

func TestApplyTheme(t *testing.T) {
	doc := parsePage(t)
	icon := doc.doc.Find("#dark_toggle i")

	if err := doc.ApplyTheme(theme.Dark, "#dark_toggle i"); err != nil {
		t.Fatalf("ApplyTheme(dark) error = %v", err)
	}
	if attr, _ := doc.doc.Find("html").Attr("data-theme"); attr != "dark" {
		t.Errorf("data-theme = %q, want dark", attr)
	}
	if !icon.HasClass("fa-sun") || icon.HasClass("fa-moon") {
		t.Errorf("dark icon class = %q, want fa-sun only", icon.AttrOr("class", ""))
	}

	if err := doc.ApplyTheme(theme.Light, "#dark_toggle i"); err != nil {
		t.Fatalf("ApplyTheme(light) error = %v", err)
	}
	if attr, _ := doc.doc.Find("html").Attr("data-theme"); attr != "" {
		t.Errorf("data-theme = %q, want empty", attr)
	}
	if !icon.HasClass("fa-moon") || icon.HasClass("fa-sun") {
		t.Errorf("light icon class = %q, want fa-moon only", icon.AttrOr("class", ""))
	}

	if err := doc.ApplyTheme(theme.Dark, "#nope i"); !errors.Is(err, heatmap.ErrNotFound) {
		t.Errorf("ApplyTheme(#nope) error = %v, want ErrNotFound", err)
	}
}

func TestActivatePanel(t *testing.T) {
	doc := parsePage(t)

	if err := doc.ActivatePanel("#panel ul li", "#panels", "usage"); err != nil {
		t.Fatalf("ActivatePanel() error = %v", err)
	}

	if doc.doc.Find(`li[data-target="charges"]`).HasClass("is-active") {
		t.Error("charges tab still active")
	}
	if !doc.doc.Find(`li[data-target="usage"]`).HasClass("is-active") {
		t.Error("usage tab not active")
	}
	if display, ok := styleOf(doc.doc.Find("#charges"), "display"); !ok || display != "none" {
		t.Errorf("charges display = %q, want none", display)
	}
	if _, ok := doc.doc.Find("#usage").Attr("style"); ok {
		t.Error("usage panel kept a style attribute")
	}

	if err := doc.ActivatePanel("#panel ul li", "#panels", "recap"); !errors.Is(err, heatmap.ErrNotFound) {
		t.Errorf("ActivatePanel(recap) error = %v, want ErrNotFound", err)
	}
}

func TestRender(t *testing.T) {
	doc := parsePage(t)
	if err := doc.ColorRow("#minutes", testPalette(t, 3), heatmap.RankStable); err != nil {
		t.Fatalf("ColorRow() error = %v", err)
	}

	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Errorf("output does not start with a doctype: %.40s", out)
	}
	if !strings.Contains(out, `style="background-color: rgb(255,63,63);"`) {
		t.Errorf("output missing colored cell: %s", out)
	}
}
