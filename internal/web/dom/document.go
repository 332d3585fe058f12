// Package dom applies heat-map coloring, the theme and the active tab to a
// rendered HTML page.
package dom

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/emiliopalmerini/billheat/internal/heatmap"
	"github.com/emiliopalmerini/billheat/internal/theme"
)

const (
	backgroundColor = "background-color"
	activeClass     = "is-active"
)

// Document is a parsed HTML page.
type Document struct {
	doc *goquery.Document
}

func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &Document{doc: doc}, nil
}

// Render writes the whole document, doctype included.
func (d *Document) Render(w io.Writer) error {
	return goquery.Render(w, d.doc.Selection)
}

func (d *Document) find(selector string) (*goquery.Selection, error) {
	sel := d.doc.Find(selector)
	if sel.Length() == 0 {
		return nil, fmt.Errorf("%w: %q matched no element", heatmap.ErrNotFound, selector)
	}
	return sel, nil
}

// CellCount is the number of td cells under selector.
func (d *Document) CellCount(selector string) (int, error) {
	row, err := d.find(selector)
	if err != nil {
		return 0, err
	}
	return row.Find("td").Length(), nil
}

// ColorRow colors every td under selector by the rank of its value: the
// currency value span when present, the first span otherwise.
func (d *Document) ColorRow(selector string, palette heatmap.Palette, mode heatmap.RankMode) error {
	row, err := d.find(selector)
	if err != nil {
		return err
	}

	cells := row.Find("td")
	values := make([]float64, cells.Length())
	var parseErr error
	cells.EachWithBreak(func(i int, td *goquery.Selection) bool {
		values[i], parseErr = parseNumber(cellValue(td))
		return parseErr == nil
	})
	if parseErr != nil {
		return fmt.Errorf("row %q: %w", selector, parseErr)
	}

	colors, err := palette.ColorRow(values, mode)
	if err != nil {
		return fmt.Errorf("row %q: %w", selector, err)
	}

	cells.Each(func(i int, td *goquery.Selection) {
		setStyle(td, backgroundColor, colors[i])
	})
	return nil
}

// ColorComparison compares each element of currentSel with the element at
// the same position in previousSel and colors the closest containerSel
// ancestor of the current element.
func (d *Document) ColorComparison(currentSel, previousSel, containerSel string) error {
	current, err := d.find(currentSel)
	if err != nil {
		return err
	}
	previous, err := d.find(previousSel)
	if err != nil {
		return err
	}

	cur, err := parseNumbers(current)
	if err != nil {
		return fmt.Errorf("%q: %w", currentSel, err)
	}
	prev, err := parseNumbers(previous)
	if err != nil {
		return fmt.Errorf("%q: %w", previousSel, err)
	}

	changes, err := heatmap.CompareColumns(cur, prev)
	if err != nil {
		return err
	}

	current.Each(func(i int, s *goquery.Selection) {
		applyChange(s.Closest(containerSel), changes[i])
	})
	return nil
}

// ColorShared colors paired values inside each row matched by rowSel: the
// first value of every pair is compared with the second and its container
// is colored.
func (d *Document) ColorShared(rowSel, valueSel, containerSel string) error {
	rows, err := d.find(rowSel)
	if err != nil {
		return err
	}

	var rowErr error
	rows.EachWithBreak(func(_ int, row *goquery.Selection) bool {
		values := row.Find(valueSel)
		nums, err := parseNumbers(values)
		if err != nil {
			rowErr = err
			return false
		}
		changes, err := heatmap.ComparePairs(nums)
		if err != nil {
			rowErr = err
			return false
		}
		for i, change := range changes {
			applyChange(values.Eq(2*i).Closest(containerSel), change)
		}
		return true
	})
	if rowErr != nil {
		return fmt.Errorf("shared row %q: %w", rowSel, rowErr)
	}
	return nil
}

// ApplyTheme writes the data-theme attribute on the root element and swaps
// the icon classes of the toggle button.
func (d *Document) ApplyTheme(mode theme.Mode, iconSel string) error {
	icon, err := d.find(iconSel)
	if err != nil {
		return err
	}
	root, err := d.find("html")
	if err != nil {
		return err
	}

	root.SetAttr("data-theme", mode.Attribute())
	icon.RemoveClass(mode.OtherIcon()).AddClass(mode.Icon())
	return nil
}

// ActivatePanel marks the tab whose data-target is target as active and
// hides every other child of panelsSel.
func (d *Document) ActivatePanel(tabsSel, panelsSel, target string) error {
	tabs, err := d.find(tabsSel)
	if err != nil {
		return err
	}
	panels, err := d.find(panelsSel)
	if err != nil {
		return err
	}

	tab := tabs.FilterFunction(func(_ int, s *goquery.Selection) bool {
		t, _ := s.Attr("data-target")
		return t == target
	})
	if tab.Length() == 0 {
		return fmt.Errorf("%w: no tab targets %q", heatmap.ErrNotFound, target)
	}

	tabs.RemoveClass(activeClass)
	tab.AddClass(activeClass)

	panels.Children().Each(func(_ int, p *goquery.Selection) {
		if id, _ := p.Attr("id"); id == target {
			removeStyle(p, "display")
		} else {
			setStyle(p, "display", "none")
		}
	})
	return nil
}

func cellValue(td *goquery.Selection) *goquery.Selection {
	if v := td.Find("span.currency-value"); v.Length() > 0 {
		return v.First()
	}
	return td.Find("span").First()
}

func applyChange(container *goquery.Selection, change heatmap.Change) {
	if color, ok := change.Color(); ok {
		setStyle(container, backgroundColor, color)
		return
	}
	removeStyle(container, backgroundColor)
}

func parseNumbers(sel *goquery.Selection) ([]float64, error) {
	values := make([]float64, 0, sel.Length())
	for i := range sel.Nodes {
		v, err := parseNumber(sel.Eq(i))
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func parseNumber(sel *goquery.Selection) (float64, error) {
	if sel.Length() == 0 {
		return 0, fmt.Errorf("%w: cell has no value element", heatmap.ErrNotFound)
	}
	text := strings.TrimSpace(sel.Text())
	text = strings.NewReplacer(",", "", "$", "").Replace(text)

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", heatmap.ErrInvalidArgument, sel.Text())
	}
	return v, nil
}
