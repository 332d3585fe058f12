package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type declaration struct {
	property string
	value    string
}

func parseStyle(style string) []declaration {
	var decls []declaration
	for _, part := range strings.Split(style, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		if prop == "" {
			continue
		}
		decls = append(decls, declaration{property: prop, value: strings.TrimSpace(value)})
	}
	return decls
}

func formatStyle(decls []declaration) string {
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d.property + ": " + d.value + ";"
	}
	return strings.Join(parts, " ")
}

// setStyle sets one inline style property on every element of sel, keeping
// the other declarations in place.
func setStyle(sel *goquery.Selection, property, value string) {
	sel.Each(func(_ int, s *goquery.Selection) {
		style, _ := s.Attr("style")
		decls := parseStyle(style)

		found := false
		for i := range decls {
			if decls[i].property == property {
				decls[i].value = value
				found = true
			}
		}
		if !found {
			decls = append(decls, declaration{property: property, value: value})
		}
		s.SetAttr("style", formatStyle(decls))
	})
}

// removeStyle drops property from the inline style, and the attribute itself
// once it is empty.
func removeStyle(sel *goquery.Selection, property string) {
	sel.Each(func(_ int, s *goquery.Selection) {
		style, ok := s.Attr("style")
		if !ok {
			return
		}

		var kept []declaration
		for _, d := range parseStyle(style) {
			if d.property != property {
				kept = append(kept, d)
			}
		}
		if len(kept) == 0 {
			s.RemoveAttr("style")
			return
		}
		s.SetAttr("style", formatStyle(kept))
	})
}

func styleOf(sel *goquery.Selection, property string) (string, bool) {
	style, _ := sel.Attr("style")
	for _, d := range parseStyle(style) {
		if d.property == property {
			return d.value, true
		}
	}
	return "", false
}
