package middleware

import (
	"context"
	"net/http"
	"strings"
)

// ColorSchemeHeader is the client hint carrying the browser's preferred
// color scheme.
const ColorSchemeHeader = "Sec-CH-Prefers-Color-Scheme"

const colorSchemeKey contextKey = "color_scheme"

// ColorScheme asks the browser for the color scheme hint and records whether
// it prefers dark.
func ColorScheme(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Accept-CH", ColorSchemeHeader)
		w.Header().Add("Vary", ColorSchemeHeader)
		w.Header().Set("Critical-CH", ColorSchemeHeader)

		ctx := context.WithValue(r.Context(), colorSchemeKey, prefersDark(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PrefersDark reports the ambient signal recorded by ColorScheme.
func PrefersDark(r *http.Request) bool {
	if v, ok := r.Context().Value(colorSchemeKey).(bool); ok {
		return v
	}
	return prefersDark(r)
}

func prefersDark(r *http.Request) bool {
	v := strings.Trim(strings.TrimSpace(r.Header.Get(ColorSchemeHeader)), `"`)
	return strings.EqualFold(v, "dark")
}
