package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/emiliopalmerini/billheat/internal/heatmap"
	"github.com/emiliopalmerini/billheat/internal/shared/middleware"
	"github.com/emiliopalmerini/billheat/internal/theme"
)

const maxPaletteSteps = 1000

type themeResponse struct {
	Dark      bool   `json:"dark"`
	Attribute string `json:"attribute"`
	Icon      string `json:"icon"`
}

func newThemeResponse(mode theme.Mode) themeResponse {
	return themeResponse{Dark: mode.IsDark(), Attribute: mode.Attribute(), Icon: mode.Icon()}
}

type paletteResponse struct {
	Steps  int      `json:"steps"`
	Colors []string `json:"colors"`
}

func (s *Server) handleAPITheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newThemeResponse(s.resolveTheme(r)))
}

func (s *Server) handleAPIToggleTheme(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	mode, err := s.theme.Toggle(ctx, middleware.Client(r), middleware.PrefersDark(r))
	if err != nil {
		s.httpError(w, r, err)
		return
	}
	s.metrics.RecordThemeToggle(ctx, mode.IsDark())

	if middleware.IsHTMX(r) {
		middleware.Refresh(w)
		writeJSON(w, http.StatusOK, newThemeResponse(mode))
		return
	}

	http.Redirect(w, r, backTo(r), http.StatusSeeOther)
}

// backTo is the referring page when it is on this host, "/" otherwise.
func backTo(r *http.Request) string {
	u, err := url.Parse(r.Referer())
	if err != nil || r.Referer() == "" {
		return "/"
	}
	if u.Host != "" && u.Host != r.Host {
		return "/"
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return "/"
	}
	return u.RequestURI()
}

func (s *Server) handleAPIPalette(w http.ResponseWriter, r *http.Request) {
	steps := s.gradient.Steps
	if raw := r.URL.Query().Get("steps"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.httpError(w, r, fmt.Errorf("%w: steps must be an integer, got %q", heatmap.ErrInvalidArgument, raw))
			return
		}
		steps = n
	} else if steps == 0 {
		s.httpError(w, r, fmt.Errorf("%w: steps is required", heatmap.ErrInvalidArgument))
		return
	}

	if steps > maxPaletteSteps {
		s.httpError(w, r, fmt.Errorf("%w: at most %d steps", heatmap.ErrInvalidArgument, maxPaletteSteps))
		return
	}

	palette, err := s.palette(steps)
	if err != nil {
		s.httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, paletteResponse{Steps: steps, Colors: palette})
}
