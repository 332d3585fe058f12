// Package theme resolves and toggles the per-client dark mode preference.
package theme

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/emiliopalmerini/billheat/internal/domain"
	"github.com/emiliopalmerini/billheat/internal/ports"
)

// PreferenceKey is the storage key holding the JSON-encoded dark mode flag.
const PreferenceKey = "dark_mode"

// Mode is the page theme.
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// FromDark maps the stored flag to a Mode.
func FromDark(dark bool) Mode {
	if dark {
		return Dark
	}
	return Light
}

func (m Mode) IsDark() bool { return m == Dark }

// Toggled returns the opposite mode.
func (m Mode) Toggled() Mode {
	return FromDark(!m.IsDark())
}

// Attribute is the value of the document's data-theme attribute.
func (m Mode) Attribute() string {
	if m.IsDark() {
		return "dark"
	}
	return ""
}

// Icon is the glyph class of the toggle button: a sun while dark (click for
// light), a moon while light.
func (m Mode) Icon() string {
	if m.IsDark() {
		return "fa-sun"
	}
	return "fa-moon"
}

// OtherIcon is the glyph class that must be removed when Icon is applied.
func (m Mode) OtherIcon() string {
	return m.Toggled().Icon()
}

// Service reads and writes the preference for one client at a time.
type Service struct {
	prefs ports.PreferenceRepository
	now   func() time.Time
}

func NewService(prefs ports.PreferenceRepository) *Service {
	return &Service{prefs: prefs, now: time.Now}
}

// Resolve returns the stored mode, or the ambient one when the client never
// stored a preference or the stored value is not a JSON boolean.
func (s *Service) Resolve(ctx context.Context, clientID string, ambientDark bool) (Mode, error) {
	pref, err := s.prefs.Get(ctx, clientID, PreferenceKey)
	if err != nil {
		return FromDark(ambientDark), fmt.Errorf("failed to read theme preference: %w", err)
	}
	if pref == nil {
		return FromDark(ambientDark), nil
	}

	var dark bool
	if err := json.Unmarshal([]byte(pref.Value), &dark); err != nil {
		return FromDark(ambientDark), nil
	}
	return FromDark(dark), nil
}

// Set persists mode for the client.
func (s *Service) Set(ctx context.Context, clientID string, mode Mode) error {
	value, err := json.Marshal(mode.IsDark())
	if err != nil {
		return fmt.Errorf("failed to encode theme preference: %w", err)
	}

	return s.prefs.Set(ctx, &domain.Preference{
		ClientID:  clientID,
		Key:       PreferenceKey,
		Value:     string(value),
		UpdatedAt: s.now().UTC(),
	})
}

// Toggle flips the client's mode and persists the new value.
func (s *Service) Toggle(ctx context.Context, clientID string, ambientDark bool) (Mode, error) {
	current, err := s.Resolve(ctx, clientID, ambientDark)
	if err != nil {
		return current, err
	}

	next := current.Toggled()
	if err := s.Set(ctx, clientID, next); err != nil {
		return current, fmt.Errorf("failed to save theme preference: %w", err)
	}
	return next, nil
}

// Reset forgets the stored preference so the ambient signal applies again.
func (s *Service) Reset(ctx context.Context, clientID string) error {
	return s.prefs.Delete(ctx, clientID, PreferenceKey)
}
