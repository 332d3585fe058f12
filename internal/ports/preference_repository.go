package ports

import (
	"context"

	"github.com/emiliopalmerini/billheat/internal/domain"
)

// PreferenceRepository stores per-client settings. Get returns nil, nil when
// the key was never written.
type PreferenceRepository interface {
	Get(ctx context.Context, clientID, key string) (*domain.Preference, error)
	Set(ctx context.Context, pref *domain.Preference) error
	Delete(ctx context.Context, clientID, key string) error
}
