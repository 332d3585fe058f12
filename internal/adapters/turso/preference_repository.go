package turso

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/emiliopalmerini/billheat/internal/domain"
)

type PreferenceRepository struct {
	db *sql.DB
}

func NewPreferenceRepository(db *sql.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

func (r *PreferenceRepository) Get(ctx context.Context, clientID, key string) (*domain.Preference, error) {
	return WithRetry(ctx, 2, func() (*domain.Preference, error) {
		var pref domain.Preference
		var updatedAt string

		err := r.db.QueryRowContext(ctx, `
			SELECT client_id, key, value, updated_at
			FROM preferences
			WHERE client_id = ? AND key = ?
		`, clientID, key).Scan(&pref.ClientID, &pref.Key, &pref.Value, &updatedAt)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to get preference: %w", err)
		}

		pref.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		return &pref, nil
	})
}

func (r *PreferenceRepository) Set(ctx context.Context, pref *domain.Preference) error {
	updatedAt := pref.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO preferences (client_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (client_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, pref.ClientID, pref.Key, pref.Value, updatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to set preference: %w", err)
	}
	return nil
}

func (r *PreferenceRepository) Delete(ctx context.Context, clientID, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM preferences WHERE client_id = ? AND key = ?`, clientID, key)
	if err != nil {
		return fmt.Errorf("failed to delete preference: %w", err)
	}
	return nil
}
