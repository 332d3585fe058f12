package turso_test

import (
	"context"
	"testing"

	"github.com/emiliopalmerini/billheat/internal/adapters/turso"
	"github.com/emiliopalmerini/billheat/internal/domain"
)

func TestPreferenceRepository_GetMissing(t *testing.T) {
	repo := turso.NewPreferenceRepository(testDB(t))

	got, err := repo.Get(context.Background(), "client-1", "dark_mode")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Errorf("Get() = %+v, want nil", got)
	}
}

func TestPreferenceRepository_SetUpserts(t *testing.T) {
	repo := turso.NewPreferenceRepository(testDB(t))
	ctx := context.Background()

	for _, value := range []string{"true", "false"} {
		pref := &domain.Preference{ClientID: "client-1", Key: "dark_mode", Value: value}
		if err := repo.Set(ctx, pref); err != nil {
			t.Fatalf("Set(%s) error = %v", value, err)
		}
	}

	got, err := repo.Get(ctx, "client-1", "dark_mode")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil || got.Value != "false" {
		t.Fatalf("Get() = %+v, want value false", got)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("UpdatedAt is zero")
	}
}

func TestPreferenceRepository_ClientsAreIsolated(t *testing.T) {
	repo := turso.NewPreferenceRepository(testDB(t))
	ctx := context.Background()

	if err := repo.Set(ctx, &domain.Preference{ClientID: "a", Key: "dark_mode", Value: "true"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := repo.Get(ctx, "b", "dark_mode")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Errorf("Get(b) = %+v, want nil", got)
	}

	if err := repo.Delete(ctx, "a", "dark_mode"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	got, err = repo.Get(ctx, "a", "dark_mode")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Errorf("Get(a) after Delete = %+v, want nil", got)
	}
}
