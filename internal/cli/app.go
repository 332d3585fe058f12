package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/emiliopalmerini/billheat/internal/adapters/turso"
	"github.com/emiliopalmerini/billheat/internal/infrastructure/config"
	"github.com/emiliopalmerini/billheat/internal/logging"
	"github.com/emiliopalmerini/billheat/internal/migrate"
	"github.com/emiliopalmerini/billheat/internal/ports"
)

// AppContext holds all shared dependencies for CLI commands.
type AppContext struct {
	Config      *config.Server
	Logger      *log.Logger
	DB          *turso.DB
	Bills       ports.BillRepository
	Preferences ports.PreferenceRepository
}

// NewAppContext loads configuration, connects to the database and applies
// pending migrations.
func NewAppContext(ctx context.Context) (*AppContext, error) {
	cfg, err := config.LoadServer()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel)

	db, err := turso.NewDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	m, err := migrate.New(db.DB, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := m.Up(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	repos := turso.NewRepositories(db.DB)
	return &AppContext{
		Config:      cfg,
		Logger:      logger,
		DB:          db,
		Bills:       repos.Bills,
		Preferences: repos.Preferences,
	}, nil
}

// Close releases all resources held by the AppContext.
func (a *AppContext) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
