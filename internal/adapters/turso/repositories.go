package turso

import (
	"database/sql"

	"github.com/emiliopalmerini/billheat/internal/ports"
)

// Repositories holds all turso repository implementations as port interfaces.
type Repositories struct {
	Bills       ports.BillRepository
	Preferences ports.PreferenceRepository
}

// NewRepositories creates all turso repository implementations from a database connection.
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Bills:       NewBillRepository(db),
		Preferences: NewPreferenceRepository(db),
	}
}
