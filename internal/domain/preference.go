package domain

import "time"

// Preference is a single persisted key/value setting owned by one client.
type Preference struct {
	ClientID  string
	Key       string
	Value     string // JSON-encoded
	UpdatedAt time.Time
}
