package model

import "time"

// UserMapping resolves an external user identifier to a local user.
// Assignees without a mapping are left unassigned during pull rather
// than failing the sync.
type UserMapping struct {
	ID             int64
	IntegrationID  string
	ExternalUserID string
	LocalUserID    string
	CreatedAt      time.Time
}
