package model

import (
	"time"

	"github.com/positonic/exponential-sync/pkg/domain/types"
)

// SyncLink is the durable association between a local action and one
// external record. It is the sole source of truth for whether an action
// has been synchronized with a provider, and in which state.
//
// At most one active link may exist per (ActionID, Provider).
// Re-creation after a failed or deleted_remotely state supersedes the
// prior link; superseded links are invalidated rather than removed so
// the history stays auditable.
type SyncLink struct {
	ID       int64
	ActionID int64
	Provider types.Provider
	// ScopeID is the provider database or board the external record
	// lives in. Deletion detection only considers links of the scope
	// being listed; an absent record proves nothing about other scopes.
	ScopeID     string
	ExternalID  string
	Status      types.SyncLinkStatus
	Invalidated bool
	UpdatedAt   time.Time
}

// IsActive reports whether the link is the current association for its
// (ActionID, Provider) pair.
func (l *SyncLink) IsActive() bool {
	return !l.Invalidated
}
