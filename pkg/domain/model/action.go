package model

import (
	"time"

	"github.com/positonic/exponential-sync/pkg/domain/types"
)

// Action represents a local task. The sync engine never removes an
// action physically; deletion is a status transition to DELETED.
type Action struct {
	ID           int64
	Name         string
	Description  string
	Status       types.ActionStatus
	Priority     types.Priority
	DueDate      *time.Time
	ProjectID    *int64
	AssignedToID *string
	CreatedByID  string
	// Source records which provider the action originated from, empty
	// for actions created locally. Used by push source filtering.
	Source    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SyncedFieldsEqual reports whether the fields the sync engine reconciles
// are identical between two actions. Timestamps are deliberately not
// compared; diffing is full field equality with the remote value winning
// during pull.
func (a *Action) SyncedFieldsEqual(other *Action) bool {
	if a.Name != other.Name ||
		a.Description != other.Description ||
		a.Status != other.Status ||
		a.Priority != other.Priority {
		return false
	}
	if !equalTimePtr(a.DueDate, other.DueDate) {
		return false
	}
	if !equalInt64Ptr(a.ProjectID, other.ProjectID) {
		return false
	}
	if !equalStringPtr(a.AssignedToID, other.AssignedToID) {
		return false
	}
	return true
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func equalInt64Ptr(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
