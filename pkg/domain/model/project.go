package model

import (
	"time"

	"github.com/positonic/exponential-sync/pkg/domain/model/config"
	"github.com/positonic/exponential-sync/pkg/domain/types"
)

// Project groups local actions and optionally binds them to an external
// scope (a provider database or board).
type Project struct {
	ID                   int64
	Name                 string
	TaskManagementTool   types.TaskManagementTool
	TaskManagementConfig *TaskManagementConfig
	// ExternalProjectID tags which external records belong to this
	// project when a scope is shared between projects.
	ExternalProjectID string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TaskManagementConfig carries the per-project sync configuration.
type TaskManagementConfig struct {
	// ScopeID is the provider database or board identifier.
	ScopeID        string
	SyncStrategy   types.SyncStrategy
	ConflictPolicy types.ConflictPolicy
	DeletionPolicy types.DeletionPolicy
	FieldMapping   *config.FieldMapping
}
