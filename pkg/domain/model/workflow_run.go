package model

import (
	"time"

	"github.com/positonic/exponential-sync/pkg/domain/types"
)

// WorkflowRun is one append-only audit row per sync invocation. A row is
// created in RUNNING state before any engine work starts and finalized
// exactly once, regardless of how many items individually failed.
// Item-level failure lives in the counters and metadata, not in the
// run's own status.
type WorkflowRun struct {
	ID          string
	WorkflowID  string
	Status      types.RunStatus
	StartedAt   time.Time
	CompletedAt *time.Time

	ItemsProcessed int
	ItemsCreated   int
	ItemsUpdated   int
	ItemsSkipped   int
	ItemsDeleted   int
	ItemsFailed    int

	ErrorMessage string
	Metadata     map[string]any
}

// SyncResult is the caller-facing outcome of one sync invocation, the
// union of the pull and push engine counters.
type SyncResult struct {
	Success bool
	RunID   string

	ItemsProcessed     int
	ItemsCreated       int
	ItemsUpdated       int
	ItemsSkipped       int
	ItemsDeleted       int
	ItemsAlreadySynced int
	ItemsFailedToSync  int

	// SkipReasons holds one human readable line per skipped or failed
	// item, for the caller to surface as an actionable list.
	SkipReasons []string
}

// Merge folds another result's counters into r.
func (r *SyncResult) Merge(other *SyncResult) {
	if other == nil {
		return
	}
	r.ItemsProcessed += other.ItemsProcessed
	r.ItemsCreated += other.ItemsCreated
	r.ItemsUpdated += other.ItemsUpdated
	r.ItemsSkipped += other.ItemsSkipped
	r.ItemsDeleted += other.ItemsDeleted
	r.ItemsAlreadySynced += other.ItemsAlreadySynced
	r.ItemsFailedToSync += other.ItemsFailedToSync
	r.SkipReasons = append(r.SkipReasons, other.SkipReasons...)
}
