package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/positonic/exponential-sync/pkg/domain/model/config"
	"github.com/positonic/exponential-sync/pkg/domain/types"
)

// Workflow is a durable configuration binding one provider integration
// to a sync direction, scope and field mapping. It is independent of any
// single project but may be scoped to one. Credentials are supplied at
// invocation time and never persisted on the workflow itself.
type Workflow struct {
	ID        string
	Name      string
	Provider  types.Provider
	Direction types.SyncDirection
	// ScopeID is the provider database or board the workflow syncs.
	ScopeID   string
	ProjectID *int64
	// ExternalProjectID filters/tags which external records in the scope
	// belong to the workflow's project. Empty means the whole scope.
	ExternalProjectID string
	SyncStrategy      types.SyncStrategy
	DeletionPolicy    types.DeletionPolicy
	ConflictPolicy    types.ConflictPolicy
	FieldMapping      *config.FieldMapping
	// SkipProviderSourced excludes actions that were originally imported
	// from the same provider from push candidate selection, so pulls are
	// not re-exported.
	SkipProviderSourced bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Validate checks the workflow configuration is complete enough to run.
func (w *Workflow) Validate() error {
	if w.ID == "" {
		return goerr.New("workflow ID is required")
	}
	if !w.Provider.IsValid() {
		return goerr.New("invalid workflow provider", goerr.V("provider", w.Provider))
	}
	if !w.Direction.IsValid() {
		return goerr.New("invalid sync direction", goerr.V("direction", w.Direction))
	}
	if w.ScopeID == "" {
		return goerr.New("workflow scope ID is required", goerr.V("workflow_id", w.ID))
	}
	if w.SyncStrategy != "" && !w.SyncStrategy.IsValid() {
		return goerr.New("invalid sync strategy", goerr.V("strategy", w.SyncStrategy))
	}
	if w.DeletionPolicy != "" && !w.DeletionPolicy.IsValid() {
		return goerr.New("invalid deletion policy", goerr.V("policy", w.DeletionPolicy))
	}
	if w.ConflictPolicy != "" && !w.ConflictPolicy.IsValid() {
		return goerr.New("invalid conflict policy", goerr.V("policy", w.ConflictPolicy))
	}
	if w.FieldMapping != nil {
		if err := w.FieldMapping.Validate(); err != nil {
			return goerr.Wrap(err, "invalid field mapping", goerr.V("workflow_id", w.ID))
		}
	}
	return nil
}

// Strategy returns the effective sync strategy, defaulting to manual.
func (w *Workflow) Strategy() types.SyncStrategy {
	if w.SyncStrategy == "" {
		return types.SyncStrategyManual
	}
	return w.SyncStrategy
}

// Deletion returns the effective deletion policy, defaulting to
// mark_deleted.
func (w *Workflow) Deletion() types.DeletionPolicy {
	if w.DeletionPolicy == "" {
		return types.DeletionPolicyMarkDeleted
	}
	return w.DeletionPolicy
}

// Conflict returns the effective conflict policy, defaulting to
// local_wins.
func (w *Workflow) Conflict() types.ConflictPolicy {
	if w.ConflictPolicy == "" {
		return types.ConflictPolicyLocalWins
	}
	return w.ConflictPolicy
}

// Mapping returns the effective field mapping, defaulting to the
// one-to-one mapping.
func (w *Workflow) Mapping() *config.FieldMapping {
	if w.FieldMapping == nil {
		return config.DefaultFieldMapping()
	}
	return w.FieldMapping
}
