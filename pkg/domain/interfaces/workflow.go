package interfaces

import (
	"context"

	"github.com/positonic/exponential-sync/pkg/domain/model"
)

// WorkflowRepository defines the interface for Workflow data access
type WorkflowRepository interface {
	// Put creates or replaces a workflow by ID
	Put(ctx context.Context, workflow *model.Workflow) (*model.Workflow, error)

	// Get retrieves a workflow by ID
	Get(ctx context.Context, id string) (*model.Workflow, error)

	// List retrieves all workflows
	List(ctx context.Context) ([]*model.Workflow, error)
}

// WorkflowRunRepository is the run ledger: one append-only audit row per
// sync invocation
type WorkflowRunRepository interface {
	// Create persists a new run row
	Create(ctx context.Context, run *model.WorkflowRun) (*model.WorkflowRun, error)

	// Get retrieves a run by ID
	Get(ctx context.Context, id string) (*model.WorkflowRun, error)

	// ListByWorkflow retrieves runs for a workflow, most recent first
	ListByWorkflow(ctx context.Context, workflowID string) ([]*model.WorkflowRun, error)

	// Update finalizes or amends a run row
	Update(ctx context.Context, run *model.WorkflowRun) (*model.WorkflowRun, error)
}
