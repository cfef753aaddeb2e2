package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/positonic/exponential-sync/pkg/domain/model"
)

type workflowRunRepository struct {
	mu   sync.RWMutex
	runs map[string]*model.WorkflowRun
}

func newWorkflowRunRepository() *workflowRunRepository {
	return &workflowRunRepository{
		runs: make(map[string]*model.WorkflowRun),
	}
}

func copyWorkflowRun(run *model.WorkflowRun) *model.WorkflowRun {
	c := *run
	if run.CompletedAt != nil {
		completed := *run.CompletedAt
		c.CompletedAt = &completed
	}
	if run.Metadata != nil {
		c.Metadata = make(map[string]any, len(run.Metadata))
		for k, v := range run.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}

func (r *workflowRunRepository) Create(ctx context.Context, run *model.WorkflowRun) (*model.WorkflowRun, error) {
	if run.ID == "" {
		return nil, goerr.New("workflow run ID is required")
	}
	if !run.Status.IsValid() {
		return nil, goerr.New("invalid run status", goerr.V("status", run.Status))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.runs[run.ID]; exists {
		return nil, goerr.New("workflow run already exists", goerr.V("id", run.ID))
	}

	created := copyWorkflowRun(run)
	r.runs[created.ID] = created
	return copyWorkflowRun(created), nil
}

func (r *workflowRunRepository) Get(ctx context.Context, id string) (*model.WorkflowRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, exists := r.runs[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "workflow run not found", goerr.V("id", id))
	}

	return copyWorkflowRun(run), nil
}

func (r *workflowRunRepository) ListByWorkflow(ctx context.Context, workflowID string) ([]*model.WorkflowRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	runs := make([]*model.WorkflowRun, 0)
	for _, run := range r.runs {
		if run.WorkflowID == workflowID {
			runs = append(runs, copyWorkflowRun(run))
		}
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})

	return runs, nil
}

func (r *workflowRunRepository) Update(ctx context.Context, run *model.WorkflowRun) (*model.WorkflowRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.runs[run.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "workflow run not found", goerr.V("id", run.ID))
	}

	// A finalized run must not be finalized again
	if existing.Status.IsTerminal() {
		return nil, goerr.New("workflow run already finalized",
			goerr.V("id", run.ID), goerr.V("status", existing.Status))
	}

	updated := copyWorkflowRun(run)
	updated.StartedAt = existing.StartedAt

	r.runs[updated.ID] = updated
	return copyWorkflowRun(updated), nil
}
