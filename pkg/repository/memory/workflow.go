package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/positonic/exponential-sync/pkg/domain/model"
)

type workflowRepository struct {
	mu        sync.RWMutex
	workflows map[string]*model.Workflow
}

func newWorkflowRepository() *workflowRepository {
	return &workflowRepository{
		workflows: make(map[string]*model.Workflow),
	}
}

func copyWorkflow(w *model.Workflow) *model.Workflow {
	c := *w
	if w.ProjectID != nil {
		pid := *w.ProjectID
		c.ProjectID = &pid
	}
	if w.FieldMapping != nil {
		m := *w.FieldMapping
		c.FieldMapping = &m
	}
	return &c
}

func (r *workflowRepository) Put(ctx context.Context, workflow *model.Workflow) (*model.Workflow, error) {
	if err := workflow.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid workflow")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	stored := copyWorkflow(workflow)
	if existing, ok := r.workflows[workflow.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	r.workflows[stored.ID] = stored
	return copyWorkflow(stored), nil
}

func (r *workflowRepository) Get(ctx context.Context, id string) (*model.Workflow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	workflow, exists := r.workflows[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "workflow not found", goerr.V("id", id))
	}

	return copyWorkflow(workflow), nil
}

func (r *workflowRepository) List(ctx context.Context) ([]*model.Workflow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	workflows := make([]*model.Workflow, 0, len(r.workflows))
	for _, workflow := range r.workflows {
		workflows = append(workflows, copyWorkflow(workflow))
	}

	return workflows, nil
}
