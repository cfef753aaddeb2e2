package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/positonic/exponential-sync/pkg/domain/model"
)

type actionRepository struct {
	mu      sync.RWMutex
	actions map[int64]*model.Action
	nextID  int64
}

func newActionRepository() *actionRepository {
	return &actionRepository{
		actions: make(map[int64]*model.Action),
		nextID:  1,
	}
}

// copyAction creates a deep copy of an action
func copyAction(a *model.Action) *model.Action {
	c := *a
	if a.DueDate != nil {
		due := *a.DueDate
		c.DueDate = &due
	}
	if a.ProjectID != nil {
		pid := *a.ProjectID
		c.ProjectID = &pid
	}
	if a.AssignedToID != nil {
		uid := *a.AssignedToID
		c.AssignedToID = &uid
	}
	return &c
}

func (r *actionRepository) Create(ctx context.Context, action *model.Action) (*model.Action, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyAction(action)
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.actions[created.ID] = created
	return copyAction(created), nil
}

func (r *actionRepository) Get(ctx context.Context, id int64) (*model.Action, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	action, exists := r.actions[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "action not found", goerr.V("id", id))
	}

	return copyAction(action), nil
}

func (r *actionRepository) List(ctx context.Context) ([]*model.Action, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	actions := make([]*model.Action, 0, len(r.actions))
	for _, action := range r.actions {
		actions = append(actions, copyAction(action))
	}

	return actions, nil
}

func (r *actionRepository) ListByProject(ctx context.Context, projectID int64) ([]*model.Action, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	actions := make([]*model.Action, 0)
	for _, action := range r.actions {
		if action.ProjectID != nil && *action.ProjectID == projectID {
			actions = append(actions, copyAction(action))
		}
	}

	return actions, nil
}

func (r *actionRepository) Update(ctx context.Context, action *model.Action) (*model.Action, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.actions[action.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "action not found", goerr.V("id", action.ID))
	}

	updated := copyAction(action)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.actions[updated.ID] = updated
	return copyAction(updated), nil
}
