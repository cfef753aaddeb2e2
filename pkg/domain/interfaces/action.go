package interfaces

import (
	"context"

	"github.com/positonic/exponential-sync/pkg/domain/model"
)

// ActionRepository defines the interface for Action data access
type ActionRepository interface {
	// Create creates a new action with auto-generated ID
	Create(ctx context.Context, action *model.Action) (*model.Action, error)

	// Get retrieves an action by ID
	Get(ctx context.Context, id int64) (*model.Action, error)

	// List retrieves all actions
	List(ctx context.Context) ([]*model.Action, error)

	// ListByProject retrieves all actions belonging to a project
	ListByProject(ctx context.Context, projectID int64) ([]*model.Action, error)

	// Update updates an existing action
	Update(ctx context.Context, action *model.Action) (*model.Action, error)
}
