package interfaces

import (
	"context"

	"github.com/positonic/exponential-sync/pkg/domain/model"
)

// ProjectRepository defines the interface for Project data access
type ProjectRepository interface {
	// Create creates a new project with auto-generated ID
	Create(ctx context.Context, project *model.Project) (*model.Project, error)

	// Get retrieves a project by ID
	Get(ctx context.Context, id int64) (*model.Project, error)

	// List retrieves all projects
	List(ctx context.Context) ([]*model.Project, error)

	// Update updates an existing project
	Update(ctx context.Context, project *model.Project) (*model.Project, error)
}

// UserMappingRepository defines the interface for UserMapping data access
type UserMappingRepository interface {
	// Put creates or replaces the mapping for
	// (integrationID, externalUserID)
	Put(ctx context.Context, mapping *model.UserMapping) (*model.UserMapping, error)

	// Find resolves an external user ID to a local user mapping.
	// Returns ErrNotFound when no mapping exists.
	Find(ctx context.Context, integrationID, externalUserID string) (*model.UserMapping, error)

	// ListByIntegration retrieves all mappings for an integration
	ListByIntegration(ctx context.Context, integrationID string) ([]*model.UserMapping, error)
}
