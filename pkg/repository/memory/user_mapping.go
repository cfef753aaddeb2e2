package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/positonic/exponential-sync/pkg/domain/model"
)

type userMappingRepository struct {
	mu       sync.RWMutex
	mappings map[int64]*model.UserMapping
	nextID   int64
}

func newUserMappingRepository() *userMappingRepository {
	return &userMappingRepository{
		mappings: make(map[int64]*model.UserMapping),
		nextID:   1,
	}
}

func copyUserMapping(m *model.UserMapping) *model.UserMapping {
	c := *m
	return &c
}

func (r *userMappingRepository) Put(ctx context.Context, mapping *model.UserMapping) (*model.UserMapping, error) {
	if mapping.IntegrationID == "" || mapping.ExternalUserID == "" {
		return nil, goerr.New("integration ID and external user ID are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Replace an existing mapping for the same key
	for id, existing := range r.mappings {
		if existing.IntegrationID == mapping.IntegrationID &&
			existing.ExternalUserID == mapping.ExternalUserID {
			delete(r.mappings, id)
		}
	}

	created := copyUserMapping(mapping)
	created.ID = r.nextID
	created.CreatedAt = time.Now().UTC()
	r.nextID++

	r.mappings[created.ID] = created
	return copyUserMapping(created), nil
}

func (r *userMappingRepository) Find(ctx context.Context, integrationID, externalUserID string) (*model.UserMapping, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, mapping := range r.mappings {
		if mapping.IntegrationID == integrationID &&
			mapping.ExternalUserID == externalUserID {
			return copyUserMapping(mapping), nil
		}
	}

	return nil, goerr.Wrap(ErrNotFound, "user mapping not found",
		goerr.V("integration_id", integrationID),
		goerr.V("external_user_id", externalUserID))
}

func (r *userMappingRepository) ListByIntegration(ctx context.Context, integrationID string) ([]*model.UserMapping, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mappings := make([]*model.UserMapping, 0)
	for _, mapping := range r.mappings {
		if mapping.IntegrationID == integrationID {
			mappings = append(mappings, copyUserMapping(mapping))
		}
	}

	return mappings, nil
}
