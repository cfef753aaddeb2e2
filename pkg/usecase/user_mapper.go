package usecase

import (
	"context"

	"github.com/positonic/exponential-sync/pkg/domain/interfaces"
)

// UserMapper resolves external user identifiers to local users and back.
// One instance is created per run, so its memoization is scoped to that
// run's execution and never outlives it.
//
// Resolution failures are not errors: an unmapped external user yields a
// nil local user and the record syncs unassigned.
type UserMapper struct {
	repo          interfaces.UserMappingRepository
	integrationID string

	byExternal    map[string]*string
	byLocal       map[string]string
	reverseLoaded bool
}

func NewUserMapper(repo interfaces.UserMappingRepository, integrationID string) *UserMapper {
	return &UserMapper{
		repo:          repo,
		integrationID: integrationID,
		byExternal:    make(map[string]*string),
		byLocal:       make(map[string]string),
	}
}

// ResolveLocal returns the local user for an external user ID, nil when
// no mapping exists.
func (m *UserMapper) ResolveLocal(ctx context.Context, externalUserID string) *string {
	if externalUserID == "" {
		return nil
	}
	if local, ok := m.byExternal[externalUserID]; ok {
		return local
	}

	var local *string
	if mapping, err := m.repo.Find(ctx, m.integrationID, externalUserID); err == nil {
		id := mapping.LocalUserID
		local = &id
	}
	m.byExternal[externalUserID] = local
	return local
}

// ResolveExternal returns the external user ID for a local user, empty
// when no mapping exists. The integration's mappings are loaded once per
// run on first use.
func (m *UserMapper) ResolveExternal(ctx context.Context, localUserID string) string {
	if localUserID == "" {
		return ""
	}
	if !m.reverseLoaded {
		m.reverseLoaded = true
		mappings, err := m.repo.ListByIntegration(ctx, m.integrationID)
		if err != nil {
			return ""
		}
		for _, mapping := range mappings {
			m.byLocal[mapping.LocalUserID] = mapping.ExternalUserID
		}
	}
	return m.byLocal[localUserID]
}
