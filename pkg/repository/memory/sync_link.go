package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/positonic/exponential-sync/pkg/domain/model"
	"github.com/positonic/exponential-sync/pkg/domain/types"
)

type syncLinkRepository struct {
	mu     sync.RWMutex
	links  map[int64]*model.SyncLink
	nextID int64
}

func newSyncLinkRepository() *syncLinkRepository {
	return &syncLinkRepository{
		links:  make(map[int64]*model.SyncLink),
		nextID: 1,
	}
}

func copySyncLink(l *model.SyncLink) *model.SyncLink {
	c := *l
	return &c
}

func (r *syncLinkRepository) Find(ctx context.Context, actionID int64, provider types.Provider) (*model.SyncLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, link := range r.links {
		if link.Invalidated {
			continue
		}
		if link.ActionID == actionID && link.Provider == provider {
			return copySyncLink(link), nil
		}
	}

	return nil, goerr.Wrap(ErrNotFound, "sync link not found",
		goerr.V("action_id", actionID), goerr.V("provider", provider))
}

func (r *syncLinkRepository) FindByExternalID(ctx context.Context, provider types.Provider, externalID string) (*model.SyncLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, link := range r.links {
		if link.Invalidated {
			continue
		}
		if link.Provider == provider && link.ExternalID == externalID {
			return copySyncLink(link), nil
		}
	}

	return nil, goerr.Wrap(ErrNotFound, "sync link not found",
		goerr.V("provider", provider), goerr.V("external_id", externalID))
}

func (r *syncLinkRepository) ListByProvider(ctx context.Context, provider types.Provider) ([]*model.SyncLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	links := make([]*model.SyncLink, 0)
	for _, link := range r.links {
		if link.Invalidated {
			continue
		}
		if link.Provider == provider {
			links = append(links, copySyncLink(link))
		}
	}

	return links, nil
}

func (r *syncLinkRepository) Upsert(ctx context.Context, link *model.SyncLink) (*model.SyncLink, error) {
	if !link.Status.IsValid() {
		return nil, goerr.New("invalid sync link status", goerr.V("status", link.Status))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Supersede any prior active link for the same (action, provider)
	for _, existing := range r.links {
		if existing.Invalidated {
			continue
		}
		if existing.ActionID == link.ActionID && existing.Provider == link.Provider {
			existing.Invalidated = true
			existing.UpdatedAt = time.Now().UTC()
		}
	}

	created := copySyncLink(link)
	created.ID = r.nextID
	created.Invalidated = false
	created.UpdatedAt = time.Now().UTC()
	r.nextID++

	r.links[created.ID] = created
	return copySyncLink(created), nil
}

func (r *syncLinkRepository) MarkDeletedRemotely(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	link, exists := r.links[id]
	if !exists || link.Invalidated {
		return goerr.Wrap(ErrNotFound, "sync link not found", goerr.V("id", id))
	}

	link.Status = types.SyncLinkDeletedRemotely
	link.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *syncLinkRepository) Invalidate(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	link, exists := r.links[id]
	if !exists || link.Invalidated {
		return goerr.Wrap(ErrNotFound, "sync link not found", goerr.V("id", id))
	}

	link.Invalidated = true
	link.UpdatedAt = time.Now().UTC()
	return nil
}
